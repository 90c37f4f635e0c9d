package storefront

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDocument(t *testing.T, head string) *Document {
	t.Helper()
	doc, err := NewDocument(strings.NewReader("<html><head>" + head + "</head><body></body></html>"))
	require.NoError(t, err)
	return doc
}

func TestMainImageURL(t *testing.T) {
	const (
		og   = `<meta property="og:image" content="https://cdn/og.jpg">`
		meta = `<meta name="image" content="https://cdn/meta.jpg">`
	)

	cases := []struct {
		name string
		head string
		want string
	}{
		{
			name: "product json-ld wins",
			head: `<script type="application/ld+json">{"@type":"Product","image":"https://cdn/ld.jpg"}</script>` + og + meta,
			want: "https://cdn/ld.jpg",
		},
		{
			name: "json-ld image list",
			head: `<script type="application/ld+json">{"@type":"Product","image":["https://cdn/1.jpg","https://cdn/2.jpg"]}</script>`,
			want: "https://cdn/1.jpg",
		},
		{
			name: "json-ld image object",
			head: `<script type="application/ld+json">{"@type":"Product","image":{"@type":"ImageObject","url":"https://cdn/obj.jpg"}}</script>`,
			want: "https://cdn/obj.jpg",
		},
		{
			name: "other json-ld type falls back to og",
			head: `<script type="application/ld+json">{"@type":"Organization","image":"https://cdn/org.jpg"}</script>` + og + meta,
			want: "https://cdn/og.jpg",
		},
		{
			name: "broken json-ld falls back to og",
			head: `<script type="application/ld+json">{"@type":"Product",</script>` + og,
			want: "https://cdn/og.jpg",
		},
		{
			name: "product without image falls back",
			head: `<script type="application/ld+json">{"@type":"Product"}</script>` + meta,
			want: "https://cdn/meta.jpg",
		},
		{
			name: "no json-ld uses og",
			head: og + meta,
			want: "https://cdn/og.jpg",
		},
		{
			name: "image meta last",
			head: meta,
			want: "https://cdn/meta.jpg",
		},
		{
			name: "nothing",
			head: `<title>x</title>`,
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MainImageURL(parseDocument(t, tc.head)))
		})
	}
}

func TestMainImageURLWithoutDocument(t *testing.T) {
	assert.Empty(t, MainImageURL(nil))
	assert.Empty(t, MainImageURL(EmptyDocument()))
}

func TestDocumentMetaMatchesAttributeByName(t *testing.T) {
	doc := parseDocument(t, `<meta name="og:image" content="wrong"><meta property="og:image" content="right"><meta name="sku" content="A"><meta name="sku" content="B">`)
	assert.Equal(t, "right", doc.Meta("og:image"))
	assert.Equal(t, "A, B", doc.Meta("sku"))
	assert.Empty(t, doc.Meta("missing"))
}

func TestFirstMatchStopsAtFirstHit(t *testing.T) {
	calls := 0
	miss := func(MetadataReader) (string, bool) { calls++; return "", false }
	hit := func(MetadataReader) (string, bool) { calls++; return "x", true }
	never := func(MetadataReader) (string, bool) { t.Fatal("lookup after a match ran"); return "", false }

	v, ok := firstMatch(miss, hit, never)(EmptyDocument())
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, 2, calls)
}

func TestLazyDocumentLoadsOnce(t *testing.T) {
	loads := 0
	doc := NewLazyDocument(func() MetadataReader {
		loads++
		return parseDocument(t, `<meta property="og:image" content="https://cdn/og.jpg">`)
	})
	assert.Equal(t, 0, loads)

	assert.Equal(t, "https://cdn/og.jpg", MainImageURL(doc))
	assert.Equal(t, "https://cdn/og.jpg", doc.Meta("og:image"))
	assert.Equal(t, 1, loads)
}

func TestLazyDocumentWithoutPage(t *testing.T) {
	doc := NewLazyDocument(func() MetadataReader { return nil })
	_, ok := doc.JSONLD()
	assert.False(t, ok)
	assert.Equal(t, "", MainImageURL(doc))
}
