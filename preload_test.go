package storefront

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreloadAssetsHintsScriptsAndMainImage(t *testing.T) {
	hints := NewHintSet()
	doc := parseDocument(t, `<meta property="og:image" content="https://cdn/hero.jpg">`)

	PreloadAssets(doc, hints, []string{"/a.js", "/b.js"})

	assert.Equal(t, []PreloadTask{
		{URL: "/a.js", Kind: KindScript},
		{URL: "/b.js", Kind: KindScript},
		{URL: "https://cdn/hero.jpg", Kind: KindImage},
	}, hints.Tasks())
}

func TestPreloadAssetsWithoutImageOnlyHintsScripts(t *testing.T) {
	hints := NewHintSet()
	PreloadAssets(EmptyDocument(), hints, []string{"/a.js"})
	assert.Equal(t, []PreloadTask{{URL: "/a.js", Kind: KindScript}}, hints.Tasks())
}

func TestHintSetDeduplicatesConcurrentHints(t *testing.T) {
	hints := NewHintSet()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hints.Preload(PreloadTask{URL: "/same.js", Kind: KindScript})
			hints.Preload(PreloadTask{URL: "", Kind: KindImage})
		}()
	}
	wg.Wait()
	assert.Len(t, hints.Tasks(), 1)
}

func TestHintSetWriteLinkHeader(t *testing.T) {
	h := http.Header{}
	NewHintSet().WriteLinkHeader(h)
	assert.Empty(t, h.Get("Link"))

	hints := NewHintSet()
	hints.Preload(PreloadTask{URL: "/a.js", Kind: KindScript})
	hints.Preload(PreloadTask{URL: "//cdn/i.jpg", Kind: KindImage})
	hints.WriteLinkHeader(h)

	assert.Equal(t, "</a.js>; rel=preload; as=script; crossorigin=anonymous, <//cdn/i.jpg>; rel=preload; as=image", h.Get("Link"))
}
