package storefront

import (
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// MetadataReader exposes the structured metadata of the host page.
type MetadataReader interface {
	// JSONLD returns the raw content of the first application/ld+json script.
	JSONLD() (string, bool)
	// Meta returns the content of the named meta tag. Names containing a colon are
	// matched on the property attribute, others on name.
	Meta(name string) string
}

// Document is a MetadataReader over a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

var _ MetadataReader = &Document{}

// NewDocument parses an HTML page.
func NewDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// EmptyDocument has no metadata at all.
func EmptyDocument() *Document {
	return &Document{}
}

func (d *Document) JSONLD() (string, bool) {
	if d == nil || d.doc == nil {
		return "", false
	}
	sel := d.doc.Find(`script[type="application/ld+json"]`).First()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Text(), true
}

func (d *Document) Meta(name string) string {
	if d == nil || d.doc == nil || name == "" {
		return ""
	}
	attr := "name"
	if strings.Contains(name, ":") {
		attr = "property"
	}

	var contents []string
	d.doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		if v, _ := s.Attr(attr); v != name {
			return
		}
		if content, ok := s.Attr("content"); ok {
			contents = append(contents, content)
		}
	})
	return strings.Join(contents, ", ")
}

// LazyDocument is a MetadataReader that loads its page the first time it is read.
// Loading happens at most once, on the goroutine that reads it first.
type LazyDocument struct {
	load func() MetadataReader
	once sync.Once
	doc  MetadataReader
}

var _ MetadataReader = &LazyDocument{}

func NewLazyDocument(load func() MetadataReader) *LazyDocument {
	return &LazyDocument{load: load}
}

func (d *LazyDocument) reader() MetadataReader {
	d.once.Do(func() {
		if d.load != nil {
			d.doc = d.load()
		}
		if d.doc == nil {
			d.doc = EmptyDocument()
		}
	})
	return d.doc
}

func (d *LazyDocument) JSONLD() (string, bool) { return d.reader().JSONLD() }

func (d *LazyDocument) Meta(name string) string { return d.reader().Meta(name) }

// imageLookup is one step of the main image fallback chain.
type imageLookup func(doc MetadataReader) (string, bool)

// firstMatch runs lookups in order and stops at the first one that yields a value.
func firstMatch(lookups ...imageLookup) imageLookup {
	return func(doc MetadataReader) (string, bool) {
		for _, lookup := range lookups {
			if v, ok := lookup(doc); ok {
				return v, true
			}
		}
		return "", false
	}
}

func metaLookup(name string) imageLookup {
	return func(doc MetadataReader) (string, bool) {
		v := strings.TrimSpace(doc.Meta(name))
		return v, v != ""
	}
}

func productJSONLDLookup(doc MetadataReader) (string, bool) {
	raw, ok := doc.JSONLD()
	if !ok {
		return "", false
	}

	var ld struct {
		Type  any             `json:"@type"`
		Image json.RawMessage `json:"image"`
	}
	if err := json.Unmarshal([]byte(raw), &ld); err != nil {
		log.WithError(err).Debug("could not parse json-ld")
		return "", false
	}
	if !isProductType(ld.Type) {
		return "", false
	}

	v := imageValue(ld.Image)
	return v, v != ""
}

func isProductType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Product"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

// imageValue accepts the schema.org image shapes: a URL, a list of URLs or an
// ImageObject.
func imageValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return ""
		}
		return imageValue(list[0])
	}

	var obj struct {
		URL        string `json:"url"`
		ContentURL string `json:"contentUrl"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.URL != "" {
			return obj.URL
		}
		return obj.ContentURL
	}

	return ""
}

var mainImageLookup = firstMatch(
	productJSONLDLookup,
	metaLookup("og:image"),
	metaLookup("image"),
)

// MainImageURL returns the hero image of the page, or "" when the page declares none.
func MainImageURL(doc MetadataReader) string {
	if doc == nil {
		return ""
	}
	v, _ := mainImageLookup(doc)
	return v
}
