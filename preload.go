package storefront

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

type ResourceKind string

const (
	KindScript ResourceKind = "script"
	KindImage  ResourceKind = "image"
)

// PreloadTask asks the browser to fetch URL early.
type PreloadTask struct {
	URL  string
	Kind ResourceKind
}

// LinkValue renders the task as a Link header value.
func (t PreloadTask) LinkValue() string {
	v := fmt.Sprintf("<%s>; rel=preload; as=%s", t.URL, t.Kind)
	if t.Kind == KindScript {
		v += "; crossorigin=anonymous"
	}
	return v
}

// Preloader schedules preload hints. Implementations must be safe for concurrent use.
type Preloader interface {
	Preload(task PreloadTask)
}

// DefaultPreloadScripts are the product details bundles every product page loads.
var DefaultPreloadScripts = []string{
	"/scripts/__dropins__/storefront-pdp/api.js",
	"/scripts/__dropins__/storefront-pdp/render.js",
	"/scripts/__dropins__/storefront-pdp/containers/ProductHeader.js",
	"/scripts/__dropins__/storefront-pdp/containers/ProductPrice.js",
	"/scripts/__dropins__/storefront-pdp/containers/ProductShortDescription.js",
	"/scripts/__dropins__/storefront-pdp/containers/ProductOptions.js",
	"/scripts/__dropins__/storefront-pdp/containers/ProductQuantity.js",
	"/scripts/__dropins__/storefront-pdp/containers/ProductDescription.js",
	"/scripts/__dropins__/storefront-pdp/containers/ProductAttributes.js",
	"/scripts/__dropins__/storefront-pdp/containers/ProductGallery.js",
}

// PreloadAssets hints the product details bundles and the page's main image.
func PreloadAssets(doc MetadataReader, p Preloader, scripts []string) {
	for _, src := range scripts {
		p.Preload(PreloadTask{URL: src, Kind: KindScript})
	}

	img := MainImageURL(doc)
	if img == "" {
		log.Warn("no main image found on page, skipping image preload")
		return
	}
	p.Preload(PreloadTask{URL: img, Kind: KindImage})
}

// HintSet collects preload tasks for a single page response. Duplicate URLs are kept
// once, in first-seen order.
type HintSet struct {
	mu    sync.Mutex
	tasks []PreloadTask
	seen  map[string]struct{}
}

var _ Preloader = &HintSet{}

func NewHintSet() *HintSet {
	return &HintSet{seen: map[string]struct{}{}}
}

func (h *HintSet) Preload(task PreloadTask) {
	if task.URL == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.seen[task.URL]; ok {
		return
	}
	h.seen[task.URL] = struct{}{}
	h.tasks = append(h.tasks, task)
}

// Tasks returns a snapshot of the collected tasks.
func (h *HintSet) Tasks() []PreloadTask {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]PreloadTask(nil), h.tasks...)
}

// WriteLinkHeader adds the collected hints to the response headers.
func (h *HintSet) WriteLinkHeader(header http.Header) {
	tasks := h.Tasks()
	if len(tasks) == 0 {
		return
	}
	values := make([]string, len(tasks))
	for i, t := range tasks {
		values[i] = t.LinkValue()
	}
	header.Add("Link", strings.Join(values, ", "))
}
