package httpserver

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	storefront "github.com/corneliu-iancu/rowan-store"
)

// ContentLoader fetches the authored host page for a product URL so its metadata can
// be read. It is best effort: any failure yields an empty document.
type ContentLoader struct {
	origin     string
	httpClient *http.Client
}

func NewContentLoader(origin string, httpClient *http.Client) *ContentLoader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ContentLoader{origin: strings.TrimRight(origin, "/"), httpClient: httpClient}
}

// Lazy defers Document until the page metadata is first read, so the fetch runs on
// whichever goroutine needs it.
func (c *ContentLoader) Lazy(ctx context.Context, path string) *storefront.LazyDocument {
	return storefront.NewLazyDocument(func() storefront.MetadataReader {
		return c.Document(ctx, path)
	})
}

func (c *ContentLoader) Document(ctx context.Context, path string) *storefront.Document {
	if c == nil || c.origin == "" {
		return storefront.EmptyDocument()
	}

	logger := log.WithField("path", path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.origin+path, nil)
	if err != nil {
		logger.WithError(err).Warn("could not build content request")
		return storefront.EmptyDocument()
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Warn("could not fetch content page")
		return storefront.EmptyDocument()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.WithField("status", resp.StatusCode).Debug("content page unavailable")
		return storefront.EmptyDocument()
	}

	doc, err := storefront.NewDocument(resp.Body)
	if err != nil {
		logger.WithError(err).Warn("could not parse content page")
		return storefront.EmptyDocument()
	}
	return doc
}
