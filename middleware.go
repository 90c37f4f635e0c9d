package storefront

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

var leadingScheme = regexp.MustCompile(`^https?:`)

// AssetURLProvider turns an image source into the URL the page should request.
type AssetURLProvider interface {
	ImageURL(src string) string
}

// PassthroughAssets requests images as the catalog returns them.
type PassthroughAssets struct{}

func (PassthroughAssets) ImageURL(src string) string { return src }

// OptimizedAssets rewrites image URLs for the optimized delivery service. The sizing
// parameters are cleared so the delivery service picks the rendition.
type OptimizedAssets struct {
	// Params are merged into every rewritten URL, e.g. format=webp.
	Params url.Values
}

var sizingParams = []string{"width", "height"}

func (o OptimizedAssets) ImageURL(src string) string {
	relative := strings.HasPrefix(src, "//")
	parseable := src
	if relative {
		parseable = "https:" + src
	}

	u, err := url.Parse(parseable)
	if err != nil {
		log.WithError(err).WithField("url", src).Debug("could not parse asset url, using it as is")
		return src
	}

	q := u.Query()
	for _, p := range sizingParams {
		q.Del(p)
	}
	for k, vs := range o.Params {
		if len(vs) > 0 {
			q.Set(k, vs[0])
		}
	}
	u.RawQuery = q.Encode()

	out := u.String()
	if relative {
		out = strings.TrimPrefix(out, "https:")
	}
	return out
}

// NewAssetURLProvider selects the provider for the deployment.
func NewAssetURLProvider(optimized bool, params url.Values) AssetURLProvider {
	if optimized {
		return OptimizedAssets{Params: params}
	}
	return PassthroughAssets{}
}

// ImagePreloader warms the first gallery image of a freshly fetched product so the
// browser has it by the time the gallery renders.
type ImagePreloader struct {
	Assets AssetURLProvider
	Hints  Preloader
}

// Process hints the first image of p and returns p unchanged. Nothing is hinted once
// ctx is done.
func (m ImagePreloader) Process(ctx context.Context, p *Product) *Product {
	if p == nil || len(p.Images) == 0 || p.Images[0].URL == "" || m.Hints == nil {
		return p
	}
	if ctx.Err() != nil {
		return p
	}

	src := leadingScheme.ReplaceAllString(p.Images[0].URL, "")
	if m.Assets != nil {
		src = m.Assets.ImageURL(src)
	}

	m.Hints.Preload(PreloadTask{URL: src, Kind: KindImage})
	return p
}
