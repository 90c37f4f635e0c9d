package storefront

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ProductDetailsModel is the model name the product details widget reads its data from.
const ProductDetailsModel = "ProductDetails"

// DefaultLocale is the label set key used for every locale the page does not override.
const DefaultLocale = "default"

type Outcome int

const (
	OutcomeFailed Outcome = iota
	// OutcomeMounted means the widget configuration was handed to the Mounter.
	OutcomeMounted
	// OutcomeRedirected means the product was missing and the error page was requested.
	OutcomeRedirected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMounted:
		return "mounted"
	case OutcomeRedirected:
		return "redirected"
	default:
		return "failed"
	}
}

// LabelSet maps a locale key to its placeholder texts.
type LabelSet map[string]map[string]string

// Model is the initial data of one widget entity plus the transform applied when the
// widget reads it.
type Model struct {
	InitialData *Product                   `json:"initialData"`
	Transformer func(p *Product) *Product `json:"-"`
}

// Data returns the initial data with the transformer applied.
func (m Model) Data() *Product {
	if m.Transformer == nil {
		return m.InitialData
	}
	return m.Transformer(m.InitialData)
}

// MountConfig is what the product details widget is mounted with.
type MountConfig struct {
	SKU              string           `json:"sku"`
	OptionsUIDs      []string         `json:"optionsUIDs,omitempty"`
	LangDefinitions  LabelSet         `json:"langDefinitions"`
	Models           map[string]Model `json:"models"`
	ACDL             bool             `json:"acdl"`
	PersistURLParams bool             `json:"persistURLParams"`
}

type Mounter interface {
	Mount(ctx context.Context, cfg MountConfig) error
}

// Redirector sends the visitor to the generic error page.
type Redirector interface {
	RedirectToError(ctx context.Context)
}

// Settings are fixed for the lifetime of an Initializer.
type Settings struct {
	ACDL             bool
	PersistURLParams bool
	PreloadScripts   []string
	Assets           AssetURLProvider
}

// Page carries everything one page load needs besides the shared client.
type Page struct {
	SKU         string
	OptionsUIDs []string
	Document    MetadataReader
	Hints       Preloader
	Mounter     Mounter
	Redirector  Redirector
}

// Initializer bootstraps product detail pages against one configured client.
type Initializer struct {
	client   *Client
	settings Settings
}

func NewInitializer(client *Client, settings Settings) *Initializer {
	if settings.Assets == nil {
		settings.Assets = PassthroughAssets{}
	}
	if settings.PreloadScripts == nil {
		settings.PreloadScripts = DefaultPreloadScripts
	}
	return &Initializer{client: client, settings: settings}
}

type discardHints struct{}

func (discardHints) Preload(PreloadTask) {}

// InitializePage preloads the page assets, fetches the product and its labels
// concurrently and mounts the product details widget. A missing product redirects to
// the error page instead. Fetch errors are returned without mounting or redirecting.
func (in *Initializer) InitializePage(ctx context.Context, page Page) (Outcome, error) {
	if page.Mounter == nil || page.Redirector == nil {
		return OutcomeFailed, errors.New("page needs a mounter and a redirector")
	}
	hints := page.Hints
	if hints == nil {
		hints = discardHints{}
	}

	logger := log.WithField("sku", page.SKU)

	preloaded := make(chan struct{})
	go func() {
		defer close(preloaded)
		PreloadAssets(page.Document, hints, in.settings.PreloadScripts)
	}()
	// Hints are flushed with the mounted page, so wait for them before leaving.
	defer func() { <-preloaded }()

	var (
		product      *Product
		placeholders map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := in.client.Product.GetWithVideos(gctx, page.SKU, FetchOptions{OptionsUIDs: page.OptionsUIDs})
		if err != nil {
			return fmt.Errorf("fetch product: %w", err)
		}
		middleware := ImagePreloader{Assets: in.settings.Assets, Hints: hints}
		product = middleware.Process(gctx, p)
		return nil
	})

	g.Go(func() error {
		labels, err := in.client.Placeholders.Fetch(gctx)
		if err != nil {
			return fmt.Errorf("fetch placeholders: %w", err)
		}
		placeholders = labels
		return nil
	})

	if err := g.Wait(); err != nil {
		return OutcomeFailed, err
	}

	<-preloaded

	if product == nil || product.SKU == "" {
		logger.Info("product not found, redirecting to error page")
		page.Redirector.RedirectToError(ctx)
		return OutcomeRedirected, nil
	}

	cfg := MountConfig{
		SKU:             page.SKU,
		OptionsUIDs:     page.OptionsUIDs,
		LangDefinitions: newLabelSet(placeholders),
		Models: map[string]Model{
			ProductDetailsModel: {
				InitialData: product,
				Transformer: TransformProduct,
			},
		},
		ACDL:             in.settings.ACDL,
		PersistURLParams: in.settings.PersistURLParams,
	}

	if err := page.Mounter.Mount(ctx, cfg); err != nil {
		return OutcomeFailed, fmt.Errorf("mount product details: %w", err)
	}

	return OutcomeMounted, nil
}

func newLabelSet(placeholders map[string]string) LabelSet {
	labels := make(map[string]string, len(placeholders))
	for k, v := range placeholders {
		labels[k] = v
	}
	return LabelSet{DefaultLocale: labels}
}
