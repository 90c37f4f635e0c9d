package httpserver

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"

	storefront "github.com/corneliu-iancu/rowan-store"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Options configure the product page server.
type Options struct {
	// ErrorPath is where visitors land when the product cannot be found.
	ErrorPath string
	Content   *ContentLoader
}

// Server serves product detail pages.
type Server struct {
	initializer *storefront.Initializer
	content     *ContentLoader
	errorPath   string
	policy      *bluemonday.Policy
	tmpl        *template.Template
}

func New(initializer *storefront.Initializer, opts Options) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	if opts.ErrorPath == "" {
		opts.ErrorPath = "/404"
	}
	return &Server{
		initializer: initializer,
		content:     opts.Content,
		errorPath:   opts.ErrorPath,
		policy:      bluemonday.UGCPolicy(),
		tmpl:        tmpl,
	}, nil
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(middleware.RealIP)
	r.Use(Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	r.Get("/products/{urlKey}/{sku}", s.ProductPage)
	r.Get(s.errorPath, s.ErrorPage)
	r.NotFound(s.ErrorPage)

	return r
}

// ProductPage bootstraps the product details widget for the requested product.
func (s *Server) ProductPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sku := storefront.SKUFromPath(r.URL.Path)
	hints := storefront.NewHintSet()
	view := &pageView{srv: s, w: w, r: r, hints: hints}

	outcome, err := s.initializer.InitializePage(ctx, storefront.Page{
		SKU:         sku,
		OptionsUIDs: storefront.OptionsUIDsFromQuery(r.URL.Query()),
		Document:    s.content.Lazy(ctx, r.URL.Path),
		Hints:       hints,
		Mounter:     view,
		Redirector:  view,
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"sku":        sku,
			"request_id": middleware.GetReqID(ctx),
		}).Error("product page bootstrap failed")
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	log.WithFields(log.Fields{"sku": sku, "outcome": outcome.String()}).Debug("product page bootstrapped")
}

// ErrorPage renders the generic not found page.
func (s *Server) ErrorPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := s.tmpl.ExecuteTemplate(w, "error", nil); err != nil {
		log.WithError(err).Error("render error page")
	}
}

// NewHTTPServer wraps the routes with the timeouts used in production.
func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
