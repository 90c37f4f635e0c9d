package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"

	storefront "github.com/corneliu-iancu/rowan-store"
)

// renderedModel is a widget model as serialized into the page, with its transformer
// already applied.
type renderedModel struct {
	InitialData *storefront.Product `json:"initialData"`
}

type renderedConfig struct {
	SKU              string                   `json:"sku"`
	OptionsUIDs      []string                 `json:"optionsUIDs,omitempty"`
	LangDefinitions  storefront.LabelSet      `json:"langDefinitions"`
	Models           map[string]renderedModel `json:"models"`
	ACDL             bool                     `json:"acdl"`
	PersistURLParams bool                     `json:"persistURLParams"`
}

type pageData struct {
	Title           string
	MetaDescription string
	SKU             string
	Name            string
	Description     template.HTML
	Hints           []storefront.PreloadTask
	Config          renderedConfig
}

// pageView mounts the product details widget into the HTTP response of one request.
type pageView struct {
	srv   *Server
	w     http.ResponseWriter
	r     *http.Request
	hints *storefront.HintSet
}

var (
	_ storefront.Mounter    = &pageView{}
	_ storefront.Redirector = &pageView{}
)

func (v *pageView) Mount(ctx context.Context, cfg storefront.MountConfig) error {
	models := make(map[string]renderedModel, len(cfg.Models))
	for name, m := range cfg.Models {
		models[name] = renderedModel{InitialData: m.Data()}
	}

	data := pageData{
		SKU:   cfg.SKU,
		Hints: v.hints.Tasks(),
		Config: renderedConfig{
			SKU:              cfg.SKU,
			OptionsUIDs:      cfg.OptionsUIDs,
			LangDefinitions:  cfg.LangDefinitions,
			Models:           models,
			ACDL:             cfg.ACDL,
			PersistURLParams: cfg.PersistURLParams,
		},
	}
	if p := models[storefront.ProductDetailsModel].InitialData; p != nil {
		data.Name = p.Name
		data.Title = p.MetaTitle
		if data.Title == "" {
			data.Title = p.Name
		}
		data.MetaDescription = p.MetaDescription
		data.Description = template.HTML(v.srv.policy.Sanitize(p.Description))
	}

	var buf bytes.Buffer
	if err := v.srv.tmpl.ExecuteTemplate(&buf, "pdp", data); err != nil {
		return fmt.Errorf("render product page: %w", err)
	}

	v.hints.WriteLinkHeader(v.w.Header())
	v.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	v.w.WriteHeader(http.StatusOK)
	_, err := v.w.Write(buf.Bytes())
	return err
}

func (v *pageView) RedirectToError(ctx context.Context) {
	http.Redirect(v.w, v.r, v.srv.errorPath, http.StatusFound)
}
