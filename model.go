package storefront

import (
	"bytes"
	"encoding/json"
)

// Product is a catalog product view as returned by the catalog service, extended with
// the video list requested by the product detail page.
type Product struct {
	ID               string        `json:"id,omitempty"`
	ExternalID       string        `json:"externalId,omitempty"`
	SKU              string        `json:"sku"`
	Name             string        `json:"name,omitempty"`
	Description      string        `json:"description,omitempty"`
	ShortDescription string        `json:"shortDescription,omitempty"`
	URLKey           string        `json:"urlKey,omitempty"`
	InStock          bool          `json:"inStock"`
	AddToCartAllowed bool          `json:"addToCartAllowed"`
	MetaTitle        string        `json:"metaTitle,omitempty"`
	MetaKeyword      string        `json:"metaKeyword,omitempty"`
	MetaDescription  string        `json:"metaDescription,omitempty"`
	Images           []Image       `json:"images"`
	Videos           []Video       `json:"videos,omitempty"`
	Attributes       []Attribute   `json:"attributes,omitempty"`
	Price            *ProductPrice `json:"price,omitempty"`

	// OptionsUIDs carries the option selection the product was requested with.
	OptionsUIDs []string `json:"optionsUIDs,omitempty"`
}

// Image is a gallery entry. Entries projected from videos have IsVideo set.
type Image struct {
	URL     string   `json:"url"`
	Label   string   `json:"label,omitempty"`
	Roles   []string `json:"roles,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	IsVideo bool     `json:"isVideo,omitempty"`
}

type Video struct {
	URL     string        `json:"url"`
	Title   string        `json:"title,omitempty"`
	Preview *VideoPreview `json:"preview,omitempty"`
}

// VideoPreview is the poster asset of a video. Once reduced to its URL it
// serializes as a bare string.
type VideoPreview struct {
	Label string
	Roles []string
	URL   string
}

func (p VideoPreview) reduced() bool {
	return p.Label == "" && len(p.Roles) == 0
}

func (p VideoPreview) MarshalJSON() ([]byte, error) {
	if p.reduced() {
		return json.Marshal(p.URL)
	}
	return json.Marshal(struct {
		Label string   `json:"label,omitempty"`
		Roles []string `json:"roles,omitempty"`
		URL   string   `json:"url"`
	}{p.Label, p.Roles, p.URL})
}

func (p *VideoPreview) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		*p = VideoPreview{}
		return json.Unmarshal(data, &p.URL)
	}
	var raw struct {
		Label string   `json:"label"`
		Roles []string `json:"roles"`
		URL   string   `json:"url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = VideoPreview{Label: raw.Label, Roles: raw.Roles, URL: raw.URL}
	return nil
}

type Attribute struct {
	Name  string   `json:"name"`
	Label string   `json:"label,omitempty"`
	Value any      `json:"value,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

type ProductPrice struct {
	Final   *Price `json:"final,omitempty"`
	Regular *Price `json:"regular,omitempty"`
}

type Price struct {
	Amount Money `json:"amount"`
}

type Money struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}
