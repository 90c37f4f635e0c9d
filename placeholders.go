package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// DefaultPlaceholdersPath is where the product detail labels live on the content origin.
const DefaultPlaceholdersPath = "/placeholders/pdp.json"

// PlaceholderService fetches the flat key to text map of localized labels.
type PlaceholderService interface {
	Fetch(ctx context.Context) (map[string]string, error)
}

// placeholderSheet is the spreadsheet JSON shape served by the content origin.
type placeholderSheet struct {
	Total int `json:"total"`
	Data  []struct {
		Key  string `json:"Key"`
		Text string `json:"Text"`
	} `json:"data"`
}

func decodePlaceholders(raw []byte) (map[string]string, error) {
	var sheet placeholderSheet
	if err := json.Unmarshal(raw, &sheet); err == nil && sheet.Data != nil {
		out := make(map[string]string, len(sheet.Data))
		for _, row := range sheet.Data {
			key := strings.TrimSpace(row.Key)
			if key == "" {
				continue
			}
			out[key] = row.Text
		}
		return out, nil
	}

	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode placeholders: %w", err)
	}
	if flat == nil {
		flat = map[string]string{}
	}
	return flat, nil
}

// HTTPPlaceholders reads the placeholder sheet from the content origin.
type HTTPPlaceholders struct {
	url        string
	httpClient *http.Client
}

var _ PlaceholderService = &HTTPPlaceholders{}

// NewHTTPPlaceholders returns a source for origin+path. A nil httpClient uses
// http.DefaultClient.
func NewHTTPPlaceholders(origin, path string, httpClient *http.Client) *HTTPPlaceholders {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if path == "" {
		path = DefaultPlaceholdersPath
	}
	return &HTTPPlaceholders{
		url:        strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(path, "/"),
		httpClient: httpClient,
	}
}

func (s *HTTPPlaceholders) Fetch(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build placeholders request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch placeholders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch placeholders: unexpected status %d from %s", resp.StatusCode, s.url)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read placeholders: %w", err)
	}

	return decodePlaceholders(raw)
}

// FilePlaceholders reads placeholders from a local JSON file, either a sheet or a flat
// object.
type FilePlaceholders struct {
	Path string
}

func (s FilePlaceholders) Fetch(ctx context.Context) (map[string]string, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("load placeholders %s: %w", s.Path, err)
	}
	return decodePlaceholders(raw)
}

// StaticPlaceholders serves a fixed map.
type StaticPlaceholders map[string]string

func (s StaticPlaceholders) Fetch(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}
