package graphqlclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/r0busta/graphql"
	log "github.com/sirupsen/logrus"
)

const (
	apiKeyHeader          = "X-Api-Key"
	environmentIDHeader   = "Magento-Environment-Id"
	storeCodeHeader       = "Magento-Store-Code"
	storeViewCodeHeader   = "Magento-Store-View-Code"
	websiteCodeHeader     = "Magento-Website-Code"
	customerGroupHeader   = "Magento-Customer-Group"
	defaultContentType    = "application/json"
	annotatedCodeTemplate = "%s (code=%s)"
)

// Option is used to configure options.
type Option func(t *transport)

// WithHeader sets a header sent with every request. Empty values are ignored.
func WithHeader(name, value string) Option {
	return func(t *transport) {
		if name != "" && value != "" {
			t.headers.Set(name, value)
		}
	}
}

// WithHeaders sets several headers at once.
func WithHeaders(headers map[string]string) Option {
	return func(t *transport) {
		for k, v := range headers {
			WithHeader(k, v)(t)
		}
	}
}

// WithAPIKey optionally sets the catalog service API key.
func WithAPIKey(key string) Option {
	return WithHeader(apiKeyHeader, key)
}

// StoreScope identifies the store view the catalog queries run against.
type StoreScope struct {
	EnvironmentID string
	WebsiteCode   string
	StoreCode     string
	StoreViewCode string
	CustomerGroup string
}

// WithStoreScope sets the store scoping headers.
func WithStoreScope(s StoreScope) Option {
	return func(t *transport) {
		WithHeader(environmentIDHeader, s.EnvironmentID)(t)
		WithHeader(websiteCodeHeader, s.WebsiteCode)(t)
		WithHeader(storeCodeHeader, s.StoreCode)(t)
		WithHeader(storeViewCodeHeader, s.StoreViewCode)(t)
		WithHeader(customerGroupHeader, s.CustomerGroup)(t)
	}
}

// WithRoundTripper replaces the underlying transport, mostly for tests.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(t *transport) {
		t.base = rt
	}
}

type transport struct {
	headers http.Header
	base    http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for name, values := range t.headers {
		for _, v := range values {
			req.Header.Set(name, v)
		}
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", defaultContentType)
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if err := annotateErrorCodes(resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// NewClient creates a new client (in fact, just a simple wrapper for a graphql.Client)
// pointed at the shared catalog endpoint.
func NewClient(endpoint string, opts ...Option) *graphql.Client {
	transport := &transport{
		headers: http.Header{},
	}

	for _, opt := range opts {
		opt(transport)
	}

	httpClient := &http.Client{
		Transport: transport,
	}

	return graphql.NewClient(endpoint, httpClient)
}

type graphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e graphQLError) code() string {
	if e.Extensions == nil {
		return ""
	}
	code, _ := e.Extensions["code"].(string)
	if code == "" {
		code, _ = e.Extensions["classification"].(string)
	}
	return code
}

type graphQLResponseEnvelope struct {
	Data       json.RawMessage `json:"data,omitempty"`
	Errors     []graphQLError  `json:"errors,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
}

// annotateErrorCodes appends the extension code to each GraphQL error message so the
// error returned by the client carries it.
func annotateErrorCodes(resp *http.Response) error {
	if resp == nil || resp.Body == nil {
		return nil
	}

	// Skip non-JSON payloads. Most GraphQL responses include this header.
	if contentType := resp.Header.Get("Content-Type"); contentType != "" && !strings.Contains(contentType, "json") {
		return nil
	}

	body, err := bufferBody(resp)
	if err != nil || len(body) == 0 {
		return err
	}

	var envelope graphQLResponseEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	if len(envelope.Errors) == 0 {
		return nil
	}

	updated := false
	for i := range envelope.Errors {
		code := envelope.Errors[i].code()
		if code == "" || strings.Contains(envelope.Errors[i].Message, "(code=") {
			continue
		}

		envelope.Errors[i].Message = fmt.Sprintf(annotatedCodeTemplate, strings.TrimSpace(envelope.Errors[i].Message), code)
		updated = true
	}

	log.WithField("errors", len(envelope.Errors)).Debug("graphql response carried errors")

	if !updated {
		return nil
	}

	patchedBody, err := json.Marshal(envelope)
	if err != nil {
		return nil
	}
	setBody(resp, patchedBody)
	return nil
}

// bufferBody drains resp.Body and replaces it with an in-memory copy that the graphql
// client can still decode.
func bufferBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}
	setBody(resp, body)
	return body, nil
}

func setBody(resp *http.Response, body []byte) {
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
}
