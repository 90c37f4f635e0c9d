package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphqlclient "github.com/corneliu-iancu/rowan-store/graphql"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// catalogServer is a fake catalog service answering product queries from a payload.
type catalogServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []graphQLRequest
}

func newCatalogServer(t *testing.T, payload string) *catalogServer {
	t.Helper()
	cs := &catalogServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cs.mu.Lock()
		cs.requests = append(cs.requests, req)
		cs.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *catalogServer) Requests() []graphQLRequest {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]graphQLRequest(nil), cs.requests...)
}

func (cs *catalogServer) client(opts ...Option) *Client {
	opts = append([]Option{WithGraphQLClient(graphqlclient.NewClient(cs.URL))}, opts...)
	return NewClient(opts...)
}

const productPayload = `{"data":{"products":[{
	"id":"1",
	"sku":"ABC123",
	"name":"Crown Chair",
	"inStock":true,
	"images":[{"url":"http://x/img.jpg","label":"front","roles":["image"]}],
	"videos":[{"url":"https://vimeo.com/1156860195?share=copy","title":"Demo","preview":{"label":"poster","roles":["thumbnail"],"url":"http://x/poster.jpg"}}],
	"price":{"final":{"amount":{"value":199.5,"currency":"USD"}}}
}]}}`

func TestGetWithVideos(t *testing.T) {
	cs := newCatalogServer(t, productPayload)
	client := cs.client()

	p, err := client.Product.GetWithVideos(context.Background(), "ABC123", FetchOptions{})
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "ABC123", p.SKU)
	assert.Equal(t, "Crown Chair", p.Name)
	assert.True(t, p.InStock)
	assert.Equal(t, []Image{{URL: "http://x/img.jpg", Label: "front", Roles: []string{"image"}}}, p.Images)
	require.Len(t, p.Videos, 1)
	assert.Equal(t, "Demo", p.Videos[0].Title)
	assert.Equal(t, &VideoPreview{Label: "poster", Roles: []string{"thumbnail"}, URL: "http://x/poster.jpg"}, p.Videos[0].Preview)
	require.NotNil(t, p.Price)
	assert.Equal(t, Money{Value: 199.5, Currency: "USD"}, p.Price.Final.Amount)
	assert.Nil(t, p.OptionsUIDs)

	reqs := cs.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Query, "query GET_PRODUCT_DATA($skus: [String])")
	assert.Contains(t, reqs[0].Query, "videos {")
	assert.Equal(t, []any{"ABC123"}, reqs[0].Variables["skus"])
}

func TestGetWithVideosAttachesOptionsUIDs(t *testing.T) {
	cs := newCatalogServer(t, productPayload)

	p, err := cs.client().Product.GetWithVideos(context.Background(), "ABC123", FetchOptions{OptionsUIDs: []string{"uid-1", "uid-2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"uid-1", "uid-2"}, p.OptionsUIDs)

	// the query itself does not refine by option
	assert.NotContains(t, cs.Requests()[0].Variables, "optionIds")
}

func TestGetWithVideosNoProduct(t *testing.T) {
	cs := newCatalogServer(t, `{"data":{"products":[]}}`)

	p, err := cs.client().Product.GetWithVideos(context.Background(), "NOPE", FetchOptions{})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetWithVideosEmptySKUSkipsRequest(t *testing.T) {
	cs := newCatalogServer(t, productPayload)

	p, err := cs.client().Product.GetWithVideos(context.Background(), "  ", FetchOptions{})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Empty(t, cs.Requests())
}

func TestGetWithVideosPropagatesErrorsWithoutRetry(t *testing.T) {
	cs := newCatalogServer(t, `{"errors":[{"message":"boom","extensions":{"code":"INTERNAL"}}]}`)

	_, err := cs.client().Product.GetWithVideos(context.Background(), "ABC123", FetchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query product ABC123")
	assert.Len(t, cs.Requests(), 1)
}
