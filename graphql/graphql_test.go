package graphqlclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientSendsScopeHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL,
		WithAPIKey("key-1"),
		WithStoreScope(StoreScope{
			EnvironmentID: "env-1",
			StoreCode:     "main_website_store",
			StoreViewCode: "default",
			WebsiteCode:   "base",
		}),
		WithHeader("X-Empty", ""),
	)

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.QueryString(context.Background(), `{ ok }`, nil, &out))
	assert.True(t, out.OK)

	assert.Equal(t, "key-1", got.Get("X-Api-Key"))
	assert.Equal(t, "env-1", got.Get("Magento-Environment-Id"))
	assert.Equal(t, "main_website_store", got.Get("Magento-Store-Code"))
	assert.Equal(t, "default", got.Get("Magento-Store-View-Code"))
	assert.Equal(t, "base", got.Get("Magento-Website-Code"))
	assert.Empty(t, got.Get("Magento-Customer-Group"))
	assert.Empty(t, got.Get("X-Empty"))
}

func TestNewClientAnnotatesErrorCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{
				"message":    "Cannot query field \"foo\"",
				"extensions": map[string]any{"code": "GRAPHQL_VALIDATION_FAILED"},
			}},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	var out struct{}
	err := client.QueryString(context.Background(), `{ foo }`, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(code=GRAPHQL_VALIDATION_FAILED)")
}

func TestGraphQLErrorCodeFallsBackToClassification(t *testing.T) {
	e := graphQLError{Extensions: map[string]any{"classification": "ValidationError"}}
	assert.Equal(t, "ValidationError", e.code())
	assert.Empty(t, graphQLError{}.code())
}

func TestBufferBodyKeepsBodyReadable(t *testing.T) {
	resp := &http.Response{
		Header: http.Header{},
		Body:   io.NopCloser(strings.NewReader(`{"data":{}}`)),
	}

	body, err := bufferBody(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"data":{}}`, string(body))

	again, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, body, again)
	assert.Equal(t, int64(len(body)), resp.ContentLength)
	assert.Equal(t, "11", resp.Header.Get("Content-Length"))
}
