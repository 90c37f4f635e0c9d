package storefront

import (
	"os"

	"github.com/r0busta/graphql"

	graphqlclient "github.com/corneliu-iancu/rowan-store/graphql"
)

// Client bundles the data services the product detail page reads from.
type Client struct {
	gql *graphql.Client

	Product      ProductService
	Placeholders PlaceholderService
}

type Option func(c *Client)

// WithGraphQLClient sets the client used for catalog queries.
func WithGraphQLClient(gql *graphql.Client) Option {
	return func(c *Client) {
		c.gql = gql
	}
}

// WithPlaceholderSource sets where localized labels are read from.
func WithPlaceholderSource(src PlaceholderService) Option {
	return func(c *Client) {
		c.Placeholders = src
	}
}

// NewClient creates a client. Without WithPlaceholderSource the label set is empty.
func NewClient(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	c.Product = &ProductServiceOp{client: c}
	if c.Placeholders == nil {
		c.Placeholders = StaticPlaceholders{}
	}

	return c
}

// NewDefaultClient builds a client from CATALOG_GRAPHQL_ENDPOINT, CATALOG_API_KEY and
// the store scope variables, reading placeholders from CONTENT_ORIGIN when set.
func NewDefaultClient() *Client {
	gql := graphqlclient.NewClient(os.Getenv("CATALOG_GRAPHQL_ENDPOINT"),
		graphqlclient.WithAPIKey(os.Getenv("CATALOG_API_KEY")),
		graphqlclient.WithStoreScope(graphqlclient.StoreScope{
			EnvironmentID: os.Getenv("CATALOG_ENVIRONMENT_ID"),
			WebsiteCode:   os.Getenv("CATALOG_WEBSITE_CODE"),
			StoreCode:     os.Getenv("CATALOG_STORE_CODE"),
			StoreViewCode: os.Getenv("CATALOG_STORE_VIEW_CODE"),
			CustomerGroup: os.Getenv("CATALOG_CUSTOMER_GROUP"),
		}),
	)

	opts := []Option{WithGraphQLClient(gql)}
	if origin := os.Getenv("CONTENT_ORIGIN"); origin != "" {
		opts = append(opts, WithPlaceholderSource(NewHTTPPlaceholders(origin, DefaultPlaceholdersPath, nil)))
	}

	return NewClient(opts...)
}
