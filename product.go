package storefront

import (
	"context"
	"fmt"
	"strings"
)

type ProductService interface {
	GetWithVideos(ctx context.Context, sku string, opts FetchOptions) (*Product, error)
}

// FetchOptions tunes a product fetch.
type FetchOptions struct {
	// OptionsUIDs are attached verbatim to the returned product.
	OptionsUIDs []string
}

type ProductServiceOp struct {
	client *Client
}

var _ ProductService = &ProductServiceOp{}

const productFragment = `
	id
	externalId
	sku
	name
	description
	shortDescription
	urlKey
	inStock
	addToCartAllowed
	metaTitle
	metaKeyword
	metaDescription
	images(roles: []) {
		url
		label
		roles
	}
	attributes(roles: []) {
		name
		label
		value
		roles
	}
	... on SimpleProductView {
		price {
			final {
				amount {
					value
					currency
				}
			}
			regular {
				amount {
					value
					currency
				}
			}
		}
	}
`

var productWithVideosQuery = fmt.Sprintf(`
	query GET_PRODUCT_DATA($skus: [String]) {
		products(skus: $skus) {
			%s
			videos {
				url
				title
				preview {
					label
					roles
					url
				}
			}
		}
	}
`, productFragment)

// GetWithVideos fetches the product for sku together with its videos. It returns nil
// when the catalog has no such product. There is exactly one request and no retry.
func (s *ProductServiceOp) GetWithVideos(ctx context.Context, sku string, opts FetchOptions) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, nil
	}

	vars := map[string]interface{}{
		"skus": []string{sku},
	}

	out := struct {
		Products []Product `json:"products"`
	}{}
	err := s.client.gql.QueryString(ctx, productWithVideosQuery, vars, &out)
	if err != nil {
		return nil, fmt.Errorf("query product %s: %w", sku, err)
	}

	if len(out.Products) == 0 {
		return nil, nil
	}

	product := out.Products[0]
	if len(opts.OptionsUIDs) > 0 {
		product.OptionsUIDs = opts.OptionsUIDs
	}

	return &product, nil
}
