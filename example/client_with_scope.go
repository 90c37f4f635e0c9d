package main

import (
	"os"

	storefront "github.com/corneliu-iancu/rowan-store"
	graphqlclient "github.com/corneliu-iancu/rowan-store/graphql"
)

func clientWithScope() *storefront.Client {
	gqlClient := graphqlclient.NewClient(os.Getenv("CATALOG_GRAPHQL_ENDPOINT"),
		graphqlclient.WithAPIKey(os.Getenv("CATALOG_API_KEY")),
		graphqlclient.WithStoreScope(graphqlclient.StoreScope{
			EnvironmentID: os.Getenv("CATALOG_ENVIRONMENT_ID"),
			StoreCode:     os.Getenv("CATALOG_STORE_CODE"),
			StoreViewCode: os.Getenv("CATALOG_STORE_VIEW_CODE"),
			WebsiteCode:   os.Getenv("CATALOG_WEBSITE_CODE"),
		}),
	)

	return storefront.NewClient(storefront.WithGraphQLClient(gqlClient))
}
