package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	storefront "github.com/corneliu-iancu/rowan-store"
)

func defaultClient() *storefront.Client {
	err := godotenv.Load("../.env")
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	if os.Getenv("CATALOG_GRAPHQL_ENDPOINT") == "" {
		panic("Catalog GraphQL endpoint not set")
	}

	if os.Getenv("CATALOG_ENVIRONMENT_ID") != "" {
		return clientWithScope()
	}

	return storefront.NewDefaultClient()
}
