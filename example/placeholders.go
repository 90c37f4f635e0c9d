package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	storefront "github.com/corneliu-iancu/rowan-store"
)

func listPlaceholders() {
	src := storefront.NewHTTPPlaceholders(os.Getenv("CONTENT_ORIGIN"), storefront.DefaultPlaceholdersPath, nil)
	labels, err := src.Fetch(context.Background())
	if err != nil {
		panic(err)
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s = %s\n", k, labels[k])
	}
}
