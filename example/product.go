package main

import (
	"context"
	"encoding/json"
	"fmt"

	storefront "github.com/corneliu-iancu/rowan-store"
)

func productWithGallery(client *storefront.Client, sku string) {
	// Get the product and its videos
	p, err := client.Product.GetWithVideos(context.Background(), sku, storefront.FetchOptions{})
	if err != nil {
		panic(err)
	}
	if p == nil {
		fmt.Printf("no product with sku %s\n", sku)
		return
	}

	// Print out the gallery the product page would render
	for _, img := range storefront.TransformProduct(p).Images {
		json, _ := json.MarshalIndent(img, "", "  ")
		fmt.Println(string(json))
	}
}
