package main

import (
	"flag"
	"os"
)

func main() {
	sku := flag.String("sku", "", "product sku to print")
	flag.Parse()

	client := defaultClient()
	if *sku != "" {
		productWithGallery(client, *sku)
	}
	if os.Getenv("CONTENT_ORIGIN") != "" {
		listPlaceholders()
	}
}
