package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	storefront "github.com/corneliu-iancu/rowan-store"
	graphqlclient "github.com/corneliu-iancu/rowan-store/graphql"
	"github.com/corneliu-iancu/rowan-store/internal/config"
	"github.com/corneliu-iancu/rowan-store/internal/httpserver"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	cfg.ConfigureLogging()

	gql := graphqlclient.NewClient(cfg.Catalog.Endpoint,
		graphqlclient.WithAPIKey(cfg.Catalog.APIKey),
		graphqlclient.WithStoreScope(graphqlclient.StoreScope{
			EnvironmentID: cfg.Catalog.EnvironmentID,
			WebsiteCode:   cfg.Catalog.WebsiteCode,
			StoreCode:     cfg.Catalog.StoreCode,
			StoreViewCode: cfg.Catalog.StoreViewCode,
			CustomerGroup: cfg.Catalog.CustomerGroup,
		}),
		graphqlclient.WithHeaders(cfg.Catalog.Headers),
	)

	opts := []storefront.Option{storefront.WithGraphQLClient(gql)}
	switch {
	case cfg.Content.PlaceholdersFile != "":
		opts = append(opts, storefront.WithPlaceholderSource(storefront.FilePlaceholders{Path: cfg.Content.PlaceholdersFile}))
	case cfg.Content.Origin != "":
		opts = append(opts, storefront.WithPlaceholderSource(storefront.NewHTTPPlaceholders(cfg.Content.Origin, cfg.Content.PlaceholdersPath, nil)))
	default:
		log.Warn("no placeholder source configured, labels will be empty")
	}
	client := storefront.NewClient(opts...)

	params := url.Values{}
	for k, v := range cfg.Assets.OptimizedParams {
		params.Set(k, v)
	}

	initializer := storefront.NewInitializer(client, storefront.Settings{
		ACDL:             cfg.Page.ACDL,
		PersistURLParams: cfg.Page.PersistURLParams,
		PreloadScripts:   cfg.Assets.PreloadScripts,
		Assets:           storefront.NewAssetURLProvider(cfg.Assets.Optimized, params),
	})

	srv, err := httpserver.New(initializer, httpserver.Options{
		ErrorPath: cfg.Page.ErrorPath,
		Content:   httpserver.NewContentLoader(cfg.Content.Origin, nil),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialise server")
	}

	httpSrv := httpserver.NewHTTPServer(cfg.Server.Addr, srv.Routes())

	go func() {
		log.WithFields(log.Fields{
			"addr":      cfg.Server.Addr,
			"endpoint":  cfg.Catalog.Endpoint,
			"optimized": cfg.Assets.Optimized,
		}).Info("pdp server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
}
