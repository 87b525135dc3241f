package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-retry"

	"github.com/zenithkart/storefront-bff/internal/application"
	"github.com/zenithkart/storefront-bff/internal/cache"
	"github.com/zenithkart/storefront-bff/internal/config"
	"github.com/zenithkart/storefront-bff/internal/logger"
	"github.com/zenithkart/storefront-bff/internal/presentation"
	"github.com/zenithkart/storefront-bff/internal/storeclient"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("config load failed", "err", err)
		os.Exit(1)
	}

	store := storeclient.New(cfg.STORE_BASE_URL, nil)

	// Wait for the order record store to come up before serving; a
	// storefront with no store behind it can do nothing useful.
	waitCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	backoff := retry.WithMaxDuration(time.Minute, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(waitCtx, backoff, func(ctx context.Context) error {
		if err := store.Ping(ctx); err != nil {
			logger.Warn("store not reachable yet", "err", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		logger.Warn("order record store unreachable", "url", cfg.STORE_BASE_URL, "err", err)
		os.Exit(1)
	}
	logger.Info("order record store reachable", "url", cfg.STORE_BASE_URL)

	// Product cache is optional; without redis every catalog read
	// goes straight to the store.
	var products *cache.Products
	if cfg.REDIS_ADDR != "" {
		products = cache.NewProducts(cfg.REDIS_ADDR, cfg.REDIS_PASSWORD, cfg.REDIS_DB, cfg.CACHE_TTL)
		defer products.Close()
		if err := products.Ping(context.Background()); err != nil {
			logger.Warn("redis unreachable; catalog cache disabled", "err", err)
			products = nil
		} else {
			logger.Info("catalog cache enabled", "addr", cfg.REDIS_ADDR, "ttl", cfg.CACHE_TTL)
		}
	}

	svc := application.New(store, products)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	h := presentation.NewStorefrontHandler(svc)
	h.Register(r)
	presentation.MountStatic(r)

	addr := ":" + cfg.HTTP_PORT
	logger.Info("starting http", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Warn("http server crashed", "err", err)
		os.Exit(1)
	}
}
