package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/zenithkart/storefront-bff/internal/domain"
	"github.com/zenithkart/storefront-bff/internal/logger"
)

// Products is a read-through cache for the catalog, keyed per
// category. The catalog changes rarely and is the hottest read in the
// storefront; order records are never cached here, they have exactly
// one source of truth.
type Products struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProducts(addr, password string, db int, ttl time.Duration) *Products {
	return &Products{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func (p *Products) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *Products) Close() error {
	return p.client.Close()
}

func key(category string) string {
	if category == "" {
		category = "all"
	}
	return "products:" + category
}

// Get returns the cached listing for category, if any. A nil cache or
// any redis error reads as a miss.
func (p *Products) Get(ctx context.Context, category string) ([]domain.Product, bool) {
	if p == nil {
		return nil, false
	}
	data, err := p.client.Get(ctx, key(category)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("product cache get failed", "category", category, "err", err)
		}
		return nil, false
	}
	var items []domain.Product
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		logger.Warn("product cache payload invalid; dropping", "category", category, "err", err)
		_ = p.client.Del(ctx, key(category)).Err()
		return nil, false
	}
	return items, true
}

func (p *Products) Set(ctx context.Context, category string, items []domain.Product) {
	if p == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := p.client.Set(ctx, key(category), data, p.ttl).Err(); err != nil {
		logger.Warn("product cache set failed", "category", category, "err", err)
	}
}

// Invalidate drops every cached category listing.
func (p *Products) Invalidate(ctx context.Context) {
	if p == nil {
		return
	}
	iter := p.client.Scan(ctx, 0, "products:*", 0).Iterator()
	for iter.Next(ctx) {
		_ = p.client.Del(ctx, iter.Val()).Err()
	}
}
