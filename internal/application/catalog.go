package application

import (
	"context"

	"github.com/zenithkart/storefront-bff/internal/domain"
	"github.com/zenithkart/storefront-bff/internal/storeclient"
)

// Products lists the catalog, optionally filtered by category, with
// images normalized for direct rendering. Listings are served from
// the redis cache when one is configured.
func (s *Service) Products(ctx context.Context, category string) ([]domain.Product, error) {
	if items, ok := s.products.Get(ctx, category); ok {
		return items, nil
	}

	items, err := s.store.ListProducts(ctx, category)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Image = storeclient.NormalizeImage(items[i].Image)
	}
	s.products.Set(ctx, category, items)
	return items, nil
}

// OrdersWithImages decorates a projection for display: inlined
// product images become renderable data URIs. The order records
// themselves are untouched.
func OrdersWithImages(orders []domain.Order) []domain.Order {
	for i := range orders {
		if p := orders[i].Product.Inlined; p != nil {
			p.Image = storeclient.NormalizeImage(p.Image)
		}
	}
	return orders
}
