package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zenithkart/storefront-bff/internal/domain"
	"github.com/zenithkart/storefront-bff/internal/logger"
	"github.com/zenithkart/storefront-bff/internal/reconcile"
	"github.com/zenithkart/storefront-bff/internal/session"
	"github.com/zenithkart/storefront-bff/internal/storeclient"
)

// ListCart returns the caller's cart lines in the order the store
// holds them. The mirror is reconciled with server truth on the way.
func (s *Service) ListCart(ctx context.Context, sess session.Session) ([]domain.Order, error) {
	t, err := s.refresh(ctx, sess)
	if err != nil {
		return nil, err
	}
	return projectCart(t), nil
}

func projectCart(t *reconcile.Table) []domain.Order {
	var cart []domain.Order
	for _, o := range t.Snapshot() {
		if o.IsCart {
			cart = append(cart, o)
		}
	}
	return cart
}

// AddToCart creates a cart line for productID. The line shows up in
// the projection immediately under a placeholder id and is re-keyed
// to the store-assigned id once the create lands.
func (s *Service) AddToCart(ctx context.Context, sess session.Session, productID string) (domain.Order, error) {
	t := s.table(sess.User.ID)
	placeholder := "pending-" + uuid.NewString()
	tok, err := t.BeginCreate(placeholder, domain.Order{
		Owner:     sess.User.ID,
		Product:   domain.ProductRef{ID: productID},
		IsCart:    true,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return domain.Order{}, err
	}

	created, err := s.store.CreateOrder(ctx, sess, storeclient.CreateOrderRequest{
		User:    sess.User.ID,
		Product: productID,
		IsCart:  true,
	})
	if err != nil {
		t.Rollback(tok)
		logger.Warn("add to cart failed", "owner", sess.User.ID, "product", productID, "err", err)
		return domain.Order{}, err
	}
	t.Commit(tok, &created)
	return created, nil
}

// RemoveFromCart deletes one cart line. The record leaves the
// projection optimistically and is re-inserted if the store refuses.
// A NotFound answer counts as success: the record is already gone.
func (s *Service) RemoveFromCart(ctx context.Context, sess session.Session, orderID string) error {
	t := s.table(sess.User.ID)
	tok, err := t.BeginDelete(orderID)
	if err != nil {
		if errors.Is(err, reconcile.ErrUnknownRecord) {
			// not mirrored locally; still honor the delete
			err = s.store.DeleteOrder(ctx, sess, orderID)
			if storeclient.IsNotFound(err) {
				return nil
			}
			return err
		}
		return err
	}

	if err := s.store.DeleteOrder(ctx, sess, orderID); err != nil {
		if storeclient.IsNotFound(err) {
			t.Commit(tok, nil)
			return nil
		}
		t.Rollback(tok)
		return err
	}
	t.Commit(tok, nil)
	return nil
}

// RemoveMany deletes the given cart lines concurrently and reports
// every outcome against its id, so the caller can reconcile a partial
// failure instead of guessing.
func (s *Service) RemoveMany(ctx context.Context, sess session.Session, orderIDs []string) []ItemResult {
	results := make([]ItemResult, len(orderIDs))
	var wg sync.WaitGroup
	for i, id := range orderIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = ItemResult{ID: id, Err: s.RemoveFromCart(ctx, sess, id)}
		}(i, id)
	}
	wg.Wait()
	return results
}
