package application

import (
	"context"
	"sync"

	"github.com/zenithkart/storefront-bff/internal/domain"
	"github.com/zenithkart/storefront-bff/internal/logger"
	"github.com/zenithkart/storefront-bff/internal/reconcile"
	"github.com/zenithkart/storefront-bff/internal/session"
	"github.com/zenithkart/storefront-bff/internal/storeclient"
)

// Checkout converts the selected cart lines into placed orders:
// isCart flips to false, the address is attached and the status
// defaults to Pending. The set is NOT atomic — each id is patched
// independently and reported independently; lines whose patch failed
// stay in the cart and only those should be retried by the caller.
//
// Validation happens before any network call: the address must carry
// line1, pincode, city and state, and every id must currently be in
// the caller's cart.
func (s *Service) Checkout(ctx context.Context, sess session.Session, orderIDs []string, addr domain.Address) ([]ItemResult, error) {
	if len(orderIDs) == 0 {
		return nil, &domain.ValidationError{Msg: "no cart items selected"}
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	t, err := s.refresh(ctx, sess)
	if err != nil {
		return nil, err
	}
	for _, id := range orderIDs {
		o, ok := t.Get(id)
		if !ok || !o.IsCart {
			return nil, &domain.ValidationError{Msg: "order " + id + " is not in your cart"}
		}
	}

	location := addr.String()
	results := make([]ItemResult, len(orderIDs))
	var wg sync.WaitGroup
	for i, id := range orderIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = s.checkoutOne(ctx, sess, t, id, location)
		}(i, id)
	}
	wg.Wait()

	if _, failed := Split(results); len(failed) > 0 {
		logger.Warn("checkout partially failed",
			"owner", sess.User.ID, "selected", len(orderIDs), "failed", len(failed))
	}
	return results, nil
}

func (s *Service) checkoutOne(ctx context.Context, sess session.Session, t *reconcile.Table, id, location string) ItemResult {
	current, ok := t.Get(id)
	if !ok {
		return ItemResult{ID: id, Err: reconcile.ErrUnknownRecord}
	}

	speculative := current
	speculative.IsCart = false
	speculative.DeliveryAddress = location
	if speculative.Status == "" {
		speculative.Status = domain.StatusPending
	}

	tok, err := t.BeginUpdate(id, speculative)
	if err != nil {
		return ItemResult{ID: id, Err: err}
	}

	isCart := false
	patch := storeclient.OrderPatch{IsCart: &isCart, Location: &location}
	if current.Status == "" {
		pending := domain.StatusPending
		patch.Status = &pending
	}

	updated, err := s.store.UpdateOrder(ctx, sess, id, patch)
	if err != nil {
		t.Rollback(tok)
		return ItemResult{ID: id, Err: err}
	}
	t.Commit(tok, &updated)
	return ItemResult{ID: id, Order: &updated}
}

// BuyNow places an order for a product directly, skipping the cart
// state entirely: the record is created with isCart already false.
func (s *Service) BuyNow(ctx context.Context, sess session.Session, productID string, addr domain.Address) (domain.Order, error) {
	if err := addr.Validate(); err != nil {
		return domain.Order{}, err
	}

	created, err := s.store.CreateOrder(ctx, sess, storeclient.CreateOrderRequest{
		User:     sess.User.ID,
		Product:  productID,
		IsCart:   false,
		Location: addr.String(),
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.table(sess.User.ID).Confirm(created)
	return created, nil
}
