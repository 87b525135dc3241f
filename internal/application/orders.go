package application

import (
	"context"

	"github.com/zenithkart/storefront-bff/internal/domain"
	"github.com/zenithkart/storefront-bff/internal/session"
	"github.com/zenithkart/storefront-bff/internal/storeclient"
)

// ListOrders returns the caller's placed orders: every record whose
// isCart flag is false. Together with ListCart this partitions the
// record set — a record is in exactly one of the two projections.
func (s *Service) ListOrders(ctx context.Context, sess session.Session) ([]domain.Order, error) {
	t, err := s.refresh(ctx, sess)
	if err != nil {
		return nil, err
	}
	var placed []domain.Order
	for _, o := range t.Snapshot() {
		if !o.IsCart {
			placed = append(placed, o)
		}
	}
	return placed, nil
}

// Cancel deletes a placed order. Permitted only while the status is
// Pending or Processing; for later states the call is refused here
// without a round trip. The store stays the source of truth and may
// still refuse, in which case the record returns to view.
func (s *Service) Cancel(ctx context.Context, sess session.Session, orderID string) error {
	t := s.table(sess.User.ID)
	current, ok := t.Get(orderID)
	if !ok {
		var err error
		t, err = s.refresh(ctx, sess)
		if err != nil {
			return err
		}
		current, ok = t.Get(orderID)
		if !ok {
			return storeclient.ErrNotFound
		}
	}

	if current.IsCart {
		return &domain.ValidationError{Msg: "record is a cart item, not a placed order"}
	}
	if !current.Status.Cancellable() {
		return ErrNotCancellable
	}

	tok, err := t.BeginDelete(orderID)
	if err != nil {
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
