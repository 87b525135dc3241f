package application

import (
	"context"

	"github.com/zenithkart/storefront-bff/internal/domain"
	"github.com/zenithkart/storefront-bff/internal/logger"
	"github.com/zenithkart/storefront-bff/internal/session"
	"github.com/zenithkart/storefront-bff/internal/storeclient"
)

// adminOwner keys the administrator's mirror. The admin credential
// sees every record, so the table is shared across admin sessions.
const adminOwner = "__admin__"

// ListAllOrders is the admin console view over every order record.
func (s *Service) ListAllOrders(ctx context.Context, sess session.Session) ([]domain.Order, error) {
	if !sess.Admin() {
		return nil, ErrForbidden
	}
	orders, err := s.store.ListOrders(ctx, sess)
	if err != nil {
		return nil, err
	}
	t := s.table(adminOwner)
	t.ConfirmAll(orders)
	return t.Snapshot(), nil
}

// SetStatus applies a status edit optimistically: the mirror shows
// newStatus before the store answers, and shows the last confirmed
// status again if the store refuses. While the edit is in flight any
// further edit to the same record is rejected.
func (s *Service) SetStatus(ctx context.Context, sess session.Session, orderID string, newStatus domain.Status) (domain.Order, error) {
	if !sess.Admin() {
		return domain.Order{}, ErrForbidden
	}
	if !newStatus.Valid() {
		return domain.Order{}, &domain.ValidationError{Msg: "unknown status " + string(newStatus)}
	}

	t := s.table(adminOwner)
	current, ok := t.Get(orderID)
	if !ok {
		orders, err := s.store.ListOrders(ctx, sess)
		if err != nil {
			return domain.Order{}, err
		}
		t.ConfirmAll(orders)
		current, ok = t.Get(orderID)
		if !ok {
			return domain.Order{}, storeclient.ErrNotFound
		}
	}

	if current.IsCart {
		return domain.Order{}, &domain.ValidationError{Msg: "cart items carry no status"}
	}
	if !current.Status.CanTransitionTo(newStatus) {
		return domain.Order{}, ErrInvalidTransition
	}

	speculative := current
	speculative.Status = newStatus
	tok, err := t.BeginUpdate(orderID, speculative)
	if err != nil {
		return domain.Order{}, err
	}

	patch := storeclient.OrderPatch{Status: &newStatus}
	updated, err := s.store.UpdateOrder(ctx, sess, orderID, patch)
	if err != nil {
		t.Rollback(tok)
		logger.Warn("status edit rejected; reverted",
			"order", orderID, "from", current.Status, "to", newStatus, "err", err)
		return domain.Order{}, err
	}
	t.Commit(tok, &updated)
	return updated, nil
}

// StatusInFlight reports whether a status edit for the record has not
// settled yet. The admin UI disables the control while true.
func (s *Service) StatusInFlight(orderID string) bool {
	return s.table(adminOwner).InFlight(orderID)
}

// AdminOrder reads one record from the admin mirror as the console
// currently displays it, speculative value included.
func (s *Service) AdminOrder(orderID string) (domain.Order, bool) {
	return s.table(adminOwner).Get(orderID)
}
