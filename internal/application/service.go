package application

import (
	"context"
	"errors"
	"sync"

	"github.com/zenithkart/storefront-bff/internal/cache"
	"github.com/zenithkart/storefront-bff/internal/domain"
	"github.com/zenithkart/storefront-bff/internal/reconcile"
	"github.com/zenithkart/storefront-bff/internal/session"
	"github.com/zenithkart/storefront-bff/internal/storeclient"
)

var (
	ErrNotCancellable = errors.New("order can no longer be cancelled")
	ErrForbidden      = errors.New("administrator privileges required")

	// ErrInvalidTransition means the requested status change is not
	// permitted from the order's current status.
	ErrInvalidTransition = errors.New("status transition not permitted")
)

// Store is the Order Record Store surface the services consume.
// *storeclient.Client satisfies it; tests substitute a double.
type Store interface {
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	ListOrders(ctx context.Context, sess session.Session) ([]domain.Order, error)
	CreateOrder(ctx context.Context, sess session.Session, req storeclient.CreateOrderRequest) (domain.Order, error)
	UpdateOrder(ctx context.Context, sess session.Session, id string, patch storeclient.OrderPatch) (domain.Order, error)
	DeleteOrder(ctx context.Context, sess session.Session, id string) error
	Profile(ctx context.Context, sess session.Session, id string) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
}

// Service glues the projections, the optimistic mirror and the store
// client together. One reconcile.Table per owner; all mutations for a
// record id funnel through that table's in-flight guard.
type Service struct {
	store    Store
	products *cache.Products

	mu     sync.Mutex
	tables map[string]*reconcile.Table
}

func New(store Store, products *cache.Products) *Service {
	return &Service{
		store:    store,
		products: products,
		tables:   make(map[string]*reconcile.Table),
	}
}

func (s *Service) table(owner string) *reconcile.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[owner]
	if !ok {
		t = reconcile.NewTable()
		s.tables[owner] = t
	}
	return t
}

// refresh pulls the caller's records from the store and reconciles
// the mirror with them.
func (s *Service) refresh(ctx context.Context, sess session.Session) (*reconcile.Table, error) {
	orders, err := s.store.ListOrders(ctx, sess)
	if err != nil {
		return nil, err
	}
	t := s.table(sess.User.ID)
	t.ConfirmAll(orders)
	return t, nil
}

// ItemResult attributes one bulk sub-operation's outcome to its
// originating order id. Bulk callers must never collapse these into a
// single aggregate failure.
type ItemResult struct {
	ID    string
	Order *domain.Order
	Err   error
}

// Split partitions a batch into succeeded and failed results.
func Split(results []ItemResult) (ok, failed []ItemResult) {
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		} else {
			ok = append(ok, r)
		}
	}
	return ok, failed
}

// Login exchanges credentials for a session via the store. The BFF
// keeps no session state of its own.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	user, token, err := s.store.Login(ctx, email, password)
	if err != nil {
		return session.Session{}, err
	}
	if token == "" {
		// stores of the older revision issue no token; the user id
		// still scopes requests server-side
		token = user.ID
	}
	return session.Session{Token: token, User: user}, nil
}

func (s *Service) Profile(ctx context.Context, sess session.Session, id string) (domain.User, error) {
	return s.store.Profile(ctx, sess, id)
}
