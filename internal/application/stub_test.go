package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/zenithkart/storefront-bff/internal/domain"
	"github.com/zenithkart/storefront-bff/internal/logger"
	"github.com/zenithkart/storefront-bff/internal/session"
	"github.com/zenithkart/storefront-bff/internal/storeclient"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// stubStore is an in-memory Order Record Store double. Failures are
// injected per order id so partial batch outcomes can be scripted.
type stubStore struct {
	mu       sync.Mutex
	seq      int
	ids      []string
	orders   map[string]domain.Order
	products map[string]domain.Product

	createErr   error
	updateErr   map[string]error
	deleteErr   map[string]error
	updateCalls int
	deleteCalls int

	loginUser  domain.User
	loginToken string
	loginErr   error
	profiles   map[string]domain.User
}

func newStubStore() *stubStore {
	return &stubStore{
		orders:    make(map[string]domain.Order),
		products:  make(map[string]domain.Product),
		updateErr: make(map[string]error),
		deleteErr: make(map[string]error),
		profiles:  make(map[string]domain.User),
	}
}

func (s *stubStore) seed(o domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; !ok {
		s.ids = append(s.ids, o.ID)
	}
	s.orders[o.ID] = o
}

func (s *stubStore) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubStore) ListOrders(ctx context.Context, sess session.Session) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, id := range s.ids {
		o, ok := s.orders[id]
		if !ok {
			continue
		}
		if sess.User.IsAdmin || o.Owner == sess.User.ID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubStore) CreateOrder(ctx context.Context, sess session.Session, req storeclient.CreateOrderRequest) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return domain.Order{}, s.createErr
	}
	s.seq++
	o := domain.Order{
		ID:              fmt.Sprintf("o%d", s.seq),
		Owner:           req.User,
		Product:         domain.ProductRef{ID: req.Product},
		IsCart:          req.IsCart,
		DeliveryAddress: req.Location,
		CreatedAt:       time.Now(),
	}
	if p, ok := s.products[req.Product]; ok {
		cp := p
		o.Product.Inlined = &cp
	}
	if !o.IsCart {
		o.Status = domain.StatusPending
		o.TotalAmount = o.Product.Price()
	}
	s.ids = append(s.ids, o.ID)
	s.orders[o.ID] = o
	return o, nil
}

func (s *stubStore) UpdateOrder(ctx context.Context, sess session.Session, id string, patch storeclient.OrderPatch) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if err := s.updateErr[id]; err != nil {
		return domain.Order{}, err
	}
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, storeclient.ErrNotFound
	}
	if patch.IsCart != nil && !*patch.IsCart && o.IsCart {
		o.IsCart = false
		// price snapshot taken exactly once, at checkout
		o.TotalAmount = o.Product.Price()
	}
	if patch.Location != nil {
		o.DeliveryAddress = *patch.Location
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	s.orders[id] = o
	return o, nil
}

func (s *stubStore) DeleteOrder(ctx context.Context, sess session.Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if err := s.deleteErr[id]; err != nil {
		return err
	}
	if _, ok := s.orders[id]; !ok {
		return storeclient.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *stubStore) Profile(ctx context.Context, sess session.Session, id string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.profiles[id]; ok {
		return u, nil
	}
	return domain.User{}, storeclient.ErrNotFound
}

func (s *stubStore) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	if s.loginErr != nil {
		return domain.User{}, "", s.loginErr
	}
	return s.loginUser, s.loginToken, nil
}
