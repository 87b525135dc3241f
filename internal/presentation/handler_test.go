package presentation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithkart/storefront-bff/internal/application"
	"github.com/zenithkart/storefront-bff/internal/domain"
	"github.com/zenithkart/storefront-bff/internal/logger"
	"github.com/zenithkart/storefront-bff/internal/session"
	"github.com/zenithkart/storefront-bff/internal/storeclient"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

// fakeStore scripts just enough of the Order Record Store for the
// HTTP layer: canned orders per owner and per-id update failures.
type fakeStore struct {
	orders    []domain.Order
	updateErr map[string]error
	deleteErr map[string]error
	profiles  map[string]domain.User
	loginUser domain.User
	loginErr  error
}

func (f *fakeStore) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	return []domain.Product{{ID: "p1", Name: "Shirt", Price: 500, Image: "abc"}}, nil
}

func (f *fakeStore) ListOrders(ctx context.Context, sess session.Session) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if sess.User.IsAdmin || o.Owner == sess.User.ID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, sess session.Session, req storeclient.CreateOrderRequest) (domain.Order, error) {
	return domain.Order{ID: "new-1", Owner: req.User, Product: domain.ProductRef{ID: req.Product}, IsCart: req.IsCart, DeliveryAddress: req.Location}, nil
}

func (f *fakeStore) UpdateOrder(ctx context.Context, sess session.Session, id string, patch storeclient.OrderPatch) (domain.Order, error) {
	if err := f.updateErr[id]; err != nil {
		return domain.Order{}, err
	}
	for _, o := range f.orders {
		if o.ID == id {
			if patch.IsCart != nil {
				o.IsCart = *patch.IsCart
			}
			if patch.Location != nil {
				o.DeliveryAddress = *patch.Location
			}
			if patch.Status != nil {
				o.Status = *patch.Status
			} else if !o.IsCart && o.Status == "" {
				o.Status = domain.StatusPending
			}
			return o, nil
		}
	}
	return domain.Order{}, storeclient.ErrNotFound
}

func (f *fakeStore) DeleteOrder(ctx context.Context, sess session.Session, id string) error {
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	return nil
}

func (f *fakeStore) Profile(ctx context.Context, sess session.Session, id string) (domain.User, error) {
	if u, ok := f.profiles[id]; ok {
		return u, nil
	}
	return domain.User{}, storeclient.ErrNotFound
}

func (f *fakeStore) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	if f.loginErr != nil {
		return domain.User{}, "", f.loginErr
	}
	return f.loginUser, "tok", nil
}

func newRouter(store *fakeStore) chi.Router {
	r := chi.NewRouter()
	NewStorefrontHandler(application.New(store, nil)).Register(r)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func userHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer tok-u1", "X-User-Id": "u1"}
}

func TestHealthRoute(t *testing.T) {
	w := doJSON(t, newRouter(&fakeStore{}), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProductsRoute(t *testing.T) {
	w := doJSON(t, newRouter(&fakeStore{}), http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "data:image/jpeg;base64,abc", items[0].Image, "raw base64 gets the prefix")
}

func TestGetCartProjectsIsCart(t *testing.T) {
	store := &fakeStore{orders: []domain.Order{
		{ID: "a", Owner: "u1", IsCart: true, Product: domain.ProductRef{ID: "p1"}},
		{ID: "b", Owner: "u1", IsCart: false, Status: domain.StatusPending, Product: domain.ProductRef{ID: "p2"}},
	}}
	w := doJSON(t, newRouter(store), http.MethodGet, "/api/cart", "", userHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	var cart []domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, "a", cart[0].ID)
}

func TestCheckoutValidationIs400(t *testing.T) {
	store := &fakeStore{orders: []domain.Order{
		{ID: "a", Owner: "u1", IsCart: true, Product: domain.ProductRef{ID: "p1"}},
	}}
	body := `{"ids":["a"],"address":{"line1":"1 Main St"}}`
	w := doJSON(t, newRouter(store), http.MethodPost, "/api/checkout", body, userHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "pincode")
}

func TestCheckoutPartialIs207(t *testing.T) {
	store := &fakeStore{
		orders: []domain.Order{
			{ID: "a", Owner: "u1", IsCart: true, Product: domain.ProductRef{ID: "p1"}},
			{ID: "b", Owner: "u1", IsCart: true, Product: domain.ProductRef{ID: "p2"}},
		},
		updateErr: map[string]error{"b": &storeclient.RejectedError{StatusCode: 500, Message: "boom"}},
	}
	body := `{"ids":["a","b"],"address":{"line1":"1 Main St","pincode":"12345","city":"Metropolis","state":"NY"}}`
	w := doJSON(t, newRouter(store), http.MethodPost, "/api/checkout", body, userHeaders())
	require.Equal(t, http.StatusMultiStatus, w.Code)

	var resp struct {
		Failed  int `json:"failed"`
		Results []struct {
			ID    string `json:"id"`
			Error string `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "b", resp.Results[1].ID)
	assert.Equal(t, "boom", resp.Results[1].Error)
	assert.Empty(t, resp.Results[0].Error)
}

func TestCheckoutAllOkIs200(t *testing.T) {
	store := &fakeStore{orders: []domain.Order{
		{ID: "a", Owner: "u1", IsCart: true, Product: domain.ProductRef{ID: "p1"}},
	}}
	body := `{"ids":["a"],"address":{"line1":"1 Main St","pincode":"12345","city":"Metropolis","state":"NY"}}`
	w := doJSON(t, newRouter(store), http.MethodPost, "/api/checkout", body, userHeaders())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCancelTerminalIs409(t *testing.T) {
	store := &fakeStore{orders: []domain.Order{
		{ID: "a", Owner: "u1", IsCart: false, Status: domain.StatusShipped, Product: domain.ProductRef{ID: "p1"}},
	}}
	w := doJSON(t, newRouter(store), http.MethodDelete, "/api/orders/a", "", userHeaders())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminRequiresAdminProfile(t *testing.T) {
	store := &fakeStore{profiles: map[string]domain.User{
		"u1":  {ID: "u1", Name: "Asha", IsAdmin: false},
		"adm": {ID: "adm", Name: "Root", IsAdmin: true},
	}}
	r := newRouter(store)

	w := doJSON(t, r, http.MethodGet, "/api/admin/orders", "", userHeaders())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/admin/orders", "", map[string]string{
		"Authorization": "Bearer tok-adm", "X-User-Id": "adm",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/admin/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminSetStatusRoute(t *testing.T) {
	store := &fakeStore{
		orders: []domain.Order{
			{ID: "x", Owner: "u1", IsCart: false, Status: domain.StatusPending, Product: domain.ProductRef{ID: "p1"}},
		},
		profiles: map[string]domain.User{"adm": {ID: "adm", IsAdmin: true}},
	}
	r := newRouter(store)
	hdr := map[string]string{"Authorization": "Bearer tok-adm", "X-User-Id": "adm"}

	w := doJSON(t, r, http.MethodPatch, "/api/admin/orders/x/status", `{"status":"Shipped"}`, hdr)
	require.Equal(t, http.StatusOK, w.Code)
	var updated domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, domain.StatusShipped, updated.Status)

	// backwards transition refused with no store write
	w = doJSON(t, r, http.MethodPatch, "/api/admin/orders/x/status", `{"status":"Pending"}`, hdr)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginRoute(t *testing.T) {
	store := &fakeStore{loginUser: domain.User{ID: "u1", Name: "Asha", Email: "a@b.c"}}
	w := doJSON(t, newRouter(store), http.MethodPost, "/api/login", `{"email":"a@b.c","password":"pw"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
}

func TestLoginRejectedPropagatesMessage(t *testing.T) {
	store := &fakeStore{loginErr: &storeclient.RejectedError{StatusCode: 401, Message: "invalid credentials"}}
	w := doJSON(t, newRouter(store), http.MethodPost, "/api/login", `{"email":"a@b.c","password":"pw"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestAddToCartRoute(t *testing.T) {
	w := doJSON(t, newRouter(&fakeStore{}), http.MethodPost, "/api/cart", `{"productId":"p1"}`, userHeaders())
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, newRouter(&fakeStore{}), http.MethodPost, "/api/cart", `{"productId":""}`, userHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
