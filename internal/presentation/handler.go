package presentation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/zenithkart/storefront-bff/internal/application"
	"github.com/zenithkart/storefront-bff/internal/domain"
	"github.com/zenithkart/storefront-bff/internal/presentation/helpers"
	"github.com/zenithkart/storefront-bff/internal/reconcile"
	"github.com/zenithkart/storefront-bff/internal/session"
	"github.com/zenithkart/storefront-bff/internal/storeclient"
)

type StorefrontHandler struct {
	svc *application.Service
}

func NewStorefrontHandler(svc *application.Service) *StorefrontHandler {
	return &StorefrontHandler{svc: svc}
}

func (h *StorefrontHandler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Get("/products", h.Products)
		r.Get("/profile/{id}", h.Profile)

		r.Get("/cart", h.GetCart)
		r.Post("/cart", h.AddToCart)
		r.Delete("/cart/{id}", h.RemoveFromCart)
		r.Post("/cart/remove", h.RemoveMany)

		r.Post("/checkout", h.Checkout)

		r.Get("/orders", h.Orders)
		r.Delete("/orders/{id}", h.CancelOrder)
		r.Post("/orders/buy", h.BuyNow)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.adminOnly)
			r.Get("/orders", h.AdminOrders)
			r.Patch("/orders/{id}/status", h.AdminSetStatus)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// sessionFrom rebuilds the caller's session from the request. The
// bearer token and user id are produced at login and carried by the
// client on every call; this layer never stores them.
func sessionFrom(r *http.Request) session.Session {
	var sess session.Session
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		sess.Token = strings.TrimPrefix(auth, "Bearer ")
	}
	sess.User.ID = r.Header.Get("X-User-Id")
	return sess
}

// adminOnly resolves the caller's profile and refuses non-admins. The
// role comes from the store, not from anything the client claims.
func (h *StorefrontHandler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if !sess.Authenticated() || sess.User.ID == "" {
			helpers.HttpError(w, http.StatusUnauthorized, "login required")
			return
		}
		user, err := h.svc.Profile(r.Context(), sess, sess.User.ID)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if !user.IsAdmin {
			helpers.HttpError(w, http.StatusForbidden, "administrator privileges required")
			return
		}
		sess.User = user
		next.ServeHTTP(w, requestWithSession(r, sess))
	})
}

func (h *StorefrontHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := helpers.DecodeJSON(r.Body, &body); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		helpers.HttpError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	sess, err := h.svc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"token": sess.Token,
		"user":  sess.User,
	})
}

func (h *StorefrontHandler) Products(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Products(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.Product{}
	}
	helpers.WriteJSON(w, http.StatusOK, items)
}

func (h *StorefrontHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Profile(r.Context(), sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, user)
}

func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.svc.ListCart(r.Context(), sessionFrom(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, application.OrdersWithImages(cart))
}

func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"productId"`
	}
	if err := helpers.DecodeJSON(r.Body, &body); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(body.ProductID) == "" {
		helpers.HttpError(w, http.StatusBadRequest, "productId is required")
		return
	}

	created, err := h.svc.AddToCart(r.Context(), sessionFrom(r), body.ProductID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, created)
}

func (h *StorefrontHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveFromCart(r.Context(), sessionFrom(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *StorefrontHandler) RemoveMany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := helpers.DecodeJSON(r.Body, &body); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if len(body.IDs) == 0 {
		helpers.HttpError(w, http.StatusBadRequest, "ids is required")
		return
	}

	results := h.svc.RemoveMany(r.Context(), sessionFrom(r), body.IDs)
	writeBatch(w, results)
}

func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs     []string       `json:"ids"`
		Address domain.Address `json:"address"`
	}
	if err := helpers.DecodeJSON(r.Body, &body); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	results, err := h.svc.Checkout(r.Context(), sessionFrom(r), body.IDs, body.Address)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeBatch(w, results)
}

func (h *StorefrontHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context(), sessionFrom(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, application.OrdersWithImages(orders))
}

func (h *StorefrontHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cancel(r.Context(), sessionFrom(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *StorefrontHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string         `json:"productId"`
		Address   domain.Address `json:"address"`
	}
	if err := helpers.DecodeJSON(r.Body, &body); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(body.ProductID) == "" {
		helpers.HttpError(w, http.StatusBadRequest, "productId is required")
		return
	}

	created, err := h.svc.BuyNow(r.Context(), sessionFrom(r), body.ProductID, body.Address)
	if err != nil {
		h.writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, created)
}

func (h *StorefrontHandler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListAllOrders(r.Context(), sessionFromContext(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, application.OrdersWithImages(orders))
}

func (h *StorefrontHandler) AdminSetStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.Status `json:"status"`
	}
	if err := helpers.DecodeJSON(r.Body, &body); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	updated, err := h.svc.SetStatus(r.Context(), sessionFromContext(r), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, updated)
}

// writeBatch reports bulk results item by item: 200 when everything
// landed, 207 when only part of the batch did.
func writeBatch(w http.ResponseWriter, results []application.ItemResult) {
	type item struct {
		ID    string        `json:"id"`
		Order *domain.Order `json:"order,omitempty"`
		Error string        `json:"error,omitempty"`
	}
	out := make([]item, 0, len(results))
	failures := 0
	for _, res := range results {
		it := item{ID: res.ID, Order: res.Order}
		if res.Err != nil {
			it.Error = res.Err.Error()
			failures++
		}
		out = append(out, it)
	}
	status := http.StatusOK
	if failures > 0 {
		status = http.StatusMultiStatus
	}
	helpers.WriteJSON(w, status, map[string]any{
		"results": out,
		"failed":  failures,
	})
}

func (h *StorefrontHandler) writeError(w http.ResponseWriter, err error) {
	var (
		vErr *domain.ValidationError
		rErr *storeclient.RejectedError
		tErr *storeclient.TransportError
	)
	switch {
	case errors.As(err, &vErr):
		helpers.HttpError(w, http.StatusBadRequest, vErr.Msg)
	case errors.Is(err, reconcile.ErrInFlight):
		helpers.HttpError(w, http.StatusConflict, "another change for this record is still in flight")
	case errors.Is(err, application.ErrNotCancellable):
		helpers.HttpError(w, http.StatusConflict, err.Error())
	case errors.Is(err, application.ErrInvalidTransition):
		helpers.HttpError(w, http.StatusConflict, err.Error())
	case errors.Is(err, application.ErrForbidden):
		helpers.HttpError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, storeclient.ErrNotFound), errors.Is(err, reconcile.ErrUnknownRecord):
		helpers.HttpError(w, http.StatusNotFound, "order not found")
	case errors.As(err, &rErr):
		// client-caused rejections keep their status; a store-side
		// failure reads as a bad gateway from here
		status := http.StatusBadGateway
		if rErr.StatusCode >= 400 && rErr.StatusCode < 500 {
			status = rErr.StatusCode
		}
		helpers.HttpError(w, status, rErr.Error())
	case errors.As(err, &tErr):
		helpers.HttpError(w, http.StatusGatewayTimeout, tErr.Error())
	default:
		helpers.HttpError(w, http.StatusInternalServerError, err.Error())
	}
}
