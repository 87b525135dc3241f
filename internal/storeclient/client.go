package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/zenithkart/storefront-bff/internal/domain"
	"github.com/zenithkart/storefront-bff/internal/session"
)

// Client talks to the remote Order Record Store, the only canonical
// home of order records. Every authenticated call attaches the
// caller's bearer credential; ownership scoping is enforced
// server-side.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, http: hc}
}

// CreateOrderRequest is the POST /orders body. Location stays empty
// for cart lines; a buy-now order carries it from the start.
type CreateOrderRequest struct {
	User     string `json:"user"`
	Product  string `json:"product"`
	IsCart   bool   `json:"isCart"`
	Location string `json:"location,omitempty"`
}

// OrderPatch is a partial PATCH /orders/{id} body. Only set fields
// are serialized.
type OrderPatch struct {
	Status   *domain.Status `json:"status,omitempty"`
	IsCart   *bool          `json:"isCart,omitempty"`
	Location *string        `json:"location,omitempty"`
}

func (c *Client) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	path := "/products"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOrders(ctx context.Context, sess session.Session) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders", sess.Token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateOrder(ctx context.Context, sess session.Session, req CreateOrderRequest) (domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders", sess.Token, req, &out); err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

func (c *Client) UpdateOrder(ctx context.Context, sess session.Session, id string, patch OrderPatch) (domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id), sess.Token, patch, &out); err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

func (c *Client) DeleteOrder(ctx context.Context, sess session.Session, id string) error {
	return c.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(id), sess.Token, nil, nil)
}

func (c *Client) Profile(ctx context.Context, sess session.Session, id string) (domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/users/profile/"+url.PathEscape(id), sess.Token, nil, &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}

type loginResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Login exchanges credentials for the user record and, when the store
// issues one, a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	body := map[string]string{"email": email, "password": password}
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/users/login", "", body, &out); err != nil {
		return domain.User{}, "", err
	}
	return out.User, out.Token, nil
}

// Ping reports whether the store answers at all. Any HTTP response
// counts; only a transport failure does not.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return &RejectedError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(resp.Body),
		}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// extractMessage pulls the human-readable text out of an error
// payload, which the store writes as either "message" or "error".
func extractMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
