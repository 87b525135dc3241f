package presentation

import (
	"context"
	"net/http"

	"github.com/zenithkart/storefront-bff/internal/session"
)

type ctxKey struct{}

// requestWithSession stashes an already-resolved session (admin
// middleware looked the profile up) so handlers behind it do not
// resolve it twice.
func requestWithSession(r *http.Request, sess session.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess))
}

func sessionFromContext(r *http.Request) session.Session {
	if sess, ok := r.Context().Value(ctxKey{}).(session.Session); ok {
		return sess
	}
	return sessionFrom(r)
}
