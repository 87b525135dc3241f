package session

import "github.com/zenithkart/storefront-bff/internal/domain"

// Session is the caller's identity, minted by the authentication
// collaborator at login. It is passed explicitly into every core
// operation; nothing in this module reads identity from ambient
// state, and nothing here mutates it.
type Session struct {
	Token string
	User  domain.User
}

func (s Session) Authenticated() bool { return s.Token != "" }

func (s Session) Admin() bool { return s.User.IsAdmin }
