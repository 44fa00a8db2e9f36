package bridge

import (
	"errors"
	"net/http"
)

// ErrUnauthenticated is returned when a request carries no resolvable
// identity. Checkout creation requires a signed-in caller.
var ErrUnauthenticated = errors.New("not authenticated")

// Identity is the caller's identity as produced by the external
// identity provider: an opaque stable user id and an email address.
type Identity struct {
	UserID string
	Email  string
}

// IdentityFunc resolves the caller's identity from a request. The
// identity provider itself is out of scope, so the concrete resolution
// (session cookie, JWT, trusted proxy headers) is injected.
type IdentityFunc func(r *http.Request) (Identity, error)

// IdentityFromHeaders resolves identity from the X-User-Id and
// X-User-Email headers set by an authenticating reverse proxy. Only
// usable behind a proxy that strips these headers from client traffic.
func IdentityFromHeaders(r *http.Request) (Identity, error) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{
		UserID: userID,
		Email:  r.Header.Get("X-User-Email"),
	}, nil
}
