// Package session persists the per-session state that the storefront keeps
// between requests: the authenticated user identity and the cart contents.
// Both live under opaque session keys handed out at login.
package session

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/opryshko/bakehouse/internal/domain/cart"
)

// ErrNotFound is returned when no session or cart exists for the given key.
var ErrNotFound = errors.New("session not found")

// Store persists sessions and their carts. Implementations must be safe for
// concurrent use. Overlapping writes to the same key have last-write-wins
// semantics; the storefront does not model concurrent writers per session.
type Store interface {
	// SaveSession binds key to the given user until the session TTL expires.
	SaveSession(ctx context.Context, key string, userID int64) error
	// LookupSession resolves key to a user ID, or ErrNotFound.
	LookupSession(ctx context.Context, key string) (int64, error)
	// DeleteSession removes the session and its cart.
	DeleteSession(ctx context.Context, key string) error

	// SaveCart stores the cart under key, replacing any previous contents.
	SaveCart(ctx context.Context, key string, c *cart.Cart) error
	// LoadCart returns the cart stored under key, or ErrNotFound when the
	// session has no cart yet.
	LoadCart(ctx context.Context, key string) (*cart.Cart, error)
}
