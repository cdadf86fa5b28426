package user

import (
	"context"

	"github.com/go-faster/errors"
)

// Sentinel errors for identity operations.
var (
	// ErrNotFound is returned when no user matches the given ID or phone.
	ErrNotFound = errors.New("user not found")
	// ErrNotApproved is returned on login for a registered but not yet
	// approved account. The HTTP layer maps it to the same response as
	// ErrNotFound; the distinction exists for logs and callers that care.
	ErrNotApproved = errors.New("user not approved")
	// ErrPhoneTaken is returned on registration with an already used phone.
	ErrPhoneTaken = errors.New("phone already registered")
)

// User is a storefront account. The phone number is the natural login key.
// New registrations start unapproved; an administrator must approve the
// account before it can log in.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Approved  bool   `json:"approved"`
	Admin     bool   `json:"admin"`
}

// Repository defines persistence operations for user accounts.
//
// Create assigns the next identifier and writes it back to u. Approve sets
// the approval flag; Delete removes the record entirely (rejection is a hard
// delete, not a soft flag). Both return ErrNotFound for unknown IDs.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	Create(ctx context.Context, u *User) error
	Approve(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
