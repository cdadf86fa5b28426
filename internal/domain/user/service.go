package user

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
)

// Bloom filter sizing for the registered-phone fast path. The filter only
// short-circuits the "definitely new phone" case; positives always fall
// through to a repository lookup, so false positives cost one query.
const (
	phoneBloomCapacity = 1_000_000
	phoneBloomFPR      = 0.001
)

// Service implements the identity operations: phone-based login with an
// approval gate, registration, and administrative approve/reject.
type Service struct {
	users Repository

	// phones tracks every phone seen by this process so Register can skip
	// the duplicate lookup for phones that are definitely unregistered.
	mu     sync.Mutex
	phones *bloom.BloomFilter
}

// NewService creates an identity Service and warms the phone filter from the
// repository.
func NewService(ctx context.Context, users Repository) (*Service, error) {
	s := &Service{
		users:  users,
		phones: bloom.NewWithEstimates(phoneBloomCapacity, phoneBloomFPR),
	}

	existing, err := users.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "warm phone filter")
	}
	for _, u := range existing {
		s.phones.AddString(u.Phone)
	}
	return s, nil
}

// Login resolves a phone number to an approved user. It returns ErrNotFound
// for unknown phones and ErrNotApproved for accounts still pending approval.
func (s *Service) Login(ctx context.Context, phone string) (*User, error) {
	u, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "lookup user")
	}
	if !u.Approved {
		return nil, ErrNotApproved
	}
	return u, nil
}

// Register creates a new unapproved, non-admin account. It returns
// ErrPhoneTaken when the phone is already registered.
func (s *Service) Register(ctx context.Context, firstName, lastName, phone string) (*User, error) {
	if s.mightKnowPhone(phone) {
		_, err := s.users.GetByPhone(ctx, phone)
		if err == nil {
			return nil, ErrPhoneTaken
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, errors.Wrap(err, "check phone")
		}
	}

	u := &User{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Approved:  false,
		Admin:     false,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrPhoneTaken) {
			return nil, ErrPhoneTaken
		}
		return nil, errors.Wrap(err, "create user")
	}

	s.rememberPhone(phone)
	return u, nil
}

// Approve marks the account as approved so it can log in.
func (s *Service) Approve(ctx context.Context, id int64) error {
	return s.users.Approve(ctx, id)
}

// Reject permanently removes a pending account. The phone stays in the bloom
// filter; a re-registration of the same phone just pays one extra lookup.
func (s *Service) Reject(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

// GetByID returns a single account.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) mightKnowPhone(phone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phones.TestString(phone)
}

func (s *Service) rememberPhone(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phones.AddString(phone)
}
