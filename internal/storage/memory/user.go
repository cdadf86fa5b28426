package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/opryshko/bakehouse/internal/domain/user"
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository is an in-memory user.Repository. Safe for concurrent use.
type UserRepository struct {
	mu    sync.RWMutex
	users map[int64]user.User
}

// NewUserRepository creates a UserRepository pre-populated with seed.
func NewUserRepository(seed ...user.User) *UserRepository {
	r := &UserRepository{users: make(map[int64]user.User, len(seed))}
	for _, u := range seed {
		r.users[u.ID] = u
	}
	return r
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByPhone(_ context.Context, phone string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Phone == phone {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Phone == u.Phone {
			return user.ErrPhoneTaken
		}
	}

	var max int64
	for id := range r.users {
		if id > max {
			max = id
		}
	}
	u.ID = max + 1
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) Approve(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Approved = true
	r.users[id] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
