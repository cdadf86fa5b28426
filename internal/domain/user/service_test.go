package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock repository ---

type mockUserRepo struct {
	byID   map[int64]*User
	nextID int64
}

func newMockUserRepo(seed ...User) *mockUserRepo {
	m := &mockUserRepo{byID: make(map[int64]*User)}
	for i := range seed {
		u := seed[i]
		m.byID[u.ID] = &u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *mockUserRepo) List(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByPhone(_ context.Context, phone string) (*User, error) {
	for _, u := range m.byID {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.byID {
		if existing.Phone == u.Phone {
			return ErrPhoneTaken
		}
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) Approve(_ context.Context, id int64) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.Approved = true
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// --- Tests ---

func newTestService(t *testing.T, seed ...User) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), newMockUserRepo(seed...))
	require.NoError(t, err)
	return svc
}

func TestLogin_ApprovedUser(t *testing.T) {
	svc := newTestService(t, User{ID: 1, FirstName: "Test", LastName: "Customer", Phone: "0987654321", Approved: true})

	u, err := svc.Login(context.Background(), "0987654321")

	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.False(t, u.Admin)
}

func TestLogin_UnknownPhone(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), "0000000002")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestLogin_PendingApproval(t *testing.T) {
	svc := newTestService(t, User{ID: 3, FirstName: "Pending", LastName: "User", Phone: "1122334455"})

	_, err := svc.Login(context.Background(), "1122334455")

	require.ErrorIs(t, err, ErrNotApproved)
}

func TestRegister_NewUserStartsPending(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(context.Background(), "Test", "User", "0000000001")

	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.False(t, u.Approved)
	assert.False(t, u.Admin)

	// Pending accounts cannot log in yet.
	_, err = svc.Login(context.Background(), "0000000001")
	require.ErrorIs(t, err, ErrNotApproved)
}

func TestRegister_DuplicatePhone(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), "Test", "User", "0000000001")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other", "User", "0000000001")
	require.ErrorIs(t, err, ErrPhoneTaken)
}

func TestRegister_DuplicateOfSeededPhone(t *testing.T) {
	// The phone filter is warmed from the repository, so duplicates of
	// pre-existing users are caught as well.
	svc := newTestService(t, User{ID: 1, Phone: "1234567890", Approved: true, Admin: true})

	_, err := svc.Register(context.Background(), "Copy", "Cat", "1234567890")

	require.ErrorIs(t, err, ErrPhoneTaken)
}

func TestApprove_EnablesLogin(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(context.Background(), "Test", "User", "0000000001")
	require.NoError(t, err)

	require.NoError(t, svc.Approve(context.Background(), u.ID))

	got, err := svc.Login(context.Background(), "0000000001")
	require.NoError(t, err)
	assert.True(t, got.Approved)
}

func TestApprove_UnknownID(t *testing.T) {
	svc := newTestService(t)

	err := svc.Approve(context.Background(), 42)

	require.ErrorIs(t, err, ErrNotFound)
}

func TestReject_RemovesAccount(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(context.Background(), "Test", "User", "0000000001")
	require.NoError(t, err)

	require.NoError(t, svc.Reject(context.Background(), u.ID))

	_, err = svc.GetByID(context.Background(), u.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// The phone can be registered again after rejection.
	_, err = svc.Register(context.Background(), "Test", "User", "0000000001")
	require.NoError(t, err)
}
