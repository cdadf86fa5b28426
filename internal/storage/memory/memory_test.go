package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opryshko/bakehouse/internal/domain/cart"
	"github.com/opryshko/bakehouse/internal/domain/order"
	"github.com/opryshko/bakehouse/internal/domain/product"
	"github.com/opryshko/bakehouse/internal/domain/user"
)

func bread(id int64, name, price, category string) product.Product {
	return product.Product{
		ID:        id,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Category:  category,
		Available: true,
	}
}

func TestProductRepository_SaveAssignsMaxPlusOne(t *testing.T) {
	repo := NewProductRepository(
		bread(1, "White bread", "25.00", "Bread"),
		bread(5, "Poppy seed bun", "18.00", "Pastry"),
	)

	p := bread(0, "Cherry pie", "45.00", "Desserts")
	require.NoError(t, repo.Save(context.Background(), &p))

	assert.Equal(t, int64(6), p.ID)

	got, err := repo.GetByID(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, "Cherry pie", got.Name)
}

func TestProductRepository_SaveUpdatesExisting(t *testing.T) {
	repo := NewProductRepository(bread(1, "White bread", "25.00", "Bread"))

	p := bread(1, "White bread", "27.50", "Bread")
	require.NoError(t, repo.Save(context.Background(), &p))

	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("27.50").Equal(got.Price))
}

func TestProductRepository_UpdateUnknownID(t *testing.T) {
	repo := NewProductRepository()

	p := bread(9, "Ghost loaf", "1.00", "Bread")
	err := repo.Save(context.Background(), &p)

	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestProductRepository_DeleteAndNotFound(t *testing.T) {
	repo := NewProductRepository(bread(1, "White bread", "25.00", "Bread"))

	require.NoError(t, repo.Delete(context.Background(), 1))
	require.ErrorIs(t, repo.Delete(context.Background(), 1), product.ErrNotFound)

	_, err := repo.GetByID(context.Background(), 1)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestProductRepository_CategoriesAreDistinct(t *testing.T) {
	repo := NewProductRepository(
		bread(1, "White bread", "25.00", "Bread"),
		bread(2, "Rye bread", "30.00", "Bread"),
		bread(3, "Croissant", "22.00", "Pastry"),
		bread(4, "Cherry pie", "45.00", "Desserts"),
	)

	cats, err := repo.Categories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Bread", "Desserts", "Pastry"}, cats)
}

func TestUserRepository_CreateEnforcesUniquePhone(t *testing.T) {
	repo := NewUserRepository()

	u := user.User{FirstName: "Test", LastName: "User", Phone: "0000000001"}
	require.NoError(t, repo.Create(context.Background(), &u))
	assert.Equal(t, int64(1), u.ID)

	dup := user.User{FirstName: "Other", LastName: "User", Phone: "0000000001"}
	require.ErrorIs(t, repo.Create(context.Background(), &dup), user.ErrPhoneTaken)
}

func TestUserRepository_ApproveAndDelete(t *testing.T) {
	repo := NewUserRepository(user.User{ID: 3, Phone: "1122334455"})

	require.NoError(t, repo.Approve(context.Background(), 3))
	got, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, got.Approved)

	require.NoError(t, repo.Delete(context.Background(), 3))
	require.ErrorIs(t, repo.Approve(context.Background(), 3), user.ErrNotFound)
}

func TestOrderRepository_MonotonicIDs(t *testing.T) {
	repo := NewOrderRepository()

	var prev int64
	for i := range 4 {
		o := order.Order{UserID: int64(i), Status: order.StatusPending}
		require.NoError(t, repo.Create(context.Background(), &o))
		assert.Greater(t, o.ID, prev)
		prev = o.ID
	}
}

func TestOrderRepository_ReadsReturnCopies(t *testing.T) {
	repo := NewOrderRepository()

	o := order.Order{
		UserID: 2,
		Items: []cart.Line{
			{Product: bread(1, "White bread", "25.00", "Bread"), Quantity: 2},
		},
		TotalAmount: decimal.RequireFromString("50.00"),
		Status:      order.StatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), &o))

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)

	// Tampering with the returned copy must not leak into the store.
	got.Status = order.StatusCancelled
	got.Items[0].Quantity = 99

	fresh, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, fresh.Status)
	assert.Equal(t, 2, fresh.Items[0].Quantity)
}

func TestOrderRepository_UpdateStatusUnknownID(t *testing.T) {
	repo := NewOrderRepository()

	err := repo.UpdateStatus(context.Background(), 1, order.StatusConfirmed)

	require.ErrorIs(t, err, order.ErrNotFound)
}
