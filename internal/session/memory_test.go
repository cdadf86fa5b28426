package session

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opryshko/bakehouse/internal/domain/cart"
	"github.com/opryshko/bakehouse/internal/domain/product"
)

func TestMemoryStore_SessionRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, "k1", 42))

	userID, err := store.LookupSession(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestMemoryStore_UnknownSession(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.LookupSession(context.Background(), "missing")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteSessionDropsCart(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, "k1", 42))
	var c cart.Cart
	c.AddItem(product.Product{ID: 1, Name: "White bread", Price: decimal.RequireFromString("25.00")}, 2)
	require.NoError(t, store.SaveCart(ctx, "k1", &c))

	require.NoError(t, store.DeleteSession(ctx, "k1"))

	_, err := store.LookupSession(ctx, "k1")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.LoadCart(ctx, "k1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CartIsStoredByValue(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var c cart.Cart
	c.AddItem(product.Product{ID: 1, Name: "White bread", Price: decimal.RequireFromString("25.00")}, 2)
	require.NoError(t, store.SaveCart(ctx, "k1", &c))

	// Mutating the source after saving must not affect the stored cart.
	c.UpdateQuantity(1, 99)

	loaded, err := store.LoadCart(ctx, "k1")
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, 2, loaded.Lines[0].Quantity)

	// Mutating the loaded copy must not affect the next load either.
	loaded.Clear()

	again, err := store.LoadCart(ctx, "k1")
	require.NoError(t, err)
	assert.Len(t, again.Lines, 1)
}

func TestMemoryStore_MissingCart(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.LoadCart(context.Background(), "k1")

	require.ErrorIs(t, err, ErrNotFound)
}
