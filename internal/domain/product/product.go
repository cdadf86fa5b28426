package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for ordering. Cart lines and
// order lines store a copy of the product, so a line keeps the name and price
// the product had when it was added, even if the catalog changes later.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Available   bool            `json:"available"`
}

// Repository defines persistence operations for the product catalog.
//
// Save inserts when the product has a zero ID and updates otherwise; on
// insert the repository assigns the next identifier and writes it back to p.
// Update of an unknown ID and Delete of an unknown ID return ErrNotFound.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}
