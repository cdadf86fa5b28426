// Package memory provides in-memory implementations of the persistence
// gateways. They back the test suites and any deployment that runs without
// a database, and define the reference behavior for identifier assignment:
// new records get one more than the current maximum ID.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/opryshko/bakehouse/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository is an in-memory product.Repository. Safe for concurrent
// use. All reads return copies.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]product.Product
	order    []int64
}

// NewProductRepository creates a ProductRepository pre-populated with seed.
func NewProductRepository(seed ...product.Product) *ProductRepository {
	r := &ProductRepository{products: make(map[int64]product.Product, len(seed))}
	for _, p := range seed {
		r.products[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

func (r *ProductRepository) List(_ context.Context) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]product.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}

func (r *ProductRepository) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, id := range r.order {
		c := r.products[id].Category
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (r *ProductRepository) GetByID(_ context.Context, id int64) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (r *ProductRepository) Save(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID != 0 {
		if _, ok := r.products[p.ID]; !ok {
			return product.ErrNotFound
		}
		r.products[p.ID] = *p
		return nil
	}

	p.ID = r.maxIDLocked() + 1
	r.products[p.ID] = *p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return product.ErrNotFound
	}
	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *ProductRepository) maxIDLocked() int64 {
	var max int64
	for id := range r.products {
		if id > max {
			max = id
		}
	}
	return max
}
