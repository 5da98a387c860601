// Package store provides the persistence boundary for products.
package store

import (
	"context"

	"github.com/avdmitry/inventory-service/internal/inventory/domain"
	"github.com/avdmitry/inventory-service/internal/inventory/filter"
)

// ProductStore is the boundary over the persistent product collection.
// It abstracts the underlying data store, allowing for different
// implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindAll returns every product ordered by id ascending.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]domain.Product, error)

	// FindByID retrieves a single product by its identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*domain.Product, error)

	// Insert adds a new product under its caller-assigned ID.
	// The write is committed before Insert returns.
	Insert(ctx context.Context, p domain.Product) error

	// Replace fully updates the product stored under p.ID.
	// Returns ErrProductNotFound if no product exists with that ID.
	Replace(ctx context.Context, p domain.Product) error

	// DeleteByID removes a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// Query returns the products satisfying every clause, ordered by id
	// ascending. No clauses means every product.
	Query(ctx context.Context, clauses []filter.Clause) ([]domain.Product, error)
}
