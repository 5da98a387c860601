package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avdmitry/inventory-service/internal/inventory/domain"
	inverrors "github.com/avdmitry/inventory-service/internal/inventory/errors"
	"github.com/avdmitry/inventory-service/internal/inventory/filter"
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new ProductStore backed by a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

const productColumns = "id, name, brand, price"

// FindAll returns every product ordered by id ascending.
func (s *PgStore) FindAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.Query(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Product])
	if err != nil {
		return nil, fmt.Errorf("failed to collect products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *PgStore) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	rows, err := s.db.Query(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	product, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[domain.Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inverrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// Insert adds a new product under its caller-assigned ID.
func (s *PgStore) Insert(ctx context.Context, p domain.Product) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO products (id, name, brand, price) VALUES ($1, $2, $3, $4)",
		p.ID, p.Name, p.Brand, p.Price)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Replace fully updates the product stored under p.ID.
// Returns ErrProductNotFound if no product exists with that ID.
func (s *PgStore) Replace(ctx context.Context, p domain.Product) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE products SET name = $2, brand = $3, price = $4 WHERE id = $1",
		p.ID, p.Name, p.Brand, p.Price)
	if err != nil {
		return fmt.Errorf("failed to replace product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return inverrors.ErrProductNotFound
	}
	return nil
}

// DeleteByID removes a product by its identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *PgStore) DeleteByID(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return inverrors.ErrProductNotFound
	}
	return nil
}

// Query translates the filter clauses into a WHERE conjunction and returns
// the matching products ordered by id ascending.
func (s *PgStore) Query(ctx context.Context, clauses []filter.Clause) ([]domain.Product, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + productColumns + " FROM products")
	args := make([]any, 0, len(clauses))
	for i, c := range clauses {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(&sb, c.SQL, i+1)
		args = append(args, c.Arg)
	}
	sb.WriteString(" ORDER BY id")

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Product])
	if err != nil {
		return nil, fmt.Errorf("failed to collect products: %w", err)
	}
	return products, nil
}
