// Package domain defines the inventory domain entities.
package domain

import "github.com/shopspring/decimal"

// Product is a single inventory item. The ID is assigned by the caller and is
// immutable once set. No two products may share the same (name, brand) pair
// under case-insensitive comparison; that invariant is enforced on insert.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Brand string          `json:"brand"`
	Price decimal.Decimal `json:"price"`
}
