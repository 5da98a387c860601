// Package filter builds the product query predicate from optional filter
// fields and performs the (name, brand) uniqueness check.
package filter

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avdmitry/inventory-service/internal/inventory/domain"
)

// Filter holds the optional query constraints. A nil field contributes no
// clause. An empty string is still a constraint: a present-but-empty name
// matches every product, a present-but-empty brand matches only products with
// an empty brand.
type Filter struct {
	Name     *string
	Brand    *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Clause is a single named predicate over products. SQL holds a WHERE
// fragment with a $%d placeholder filled in by the store; Match evaluates the
// same condition in memory. Clauses are always combined with AND.
type Clause struct {
	Name  string
	SQL   string
	Arg   any
	Match func(p domain.Product) bool
}

// Empty reports whether no filter field is set.
func (f Filter) Empty() bool {
	return f.Name == nil && f.Brand == nil && f.MinPrice == nil && f.MaxPrice == nil
}

// Clauses returns the predicate clauses for the set fields, in a fixed order:
// name, brand, minPrice, maxPrice.
func (f Filter) Clauses() []Clause {
	var clauses []Clause
	if f.Name != nil {
		name := *f.Name
		clauses = append(clauses, Clause{
			Name: "name_contains",
			// strpos instead of LIKE so % and _ in the value stay literal;
			// strpos(x, '') is 1, so an empty name matches every row
			SQL: "strpos(name, $%d) > 0",
			Arg: name,
			Match: func(p domain.Product) bool {
				return strings.Contains(p.Name, name)
			},
		})
	}
	if f.Brand != nil {
		brand := *f.Brand
		clauses = append(clauses, Clause{
			Name: "brand_equals",
			SQL:  "brand = $%d",
			Arg:  brand,
			Match: func(p domain.Product) bool {
				return p.Brand == brand
			},
		})
	}
	if f.MinPrice != nil {
		minPrice := *f.MinPrice
		clauses = append(clauses, Clause{
			Name: "price_gte",
			SQL:  "price >= $%d",
			Arg:  minPrice,
			Match: func(p domain.Product) bool {
				return p.Price.GreaterThanOrEqual(minPrice)
			},
		})
	}
	if f.MaxPrice != nil {
		maxPrice := *f.MaxPrice
		clauses = append(clauses, Clause{
			Name: "price_lte",
			SQL:  "price <= $%d",
			Arg:  maxPrice,
			Match: func(p domain.Product) bool {
				return p.Price.LessThanOrEqual(maxPrice)
			},
		})
	}
	return clauses
}

// Matches reports whether p satisfies every clause. A filter with no fields
// set matches every product.
func (f Filter) Matches(p domain.Product) bool {
	for _, c := range f.Clauses() {
		if !c.Match(p) {
			return false
		}
	}
	return true
}

// IsDuplicate reports whether any existing product carries the candidate's
// name and brand, compared case-insensitively (ordinal fold, not
// locale-aware). The check runs on insert only; updates keep their identity.
func IsDuplicate(candidate domain.Product, existing []domain.Product) bool {
	for _, p := range existing {
		if strings.EqualFold(p.Name, candidate.Name) && strings.EqualFold(p.Brand, candidate.Brand) {
			return true
		}
	}
	return false
}
