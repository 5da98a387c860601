// Package service provides the implementation of inventory business logic.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avdmitry/inventory-service/internal/inventory/apperr"
	"github.com/avdmitry/inventory-service/internal/inventory/domain"
	inverrors "github.com/avdmitry/inventory-service/internal/inventory/errors"
	"github.com/avdmitry/inventory-service/internal/inventory/filter"
	"github.com/avdmitry/inventory-service/internal/inventory/paging"
	"github.com/avdmitry/inventory-service/internal/inventory/store"
)

// InventoryService defines the methods for managing the product inventory.
// It abstracts the underlying business logic and data access.
type InventoryService interface {
	// FindAll returns all products ordered by id.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its identifier.
	// Returns a not-found error if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// ListPaged returns one page of the full product set.
	// Returns a validation error for non-positive page coordinates.
	ListPaged(ctx context.Context, params paging.Params) (*paging.PagedList[ProductDto], error)

	// ListFiltered returns one page of the products matching the filter.
	// Returns a validation error for non-positive page coordinates.
	ListFiltered(ctx context.Context, f filter.Filter, params paging.Params) (*paging.PagedList[ProductDto], error)

	// Add inserts a new product with its caller-assigned ID.
	// Returns a duplication error when an existing product carries the same
	// name and brand under case-insensitive comparison.
	Add(ctx context.Context, p ProductDto) (*ProductDto, error)

	// Update fully replaces the product stored under p.ID.
	// Returns a not-found error if no product exists with that ID.
	Update(ctx context.Context, p ProductDto) error

	// DeleteByID removes a product.
	// Returns a not-found error if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// Service implements InventoryService on top of a ProductStore.
type Service struct {
	repository store.ProductStore
}

// NewService creates a new InventoryService with the provided store.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
	}
}

// ProductDto is the transport representation of a product. Price carries no
// range constraint.
type ProductDto struct {
	ID    int64           `json:"id"    validate:"required"`
	Name  string          `json:"name"  validate:"required"`
	Brand string          `json:"brand" validate:"required"`
	Price decimal.Decimal `json:"price"`
}

// FindAll returns every product ordered by id.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtos(products), nil
}

// FindByID retrieves a product by its ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, inverrors.ErrProductNotFound) {
			return nil, apperr.NotFound()
		}
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	dto := toDto(*product)
	return &dto, nil
}

// ListPaged slices the full id-ordered product set into the requested page.
func (s *Service) ListPaged(ctx context.Context, params paging.Params) (*paging.PagedList[ProductDto], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	page := paging.NewPagedList(toDtos(products), params)
	return &page, nil
}

// ListFiltered fetches the id-ordered products matching the filter and slices
// them into the requested page.
func (s *Service) ListFiltered(ctx context.Context, f filter.Filter, params paging.Params) (*paging.PagedList[ProductDto], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	products, err := s.repository.Query(ctx, f.Clauses())
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	page := paging.NewPagedList(toDtos(products), params)
	return &page, nil
}

// Add inserts a new product after checking the (name, brand) uniqueness
// invariant. The check is not atomic with the insert: two concurrent adds
// with the same name and brand can both pass it before either commits.
func (s *Service) Add(ctx context.Context, p ProductDto) (*ProductDto, error) {
	existing, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products for uniqueness check: %w", err)
	}
	candidate := toDomain(p)
	if filter.IsDuplicate(candidate, existing) {
		return nil, apperr.Validation(apperr.MsgDuplication)
	}
	if err := s.repository.Insert(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return &p, nil
}

// Update fully replaces an existing product. Existence is checked first so
// absence surfaces as the domain not-found error, never as a blind mutation.
func (s *Service) Update(ctx context.Context, p ProductDto) error {
	if _, err := s.repository.FindByID(ctx, p.ID); err != nil {
		if errors.Is(err, inverrors.ErrProductNotFound) {
			return apperr.NotFound()
		}
		return fmt.Errorf("failed to fetch product by ID %d: %w", p.ID, err)
	}
	if err := s.repository.Replace(ctx, toDomain(p)); err != nil {
		return fmt.Errorf("failed to update product with ID %d: %w", p.ID, err)
	}
	return nil
}

// DeleteByID removes a product after checking it exists.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.repository.FindByID(ctx, id); err != nil {
		if errors.Is(err, inverrors.ErrProductNotFound) {
			return apperr.NotFound()
		}
		return fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	if err := s.repository.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	return nil
}

func toDto(p domain.Product) ProductDto {
	return ProductDto{
		ID:    p.ID,
		Name:  p.Name,
		Brand: p.Brand,
		Price: p.Price,
	}
}

func toDtos(products []domain.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i, p := range products {
		dtos[i] = toDto(p)
	}
	return dtos
}

func toDomain(p ProductDto) domain.Product {
	return domain.Product{
		ID:    p.ID,
		Name:  p.Name,
		Brand: p.Brand,
		Price: p.Price,
	}
}
