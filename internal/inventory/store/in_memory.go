package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/avdmitry/inventory-service/internal/inventory/domain"
	inverrors "github.com/avdmitry/inventory-service/internal/inventory/errors"
	"github.com/avdmitry/inventory-service/internal/inventory/filter"
)

// InMemoryStore implements ProductStore with a mutex-guarded map. It backs
// unit and end-to-end tests and local runs without a database.
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
}

// NewInMemoryStore creates an empty in-memory ProductStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[int64]domain.Product),
	}
}

// FindAll returns every product ordered by id ascending.
func (s *InMemoryStore) FindAll(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(), nil
}

// FindByID retrieves a product by its identifier.
func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, inverrors.ErrProductNotFound
	}
	return &p, nil
}

// Insert adds a new product under its caller-assigned ID.
func (s *InMemoryStore) Insert(_ context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; exists {
		return fmt.Errorf("product with id %d already exists", p.ID)
	}
	s.products[p.ID] = p
	return nil
}

// Replace fully updates the product stored under p.ID.
func (s *InMemoryStore) Replace(_ context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; !exists {
		return inverrors.ErrProductNotFound
	}
	s.products[p.ID] = p
	return nil
}

// DeleteByID removes a product by its identifier.
func (s *InMemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return inverrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// Query evaluates the clause predicates in memory and returns the matching
// products ordered by id ascending.
func (s *InMemoryStore) Query(_ context.Context, clauses []filter.Clause) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Product, 0)
	for _, p := range s.sorted() {
		if matchesAll(p, clauses) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func matchesAll(p domain.Product, clauses []filter.Clause) bool {
	for _, c := range clauses {
		if !c.Match(p) {
			return false
		}
	}
	return true
}

// sorted returns the products ordered by id. Callers hold the lock.
func (s *InMemoryStore) sorted() []domain.Product {
	list := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
