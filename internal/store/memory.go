package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"boutique_back_end/internal/models"
)

// MemoryStore garde les produits en mémoire (DOCUMENT_STORE=memory, tests).
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: make(map[string]models.Product)}
}

func (s *MemoryStore) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	s.products[p.ID] = clone(*p)
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	out := clone(p)
	return &out, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Product, error) {
	return s.filter(func(models.Product) bool { return true }), nil
}

func (s *MemoryStore) ListByCategory(_ context.Context, category models.Category) ([]models.Product, error) {
	return s.filter(func(p models.Product) bool { return p.Category == category }), nil
}

func (s *MemoryStore) filter(keep func(models.Product) bool) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			out = append(out, clone(p))
		}
	}
	sortNewestFirst(out)
	return out
}

func (s *MemoryStore) Replace(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[p.ID]
	if !ok {
		return ErrProductNotFound
	}
	next := clone(*p)
	next.CreatedAt = existing.CreatedAt
	s.products[p.ID] = next
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// clone évite que l'appelant partage les slices du store.
func clone(p models.Product) models.Product {
	if p.Tags != nil {
		p.Tags = append([]models.Tag(nil), p.Tags...)
	}
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	return p
}
