package store

import (
	"context"
	"errors"
	"sort"

	"boutique_back_end/internal/models"
)

var ErrProductNotFound = errors.New("store: product not found")

// ProductStore est la collection "products". Les identifiants sont attribués
// par le backend à la création et ne changent plus ensuite.
type ProductStore interface {
	// Create renseigne p.ID.
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// List trie par createdAt décroissant.
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, category models.Category) ([]models.Product, error)
	// Replace remplace tout sauf l'identité et createdAt.
	Replace(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// FreshReader est implémenté par les décorateurs de cache : la lecture va
// directement au backend.
type FreshReader interface {
	GetByIDFresh(ctx context.Context, id string) (*models.Product, error)
}

// GetFresh lit le document courant en contournant un éventuel cache.
// Les chemins d'écriture s'en servent pour ne jamais partir d'une copie périmée.
func GetFresh(ctx context.Context, s ProductStore, id string) (*models.Product, error) {
	if f, ok := s.(FreshReader); ok {
		return f.GetByIDFresh(ctx, id)
	}
	return s.GetByID(ctx, id)
}

func sortNewestFirst(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}
