package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"boutique_back_end/internal/models"
	"boutique_back_end/internal/store"
)

const DefaultProductTTL = 10 * time.Minute

const (
	keyAllProducts = "products:all"
)

func productKey(id string) string { return "product:" + id }

func categoryKey(c models.Category) string { return "products:category:" + string(c) }

// CachedProducts met un cache read-through devant un store.ProductStore.
// Toute écriture invalide le produit et les listes. Une panne du cache
// ne fait jamais échouer une lecture : on retombe sur le store.
type CachedProducts struct {
	next  store.ProductStore
	cache Store
	ttl   time.Duration
}

var (
	_ store.ProductStore = (*CachedProducts)(nil)
	_ store.FreshReader  = (*CachedProducts)(nil)
)

func NewCachedProducts(next store.ProductStore, cache Store, ttl time.Duration) *CachedProducts {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return &CachedProducts{next: next, cache: cache, ttl: ttl}
}

func (c *CachedProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if c.lookup(ctx, productKey(id), &p) {
		return &p, nil
	}

	found, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.remember(ctx, productKey(id), found)
	return found, nil
}

// GetByIDFresh lit le backend sans consulter ni remplir le cache.
func (c *CachedProducts) GetByIDFresh(ctx context.Context, id string) (*models.Product, error) {
	return c.next.GetByID(ctx, id)
}

func (c *CachedProducts) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if c.lookup(ctx, keyAllProducts, &products) {
		return products, nil
	}

	products, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.remember(ctx, keyAllProducts, products)
	return products, nil
}

func (c *CachedProducts) ListByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	key := categoryKey(category)
	var products []models.Product
	if c.lookup(ctx, key, &products) {
		return products, nil
	}

	products, err := c.next.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	c.remember(ctx, key, products)
	return products, nil
}

func (c *CachedProducts) Create(ctx context.Context, p *models.Product) error {
	if err := c.next.Create(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ID, p.Category)
	return nil
}

// Replace invalide aussi l'ancienne catégorie, le produit a pu en changer.
func (c *CachedProducts) Replace(ctx context.Context, p *models.Product) error {
	previous, _ := c.next.GetByID(ctx, p.ID)
	if err := c.next.Replace(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ID, p.Category)
	if previous != nil && previous.Category != p.Category {
		c.invalidate(ctx, p.ID, previous.Category)
	}
	return nil
}

func (c *CachedProducts) Delete(ctx context.Context, id string) error {
	previous, _ := c.next.GetByID(ctx, id)
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	keys := []string{productKey(id), keyAllProducts}
	if previous != nil {
		keys = append(keys, categoryKey(previous.Category))
	}
	if err := c.cache.Delete(ctx, keys...); err != nil {
		log.Printf("⚠️ Invalidation cache produit %s échouée : %v", id, err)
	}
	return nil
}

func (c *CachedProducts) Close(ctx context.Context) error {
	return c.next.Close(ctx)
}

func (c *CachedProducts) lookup(ctx context.Context, key string, dst any) bool {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Printf("⚠️ Lecture cache %s échouée : %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("⚠️ Entrée cache %s illisible : %v", key, err)
		return false
	}
	return true
}

func (c *CachedProducts) remember(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		log.Printf("⚠️ Écriture cache %s échouée : %v", key, err)
	}
}

func (c *CachedProducts) invalidate(ctx context.Context, id string, category models.Category) {
	if err := c.cache.Delete(ctx, productKey(id), keyAllProducts, categoryKey(category)); err != nil {
		log.Printf("⚠️ Invalidation cache produit %s échouée : %v", id, err)
	}
}
