package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boutique_back_end/internal/models"
	"boutique_back_end/internal/store"
)

// countingStore compte les lectures qui atteignent le vrai store.
type countingStore struct {
	*store.MemoryStore
	gets, lists int
}

func (s *countingStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	s.gets++
	return s.MemoryStore.GetByID(ctx, id)
}

func (s *countingStore) List(ctx context.Context) ([]models.Product, error) {
	s.lists++
	return s.MemoryStore.List(ctx)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, error) { return nil, errors.New("redis down") }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("redis down")
}
func (brokenCache) Delete(context.Context, ...string) error { return errors.New("redis down") }

func product(title string, c models.Category) *models.Product {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Product{
		ProductFields: models.ProductFields{Title: title, Category: c, Tags: []models.Tag{models.TagNew}},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCachedProducts_GetIsReadThrough(t *testing.T) {
	backing := &countingStore{MemoryStore: store.NewMemoryStore()}
	c := NewCachedProducts(backing, NewMemoryCache(), time.Minute)
	ctx := context.Background()
	p := product("Lamp", models.CategoryBeauty)
	require.NoError(t, c.Create(ctx, p))

	first, err := c.GetByID(ctx, p.ID)
	require.NoError(t, err)
	second, err := c.GetByID(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backing.gets)
}

func TestCachedProducts_WritesInvalidate(t *testing.T) {
	backing := &countingStore{MemoryStore: store.NewMemoryStore()}
	c := NewCachedProducts(backing, NewMemoryCache(), time.Minute)
	ctx := context.Background()
	p := product("Lamp", models.CategoryBeauty)
	require.NoError(t, c.Create(ctx, p))

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, c.Create(ctx, product("Soap", models.CategoryBeauty)))
	list, err = c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, backing.lists)

	next := *p
	next.Title = "Lamp v2"
	next.Category = models.CategoryGroceries
	require.NoError(t, c.Replace(ctx, &next))

	got, err := c.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp v2", got.Title)

	beauty, err := c.ListByCategory(ctx, models.CategoryBeauty)
	require.NoError(t, err)
	assert.Len(t, beauty, 1)

	require.NoError(t, c.Delete(ctx, p.ID))
	_, err = c.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestCachedProducts_FreshReadSkipsStaleEntry(t *testing.T) {
	backing := &countingStore{MemoryStore: store.NewMemoryStore()}
	c := NewCachedProducts(backing, NewMemoryCache(), time.Minute)
	ctx := context.Background()
	p := product("Lamp", models.CategoryBeauty)
	require.NoError(t, c.Create(ctx, p))
	_, err := c.GetByID(ctx, p.ID)
	require.NoError(t, err)

	next := *p
	next.ImageURL = "http://blob/current.png"
	require.NoError(t, backing.MemoryStore.Replace(ctx, &next))

	stale, err := c.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "", stale.ImageURL)

	fresh, err := store.GetFresh(ctx, c, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://blob/current.png", fresh.ImageURL)

	// la lecture fraîche ne remplit pas le cache
	stale, err = c.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "", stale.ImageURL)
	assert.Equal(t, 2, backing.gets)
}

func TestCachedProducts_BrokenCacheFallsBack(t *testing.T) {
	backing := store.NewMemoryStore()
	c := NewCachedProducts(backing, brokenCache{}, time.Minute)
	ctx := context.Background()
	p := product("Lamp", models.CategoryBeauty)

	require.NoError(t, c.Create(ctx, p))
	got, err := c.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Title)
	require.NoError(t, c.Delete(ctx, p.ID))
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}
