package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"boutique_back_end/internal/models"
)

const DefaultTTL = 30 * 24 * time.Hour

func key(session string) string { return "cart:" + session }

// Repository persiste un panier par session. Load renvoie un panier vide
// pour une session inconnue.
type Repository interface {
	Load(ctx context.Context, session string) (*Cart, error)
	Save(ctx context.Context, session string, c *Cart) error
}

type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) Load(ctx context.Context, session string) (*Cart, error) {
	data, err := r.client.Get(ctx, key(session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("lecture panier %s: %w", session, err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("décodage panier %s: %w", session, err)
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return &Cart{Items: items}, nil
}

// Save supprime la clé d'un panier vide plutôt que de stocker "[]".
func (r *RedisRepository) Save(ctx context.Context, session string, c *Cart) error {
	if c.IsEmpty() {
		return r.client.Del(ctx, key(session)).Err()
	}
	data, err := json.Marshal(c.Items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key(session), data, r.ttl).Err()
}

type MemoryRepository struct {
	mu    sync.Mutex
	carts map[string][]models.CartItem
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string][]models.CartItem)}
}

func (r *MemoryRepository) Load(_ context.Context, session string) (*Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := append([]models.CartItem{}, r.carts[session]...)
	return &Cart{Items: items}, nil
}

func (r *MemoryRepository) Save(_ context.Context, session string, c *Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.IsEmpty() {
		delete(r.carts, session)
		return nil
	}
	r.carts[session] = append([]models.CartItem(nil), c.Items...)
	return nil
}
