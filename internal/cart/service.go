package cart

import (
	"context"
	"fmt"
	"log"

	"boutique_back_end/internal/models"
	"boutique_back_end/internal/store"
)

// Service charge le panier, applique une mutation, le persiste puis notifie.
type Service struct {
	repo     Repository
	notifier Notifier
	products store.ProductStore
}

func NewService(repo Repository, notifier Notifier, products store.ProductStore) *Service {
	return &Service{repo: repo, notifier: notifier, products: products}
}

func (s *Service) Get(ctx context.Context, session string) (*Cart, error) {
	return s.repo.Load(ctx, session)
}

// Add lit titre, prix et image dans le catalogue : le client n'envoie que l'id.
func (s *Service) Add(ctx context.Context, session, productID string) (*Cart, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	item := models.CartItem{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Image:     p.ImageURL,
	}
	return s.mutate(ctx, session, EventUpdated, func(c *Cart) { c.Add(item) })
}

func (s *Service) Remove(ctx context.Context, session, productID string) (*Cart, error) {
	return s.mutate(ctx, session, EventUpdated, func(c *Cart) { c.Remove(productID) })
}

func (s *Service) Increase(ctx context.Context, session, productID string) (*Cart, error) {
	return s.mutate(ctx, session, EventUpdated, func(c *Cart) { c.Increase(productID) })
}

func (s *Service) Decrease(ctx context.Context, session, productID string) (*Cart, error) {
	return s.mutate(ctx, session, EventUpdated, func(c *Cart) { c.Decrease(productID) })
}

func (s *Service) Clear(ctx context.Context, session string) (*Cart, error) {
	return s.mutate(ctx, session, EventCleared, func(c *Cart) { c.Clear() })
}

func (s *Service) Subscribe(ctx context.Context, session string) (<-chan string, func(), error) {
	return s.notifier.Subscribe(ctx, session)
}

func (s *Service) mutate(ctx context.Context, session, event string, apply func(*Cart)) (*Cart, error) {
	c, err := s.repo.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	apply(c)
	if err := s.repo.Save(ctx, session, c); err != nil {
		return nil, fmt.Errorf("sauvegarde panier %s: %w", session, err)
	}
	if err := s.notifier.Publish(ctx, session, event); err != nil {
		log.Printf("⚠️ Notification panier %s échouée : %v", session, err)
	}
	return c, nil
}
