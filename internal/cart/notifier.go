package cart

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	EventUpdated = "updated"
	EventCleared = "cleared"
)

// Notifier diffuse les changements d'un panier sur le canal "cart:<session>".
type Notifier interface {
	Publish(ctx context.Context, session, event string) error
	// Subscribe renvoie un canal d'événements et une fonction de désabonnement.
	Subscribe(ctx context.Context, session string) (<-chan string, func(), error)
}

type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Publish(ctx context.Context, session, event string) error {
	return n.client.Publish(ctx, key(session), event).Err()
}

func (n *RedisNotifier) Subscribe(ctx context.Context, session string) (<-chan string, func(), error) {
	pubsub := n.client.Subscribe(ctx, key(session))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	out := make(chan string, 8)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- msg.Payload:
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			pubsub.Close()
		})
	}
	return out, cancel, nil
}

// MemoryNotifier sert quand Redis est désactivé : un seul processus.
type MemoryNotifier struct {
	mu   sync.Mutex
	subs map[string]map[chan string]struct{}
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{subs: make(map[string]map[chan string]struct{})}
}

func (n *MemoryNotifier) Publish(_ context.Context, session, event string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subs[session] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (n *MemoryNotifier) Subscribe(_ context.Context, session string) (<-chan string, func(), error) {
	ch := make(chan string, 8)

	n.mu.Lock()
	if n.subs[session] == nil {
		n.subs[session] = make(map[chan string]struct{})
	}
	n.subs[session][ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[session], ch)
			if len(n.subs[session]) == 0 {
				delete(n.subs, session)
			}
			close(ch)
		})
	}
	return ch, cancel, nil
}
