package llmHub

import (
	"errors"
	"math/rand/v2"
)

var errEmptyKeyPool = errors.New("no API keys configured")

// KeyPool spreads calls across a provider's credentials.
// Each Pick is independent and uniform; there is no rate awareness.
type KeyPool[T any] struct {
	clients []T
}

// NewKeyPool builds one client per key.
func NewKeyPool[T any](keys []string, build func(key string) (T, error)) (*KeyPool[T], error) {
	if len(keys) == 0 {
		return nil, errEmptyKeyPool
	}
	p := &KeyPool[T]{clients: make([]T, 0, len(keys))}
	for _, k := range keys {
		c, err := build(k)
		if err != nil {
			return nil, err
		}
		p.clients = append(p.clients, c)
	}
	return p, nil
}

func (p *KeyPool[T]) Pick() T {
	return p.clients[rand.IntN(len(p.clients))]
}

func (p *KeyPool[T]) Len() int { return len(p.clients) }
