package store

import (
	"sync"

	"github.com/emrgen/resumectl/internal/config"
)

// Provider hands out the store for an environment.
type Provider interface {
	Provide(env config.Environment) (Store, error)
}

// EnvironmentStoreProvider holds stores that were opened up front, one per environment.
type EnvironmentStoreProvider struct {
	mu     sync.RWMutex
	stores map[config.Environment]Store
}

func NewEnvironmentStoreProvider() *EnvironmentStoreProvider {
	return &EnvironmentStoreProvider{
		stores: make(map[config.Environment]Store),
	}
}

func (p *EnvironmentStoreProvider) Register(env config.Environment, store Store) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stores[env] = store
}

func (p *EnvironmentStoreProvider) Provide(env config.Environment) (Store, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if store, ok := p.stores[env]; ok {
		return store, nil
	}

	return nil, ErrStoreNotFound
}
