// Package auth provides concrete implementations for authentication-related
// domain services.
package auth

import (
	"tokenpath/internal/domain/entity"
	"tokenpath/internal/domain/service"
)

// Registry holds the configured provider adapters and allows lookup by
// provider type. It performs no auth logic itself.
type Registry struct {
	providers map[entity.ProviderType]service.AuthProvider
	order     []entity.ProviderType
}

// NewRegistry registers the given provider adapters. Registration order is
// preserved for default-provider selection; duplicate types keep the first
// registration.
func NewRegistry(list ...service.AuthProvider) *Registry {
	m := make(map[entity.ProviderType]service.AuthProvider, len(list))
	order := make([]entity.ProviderType, 0, len(list))
	for _, p := range list {
		if _, exists := m[p.Type()]; exists {
			continue
		}
		m[p.Type()] = p
		order = append(order, p.Type())
	}

	return &Registry{providers: m, order: order}
}

// Get returns the provider adapter for the given type.
func (r *Registry) Get(providerType entity.ProviderType) (service.AuthProvider, bool) {
	p, ok := r.providers[providerType]

	return p, ok
}

// All returns every registered adapter in registration order.
func (r *Registry) All() []service.AuthProvider {
	out := make([]service.AuthProvider, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.providers[t])
	}

	return out
}
