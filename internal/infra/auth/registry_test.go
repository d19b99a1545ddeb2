package auth

import (
	"context"
	"encoding/json"
	"testing"

	"tokenpath/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	providerType entity.ProviderType
}

func (s *stubProvider) Type() entity.ProviderType { return s.providerType }
func (s *stubProvider) Initialize(context.Context) error {
	return nil
}
func (s *stubProvider) IsConfigured() bool { return true }
func (s *stubProvider) IsAvailable() bool  { return true }
func (s *stubProvider) Authenticate(context.Context, json.RawMessage) (*entity.UnifiedIdentity, error) {
	return nil, nil
}
func (s *stubProvider) Logout(context.Context) error { return nil }

func TestRegistry_GetAndOrder(t *testing.T) {
	line := &stubProvider{providerType: entity.ProviderTypeLine}
	telegram := &stubProvider{providerType: entity.ProviderTypeTelegram}

	registry := NewRegistry(telegram, line)

	got, ok := registry.Get(entity.ProviderTypeLine)
	require.True(t, ok)
	assert.Same(t, line, got)

	_, ok = registry.Get(entity.ProviderType("unknown"))
	assert.False(t, ok)

	all := registry.All()
	require.Len(t, all, 2)
	assert.Equal(t, entity.ProviderTypeTelegram, all[0].Type())
	assert.Equal(t, entity.ProviderTypeLine, all[1].Type())
}

func TestRegistry_DuplicateKeepsFirst(t *testing.T) {
	first := &stubProvider{providerType: entity.ProviderTypeLine}
	second := &stubProvider{providerType: entity.ProviderTypeLine}

	registry := NewRegistry(first, second)

	got, ok := registry.Get(entity.ProviderTypeLine)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Len(t, registry.All(), 1)
}
