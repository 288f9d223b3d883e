package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is the in-process Cache used when no Redis address is configured,
// and by package tests.
type Memory struct {
	store *gocache.Cache
}

func NewMemory() *Memory {
	return &Memory{store: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, false
	}
	raw, ok := v.([]byte)
	return raw, ok
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.store.Set(key, value, ttl)
}

func (m *Memory) Delete(_ context.Context, keys ...string) {
	for _, key := range keys {
		m.store.Delete(key)
	}
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) {
	for key := range m.store.Items() {
		if strings.HasPrefix(key, prefix) {
			m.store.Delete(key)
		}
	}
}
