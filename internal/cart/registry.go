package cart

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/storage"
)

// Registry hands out one Store per cart session, loading it from
// storage the first time the session is seen. At most size stores are
// kept in memory and a store idle for ttl is dropped; the next request
// for that session reloads it from storage.
type Registry struct {
	mu     sync.Mutex
	stores *expirable.LRU[string, *Store]
	kv     storage.KeyValue
	logger *zap.Logger
}

func NewRegistry(kv storage.KeyValue, size int, ttl time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		stores: expirable.NewLRU[string, *Store](size, nil, ttl),
		kv:     kv,
		logger: logger,
	}
}

// Get returns the store for sessionID
func (r *Registry) Get(ctx context.Context, sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores.Get(sessionID); ok {
		return s
	}

	s := NewStore(r.kv, SessionKey(sessionID), r.logger.With(zap.String("session_id", sessionID)))
	s.Load(ctx)
	r.stores.Add(sessionID, s)
	return s
}

// Len is the number of stores held in memory
func (r *Registry) Len() int {
	return r.stores.Len()
}

// SessionKey is the storage key of a session's cart
func SessionKey(sessionID string) string {
	return StorageKey + ":" + sessionID
}
