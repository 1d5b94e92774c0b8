package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/domain"
	"github.com/easytobuy/storefront/internal/storage"
)

func newTestRegistry(kv storage.KeyValue, size int) *Registry {
	return NewRegistry(kv, size, time.Hour, zap.NewNop())
}

func TestRegistry_SameSessionSameStore(t *testing.T) {
	r := newTestRegistry(newFileKV(t), 10)
	ctx := context.Background()

	a := r.Get(ctx, "s1")
	b := r.Get(ctx, "s1")
	assert.Same(t, a, b)
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	kv := newFileKV(t)
	r := newTestRegistry(kv, 10)
	ctx := context.Background()

	require.NoError(t, r.Get(ctx, "s1").AddToCart(ctx, domain.CartLineItem{ID: "1", SKUCode: "A", Price: 5, Quantity: 1}))

	assert.Equal(t, 0, r.Get(ctx, "s2").Len())

	_, err := kv.Get(ctx, SessionKey("s1"))
	assert.NoError(t, err)
}

func TestRegistry_LoadsPersistedCart(t *testing.T) {
	kv := newFileKV(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, SessionKey("s9"), []byte(`[{"id":"4","skuCode":"D","price":2.5,"quantity":4}]`)))

	s := newTestRegistry(kv, 10).Get(ctx, "s9")

	assert.Equal(t, 10.0, s.Total())
}

func TestRegistry_BoundedSize(t *testing.T) {
	r := newTestRegistry(newFileKV(t), 100)
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		r.Get(ctx, fmt.Sprintf("session-%d", i))
	}

	assert.Equal(t, 100, r.Len())
}

func TestRegistry_EvictedSessionReloads(t *testing.T) {
	kv := newFileKV(t)
	r := newTestRegistry(kv, 1)
	ctx := context.Background()

	first := r.Get(ctx, "s1")
	require.NoError(t, first.AddToCart(ctx, domain.CartLineItem{ID: "65a1f0c2e4b0a1b2c3d4e5f6", SKUCode: "A", Price: 5, Quantity: 2}))

	r.Get(ctx, "s2")
	assert.Equal(t, 1, r.Len())

	again := r.Get(ctx, "s1")
	assert.NotSame(t, first, again)
	assert.Equal(t, first.Items(), again.Items())
}

func TestRegistry_IdleStoresExpire(t *testing.T) {
	r := NewRegistry(newFileKV(t), 10, 20*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	r.Get(ctx, "s1")
	r.Get(ctx, "s2")
	require.Equal(t, 2, r.Len())

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 10*time.Millisecond)
}
