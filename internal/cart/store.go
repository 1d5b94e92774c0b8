package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/domain"
	"github.com/easytobuy/storefront/internal/storage"
)

// StorageKey is where a single-owner cart is persisted
const StorageKey = "cart"

// Store holds the pending line items of one cart session, kept in sync
// with storage after every mutation. At most one line item exists per
// product id and every quantity is at least 1.
type Store struct {
	mu     sync.Mutex
	items  []domain.CartLineItem
	kv     storage.KeyValue
	key    string
	logger *zap.Logger
}

// NewStore creates an empty cart persisted under key. Call Load to
// restore previously saved items.
func NewStore(kv storage.KeyValue, key string, logger *zap.Logger) *Store {
	return &Store{
		items:  []domain.CartLineItem{},
		kv:     kv,
		key:    key,
		logger: logger,
	}
}

// Load replaces the in-memory cart with the stored one. Missing or
// corrupt payloads yield an empty cart.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.read(ctx)
}

func (s *Store) read(ctx context.Context) []domain.CartLineItem {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []domain.CartLineItem{}
	}
	if err != nil {
		s.logger.Warn("Failed to read cart from storage", zap.String("key", s.key), zap.Error(err))
		return []domain.CartLineItem{}
	}

	var stored []domain.CartLineItem
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("Discarding unreadable cart", zap.String("key", s.key), zap.Error(err))
		return []domain.CartLineItem{}
	}

	items := make([]domain.CartLineItem, 0, len(stored))
	for _, item := range stored {
		if err := item.Validate(); err != nil {
			s.logger.Warn("Dropping invalid cart item", zap.String("key", s.key), zap.String("id", item.ID), zap.Error(err))
			continue
		}
		items = merge(items, item)
	}
	return items
}

// AddToCart appends item, or adds its quantity to the existing line
// item with the same id. The existing name, sku and price are kept.
func (s *Store) AddToCart(ctx context.Context, item domain.CartLineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = merge(s.items, item)
	s.persist(ctx)
	return nil
}

// RemoveFromCart drops the line item with the given id, if any
func (s *Store) RemoveFromCart(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]domain.CartLineItem, 0, len(s.items))
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.persist(ctx)
}

// RemoveLineItems takes the given quantities off the matching line
// items. Units added since the snapshot was taken stay in the cart.
func (s *Store) RemoveLineItems(ctx context.Context, items []domain.CartLineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]int, len(items))
	for _, item := range items {
		taken[item.ID] += item.Quantity
	}

	kept := make([]domain.CartLineItem, 0, len(s.items))
	for _, item := range s.items {
		item.Quantity -= taken[item.ID]
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.persist(ctx)
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.CartLineItem{}
	s.persist(ctx)
}

// Total is the sum of price * quantity over all line items
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := decimal.Zero
	for _, item := range s.items {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum.InexactFloat64()
}

// Items returns a copy of the line items in insertion order
func (s *Store) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Quantity is the number of units across all line items
func (s *Store) Quantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

// persist writes the whole cart. Failures are logged only; the
// in-memory cart stays authoritative. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("Failed to encode cart", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.logger.Error("Failed to save cart to storage", zap.String("key", s.key), zap.Error(err))
	}
}

func merge(items []domain.CartLineItem, item domain.CartLineItem) []domain.CartLineItem {
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}
