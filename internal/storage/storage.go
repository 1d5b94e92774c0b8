package storage

import (
	"context"
	"errors"
)

// KeyValue is the local persistence the cart and session live in
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
