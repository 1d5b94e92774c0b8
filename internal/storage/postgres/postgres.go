package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/config"
	"github.com/easytobuy/storefront/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS local_storage (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)
`

// NewConnection opens and pings a postgres connection
func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore creates a postgres-backed key/value store
func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the local_storage table if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		s.logger.Error("Failed to create local_storage table", zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM local_storage WHERE key = $1`

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to read local storage", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now()); err != nil {
		s.logger.Error("Failed to write local storage", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM local_storage WHERE key = $1`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		s.logger.Error("Failed to delete local storage", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}
