package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// KVStore is a key-value backend on the kv_entries table.
type KVStore struct {
	pool *pgxpool.Pool
	tx   *TxManager
}

// NewKVStore creates a KVStore. The schema must already be migrated.
func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{pool: pool, tx: NewTxManager(pool)}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := psql.Select("value").From("kv_entries").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var val []byte
	if err := QuerierFromCtx(ctx, s.pool).QueryRow(ctx, query, args...).Scan(&val); err != nil {
		return nil, mapError(err, key)
	}
	return val, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := psql.Insert("kv_entries").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := QuerierFromCtx(ctx, s.pool).Exec(ctx, query, args...); err != nil {
		return mapError(err, key)
	}
	return nil
}

// SetMany writes all entries in one transaction.
func (s *KVStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for k, v := range entries {
			if err := s.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	query, args, err := psql.Delete("kv_entries").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := QuerierFromCtx(ctx, s.pool).Exec(ctx, query, args...); err != nil {
		return mapError(err, key)
	}
	return nil
}

func (s *KVStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *KVStore) Close() error {
	s.pool.Close()
	return nil
}
