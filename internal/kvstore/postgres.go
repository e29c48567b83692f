package kvstore

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// PostgresStore persists key-value records in postgres. Used when the
// service is deployed against a shared database instead of local sqlite.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a store and ensures the schema exists.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, ErrNilStore
	}
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv_records (
		k          TEXT PRIMARY KEY,
		v          BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

// Get returns the value for key.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv_records WHERE k = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put stores value under key.
func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv_records (k, v, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = EXCLUDED.updated_at`,
		key, value, time.Now().UTC())
	return err
}

// Keys returns all keys with the given prefix.
func (s *PostgresStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT k FROM kv_records WHERE k LIKE $1 ESCAPE '\'`, likePattern(prefix))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func likePattern(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(prefix) + "%"
}
