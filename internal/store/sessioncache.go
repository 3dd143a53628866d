package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"uk.co.dudmesh.quotedesk/internal/model"
)

// SessionCache is the device-local key-value store backing the
// reconciler's idempotency cache and processing locks. It is a
// best-effort optimisation: losing it only causes redundant directory
// calls, never duplicate rows.
type SessionCache struct {
	db *sqlx.DB
}

func NewSessionCache(config Config) (*SessionCache, error) {
	dbName := path.Join(config.DataDirectory(), "sessioncache.db")
	db, err := sqlx.Connect("sqlite3", "file:"+dbName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sessionCache := &SessionCache{db}
	sessionCache.init()

	return sessionCache, nil
}

func (s *SessionCache) init() {
	s.db.MustExec(`create table if not exists session_cache (
		key   text primary key,
		value text
	)`)
}

func (s *SessionCache) Close() error {
	return s.db.Close()
}

func (s *SessionCache) Get(key string) (string, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM session_cache WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.ErrorKeyNotFound
		}
		return "", fmt.Errorf("getting cache entry: %w", err)
	}
	return value, nil
}

func (s *SessionCache) Set(key string, value string) error {
	_, err := s.db.Exec(`INSERT INTO session_cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("setting cache entry: %w", err)
	}
	return nil
}

func (s *SessionCache) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM session_cache WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

func (s *SessionCache) DeletePrefix(prefix string) error {
	_, err := s.db.Exec(`DELETE FROM session_cache WHERE key LIKE ? || '%'`, prefix)
	if err != nil {
		return fmt.Errorf("deleting cache entries: %w", err)
	}
	return nil
}
