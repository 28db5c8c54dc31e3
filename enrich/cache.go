// Package enrich holds the external enrichment collaborators of the
// pipeline: geocoding, ship-specification lookup and hero-image search. All
// of them are cache-first and individually skippable; an enrichment failure
// never aborts a batch.
//
// Failure caching is deliberately consistent across every collaborator:
// negative results are cached permanently, so a retry after a transient
// failure requires invalidating the cache entry.
package enrich

import (
	"database/sql"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/siherrmann/kinship/helper"
)

// Cache is the key-value contract every enrichment collaborator depends on.
// Implementations persist incrementally on Put; Flush is called once on
// batch completion.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Flush() error
}

// MemoryCache is a non-persistent Cache for tests and single runs
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

// Get returns the cached value for key
func (c *MemoryCache) Get(key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok, nil
}

// Put stores a value
func (c *MemoryCache) Put(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

// Flush is a no-op for the in-memory cache
func (c *MemoryCache) Flush() error {
	return nil
}

// SQLiteCache is a disk-backed Cache. Every Put is written through, so a
// crashed run keeps everything cached up to that point.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (or creates) a cache database at path
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, helper.NewError("open cache database", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS cache (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, helper.NewError("create cache table", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Get returns the cached value for key
func (c *SQLiteCache) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.QueryRow(`SELECT value FROM cache WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, helper.NewError("cache get", err)
	}
	return value, true, nil
}

// Put stores a value, replacing any previous entry
func (c *SQLiteCache) Put(key string, value []byte) error {
	_, err := c.db.Exec(`INSERT INTO cache (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return helper.NewError("cache put", err)
	}
	return nil
}

// Flush closes the underlying database
func (c *SQLiteCache) Flush() error {
	return c.db.Close()
}

// negativeMarker is the cached value recording a permanent miss
var negativeMarker = []byte("null")

func isNegative(value []byte) bool {
	return string(value) == string(negativeMarker)
}
