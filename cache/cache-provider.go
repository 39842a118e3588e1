package cache

import (
	"database/sql"
	"errors"
	"sync"

	_ "github.com/glebarez/go-sqlite"
)

// MemoryDSN is the SQLite DSN for an in-memory database shared between
// all connections of the process.
const MemoryDSN = "file::memory:?cache=shared"

// CacheProvider is an interface for a cache provider.
// It stores and retrieves []byte values, which represent response snapshots.
// Entries never expire on their own: an entry lives until it is replaced
// by Put or removed with Purge or Clear.
//
// Implementations must be thread-safe!
type CacheProvider interface {
	// Get returns the cached snapshot for the given key, if it exists.
	// It also returns a boolean indicating whether retrieval was successful.
	Get(key string) ([]byte, bool, error)
	// Put stores the given snapshot in the cache under the given key.
	// Any previous entry for the key is replaced unconditionally.
	Put(key string, bytes []byte) error
	// Purge removes the cache entry for the given key.
	// It is a no-op if the key is absent.
	Purge(key string)
	// Clear removes all entries from the cache.
	Clear()
}

type MemCache struct {
	mutex *sync.RWMutex
	db    map[string][]byte
}

func NewMemCache() MemCache {
	return MemCache{
		mutex: &sync.RWMutex{},
		db:    make(map[string][]byte),
	}
}

func (m MemCache) Get(key string) ([]byte, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	bytes, ok := m.db[key]
	if !ok {
		return nil, false, nil
	}
	return bytes, true, nil
}

func (m MemCache) Put(key string, bytes []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.db[key] = bytes
	return nil
}

func (m MemCache) Purge(key string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.db, key)
}

func (m MemCache) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for key := range m.db {
		delete(m.db, key)
	}
}

type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens a SQLite-backed cache using the given DSN.
// Use MemoryDSN to keep the cache in memory only.
func NewSQLiteCache(dsn string) SQLiteCache {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		panic(err)
	}
	_, err = db.Exec("CREATE TABLE IF NOT EXISTS snapshots (key TEXT PRIMARY KEY, bytes BLOB)")
	if err != nil {
		panic(err)
	}
	return SQLiteCache{
		db: db,
	}
}

func (s SQLiteCache) Get(key string) ([]byte, bool, error) {
	var bytes []byte
	err := s.db.QueryRow("SELECT bytes FROM snapshots WHERE key = ?", key).Scan(&bytes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return bytes, true, nil
}

func (s SQLiteCache) Put(key string, bytes []byte) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO snapshots (key, bytes) VALUES (?, ?)", key, bytes)
	return err
}

func (s SQLiteCache) Purge(key string) {
	_, err := s.db.Exec("DELETE FROM snapshots WHERE key = ?", key)
	if err != nil {
		panic(err)
	}
}

func (s SQLiteCache) Clear() {
	_, err := s.db.Exec("DELETE FROM snapshots")
	if err != nil {
		panic(err)
	}
}
