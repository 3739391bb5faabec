package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/phongtro/phongtro/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// ResponseStore implements domain.Cache using BoltDB.
// Responses are stored as JSON under bucket/key; a memory map in front of
// the database serves repeated reads.
type ResponseStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var _ domain.Cache = (*ResponseStore)(nil)

// NewResponseStore opens the cache for one server and user.
// An empty baseCacheDir gives a memory-only store.
func NewResponseStore(baseCacheDir, serverURL, userID string) (*ResponseStore, error) {
	if baseCacheDir == "" {
		return &ResponseStore{cache: make(map[string][]byte)}, nil
	}

	dir := filepath.Join(baseCacheDir, hashScope(serverURL, userID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "phongtro.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range domain.AllBuckets() {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ResponseStore{db: db, cache: make(map[string][]byte)}, nil
}

// hashScope keeps caches of different servers and accounts apart
func hashScope(serverURL, userID string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/") + "|" + userID
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *ResponseStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func memKey(bucket, key string) string {
	return bucket + ":" + key
}

// Get decodes the cached response for bucket/key into dest
func (s *ResponseStore) Get(bucket, key string, dest any) bool {
	cacheKey := memKey(bucket, key)

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

// Set stores value as the cached response for bucket/key
func (s *ResponseStore) Set(bucket, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[memKey(bucket, key)] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

// InvalidatePrefix drops every key in bucket that starts with prefix
func (s *ResponseStore) InvalidatePrefix(bucket, prefix string) {
	s.mu.Lock()
	cachePrefix := memKey(bucket, prefix)
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		prefixBytes := []byte(prefix)
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// InvalidateBucket drops every key in bucket
func (s *ResponseStore) InvalidateBucket(bucket string) {
	s.InvalidatePrefix(bucket, "")
}

// InvalidateAll wipes the entire cache
func (s *ResponseStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range domain.AllBuckets() {
			if tx.Bucket([]byte(bucket)) == nil {
				continue
			}
			if err := tx.DeleteBucket([]byte(bucket)); err != nil {
				return err
			}
			if _, err := tx.CreateBucket([]byte(bucket)); err != nil {
				return err
			}
		}
		return nil
	})
}
