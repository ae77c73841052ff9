// Package cache keeps validation results on disk so that re-validating an
// unchanged playground does not hit the remote service.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"hl7play/internal/validator"
)

// Current schema version - increment when Payload format changes
const SchemaVersion uint16 = 1

// Key identifies a cached result: SHA-256 of the msgpack encoding of a Query.
type Key [32]byte

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// KeyOf returns the cache key of q. Struct fields are encoded in
// declaration order, so equal queries always produce the same key.
func KeyOf(q validator.Query) (Key, error) {
	raw, err := msgpack.Marshal(&q)
	if err != nil {
		return Key{}, fmt.Errorf("encode query: %w", err)
	}
	return sha256.Sum256(raw), nil
}

// Payload is what is stored per key.
type Payload struct {
	Schema   uint16
	StoredAt time.Time
	Result   validator.ValidationResult
}

// DiskCache хранит результаты валидации по Key на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns a cache rooted at dir; an empty dir means the standard
// location ($XDG_CACHE_HOME/hl7play or ~/.cache/hl7play).
func Open(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "hl7play")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Key) string {
	// подкаталог "results", чтобы DropAll не трогал чужое
	return filepath.Join(c.dir, "results", key.String()+".mp")
}

// Put serializes and writes a result under key.
func (c *DiskCache) Put(key Key, res validator.ValidationResult) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	payload := Payload{Schema: SchemaVersion, StoredAt: time.Now().UTC(), Result: res}
	if err = msgpack.NewEncoder(f).Encode(&payload); err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads the result stored under key. Missing entries and entries written
// with another schema are misses, not errors.
func (c *DiskCache) Get(key Key) (validator.ValidationResult, bool, error) {
	if c == nil {
		return validator.ValidationResult{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return validator.ValidationResult{}, false, nil
		}
		return validator.ValidationResult{}, false, err
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return validator.ValidationResult{}, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if payload.Schema != SchemaVersion {
		return validator.ValidationResult{}, false, nil
	}
	return payload.Result, true, nil
}

// DropAll removes every cached result.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	results := filepath.Join(c.dir, "results")
	// переименуем каталог, потом удалим: читатель не увидит полупустой каталог
	old := results + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(results, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
