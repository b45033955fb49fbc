package statistics

import (
	"context"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/attendancestats/internal/sites"
)

// Fingerprint identifies the content of an export.
func Fingerprint(content string) uint64 {
	return xxhash.Sum64String(content)
}

// Cache keeps computed results so unchanged exports are aggregated once.
type Cache struct {
	db *badger.DB
}

func NewCache(db *badger.DB) *Cache {
	return &Cache{
		db: db,
	}
}

var ErrCacheMiss = errors.New("cache miss")

func (c *Cache) Insert(_ context.Context, site sites.Site, fingerprint uint64, result *Result) error {
	return c.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		return txn.Set(resultKey(site, fingerprint), data)
	})
}

func (c *Cache) Find(_ context.Context, site sites.Site, fingerprint uint64) (*Result, error) {
	var result Result
	if err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resultKey(site, fingerprint))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &result)
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return &result, nil
}

// Purge drops every cached result, used when site rules change.
func (c *Cache) Purge(_ context.Context) error {
	return c.db.DropPrefix([]byte("results/"))
}

func resultKey(site sites.Site, fingerprint uint64) []byte {
	return []byte(fmt.Sprintf("results/%s/%016x", site, fingerprint))
}
