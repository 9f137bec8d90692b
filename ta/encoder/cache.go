package encoder

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// CacheKey identifies a finalized encoding by the sha256 digests of its
// three inputs (spec.md's "(plan-hash, platform-hash, constraint-set-hash)
// -> finalized automaton"). Callers compute Plan/Platform/Constraints
// from whatever canonical textual form they already serialize those
// inputs to (the plan file's text, the platform TA's XTA rendering, the
// sorted constraint descriptor list); Cache only ever sees digests.
type CacheKey struct {
	Plan        string
	Platform    string
	Constraints string
}

// digest returns the hex sha256 of the three components concatenated
// with separators that cannot occur in a hex digest, mirroring
// PlanCache's computeKeyWithOptions: a single hash over every field that
// affects the result.
func (k CacheKey) digest() string {
	h := sha256.New()
	fmt.Fprintf(h, "PLAN:%s|PLATFORM:%s|CONSTRAINTS:%s", k.Plan, k.Platform, k.Constraints)
	return hex.EncodeToString(h.Sum(nil))
}

// Cache memoizes finalized encodings (opaque serialized bytes, typically
// an XTA rendering) in a BadgerDB directory so repeated transform
// invocations against the same plan/platform/constraint-set skip
// re-encoding entirely. Grounded on the teacher's
// datalog/storage.NewBadgerStore (Open/options pattern) and
// datalog/planner.PlanCache (the sha256 keying scheme), promoted here
// from an in-process map to a durable, cross-process store per
// SPEC_FULL.md's domain-stack expansion.
type Cache struct {
	db *badger.DB
}

// OpenCache opens (creating if absent) a badger-backed cache at path.
func OpenCache(path string) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening encoding cache at %q: %w", path, err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying badger handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached bytes for key, if present.
func (c *Cache) Get(key CacheKey) ([]byte, bool, error) {
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.digest()))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("reading encoding cache: %w", err)
	}
	return out, out != nil, nil
}

// Put stores value under key, overwriting any prior entry.
func (c *Cache) Put(key CacheKey, value []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key.digest()), value)
	})
	if err != nil {
		return fmt.Errorf("writing encoding cache: %w", err)
	}
	return nil
}
