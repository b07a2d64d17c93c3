// Package fulfilled is a ledger of one-shot requests that have already
// been answered, persistable through the flatdb store. Entries expire
// individually; CheckAndRemove drops the expired ones.
package fulfilled

import (
	"fmt"
	"sync"
	"time"

	"github.com/flatdb/flatdb-go/pkg/codec"
)

// SnapshotVersion is the current version of the snapshot payload.
const SnapshotVersion = 1

// snapshot is the serialized form of the ledger.
type snapshot struct {
	Version int                  `cbor:"1,keyasint"`
	Entries map[string]time.Time `cbor:"2,keyasint"`
}

// Cache remembers fulfilled requests by key until their expiry passes.
//
// The zero value is usable. Mutators synchronize internally; the
// serialization methods do not, because the store calls them either
// under the cache lock (Write) or before the cache is shared (Read).
type Cache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]time.Time
}

// New creates an empty ledger.
func New() *Cache {
	return &Cache{}
}

// NewWithClock creates a ledger with an injected clock, for tests.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{now: now}
}

func (c *Cache) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// AddFulfilled records that the request named key was answered, valid
// for ttl from now.
func (c *Cache) AddFulfilled(key string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries == nil {
		c.entries = make(map[string]time.Time)
	}
	c.entries[key] = c.clock().Add(ttl)
}

// HasFulfilled reports whether key was answered and has not expired.
func (c *Cache) HasFulfilled(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiry, ok := c.entries[key]
	return ok && c.clock().Before(expiry)
}

// Remove forgets the request named key.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of recorded requests, including expired ones
// that have not been pruned yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CheckAndRemove drops every entry whose expiry has passed.
func (c *Cache) CheckAndRemove() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	for key, expiry := range c.entries {
		if !now.Before(expiry) {
			delete(c.entries, key)
		}
	}
}

// Lock takes the ledger's exclusive lock. The store holds it while
// writing a snapshot.
func (c *Cache) Lock() { c.mu.Lock() }

// Unlock releases the ledger's exclusive lock.
func (c *Cache) Unlock() { c.mu.Unlock() }

// MarshalBinary encodes the ledger as a deterministic CBOR snapshot.
// Not synchronized, see the Cache doc.
func (c *Cache) MarshalBinary() ([]byte, error) {
	return codec.Marshal(snapshot{
		Version: SnapshotVersion,
		Entries: c.entries,
	})
}

// UnmarshalBinary replaces the ledger contents with the decoded
// snapshot. Not synchronized, see the Cache doc.
func (c *Cache) UnmarshalBinary(data []byte) error {
	var snap snapshot
	if err := codec.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode fulfilled snapshot: %w", err)
	}
	c.entries = snap.Entries
	return nil
}

// Clear resets the ledger to empty.
func (c *Cache) Clear() {
	c.entries = nil
}

// String returns a one-line content summary.
func (c *Cache) String() string {
	return fmt.Sprintf("Fulfilled requests: %d", len(c.entries))
}
