package peercache

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flatdb/flatdb-go/pkg/codec"
)

// SnapshotVersion is the current version of the snapshot payload.
const SnapshotVersion = 1

// DefaultTTL is the prune age used when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Peer is one cached peer address.
type Peer struct {
	// ID uniquely identifies the peer (UUID).
	ID string `cbor:"1,keyasint"`

	// Address is the peer's network address (host:port).
	Address string `cbor:"2,keyasint"`

	// AddedAt is when the peer first entered the cache.
	AddedAt time.Time `cbor:"3,keyasint"`

	// LastSeen is when the peer was last observed alive.
	LastSeen time.Time `cbor:"4,keyasint"`
}

// snapshot is the serialized form of the cache.
type snapshot struct {
	Version int    `cbor:"1,keyasint"`
	Peers   []Peer `cbor:"2,keyasint"`
}

// Cache is an in-memory peer set with TTL-based pruning.
//
// The zero value is usable and prunes with DefaultTTL. The mutators
// (Add, Touch, Remove, CheckAndRemove) synchronize internally; the
// serialization methods do not, because the store calls them either
// under the cache lock (Write) or before the cache is shared (Read).
type Cache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	peers map[string]Peer
}

// New creates a cache that prunes peers unseen for longer than ttl.
// A non-positive ttl means DefaultTTL.
func New(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

// NewWithClock creates a cache with an injected clock, for tests.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	return &Cache{ttl: ttl, now: now}
}

func (c *Cache) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// TTL returns the effective prune age.
func (c *Cache) TTL() time.Duration {
	if c.ttl > 0 {
		return c.ttl
	}
	return DefaultTTL
}

// Add inserts a new peer for address and returns it.
func (c *Cache) Add(address string) Peer {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	p := Peer{
		ID:       uuid.NewString(),
		Address:  address,
		AddedAt:  now,
		LastSeen: now,
	}
	if c.peers == nil {
		c.peers = make(map[string]Peer)
	}
	c.peers[p.ID] = p
	return p
}

// Touch marks the peer as seen now. It reports whether the peer exists.
func (c *Cache) Touch(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.peers[id]
	if !ok {
		return false
	}
	p.LastSeen = c.clock()
	c.peers[id] = p
	return true
}

// Get returns the peer with the given ID.
func (c *Cache) Get(id string) (Peer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.peers[id]
	return p, ok
}

// Remove deletes the peer with the given ID. It reports whether the
// peer existed.
func (c *Cache) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.peers[id]; !ok {
		return false
	}
	delete(c.peers, id)
	return true
}

// Len returns the number of cached peers.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.peers)
}

// Peers returns all cached peers, sorted by ID.
func (c *Cache) Peers() []Peer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedPeers()
}

// CheckAndRemove drops every peer whose LastSeen is older than the TTL.
func (c *Cache) CheckAndRemove() {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.clock().Add(-c.TTL())
	for id, p := range c.peers {
		if p.LastSeen.Before(cutoff) {
			delete(c.peers, id)
		}
	}
}

// Lock takes the cache's exclusive lock. The store holds it while
// writing a snapshot.
func (c *Cache) Lock() { c.mu.Lock() }

// Unlock releases the cache's exclusive lock.
func (c *Cache) Unlock() { c.mu.Unlock() }

// MarshalBinary encodes the cache as a deterministic CBOR snapshot.
// Not synchronized, see the Cache doc.
func (c *Cache) MarshalBinary() ([]byte, error) {
	return codec.Marshal(snapshot{
		Version: SnapshotVersion,
		Peers:   c.sortedPeers(),
	})
}

// UnmarshalBinary replaces the cache contents with the decoded
// snapshot. Not synchronized, see the Cache doc.
func (c *Cache) UnmarshalBinary(data []byte) error {
	var snap snapshot
	if err := codec.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode peer snapshot: %w", err)
	}

	c.peers = make(map[string]Peer, len(snap.Peers))
	for _, p := range snap.Peers {
		c.peers[p.ID] = p
	}
	return nil
}

// Clear resets the cache to empty.
func (c *Cache) Clear() {
	c.peers = nil
}

// String returns a one-line content summary.
func (c *Cache) String() string {
	return fmt.Sprintf("Peers: %d", len(c.peers))
}

func (c *Cache) sortedPeers() []Peer {
	peers := make([]Peer, 0, len(c.peers))
	for _, p := range c.peers {
		peers = append(peers, p)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].ID < peers[j].ID })
	return peers
}
