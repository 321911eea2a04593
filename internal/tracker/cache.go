package tracker

import (
	"sync"
	"time"

	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

type cacheEntry struct {
	snapshot   *model.Snapshot
	insertedAt time.Time
}

// SnapshotCache holds the last fetched dataset per partition. The cache never
// expires entries on its own; freshness against the TTL is a policy decision
// made by the refresh controller from the insertion time returned by Get.
// Mutex-guarded, since background fetch completion and warm-start priming
// write while the control loop reads.
type SnapshotCache struct {
	mu      sync.RWMutex
	entries map[model.PartitionKey]cacheEntry
	now     func() time.Time
}

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{
		entries: make(map[model.PartitionKey]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the snapshot for key and when it was inserted.
func (c *SnapshotCache) Get(key model.PartitionKey) (*model.Snapshot, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry.snapshot, entry.insertedAt, ok
}

// Set stores a snapshot under its own partition key, stamped now. Overwrites
// unconditionally.
func (c *SnapshotCache) Set(snap *model.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[snap.Key()] = cacheEntry{snapshot: snap, insertedAt: c.now()}
}

// Prime seeds a snapshot with its original fetch time, so warm-store data that
// is already past the TTL does not masquerade as fresh.
func (c *SnapshotCache) Prime(snap *model.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[snap.Key()] = cacheEntry{snapshot: snap, insertedAt: snap.FetchedAt}
}

// Remove drops the entry for key. No-op when absent.
func (c *SnapshotCache) Remove(key model.PartitionKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Items returns a copy of the mapping at call time. Mutation after the call
// does not affect the returned map; search iterates it freely.
func (c *SnapshotCache) Items() map[model.PartitionKey]*model.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[model.PartitionKey]*model.Snapshot, len(c.entries))
	for k, e := range c.entries {
		out[k] = e.snapshot
	}
	return out
}

// Len returns the number of cached entries.
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
