// FILE: dedupe.go
package dlog

import (
	"sort"
	"time"
)

// dedupeKey identifies a message for suppression purposes.
type dedupeKey struct {
	level int64
	text  string
}

// dedupeCache maps (level, text) to the last UTC time the message was
// written to file. It is mutated only by the thread holding the drain
// guard, so it carries no lock of its own.
type dedupeCache struct {
	cap  int
	seen map[dedupeKey]time.Time
}

func newDedupeCache(capacity int) *dedupeCache {
	if capacity <= 0 {
		capacity = int(defaultConfig.DedupeCacheSize)
	}
	return &dedupeCache{
		cap:  capacity,
		seen: make(map[dedupeKey]time.Time, capacity/4),
	}
}

// shouldWrite reports whether a record with the given key may be written,
// and records the emission time when it may. An identical message written
// within the holdoff window is suppressed.
func (c *dedupeCache) shouldWrite(key dedupeKey, now time.Time, holdoff time.Duration) bool {
	if holdoff <= 0 {
		return true
	}
	if last, ok := c.seen[key]; ok && now.Sub(last) < holdoff {
		return false
	}
	c.seen[key] = now
	if len(c.seen) > c.cap {
		c.evict()
	}
	return true
}

// evict trims the cache down to ~90% of capacity, dropping the entries
// least recently written first.
func (c *dedupeCache) evict() {
	type entry struct {
		key  dedupeKey
		last time.Time
	}
	entries := make([]entry, 0, len(c.seen))
	for k, v := range c.seen {
		entries = append(entries, entry{key: k, last: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].last.Before(entries[j].last) })

	target := c.cap * dedupeEvictTenths / 10
	for i := 0; len(c.seen) > target && i < len(entries); i++ {
		delete(c.seen, entries[i].key)
	}
}
