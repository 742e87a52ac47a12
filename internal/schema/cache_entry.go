package schema

import (
	"sync/atomic"
	"time"
)

// CachedSchemaEntry is a TTL-bounded holder for one table's published
// snapshot. Entries are replaced on refresh, never edited; the only field
// that moves after construction is the last-access timestamp.
type CachedSchemaEntry struct {
	tableName      string
	data           Snapshot
	ttl            time.Duration
	createdAt      time.Time
	lastAccessedAt atomic.Int64
}

func NewCachedSchemaEntry(tableName string, data Snapshot, ttl time.Duration) *CachedSchemaEntry {
	entry := &CachedSchemaEntry{
		tableName: tableName,
		data:      data,
		ttl:       ttl,
		createdAt: time.Now(),
	}
	entry.lastAccessedAt.Store(entry.createdAt.UnixNano())
	return entry
}

func (e *CachedSchemaEntry) TableName() string {
	return e.tableName
}

func (e *CachedSchemaEntry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *CachedSchemaEntry) TTL() time.Duration {
	return e.ttl
}

// IsValid depends only on the TTL and the entry's age, never on the data.
// A non-positive TTL makes the entry permanently invalid.
func (e *CachedSchemaEntry) IsValid() bool {
	return e.ttl > 0 && time.Since(e.createdAt) < e.ttl
}

// Remaining is the time left before the entry expires; zero or negative when
// already expired or never valid.
func (e *CachedSchemaEntry) Remaining() time.Duration {
	if e.ttl <= 0 {
		return 0
	}
	return e.ttl - time.Since(e.createdAt)
}

// Data returns the published snapshot and stamps the last access. The stamp
// is a plain atomic store: concurrent readers race to last-writer-wins, which
// is fine for an access hint.
func (e *CachedSchemaEntry) Data() Snapshot {
	e.lastAccessedAt.Store(time.Now().UnixNano())
	return e.data
}

func (e *CachedSchemaEntry) LastAccessedAt() time.Time {
	return time.Unix(0, e.lastAccessedAt.Load())
}
