package cache

import "time"

// Level identifies the tier an entry currently lives in. Only L1 and L2 have
// active backends; L3 and L4 are declared for forward compatibility and the
// write router keeps explicit no-op seams for them.
type Level int

const (
	// LevelL1Memory is the in-process bounded store
	LevelL1Memory Level = iota
	// LevelL2Remote is the Redis-backed shared store
	LevelL2Remote
	// LevelL3Database is a declared level with no active backend
	LevelL3Database
	// LevelL4External is a declared level with no active backend
	LevelL4External
)

func (l Level) String() string {
	switch l {
	case LevelL1Memory:
		return "l1_memory"
	case LevelL2Remote:
		return "l2_remote"
	case LevelL3Database:
		return "l3_database"
	case LevelL4External:
		return "l4_external"
	default:
		return "unknown"
	}
}

// Metadata carries the namespace bookkeeping attached to every entry
type Metadata struct {
	Namespace string        `json:"namespace"`
	Strategy  WriteStrategy `json:"strategy"`
	Promoted  bool          `json:"promoted"`
}

// Entry is a single cached item. AccessCount and LastAccessed mutate on every
// hit; everything else is fixed at creation.
type Entry struct {
	Key          string
	Value        interface{}
	CreatedAt    time.Time
	ExpiresAt    *time.Time
	AccessCount  int64
	LastAccessed time.Time
	TTLSeconds   int
	Level        Level
	Metadata     Metadata
}

// NewEntry builds an entry expiring ttlSeconds from now. A non-positive TTL
// produces an entry that never expires.
func NewEntry(key string, value interface{}, ttlSeconds int, level Level, meta Metadata) Entry {
	now := time.Now()
	e := Entry{
		Key:          key,
		Value:        value,
		CreatedAt:    now,
		LastAccessed: now,
		TTLSeconds:   ttlSeconds,
		Level:        level,
		Metadata:     meta,
	}
	if ttlSeconds > 0 {
		exp := now.Add(time.Duration(ttlSeconds) * time.Second)
		e.ExpiresAt = &exp
	}
	return e
}

// Expired reports whether the entry's TTL has elapsed at the given instant.
// Entries without an expiry never expire.
func (e *Entry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}

// Touch records a hit
func (e *Entry) Touch(now time.Time) {
	e.AccessCount++
	e.LastAccessed = now
}
