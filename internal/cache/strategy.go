package cache

import (
	"fmt"
	"strings"
)

// WriteStrategy controls which tiers a Set touches
type WriteStrategy string

const (
	// WriteThrough writes L1 and L2 synchronously
	WriteThrough WriteStrategy = "write_through"
	// WriteBack writes L1 only; nothing flushes the value to L2 later
	WriteBack WriteStrategy = "write_back"
	// WriteAround bypasses L1 and writes L2 only
	WriteAround WriteStrategy = "write_around"
	// CacheAside writes L1 only and expects callers to manage L2 themselves
	CacheAside WriteStrategy = "cache_aside"
)

// DefaultWriteStrategy applies to namespaces with no configured strategy
const DefaultWriteStrategy = WriteThrough

// ParseWriteStrategy converts a config string into a WriteStrategy. Matching
// is case-insensitive and tolerates surrounding whitespace.
func ParseWriteStrategy(s string) (WriteStrategy, error) {
	switch WriteStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case WriteThrough:
		return WriteThrough, nil
	case WriteBack:
		return WriteBack, nil
	case WriteAround:
		return WriteAround, nil
	case CacheAside:
		return CacheAside, nil
	default:
		return "", fmt.Errorf("unknown write strategy %q", s)
	}
}

// WritesL1 reports whether the strategy populates the in-process tier
func (s WriteStrategy) WritesL1() bool {
	return s == WriteThrough || s == WriteBack || s == CacheAside
}

// WritesL2 reports whether the strategy populates the remote tier
func (s WriteStrategy) WritesL2() bool {
	return s == WriteThrough || s == WriteAround
}
