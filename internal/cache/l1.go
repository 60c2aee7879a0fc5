package cache

import (
	"container/list"
	"sync"
	"time"
)

// MemoryStore is the bounded in-process tier. A doubly linked list keeps
// entries ordered by recency of access, so the eviction victim (least
// recently accessed entry) is always at the back.
type MemoryStore struct {
	mu        sync.Mutex
	items     map[string]*list.Element
	order     *list.List
	maxSize   int
	evictions int64
}

type storeItem struct {
	key   string
	entry Entry
}

// NewMemoryStore creates a store holding at most maxSize entries
func NewMemoryStore(maxSize int) *MemoryStore {
	if maxSize < 1 {
		maxSize = 1
	}
	return &MemoryStore{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
	}
}

// Get returns a copy of the entry for key. Expired entries are removed on
// the spot and reported as a miss. A hit bumps the entry's access stats and
// its recency position.
func (s *MemoryStore) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return Entry{}, false
	}

	item := elem.Value.(*storeItem)
	if item.entry.Expired(time.Now()) {
		s.removeElement(elem)
		return Entry{}, false
	}

	item.entry.Touch(time.Now())
	s.order.MoveToFront(elem)
	return item.entry, true
}

// Put inserts or replaces the entry for e.Key. When the store is full and
// the key is new, the least recently accessed entry is evicted first.
func (s *MemoryStore) Put(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.items[e.Key]; ok {
		elem.Value.(*storeItem).entry = e
		s.order.MoveToFront(elem)
		return
	}

	if s.order.Len() >= s.maxSize {
		s.evictLRU()
	}

	elem := s.order.PushFront(&storeItem{key: e.Key, entry: e})
	s.items[e.Key] = elem
}

// Remove deletes the entry for key, reporting whether it was present
func (s *MemoryStore) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return false
	}
	s.removeElement(elem)
	return true
}

// RemoveIf deletes every entry whose key satisfies match and returns the
// number removed
func (s *MemoryStore) RemoveIf(match func(key string) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, elem := range s.items {
		if match(key) {
			s.removeElement(elem)
			removed++
		}
	}
	return removed
}

// RemoveExpired deletes every entry past its TTL and returns the number
// removed
func (s *MemoryStore) RemoveExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for _, elem := range s.items {
		if elem.Value.(*storeItem).entry.Expired(now) {
			s.removeElement(elem)
			removed++
		}
	}
	return removed
}

// Clear empties the store and resets the eviction counter. It returns the
// number of entries dropped.
func (s *MemoryStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.order.Len()
	s.items = make(map[string]*list.Element)
	s.order.Init()
	s.evictions = 0
	return n
}

// Len returns the current entry count
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Cap returns the configured maximum entry count
func (s *MemoryStore) Cap() int {
	return s.maxSize
}

// Evictions returns the number of capacity evictions since creation or the
// last Clear. Expiry and explicit removal do not count.
func (s *MemoryStore) Evictions() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictions
}

func (s *MemoryStore) removeElement(elem *list.Element) {
	item := elem.Value.(*storeItem)
	delete(s.items, item.key)
	s.order.Remove(elem)
}

func (s *MemoryStore) evictLRU() {
	elem := s.order.Back()
	if elem == nil {
		return
	}
	s.removeElement(elem)
	s.evictions++
}
