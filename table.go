package lptable

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ErrInvalidConfiguration is returned by New for a non-positive capacity or a
// load factor outside the open interval (0, 1).
var ErrInvalidConfiguration = errors.New("invalid capacity or load factor")

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type slot struct {
	state slotState
	key   string
	value Value
}

// Table is a concurrent open-addressing hash table using linear probing
// and tombstone deletion. A Table must not be copied after first use.
type Table struct {
	mu         sync.RWMutex
	slots      []slot
	count      int
	loadFactor float64
	hash       func(string) uint64
	logger     *log.Logger
}

// Option configures a Table at construction time.
type Option func(*Table)

// WithHashFunc replaces the default xxhash key hash. The function must be
// deterministic for the lifetime of the table.
func WithHashFunc(fn func(string) uint64) Option {
	return func(t *Table) {
		if fn != nil {
			t.hash = fn
		}
	}
}

// WithLogger enables resize tracing on the given logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Table) {
		t.logger = l
	}
}

// New creates a table with initialCapacity empty slots. It fails with
// ErrInvalidConfiguration unless initialCapacity > 0 and 0 < loadFactor < 1.
func New(initialCapacity int, loadFactor float64, opts ...Option) (*Table, error) {
	if initialCapacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d must be positive", ErrInvalidConfiguration, initialCapacity)
	}
	// The negated form also rejects NaN.
	if !(loadFactor > 0 && loadFactor < 1) {
		return nil, fmt.Errorf("%w: load factor %v must be in (0, 1)", ErrInvalidConfiguration, loadFactor)
	}

	t := &Table{
		slots:      make([]slot, initialCapacity),
		loadFactor: loadFactor,
		hash:       xxhash.Sum64String,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Put inserts key or updates its value. It returns false for an empty key,
// a nil value, or when no slot can be found even after growing.
func (t *Table) Put(key string, value Value) bool {
	if key == "" || value == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if float64(t.count+1)/float64(len(t.slots)) > t.loadFactor {
		t.resize()
	}

	idx := t.findSlot(key)
	if idx == len(t.slots) {
		// No Empty or Tombstone slot left; should not happen under the
		// load factor guard.
		t.resize()
		idx = t.findSlot(key)
	}
	if idx == len(t.slots) {
		return false
	}

	s := &t.slots[idx]
	switch {
	case s.state == slotEmpty, s.state == slotTombstone:
		s.state = slotOccupied
		s.key = key
		s.value = cloneValue(value)
		t.count++
		return true
	case s.state == slotOccupied && s.key == key:
		s.value = cloneValue(value)
		return true
	}
	return false
}

// Get returns a copy of the value stored for key.
func (t *Table) Get(key string) (Value, bool) {
	if key == "" {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := t.findSlot(key)
	if idx == len(t.slots) {
		return nil, false
	}
	s := &t.slots[idx]
	if s.state == slotOccupied && s.key == key {
		return cloneValue(s.value), true
	}
	return nil, false
}

// Remove marks the slot holding key as a tombstone. It returns false when
// the key is empty or not present.
func (t *Table) Remove(key string) bool {
	if key == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.findSlot(key)
	if idx == len(t.slots) {
		return false
	}
	s := &t.slots[idx]
	if s.state != slotOccupied || s.key != key {
		return false
	}
	s.state = slotTombstone
	s.key = ""
	s.value = nil
	t.count--
	return true
}

// Size returns the number of live entries. Tombstones are not counted.
func (t *Table) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// Capacity returns the current number of slots.
func (t *Table) Capacity() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.slots)
}

// Stats is a consistent snapshot of the table's occupancy.
type Stats struct {
	Capacity      int
	Count         int
	Tombstones    int
	// MaxLoadFactor is the growth threshold given to New, not the current
	// occupancy.
	MaxLoadFactor float64
}

// Stats scans the slots under the read lock.
func (t *Table) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	st := Stats{
		Capacity:      len(t.slots),
		Count:         t.count,
		MaxLoadFactor: t.loadFactor,
	}
	for i := range t.slots {
		if t.slots[i].state == slotTombstone {
			st.Tombstones++
		}
	}
	return st
}

// findSlot returns the first index along key's search sequence that is Empty,
// a Tombstone, or Occupied by key itself. A tombstone ends the scan, so a
// live entry placed past a slot that was later removed is not reachable
// from its own key until the next resize. Returns len(t.slots) when the
// whole table was scanned without a match.
func (t *Table) findSlot(key string) int {
	n := len(t.slots)
	start := int(t.hash(key) % uint64(n))
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		s := &t.slots[idx]
		switch s.state {
		case slotEmpty, slotTombstone:
			return idx
		case slotOccupied:
			if s.key == key {
				return idx
			}
		}
	}
	return n
}

// resize doubles the slot array and rehashes every live entry in old index
// order, dropping tombstones. Of two live copies of one key, the one at the
// lower old index wins. The caller must hold the write lock.
func (t *Table) resize() {
	old := t.slots
	if t.logger != nil {
		t.logger.Printf("lptable: resize start: slots=%d used=%d", len(old), t.count)
	}

	t.slots = make([]slot, len(old)*2)
	t.count = 0
	for i := range old {
		if old[i].state != slotOccupied {
			continue
		}
		idx := t.findSlot(old[i].key)
		if idx == len(t.slots) {
			continue
		}
		s := &t.slots[idx]
		if s.state == slotEmpty || s.state == slotTombstone {
			s.state = slotOccupied
			s.key = old[i].key
			s.value = old[i].value
			t.count++
		}
	}

	if t.logger != nil {
		t.logger.Printf("lptable: resize complete: slots=%d used=%d", len(t.slots), t.count)
	}
}
