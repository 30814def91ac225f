// Package economy provides the exchange primitives of a settlement economy:
// storage, traders, markets and their per-cycle accounting.
package economy

import "math"

// Storage holds non-negative quantities of named goods.
// A capacity of 0 means unbounded.
type Storage struct {
	capacity int
	left     int
	items    map[string]int
}

// NewStorage creates a storage with the given capacity (0 = unbounded).
func NewStorage(capacity int) *Storage {
	if capacity < 0 {
		capacity = 0
	}
	return &Storage{
		capacity: capacity,
		left:     capacity,
		items:    make(map[string]int),
	}
}

// Items returns the stored quantity of a good.
func (s *Storage) Items(good string) int {
	return s.items[good]
}

// Add stores up to n units, clipped to the remaining capacity.
// Returns the amount actually added.
func (s *Storage) Add(good string, n int) int {
	if n <= 0 {
		return 0
	}
	if s.capacity > 0 && n > s.left {
		n = s.left
	}
	s.items[good] += n
	if s.capacity > 0 {
		s.left -= n
	}
	return n
}

// Remove takes up to n units out, clipped to what is stored.
// Returns the amount actually removed.
func (s *Storage) Remove(good string, n int) int {
	if n <= 0 {
		return 0
	}
	have, ok := s.items[good]
	if !ok {
		return 0
	}
	if n > have {
		n = have
	}
	s.items[good] = have - n
	if s.capacity > 0 {
		s.left += n
	}
	invariant(s.items[good] >= 0, "negative storage", "good", good, "items", s.items[good])
	return n
}

// CapacityLeft returns free space, or math.MaxInt when unbounded.
func (s *Storage) CapacityLeft() int {
	if s.capacity == 0 {
		return math.MaxInt
	}
	return s.left
}

// Capacity returns the configured capacity (0 = unbounded).
func (s *Storage) Capacity() int {
	return s.capacity
}

// Total returns the sum of all stored quantities.
func (s *Storage) Total() int {
	total := 0
	for _, n := range s.items {
		total += n
	}
	return total
}

// Goods returns a copy of the stored quantities, including goods at zero.
func (s *Storage) Goods() map[string]int {
	out := make(map[string]int, len(s.items))
	for g, n := range s.items {
		out[g] = n
	}
	return out
}

// ClearAll empties the storage.
func (s *Storage) ClearAll() {
	for g, n := range s.items {
		s.Remove(g, n)
	}
	invariant(s.capacity == 0 || s.left == s.capacity, "storage not empty after clear",
		"left", s.left, "capacity", s.capacity)
}

// ClearGood removes every unit of one good.
func (s *Storage) ClearGood(good string) int {
	return s.Remove(good, s.items[good])
}
