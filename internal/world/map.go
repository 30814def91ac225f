package world

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrDuplicateBody = errors.New("duplicate body")
	ErrUnknownCenter = errors.New("unknown orbit center")
)

// System holds every body of a solar system, ordered so that each body
// comes after the body it orbits.
type System struct {
	Bodies []*Body
	index  map[string]*Body
}

// New indexes bodies and orders them center-first.
func New(bodies []*Body) (*System, error) {
	index := make(map[string]*Body, len(bodies))
	for _, b := range bodies {
		if _, dup := index[b.Name]; dup {
			return nil, fmt.Errorf("world: %w: %s", ErrDuplicateBody, b.Name)
		}
		index[b.Name] = b
	}

	for _, b := range bodies {
		d := 0
		for c := b.Center; c != nil; c = c.Center {
			if _, ok := index[c.Name]; !ok {
				return nil, fmt.Errorf("world: %s: %w: %s", b.Name, ErrUnknownCenter, c.Name)
			}
			d++
			if d > len(bodies) {
				return nil, fmt.Errorf("world: %s: orbit cycle", b.Name)
			}
		}
		b.depth = d
	}

	ordered := append([]*Body(nil), bodies...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].depth < ordered[j].depth })

	s := &System{Bodies: ordered, index: index}
	s.AdvanceOrbits(0)
	return s, nil
}

// Body returns the body with the given name, or nil.
func (s *System) Body(name string) *Body {
	return s.index[name]
}

// AdvanceOrbits moves every body by dt simulated seconds.
func (s *System) AdvanceOrbits(dt float64) {
	for _, b := range s.Bodies {
		b.Advance(dt)
	}
}

// Settled returns the bodies that have a settlement, in system order.
func (s *System) Settled() []*Body {
	var out []*Body
	for _, b := range s.Bodies {
		if b.HasMarket() {
			out = append(out, b)
		}
	}
	return out
}

// Colonizable returns uninhabited bodies settlers could move to.
func (s *System) Colonizable(massCeiling float64) []*Body {
	var out []*Body
	for _, b := range s.Bodies {
		if !b.HasMarket() && b.CanBeColonised(massCeiling) {
			out = append(out, b)
		}
	}
	return out
}

// BodyCount returns the number of bodies.
func (s *System) BodyCount() int {
	return len(s.Bodies)
}

// String returns a summary of the system.
func (s *System) String() string {
	return fmt.Sprintf("System(bodies=%d, settled=%d)", s.BodyCount(), len(s.Settled()))
}
