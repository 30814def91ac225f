package world

import (
	"fmt"

	"github.com/talgya/starmarket/internal/catalog"
	"github.com/talgya/starmarket/internal/social"
)

// BodySpec describes one body of a configured scenario.
type BodySpec struct {
	Name        string             `yaml:"name"`
	Class       catalog.BodyClass  `yaml:"class"`
	Center      string             `yaml:"center,omitempty"`
	Mass        float64            `yaml:"mass"`
	Size        float64            `yaml:"size"`
	Orbit       float64            `yaml:"orbit"`
	Speed       float64            `yaml:"speed"`
	Phase       float64            `yaml:"phase"`
	MarketLevel int                `yaml:"market_level"`
	Stock       map[string]int     `yaml:"stock,omitempty"`
	Prices      map[string]float64 `yaml:"prices,omitempty"`
}

// SettlementFactory founds a settlement of the given seed level on a body.
type SettlementFactory func(b *Body, level int) *social.Settlement

// Build creates the system described by specs. Bodies with a market level
// above zero are settled through found, then seeded with stock and prices.
func Build(specs []BodySpec, found SettlementFactory) (*System, error) {
	byName := make(map[string]*Body, len(specs))
	bodies := make([]*Body, 0, len(specs))
	for _, sp := range specs {
		b := &Body{
			Name:  sp.Name,
			Class: sp.Class,
			Mass:  sp.Mass,
			Size:  sp.Size,
			Orbit: sp.Orbit,
			Speed: sp.Speed,
			Phase: sp.Phase,
		}
		if _, dup := byName[b.Name]; dup {
			return nil, fmt.Errorf("world: %w: %s", ErrDuplicateBody, b.Name)
		}
		byName[b.Name] = b
		bodies = append(bodies, b)
	}

	for i, sp := range specs {
		if sp.Center == "" {
			continue
		}
		c, ok := byName[sp.Center]
		if !ok {
			return nil, fmt.Errorf("world: %s: %w: %s", sp.Name, ErrUnknownCenter, sp.Center)
		}
		bodies[i].Center = c
	}

	for i, sp := range specs {
		if sp.MarketLevel <= 0 {
			continue
		}
		s := found(bodies[i], sp.MarketLevel)
		bodies[i].SetSettlement(s)
		m := s.Market()
		for good, n := range sp.Stock {
			m.Stock(good, n)
		}
		for good, p := range sp.Prices {
			m.SetPrice(good, p)
		}
	}

	return New(bodies)
}
