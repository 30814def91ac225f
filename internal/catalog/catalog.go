// Package catalog holds the static definitions of every tradable good:
// demand per capita, production caps, and the inputs needed to make one unit.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/talgya/starmarket/internal/economy"
)

// Labour is re-exported so catalog users need not import economy for it.
const Labour = economy.Labour

var (
	ErrDuplicateGood = errors.New("duplicate good")
	ErrUnknownInput  = errors.New("unknown input good")
	ErrNoStaple      = errors.New("no staple good")
	ErrBadParameter  = errors.New("invalid parameter")
)

// Parameter is a value with optional per-class overrides.
type Parameter struct {
	Base      float64
	Overrides map[BodyClass]float64
}

// P creates a parameter without overrides.
func P(v float64) Parameter {
	return Parameter{Base: v}
}

// Value returns the override for class if one is set, else the base value.
func (p Parameter) Value(class BodyClass) float64 {
	if v, ok := p.Overrides[class]; ok {
		return v
	}
	return p.Base
}

// With returns a copy of p with an override for class.
func (p Parameter) With(class BodyClass, v float64) Parameter {
	out := Parameter{Base: p.Base, Overrides: make(map[BodyClass]float64, len(p.Overrides)+1)}
	for c, ov := range p.Overrides {
		out.Overrides[c] = ov
	}
	out.Overrides[class] = v
	return out
}

// Good is one catalog entry.
type Good struct {
	Name string `yaml:"name"`

	// Units demanded per person per cycle.
	Consumption Parameter `yaml:"consumption"`

	// Maximum units a producer may make per cycle; 0 means the good
	// cannot be produced on that class of body.
	ProductionCap Parameter `yaml:"production_cap"`

	// Maximum labour a producer may hire per cycle; 0 = no cap.
	LabourCap Parameter `yaml:"labour_cap"`

	// Input good -> units needed per unit of output. Always has Labour.
	Inputs map[string]Parameter `yaml:"inputs"`

	// Staple goods decide famine. Exactly one good should be the staple.
	Staple bool `yaml:"staple"`
}

// Catalog is an immutable, ordered set of goods.
type Catalog struct {
	names []string
	goods map[string]*Good
}

// New validates the goods and builds a catalog. Labour is added
// implicitly when absent.
func New(goods ...Good) (*Catalog, error) {
	c := &Catalog{goods: make(map[string]*Good, len(goods)+1)}

	for i := range goods {
		g := goods[i]
		if g.Name == "" {
			return nil, fmt.Errorf("catalog: good %d: %w: empty name", i, ErrBadParameter)
		}
		if _, dup := c.goods[g.Name]; dup {
			return nil, fmt.Errorf("catalog: %w: %s", ErrDuplicateGood, g.Name)
		}
		if g.Name != Labour {
			if g.Inputs == nil {
				g.Inputs = make(map[string]Parameter)
			}
			if _, ok := g.Inputs[Labour]; !ok {
				return nil, fmt.Errorf("catalog: %s: %w: Labour input missing", g.Name, ErrBadParameter)
			}
			if g.Inputs[Labour].Base <= 0 {
				return nil, fmt.Errorf("catalog: %s: %w: Labour per unit must be positive", g.Name, ErrBadParameter)
			}
		}
		c.goods[g.Name] = &g
		c.names = append(c.names, g.Name)
	}

	if _, ok := c.goods[Labour]; !ok {
		c.goods[Labour] = &Good{Name: Labour}
		c.names = append(c.names, Labour)
	}

	staples := 0
	for _, g := range c.goods {
		if g.Staple {
			staples++
		}
		for in := range g.Inputs {
			if _, ok := c.goods[in]; !ok {
				return nil, fmt.Errorf("catalog: %s: %w: %s", g.Name, ErrUnknownInput, in)
			}
			if in == g.Name {
				return nil, fmt.Errorf("catalog: %s: %w: consumes itself", g.Name, ErrBadParameter)
			}
		}
	}
	if staples != 1 {
		return nil, fmt.Errorf("catalog: %w (found %d staples, want 1)", ErrNoStaple, staples)
	}

	return c, nil
}

// MustNew is New that panics; for package-level defaults and tests.
func MustNew(goods ...Good) *Catalog {
	c, err := New(goods...)
	if err != nil {
		panic(err)
	}
	return c
}

// Names returns every good in definition order, Labour included.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Tradable returns every good except Labour, in definition order.
func (c *Catalog) Tradable() []string {
	out := make([]string, 0, len(c.names))
	for _, n := range c.names {
		if n != Labour {
			out = append(out, n)
		}
	}
	return out
}

// Has reports whether the catalog defines good.
func (c *Catalog) Has(good string) bool {
	_, ok := c.goods[good]
	return ok
}

// Good returns the definition of a good.
func (c *Catalog) Good(good string) (Good, bool) {
	g, ok := c.goods[good]
	if !ok {
		return Good{}, false
	}
	return *g, true
}

// Staple returns the name of the staple good.
func (c *Catalog) Staple() string {
	for _, n := range c.names {
		if c.goods[n].Staple {
			return n
		}
	}
	return ""
}

// Luxuries returns the consumed goods that are not the staple.
func (c *Catalog) Luxuries(class BodyClass) []string {
	var out []string
	for _, n := range c.names {
		g := c.goods[n]
		if g.Staple || n == Labour {
			continue
		}
		if g.Consumption.Value(class) > 0 {
			out = append(out, n)
		}
	}
	return out
}

// Consumption returns units demanded per person for good on class.
func (c *Catalog) Consumption(good string, class BodyClass) float64 {
	if g, ok := c.goods[good]; ok {
		return g.Consumption.Value(class)
	}
	return 0
}

// ProductionCap returns the production cap of good on class.
func (c *Catalog) ProductionCap(good string, class BodyClass) float64 {
	if g, ok := c.goods[good]; ok {
		return g.ProductionCap.Value(class)
	}
	return 0
}

// LabourCap returns the labour hiring cap of good on class (0 = none).
func (c *Catalog) LabourCap(good string, class BodyClass) float64 {
	if g, ok := c.goods[good]; ok {
		return g.LabourCap.Value(class)
	}
	return 0
}

// Inputs returns the per-unit input requirements for good on class.
func (c *Catalog) Inputs(good string, class BodyClass) map[string]float64 {
	g, ok := c.goods[good]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(g.Inputs))
	for in, p := range g.Inputs {
		if v := p.Value(class); v > 0 {
			out[in] = v
		}
	}
	return out
}

// InputNames returns the input goods of good, sorted, Labour first.
func (c *Catalog) InputNames(good string) []string {
	g, ok := c.goods[good]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(g.Inputs))
	for in := range g.Inputs {
		names = append(names, in)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == Labour || names[j] == Labour {
			return names[i] == Labour
		}
		return names[i] < names[j]
	})
	return names
}

// UnitCost prices one unit of good's inputs with the given price function.
func (c *Catalog) UnitCost(good string, class BodyClass, price func(string) float64) float64 {
	cost := 0.0
	for in, q := range c.Inputs(good, class) {
		cost += q * price(in)
	}
	return cost
}
