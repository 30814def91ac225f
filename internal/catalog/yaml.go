package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts either a bare number or
// {base: n, overrides: {class: n}}.
func (p *Parameter) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var v float64
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("parameter: %w", err)
		}
		*p = P(v)
		return nil
	}
	var raw struct {
		Base      float64               `yaml:"base"`
		Overrides map[BodyClass]float64 `yaml:"overrides"`
	}
	if err := n.Decode(&raw); err != nil {
		return fmt.Errorf("parameter: %w", err)
	}
	*p = Parameter{Base: raw.Base, Overrides: raw.Overrides}
	return nil
}

// MarshalYAML writes a bare number when there are no overrides.
func (p Parameter) MarshalYAML() (any, error) {
	if len(p.Overrides) == 0 {
		return p.Base, nil
	}
	return struct {
		Base      float64               `yaml:"base"`
		Overrides map[BodyClass]float64 `yaml:"overrides"`
	}{p.Base, p.Overrides}, nil
}
