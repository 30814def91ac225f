package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Equal(t, "Fruit", c.Staple())
	assert.Equal(t, []string{"Fruit", "Luxury goods", "Ore", "Machinery", Labour}, c.Names())
	assert.Equal(t, []string{"Fruit", "Luxury goods", "Ore", "Machinery"}, c.Tradable())
	assert.Equal(t, []string{"Luxury goods", "Machinery"}, c.Luxuries(ClassRockyOxygen))

	assert.Equal(t, 0.0, c.ProductionCap("Fruit", ClassRockyNitrogen))
	assert.Equal(t, 1_000_000.0, c.ProductionCap("Fruit", ClassRockyOxygen))
	assert.Equal(t, 1000.0, c.LabourCap("Luxury goods", ClassGasGiant))

	in := c.Inputs("Machinery", ClassRockyOxygen)
	assert.Equal(t, map[string]float64{Labour: 1, "Ore": 2}, in)
	assert.Equal(t, []string{Labour, "Ore"}, c.InputNames("Machinery"))
}

func TestUnitCost(t *testing.T) {
	c := Default()
	prices := map[string]float64{Labour: 1.5, "Ore": 4}
	price := func(g string) float64 { return prices[g] }

	assert.InDelta(t, 1.5+8, c.UnitCost("Machinery", ClassRockyOxygen, price), 1e-9)
	assert.InDelta(t, 0.45, c.UnitCost("Fruit", ClassRockyOxygen, price), 1e-9)
}

func TestNewValidation(t *testing.T) {
	fruit := Good{Name: "Fruit", Staple: true, Consumption: P(0.1), Inputs: map[string]Parameter{Labour: P(0.3)}}

	tests := []struct {
		name  string
		goods []Good
		err   error
	}{
		{"duplicate", []Good{fruit, fruit}, ErrDuplicateGood},
		{"no staple", []Good{{Name: "Ore", Inputs: map[string]Parameter{Labour: P(1)}}}, ErrNoStaple},
		{"unknown input", []Good{fruit, {Name: "Gear", Inputs: map[string]Parameter{Labour: P(1), "Steel": P(1)}}}, ErrUnknownInput},
		{"missing labour", []Good{fruit, {Name: "Gear", Inputs: map[string]Parameter{"Fruit": P(1)}}}, ErrBadParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.goods...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseClass(t *testing.T) {
	c, err := ParseClass(" Rocky_Oxygen ")
	require.NoError(t, err)
	assert.Equal(t, ClassRockyOxygen, c)

	_, err = ParseClass("ice_giant")
	assert.Error(t, err)

	var back BodyClass
	text, _ := ClassGasGiant.MarshalText()
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, ClassGasGiant, back)
}

func TestGoodsFromYAML(t *testing.T) {
	src := `
- name: Fruit
  staple: true
  consumption: 0.1
  production_cap:
    base: 0
    overrides:
      rocky_oxygen: 500
  inputs:
    Labour: 0.3
- name: Ore
  production_cap: 100
  inputs:
    Labour: 0.2
`
	var goods []Good
	require.NoError(t, yaml.Unmarshal([]byte(src), &goods))
	c, err := New(goods...)
	require.NoError(t, err)

	assert.Equal(t, "Fruit", c.Staple())
	assert.Equal(t, 500.0, c.ProductionCap("Fruit", ClassRockyOxygen))
	assert.Equal(t, 0.0, c.ProductionCap("Fruit", ClassRockyMethane))
	assert.Equal(t, 100.0, c.ProductionCap("Ore", ClassRockyMethane))

	out, err := yaml.Marshal(goods[1].ProductionCap)
	require.NoError(t, err)
	assert.Equal(t, "100\n", string(out))
}
