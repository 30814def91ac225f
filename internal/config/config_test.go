package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/starmarket/internal/catalog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "starsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultValidates(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1.2, c.Economy.Margin)
	assert.Equal(t, 0.9, c.Economy.Prices.Damping)
	assert.Equal(t, 2000, c.Ship.CargoSpace)
	assert.Equal(t, 10.0, c.Simulation.EconomyEvery)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
seed: 42
log_level: debug
economy:
  arbitrage_margin: 1.5
  settlement:
    max_level: 5
simulation:
  interval: 250ms
system:
  - name: Sun
    class: star
    mass: 900
  - name: Home
    class: rocky_oxygen
    center: Sun
    orbit: 100
    mass: 1
    market_level: 2
    stock:
      Fruit: 100
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), c.Seed)
	assert.Equal(t, 1.5, c.Economy.Margin)
	assert.Equal(t, 5, c.Economy.Settlement.MaxLevel)
	assert.Equal(t, 0.1, c.Economy.Settlement.LabourPerCitizen, "untouched field keeps default")
	assert.Equal(t, 250*time.Millisecond, c.Simulation.Interval)
	require.Len(t, c.System, 2)
	assert.Equal(t, catalog.ClassRockyOxygen, c.System[1].Class)
	assert.Equal(t, 100, c.System[1].Stock["Fruit"])

	lvl, err := c.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", lvl.String())
}

func TestLoadCustomCatalog(t *testing.T) {
	path := writeConfig(t, `
catalog:
  - name: Algae
    staple: true
    consumption: 0.2
    production_cap: 1000
    inputs:
      Labour: 0.1
`)
	c, err := Load(path)
	require.NoError(t, err)
	cat, err := c.BuildCatalog()
	require.NoError(t, err)
	assert.Equal(t, "Algae", cat.Staple())
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no bodies", func(c *Config) { c.System = nil }, ErrNoBodies},
		{"nothing settled", func(c *Config) {
			for i := range c.System {
				c.System[i].MarketLevel = 0
			}
		}, ErrNoSettled},
		{"zero tick", func(c *Config) { c.Simulation.TickSeconds = 0 }, ErrBadCadence},
		{"missing labour", func(c *Config) {
			c.Catalog = []catalog.Good{{Name: "Rock", Staple: true}}
		}, catalog.ErrBadParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), tt.want)
		})
	}

	c := Default()
	c.Economy.Margin = 1
	assert.Error(t, c.Validate())
	c = Default()
	c.LogLevel = "loud"
	assert.Error(t, c.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("STARSIM_DB", "/tmp/x.db")
	t.Setenv("STARSIM_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "http://a,http://b")

	c := Default()
	c.ApplyEnv()
	assert.Equal(t, "/tmp/x.db", c.History.Path)
	assert.Equal(t, 9090, c.API.Port)
	assert.Equal(t, []string{"http://a", "http://b"}, c.API.CORSOrigins)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
