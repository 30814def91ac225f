// Package config loads the YAML scenario and tuning for a simulation run.
// Any field left out of the file keeps its built-in default.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/starmarket/internal/agents"
	"github.com/talgya/starmarket/internal/catalog"
	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/engine"
	"github.com/talgya/starmarket/internal/social"
	"github.com/talgya/starmarket/internal/trade"
	"github.com/talgya/starmarket/internal/world"
)

var (
	ErrNoBodies   = errors.New("system has no bodies")
	ErrNoSettled  = errors.New("no body has a market")
	ErrBadCadence = errors.New("invalid simulation cadence")
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Seed     int64  `yaml:"seed"` // 0 draws a random seed
	LogLevel string `yaml:"log_level"`

	Economy    EconomyConfig      `yaml:"economy"`
	Ship       agents.FlightRules `yaml:"ship"`
	Simulation engine.Rules       `yaml:"simulation"`

	// Goods override the built-in catalog when present.
	Catalog []catalog.Good `yaml:"catalog,omitempty"`

	System  []world.BodySpec `yaml:"system"`
	API     APIConfig        `yaml:"api"`
	History HistoryConfig    `yaml:"history"`
}

type EconomyConfig struct {
	Prices     economy.PriceRules `yaml:"prices"`
	Settlement social.Rules       `yaml:"settlement"`
	Margin     float64            `yaml:"arbitrage_margin"`
}

type APIConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the built-in configuration: a small solar system with
// a fertile home world, an ore moon and a dry outer planet.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Economy: EconomyConfig{
			Prices:     economy.DefaultPriceRules(),
			Settlement: social.DefaultRules(),
			Margin:     trade.DefaultMargin,
		},
		Ship:       agents.DefaultFlightRules(),
		Simulation: engine.DefaultRules(),
		System:     defaultSystem(),
		API:        APIConfig{Enabled: true, Port: 8080, CORSOrigins: []string{"*"}},
		History:    HistoryConfig{Enabled: true, Path: "data/starsim.db"},
	}
}

func defaultSystem() []world.BodySpec {
	return []world.BodySpec{
		{Name: "Helios", Class: catalog.ClassStar, Mass: 1000, Size: 40},
		{Name: "Verdant", Class: catalog.ClassRockyOxygen, Center: "Helios", Mass: 1, Size: 6, Orbit: 300, Speed: 0.002, MarketLevel: 4,
			Stock: map[string]int{"Fruit": 2000}},
		{Name: "Cinder", Class: catalog.ClassRockyNoAtmosphere, Center: "Verdant", Mass: 0.1, Size: 2, Orbit: 25, Speed: 0.01, Phase: 0.5, MarketLevel: 1},
		{Name: "Rust", Class: catalog.ClassRockyCarbonDioxide, Center: "Helios", Mass: 0.6, Size: 4, Orbit: 550, Speed: 0.001, Phase: 0.3, MarketLevel: 2},
		{Name: "Mistral", Class: catalog.ClassRockyNitrogen, Center: "Helios", Mass: 2, Size: 5, Orbit: 800, Speed: 0.0007, Phase: 0.7},
		{Name: "Colossus", Class: catalog.ClassGasGiant, Center: "Helios", Mass: 300, Size: 20, Orbit: 1400, Speed: 0.0003, Phase: 0.1},
		{Name: "Murk", Class: catalog.ClassRockyMethane, Center: "Colossus", Mass: 0.4, Size: 3, Orbit: 60, Speed: 0.004},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path loads only the defaults.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads path over the defaults but does not validate.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overlays STARSIM_DB, STARSIM_PORT and CORS_ORIGINS.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("STARSIM_DB"); v != "" {
		c.History.Path = v
		c.History.Enabled = true
	}
	if v := os.Getenv("STARSIM_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.API.Port = port
		} else {
			slog.Warn("ignoring STARSIM_PORT", "value", v, "error", err)
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.API.CORSOrigins = strings.Split(v, ",")
	}
}

// Validate checks the configuration, including the catalog.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.System) == 0 {
		return ErrNoBodies
	}
	settled := 0
	for _, b := range c.System {
		if b.MarketLevel > 0 {
			settled++
		}
	}
	if settled == 0 {
		return ErrNoSettled
	}
	sim := c.Simulation
	if sim.TickSeconds <= 0 || sim.EconomyEvery <= 0 {
		return fmt.Errorf("%w: tick_seconds and economy_every must be positive", ErrBadCadence)
	}
	if sim.MigrationShare < 0 || sim.MigrationShare > 1 {
		return fmt.Errorf("simulation.migration_share %v outside [0, 1]", sim.MigrationShare)
	}
	p := c.Economy.Prices
	if p.Damping <= 0 || p.Damping >= 1 || p.Growth <= 1 || p.Floor <= 0 {
		return fmt.Errorf("economy.prices: damping must be in (0,1), growth > 1, floor > 0")
	}
	if c.Economy.Margin <= 1 {
		return fmt.Errorf("economy.arbitrage_margin %v must exceed 1", c.Economy.Margin)
	}
	if c.Ship.CargoSpace <= 0 {
		return fmt.Errorf("ship.cargo_space must be positive")
	}
	if _, err := c.BuildCatalog(); err != nil {
		return fmt.Errorf("catalog config invalid: %w", err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// BuildCatalog returns the configured catalog, or the default one.
func (c *Config) BuildCatalog() (*catalog.Catalog, error) {
	if len(c.Catalog) == 0 {
		return catalog.Default(), nil
	}
	return catalog.New(c.Catalog...)
}

// SlogLevel parses log_level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// EngineOptions converts the configuration into simulation options.
func (c *Config) EngineOptions(rec engine.Recorder) (engine.Options, error) {
	cat, err := c.BuildCatalog()
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		Catalog:    cat,
		Settlement: c.Economy.Settlement,
		Prices:     c.Economy.Prices,
		Flight:     c.Ship,
		Rules:      c.Simulation,
		Margin:     c.Economy.Margin,
		Seed:       c.Seed,
		Recorder:   rec,
	}, nil
}
