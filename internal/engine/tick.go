// Package engine provides the tick-based simulation loop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Engine drives the simulation forward. Every tick advances simulated time
// by TickSeconds; slower layers fire on their own simulated cadence.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base wall-clock tick interval

	TickSeconds  float64 // Simulated seconds per tick
	EconomyEvery float64 // Simulated seconds between settlement updates
	SpawnEvery   float64 // Simulated seconds between ship spawns

	// Callbacks for each layer, populated during setup.
	OnTick    func(tick uint64, dt float64) // Every tick: orbits and ships
	OnEconomy func(tick uint64)             // Every EconomyEvery seconds
	OnSpawn   func(tick uint64)             // Every SpawnEvery seconds
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:        1.0,
		Interval:     100 * time.Millisecond,
		TickSeconds:  0.1,
		EconomyEvery: 10,
		SpawnEvery:   30,
	}
}

// Run starts the simulation loop. Blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)

	for {
		if ctx.Err() != nil {
			break
		}
		if e.Speed <= 0 {
			// Paused: sleep briefly and check again.
			if !sleep(ctx, 100*time.Millisecond) {
				break
			}
			continue
		}

		start := time.Now()

		e.Step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target && !sleep(ctx, target-elapsed) {
			break
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick, "sim_time", SimTime(e.SimSeconds()))
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Step advances the simulation by one tick.
func (e *Engine) Step() {
	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick, e.TickSeconds)
	}

	if n := e.every(e.EconomyEvery); n > 0 && e.Tick%n == 0 && e.OnEconomy != nil {
		e.OnEconomy(e.Tick)
	}

	if n := e.every(e.SpawnEvery); n > 0 && e.Tick%n == 0 && e.OnSpawn != nil {
		e.OnSpawn(e.Tick)
	}
}

// every converts a simulated period into a tick count; 0 disables the layer.
func (e *Engine) every(seconds float64) uint64 {
	if seconds <= 0 || e.TickSeconds <= 0 {
		return 0
	}
	return uint64(math.Max(1, math.Round(seconds/e.TickSeconds)))
}

// SimSeconds returns the simulated time elapsed.
func (e *Engine) SimSeconds() float64 {
	return float64(e.Tick) * e.TickSeconds
}

// SimTime returns a human-readable simulated time.
func SimTime(seconds float64) string {
	total := int64(seconds)
	s := total % 60
	m := total / 60 % 60
	h := total / 3600 % 24
	d := total/86400 + 1
	return fmt.Sprintf("Day %d, %d:%02d:%02d", d, h, m, s)
}
