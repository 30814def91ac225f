// Ship spawning: new traders appear docked at a random settled body.
package agents

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/starmarket/internal/entropy"
	"github.com/talgya/starmarket/internal/world"
)

var (
	ErrFleetFull    = errors.New("fleet is at its cap")
	ErrNoSettlement = errors.New("no settled body to spawn at")
)

// Spawner creates ships for the simulation.
type Spawner struct {
	rng    entropy.Source
	rules  FlightRules
	serial int
}

// NewSpawner creates a ship spawner drawing names and IDs from src.
func NewSpawner(src entropy.Source, rules FlightRules) *Spawner {
	return &Spawner{rng: src, rules: rules}
}

// Spawn creates a ship at a random settled body. It fails with
// ErrFleetFull or ErrNoSettlement when no ship can be launched.
func (s *Spawner) Spawn(sys *world.System, fleet int) (*Ship, error) {
	if s.rules.FleetCap > 0 && fleet >= s.rules.FleetCap {
		return nil, ErrFleetFull
	}
	settled := sys.Settled()
	if len(settled) == 0 {
		return nil, ErrNoSettlement
	}
	home := settled[s.rng.Intn(len(settled))]

	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		return nil, fmt.Errorf("ship id: %w", err)
	}
	s.serial++
	return NewShip(id, s.generateName(), home, s.rules), nil
}

func (s *Spawner) generateName() string {
	prefix := shipPrefixes[s.rng.Intn(len(shipPrefixes))]
	name := shipNames[s.rng.Intn(len(shipNames))]
	return fmt.Sprintf("%s %s %d", prefix, name, s.serial)
}

// Name pools for spawned ships.
var shipPrefixes = []string{"ISS", "MV", "RSV", "FTV", "CSV"}

var shipNames = []string{
	"Albatross", "Borealis", "Cormorant", "Dauntless", "Ember",
	"Fortune", "Gannet", "Heron", "Ibis", "Juniper",
	"Kestrel", "Lodestar", "Meridian", "Nomad", "Osprey",
	"Petrel", "Quillon", "Rover", "Solace", "Tern",
}
