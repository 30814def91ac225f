// Ship glue: polling every ship each tick and spawning new ones.
package engine

import (
	"errors"
	"log/slog"

	"github.com/talgya/starmarket/internal/agents"
)

// UpdateShips polls every ship once and records what they did.
func (s *Simulation) UpdateShips(dt float64) {
	env := agents.Env{
		System:  s.System,
		Network: s.Network,
		Rand:    s.rng,
		Rules:   s.opts.Flight,
	}
	for _, ship := range s.Ships {
		for _, a := range ship.Update(dt, env) {
			switch a.Kind {
			case agents.ActionDeliver:
				s.Stats.Deliveries++
				s.event("ship", "%s", a.Detail)
			case agents.ActionBuy, agents.ActionSell:
				s.event("trade", "%s", a.Detail)
			}
		}
	}
}

// SpawnShips adds one ship unless the fleet is full.
func (s *Simulation) SpawnShips() error {
	return s.spawnShip(len(s.Ships))
}

func (s *Simulation) spawnShip(fleet int) error {
	ship, err := s.spawner.Spawn(s.System, fleet)
	if errors.Is(err, agents.ErrFleetFull) || errors.Is(err, agents.ErrNoSettlement) {
		return nil
	}
	if err != nil {
		return err
	}
	s.Ships = append(s.Ships, ship)
	slog.Info("ship spawned", "ship", ship.Name, "id", ship.ID, "home", ship.Location.Name, "fleet", len(s.Ships))
	s.event("ship", "%s launched from %s", ship.Name, ship.Location.Name)
	return nil
}
