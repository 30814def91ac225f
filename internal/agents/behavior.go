// Ship behavior: a three-state machine polled every tick.
// Steering is proportional; trading happens after a dwell on landing.
package agents

import (
	"fmt"

	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/entropy"
	"github.com/talgya/starmarket/internal/trade"
	"github.com/talgya/starmarket/internal/world"
)

// Action records what a ship did this tick.
type Action struct {
	Ship   *Ship
	Kind   ActionKind
	Detail string // Human-readable description for event log
}

// ActionKind enumerates ship actions.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionDepart
	ActionLand
	ActionSell
	ActionBuy
	ActionDeliver
	ActionWander
)

// Env is what a ship needs to see of the world to decide.
type Env struct {
	System  *world.System
	Network *trade.Network
	Rand    entropy.Source
	Rules   FlightRules
}

// Update advances the ship by dt simulated seconds and returns the actions
// it took. Market access goes through Settlement.WithMarket.
func (s *Ship) Update(dt float64, env Env) []Action {
	switch s.State {
	case Idle:
		return s.depart(env)
	case EnRoute:
		return s.fly(dt, env.Rules)
	case Landed:
		s.Position = s.Location.Position
		s.dwell += dt
		if s.dwell < env.Rules.DwellTime {
			return nil
		}
		return s.transact(env)
	}
	return nil
}

// depart picks a target: the origin of the followed route, or a random body.
func (s *Ship) depart(env Env) []Action {
	if s.Route != nil {
		s.Target = s.Route.Origin
		s.State = EnRoute
		return []Action{{s, ActionDepart, fmt.Sprintf("%s heads to %s to load %s", s.Name, s.Target.Name, s.Route.Good)}}
	}
	return s.wander(env)
}

func (s *Ship) wander(env Env) []Action {
	bodies := env.System.Bodies
	if len(bodies) == 0 {
		s.State = Idle
		return nil
	}
	s.Target = bodies[env.Rand.Intn(len(bodies))]
	s.State = EnRoute
	s.Location = nil
	return []Action{{s, ActionWander, fmt.Sprintf("%s wanders to %s", s.Name, s.Target.Name)}}
}

func (s *Ship) fly(dt float64, r FlightRules) []Action {
	s.Location = nil
	if s.Target == nil {
		s.State = Idle
		return nil
	}
	offset := s.Target.Position.Sub(s.Position)
	accel := offset.Scale(r.Gain).Sub(s.Velocity.Scale(r.Damping)).Clamp(r.MaxAccel)
	s.Velocity = s.Velocity.Add(accel.Scale(dt))
	s.Position = s.Position.Add(s.Velocity.Scale(dt))

	if world.Distance(s.Position, s.Target.Position) > r.LandingDistance || s.Velocity.Len() > r.LandingSpeed {
		return nil
	}
	s.State = Landed
	s.Location = s.Target
	s.Target = nil
	s.Position = s.Location.Position
	s.Velocity = world.Vec2{}
	s.dwell = 0
	return []Action{{s, ActionLand, fmt.Sprintf("%s lands on %s", s.Name, s.Location.Name)}}
}

// transact runs once per landing, after the dwell.
func (s *Ship) transact(env Env) []Action {
	var actions []Action
	here := s.Location
	settlement := here.Settlement()

	if settlement != nil && s.Trader.Cargo() > 0 {
		settlement.WithMarket(func(m *economy.Market) {
			for good, n := range s.Trader.Goods() {
				sold := m.Sell(good, n, s.Trader)
				if sold > 0 {
					actions = append(actions, Action{s, ActionSell, fmt.Sprintf("%s sells %d %s on %s", s.Name, sold, good, here.Name)})
				}
			}
		})
	}

	if s.Route != nil {
		switch here {
		case s.Route.Origin:
			if settlement != nil {
				good := s.Route.Good
				var bought int
				settlement.WithMarket(func(m *economy.Market) {
					bought = m.Buy(good, s.Trader.StorageLeft(), s.Trader)
				})
				if bought > 0 {
					actions = append(actions, Action{s, ActionBuy, fmt.Sprintf("%s loads %d %s on %s", s.Name, bought, good, here.Name)})
				}
			}
			s.Target = s.Route.Destination
			s.State = EnRoute
			s.Location = nil
			return append(actions, Action{s, ActionDepart, fmt.Sprintf("%s departs for %s", s.Name, s.Target.Name)})
		case s.Route.Destination:
			s.Trips++
			actions = append(actions, Action{s, ActionDeliver, fmt.Sprintf("%s completes %s", s.Name, s.Route)})
			s.Route = nil
		default:
			s.State = Idle
			return actions
		}
	}

	s.Route = s.chooseRoute(env)
	if s.Route == nil {
		return append(actions, s.wander(env)...)
	}
	if s.Route.Origin == here {
		// Already at the origin: load on the next tick.
		s.dwell = env.Rules.DwellTime
		return actions
	}
	s.State = Idle
	return actions
}

func (s *Ship) chooseRoute(env Env) *trade.Route {
	if env.Network == nil {
		return nil
	}
	ranked := trade.Rank(env.Network.Routes(), s.Trader.StorageLeft(), s.Trader.Money())
	return trade.PickNearTop(ranked, env.Rand, env.Rules.RankWindow)
}
