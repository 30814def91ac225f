// Package agents provides the autonomous trading ships: their flight state,
// cargo trader and the decisions they take on landing.
package agents

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/trade"
	"github.com/talgya/starmarket/internal/world"
)

// State is the flight state of a ship.
type State uint8

const (
	Idle    State = iota // Waiting for a target
	EnRoute              // Steering toward Target
	Landed               // Docked at Location
)

var stateNames = [...]string{"idle", "en_route", "landed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// FlightRules tunes steering, docking and trading for every ship.
type FlightRules struct {
	Gain            float64 `yaml:"gain"`             // Acceleration per unit of distance
	Damping         float64 `yaml:"damping"`          // Acceleration per unit of velocity
	MaxAccel        float64 `yaml:"max_accel"`
	LandingDistance float64 `yaml:"landing_distance"`
	LandingSpeed    float64 `yaml:"landing_speed"`
	DwellTime       float64 `yaml:"dwell_time"` // Simulated seconds spent docked before trading
	CargoSpace      int     `yaml:"cargo_space"`
	StartMoney      float64 `yaml:"start_money"`
	RankWindow      int     `yaml:"rank_window"` // Routes considered when picking near the top
	FleetCap        int     `yaml:"fleet_cap"`
}

// DefaultFlightRules returns the standard ship tuning.
func DefaultFlightRules() FlightRules {
	return FlightRules{
		Gain:            0.5,
		Damping:         1.2,
		MaxAccel:        50,
		LandingDistance: 5,
		LandingSpeed:    10,
		DwellTime:       2,
		CargoSpace:      2000,
		StartMoney:      1000,
		RankWindow:      3,
		FleetCap:        20,
	}
}

// Ship is an autonomous trader flying between bodies.
type Ship struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	Position world.Vec2 `json:"position"`
	Velocity world.Vec2 `json:"velocity"`
	State    State      `json:"state"`

	Target   *world.Body  `json:"-"`
	Location *world.Body  `json:"-"` // Set while Landed
	Route    *trade.Route `json:"-"`

	Trader *economy.Trader `json:"-"`

	Trips int `json:"trips"` // Completed route deliveries

	dwell float64
}

// NewShip creates an idle ship docked at home.
func NewShip(id uuid.UUID, name string, home *world.Body, rules FlightRules) *Ship {
	return &Ship{
		ID:       id,
		Name:     name,
		Position: home.Position,
		State:    Landed,
		Location: home,
		Trader:   economy.NewTrader(rules.StartMoney, rules.CargoSpace, economy.EntityTrader),
	}
}

// Money returns the ship's cash.
func (s *Ship) Money() float64 {
	return s.Trader.Money()
}

// Cargo returns a copy of the ship's hold.
func (s *Ship) Cargo() map[string]int {
	return s.Trader.Goods()
}

func (s *Ship) String() string {
	return fmt.Sprintf("%s(%s, money=%.0f, cargo=%d)", s.Name, s.State, s.Money(), s.Trader.Cargo())
}
