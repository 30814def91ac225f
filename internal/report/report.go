// Package report captures a read-only picture of the simulation for
// observers: the per-body price table, settlement welfare, routes and ships.
package report

import (
	"github.com/talgya/starmarket/internal/agents"
	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/trade"
	"github.com/talgya/starmarket/internal/world"
)

// Report is one snapshot of the whole simulation.
type Report struct {
	Tick        uint64             `json:"tick"`
	Cycle       uint64             `json:"cycle"`
	SimSeconds  float64            `json:"sim_seconds"`
	Bodies      []BodyReport       `json:"bodies"`
	Settlements []SettlementReport `json:"settlements"`
	Routes      []RouteReport      `json:"routes"`
	Ships       []ShipReport       `json:"ships"`
	Events      []Event            `json:"events,omitempty"`
}

// Event is a notable occurrence in the simulation.
type Event struct {
	Tick        uint64 `json:"tick" db:"tick"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "ship", "colony", "famine", etc.
}

// BodyReport is a body's position and classification.
type BodyReport struct {
	Name     string     `json:"name"`
	Class    string     `json:"class"`
	Center   string     `json:"center,omitempty"`
	Mass     float64    `json:"mass"`
	Position world.Vec2 `json:"position"`
	Settled  bool       `json:"settled"`
}

// GoodReport is one row of a settlement's price table. Flows and volume
// are those of the last completed cycle.
type GoodReport struct {
	Good     string         `json:"good"`
	Price    float64        `json:"price"`
	Quantity int            `json:"quantity"`
	Volume   economy.Volume `json:"volume"`
	economy.DataSet
}

// ProducerReport describes one producer.
type ProducerReport struct {
	Good     string  `json:"good"`
	Level    int     `json:"level"`
	Money    float64 `json:"money"`
	Produced int     `json:"produced"`
	Sold     int     `json:"sold"`
}

// SettlementReport is the economic state of one settlement.
type SettlementReport struct {
	Name            string           `json:"name"`
	Class           string           `json:"class"`
	Population      int              `json:"population"`
	PopulationMoney float64          `json:"population_money"`
	MarketMoney     float64          `json:"market_money"`
	Happiness       float64          `json:"happiness"`
	Unemployment    float64          `json:"unemployment"`
	Famine          bool             `json:"famine"`
	Goods           []GoodReport     `json:"goods"`
	Producers       []ProducerReport `json:"producers"`
}

// RouteReport is one active arbitrage route.
type RouteReport struct {
	ID          uint64  `json:"id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Good        string  `json:"good"`
	Spread      float64 `json:"spread"`
}

// ShipReport is one trading ship.
type ShipReport struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	State    string         `json:"state"`
	Money    float64        `json:"money"`
	Cargo    map[string]int `json:"cargo"`
	Location string         `json:"location,omitempty"`
	Target   string         `json:"target,omitempty"`
	Route    string         `json:"route,omitempty"`
	Trips    int            `json:"trips"`
	Position world.Vec2     `json:"position"`
}

// Input is what Build reads. Callers must hold off simulation writes
// while Build runs.
type Input struct {
	Tick       uint64
	Cycle      uint64
	SimSeconds float64
	System     *world.System
	Network    *trade.Network
	Ships      []*agents.Ship
	Events     []Event
}

// Build captures a report from live simulation state.
func Build(in Input) *Report {
	r := &Report{Tick: in.Tick, Cycle: in.Cycle, SimSeconds: in.SimSeconds, Events: in.Events}

	if in.System != nil {
		for _, b := range in.System.Bodies {
			br := BodyReport{
				Name:     b.Name,
				Class:    b.Class.String(),
				Mass:     b.Mass,
				Position: b.Position,
				Settled:  b.HasMarket(),
			}
			if b.Center != nil {
				br.Center = b.Center.Name
			}
			r.Bodies = append(r.Bodies, br)
			if b.HasMarket() {
				r.Settlements = append(r.Settlements, settlementReport(b))
			}
		}
	}

	if in.Network != nil {
		for _, rt := range in.Network.Routes() {
			r.Routes = append(r.Routes, RouteReport{
				ID:          rt.ID,
				Origin:      rt.Origin.Name,
				Destination: rt.Destination.Name,
				Good:        rt.Good,
				Spread:      rt.Spread(),
			})
		}
	}

	for _, s := range in.Ships {
		sr := ShipReport{
			ID:       s.ID.String(),
			Name:     s.Name,
			State:    s.State.String(),
			Money:    s.Money(),
			Cargo:    s.Cargo(),
			Trips:    s.Trips,
			Position: s.Position,
		}
		if s.Location != nil {
			sr.Location = s.Location.Name
		}
		if s.Target != nil {
			sr.Target = s.Target.Name
		}
		if s.Route != nil {
			sr.Route = s.Route.String()
		}
		r.Ships = append(r.Ships, sr)
	}
	return r
}

func settlementReport(b *world.Body) SettlementReport {
	s := b.Settlement()
	pop := s.Population()
	sr := SettlementReport{
		Name:            s.Name,
		Class:           s.Class().String(),
		Population:      pop.Num(),
		PopulationMoney: pop.Money(),
		Happiness:       s.Happiness(),
		Unemployment:    s.Unemployment(),
		Famine:          pop.LastFamine(),
	}

	goods := s.Catalog().Names()
	s.WithMarket(func(m *economy.Market) {
		sr.MarketMoney = m.Money()
		for _, g := range goods {
			sr.Goods = append(sr.Goods, GoodReport{
				Good:     g,
				Price:    m.Price(g),
				Quantity: m.Items(g),
				Volume:   m.LastVolume(g),
				DataSet:  m.LastCycle(g),
			})
		}
	})

	for _, p := range s.Producers() {
		sr.Producers = append(sr.Producers, ProducerReport{
			Good:     p.Good(),
			Level:    p.Level(),
			Money:    p.Money(),
			Produced: p.LastProduced(),
			Sold:     p.LastSold(),
		})
	}
	return sr
}

// Settlement returns the named settlement's report.
func (r *Report) Settlement(name string) (SettlementReport, bool) {
	for _, s := range r.Settlements {
		if s.Name == name {
			return s, true
		}
	}
	return SettlementReport{}, false
}

// TotalPopulation sums people over every settlement.
func (r *Report) TotalPopulation() int {
	n := 0
	for _, s := range r.Settlements {
		n += s.Population
	}
	return n
}
