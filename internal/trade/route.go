// Package trade detects one-step arbitrage routes between settled bodies
// and ranks them for the trading ships.
package trade

import (
	"fmt"

	"github.com/talgya/starmarket/internal/world"
)

// Route is an arbitrage opportunity: buy Good at Origin, sell at Destination.
// A Route is never modified after the network creates it, so ships may keep
// following it after the network has been rebuilt.
type Route struct {
	ID          uint64
	Origin      *world.Body
	Destination *world.Body
	Good        string
}

func (r *Route) String() string {
	return fmt.Sprintf("#%d %s %s->%s", r.ID, r.Good, r.Origin.Name, r.Destination.Name)
}

// Spread returns destination price minus origin price at the moment of the call.
func (r *Route) Spread() float64 {
	return price(r.Destination, r.Good) - price(r.Origin, r.Good)
}

func price(b *world.Body, good string) float64 {
	s := b.Settlement()
	if s == nil {
		return 0
	}
	return s.Market().Price(good)
}
