// Package world holds the spatial side of the simulation: celestial bodies
// on circular orbits and the settlements anchored to them.
package world

import (
	"math"

	"github.com/talgya/starmarket/internal/catalog"
	"github.com/talgya/starmarket/internal/social"
)

// Body is a star, planet or moon. It owns at most one settlement.
type Body struct {
	Name   string            `json:"name"`
	Class  catalog.BodyClass `json:"class"`
	Mass   float64           `json:"mass"`
	Size   float64           `json:"size"`
	Orbit  float64           `json:"orbit"` // Radius around Center
	Speed  float64           `json:"speed"` // Revolutions per simulated second
	Phase  float64           `json:"phase"` // Position on the orbit, [0, 1)
	Center *Body             `json:"-"`

	Position Vec2 `json:"position"`

	settlement *social.Settlement
	depth      int
}

// Advance moves the body along its orbit by dt simulated seconds.
// The center must already be advanced for this tick.
func (b *Body) Advance(dt float64) {
	b.Phase = math.Mod(b.Phase+dt*b.Speed, 1)
	if b.Phase < 0 {
		b.Phase++
	}
	var origin Vec2
	if b.Center != nil {
		origin = b.Center.Position
	}
	angle := b.Phase * 2 * math.Pi
	b.Position = Vec2{
		X: origin.X + b.Orbit*math.Sin(angle),
		Y: origin.Y + b.Orbit*math.Cos(angle),
	}
}

// CanBeColonised reports whether settlers could live here: light enough
// and neither a star nor a gas giant.
func (b *Body) CanBeColonised(massCeiling float64) bool {
	return b.Mass < massCeiling && b.Class != catalog.ClassStar && b.Class != catalog.ClassGasGiant
}

// Settlement returns the settlement on the body, or nil.
func (b *Body) Settlement() *social.Settlement {
	return b.settlement
}

// HasMarket reports whether the body is settled.
func (b *Body) HasMarket() bool {
	return b.settlement != nil
}

// SetSettlement anchors s on the body.
func (b *Body) SetSettlement(s *social.Settlement) {
	b.settlement = s
}

// GetOrCreateSettlement returns the body's settlement, founding one with
// create if the body is uninhabited.
func (b *Body) GetOrCreateSettlement(create func(*Body) *social.Settlement) *social.Settlement {
	if b.settlement == nil {
		b.settlement = create(b)
	}
	return b.settlement
}
