package trade

import (
	"math"
	"sort"

	"github.com/talgya/starmarket/internal/entropy"
)

// Ranked pairs a route with the revenue a ship could expect from it now.
type Ranked struct {
	Route   *Route
	Revenue float64
}

// Rank orders routes by potential revenue: price spread times the volume a
// ship with the given cargo capacity and money could carry. Ties keep route ID
// order.
func Rank(routes []*Route, capacity int, money float64) []Ranked {
	out := make([]Ranked, 0, len(routes))
	for _, r := range routes {
		out = append(out, Ranked{Route: r, Revenue: revenue(r, capacity, money)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Route.ID < out[j].Route.ID
	})
	return out
}

func revenue(r *Route, capacity int, money float64) float64 {
	s := r.Origin.Settlement()
	if s == nil || r.Destination.Settlement() == nil {
		return 0
	}
	p := s.Market().Price(r.Good)
	vol := float64(s.Market().Items(r.Good))
	vol = math.Min(vol, float64(capacity))
	if p > 0 {
		vol = math.Min(vol, math.Floor(money/p))
	}
	spread := r.Spread()
	if spread <= 0 || vol <= 0 {
		return 0
	}
	return spread * vol
}

// PickNearTop returns a random route among the best window entries, so ships
// spread over several opportunities. It returns nil for an empty ranking.
func PickNearTop(ranked []Ranked, src entropy.Source, window int) *Route {
	if len(ranked) == 0 {
		return nil
	}
	if window < 1 {
		window = 1
	}
	if window > len(ranked) {
		window = len(ranked)
	}
	return ranked[src.Intn(window)].Route
}
