// Settlement lifecycle: colonists leave crowded, unhappy settlements for
// a happier neighbour or an empty world.
package engine

import (
	"log/slog"
	"math"

	"github.com/talgya/starmarket/internal/social"
	"github.com/talgya/starmarket/internal/world"
)

// colonize moves a share of people and savings away from the body's
// settlement. The happiest other settlement above the migration threshold
// is preferred; failing that, a random colonizable body is settled.
func (s *Simulation) colonize(from *world.Body) {
	src := from.Settlement()
	target := s.migrationTarget(from)
	founded := false
	if target == nil {
		candidates := s.System.Colonizable(s.opts.Rules.MassCeiling)
		if len(candidates) == 0 {
			slog.Debug("no colony target", "settlement", src.Name)
			return
		}
		target = candidates[s.rng.Intn(len(candidates))]
		founded = !target.HasMarket()
	}

	dst := target.GetOrCreateSettlement(func(b *world.Body) *social.Settlement {
		return s.foundSettlement(b, 0)
	})

	share := s.opts.Rules.MigrationShare
	people := src.Population().RemovePeople(int(math.Floor(float64(src.Population().Num()) * share)))
	if added := dst.Population().AddPeople(people); added < people {
		src.Population().AddPeople(people - added)
		people = added
	}
	money := src.Population().RemoveMoney(src.Population().Money() * share)
	dst.Population().AddMoney(money)

	if founded {
		s.Stats.Colonies++
		slog.Info("colony founded", "from", src.Name, "to", dst.Name, "colonists", people, "money", int64(money))
		s.event("colony", "%s founded %s with %d colonists", src.Name, dst.Name, people)
		return
	}
	slog.Info("migration", "from", src.Name, "to", dst.Name, "migrants", people, "money", int64(money))
	s.event("colony", "%d people moved from %s to %s", people, src.Name, dst.Name)
}

// migrationTarget returns the happiest other settlement whose happiness
// exceeds the migration threshold, or nil.
func (s *Simulation) migrationTarget(from *world.Body) *world.Body {
	var best *world.Body
	bestHappiness := s.opts.Rules.MigrationHappiness
	for _, b := range s.System.Settled() {
		if b == from {
			continue
		}
		if h := b.Settlement().Happiness(); h > bestHappiness {
			best, bestHappiness = b, h
		}
	}
	return best
}
