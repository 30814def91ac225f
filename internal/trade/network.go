package trade

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/dominikbraun/graph"

	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/world"
)

// DefaultMargin is the minimum destination/origin price ratio for a route.
const DefaultMargin = 1.2

// Network is the set of routes found by the last rebuild, stored as a directed
// graph of body names whose edges carry the routes of that pair.
type Network struct {
	Margin float64

	mu     sync.RWMutex
	adj    map[string]map[string]graph.Edge[string] // Adjacency of the last rebuilt graph
	routes []*Route
	nextID uint64
	cycle  uint64
}

// NewNetwork returns an empty network. A margin <= 1 falls back to DefaultMargin.
func NewNetwork(margin float64) *Network {
	if margin <= 1 {
		margin = DefaultMargin
	}
	return &Network{
		Margin: margin,
		adj:    map[string]map[string]graph.Edge[string]{},
	}
}

type offer struct {
	price float64
	stock int
}

// Rebuild discards every route and scans all ordered pairs of settled bodies.
// Route A->B for a catalog good other than Labour is added when A stocks at
// least one unit and B's price exceeds A's by the margin.
func (n *Network) Rebuild(bodies []*world.Body) {
	// Read each market once, under its own lock.
	books := make(map[*world.Body]map[string]offer, len(bodies))
	var settled []*world.Body
	for _, b := range bodies {
		s := b.Settlement()
		if s == nil {
			continue
		}
		book := map[string]offer{}
		goods := s.Catalog().Tradable()
		s.WithMarket(func(m *economy.Market) {
			for _, good := range goods {
				book[good] = offer{price: m.Price(good), stock: m.Items(good)}
			}
		})
		books[b] = book
		settled = append(settled, b)
	}

	g := graph.New(graph.StringHash, graph.Directed())
	for _, b := range settled {
		_ = g.AddVertex(b.Name)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	var routes []*Route
	for _, a := range settled {
		for _, b := range settled {
			if a == b {
				continue
			}
			var pair []*Route
			for _, good := range sortedGoods(books[a]) {
				oa := books[a][good]
				if oa.stock < 1 {
					continue
				}
				ob, ok := books[b][good]
				if !ok || ob.price <= oa.price*n.Margin {
					continue
				}
				n.nextID++
				pair = append(pair, &Route{ID: n.nextID, Origin: a, Destination: b, Good: good})
			}
			if len(pair) == 0 {
				continue
			}
			if err := g.AddEdge(a.Name, b.Name, graph.EdgeData(pair)); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				slog.Error("trade edge", "origin", a.Name, "destination", b.Name, "error", err)
				continue
			}
			routes = append(routes, pair...)
		}
	}

	adj, err := g.AdjacencyMap()
	if err != nil {
		slog.Error("trade adjacency", "error", err)
		adj = map[string]map[string]graph.Edge[string]{}
	}

	n.adj = adj
	n.routes = routes
	n.cycle++
	slog.Debug("trade network rebuilt", "cycle", n.cycle, "settlements", len(settled), "routes", len(routes))
}

func sortedGoods(book map[string]offer) []string {
	goods := make([]string, 0, len(book))
	for g := range book {
		goods = append(goods, g)
	}
	sort.Strings(goods)
	return goods
}

// RoutesFrom returns the routes leaving the named body, ordered by destination.
func (n *Network) RoutesFrom(origin string) []*Route {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var out []*Route
	for _, dest := range sortedKeys(n.adj[origin]) {
		out = append(out, edgeRoutes(n.adj[origin][dest])...)
	}
	return out
}

// Destinations returns the names of bodies reachable by a route from origin.
func (n *Network) Destinations(origin string) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return sortedKeys(n.adj[origin])
}

// Routes returns every current route in creation order.
func (n *Network) Routes() []*Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]*Route(nil), n.routes...)
}

// Len returns the number of current routes.
func (n *Network) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.routes)
}

// Cycle returns how many times the network has been rebuilt.
func (n *Network) Cycle() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.cycle
}

func edgeRoutes(e graph.Edge[string]) []*Route {
	rs, _ := e.Properties.Data.([]*Route)
	return rs
}

func sortedKeys(m map[string]graph.Edge[string]) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
