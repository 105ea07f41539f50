package domain

import (
	"fmt"
	"slices"
)

const noNeighbor = -1

// Represents one city in the route chain.
// DistanceKm and TravelHours describe the edge to the east neighbor;
// the east-most node carries zero. West and East are indices into the
// owning Topology's node slice, or -1 at the ends of the chain.
type RouteNode struct {
	City        City
	DistanceKm  int
	TravelHours float64
	West        int
	East        int
}

// Leg is the resolved distance and travel time between two cities.
type Leg struct {
	Origin      City
	Destination City
	DistanceKm  int
	TravelHours float64
}

// Topology is an immutable linear chain of RouteNodes ordered by city index.
// Administrative edits produce a new Topology (see WithRoute) so readers
// never observe a half-updated node.
type Topology struct {
	nodes []RouteNode
	index map[City]int
}

// NewTopology links route rows into a chain. Rows may arrive in any order.
// Neighbors are linked only when their city indices are adjacent, so a missing
// city leaves a gap that Resolve reports as ErrInvalidTopology.
func NewTopology(rows []RouteNode) (*Topology, error) {
	nodes := make([]RouteNode, 0, len(rows))
	seen := make(map[City]struct{}, len(rows))
	for _, r := range rows {
		if !r.City.Valid() {
			return nil, fmt.Errorf("new topology: city %d: %w", int(r.City), ErrUnknownCity)
		}
		if _, ok := seen[r.City]; ok {
			return nil, fmt.Errorf("new topology: duplicate node for %s: %w", r.City, ErrInvalidTopology)
		}
		if r.DistanceKm < 0 || r.TravelHours < 0 {
			return nil, fmt.Errorf("new topology: negative edge weight at %s: %w", r.City, ErrInvalidTopology)
		}
		seen[r.City] = struct{}{}
		nodes = append(nodes, RouteNode{City: r.City, DistanceKm: r.DistanceKm, TravelHours: r.TravelHours})
	}

	slices.SortFunc(nodes, func(a, b RouteNode) int { return a.City.Index() - b.City.Index() })

	index := make(map[City]int, len(nodes))
	for i := range nodes {
		index[nodes[i].City] = i
		nodes[i].West = noNeighbor
		nodes[i].East = noNeighbor

		if i > 0 && nodes[i-1].City.Index() == nodes[i].City.Index()-1 {
			nodes[i].West = i - 1
		}
		if i < len(nodes)-1 && nodes[i+1].City.Index() == nodes[i].City.Index()+1 {
			nodes[i].East = i + 1
		}
	}

	return &Topology{nodes: nodes, index: index}, nil
}

// Nodes returns a copy of the chain in west-to-east order.
func (t *Topology) Nodes() []RouteNode {
	return slices.Clone(t.nodes)
}

// Node returns the node for a city.
func (t *Topology) Node(c City) (RouteNode, error) {
	i, ok := t.index[c]
	if !ok {
		return RouteNode{}, fmt.Errorf("route node %s: %w", c, ErrUnknownCity)
	}
	return t.nodes[i], nil
}

// Resolve walks the chain from origin to destination and sums every crossed edge.
// Going east a step from node i adds node i's edge; going west adds the west
// neighbor's edge, so both directions yield the same totals.
func (t *Topology) Resolve(origin, destination City) (Leg, error) {
	start, ok := t.index[origin]
	if !ok {
		return Leg{}, fmt.Errorf("resolve %s -> %s: origin: %w", origin, destination, ErrUnknownCity)
	}
	if _, ok := t.index[destination]; !ok {
		return Leg{}, fmt.Errorf("resolve %s -> %s: destination: %w", origin, destination, ErrUnknownCity)
	}

	leg := Leg{Origin: origin, Destination: destination}
	if origin == destination {
		return leg, nil
	}

	eastbound := destination.Index() > origin.Index()
	cur := start

	// The chain is a simple path, so at most len(nodes)-1 steps are ever needed.
	for steps := 0; t.nodes[cur].City != destination; steps++ {
		if steps >= len(t.nodes) {
			return Leg{}, fmt.Errorf("resolve %s -> %s: traversal did not terminate: %w", origin, destination, ErrInvalidTopology)
		}

		var next int
		if eastbound {
			next = t.nodes[cur].East
			if next == noNeighbor {
				return Leg{}, fmt.Errorf("resolve %s -> %s: no east link from %s: %w", origin, destination, t.nodes[cur].City, ErrInvalidTopology)
			}
			leg.DistanceKm += t.nodes[cur].DistanceKm
			leg.TravelHours += t.nodes[cur].TravelHours
		} else {
			next = t.nodes[cur].West
			if next == noNeighbor {
				return Leg{}, fmt.Errorf("resolve %s -> %s: no west link from %s: %w", origin, destination, t.nodes[cur].City, ErrInvalidTopology)
			}
			leg.DistanceKm += t.nodes[next].DistanceKm
			leg.TravelHours += t.nodes[next].TravelHours
		}
		cur = next
	}

	return leg, nil
}

// WithRoute returns a copy of the topology with one node's edge weights replaced.
func (t *Topology) WithRoute(c City, distanceKm int, travelHours float64) (*Topology, error) {
	i, ok := t.index[c]
	if !ok {
		return nil, fmt.Errorf("update route %s: %w", c, ErrUnknownCity)
	}
	if distanceKm < 0 || travelHours < 0 {
		return nil, fmt.Errorf("update route %s: negative edge weight: %w", c, ErrInvalidTopology)
	}

	nodes := slices.Clone(t.nodes)
	nodes[i].DistanceKm = distanceKm
	nodes[i].TravelHours = travelHours

	return &Topology{nodes: nodes, index: t.index}, nil
}
