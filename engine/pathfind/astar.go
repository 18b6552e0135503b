package pathfind

import (
	"github.com/1siamBot/rts-engine/engine/grid"
)

// Outcome classifies why a search returned the path it did. Tests
// assert on this directly rather than inferring it from path shape.
type Outcome int

const (
	OutcomeSameNode Outcome = iota
	OutcomeFound
	OutcomeEndBlocked
	OutcomeExhausted
	OutcomeCap
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSameNode:
		return "same_node"
	case OutcomeFound:
		return "found"
	case OutcomeEndBlocked:
		return "end_blocked"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeCap:
		return "cap"
	default:
		return "unknown"
	}
}

// DefaultMaxExpansions is the expansion cap used when a caller does
// not need a tighter one.
const DefaultMaxExpansions = 2000

// Path is the result of a search: the nodes after start, in order,
// with end as the last element, or nil if no path was found.
type Path struct {
	Nodes   []grid.Pos
	Outcome Outcome
}

// Empty reports whether the path carries no steps.
func (p Path) Empty() bool { return len(p.Nodes) == 0 }

// Search holds scratch state for one or more A* runs over a Graph.
// State is not safe for concurrent searches; a second search must
// call Reset (or simply runs its own Search) before reusing this one.
type Search struct {
	graph *Graph

	cost    map[grid.Pos]float64
	back    map[grid.Pos]grid.Pos
	handle  map[grid.Pos]*Entry[grid.Pos]
	visited map[grid.Pos]bool
}

// NewSearch creates scratch state bound to a graph.
func NewSearch(g *Graph) *Search {
	s := &Search{graph: g}
	s.Reset()
	return s
}

// Reset clears all per-node scratch (cost, back pointer, heap handle,
// visited set) so the next Astar call starts from a clean slate.
func (s *Search) Reset() {
	s.cost = make(map[grid.Pos]float64)
	s.back = make(map[grid.Pos]grid.Pos)
	s.handle = make(map[grid.Pos]*Entry[grid.Pos])
	s.visited = make(map[grid.Pos]bool)
}

// Astar runs 8-connected A* from start to end, capped at maxExpansions
// popped nodes. It always resets its scratch state first, so the same
// *Search can be reused across independent calls.
func Astar(s *Search, start, end grid.Pos, maxExpansions int) Path {
	s.Reset()

	if start == end {
		return Path{Outcome: OutcomeSameNode}
	}
	if !s.graph.Grid.IsWalkable(end.X, end.Y) {
		return Path{Outcome: OutcomeEndBlocked}
	}

	open := NewMinHeap[grid.Pos]()
	s.cost[start] = 0
	s.handle[start] = open.Push(start, Heuristic(start, end))

	popped := 0
	for open.Len() > 0 {
		entry := open.Pop()
		popped++
		if popped > maxExpansions {
			return Path{Outcome: OutcomeCap}
		}
		cur := entry.Item
		if s.visited[cur] {
			continue
		}
		s.visited[cur] = true

		if cur == end {
			return Path{Nodes: s.reconstruct(start, end), Outcome: OutcomeFound}
		}

		for _, next := range s.graph.Neighbors(cur) {
			if s.visited[next] {
				continue
			}
			// The start node may itself be unwalkable (a unit
			// pathfinding out of a cell it just occupied); every
			// other node must be walkable to be expanded into.
			if next != start && !s.graph.Grid.IsWalkable(next.X, next.Y) {
				continue
			}
			tentative := s.cost[cur] + EdgeCost(cur, next)
			if existing, ok := s.cost[next]; ok && tentative >= existing {
				continue
			}
			s.cost[next] = tentative
			s.back[next] = cur
			priority := tentative + Heuristic(next, end)
			if h, ok := s.handle[next]; ok {
				open.ChangePriority(h, priority)
			} else {
				s.handle[next] = open.Push(next, priority)
			}
		}
	}
	return Path{Outcome: OutcomeExhausted}
}

func (s *Search) reconstruct(start, end grid.Pos) []grid.Pos {
	var rev []grid.Pos
	cur := end
	for cur != start {
		rev = append(rev, cur)
		prev, ok := s.back[cur]
		if !ok {
			break
		}
		cur = prev
	}
	nodes := make([]grid.Pos, len(rev))
	for i, p := range rev {
		nodes[len(rev)-1-i] = p
	}
	return nodes
}

// Deterministic runs Astar n times with identical inputs on a fresh
// Search each time and reports whether every run produced the same
// path — used by tests to exercise the determinism property.
func Deterministic(g *Graph, start, end grid.Pos, maxExpansions, n int) bool {
	if n <= 1 {
		return true
	}
	first := Astar(NewSearch(g), start, end, maxExpansions)
	for i := 1; i < n; i++ {
		next := Astar(NewSearch(g), start, end, maxExpansions)
		if next.Outcome != first.Outcome || len(next.Nodes) != len(first.Nodes) {
			return false
		}
		for j := range first.Nodes {
			if next.Nodes[j] != first.Nodes[j] {
				return false
			}
		}
	}
	return true
}
