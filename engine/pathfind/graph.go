// Package pathfind implements the 8-connected weighted graph over the
// tile grid and the A* search that mediates every MOVE/BUILD/GATHER/
// ATTACK step that needs a route.
package pathfind

import (
	"math"

	"github.com/1siamBot/rts-engine/engine/grid"
)

// Graph is the 8-connected graph over a Grid: one node per cell, an
// edge to each of its 8 neighbors weighted by Euclidean distance
// between tile centers (1 or sqrt2). Edges exist regardless of
// walkability — walkability is a search-time filter, not part of the
// graph's structure.
type Graph struct {
	Grid *grid.Grid
}

// NewGraph builds the graph for a grid. Construction is O(1): there
// is no adjacency list to materialize, since edge weights are a pure
// function of coordinates.
func NewGraph(g *grid.Grid) *Graph {
	return &Graph{Grid: g}
}

var eightDirs = [8]grid.Pos{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}

// Neighbors returns the in-bounds 8-connected neighbors of p. Walkability
// is not consulted here; callers filter during search.
func (gr *Graph) Neighbors(p grid.Pos) []grid.Pos {
	out := make([]grid.Pos, 0, 8)
	for _, d := range eightDirs {
		n := grid.Pos{X: p.X + d.X, Y: p.Y + d.Y}
		if gr.Grid.InBounds(n.X, n.Y) {
			out = append(out, n)
		}
	}
	return out
}

// EdgeCost returns the Euclidean distance between the centers of two
// adjacent tiles: 1 for an orthogonal step, sqrt(2) for a diagonal
// one.
func EdgeCost(a, b grid.Pos) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Heuristic is the straight-line Euclidean distance from a to b. It
// never overestimates the true 8-connected path cost (Euclidean <=
// octile), so A* built on it always returns an optimal path.
func Heuristic(a, b grid.Pos) float64 {
	return EdgeCost(a, b)
}
