// Package grid implements the tile grid and occupancy model: a dense
// 2D array of cells with independently toggleable walkable/buildable
// flags, plus the area predicates the build pipeline commits against.
package grid

// Pos is an integer tile coordinate.
type Pos struct{ X, Y int }

// Cell is a single map tile. Walkable and Buildable are independent:
// a moving unit clears Buildable but leaves Walkable set; a structure
// or mine clears both.
type Cell struct {
	Walkable  bool
	Buildable bool
}

// Grid is a dense, fixed-size array of cells.
type Grid struct {
	Width, Height int
	cells         []Cell
}

// New creates a Grid of the given dimensions with every cell walkable
// and buildable.
func New(width, height int) *Grid {
	g := &Grid{Width: width, Height: height, cells: make([]Cell, width*height)}
	for i := range g.cells {
		g.cells[i] = Cell{Walkable: true, Buildable: true}
	}
	return g
}

// InBounds reports whether (x,y) is within the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

func (g *Grid) at(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.cells[y*g.Width+x]
}

// IsWalkable reports whether a mobile unit may stand on (x,y).
// Out-of-range coordinates are never walkable.
func (g *Grid) IsWalkable(x, y int) bool {
	c := g.at(x, y)
	return c != nil && c.Walkable
}

// IsBuildable reports whether a structure may anchor a footprint
// tile at (x,y). Out-of-range coordinates are never buildable.
func (g *Grid) IsBuildable(x, y int) bool {
	c := g.at(x, y)
	return c != nil && c.Buildable
}

// SetWalkable toggles the walkable flag of (x,y). Out-of-bounds is a
// silent no-op.
func (g *Grid) SetWalkable(x, y int, walkable bool) {
	if c := g.at(x, y); c != nil {
		c.Walkable = walkable
	}
}

// SetBuildable toggles the buildable flag of (x,y). Out-of-bounds is a
// silent no-op.
func (g *Grid) SetBuildable(x, y int, buildable bool) {
	if c := g.at(x, y); c != nil {
		c.Buildable = buildable
	}
}

// Footprint returns every tile covered by a footprint of size (w,h)
// rooted at anchor, offsets (i, j) for i in [0,w), j in [0,h): tiles
// grow down and to the right of anchor in grid-index space, the only
// orientation consistent with a dense, zero-based row-major grid.
func Footprint(anchor Pos, w, h int) []Pos {
	tiles := make([]Pos, 0, w*h)
	for i := 0; i < w; i++ {
		for j := 0; j < h; j++ {
			tiles = append(tiles, Pos{X: anchor.X + i, Y: anchor.Y + j})
		}
	}
	return tiles
}

// AreaBuildable reports whether every tile of a (w,h) footprint
// rooted at anchor is in-bounds and buildable. Tiles present in
// exclude are treated as buildable regardless of their actual flag,
// so a builder can exclude its own occupied cell from the check.
func (g *Grid) AreaBuildable(anchor Pos, w, h int, exclude map[Pos]bool) bool {
	for _, p := range Footprint(anchor, w, h) {
		if exclude != nil && exclude[p] {
			continue
		}
		if !g.InBounds(p.X, p.Y) || !g.IsBuildable(p.X, p.Y) {
			return false
		}
	}
	return true
}

// BoundedAreaBuildable is AreaBuildable plus a one-tile walkable
// border around the footprint, for sites that must leave clearance
// for a worker to stand next to the finished structure.
func (g *Grid) BoundedAreaBuildable(anchor Pos, w, h int, exclude map[Pos]bool) bool {
	if !g.AreaBuildable(anchor, w, h, exclude) {
		return false
	}
	for x := anchor.X - 1; x <= anchor.X+w; x++ {
		for y := anchor.Y - 1; y <= anchor.Y+h; y++ {
			inFootprint := x >= anchor.X && x < anchor.X+w && y >= anchor.Y && y < anchor.Y+h
			if inFootprint {
				continue
			}
			if exclude != nil && exclude[Pos{X: x, Y: y}] {
				continue
			}
			if !g.InBounds(x, y) || !g.IsWalkable(x, y) {
				return false
			}
		}
	}
	return true
}

// SetAreaBuildability sets the Buildable flag on every tile of a
// (w,h) footprint rooted at anchor, skipping out-of-bounds tiles.
func (g *Grid) SetAreaBuildability(anchor Pos, w, h int, buildable bool) {
	for _, p := range Footprint(anchor, w, h) {
		g.SetBuildable(p.X, p.Y, buildable)
	}
}

// SetAreaWalkability sets the Walkable flag on every tile of a (w,h)
// footprint rooted at anchor, skipping out-of-bounds tiles.
func (g *Grid) SetAreaWalkability(anchor Pos, w, h int, walkable bool) {
	for _, p := range Footprint(anchor, w, h) {
		g.SetWalkable(p.X, p.Y, walkable)
	}
}

// WalkableNeighborsOf returns the walkable 8-connected neighbors of
// every tile in a footprint that are not themselves part of the
// footprint — the candidate set a worker or trainee can stand on
// while adjacent to a structure.
func WalkableNeighborsOf(g *Grid, anchor Pos, w, h int) []Pos {
	footprint := Footprint(anchor, w, h)
	inFootprint := make(map[Pos]bool, w*h)
	for _, p := range footprint {
		inFootprint[p] = true
	}
	// Iterate the footprint and each tile's directions in fixed order
	// (not map range) so callers that pick "the first candidate" — the
	// training spawn-cell policy — get a deterministic, reproducible
	// choice.
	seen := make(map[Pos]bool)
	var out []Pos
	for _, p := range footprint {
		for _, d := range eightDirs {
			n := Pos{X: p.X + d.X, Y: p.Y + d.Y}
			if inFootprint[n] || seen[n] {
				continue
			}
			if g.IsWalkable(n.X, n.Y) {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

var eightDirs = [8]Pos{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}
