package grid

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// LoadMap reads a rectangular per-tile buildability map from r, one
// row per line, one byte per cell:
//
//	'#'  blocked:          not walkable, not buildable
//	'.'  open ground:      walkable and buildable
//	'~'  walkable terrain: walkable, not buildable (e.g. rubble)
//
// All rows must have equal width; a ragged map is a load error.
func LoadMap(r io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(r)
	var rows []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("grid: reading map: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid: map has no rows")
	}
	width := len(rows[0])
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("grid: row %d has width %d, want %d", y, len(row), width)
		}
	}

	g := New(width, len(rows))
	for y, row := range rows {
		for x, c := range row {
			switch c {
			case '#':
				g.SetWalkable(x, y, false)
				g.SetBuildable(x, y, false)
			case '.':
				g.SetWalkable(x, y, true)
				g.SetBuildable(x, y, true)
			case '~':
				g.SetWalkable(x, y, true)
				g.SetBuildable(x, y, false)
			default:
				return nil, fmt.Errorf("grid: row %d col %d: unrecognized tile symbol %q", y, x, c)
			}
		}
	}
	return g, nil
}

// LoadMapFile opens path and loads it via LoadMap.
func LoadMapFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("grid: opening %s: %w", path, err)
	}
	defer f.Close()
	return LoadMap(f)
}
