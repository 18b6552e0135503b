package grid

import (
	"strings"
	"testing"
)

func TestLoadMap_ParsesSymbols(t *testing.T) {
	g, err := LoadMap(strings.NewReader("..#\n.~.\n"))
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if g.Width != 3 || g.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", g.Width, g.Height)
	}
	if !g.IsWalkable(0, 0) || !g.IsBuildable(0, 0) {
		t.Fatalf("(0,0) should be open")
	}
	if g.IsWalkable(2, 0) || g.IsBuildable(2, 0) {
		t.Fatalf("(2,0) should be blocked")
	}
	if !g.IsWalkable(1, 1) || g.IsBuildable(1, 1) {
		t.Fatalf("(1,1) should be walkable-only")
	}
}

func TestLoadMap_RaggedRowsRejected(t *testing.T) {
	if _, err := LoadMap(strings.NewReader("...\n..\n")); err == nil {
		t.Fatalf("expected an error for ragged rows")
	}
}

func TestLoadMap_UnknownSymbolRejected(t *testing.T) {
	if _, err := LoadMap(strings.NewReader("..x\n")); err == nil {
		t.Fatalf("expected an error for unknown symbol")
	}
}
