package pathfind

import (
	"testing"

	"github.com/1siamBot/rts-engine/engine/grid"
)

func TestAstar_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(g *grid.Grid)
		start   grid.Pos
		end     grid.Pos
		maxExp  int
		want    Outcome
		wantLen int
	}{
		{
			name:  "same node",
			setup: func(g *grid.Grid) {},
			start: grid.Pos{X: 2, Y: 2}, end: grid.Pos{X: 2, Y: 2},
			maxExp: DefaultMaxExpansions, want: OutcomeSameNode, wantLen: 0,
		},
		{
			name: "end blocked",
			setup: func(g *grid.Grid) {
				g.SetWalkable(4, 4, false)
			},
			start: grid.Pos{X: 0, Y: 0}, end: grid.Pos{X: 4, Y: 4},
			maxExp: DefaultMaxExpansions, want: OutcomeEndBlocked, wantLen: 0,
		},
		{
			name:   "open grid found",
			setup:  func(g *grid.Grid) {},
			start:  grid.Pos{X: 0, Y: 0},
			end:    grid.Pos{X: 4, Y: 4},
			maxExp: DefaultMaxExpansions, want: OutcomeFound,
		},
		{
			name: "around a wall",
			setup: func(g *grid.Grid) {
				for _, y := range []int{1, 2, 3} {
					g.SetWalkable(2, y, false)
				}
			},
			start: grid.Pos{X: 0, Y: 2}, end: grid.Pos{X: 4, Y: 2},
			maxExp: DefaultMaxExpansions, want: OutcomeFound,
		},
		{
			name:   "expansion cap",
			setup:  func(g *grid.Grid) {},
			start:  grid.Pos{X: 0, Y: 0},
			end:    grid.Pos{X: 9, Y: 9},
			maxExp: 1, want: OutcomeCap, wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := 5
			if tt.name == "expansion cap" {
				size = 10
			}
			g := grid.New(size, size)
			tt.setup(g)
			graph := NewGraph(g)
			search := NewSearch(graph)
			path := Astar(search, tt.start, tt.end, tt.maxExp)

			if path.Outcome != tt.want {
				t.Fatalf("outcome = %v, want %v", path.Outcome, tt.want)
			}
			if tt.wantLen > 0 && len(path.Nodes) != tt.wantLen {
				t.Fatalf("len(path) = %d, want %d", len(path.Nodes), tt.wantLen)
			}
			if tt.want == OutcomeFound {
				if len(path.Nodes) == 0 {
					t.Fatalf("found outcome but empty path")
				}
				if path.Nodes[len(path.Nodes)-1] != tt.end {
					t.Fatalf("path does not end at target: %v", path.Nodes)
				}
				for _, p := range path.Nodes {
					if p == tt.start {
						t.Fatalf("path includes start node")
					}
				}
			}
		})
	}
}

func TestAstar_AvoidsWall(t *testing.T) {
	g := grid.New(5, 5)
	wall := map[grid.Pos]bool{{X: 2, Y: 1}: true, {X: 2, Y: 2}: true, {X: 2, Y: 3}: true}
	for p := range wall {
		g.SetWalkable(p.X, p.Y, false)
	}
	search := NewSearch(NewGraph(g))
	path := Astar(search, grid.Pos{X: 0, Y: 2}, grid.Pos{X: 4, Y: 2}, DefaultMaxExpansions)
	if path.Outcome != OutcomeFound {
		t.Fatalf("outcome = %v, want found", path.Outcome)
	}
	for _, p := range path.Nodes {
		if wall[p] {
			t.Fatalf("path passes through wall at %v: %v", p, path.Nodes)
		}
	}
}

func TestAstar_OpenGridOptimal(t *testing.T) {
	g := grid.New(20, 20)
	graph := NewGraph(g)
	search := NewSearch(graph)
	start := grid.Pos{X: 0, Y: 0}
	end := grid.Pos{X: 12, Y: 7}
	path := Astar(search, start, end, DefaultMaxExpansions)
	if path.Outcome != OutcomeFound {
		t.Fatalf("outcome = %v, want found", path.Outcome)
	}
	chebyshev := 12
	if len(path.Nodes) > chebyshev {
		t.Fatalf("path length %d exceeds chebyshev distance %d", len(path.Nodes), chebyshev)
	}
}

func TestAstar_Deterministic(t *testing.T) {
	g := grid.New(15, 15)
	g.SetWalkable(5, 5, false)
	g.SetWalkable(5, 6, false)
	graph := NewGraph(g)
	if !Deterministic(graph, grid.Pos{X: 0, Y: 0}, grid.Pos{X: 14, Y: 14}, DefaultMaxExpansions, 5) {
		t.Fatal("expected identical paths across repeated runs")
	}
}

func TestMinHeap_ChangePriorityNoOpAfterPop(t *testing.T) {
	h := NewMinHeap[string]()
	e := h.Push("a", 5)
	popped := h.Pop()
	if popped != e {
		t.Fatalf("unexpected pop result")
	}
	h.ChangePriority(e, -100) // must not panic or corrupt the (now empty) heap
	if h.Len() != 0 {
		t.Fatalf("heap length = %d, want 0", h.Len())
	}
}

func TestMinHeap_OrdersByPriorityThenInsertion(t *testing.T) {
	h := NewMinHeap[int]()
	h.Push(1, 5)
	h.Push(2, 1)
	h.Push(3, 1)
	h.Push(4, 3)

	var order []int
	for h.Len() > 0 {
		order = append(order, h.Pop().Item)
	}
	want := []int{2, 3, 4, 1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
