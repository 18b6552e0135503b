// Package agent defines the SDK surface presented to planning agents:
// a read-only WorldView, a command-issuing Actions surface, and the
// four lifecycle hooks an agent implements. Agents never touch
// engine/world or engine/command directly — everything they can see
// or do is mediated through this package, which is what lets the
// match controller run them without granting write access to shared
// state.
package agent

import (
	"github.com/1siamBot/rts-engine/engine/catalog"
	"github.com/1siamBot/rts-engine/engine/command"
	"github.com/1siamBot/rts-engine/engine/grid"
	"github.com/1siamBot/rts-engine/engine/pathfind"
	"github.com/1siamBot/rts-engine/engine/world"
)

// UnitInfo is the read-only snapshot of one unit exposed to agents.
type UnitInfo struct {
	ID       uint64
	Type     catalog.UnitType
	Owner    int
	Pos      grid.Pos
	Health   int
	IsBuilt  bool
	Action   world.Action
	CanMove  bool
	CanBuild bool
	CanTrain bool
	CanGather bool
	CanAttack bool
}

func snapshot(u *world.Unit, cat *catalog.Catalog) UnitInfo {
	d := cat.Descriptor(u.Type)
	return UnitInfo{
		ID: u.ID, Type: u.Type, Owner: u.Owner, Pos: u.Pos,
		Health: u.Health, IsBuilt: u.IsBuilt, Action: u.Action,
		CanMove: d.CanMove, CanBuild: d.CanBuild, CanTrain: d.CanTrain,
		CanGather: d.CanGather, CanAttack: d.CanAttack,
	}
}

// WorldView is the read-only window into the simulation an agent sees
// during update/learn. It reads the live World rather than a copy:
// agents are polled one after another within a tick, so the agent
// polled second sees the effects of any commands the first one issued
// earlier in the same tick.
type WorldView struct {
	world *world.World
	graph *pathfind.Graph
	me    int
}

// NewWorldView wraps a World for agent me's perspective.
func NewWorldView(w *world.World, graph *pathfind.Graph, me int) *WorldView {
	return &WorldView{world: w, graph: graph, me: me}
}

// Me returns the owner id this view was built for.
func (v *WorldView) Me() int { return v.me }

// MapSize returns the grid dimensions.
func (v *WorldView) MapSize() (width, height int) {
	return v.world.Grid.Width, v.world.Grid.Height
}

// OwnGold returns the calling agent's own gold balance.
func (v *WorldView) OwnGold() int { return v.world.Gold(v.me) }

// EnemyGold returns another agent's gold balance.
func (v *WorldView) EnemyGold(owner int) int { return v.world.Gold(owner) }

// OwnUnits returns snapshots of the calling agent's live units of a
// given type.
func (v *WorldView) OwnUnits(t catalog.UnitType) []UnitInfo {
	return v.unitsOf(v.me, t)
}

// EnemyUnits returns snapshots of owner's live units of a given type.
func (v *WorldView) EnemyUnits(owner int, t catalog.UnitType) []UnitInfo {
	return v.unitsOf(owner, t)
}

func (v *WorldView) unitsOf(owner int, t catalog.UnitType) []UnitInfo {
	ids := v.world.ByOwnerType(owner, t)
	out := make([]UnitInfo, 0, len(ids))
	for _, id := range ids {
		if u, ok := v.world.Unit(id); ok {
			out = append(out, snapshot(u, v.world.Catalog))
		}
	}
	return out
}

// Mines returns every neutral mine still holding gold.
func (v *WorldView) Mines() []UnitInfo {
	ids := v.world.ByType(catalog.Mine)
	out := make([]UnitInfo, 0, len(ids))
	for _, id := range ids {
		if u, ok := v.world.Unit(id); ok && u.Health > 0 {
			out = append(out, snapshot(u, v.world.Catalog))
		}
	}
	return out
}

// UnitByID returns one unit's snapshot, if it is still live.
func (v *WorldView) UnitByID(id uint64) (UnitInfo, bool) {
	u, ok := v.world.Unit(id)
	if !ok {
		return UnitInfo{}, false
	}
	return snapshot(u, v.world.Catalog), true
}

// IsWalkable reports whether a mobile unit may stand on (x,y).
func (v *WorldView) IsWalkable(x, y int) bool { return v.world.Grid.IsWalkable(x, y) }

// AttackRange returns the attack range, in tiles, for a unit type.
func (v *WorldView) AttackRange(t catalog.UnitType) float64 {
	return v.world.Catalog.Descriptor(t).AttackRange
}

// AreaBuildable reports whether a footprint of type t rooted at
// anchor is in-bounds and buildable, excluding the tiles in exclude.
func (v *WorldView) AreaBuildable(t catalog.UnitType, anchor grid.Pos, exclude map[grid.Pos]bool) bool {
	d := v.world.Catalog.Descriptor(t)
	return v.world.Grid.AreaBuildable(anchor, d.Width, d.Height, exclude)
}

// BoundedAreaBuildable is AreaBuildable plus a one-tile walkable
// clearance border.
func (v *WorldView) BoundedAreaBuildable(t catalog.UnitType, anchor grid.Pos, exclude map[grid.Pos]bool) bool {
	d := v.world.Catalog.Descriptor(t)
	return v.world.Grid.BoundedAreaBuildable(anchor, d.Width, d.Height, exclude)
}

// ProspectiveBuildPositions scans the map for anchors where a
// footprint of type t would be bounded-area-buildable, capped at
// limit results (0 means unlimited). Anchors are returned in
// column-by-column scan order (x outer, y inner), making the result
// deterministic.
func (v *WorldView) ProspectiveBuildPositions(t catalog.UnitType, limit int) []grid.Pos {
	d := v.world.Catalog.Descriptor(t)
	var out []grid.Pos
	for x := 0; x < v.world.Grid.Width; x++ {
		for y := 0; y < v.world.Grid.Height; y++ {
			anchor := grid.Pos{X: x, Y: y}
			if v.world.Grid.BoundedAreaBuildable(anchor, d.Width, d.Height, nil) {
				out = append(out, anchor)
				if limit > 0 && len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}

// PathTo returns the tiles of a path between two tiles, or nil if
// none exists.
func (v *WorldView) PathTo(from, to grid.Pos) []grid.Pos {
	search := pathfind.NewSearch(v.graph)
	path := pathfind.Astar(search, from, to, pathfind.DefaultMaxExpansions)
	return path.Nodes
}

// PathToUnitNeighborhood returns a path from a tile to the first
// reachable walkable neighbor of a unit's footprint, in
// WalkableNeighborsOf's order (not necessarily the nearest one), or
// nil.
func (v *WorldView) PathToUnitNeighborhood(from grid.Pos, targetID uint64) []grid.Pos {
	u, ok := v.world.Unit(targetID)
	if !ok {
		return nil
	}
	d := v.world.Catalog.Descriptor(u.Type)
	search := pathfind.NewSearch(v.graph)
	for _, n := range grid.WalkableNeighborsOf(v.world.Grid, u.Pos, d.Width, d.Height) {
		path := pathfind.Astar(search, from, n, pathfind.DefaultMaxExpansions)
		if path.Outcome == pathfind.OutcomeFound || path.Outcome == pathfind.OutcomeSameNode {
			return path.Nodes
		}
	}
	return nil
}

// Actions is the command-issuing surface an agent calls from update.
// Every call is forwarded to the dispatcher with the agent's own id
// as issuer, so an agent can never act as another agent.
type Actions struct {
	dispatcher *command.Dispatcher
	me         int
	log        []string
}

// NewActions builds an Actions surface for agent me.
func NewActions(d *command.Dispatcher, me int) *Actions {
	return &Actions{dispatcher: d, me: me}
}

// Move issues a MOVE command for unitID.
func (a *Actions) Move(unitID uint64, dest grid.Pos) command.Result {
	return a.record(a.dispatcher.Move(a.me, unitID, dest))
}

// Build issues a BUILD command.
func (a *Actions) Build(workerID uint64, anchor grid.Pos, structureType catalog.UnitType) command.Result {
	return a.record(a.dispatcher.Build(a.me, workerID, anchor, structureType))
}

// Gather issues a GATHER command.
func (a *Actions) Gather(workerID, mineID, baseID uint64) command.Result {
	return a.record(a.dispatcher.Gather(a.me, workerID, mineID, baseID))
}

// Train issues a TRAIN command.
func (a *Actions) Train(structureID uint64, trainType catalog.UnitType) command.Result {
	return a.record(a.dispatcher.Train(a.me, structureID, trainType))
}

// Attack issues an ATTACK command.
func (a *Actions) Attack(attackerID, targetID uint64) command.Result {
	return a.record(a.dispatcher.Attack(a.me, attackerID, targetID))
}

// Log appends a free-form line to the agent's per-round log sink
// (surfaced by the controller as a CSV row; see engine/matchlog).
func (a *Actions) Log(line string) {
	a.log = append(a.log, line)
}

// DrainLog returns and clears everything logged since the last drain.
func (a *Actions) DrainLog() []string {
	lines := a.log
	a.log = nil
	return lines
}

func (a *Actions) record(r command.Result) command.Result {
	if !r.Accepted() {
		a.Log("rejected: " + r.Reason)
	}
	return r
}

// Agent is the interface every planning agent implements. Agents are
// registered statically as Go values: the match controller is handed
// concrete Agent implementations directly, not loaded from file paths
// or plugin binaries.
type Agent interface {
	// InitMatch is called once, before the first round, with no
	// world access — agents use it to reset any persistent learning
	// state carried across the whole match.
	InitMatch()
	// InitRound is called at the start of every round with a fresh
	// WorldView.
	InitRound(view *WorldView)
	// Update is called once per tick with the current WorldView and
	// this agent's Actions surface.
	Update(view *WorldView, actions *Actions)
	// Learn is called at the end of every round, after unit state is
	// torn down, with the final WorldView of that round.
	Learn(view *WorldView)
}
