// Package unit implements the per-unit task state machine: the
// MOVE/BUILD/GATHER/TRAIN/ATTACK pipelines that advance one tick at a
// time over the registry in engine/world. It is the systems layer
// that turns committed commands (engine/command) into physical
// movement, construction, extraction, production, and combat.
package unit

import (
	"github.com/1siamBot/rts-engine/engine/catalog"
	"github.com/1siamBot/rts-engine/engine/grid"
	"github.com/1siamBot/rts-engine/engine/pathfind"
	"github.com/1siamBot/rts-engine/engine/world"
)

// moveEpsilon is the "remaining distance" threshold below which a
// unit is considered to have arrived at the next path tile.
const moveEpsilon = 1e-6

// DefaultRepathRetryBudget is the number of consecutive re-plan
// failures tolerated before a blocked mover gives up and returns to
// IDLE.
const DefaultRepathRetryBudget = 3

// Engine advances the unit state machine for one World. It holds one
// pathfinding Search that every Astar call it makes reuses; Astar
// resets that Search, re-creating its per-search maps, at the start of
// each call.
type Engine struct {
	World             *world.World
	Graph             *pathfind.Graph
	Search            *pathfind.Search
	MaxExpansions     int
	RepathRetryBudget int
}

// NewEngine builds an Engine over w. maxExpansions <= 0 defaults to
// pathfind.DefaultMaxExpansions; repathBudget <= 0 defaults to
// DefaultRepathRetryBudget.
func NewEngine(w *world.World, maxExpansions, repathBudget int) *Engine {
	if maxExpansions <= 0 {
		maxExpansions = pathfind.DefaultMaxExpansions
	}
	if repathBudget <= 0 {
		repathBudget = DefaultRepathRetryBudget
	}
	graph := pathfind.NewGraph(w.Grid)
	return &Engine{
		World:             w,
		Graph:             graph,
		Search:            pathfind.NewSearch(graph),
		MaxExpansions:     maxExpansions,
		RepathRetryBudget: repathBudget,
	}
}

// AdvanceAll steps every live unit's state machine once, in ascending
// id order, then flushes deferred destructions so the next tick
// starts from a clean registry.
func (e *Engine) AdvanceAll(dt float64) {
	for _, id := range e.World.AllIDsOrdered() {
		u, ok := e.World.Unit(id)
		if !ok {
			continue
		}
		e.Advance(u, dt)
	}
	e.World.FlushDestructions()
}

// Advance steps a single unit's state machine by dt simulated
// seconds.
func (e *Engine) Advance(u *world.Unit, dt float64) {
	switch u.Action {
	case world.Idle:
		// Nothing to do.
	case world.Move:
		e.advanceMove(u, dt)
	case world.Build:
		e.advanceBuild(u, dt)
	case world.Gather:
		e.advanceGather(u, dt)
	case world.Train:
		e.advanceTrain(u, dt)
	case world.Attack:
		e.advanceAttack(u, dt)
	}
}

// StartMove computes a path from u's current tile to dest and, on
// success, sets action=MOVE with the path remainder. It returns false
// (leaving u's action and path unchanged) if dest equals u's current
// tile or no path exists
// — the dispatcher does not debit anything for MOVE, so a false
// return needs no rollback.
func (e *Engine) StartMove(u *world.Unit, dest grid.Pos) bool {
	if u.Pos == dest {
		return false
	}
	if !e.computePath(u, dest) {
		return false
	}
	u.Action = world.Move
	u.RepathFailures = 0
	return true
}

// computePath runs Astar from u's current tile to dest and, on a
// found (or same-node) outcome, installs the result as u's active
// path. It does not touch u.Action or u.RepathFailures.
func (e *Engine) computePath(u *world.Unit, dest grid.Pos) bool {
	path := pathfind.Astar(e.Search, u.Pos, dest, e.MaxExpansions)
	switch path.Outcome {
	case pathfind.OutcomeFound, pathfind.OutcomeSameNode:
		u.Path = path.Nodes
		u.Dest = dest
		u.MoveProgress = 0
		return true
	default:
		return false
	}
}

// startMoveToNeighbor paths u to the first walkable neighbor of
// target's footprint that is reachable, in WalkableNeighborsOf's
// deterministic iteration order — the same first-candidate policy
// used uniformly by every neighbor-seeking movement leg.
func (e *Engine) startMoveToNeighbor(u *world.Unit, target *world.Unit) bool {
	d := e.World.Catalog.Descriptor(target.Type)
	for _, n := range grid.WalkableNeighborsOf(e.World.Grid, target.Pos, d.Width, d.Height) {
		if e.computePath(u, n) {
			u.RepathFailures = 0
			return true
		}
	}
	return false
}

// StartBuild commits worker to constructing structure (already placed
// unbuilt by the caller): the worker paths to a walkable neighbor of
// the footprint and enters BUILD/TO_POSITION. It returns false (and
// leaves worker untouched) if no such neighbor is reachable — callers
// must treat that as "path not found at commit" and roll back any
// gold debit and the structure placement itself.
func (e *Engine) StartBuild(worker, structure *world.Unit) bool {
	saveStructureID, saveType, savePhase := worker.StructureID, worker.StructureType, worker.BuildPhase
	worker.StructureID = structure.ID
	worker.StructureType = structure.Type
	worker.BuildPhase = world.ToPosition
	if !e.startMoveToNeighbor(worker, structure) {
		worker.StructureID, worker.StructureType, worker.BuildPhase = saveStructureID, saveType, savePhase
		return false
	}
	worker.Action = world.Build
	worker.Timer = e.World.Catalog.CreationTime[structure.Type]
	return true
}

// StartGather commits worker to a TO_MINE/MINING/TO_BASE gather loop
// between mine and base. It returns false (leaving worker untouched)
// if no path exists to a neighbor of the mine.
func (e *Engine) StartGather(worker, mine, base *world.Unit) bool {
	saveMine, saveBase := worker.MineID, worker.BaseID
	savePhase, saveCarried := worker.GatherPhase, worker.CarriedGold
	worker.MineID = mine.ID
	worker.BaseID = base.ID
	worker.GatherPhase = world.ToMine
	worker.CarriedGold = 0
	if !e.startMoveToNeighbor(worker, mine) {
		worker.MineID, worker.BaseID = saveMine, saveBase
		worker.GatherPhase, worker.CarriedGold = savePhase, saveCarried
		return false
	}
	worker.Action = world.Gather
	return true
}

// StartTrain commits structure to producing trainType. Callers have
// already validated preconditions and debited gold.
func (e *Engine) StartTrain(structure *world.Unit, trainType catalog.UnitType) {
	structure.Action = world.Train
	structure.TrainType = trainType
	structure.Timer = e.World.Catalog.CreationTime[trainType]
}

// StartAttack commits attacker to engaging target. Range is re-tested
// every tick by advanceAttack; no path is precomputed at commit.
func (e *Engine) StartAttack(attacker, target *world.Unit) {
	attacker.Action = world.Attack
	attacker.TargetID = target.ID
	attacker.Timer = 0
	attacker.Path = nil
}

// stepMoveLeg advances u one tick along its current Path. arrived is
// true once the path is consumed (including immediately, if it was
// already empty); abandoned is true once a blocked next tile has
// failed to re-plan on more than RepathRetryBudget consecutive ticks,
// in which case the caller must return u to IDLE.
func (e *Engine) stepMoveLeg(u *world.Unit, dt float64) (arrived, abandoned bool) {
	if len(u.Path) == 0 {
		return true, false
	}
	next := u.Path[0]
	if !e.World.Grid.IsWalkable(next.X, next.Y) {
		if e.computePath(u, u.Dest) {
			u.RepathFailures = 0
			return false, false
		}
		u.RepathFailures++
		if u.RepathFailures > e.RepathRetryBudget {
			u.Path = nil
			return false, true
		}
		return false, false
	}

	speed := e.World.Catalog.MovingSpeed[u.Type]
	edge := pathfind.EdgeCost(u.Pos, next)
	if edge == 0 {
		edge = 1
	}
	u.MoveProgress += speed * dt
	if u.MoveProgress+moveEpsilon < edge {
		return false, false
	}
	e.World.RelocateUnit(u, next)
	u.Path = u.Path[1:]
	u.MoveProgress = 0
	return len(u.Path) == 0, false
}

func (e *Engine) advanceMove(u *world.Unit, dt float64) {
	if len(u.Path) == 0 {
		u.Action = world.Idle
		return
	}
	arrived, abandoned := e.stepMoveLeg(u, dt)
	if abandoned || arrived {
		u.Action = world.Idle
	}
}

func (e *Engine) advanceBuild(u *world.Unit, dt float64) {
	switch u.BuildPhase {
	case world.ToPosition:
		arrived, abandoned := e.stepMoveLeg(u, dt)
		if abandoned {
			u.Action = world.Idle
			return
		}
		if arrived {
			u.BuildPhase = world.Building
		}
	case world.Building:
		structure, ok := e.World.Unit(u.StructureID)
		if !ok {
			u.Action = world.Idle
			return
		}
		u.Timer -= dt
		if u.Timer <= 0 {
			structure.IsBuilt = true
			u.Action = world.Idle
		}
	}
}

func (e *Engine) advanceGather(u *world.Unit, dt float64) {
	switch u.GatherPhase {
	case world.ToMine:
		mine, ok := e.World.Unit(u.MineID)
		if !ok || mine.Health <= 0 {
			u.Action = world.Idle
			return
		}
		arrived, abandoned := e.stepMoveLeg(u, dt)
		if abandoned {
			u.Action = world.Idle
			return
		}
		if arrived {
			u.GatherPhase = world.Mining
			u.Timer = e.World.Catalog.MiningTime
		}

	case world.Mining:
		mine, ok := e.World.Unit(u.MineID)
		if !ok || mine.Health <= 0 {
			u.Action = world.Idle
			return
		}
		u.Timer -= dt
		if u.Timer > 0 {
			return
		}
		capacity := e.World.Catalog.Descriptor(u.Type).MiningCapacity
		extracted := capacity
		if extracted > mine.Health {
			extracted = mine.Health
		}
		mine.Health -= extracted
		carried := float64(extracted)
		if e.World.HasBuilt(u.Owner, catalog.Refinery) {
			carried *= catalog.MiningBoost
		}
		u.CarriedGold = int(carried)
		u.GatherPhase = world.ToBase

		base, ok := e.World.Unit(u.BaseID)
		if !ok || !e.startMoveToNeighbor(u, base) {
			u.Action = world.Idle
		}

	case world.ToBase:
		base, ok := e.World.Unit(u.BaseID)
		if !ok || base.Health <= 0 {
			u.Action = world.Idle
			return
		}
		arrived, abandoned := e.stepMoveLeg(u, dt)
		if abandoned {
			u.Action = world.Idle
			return
		}
		if !arrived {
			return
		}
		e.World.CreditGold(u.Owner, u.CarriedGold)
		u.CarriedGold = 0

		mine, mineOK := e.World.Unit(u.MineID)
		if !mineOK || mine.Health <= 0 {
			u.Action = world.Idle
			return
		}
		u.GatherPhase = world.ToMine
		if !e.startMoveToNeighbor(u, mine) {
			u.Action = world.Idle
		}
	}
}

func (e *Engine) advanceTrain(u *world.Unit, dt float64) {
	u.Timer -= dt
	if u.Timer > 0 {
		return
	}
	u.Timer = 0 // held at zero until a spawn cell frees

	d := e.World.Catalog.Descriptor(u.Type)
	var spawnAt grid.Pos
	found := false
	for _, n := range grid.WalkableNeighborsOf(e.World.Grid, u.Pos, d.Width, d.Height) {
		// Buildable, not just walkable: a mobile unit standing on a tile
		// leaves it walkable but clears buildable, so this also rules
		// out spawning a trainee stacked on another unit.
		if e.World.Grid.IsBuildable(n.X, n.Y) {
			spawnAt = n
			found = true
			break
		}
	}
	if !found {
		// No free neighbor yet: stays in TRAIN, timer held, retried next tick.
		return
	}
	spawned := e.World.Place(u.TrainType, u.Owner, spawnAt)
	spawned.Action = world.Idle
	u.Action = world.Idle
	u.TrainType = 0
}

func (e *Engine) advanceAttack(u *world.Unit, dt float64) {
	target, ok := e.World.Unit(u.TargetID)
	if !ok || target.Health <= 0 {
		u.Action = world.Idle
		return
	}
	rng := e.World.Catalog.Descriptor(u.Type).AttackRange
	if pathfind.EdgeCost(u.Pos, target.Pos) <= rng {
		u.Timer -= dt
		if u.Timer <= 0 {
			dmg := int(e.World.Catalog.Damage[u.Type])
			target.Health -= dmg
			u.Timer = attackCooldown
			if target.Health <= 0 {
				e.World.Destroy(target.ID)
			}
		}
		return
	}

	// Out of range: take one MOVE step toward a walkable neighbor of
	// the target, re-testing range next tick.
	if len(u.Path) == 0 {
		if !e.startMoveToNeighbor(u, target) {
			return
		}
	}
	_, abandoned := e.stepMoveLeg(u, dt)
	if abandoned {
		u.Path = nil
	}
}

// attackCooldown is the fixed per-attack timer, analogous to
// mining's cycle timer: spec names damage[attacker] per "timer
// elapse" but leaves the cooldown duration itself to the
// implementation. One second is the simplest fixed cadence and keeps
// damage[type] (already scaled by game_speed) directly interpretable
// as "damage per second".
const attackCooldown = 1.0
