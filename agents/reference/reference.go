// Package reference implements a baseline planning agent exercising
// the full engine/agent SDK surface: a build order, a production
// queue, and periodic attack waves, over this engine's closed
// unit-type set (no tech tree, no factions, no power/fog systems).
package reference

import (
	"math"
	"math/rand"

	"github.com/1siamBot/rts-engine/engine/agent"
	"github.com/1siamBot/rts-engine/engine/catalog"
	"github.com/1siamBot/rts-engine/engine/grid"
	"github.com/1siamBot/rts-engine/engine/world"
)

// Difficulty scales how often the agent re-plans and how often it
// launches attacks.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Agent is a scripted build-order-then-attack planner. It holds no
// state that must survive InitMatch: InitMatch resets waveCount and
// every timer, so the agent carries nothing across matches.
type Agent struct {
	Difficulty Difficulty
	Rng        *rand.Rand

	thinkInterval float64
	attackInterval float64
	tickTimer     float64
	attackTimer   float64
	waveCount     int

	baseID, barracksID, refineryID uint64
	haveBase, haveBarracks, haveRefinery bool
}

// New builds a reference agent at the given difficulty. rng drives
// the attack-wave target jitter only; pass a seeded source for
// reproducible matches.
func New(diff Difficulty, rng *rand.Rand) *Agent {
	a := &Agent{Difficulty: diff, Rng: rng}
	a.resetTimers()
	return a
}

func (a *Agent) resetTimers() {
	switch a.Difficulty {
	case Easy:
		a.thinkInterval, a.attackInterval = 8.0, 60.0
	case Hard:
		a.thinkInterval, a.attackInterval = 3.0, 30.0
	default:
		a.thinkInterval, a.attackInterval = 5.0, 45.0
	}
	a.tickTimer, a.attackTimer, a.waveCount = 0, 0, 0
}

func (a *Agent) InitMatch() {
	a.resetTimers()
}

func (a *Agent) InitRound(view *agent.WorldView) {
	a.haveBase, a.haveBarracks, a.haveRefinery = false, false, false
	a.baseID, a.barracksID, a.refineryID = 0, 0, 0
}

// Update is called once per simulated tick. The agent SDK withholds
// dt from agents — they only see the read-only world snapshot — so
// thinkInterval/attackInterval here count ticks rather than seconds.
func (a *Agent) Update(view *agent.WorldView, actions *agent.Actions) {
	a.refreshStructures(view)

	a.tickTimer++
	if a.tickTimer >= a.thinkInterval {
		a.tickTimer = 0

		workers := view.OwnUnits(catalog.Worker)
		if idleWorker, ok := firstIdle(workers); ok {
			a.planConstruction(view, actions, idleWorker.ID)
			a.planGathering(view, actions, idleWorker.ID)
		}

		a.planProduction(view, actions)
	}

	a.planAttack(view, actions)
}

func (a *Agent) Learn(view *agent.WorldView) {}

func (a *Agent) refreshStructures(view *agent.WorldView) {
	if !a.haveBase {
		if bases := view.OwnUnits(catalog.Base); len(bases) > 0 {
			a.haveBase, a.baseID = true, bases[0].ID
		}
	}
	if !a.haveBarracks {
		if bs := view.OwnUnits(catalog.Barracks); len(bs) > 0 {
			a.haveBarracks, a.barracksID = true, bs[0].ID
		}
	}
	if !a.haveRefinery {
		if rs := view.OwnUnits(catalog.Refinery); len(rs) > 0 {
			a.haveRefinery, a.refineryID = true, rs[0].ID
		}
	}
}

// planConstruction follows a fixed build order — Base, then Barracks,
// then Refinery — one outstanding build at a time.
func (a *Agent) planConstruction(view *agent.WorldView, actions *agent.Actions, workerID uint64) {
	var next catalog.UnitType
	switch {
	case !a.haveBase:
		next = catalog.Base
	case !a.haveBarracks:
		next = catalog.Barracks
	case !a.haveRefinery:
		next = catalog.Refinery
	default:
		return
	}

	anchors := view.ProspectiveBuildPositions(next, 1)
	if len(anchors) == 0 {
		return
	}
	actions.Build(workerID, anchors[0], next)
}

// planGathering assigns an idle worker to the nearest mine once a
// base exists, so gold income starts as soon as it can.
func (a *Agent) planGathering(view *agent.WorldView, actions *agent.Actions, workerID uint64) {
	if !a.haveBase {
		return
	}
	mines := view.Mines()
	if len(mines) == 0 {
		return
	}
	worker, ok := view.UnitByID(workerID)
	if !ok {
		return
	}
	nearest := mines[0]
	best := distance(worker.Pos, nearest.Pos)
	for _, m := range mines[1:] {
		if d := distance(worker.Pos, m.Pos); d < best {
			nearest, best = m, d
		}
	}
	actions.Gather(workerID, nearest.ID, a.baseID)
}

// planProduction queues one unit per idle production structure,
// preferring a worker from the base until a second worker exists,
// then combat units from the barracks.
func (a *Agent) planProduction(view *agent.WorldView, actions *agent.Actions) {
	if a.haveBase {
		if workers := view.OwnUnits(catalog.Worker); len(workers) < 2 {
			if base, ok := view.UnitByID(a.baseID); ok && base.Action == world.Idle {
				actions.Train(a.baseID, catalog.Worker)
			}
		}
	}
	if !a.haveBarracks {
		return
	}
	barracks, ok := view.UnitByID(a.barracksID)
	if !ok || barracks.Action != world.Idle {
		return
	}
	want := catalog.Soldier
	if a.haveRefinery && view.OwnGold() >= 125 {
		want = catalog.Archer
	}
	actions.Train(a.barracksID, want)
}

// planAttack sends every idle combat unit at the nearest enemy every
// attackInterval ticks once at least three combat units are alive: a
// unit already in range attacks directly, otherwise it closes in on a
// jittered point near the target so a wave doesn't collapse onto one
// tile.
func (a *Agent) planAttack(view *agent.WorldView, actions *agent.Actions) {
	a.attackTimer++
	combat := append(append([]agent.UnitInfo{}, view.OwnUnits(catalog.Soldier)...), view.OwnUnits(catalog.Archer)...)
	if len(combat) < 3 {
		return
	}
	if a.attackTimer < a.attackInterval {
		return
	}
	a.attackTimer = 0
	a.waveCount++

	target, ok := a.nearestEnemy(view, combat[0].Pos)
	if !ok {
		return
	}
	for _, u := range combat {
		if u.Action != world.Idle {
			continue
		}
		if distance(u.Pos, target.Pos) <= view.AttackRange(u.Type) {
			actions.Attack(u.ID, target.ID)
			continue
		}
		jitterX, jitterY := 0, 0
		if a.Rng != nil {
			jitterX, jitterY = a.Rng.Intn(5)-2, a.Rng.Intn(5)-2
		}
		dest := grid.Pos{X: target.Pos.X + jitterX, Y: target.Pos.Y + jitterY}
		actions.Move(u.ID, dest)
	}
}

func (a *Agent) nearestEnemy(view *agent.WorldView, from grid.Pos) (agent.UnitInfo, bool) {
	var best agent.UnitInfo
	bestDist := math.MaxFloat64
	found := false
	for owner := 0; owner < 2; owner++ {
		if owner == view.Me() {
			continue
		}
		for _, t := range catalog.NonMineTypes {
			for _, u := range view.EnemyUnits(owner, t) {
				if d := distance(from, u.Pos); d < bestDist {
					best, bestDist, found = u, d, true
				}
			}
		}
	}
	return best, found
}

func firstIdle(units []agent.UnitInfo) (agent.UnitInfo, bool) {
	for _, u := range units {
		if u.Action == world.Idle {
			return u, true
		}
	}
	return agent.UnitInfo{}, false
}

func distance(a, b grid.Pos) float64 {
	dx, dy := float64(a.X-b.X), float64(a.Y-b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
