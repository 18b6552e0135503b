package unit

import (
	"testing"

	"github.com/1siamBot/rts-engine/engine/catalog"
	"github.com/1siamBot/rts-engine/engine/grid"
	"github.com/1siamBot/rts-engine/engine/world"
)

func newTestEngine(size, gameSpeed int) (*Engine, *world.World) {
	g := grid.New(size, size)
	c := catalog.New(gameSpeed)
	w := world.New(g, c)
	return NewEngine(w, 0, 0), w
}

func runTicks(e *Engine, n int, dt float64) {
	for i := 0; i < n; i++ {
		e.AdvanceAll(dt)
	}
}

func TestTrain_HappyPath(t *testing.T) {
	e, w := newTestEngine(20, 20)
	w.SetGold(0, 1000)
	base := w.Place(catalog.Base, 0, grid.Pos{X: 10, Y: 10})

	cost := w.Catalog.Descriptor(catalog.Worker).Cost
	w.DebitGold(0, cost)
	e.StartTrain(base, catalog.Worker)

	runTicks(e, 50, 0.01) // 0.5s simulated >> 0.1s creation_time at speed 20

	if base.Action != world.Idle {
		t.Fatalf("base action = %v, want IDLE", base.Action)
	}
	if got := w.Gold(0); got != 950 {
		t.Fatalf("gold = %d, want 950", got)
	}
	workers := w.ByOwnerType(0, catalog.Worker)
	if len(workers) != 1 {
		t.Fatalf("worker count = %d, want 1", len(workers))
	}
	nw, ok := w.Unit(workers[0])
	if !ok || nw.Action != world.Idle {
		t.Fatalf("new worker not idle: %+v ok=%v", nw, ok)
	}
	dx, dy := nw.Pos.X-base.Pos.X, nw.Pos.Y-base.Pos.Y
	if dx < -1 || dx > 3 || dy < -1 || dy > 3 {
		t.Fatalf("spawned worker at %v not adjacent to base at %v", nw.Pos, base.Pos)
	}
}

func TestBuild_RejectedInsufficientGold_NeverStarted(t *testing.T) {
	_, w := newTestEngine(20, 20)
	w.SetGold(0, 10)
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 9, Y: 10})

	cost := w.Catalog.Descriptor(catalog.Base).Cost
	if w.Gold(0) >= cost {
		t.Fatalf("test setup invalid: gold %d >= cost %d", w.Gold(0), cost)
	}
	// Dispatcher-level rejection: no Place, no StartBuild call at all.
	if worker.Action != world.Idle {
		t.Fatalf("worker action = %v, want IDLE", worker.Action)
	}
	if len(w.ByType(catalog.Base)) != 0 {
		t.Fatalf("a BASE exists despite rejected build")
	}
	if w.Gold(0) != 10 {
		t.Fatalf("gold = %d, want 10", w.Gold(0))
	}
}

func TestBuild_CompletesAndFreesWorker(t *testing.T) {
	e, w := newTestEngine(20, 20)
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 9, Y: 10})
	structure := w.PlaceUnbuilt(catalog.Base, 0, grid.Pos{X: 10, Y: 10})

	if !e.StartBuild(worker, structure) {
		t.Fatalf("StartBuild failed to find a path")
	}
	if worker.Action != world.Build {
		t.Fatalf("worker action = %v, want BUILD", worker.Action)
	}

	runTicks(e, 200, 0.01)

	if !structure.IsBuilt {
		t.Fatalf("structure never completed construction")
	}
	if worker.Action != world.Idle {
		t.Fatalf("worker action = %v, want IDLE after build completes", worker.Action)
	}
}

func TestBuild_StructureDestroyedMidBuild_WorkerReturnsIdle(t *testing.T) {
	e, w := newTestEngine(20, 20)
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 9, Y: 10})
	structure := w.PlaceUnbuilt(catalog.Base, 0, grid.Pos{X: 10, Y: 10})
	if !e.StartBuild(worker, structure) {
		t.Fatalf("StartBuild failed")
	}
	runTicks(e, 5, 0.01) // get the worker moving/arrived, but not yet complete
	w.Destroy(structure.ID)
	w.FlushDestructions()

	runTicks(e, 5, 0.01)
	if worker.Action != world.Idle {
		t.Fatalf("worker action = %v, want IDLE after structure destroyed", worker.Action)
	}
}

func TestGather_OneCycleCreditsExactCapacity(t *testing.T) {
	e, w := newTestEngine(20, 20)
	base := w.Place(catalog.Base, 0, grid.Pos{X: 5, Y: 5})
	mine := w.Place(catalog.Mine, -1, grid.Pos{X: 15, Y: 5})
	mine.Health = 10000
	mine.MaxHealth = 10000
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 8, Y: 5})
	w.SetGold(0, 0)

	if !e.StartGather(worker, mine, base) {
		t.Fatalf("StartGather failed to find a path")
	}

	// Run enough ticks for a full to_mine -> mining -> to_base -> deposit
	// cycle, then stop before a second cycle completes.
	for i := 0; i < 2000; i++ {
		e.AdvanceAll(0.01)
		if w.Gold(0) > 0 {
			break
		}
	}

	capacity := w.Catalog.Descriptor(catalog.Worker).MiningCapacity
	if got := w.Gold(0); got != capacity {
		t.Fatalf("gold after one cycle = %d, want %d", got, capacity)
	}
	if got := mine.Health; got != 10000-capacity {
		t.Fatalf("mine health = %d, want %d", got, 10000-capacity)
	}
	if worker.GatherPhase != world.ToMine {
		t.Fatalf("gather phase after deposit = %v, want ToMine (looping)", worker.GatherPhase)
	}
}

func TestGather_MiningBoostDoublesCarriedGold(t *testing.T) {
	e, w := newTestEngine(20, 20)
	base := w.Place(catalog.Base, 0, grid.Pos{X: 5, Y: 5})
	w.Place(catalog.Refinery, 0, grid.Pos{X: 1, Y: 1}).IsBuilt = true
	mine := w.Place(catalog.Mine, -1, grid.Pos{X: 15, Y: 5})
	mine.Health, mine.MaxHealth = 10000, 10000
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 8, Y: 5})

	if !e.StartGather(worker, mine, base) {
		t.Fatalf("StartGather failed")
	}
	for i := 0; i < 2000; i++ {
		e.AdvanceAll(0.01)
		if w.Gold(0) > 0 {
			break
		}
	}
	capacity := w.Catalog.Descriptor(catalog.Worker).MiningCapacity
	want := int(float64(capacity) * catalog.MiningBoost)
	if got := w.Gold(0); got != want {
		t.Fatalf("gold with refinery boost = %d, want %d", got, want)
	}
}

func TestGather_MineDestroyedMidMining_WorkerIdlesWithoutCarry(t *testing.T) {
	e, w := newTestEngine(20, 20)
	base := w.Place(catalog.Base, 0, grid.Pos{X: 5, Y: 5})
	mine := w.Place(catalog.Mine, -1, grid.Pos{X: 8, Y: 5})
	mine.Health, mine.MaxHealth = 200, 200
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 6, Y: 5})

	if !e.StartGather(worker, mine, base) {
		t.Fatalf("StartGather failed")
	}
	// Advance until the worker is in MINING, then destroy the mine.
	for i := 0; i < 500 && worker.GatherPhase != world.Mining; i++ {
		e.AdvanceAll(0.01)
	}
	if worker.GatherPhase != world.Mining {
		t.Fatalf("worker never reached MINING phase")
	}
	w.Destroy(mine.ID)
	w.FlushDestructions()
	e.AdvanceAll(0.01)

	if worker.Action != world.Idle {
		t.Fatalf("worker action = %v, want IDLE after mine destroyed mid-mining", worker.Action)
	}
	if w.Gold(0) != 0 {
		t.Fatalf("gold = %d, want 0 (cycle never completed)", w.Gold(0))
	}
}

func TestMove_ArrivesAndGoesIdle(t *testing.T) {
	e, w := newTestEngine(20, 20)
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 0, Y: 0})
	if !e.StartMove(worker, grid.Pos{X: 5, Y: 5}) {
		t.Fatalf("StartMove failed")
	}
	runTicks(e, 2000, 0.05)
	if worker.Action != world.Idle {
		t.Fatalf("worker action = %v, want IDLE after arrival", worker.Action)
	}
	if worker.Pos != (grid.Pos{X: 5, Y: 5}) {
		t.Fatalf("worker pos = %v, want (5,5)", worker.Pos)
	}
}

func TestMove_SameTileStaysIdle(t *testing.T) {
	e, w := newTestEngine(10, 10)
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 3, Y: 3})
	if e.StartMove(worker, grid.Pos{X: 3, Y: 3}) {
		t.Fatalf("StartMove should return false for start==dest")
	}
	if worker.Action != world.Idle {
		t.Fatalf("worker action = %v, want IDLE", worker.Action)
	}
}

func TestAttack_ReducesHealthAndDestroysTarget(t *testing.T) {
	e, w := newTestEngine(20, 20)
	soldier := w.Place(catalog.Soldier, 0, grid.Pos{X: 5, Y: 5})
	enemy := w.Place(catalog.Soldier, 1, grid.Pos{X: 5, Y: 6})
	enemy.Health, enemy.MaxHealth = 20, 20

	e.StartAttack(soldier, enemy)
	e.AdvanceAll(1.0) // one full cooldown tick within range

	if enemy.Health > 0 {
		t.Fatalf("enemy health = %d, want <= 0 after lethal hit", enemy.Health)
	}
	if _, ok := w.Unit(enemy.ID); ok {
		t.Fatalf("destroyed enemy still live in registry")
	}
}

func TestAttack_TargetLostReturnsIdle(t *testing.T) {
	e, w := newTestEngine(20, 20)
	soldier := w.Place(catalog.Soldier, 0, grid.Pos{X: 5, Y: 5})
	enemy := w.Place(catalog.Soldier, 1, grid.Pos{X: 9, Y: 9})

	e.StartAttack(soldier, enemy)
	w.Destroy(enemy.ID)
	w.FlushDestructions()
	e.AdvanceAll(0.1)

	if soldier.Action != world.Idle {
		t.Fatalf("soldier action = %v, want IDLE after target destroyed", soldier.Action)
	}
}
