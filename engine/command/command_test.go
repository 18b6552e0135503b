package command

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/rts-engine/engine/catalog"
	"github.com/1siamBot/rts-engine/engine/grid"
	"github.com/1siamBot/rts-engine/engine/unit"
	"github.com/1siamBot/rts-engine/engine/world"
)

func newTestDispatcher(size, gameSpeed int) (*Dispatcher, *world.World, *unit.Engine) {
	g := grid.New(size, size)
	c := catalog.New(gameSpeed)
	w := world.New(g, c)
	e := unit.NewEngine(w, 0, 0)
	log := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	return New(w, e, log), w, e
}

func TestDispatch_TrainHappyPath(t *testing.T) {
	d, w, e := newTestDispatcher(20, 20)
	w.SetGold(0, 1000)
	base := w.Place(catalog.Base, 0, grid.Pos{X: 10, Y: 10})

	res := d.Train(0, base.ID, catalog.Worker)
	require.True(t, res.Accepted(), "train rejected: %+v", res)
	assert.Equal(t, 950, w.Gold(0))

	for i := 0; i < 50; i++ {
		e.AdvanceAll(0.01)
	}
	assert.Equal(t, world.Idle, base.Action)
	assert.Len(t, w.ByOwnerType(0, catalog.Worker), 1)
}

func TestDispatch_BuildRejectedInsufficientGold(t *testing.T) {
	d, w, _ := newTestDispatcher(20, 20)
	w.SetGold(0, 10)
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 9, Y: 10})

	res := d.Build(0, worker.ID, grid.Pos{X: 10, Y: 10}, catalog.Base)
	assert.False(t, res.Accepted(), "build accepted despite insufficient gold")
	assert.Equal(t, world.Idle, worker.Action)
	assert.Empty(t, w.ByType(catalog.Base), "a BASE exists despite rejected build")
	assert.Equal(t, 10, w.Gold(0))
}

func TestDispatch_BuildRejectedMissingDependency(t *testing.T) {
	d, w, _ := newTestDispatcher(20, 20)
	w.SetGold(0, 10000)
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 9, Y: 10})

	// BARRACKS depends on BASE, which doesn't exist yet.
	res := d.Build(0, worker.ID, grid.Pos{X: 10, Y: 10}, catalog.Barracks)
	assert.False(t, res.Accepted(), "build accepted despite missing BASE dependency")
	assert.Equal(t, InvalidCommand, res.Kind)
}

func TestDispatch_BuildHappyPath(t *testing.T) {
	d, w, e := newTestDispatcher(20, 20)
	w.SetGold(0, 10000)
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 9, Y: 10})

	res := d.Build(0, worker.ID, grid.Pos{X: 10, Y: 10}, catalog.Base)
	require.True(t, res.Accepted(), "build rejected: %+v", res)
	assert.Equal(t, 10000-500, w.Gold(0))
	assert.Equal(t, world.Build, worker.Action)

	for i := 0; i < 200; i++ {
		e.AdvanceAll(0.01)
	}
	bases := w.ByType(catalog.Base)
	require.Len(t, bases, 1)
	base, _ := w.Unit(bases[0])
	assert.True(t, base.IsBuilt, "base never completed")
	assert.Equal(t, world.Idle, worker.Action, "worker should return to IDLE after build completes")
}

func TestDispatch_MoveRejectedOwnershipMismatch(t *testing.T) {
	d, w, _ := newTestDispatcher(20, 20)
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 0, Y: 0})

	res := d.Move(1, worker.ID, grid.Pos{X: 5, Y: 5})
	assert.False(t, res.Accepted(), "move accepted across ownership mismatch")
	assert.Equal(t, InvalidCommand, res.Kind)
	assert.Equal(t, world.Idle, worker.Action, "unit state changed despite rejection")
}

func TestDispatch_AttackRejectedSameOwner(t *testing.T) {
	d, w, _ := newTestDispatcher(20, 20)
	a := w.Place(catalog.Soldier, 0, grid.Pos{X: 0, Y: 0})
	b := w.Place(catalog.Soldier, 0, grid.Pos{X: 1, Y: 1})

	res := d.Attack(0, a.ID, b.ID)
	assert.False(t, res.Accepted(), "attack accepted against a same-owner unit")
}

func TestDispatch_AttackRejectedMineTarget(t *testing.T) {
	d, w, _ := newTestDispatcher(20, 20)
	a := w.Place(catalog.Soldier, 0, grid.Pos{X: 0, Y: 0})
	mine := w.Place(catalog.Mine, -1, grid.Pos{X: 1, Y: 1})

	res := d.Attack(0, a.ID, mine.ID)
	assert.False(t, res.Accepted(), "attack accepted against a mine")
}

func TestDispatch_GatherOneCycleCreditsGold(t *testing.T) {
	d, w, e := newTestDispatcher(20, 20)
	base := w.Place(catalog.Base, 0, grid.Pos{X: 5, Y: 5})
	base.IsBuilt = true
	mine := w.Place(catalog.Mine, -1, grid.Pos{X: 15, Y: 5})
	mine.Health, mine.MaxHealth = 10000, 10000
	worker := w.Place(catalog.Worker, 0, grid.Pos{X: 8, Y: 5})

	res := d.Gather(0, worker.ID, mine.ID, base.ID)
	require.True(t, res.Accepted(), "gather rejected: %+v", res)

	capacity := w.Catalog.Descriptor(catalog.Worker).MiningCapacity
	for i := 0; i < 2000; i++ {
		e.AdvanceAll(0.01)
		if w.Gold(0) > 0 {
			break
		}
	}
	assert.Equal(t, capacity, w.Gold(0))
}
