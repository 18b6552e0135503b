// Package command implements the validator/dispatcher that mediates
// between an agent's five verbs (Move, Build, Gather, Train, Attack)
// and the unit state machine in engine/unit. Every precondition named
// in the state machine's pipelines is checked here, before any
// mutation; a command that fails any check is dropped with no side
// effects.
package command

import (
	"github.com/rs/zerolog"

	"github.com/1siamBot/rts-engine/engine/catalog"
	"github.com/1siamBot/rts-engine/engine/grid"
	"github.com/1siamBot/rts-engine/engine/unit"
	"github.com/1siamBot/rts-engine/engine/world"
)

// Kind classifies why a command was rejected: ownership mismatch,
// missing capability/dependency, insufficient gold, bad target, no
// path, and so on all report InvalidCommand, including a commanded
// unit, mine or base that no longer exists; an attack whose target no
// longer exists reports TargetLost. No Dispatcher method returns
// TransientConflict: a blocked spawn cell or path tile is handled by
// the unit state machine in engine/unit, which retries on later ticks
// without producing a Result.
type Kind int

const (
	OK Kind = iota
	InvalidCommand
	TransientConflict
	TargetLost
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case InvalidCommand:
		return "invalid_command"
	case TransientConflict:
		return "transient_conflict"
	case TargetLost:
		return "target_lost"
	default:
		return "unknown"
	}
}

// Result is the outcome of dispatching one command.
type Result struct {
	Kind   Kind
	Reason string
}

func accept() Result              { return Result{Kind: OK} }
func reject(k Kind, why string) Result { return Result{Kind: k, Reason: why} }

func (r Result) Accepted() bool { return r.Kind == OK }

// Dispatcher validates and applies agent commands against one World,
// driving the engine/unit state machine on success. Rejections are
// logged at Debug and never mutate state.
type Dispatcher struct {
	World  *world.World
	Engine *unit.Engine
	Log    zerolog.Logger
}

// New builds a Dispatcher bound to a world/engine pair.
func New(w *world.World, e *unit.Engine, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{World: w, Engine: e, Log: log}
}

func (d *Dispatcher) drop(verb string, issuer int, k Kind, why string) Result {
	d.Log.Debug().
		Str("verb", verb).
		Int("issuer", issuer).
		Str("kind", k.String()).
		Str("reason", why).
		Msg("command dropped")
	return reject(k, why)
}

// ownedUnit fetches a live unit and checks it belongs to issuer.
func (d *Dispatcher) ownedUnit(verb string, issuer int, id uint64) (*world.Unit, Result, bool) {
	u, ok := d.World.Unit(id)
	if !ok {
		r := d.drop(verb, issuer, InvalidCommand, "unit does not exist")
		return nil, r, false
	}
	if u.Owner != issuer {
		r := d.drop(verb, issuer, InvalidCommand, "ownership mismatch")
		return nil, r, false
	}
	return u, Result{}, true
}

// Move issues a MOVE command: unitID must belong to issuer and not be
// busy building, training, or attacking — any other in-progress
// action (including an existing move or gather) may be redirected.
func (d *Dispatcher) Move(issuer int, unitID uint64, dest grid.Pos) Result {
	u, rej, ok := d.ownedUnit("move", issuer, unitID)
	if !ok {
		return rej
	}
	if !d.World.Catalog.Descriptor(u.Type).CanMove {
		return d.drop("move", issuer, InvalidCommand, "unit cannot move")
	}
	if u.Action == world.Build || u.Action == world.Train || u.Action == world.Attack {
		return d.drop("move", issuer, InvalidCommand, "unit busy with a non-interruptible action")
	}
	if !d.Engine.StartMove(u, dest) {
		return d.drop("move", issuer, InvalidCommand, "no path to destination")
	}
	return accept()
}

// Build issues a BUILD command: workerID constructs structureType
// anchored at anchor. Capability, buildable area, dependencies and
// gold are checked before any mutation. The reachable-footprint-
// neighbor check runs with the structure already placed, and the
// placement is undone if it fails; cost is debited only once every
// check has passed.
func (d *Dispatcher) Build(issuer int, workerID uint64, anchor grid.Pos, structureType catalog.UnitType) Result {
	worker, rej, ok := d.ownedUnit("build", issuer, workerID)
	if !ok {
		return rej
	}
	if worker.Action != world.Idle && worker.Action != world.Gather {
		return d.drop("build", issuer, InvalidCommand, "worker not idle or gathering")
	}
	wd := d.World.Catalog.Descriptor(worker.Type)
	if !wd.CanBuild {
		return d.drop("build", issuer, InvalidCommand, "unit cannot build")
	}
	allowed := false
	for _, t := range wd.Builds {
		if t == structureType {
			allowed = true
			break
		}
	}
	if !allowed {
		return d.drop("build", issuer, InvalidCommand, "worker cannot build this structure type")
	}
	sd := d.World.Catalog.Descriptor(structureType)
	exclude := map[grid.Pos]bool{worker.Pos: true}
	if !d.World.Grid.AreaBuildable(anchor, sd.Width, sd.Height, exclude) {
		return d.drop("build", issuer, InvalidCommand, "target area not buildable")
	}
	for _, dep := range sd.Dependency {
		if !d.World.HasBuilt(issuer, dep) {
			return d.drop("build", issuer, InvalidCommand, "missing dependency "+dep.String())
		}
	}
	if d.World.Gold(issuer) < sd.Cost {
		return d.drop("build", issuer, InvalidCommand, "insufficient gold")
	}

	structure := d.World.PlaceUnbuilt(structureType, issuer, anchor)
	if !d.Engine.StartBuild(worker, structure) {
		d.World.Destroy(structure.ID)
		d.World.FlushDestructions()
		return d.drop("build", issuer, InvalidCommand, "no path to structure site")
	}
	d.World.DebitGold(issuer, sd.Cost)
	return accept()
}

// Gather issues a GATHER command: workerID begins a TO_MINE/MINING/
// TO_BASE loop between mineID and baseID.
func (d *Dispatcher) Gather(issuer int, workerID, mineID, baseID uint64) Result {
	worker, rej, ok := d.ownedUnit("gather", issuer, workerID)
	if !ok {
		return rej
	}
	if worker.Action != world.Idle {
		return d.drop("gather", issuer, InvalidCommand, "worker not idle")
	}
	if !d.World.Catalog.Descriptor(worker.Type).CanGather {
		return d.drop("gather", issuer, InvalidCommand, "unit cannot gather")
	}
	mine, ok := d.World.Unit(mineID)
	if !ok || mine.Type != catalog.Mine || mine.Health <= 0 {
		return d.drop("gather", issuer, InvalidCommand, "invalid mine target")
	}
	base, ok := d.World.Unit(baseID)
	if !ok || base.Type != catalog.Base || base.Owner != issuer || !base.IsBuilt {
		return d.drop("gather", issuer, InvalidCommand, "invalid base target")
	}
	if !d.Engine.StartGather(worker, mine, base) {
		return d.drop("gather", issuer, InvalidCommand, "no path to mine")
	}
	return accept()
}

// Train issues a TRAIN command: structureID begins producing
// trainType.
func (d *Dispatcher) Train(issuer int, structureID uint64, trainType catalog.UnitType) Result {
	structure, rej, ok := d.ownedUnit("train", issuer, structureID)
	if !ok {
		return rej
	}
	if structure.Action != world.Idle {
		return d.drop("train", issuer, InvalidCommand, "structure not idle")
	}
	if !structure.IsBuilt {
		return d.drop("train", issuer, InvalidCommand, "structure not fully built")
	}
	sd := d.World.Catalog.Descriptor(structure.Type)
	if !sd.CanTrain {
		return d.drop("train", issuer, InvalidCommand, "structure cannot train")
	}
	allowed := false
	for _, t := range sd.Trains {
		if t == trainType {
			allowed = true
			break
		}
	}
	if !allowed {
		return d.drop("train", issuer, InvalidCommand, "structure cannot train this type")
	}
	td := d.World.Catalog.Descriptor(trainType)
	for _, dep := range td.Dependency {
		if !d.World.HasBuilt(issuer, dep) {
			return d.drop("train", issuer, InvalidCommand, "missing dependency "+dep.String())
		}
	}
	if d.World.Gold(issuer) < td.Cost {
		return d.drop("train", issuer, InvalidCommand, "insufficient gold")
	}

	d.World.DebitGold(issuer, td.Cost)
	d.Engine.StartTrain(structure, trainType)
	return accept()
}

// Attack issues an ATTACK command: attackerID engages targetID, which
// must belong to a different owner and not be a mine.
func (d *Dispatcher) Attack(issuer int, attackerID, targetID uint64) Result {
	attacker, rej, ok := d.ownedUnit("attack", issuer, attackerID)
	if !ok {
		return rej
	}
	if !d.World.Catalog.Descriptor(attacker.Type).CanAttack {
		return d.drop("attack", issuer, InvalidCommand, "unit cannot attack")
	}
	target, ok := d.World.Unit(targetID)
	if !ok {
		return d.drop("attack", issuer, TargetLost, "target does not exist")
	}
	if target.Type == catalog.Mine {
		return d.drop("attack", issuer, InvalidCommand, "cannot attack a mine")
	}
	if target.Owner == issuer {
		return d.drop("attack", issuer, InvalidCommand, "target belongs to the same owner")
	}
	d.Engine.StartAttack(attacker, target)
	return accept()
}
