// Package catalog holds the immutable per-type tables (cost, health,
// size, range, dependencies, capabilities, speed-scaled timings) that
// the unit state machine and command dispatcher consult. Nothing here
// is per-instance state; see engine/world for that.
package catalog

import "math"

// UnitType is the closed set of unit kinds.
type UnitType int

const (
	Mine UnitType = iota
	Worker
	Soldier
	Archer
	Base
	Barracks
	Refinery
)

var allTypes = [...]UnitType{Mine, Worker, Soldier, Archer, Base, Barracks, Refinery}

// NonMineTypes is every type the match controller's win-condition
// score sums over: unit_count(type) * unit_value(type) across every
// type an agent can own outright, excluding mines.
var NonMineTypes = []UnitType{Worker, Soldier, Archer, Base, Barracks, Refinery}

func (t UnitType) String() string {
	switch t {
	case Mine:
		return "MINE"
	case Worker:
		return "WORKER"
	case Soldier:
		return "SOLDIER"
	case Archer:
		return "ARCHER"
	case Base:
		return "BASE"
	case Barracks:
		return "BARRACKS"
	case Refinery:
		return "REFINERY"
	default:
		return "UNKNOWN"
	}
}

// Descriptor is the static, per-type table row.
type Descriptor struct {
	Type           UnitType
	Width, Height  int // footprint in tiles
	Cost           int // build/train cost in gold
	MaxHealth      int
	AttackRange    float64 // tiles, Euclidean
	MiningCapacity int     // gold carried per gather trip

	CanMove, CanBuild, CanTrain, CanAttack, CanGather bool

	Builds     []UnitType // structures this type can construct
	Trains     []UnitType // units this type can train
	Dependency []UnitType // prerequisite types required to construct/train this type
}

// MiningBoost multiplies carried gold per gather cycle when the
// gathering agent owns a fully-built Refinery.
const MiningBoost = 2.0

// miningCycleScalar is the type-independent multiplier for one
// GATHER mining cycle, scaled by ts exactly like creation_time. Chosen
// so a worker's mining cycle (0.1s at game_speed=20) stays fast enough
// to exercise in a handful of ticks during tests.
const miningCycleScalar = 2.0

func baseDescriptors() map[UnitType]Descriptor {
	return map[UnitType]Descriptor{
		Mine: {
			Type: Mine, Width: 3, Height: 3,
		},
		Worker: {
			Type: Worker, Width: 1, Height: 1, Cost: 50, MaxHealth: 50,
			MiningCapacity: 100,
			CanMove:        true, CanBuild: true, CanGather: true,
			Builds: []UnitType{Base, Barracks, Refinery},
		},
		Soldier: {
			Type: Soldier, Width: 1, Height: 1, Cost: 100, MaxHealth: 100,
			AttackRange: 1,
			CanMove:     true, CanAttack: true,
			Dependency: []UnitType{Barracks},
		},
		Archer: {
			Type: Archer, Width: 1, Height: 1, Cost: 125, MaxHealth: 80,
			AttackRange: 4,
			CanMove:     true, CanAttack: true,
			Dependency: []UnitType{Barracks, Refinery},
		},
		Base: {
			Type: Base, Width: 3, Height: 3, Cost: 500, MaxHealth: 1000,
			CanTrain: true,
			Trains:   []UnitType{Worker},
		},
		Barracks: {
			Type: Barracks, Width: 3, Height: 3, Cost: 300, MaxHealth: 600,
			CanTrain:   true,
			Trains:     []UnitType{Soldier, Archer},
			Dependency: []UnitType{Base},
		},
		Refinery: {
			Type: Refinery, Width: 3, Height: 3, Cost: 400, MaxHealth: 500,
			Dependency: []UnitType{Base},
		},
	}
}

// creationScalar, baseSpeed and baseDamage are the per-type constants
// scaled by game_speed to produce the derived tables. Mobile combat
// units take longer to train than a worker; structures take longer
// still.
var creationScalar = map[UnitType]float64{
	Mine: 0, Worker: 2, Soldier: 3, Archer: 4, Base: 30, Barracks: 25, Refinery: 20,
}

var baseSpeed = map[UnitType]float64{
	Mine: 0, Worker: 0.1, Soldier: 0.1, Archer: 0.1, Base: 0, Barracks: 0, Refinery: 0,
}

var baseDamage = map[UnitType]float64{
	Mine: 0, Worker: 0, Soldier: 20, Archer: 15, Base: 0, Barracks: 0, Refinery: 0,
}

// Catalog is the full set of derived, speed-scaled tables for one
// game_speed value. It is immutable once built; changing game_speed
// means building a new Catalog (or calling Recompute, which replaces
// the derived tables in place but leaves the static descriptors
// untouched).
type Catalog struct {
	GameSpeed int

	descriptors map[UnitType]Descriptor

	CreationTime map[UnitType]float64
	MovingSpeed  map[UnitType]float64
	Damage       map[UnitType]float64
	MiningTime   float64
}

// New builds a Catalog for the given game_speed (0 pauses all timers;
// 1-30 is the supported range, though New does not itself enforce the
// range — callers validating config do).
func New(gameSpeed int) *Catalog {
	c := &Catalog{descriptors: baseDescriptors()}
	c.Recompute(gameSpeed)
	return c
}

// Recompute rebuilds the speed-scaled tables for a new game_speed.
// Calling it twice with the same game_speed yields identical tables.
func (c *Catalog) Recompute(gameSpeed int) {
	c.GameSpeed = gameSpeed
	c.CreationTime = make(map[UnitType]float64, len(allTypes))
	c.MovingSpeed = make(map[UnitType]float64, len(allTypes))
	c.Damage = make(map[UnitType]float64, len(allTypes))

	if gameSpeed == 0 {
		c.MiningTime = math.Inf(1)
	} else {
		c.MiningTime = (1.0 / float64(gameSpeed)) * miningCycleScalar
	}

	for _, t := range allTypes {
		if gameSpeed == 0 {
			c.CreationTime[t] = math.Inf(1)
		} else {
			ts := 1.0 / float64(gameSpeed)
			c.CreationTime[t] = ts * creationScalar[t]
		}
		c.MovingSpeed[t] = float64(gameSpeed) * baseSpeed[t]
		c.Damage[t] = float64(gameSpeed) * baseDamage[t]
	}
}

// Descriptor returns the static row for t. Callers must not mutate
// the Builds/Trains/Dependency slices.
func (c *Catalog) Descriptor(t UnitType) Descriptor {
	return c.descriptors[t]
}

// Immobile reports whether t never moves once placed (mine or any
// structure).
func (t UnitType) Immobile() bool {
	switch t {
	case Mine, Base, Barracks, Refinery:
		return true
	default:
		return false
	}
}

// IsStructure reports whether t is a built (BUILD-pipeline) structure,
// as opposed to a mine or a trained mobile unit.
func (t UnitType) IsStructure() bool {
	switch t {
	case Base, Barracks, Refinery:
		return true
	default:
		return false
	}
}

// UnitValue is the per-type weight used by the win-condition score:
// sum over non-mine types of unit_count(type) * unit_value(type).
// Structures count for more than mobile units since they represent a
// larger sunk investment.
func (c *Catalog) UnitValue(t UnitType) int {
	d := c.descriptors[t]
	if d.Cost == 0 {
		return 1
	}
	return d.Cost
}
