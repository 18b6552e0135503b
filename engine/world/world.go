// Package world holds the live simulation state: the unit registry
// (by_id/by_type/by_owner_type indexes), per-agent gold, and the cell
// flags each placed unit maintains on the grid. There is no global
// singleton: every mutation goes through a World value passed
// explicitly by the controller and the command dispatcher.
package world

import (
	"github.com/1siamBot/rts-engine/engine/catalog"
	"github.com/1siamBot/rts-engine/engine/grid"
)

// Action is a unit's current top-level task.
type Action int

const (
	Idle Action = iota
	Move
	Train
	Build
	Gather
	Attack
)

func (a Action) String() string {
	switch a {
	case Idle:
		return "IDLE"
	case Move:
		return "MOVE"
	case Train:
		return "TRAIN"
	case Build:
		return "BUILD"
	case Gather:
		return "GATHER"
	case Attack:
		return "ATTACK"
	default:
		return "UNKNOWN"
	}
}

// BuildPhase is the worker-side sub-phase of an in-progress BUILD.
type BuildPhase int

const (
	ToPosition BuildPhase = iota
	Building
)

// GatherPhase is the worker-side sub-phase of an in-progress GATHER.
type GatherPhase int

const (
	ToMine GatherPhase = iota
	Mining
	ToBase
)

// Unit is the tagged record for one live unit: one struct shape
// covers every type, with only the fields relevant to the current
// Action populated.
type Unit struct {
	ID        uint64
	Type      catalog.UnitType
	Owner     int
	Pos       grid.Pos // anchor (top-left) tile of the footprint
	Health    int
	MaxHealth int
	IsBuilt   bool // false while a structure's build timer is running

	Action Action

	// MOVE / shared movement scratch (also used by the movement legs
	// of BUILD's TO_POSITION and GATHER's TO_MINE/TO_BASE).
	Path           []grid.Pos
	RepathFailures int
	MoveProgress   float64 // accumulated fraction of the current edge traveled
	Dest           grid.Pos

	// TRAIN (set on the producing structure)
	TrainType catalog.UnitType
	Timer     float64

	// BUILD (set on the worker; StructureID names the structure it is
	// constructing)
	BuildPhase    BuildPhase
	StructureID   uint64
	StructureType catalog.UnitType

	// GATHER (set on the worker)
	GatherPhase GatherPhase
	MineID      uint64
	BaseID      uint64
	CarriedGold int

	// ATTACK
	TargetID uint64

	destroyed bool
}

// Footprint returns the set of tiles u occupies given its catalog
// descriptor.
func (u *Unit) Footprint(c *catalog.Catalog) []grid.Pos {
	d := c.Descriptor(u.Type)
	return grid.Footprint(u.Pos, d.Width, d.Height)
}

// World is the full live simulation state for one round.
type World struct {
	Grid    *grid.Grid
	Catalog *catalog.Catalog

	units       map[uint64]*Unit
	byType      map[catalog.UnitType][]uint64
	byOwnerType map[ownerType][]uint64

	gold map[int]int

	nextID  uint64
	pending []uint64 // deferred destructions, applied at end of tick
}

type ownerType struct {
	Owner int
	Type  catalog.UnitType
}

// New creates an empty registry bound to a grid and catalog.
func New(g *grid.Grid, c *catalog.Catalog) *World {
	return &World{
		Grid:        g,
		Catalog:     c,
		units:       make(map[uint64]*Unit),
		byType:      make(map[catalog.UnitType][]uint64),
		byOwnerType: make(map[ownerType][]uint64),
		gold:        make(map[int]int),
	}
}

// Gold returns the current gold balance for an agent.
func (w *World) Gold(owner int) int { return w.gold[owner] }

// SetGold sets an agent's gold balance directly (used at round init).
func (w *World) SetGold(owner, amount int) { w.gold[owner] = amount }

// DebitGold subtracts amount from owner's gold. Callers must have
// already checked Gold(owner) >= amount; DebitGold does not clamp.
func (w *World) DebitGold(owner, amount int) { w.gold[owner] -= amount }

// CreditGold adds amount to owner's gold.
func (w *World) CreditGold(owner, amount int) { w.gold[owner] += amount }

// Unit looks up a live unit by id. The second return is false for an
// id that was never allocated or has since been destroyed.
func (w *World) Unit(id uint64) (*Unit, bool) {
	u, ok := w.units[id]
	if !ok || u.destroyed {
		return nil, false
	}
	return u, true
}

// ByType returns the ids of a given type, owned by anyone (including
// the neutral/mine "owner" -1). A destroyed unit's id stays listed
// until FlushDestructions.
func (w *World) ByType(t catalog.UnitType) []uint64 {
	return append([]uint64(nil), w.byType[t]...)
}

// ByOwnerType returns the ids of a given type owned by owner. A
// destroyed unit's id stays listed until FlushDestructions.
func (w *World) ByOwnerType(owner int, t catalog.UnitType) []uint64 {
	return append([]uint64(nil), w.byOwnerType[ownerType{owner, t}]...)
}

// HasBuilt reports whether owner has at least one fully-built
// instance of t — the dependency-satisfaction test used by BUILD and
// TRAIN preconditions.
func (w *World) HasBuilt(owner int, t catalog.UnitType) bool {
	for _, id := range w.byOwnerType[ownerType{owner, t}] {
		if u, ok := w.Unit(id); ok && u.IsBuilt {
			return true
		}
	}
	return false
}

// AllIDsOrdered returns every live unit id in ascending id order, the
// order the controller advances the state machine in.
func (w *World) AllIDsOrdered() []uint64 {
	ids := make([]uint64, 0, len(w.units))
	for id, u := range w.units {
		if !u.destroyed {
			ids = append(ids, id)
		}
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// applyFootprintFlags sets buildable=false (and walkable=false for
// immobile types) across u's footprint.
func (w *World) applyFootprintFlags(u *Unit) {
	immobile := u.Type.Immobile()
	for _, p := range u.Footprint(w.Catalog) {
		w.Grid.SetBuildable(p.X, p.Y, false)
		if immobile {
			w.Grid.SetWalkable(p.X, p.Y, false)
		}
	}
}

// clearFootprintFlags restores buildable (and walkable, for
// immobiles) across u's footprint, unless another live unit still
// covers that tile.
func (w *World) clearFootprintFlags(u *Unit) {
	immobile := u.Type.Immobile()
	for _, p := range u.Footprint(w.Catalog) {
		if w.tileCoveredByOther(p, u.ID) {
			continue
		}
		w.Grid.SetBuildable(p.X, p.Y, true)
		if immobile {
			w.Grid.SetWalkable(p.X, p.Y, true)
		}
	}
}

func (w *World) tileCoveredByOther(p grid.Pos, exclude uint64) bool {
	for id, u := range w.units {
		if id == exclude || u.destroyed {
			continue
		}
		for _, fp := range u.Footprint(w.Catalog) {
			if fp == p {
				return true
			}
		}
	}
	return false
}

// Place allocates a new unit id, registers it in every index, and
// applies its footprint flags to the grid. Health defaults to the
// type's MaxHealth; isBuilt is true for mines and mobile units,
// false for newly-commenced structures (the BUILD commit path sets
// it false explicitly after calling Place).
func (w *World) Place(t catalog.UnitType, owner int, pos grid.Pos) *Unit {
	w.nextID++
	d := w.Catalog.Descriptor(t)
	u := &Unit{
		ID:        w.nextID,
		Type:      t,
		Owner:     owner,
		Pos:       pos,
		Health:    d.MaxHealth,
		MaxHealth: d.MaxHealth,
		IsBuilt:   true,
	}
	w.units[u.ID] = u
	w.byType[t] = append(w.byType[t], u.ID)
	w.byOwnerType[ownerType{owner, t}] = append(w.byOwnerType[ownerType{owner, t}], u.ID)
	w.applyFootprintFlags(u)
	return u
}

// PlaceUnbuilt is Place for a structure whose construction timer has
// not yet completed: health is full (so it can be damaged/destroyed
// mid-build) but IsBuilt starts false.
func (w *World) PlaceUnbuilt(t catalog.UnitType, owner int, pos grid.Pos) *Unit {
	u := w.Place(t, owner, pos)
	u.IsBuilt = false
	return u
}

// RelocateUnit moves a mobile (1x1 footprint) unit to an adjacent
// tile, freeing the old tile's buildable flag (unless another live
// unit still covers it — not expected for 1x1 movers, but kept
// symmetric with clearFootprintFlags) and marking the new tile
// unbuildable. Walkable is untouched: only immobile types clear it,
// and immobile types never call RelocateUnit.
func (w *World) RelocateUnit(u *Unit, newPos grid.Pos) {
	oldFootprint := u.Footprint(w.Catalog)
	u.Pos = newPos
	for _, p := range oldFootprint {
		if w.tileCoveredByOther(p, u.ID) {
			continue
		}
		w.Grid.SetBuildable(p.X, p.Y, true)
	}
	w.applyFootprintFlags(u)
}

// Destroy marks a unit for removal. Unit (and AllIDsOrdered) stop
// returning it at once, but its footprint flags and its removal from
// the ByType/ByOwnerType index slices are deferred to
// FlushDestructions (until then those two still list its id), so a
// state-machine advance already in progress this tick keeps operating
// on a consistent id->index snapshot.
func (w *World) Destroy(id uint64) {
	u, ok := w.units[id]
	if !ok || u.destroyed {
		return
	}
	u.destroyed = true
	w.pending = append(w.pending, id)
}

// FlushDestructions applies every Destroy call queued since the last
// flush: frees cell flags and drops the id from the type/owner
// indexes and the id table. The controller calls this once at the
// end of every tick.
func (w *World) FlushDestructions() {
	for _, id := range w.pending {
		u, ok := w.units[id]
		if !ok {
			continue
		}
		w.clearFootprintFlags(u)
		w.byType[u.Type] = removeID(w.byType[u.Type], id)
		key := ownerType{u.Owner, u.Type}
		w.byOwnerType[key] = removeID(w.byOwnerType[key], id)
		delete(w.units, id)
	}
	w.pending = w.pending[:0]
}

func removeID(ids []uint64, id uint64) []uint64 {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
