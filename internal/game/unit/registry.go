// Package unit holds the battle's unit registry: an ordered, id-indexed,
// persistent collection of all combatants.
package unit

import "github.com/udisondev/battlesim/internal/model"

// Registry is an immutable ordered collection of units. Every mutating
// method returns a new Registry and leaves the receiver untouched, so older
// battle snapshots stay valid.
//
// Order is insertion order, except that a summon is placed directly after
// its owner (and the owner's earlier summons).
type Registry struct {
	units []model.Unit
	index map[model.UnitID]int
}

// New builds a registry from units in order.
func New(units ...model.Unit) Registry {
	var r Registry
	for _, u := range units {
		r = r.Add(u)
	}
	return r
}

// Len returns the number of units.
func (r Registry) Len() int { return len(r.units) }

// Has reports whether id is registered.
func (r Registry) Has(id model.UnitID) bool {
	_, ok := r.index[id]
	return ok
}

// Get returns the unit with id. The returned value shares slices with the
// registry; use Update to change it.
func (r Registry) Get(id model.UnitID) (model.Unit, bool) {
	i, ok := r.index[id]
	if !ok {
		return model.Unit{}, false
	}
	return r.units[i], true
}

// Update replaces the unit with id by fn applied to a deep copy of it.
// Absent ids are a no-op. fn must not change the unit's ID.
func (r Registry) Update(id model.UnitID, fn func(model.Unit) model.Unit) Registry {
	i, ok := r.index[id]
	if !ok {
		return r
	}
	next := fn(r.units[i].Clone())
	next.ID = id
	units := make([]model.Unit, len(r.units))
	copy(units, r.units)
	units[i] = next
	return Registry{units: units, index: r.index}
}

// Add inserts u. A unit whose id is already present replaces the existing
// entry in place.
func (r Registry) Add(u model.Unit) Registry {
	if i, ok := r.index[u.ID]; ok {
		units := make([]model.Unit, len(r.units))
		copy(units, r.units)
		units[i] = u
		return Registry{units: units, index: r.index}
	}

	pos := len(r.units)
	if u.IsSummon {
		if oi, ok := r.index[u.OwnerID]; ok {
			pos = oi + 1
			for pos < len(r.units) && r.units[pos].IsSummon && r.units[pos].OwnerID == u.OwnerID {
				pos++
			}
		}
	}

	units := make([]model.Unit, 0, len(r.units)+1)
	units = append(units, r.units[:pos]...)
	units = append(units, u)
	units = append(units, r.units[pos:]...)
	return Registry{units: units, index: buildIndex(units)}
}

// Remove deletes the unit with id together with every summon it owns.
func (r Registry) Remove(id model.UnitID) Registry {
	if _, ok := r.index[id]; !ok {
		return r
	}
	units := make([]model.Unit, 0, len(r.units))
	for _, u := range r.units {
		if u.ID == id || (u.IsSummon && u.OwnerID == id) {
			continue
		}
		units = append(units, u)
	}
	return Registry{units: units, index: buildIndex(units)}
}

// All returns the units in registry order. The slice must not be modified.
func (r Registry) All() []model.Unit { return r.units }

// IDs returns unit ids in registry order.
func (r Registry) IDs() []model.UnitID {
	ids := make([]model.UnitID, len(r.units))
	for i := range r.units {
		ids[i] = r.units[i].ID
	}
	return ids
}

// Find returns the first unit matching pred.
func (r Registry) Find(pred func(*model.Unit) bool) (model.Unit, bool) {
	for i := range r.units {
		if pred(&r.units[i]) {
			return r.units[i], true
		}
	}
	return model.Unit{}, false
}

// Filter returns all units matching pred, in order.
func (r Registry) Filter(pred func(*model.Unit) bool) []model.Unit {
	var out []model.Unit
	for i := range r.units {
		if pred(&r.units[i]) {
			out = append(out, r.units[i])
		}
	}
	return out
}

// AliveAllies returns living player-side units, summons included.
func (r Registry) AliveAllies() []model.Unit {
	return r.Filter(func(u *model.Unit) bool { return !u.IsEnemy && u.Alive() })
}

// AliveEnemies returns living enemies.
func (r Registry) AliveEnemies() []model.Unit {
	return r.Filter(func(u *model.Unit) bool { return u.IsEnemy && u.Alive() })
}

// AliveSide returns living units on the given side.
func (r Registry) AliveSide(enemy bool) []model.Unit {
	if enemy {
		return r.AliveEnemies()
	}
	return r.AliveAllies()
}

// SummonsOf returns the ids of summons owned by owner.
func (r Registry) SummonsOf(owner model.UnitID) []model.UnitID {
	var out []model.UnitID
	for i := range r.units {
		if r.units[i].IsSummon && r.units[i].OwnerID == owner {
			out = append(out, r.units[i].ID)
		}
	}
	return out
}

// Adjacent returns the living units on id's side directly before and after
// it in registry order, skipping summons.
func (r Registry) Adjacent(id model.UnitID) []model.UnitID {
	self, ok := r.Get(id)
	if !ok {
		return nil
	}
	side := r.Filter(func(u *model.Unit) bool {
		return u.IsEnemy == self.IsEnemy && u.Alive() && !u.IsSummon
	})
	var out []model.UnitID
	for i := range side {
		if side[i].ID != id {
			continue
		}
		if i > 0 {
			out = append(out, side[i-1].ID)
		}
		if i+1 < len(side) {
			out = append(out, side[i+1].ID)
		}
		break
	}
	return out
}

func buildIndex(units []model.Unit) map[model.UnitID]int {
	idx := make(map[model.UnitID]int, len(units))
	for i := range units {
		idx[units[i].ID] = i
	}
	return idx
}
