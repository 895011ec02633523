// Package summon creates and removes sub-units owned by a character.
package summon

import (
	"log/slog"

	"github.com/udisondev/battlesim/internal/game/effect"
	"github.com/udisondev/battlesim/internal/game/timeline"
	"github.com/udisondev/battlesim/internal/game/unit"
	"github.com/udisondev/battlesim/internal/model"
)

// Spawn inserts s as a summon of owner, directly after the owner in the
// registry, and queues it with a full AV at its own fixed speed.
// ok is false when the owner is absent or dead, or s.ID is taken.
func Spawn(r unit.Registry, q timeline.Queue, owner model.UnitID, s model.Unit) (unit.Registry, timeline.Queue, bool) {
	o, ok := r.Get(owner)
	if !ok || !o.Alive() {
		return r, q, false
	}
	if r.Has(s.ID) {
		slog.Debug("summon id already registered", "owner", owner, "summon", s.ID)
		return r, q, false
	}

	s.IsSummon = true
	s.OwnerID = owner
	s.IsEnemy = o.IsEnemy
	if s.Level == 0 {
		s.Level = o.Level
	}
	if s.Element == 0 {
		s.Element = o.Element
	}

	r = effect.Refresh(r.Add(s), s.ID)
	spawned, _ := r.Get(s.ID)
	if spawned.HP <= 0 {
		r = r.Update(s.ID, func(u model.Unit) model.Unit {
			u.HP = u.MaxHP()
			return u
		})
	}
	return r, q.Add(s.ID, spawned.Stats.Get(model.StatSPD)), true
}

// Dismiss removes a single summon.
func Dismiss(r unit.Registry, q timeline.Queue, id model.UnitID) (unit.Registry, timeline.Queue) {
	u, ok := r.Get(id)
	if !ok || !u.IsSummon {
		return r, q
	}
	return r.Remove(id), q.Remove(id)
}

// RemoveWithSummons removes id and every summon it owns from both the
// registry and the queue in one step.
func RemoveWithSummons(r unit.Registry, q timeline.Queue, id model.UnitID) (unit.Registry, timeline.Queue, []model.UnitID) {
	removed := append([]model.UnitID{id}, r.SummonsOf(id)...)
	for _, rid := range removed {
		q = q.Remove(rid)
	}
	return r.Remove(id), q, removed
}
