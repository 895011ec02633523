// Package effect manages buffs, debuffs and statuses on units: stacking,
// linked-effect cascades, duration ticks at turn boundaries and shields.
//
// All functions are pure over unit.Registry and return the new registry
// together with a description of what changed, so the caller can publish
// events and run apply/remove hooks.
package effect

import (
	"log/slog"

	"github.com/udisondev/battlesim/internal/game/stat"
	"github.com/udisondev/battlesim/internal/game/unit"
	"github.com/udisondev/battlesim/internal/model"
)

// Outcome describes how Add treated an effect.
type Outcome uint8

const (
	// Rejected means the effect was not applied (absent target, immunity, orphaned link).
	Rejected Outcome = iota
	// Applied means a new effect instance was appended.
	Applied
	// Merged means an existing instance was stacked and refreshed.
	Merged
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Merged:
		return "merged"
	default:
		return "rejected"
	}
}

// Removed identifies one removed effect instance.
type Removed struct {
	Unit   model.UnitID
	Effect model.Effect
}

// Add applies e to the unit target.
//
// An effect with the same ID already on the unit is merged: its stack count
// grows by e.Stacks (at least 1) up to the cap and its duration is replaced
// by e's duration, never summed. Modifiers are taken from e; a shield keeps
// the larger of the two values.
func Add(r unit.Registry, target model.UnitID, e model.Effect) (unit.Registry, Outcome) {
	u, ok := r.Get(target)
	if !ok {
		return r, Rejected
	}
	e = e.Clone().Normalize()
	if e.Category == model.Debuff && u.HasTag(model.TagDebuffImmune) {
		return r, Rejected
	}
	if e.Duration == model.Linked && !parentExists(r, target, e) {
		slog.Debug("linked effect without parent", "unit", target, "effect", e.ID, "parent", e.Parent)
		return r, Rejected
	}

	outcome := Applied
	r = r.Update(target, func(u model.Unit) model.Unit {
		for i := range u.Effects {
			cur := &u.Effects[i]
			if cur.ID != e.ID {
				continue
			}
			outcome = Merged
			merged := e
			merged.Stacks = min(cur.Stacks+e.Stacks, e.MaxStacks)
			merged.Shield = max(cur.Shield, e.Shield)
			*cur = merged
			return u
		}
		u.Effects = append(u.Effects, e)
		return u
	})
	return Refresh(r, target), outcome
}

// Remove deletes effect id from unit target, and recursively every linked
// effect on any unit whose parent is a removed effect.
func Remove(r unit.Registry, target model.UnitID, id string) (unit.Registry, []Removed) {
	var removed []Removed
	visited := make(map[visitKey]struct{})
	touched := make(map[model.UnitID]struct{})
	r = remove(r, target, id, &removed, visited, touched)
	r = refreshTouched(r, touched)
	return r, removed
}

type visitKey struct {
	unit model.UnitID
	id   string
}

func remove(
	r unit.Registry,
	target model.UnitID,
	id string,
	removed *[]Removed,
	visited map[visitKey]struct{},
	touched map[model.UnitID]struct{},
) unit.Registry {
	key := visitKey{unit: target, id: id}
	if _, seen := visited[key]; seen {
		return r
	}
	visited[key] = struct{}{}

	u, ok := r.Get(target)
	if !ok {
		return r
	}
	e, ok := u.Effect(id)
	if !ok {
		return r
	}
	r = r.Update(target, func(u model.Unit) model.Unit {
		u.Effects = dropEffect(u.Effects, id)
		return u
	})
	touched[target] = struct{}{}
	*removed = append(*removed, Removed{Unit: target, Effect: e})

	for _, other := range r.All() {
		for _, child := range other.Effects {
			if child.Duration != model.Linked || child.Parent != id {
				continue
			}
			parentUnit := child.ParentUnit
			if parentUnit == "" {
				parentUnit = other.ID
			}
			if parentUnit != target {
				continue
			}
			r = remove(r, other.ID, child.ID, removed, visited, touched)
		}
	}
	return r
}

// Tick decrements effects of the given duration kind on unit target by one.
// Effects flagged SkipFirstTick lose the flag instead. Effects that reach
// zero are removed (with linked cascade) before stats are recalculated.
func Tick(r unit.Registry, target model.UnitID, boundary model.DurationKind) (unit.Registry, []Removed) {
	u, ok := r.Get(target)
	if !ok || (boundary != model.TurnStart && boundary != model.TurnEnd) {
		return r, nil
	}

	var expired []string
	changed := false
	for _, e := range u.Effects {
		if e.Duration == boundary {
			changed = true
			if !e.SkipFirstTick && e.Remaining <= 1 {
				expired = append(expired, e.ID)
			}
		}
	}
	if !changed {
		return r, nil
	}

	r = r.Update(target, func(u model.Unit) model.Unit {
		for i := range u.Effects {
			e := &u.Effects[i]
			if e.Duration != boundary {
				continue
			}
			if e.SkipFirstTick {
				e.SkipFirstTick = false
				continue
			}
			e.Remaining--
		}
		return u
	})

	var removed []Removed
	visited := make(map[visitKey]struct{})
	touched := map[model.UnitID]struct{}{target: {}}
	for _, id := range expired {
		r = remove(r, target, id, &removed, visited, touched)
	}
	r = refreshTouched(r, touched)
	return r, removed
}

// TickOne decrements a single effect regardless of its duration kind.
// It is used for crowd control consumed by a skipped turn.
func TickOne(r unit.Registry, target model.UnitID, id string) (unit.Registry, []Removed) {
	u, ok := r.Get(target)
	if !ok {
		return r, nil
	}
	e, ok := u.Effect(id)
	if !ok {
		return r, nil
	}
	if e.Remaining <= 1 {
		return Remove(r, target, id)
	}
	r = r.Update(target, func(u model.Unit) model.Unit {
		for i := range u.Effects {
			if u.Effects[i].ID == id {
				u.Effects[i].Remaining--
				u.Effects[i].SkipFirstTick = false
			}
		}
		return u
	})
	return r, nil
}

// Cleanse removes the most recently applied cleansable debuff from target.
func Cleanse(r unit.Registry, target model.UnitID) (unit.Registry, []Removed) {
	return removeLatest(r, target, func(e *model.Effect) bool {
		return e.Category == model.Debuff && e.Cleansable
	})
}

// Dispel removes the most recently applied dispellable buff from target.
func Dispel(r unit.Registry, target model.UnitID) (unit.Registry, []Removed) {
	return removeLatest(r, target, func(e *model.Effect) bool {
		return e.Category == model.Buff && e.Dispellable
	})
}

func removeLatest(r unit.Registry, target model.UnitID, pred func(*model.Effect) bool) (unit.Registry, []Removed) {
	u, ok := r.Get(target)
	if !ok {
		return r, nil
	}
	for i := len(u.Effects) - 1; i >= 0; i-- {
		if pred(&u.Effects[i]) {
			return Remove(r, target, u.Effects[i].ID)
		}
	}
	return r, nil
}

// Absorb consumes up to amount from target's shields, oldest first.
// It returns the absorbed amount; depleted shield effects are removed.
func Absorb(r unit.Registry, target model.UnitID, amount float64) (unit.Registry, float64, []Removed) {
	u, ok := r.Get(target)
	if !ok || amount <= 0 || u.Shield <= 0 {
		return r, 0, nil
	}

	absorbed := 0.0
	var depleted []string
	r = r.Update(target, func(u model.Unit) model.Unit {
		left := amount
		for i := range u.Effects {
			e := &u.Effects[i]
			if e.Shield <= 0 || left <= 0 {
				continue
			}
			take := min(e.Shield, left)
			e.Shield -= take
			left -= take
			absorbed += take
			if e.Shield <= 0 {
				depleted = append(depleted, e.ID)
			}
		}
		return u
	})

	var removed []Removed
	for _, id := range depleted {
		var rm []Removed
		r, rm = Remove(r, target, id)
		removed = append(removed, rm...)
	}
	return Refresh(r, target), absorbed, removed
}

// Refresh recomputes derived data of unit id: final stats, shield total
// and hp/energy clamps. Summons of id and every unit whose stats depend on
// battle state are refreshed as well.
func Refresh(r unit.Registry, id model.UnitID) unit.Registry {
	r = refreshOne(r, id)
	for _, sid := range r.SummonsOf(id) {
		r = refreshOne(r, sid)
	}
	for _, u := range r.All() {
		if u.ID != id && hasDynamic(&u) {
			r = refreshOne(r, u.ID)
		}
	}
	return r
}

// RefreshAll recomputes every unit.
func RefreshAll(r unit.Registry) unit.Registry {
	for _, id := range r.IDs() {
		r = refreshOne(r, id)
	}
	return r
}

func refreshOne(r unit.Registry, id model.UnitID) unit.Registry {
	all := r.All()
	var owner model.Stats
	if u, ok := r.Get(id); ok && u.IsSummon {
		if o, ok := r.Get(u.OwnerID); ok {
			owner = o.Stats
		}
	}
	return r.Update(id, func(u model.Unit) model.Unit {
		if u.IsSummon && owner != nil {
			u.Stats = stat.Inherit(owner, &u)
		} else {
			u.Stats = stat.Compute(&u, all)
		}
		shield := 0.0
		for i := range u.Effects {
			shield += u.Effects[i].Shield
		}
		u.Shield = shield
		if maxHP := u.MaxHP(); u.HP > maxHP {
			u.HP = maxHP
		}
		if maxEP := u.MaxEnergy(); u.Energy > maxEP {
			u.Energy = maxEP
		}
		return u
	})
}

// refreshTouched refreshes the given units in registry order.
func refreshTouched(r unit.Registry, touched map[model.UnitID]struct{}) unit.Registry {
	for _, id := range r.IDs() {
		if _, ok := touched[id]; ok {
			r = Refresh(r, id)
		}
	}
	return r
}

func hasDynamic(u *model.Unit) bool {
	for _, m := range u.Modifiers {
		if m.Dynamic != nil {
			return true
		}
	}
	for i := range u.Effects {
		for _, m := range u.Effects[i].Modifiers {
			if m.Dynamic != nil {
				return true
			}
		}
	}
	return false
}

func parentExists(r unit.Registry, target model.UnitID, e model.Effect) bool {
	owner := e.ParentUnit
	if owner == "" {
		owner = target
	}
	u, ok := r.Get(owner)
	return ok && u.HasEffect(e.Parent)
}

func dropEffect(effects []model.Effect, id string) []model.Effect {
	out := effects[:0]
	for _, e := range effects {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
