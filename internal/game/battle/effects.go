package battle

import (
	"log/slog"

	"github.com/udisondev/battlesim/internal/game/combat"
	"github.com/udisondev/battlesim/internal/game/effect"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

// ApplyEffect adds e to target, runs its apply hook and publishes
// EffectApplied. A rejected effect leaves the state unchanged.
func (s State) ApplyEffect(source, target model.UnitID, e model.Effect) State {
	if e.SourceID == "" {
		e.SourceID = source
	}
	// Turn-end effects gained during the holder's own turn survive that
	// turn's end.
	if e.Duration == model.TurnEnd && target == s.queue.Acting() {
		e.SkipFirstTick = true
	}
	if e.DoT != nil {
		if src, ok := s.units.Get(source); ok {
			dot := combat.SnapshotDoT(&src, *e.DoT)
			e.DoT = &dot
		}
	}

	units, outcome := effect.Add(s.units, target, e)
	if outcome == effect.Rejected {
		slog.Debug("effect rejected", "unit", target, "effect", e.ID)
		return s
	}
	s.units = units
	s = s.bump()

	applied, _ := s.units.Get(target)
	cur, _ := applied.Effect(e.ID)
	s = s.record(Entry{
		Kind:   EntryEffectApplied,
		Source: source,
		Target: target,
		Detail: e.ID,
		Value:  float64(cur.Stacks),
	})
	if e.Shield > 0 {
		s = s.addTotals(source, func(t *Totals) { t.Shielding += e.Shield })
	}
	if outcome == effect.Applied {
		if h, ok := s.hooks.Lookup(e.Hook); ok {
			s = h.OnApply(s, target, cur)
		}
	}
	return s.Publish(event.EffectApplied{
		SourceID: source,
		Target:   target,
		EffectID: e.ID,
		Category: e.Category,
		Stacks:   cur.Stacks,
	})
}

// RemoveEffect removes effect id from target together with its linked
// children, running remove hooks and publishing EffectRemoved for each.
func (s State) RemoveEffect(target model.UnitID, id string) State {
	units, removed := effect.Remove(s.units, target, id)
	if len(removed) == 0 {
		return s
	}
	s.units = units
	return s.afterRemoval(removed)
}

// Cleanse removes one cleansable debuff from target.
func (s State) Cleanse(target model.UnitID) State {
	units, removed := effect.Cleanse(s.units, target)
	if len(removed) == 0 {
		return s
	}
	s.units = units
	return s.afterRemoval(removed)
}

// Dispel removes one dispellable buff from target.
func (s State) Dispel(target model.UnitID) State {
	units, removed := effect.Dispel(s.units, target)
	if len(removed) == 0 {
		return s
	}
	s.units = units
	return s.afterRemoval(removed)
}

// TryApplyEffect rolls the application chance of spec against target and
// applies the effect on success.
func (s State) TryApplyEffect(source, target model.UnitID, e model.Effect, baseChance float64, ignoreRes bool) State {
	src, ok := s.units.Get(source)
	if !ok {
		return s
	}
	dst, ok := s.units.Get(target)
	if !ok || !dst.Alive() {
		return s
	}
	p := baseChance
	if e.Category == model.Debuff {
		p = combat.EffectChance(baseChance, &src, &dst, e.CC != nil, ignoreRes)
	}
	s, hit := s.Roll(p)
	if !hit {
		slog.Debug("effect resisted", "source", source, "target", target, "effect", e.ID, "chance", p)
		return s
	}
	return s.ApplyEffect(source, target, e)
}

func (s State) tickEffects(id model.UnitID, boundary model.DurationKind) State {
	units, removed := effect.Tick(s.units, id, boundary)
	s.units = units
	s = s.bump()
	if len(removed) == 0 {
		return s
	}
	return s.afterRemoval(removed)
}

func (s State) afterRemoval(removed []effect.Removed) State {
	s = s.bump()
	for _, rm := range removed {
		s = s.record(Entry{Kind: EntryEffectRemoved, Target: rm.Unit, Detail: rm.Effect.ID})
		if h, ok := s.hooks.Lookup(rm.Effect.Hook); ok {
			s = h.OnRemove(s, rm.Unit, rm.Effect)
		}
		s = s.Publish(event.EffectRemoved{
			SourceID: rm.Effect.SourceID,
			Target:   rm.Unit,
			EffectID: rm.Effect.ID,
			Category: rm.Effect.Category,
		})
	}
	return s
}
