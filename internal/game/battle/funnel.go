package battle

import (
	"github.com/udisondev/battlesim/internal/game/effect"
	"github.com/udisondev/battlesim/internal/game/energy"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/game/summon"
	"github.com/udisondev/battlesim/internal/model"
)

// Cause tells the damage funnel where a damage number came from.
type Cause uint8

const (
	CauseHit Cause = iota
	CauseDoT
	CauseBreak
	CauseSuperBreak
	CauseAdditional
)

func (c Cause) entryKind() EntryKind {
	switch c {
	case CauseDoT:
		return EntryDoT
	case CauseBreak, CauseSuperBreak:
		return EntryBreak
	default:
		return EntryAdditionalDamage
	}
}

// applied reports what the funnel did to a unit.
type applied struct {
	Damage   float64
	Absorbed float64
	Killed   bool
}

// applyDamage is the single path by which damage reaches a unit's shield,
// hp, the totals and the transcript. Hits are recorded on the action entry
// under construction; every other cause gets its own entry with note as
// its detail.
func (s State) applyDamage(source, target model.UnitID, amount float64, cause Cause, hit HitRecord, note string) (State, applied) {
	u, ok := s.units.Get(target)
	if !ok || !u.Alive() || amount <= 0 {
		return s, applied{}
	}

	units, absorbed, depleted := effect.Absorb(s.units, target, amount)
	s.units = units
	rest := amount - absorbed
	hpAfter := 0.0
	s.units = s.units.Update(target, func(u model.Unit) model.Unit {
		u.HP = max(0, u.HP-rest)
		hpAfter = u.HP
		return u
	})
	s = s.bump()

	s = s.addTotals(source, func(t *Totals) { t.DamageDealt += amount })
	s = s.addTotals(target, func(t *Totals) { t.DamageTaken += amount })

	if cause == CauseHit && s.inAction {
		hit.Target = target
		hit.Damage = amount
		hit.Absorbed = absorbed
		hits := make([]HitRecord, len(s.draft.Hits), len(s.draft.Hits)+1)
		copy(hits, s.draft.Hits)
		s.draft.Hits = append(hits, hit)
		s.draft.Value += amount
	} else {
		s = s.record(Entry{
			Kind:   cause.entryKind(),
			Source: source,
			Target: target,
			Value:  amount,
			Detail: note,
		})
	}

	if len(depleted) > 0 {
		s = s.afterRemoval(depleted)
	}

	res := applied{Damage: amount, Absorbed: absorbed}
	if hpAfter <= 0 {
		s, res.Killed = s.resolveDeath(source, target)
	}
	return s, res
}

// resolveDeath publishes DeathPending for a unit at 0 hp. If no handler
// restored its hp the unit is defeated: its effects are removed, and it
// leaves the registry and the queue together with its summons.
func (s State) resolveDeath(source, target model.UnitID) (State, bool) {
	s = s.Publish(event.DeathPending{SourceID: source, Target: target})
	u, ok := s.units.Get(target)
	if !ok {
		return s, true
	}
	if u.Alive() {
		return s, false
	}

	names := make(map[model.UnitID]string)
	for _, sid := range append(s.units.SummonsOf(target), target) {
		su, ok := s.units.Get(sid)
		if !ok {
			continue
		}
		names[sid] = su.Name
		for _, e := range su.Effects {
			s = s.RemoveEffect(sid, e.ID)
		}
	}
	var removed []model.UnitID
	s.units, s.queue, removed = summon.RemoveWithSummons(s.units, s.queue, target)
	s = s.bump()

	for _, id := range removed {
		s = s.record(Entry{Kind: EntryDefeated, Source: source, Target: id, Detail: names[id]})
	}
	if killer, ok := s.units.Get(source); ok && !killer.IsEnemy && u.IsEnemy {
		s = s.GainEnergy(source, energy.KillEnergy, false)
	}
	for _, id := range removed {
		s = s.Publish(event.UnitDefeated{SourceID: source, Target: id, IsEnemy: u.IsEnemy})
	}
	return s.checkOutcome(), true
}

// DealDamage applies an already computed amount of additional damage.
func (s State) DealDamage(source, target model.UnitID, amount float64) State {
	s, _ = s.applyDamage(source, target, amount, CauseAdditional, HitRecord{}, "")
	return s
}

// Heal restores up to amount hp on target, capped at its max hp.
func (s State) Heal(source, target model.UnitID, amount float64) State {
	u, ok := s.units.Get(target)
	if !ok || !u.Alive() || amount <= 0 {
		return s
	}
	healed := min(amount, u.MaxHP()-u.HP)
	if healed <= 0 {
		return s
	}
	s.units = s.units.Update(target, func(u model.Unit) model.Unit {
		u.HP += healed
		return u
	})
	s.units = s.units.Update(source, func(u model.Unit) model.Unit {
		u.Healing += healed
		return u
	})
	s = s.bump()
	s = s.addTotals(source, func(t *Totals) { t.Healing += healed })
	s = s.record(Entry{Kind: EntryHeal, Source: source, Target: target, Value: healed})
	return s.Publish(event.HealApplied{SourceID: source, Target: target, Value: healed})
}

// GrantShield gives target a shield effect worth value for duration of
// target's turns.
func (s State) GrantShield(source, target model.UnitID, id string, value float64, duration int) State {
	if value <= 0 || !s.units.Has(target) {
		return s
	}
	kind := model.TurnStart
	if duration <= 0 {
		kind = model.Permanent
	}
	s = s.ApplyEffect(source, target, model.Effect{
		ID:        id,
		Name:      id,
		Category:  model.Buff,
		SourceID:  source,
		Duration:  kind,
		Remaining: duration,
		Shield:    value,
	})
	s = s.record(Entry{Kind: EntryShield, Source: source, Target: target, Value: value})
	return s.Publish(event.ShieldApplied{SourceID: source, Target: target, Value: value})
}

// Spawn adds a summon owned by owner.
func (s State) Spawn(owner model.UnitID, u model.Unit) State {
	units, queue, ok := summon.Spawn(s.units, s.queue, owner, u)
	if !ok {
		return s
	}
	s.units, s.queue = units, queue
	s = s.bump()
	s = s.record(Entry{Kind: EntrySummon, Source: owner, Target: u.ID})
	return s.Publish(event.SummonSpawned{SourceID: owner, Summon: u.ID})
}

// Dismiss removes a summon.
func (s State) Dismiss(id model.UnitID) State {
	if u, ok := s.units.Get(id); !ok || !u.IsSummon {
		return s
	}
	s.units, s.queue = summon.Dismiss(s.units, s.queue, id)
	return s.bump()
}

func (s State) checkOutcome() State {
	if s.outcome != Running {
		return s
	}
	switch {
	case len(s.units.AliveEnemies()) == 0:
		return s.finish(Victory)
	case len(s.units.AliveAllies()) == 0:
		return s.finish(Defeat)
	}
	return s
}
