package battle

import (
	"log/slog"

	"github.com/udisondev/battlesim/internal/game/combat"
	"github.com/udisondev/battlesim/internal/game/effect"
	"github.com/udisondev/battlesim/internal/game/energy"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

// Step runs the next turn: time advances to the next ready unit, ready
// ultimates interrupt, then the unit acts. Step is a no-op once the battle
// has an outcome.
func (s State) Step() State {
	if s.outcome != Running {
		return s
	}
	if s.turn >= s.opts.MaxTurns {
		return s.finish(Timeout)
	}
	next, ok := s.queue.Next()
	if !ok || s.queue.Clock()+next.AV > s.opts.TimeLimit() {
		return s.finish(Timeout)
	}

	q, entry, _ := s.queue.AdvanceToNext()
	s.queue = q
	s.turn++

	s = s.castUltimates()
	if s.outcome != Running {
		return s
	}
	if u, ok := s.units.Get(entry.ID); !ok || !u.Alive() {
		return s
	}
	s = s.takeTurn(entry.ID)
	s = s.castUltimates()
	return s.checkOutcome()
}

func (s State) takeTurn(id model.UnitID) State {
	s.queue = s.queue.BeginTurn(id)
	s = s.bump()
	s = s.Publish(event.TurnStart{SourceID: id})
	s = s.tickDoTs(id)
	if !s.units.Has(id) || s.outcome != Running {
		return s
	}
	s = s.tickEffects(id, model.TurnStart)

	u, _ := s.units.Get(id)
	if cc, ok := u.CrowdControl(); ok {
		return s.skipTurn(id, cc)
	}

	if u.IsEnemy && u.Broken() {
		s = s.Publish(event.BreakRecoveryAttempt{SourceID: id})
		u, _ = s.units.Get(id)
		if e, held := tagged(&u, model.TagSkipToughnessRecovery); held {
			return s.skipTurn(id, e)
		}
		if u.Broken() {
			s.units = s.units.Update(id, func(u model.Unit) model.Unit {
				u.Toughness = u.MaxToughness
				return u
			})
			s = s.bump()
			s = s.record(Entry{Kind: EntryToughnessRecovered, Source: id, Value: u.MaxToughness})
			s = s.Publish(event.ToughnessRecovered{SourceID: id})
		}
	}

	s = s.act(id)
	for range maxExtraActions {
		u, ok := s.units.Get(id)
		if !ok || s.outcome != Running || !u.HasTag(model.TagPreventTurnEnd) {
			break
		}
		s = s.act(id)
	}
	if s.outcome == Running {
		s = s.castOwnUltimate(id)
	}
	return s.endTurn(id)
}

// act dispatches the unit's chosen action and drains what it queued.
func (s State) act(id model.UnitID) State {
	u, ok := s.units.Get(id)
	if !ok {
		return s
	}
	s = s.Dispatch(Action{Source: id, Ability: s.chooseAbility(&u)})
	return s.drainPending()
}

// chooseAbility follows the unit's rotation. A skill falls back to the
// basic attack when silenced or when the party cannot pay for it.
func (s State) chooseAbility(u *model.Unit) model.AbilityKind {
	kind := u.NextRotation()
	if kind != model.AbilitySkill {
		return kind
	}
	skill := u.Abilities.Skill
	switch {
	case skill == nil, u.HasTag(model.TagSkillSilence):
		return model.AbilityBasic
	case !u.IsEnemy && s.sp.Current < skill.SPCost:
		return model.AbilityBasic
	}
	return kind
}

func (s State) endTurn(id model.UnitID) State {
	if !s.units.Has(id) {
		return s
	}
	s = s.Publish(event.TurnEnd{SourceID: id})
	s = s.tickEffects(id, model.TurnEnd)
	s = s.tickCooldowns(id)
	u, ok := s.units.Get(id)
	if !ok {
		return s
	}
	s.units = s.units.Update(id, func(u model.Unit) model.Unit {
		if len(u.Rotation) > 0 {
			u.RotationPos = (u.RotationPos + 1) % len(u.Rotation)
		}
		if u.UltReadyIn > 0 {
			u.UltReadyIn--
		}
		return u
	})
	s.queue = s.queue.EndTurn(id, u.Stats.Get(model.StatSPD))
	return s.bump()
}

// skipTurn consumes a turn to crowd control or a held break: the status
// deals its damage and loses one turn of duration, and the unit goes back
// to a full action value without a TurnEnd.
func (s State) skipTurn(id model.UnitID, cc model.Effect) State {
	if cc.CC != nil && cc.CC.DamagePerStack > 0 {
		src := model.Unit{ID: cc.SourceID, Element: cc.CC.Element, Level: cc.CC.Level}
		if live, ok := s.units.Get(cc.SourceID); ok {
			src = live
			src.Element, src.Level = cc.CC.Element, cc.CC.Level
		}
		u, _ := s.units.Get(id)
		dmg := combat.AdditionalDamage(&src, &u, cc.CC.DamagePerStack*float64(cc.Stacks))
		var out applied
		s, out = s.applyDamage(cc.SourceID, id, dmg, CauseAdditional, HitRecord{}, cc.ID)
		if out.Killed {
			return s
		}
	}

	thaw := 0.0
	units, removed := effect.TickOne(s.units, id, cc.ID)
	s.units = units
	s = s.bump()
	if len(removed) > 0 {
		s = s.afterRemoval(removed)
		if cc.CC != nil {
			thaw = cc.CC.ThawAdvance
		}
	}

	u, ok := s.units.Get(id)
	if !ok {
		return s
	}
	s.queue = s.queue.EndTurn(id, u.Stats.Get(model.StatSPD))
	s = s.bump()
	if thaw > 0 {
		s = s.ActionAdvance(id, thaw)
	}
	s = s.tickCooldowns(id)

	var ccType model.CCType
	if cc.CC != nil {
		ccType = cc.CC.Type
	}
	s = s.record(Entry{Kind: EntryTurnSkipped, Source: id, Detail: cc.ID})
	return s.Publish(event.TurnSkipped{SourceID: id, EffectID: cc.ID, CC: ccType})
}

// tickDoTs deals one tick of every damage-over-time effect on id.
func (s State) tickDoTs(id model.UnitID) State {
	u, ok := s.units.Get(id)
	if !ok {
		return s
	}
	for _, e := range u.Effects {
		if e.DoT == nil {
			continue
		}
		cur, ok := s.units.Get(id)
		if !ok || !cur.Alive() {
			return s
		}
		if !cur.HasEffect(e.ID) {
			continue
		}
		dmg := combat.DoTTick(&cur, *e.DoT, e.Stacks)
		var out applied
		s, out = s.applyDamage(e.SourceID, id, dmg, CauseDoT, HitRecord{}, e.ID)
		s = s.Publish(event.DoTDamage{
			SourceID: e.SourceID,
			Target:   id,
			EffectID: e.ID,
			DoT:      e.DoT.Type,
			Value:    out.Damage,
		})
		if out.Killed {
			return s
		}
	}
	return s
}

// castUltimates lets every character whose ultimate is ready and set to
// fire immediately cast it, in registry order.
func (s State) castUltimates() State {
	for _, id := range s.units.IDs() {
		if s.outcome != Running {
			return s
		}
		u, ok := s.units.Get(id)
		if !ok || u.IsEnemy || !u.Alive() {
			continue
		}
		if u.UltStrategy != model.UltImmediate {
			continue
		}
		if !energy.Ready(&u) {
			continue
		}
		s = s.Dispatch(Action{Source: id, Ability: model.AbilityUltimate})
		s = s.drainPending()
	}
	return s
}

// castOwnUltimate casts the acting unit's ultimate under the cooldown
// strategy, which is also what an unset strategy means.
func (s State) castOwnUltimate(id model.UnitID) State {
	u, ok := s.units.Get(id)
	if !ok || u.IsEnemy || u.UltStrategy == model.UltImmediate || u.UltReadyIn > 0 || !energy.Ready(&u) {
		return s
	}
	s = s.Dispatch(Action{Source: id, Ability: model.AbilityUltimate})
	s.units = s.units.Update(id, func(u model.Unit) model.Unit {
		u.UltReadyIn = u.UltCooldown
		return u
	})
	s = s.bump()
	return s.drainPending()
}

// drainPending executes actions handlers queued, in order. Actions queued
// while draining run in the same pass, up to MaxPending in total.
func (s State) drainPending() State {
	for i := 0; len(s.pending) > 0; i++ {
		if i >= s.opts.MaxPending {
			slog.Warn("pending actions dropped", "count", len(s.pending))
			s.pending = nil
			return s.bump()
		}
		if s.outcome != Running {
			s.pending = nil
			return s.bump()
		}
		p := s.pending[0]
		s.pending = s.pending[1:]
		s = s.bump()
		switch p.Kind {
		case PendingFollowUp:
			s = s.Dispatch(Action{Source: p.Source, Ability: model.AbilityFollowUp, Target: p.Target})
		case PendingUltimate:
			s = s.Dispatch(Action{Source: p.Source, Ability: model.AbilityUltimate, Target: p.Target})
		case PendingAdvance:
			s = s.ActionAdvance(p.Source, p.Amount)
		}
	}
	return s
}

func (s State) finish(o Outcome) State {
	if s.outcome != Running {
		return s
	}
	s.outcome = o
	s = s.bump()
	return s.record(Entry{Kind: EntryOutcome, Detail: string(o)})
}

func tagged(u *model.Unit, t model.Tag) (model.Effect, bool) {
	for _, e := range u.Effects {
		if e.HasTag(t) {
			return e, true
		}
	}
	return model.Effect{}, false
}
