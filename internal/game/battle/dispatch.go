package battle

import (
	"log/slog"

	"github.com/udisondev/battlesim/internal/game/combat"
	"github.com/udisondev/battlesim/internal/game/energy"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

// Action is a request for source to use one of its abilities. Target is
// optional; an empty or invalid target is replaced by the default target.
type Action struct {
	Source  model.UnitID
	Ability model.AbilityKind
	Target  model.UnitID
}

// Dispatch resolves a into state changes and events in fixed phase order:
// checks, costs, hits/shields/heals, energy, transcript entry, the
// ability-specific event, the ability's side effects and ActionComplete.
//
// Failed checks leave the state unchanged apart from a rejected transcript
// entry.
func (s State) Dispatch(a Action) State {
	if s.outcome != Running {
		return s
	}
	src, ok := s.units.Get(a.Source)
	if !ok || !src.Alive() {
		return s.reject(a, "unknown or defeated source")
	}
	ab := src.Abilities.Get(a.Ability)
	if ab == nil {
		return s.reject(a, "ability not defined")
	}
	if !ab.Damage.HasHits() && ab.Heal == nil && ab.Shield == nil && len(ab.Effects) == 0 {
		return s.reject(a, "ability has no effect")
	}

	partySP := !src.IsEnemy
	switch a.Ability {
	case model.AbilitySkill:
		if src.HasTag(model.TagSkillSilence) {
			return s.reject(a, "skill silenced")
		}
		if partySP {
			if _, ok := s.sp.Spend(ab.SPCost); !ok {
				return s.reject(a, "insufficient skill points")
			}
		}
	case model.AbilityUltimate:
		if !energy.Ready(&src) {
			return s.reject(a, "insufficient energy")
		}
	}

	main := a.Target
	if t, ok := s.units.Get(main); !ok || !t.Alive() || !validTarget(&src, &t, ab.Target) {
		s, main = s.DefaultTarget(a.Source, ab)
	}
	targets := s.resolveTargets(a.Source, main, ab)
	if len(targets) == 0 {
		return s.reject(a, "no valid target")
	}

	// Costs.
	if a.Ability == model.AbilitySkill && partySP {
		s, _ = s.SpendSkillPoints(a.Source, ab.SPCost)
	}
	if a.Ability == model.AbilityUltimate {
		s.units = s.units.Update(a.Source, energy.Consume)
		s = s.bump()
	}

	s.inAction = true
	s.draft = Entry{
		Kind:    EntryAction,
		Source:  a.Source,
		Target:  main,
		Ability: a.Ability.String(),
		Detail:  ab.Name,
	}
	s = s.Publish(event.BeforeAction{SourceID: a.Source, Ability: a.Ability, Targets: targets})

	// Primary resolution.
	if ab.Damage.HasHits() {
		s = s.resolveHits(a.Source, a.Ability, ab, main, targets)
	}
	if ab.Shield != nil {
		s = s.resolveShields(a.Source, ab, targets)
	}
	if ab.Heal != nil {
		s = s.resolveHeals(a.Source, ab, targets)
	}

	// Resources gained by using the ability.
	s = s.GainEnergy(a.Source, ab.Energy.OnUse, false)
	if partySP && ab.SPGain > 0 {
		s = s.GainSkillPoints(a.Source, ab.SPGain)
	}

	draft := s.draft
	s.inAction, s.draft = false, Entry{}
	s = s.record(draft)
	s = s.addTotals(a.Source, func(t *Totals) { t.Actions++ })

	s = s.Publish(abilityEvent(a, main, targets, ab.Name))
	s = s.resolveEffects(a.Source, ab, targets)
	s = s.Publish(event.ActionComplete{SourceID: a.Source, Ability: a.Ability, Targets: targets})
	return s.checkOutcome()
}

func (s State) reject(a Action, reason string) State {
	slog.Debug("action rejected", "unit", a.Source, "ability", a.Ability.String(), "reason", reason)
	return s.record(Entry{
		Kind:    EntryRejected,
		Source:  a.Source,
		Target:  a.Target,
		Ability: a.Ability.String(),
		Detail:  reason,
	})
}

func validTarget(src, t *model.Unit, tt model.TargetType) bool {
	switch tt {
	case model.TargetAlly, model.TargetAllAllies, model.TargetSelf:
		return t.IsEnemy == src.IsEnemy
	default:
		return t.IsEnemy != src.IsEnemy && !t.Untargetable
	}
}

func abilityEvent(a Action, main model.UnitID, targets []model.UnitID, name string) event.Event {
	used := event.AbilityUsed{SourceID: a.Source, Target: main, Targets: targets, Name: name}
	switch a.Ability {
	case model.AbilitySkill:
		return event.SkillUsed{AbilityUsed: used}
	case model.AbilityUltimate:
		return event.UltimateUsed{AbilityUsed: used}
	case model.AbilityFollowUp, model.AbilityTalent:
		return event.FollowUpAttack{AbilityUsed: used}
	default:
		return event.BasicAttack{AbilityUsed: used}
	}
}

// resolveHits runs every declared hit. Blast interleaves main and adjacent
// hits by index; bounce re-targets a random enemy after the first hit.
func (s State) resolveHits(source model.UnitID, kind model.AbilityKind, ab *model.Ability, main model.UnitID, targets []model.UnitID) State {
	dmg := ab.Damage
	var adjacent []model.UnitID
	if ab.Target == model.TargetBlast {
		adjacent = s.units.Adjacent(main)
	}

	hitTargets := make(map[model.UnitID]struct{})
	n := max(len(dmg.Hits), len(dmg.Adjacent))
	for i := 0; i < n && s.outcome == Running; i++ {
		if i < len(dmg.Hits) {
			var ts []model.UnitID
			switch ab.Target {
			case model.TargetBounce:
				t := main
				if u, ok := s.units.Get(main); i > 0 || !ok || !u.Alive() {
					s, t = s.randomFoe(source)
				}
				if t != "" {
					ts = []model.UnitID{t}
				}
			case model.TargetBlast:
				ts = []model.UnitID{main}
			default:
				ts = targets
			}
			for _, t := range ts {
				hitTargets[t] = struct{}{}
				s = s.processHit(source, t, kind, dmg.Scaling, dmg.Hits[i], i)
			}
		}
		if i < len(dmg.Adjacent) {
			for _, t := range adjacent {
				hitTargets[t] = struct{}{}
				s = s.processHit(source, t, kind, dmg.Scaling, dmg.Adjacent[i], i)
			}
		}
	}

	if ab.Energy.ToTarget > 0 {
		for _, t := range s.units.IDs() {
			if _, hit := hitTargets[t]; hit {
				s = s.GainEnergy(t, ab.Energy.ToTarget, false)
			}
		}
	}
	return s
}

func (s State) randomFoe(source model.UnitID) (State, model.UnitID) {
	src, ok := s.units.Get(source)
	if !ok {
		return s, ""
	}
	foes := s.targetable(!src.IsEnemy)
	if len(foes) == 0 {
		return s, ""
	}
	return s, foes[s.rng.IntN(len(foes))].ID
}

// processHit computes and applies one hit on target, then handles
// toughness and weakness break.
func (s State) processHit(source, target model.UnitID, kind model.AbilityKind, scaling model.Scaling, h model.Hit, idx int) State {
	if t, ok := s.units.Get(target); !ok || !t.Alive() {
		return s
	}
	att, ok := s.units.Get(source)
	if !ok {
		return s
	}
	el := att.Element

	s.scratch = combat.Scratch{}
	s = s.Publish(event.BeforeDamage{SourceID: source, Target: target, Ability: kind, Element: el, HitIdx: idx})

	att, _ = s.units.Get(source)
	def, ok := s.units.Get(target)
	if !ok || !def.Alive() {
		s.scratch = combat.Scratch{}
		return s
	}

	res := combat.Damage(combat.Hit{
		Attacker:   &att,
		Defender:   &def,
		Ability:    kind,
		Element:    el,
		Scaling:    scaling,
		Multiplier: h.Multiplier,
		Mods:       s.scratch.Resolve(),
	}, &s.rng)
	s.scratch = combat.Scratch{}

	toughness := combat.ToughnessDamage(&att, &def, el, h.Toughness)
	wasBroken := def.Broken()

	s, out := s.applyDamage(source, target, res.Damage, CauseHit, HitRecord{Crit: res.Crit, Toughness: toughness}, "")
	s = s.Publish(event.DamageDealt{
		SourceID:  source,
		Target:    target,
		Ability:   kind,
		Element:   el,
		Value:     out.Damage,
		Absorbed:  out.Absorbed,
		Crit:      res.Crit,
		Toughness: toughness,
		HitIdx:    idx,
	})
	if out.Killed {
		return s
	}
	if idx == 0 {
		s = s.entangle(source, target)
	}
	if toughness <= 0 {
		return s
	}

	if wasBroken {
		def, ok = s.units.Get(target)
		if !ok {
			return s
		}
		if sb := combat.SuperBreakDamage(&att, &def, toughness); sb > 0 {
			s, _ = s.applyDamage(source, target, sb, CauseSuperBreak, HitRecord{}, "super_break")
		}
		return s
	}

	broke := false
	s.units = s.units.Update(target, func(u model.Unit) model.Unit {
		if u.Toughness <= 0 {
			return u
		}
		u.Toughness = max(0, u.Toughness-toughness)
		broke = u.Toughness == 0
		return u
	})
	s = s.bump()
	if broke {
		s = s.breakWeakness(source, target, el)
	}
	return s
}

func (s State) resolveShields(source model.UnitID, ab *model.Ability, targets []model.UnitID) State {
	src, ok := s.units.Get(source)
	if !ok {
		return s
	}
	value := combat.ShieldValue(&src, *ab.Shield)
	for _, t := range targets {
		s = s.GrantShield(source, t, "shield:"+string(source), value, ab.Shield.Duration)
	}
	return s
}

func (s State) resolveHeals(source model.UnitID, ab *model.Ability, targets []model.UnitID) State {
	for _, t := range targets {
		src, ok := s.units.Get(source)
		if !ok {
			return s
		}
		dst, ok := s.units.Get(t)
		if !ok {
			continue
		}
		s = s.Heal(source, t, combat.Heal(&src, &dst, *ab.Heal))
	}
	return s
}

// resolveEffects applies the ability's side effects, each gated by its
// application chance.
func (s State) resolveEffects(source model.UnitID, ab *model.Ability, targets []model.UnitID) State {
	rolls := max(ab.Rolls, 1)
	for _, spec := range ab.Effects {
		chance := spec.BaseChance
		if chance <= 0 {
			chance = 1
		}
		for _, t := range s.effectTargets(source, spec.Target, targets) {
			for range rolls {
				switch spec.Action {
				case model.Cleanse:
					if s2, ok := s.Roll(chance); ok {
						s = s2.Cleanse(t)
					} else {
						s = s2
					}
				case model.Dispel:
					if s2, ok := s.Roll(chance); ok {
						s = s2.Dispel(t)
					} else {
						s = s2
					}
				case model.Advance:
					s = s.ActionAdvance(t, spec.Amount)
				case model.Delay:
					if s2, ok := s.Roll(chance); ok {
						s = s2.Delay(t, spec.Amount)
					} else {
						s = s2
					}
				default:
					s = s.TryApplyEffect(source, t, spec.Effect, chance, spec.IgnoreResistance)
				}
			}
		}
	}
	return s
}

func (s State) effectTargets(source model.UnitID, to model.EffectTarget, targets []model.UnitID) []model.UnitID {
	src, ok := s.units.Get(source)
	if !ok {
		return nil
	}
	var out []model.UnitID
	switch to {
	case model.ToSelf:
		out = []model.UnitID{source}
	case model.ToAllAllies:
		out = ids(s.units.AliveSide(src.IsEnemy))
	case model.ToAllEnemies:
		out = ids(s.targetable(!src.IsEnemy))
	default:
		for _, t := range targets {
			if u, ok := s.units.Get(t); ok && u.Alive() {
				out = append(out, t)
			}
		}
	}
	return out
}
