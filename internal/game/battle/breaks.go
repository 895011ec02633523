package battle

import (
	"github.com/udisondev/battlesim/internal/game/combat"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

const (
	// breakDelay is the action delay every weakness break inflicts.
	breakDelay = 0.25
	// breakEffectChance is the base chance of the elemental break status.
	breakEffectChance = 1.5
	breakDoTTurns     = 2
	freezeThaw        = 0.5
	entanglementCap   = 5
	bleedEliteRatio   = 0.07
	imprisonSlow      = -0.10
)

// BreakEffectID returns the effect id of the break status of an element.
func BreakEffectID(el model.Element) string { return "break:" + el.String() }

// breakWeakness runs the consequences of toughness reaching zero: the
// WeaknessBreak event, break damage, the delay and the elemental status.
func (s State) breakWeakness(source, target model.UnitID, el model.Element) State {
	s = s.addTotals(source, func(t *Totals) { t.Breaks++ })
	s = s.Publish(event.WeaknessBreak{SourceID: source, Target: target, Element: el})

	att, ok := s.units.Get(source)
	if !ok {
		return s
	}
	def, ok := s.units.Get(target)
	if !ok || !def.Alive() {
		return s
	}
	s, out := s.applyDamage(source, target, combat.BreakDamage(&att, &def), CauseBreak, HitRecord{}, "")
	if out.Killed {
		return s
	}
	s = s.Delay(target, breakDelay)

	def, _ = s.units.Get(target)
	e, delay := breakEffect(&att, &def)
	had := def.HasEffect(e.ID)
	s = s.TryApplyEffect(source, target, e, breakEffectChance, false)
	if u, ok := s.units.Get(target); ok && delay > 0 && !had && u.HasEffect(e.ID) {
		s = s.Delay(target, delay)
	}
	return s
}

// breakEffect builds the elemental status a break by a inflicts on d and
// the extra delay it carries.
func breakEffect(a, d *model.Unit) (model.Effect, float64) {
	be := a.Stats.Get(model.StatBreakEffect)
	level := combat.Level(a)
	lvl := combat.LevelMultiplier(level)
	tough := combat.ToughnessMultiplier(d.MaxToughness)
	e := model.Effect{
		ID:         BreakEffectID(a.Element),
		Category:   model.Debuff,
		SourceID:   a.ID,
		Stacks:     1,
		MaxStacks:  1,
		Cleansable: true,
	}

	dot := func(t model.DoTType, base float64) (model.Effect, float64) {
		e.Name = string(t)
		e.Duration = model.TurnStart
		e.Remaining = breakDoTTurns
		e.DoT = &model.DoT{Type: t, Fixed: base, Element: a.Element, Level: level}
		return e, 0
	}
	cc := func(t model.CCType, perStack, thaw float64) model.Effect {
		e.Name = string(t)
		e.Duration = model.Permanent
		e.Remaining = 1
		e.CC = &model.CrowdControl{
			Type:           t,
			DamagePerStack: perStack,
			Element:        a.Element,
			Level:          level,
			ThawAdvance:    thaw,
		}
		return e
	}

	switch a.Element {
	case model.Physical:
		base := min(bleedEliteRatio*d.MaxHP(), 2*lvl*tough) * (1 + be)
		return dot(model.DoTBleed, base)
	case model.Fire:
		return dot(model.DoTBurn, combat.BreakDoTBase(a, model.DoTBurn))
	case model.Lightning:
		return dot(model.DoTShock, combat.BreakDoTBase(a, model.DoTShock))
	case model.Wind:
		return dot(model.DoTWindShear, combat.BreakDoTBase(a, model.DoTWindShear))
	case model.Ice:
		return cc(model.CCFreeze, lvl*(1+be), freezeThaw), 0
	case model.Quantum:
		e := cc(model.CCEntanglement, 0.6*lvl*(1+be)*tough, 0)
		e.MaxStacks = entanglementCap
		return e, 0.2 * (1 + be)
	default:
		e := cc(model.CCImprisonment, 0, 0)
		e.Modifiers = []model.Modifier{{Stat: model.StatSPDPct, Value: imprisonSlow, Source: e.ID}}
		return e, 0.3 * (1 + be)
	}
}

// entangle adds one stack to an entanglement on target when it is hit.
func (s State) entangle(source, target model.UnitID) State {
	u, ok := s.units.Get(target)
	if !ok {
		return s
	}
	e, ok := u.CrowdControl()
	if !ok || e.CC.Type != model.CCEntanglement || e.Stacks >= e.MaxStacks {
		return s
	}
	add := e.Clone()
	add.Stacks = 1
	return s.ApplyEffect(source, target, add)
}
