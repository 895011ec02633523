// Package stat turns a unit's base stats, permanent modifiers and active
// effect modifiers into final effective stats.
package stat

import "github.com/udisondev/battlesim/internal/model"

// MinSpeed is the floor applied to computed speed so action values stay finite.
const MinSpeed = 1.0

// accumulator collects contributions for one stat pass.
type accumulator struct {
	base model.Stats
	pct  map[model.StatKey]float64
	flat map[model.StatKey]float64
}

func newAccumulator(base model.Stats) *accumulator {
	return &accumulator{
		base: base.Clone(),
		pct:  make(map[model.StatKey]float64, 8),
		flat: make(map[model.StatKey]float64, 16),
	}
}

// add routes a modifier value into its bucket.
//
// Percentage contributions only multiply HP/ATK/DEF/SPD. A flat modifier on
// a percentage key ("atk_pct") lands in the percentage bucket of its stat.
// On every other stat the percentage is additive.
func (a *accumulator) add(stat model.StatKey, kind model.ModKind, v float64) {
	if kind == model.ModBase {
		a.base[stat] += v
		return
	}
	if scaled, ok := model.BaseOfPercent(stat); ok {
		a.pct[scaled] += v
		return
	}
	if kind == model.ModPercent && model.IsScaled(stat) {
		a.pct[stat] += v
		return
	}
	a.flat[stat] += v
}

// finalize applies final = base*(1+pct)+flat to HP/ATK/DEF/SPD and
// base+flat to everything else.
func (a *accumulator) finalize() model.Stats {
	out := make(model.Stats, len(a.base)+len(a.flat))
	for k, v := range a.base {
		if _, ok := model.BaseOfPercent(k); ok {
			continue
		}
		out[k] = v
	}
	for k, v := range a.flat {
		out[k] += v
	}
	for _, k := range []model.StatKey{model.StatHP, model.StatATK, model.StatDEF, model.StatSPD} {
		pct := a.pct[k]
		if bp := a.base[model.PercentOf(k)]; bp != 0 {
			pct += bp
		}
		out[k] = a.base[k]*(1+pct) + a.flat[k]
	}
	if out[model.StatSPD] < MinSpeed {
		out[model.StatSPD] = MinSpeed
	}
	return out
}

// Compute returns u's final stats. units is the battle roster, read by
// dynamic modifiers only.
//
// Pass one sums base stats, permanent modifiers and static effect
// modifiers. Pass two evaluates dynamic values and conditional modifiers
// against the preliminary result of pass one, then recomputes.
func Compute(u *model.Unit, units []model.Unit) model.Stats {
	acc := newAccumulator(u.Base)

	var deferred []contribution
	collect := func(m model.Modifier, stacks int) {
		if m.Dynamic != nil {
			deferred = append(deferred, contribution{mod: m, stacks: stacks})
			return
		}
		acc.add(m.Stat, m.Kind, m.Scaled(m.Value, stacks))
	}
	for _, m := range u.Modifiers {
		collect(m, 1)
	}
	for i := range u.Effects {
		e := &u.Effects[i]
		for _, m := range e.Modifiers {
			collect(m, e.Stacks)
		}
	}

	if len(deferred) == 0 && len(u.Conditional) == 0 {
		return acc.finalize()
	}

	prelim := acc.finalize()
	view := model.ValueView{Self: u, Stats: prelim, Units: units}
	for _, c := range deferred {
		v := c.mod.Dynamic.Eval(view, c.mod.Value)
		acc.add(c.mod.Stat, c.mod.Kind, c.mod.Scaled(v, c.stacks))
	}
	for _, cm := range u.Conditional {
		if cm.When.Holds(prelim) {
			m := cm.Modifier
			acc.add(m.Stat, m.Kind, m.Scaled(m.Value, 1))
		}
	}
	return acc.finalize()
}

type contribution struct {
	mod    model.Modifier
	stacks int
}

// Inherit returns the stats of a summon: the owner's final stats verbatim
// except for speed, which is the summon's own fixed value adjusted by its
// own active speed modifiers.
func Inherit(owner model.Stats, summon *model.Unit) model.Stats {
	out := owner.Clone()
	spd := summon.FixedSpeed
	if spd == 0 {
		spd = summon.Base.Get(model.StatSPD)
	}
	pct, flat := 0.0, 0.0
	for i := range summon.Effects {
		e := &summon.Effects[i]
		for _, m := range e.Modifiers {
			v := m.Scaled(m.Value, e.Stacks)
			switch {
			case m.Stat == model.StatSPDPct, m.Stat == model.StatSPD && m.Kind == model.ModPercent:
				pct += v
			case m.Stat == model.StatSPD:
				flat += v
			}
		}
	}
	spd = spd*(1+pct) + flat
	if spd < MinSpeed {
		spd = MinSpeed
	}
	out[model.StatSPD] = spd
	return out
}
