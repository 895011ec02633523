package combat

import (
	"math"
	"sort"

	"github.com/udisondev/battlesim/internal/model"
)

// levelMultipliers anchors the break level multiplier; values in between
// are interpolated linearly.
var levelMultipliers = []struct {
	level int
	mult  float64
}{
	{1, 54},
	{20, 100},
	{30, 231},
	{40, 502},
	{50, 774},
	{60, 1640},
	{70, 2660},
	{80, 3767.55},
}

// LevelMultiplier returns the break base damage for an attacker level.
func LevelMultiplier(lvl int) float64 {
	first, last := levelMultipliers[0], levelMultipliers[len(levelMultipliers)-1]
	if lvl <= first.level {
		return first.mult
	}
	if lvl >= last.level {
		return last.mult
	}
	i := sort.Search(len(levelMultipliers), func(i int) bool { return levelMultipliers[i].level >= lvl })
	hi, lo := levelMultipliers[i], levelMultipliers[i-1]
	if hi.level == lvl {
		return hi.mult
	}
	t := float64(lvl-lo.level) / float64(hi.level-lo.level)
	return lo.mult + t*(hi.mult-lo.mult)
}

// ElementBreakMultiplier returns the per-element break damage multiplier.
func ElementBreakMultiplier(el model.Element) float64 {
	switch el {
	case model.Physical, model.Fire:
		return 2.0
	case model.Wind:
		return 1.5
	case model.Quantum, model.Imaginary:
		return 0.5
	default:
		return 1.0
	}
}

// ToughnessMultiplier is 0.5 + maxToughness/40.
func ToughnessMultiplier(maxToughness float64) float64 {
	return 0.5 + maxToughness/40
}

// defenderSide is def * res * vuln for break-family damage.
func defenderSide(a, d *model.Unit, el model.Element, vulnKey model.StatKey) float64 {
	def := DefMultiplier(a, d, 0, 0)
	res := ResMultiplier(a, d, el, 0)
	vuln := 1 + d.Stats.Get(model.StatAllTypeVuln) + d.Stats.Get(model.VulnKey(el))
	if vulnKey != "" {
		vuln += d.Stats.Get(vulnKey)
	}
	return def * res * vuln
}

// BreakDamage is dealt when the attacker depletes the defender's toughness.
func BreakDamage(a, d *model.Unit) float64 {
	el := a.Element
	v := LevelMultiplier(Level(a)) *
		ElementBreakMultiplier(el) *
		(1 + a.Stats.Get(model.StatBreakEffect)) *
		(1 + a.Stats.Get(model.StatBreakDmgBoost)) *
		ToughnessMultiplier(d.MaxToughness) *
		defenderSide(a, d, el, model.StatBreakVuln) *
		BrokenMultiplier(d)
	return floor(v)
}

// SuperBreakDamage is extra break damage dealt on hits against a broken
// defender when the attacker has super break boost.
func SuperBreakDamage(a, d *model.Unit, toughnessReduction float64) float64 {
	boost := a.Stats.Get(model.StatSuperBreak)
	if boost <= 0 || toughnessReduction <= 0 {
		return 0
	}
	v := LevelMultiplier(Level(a)) *
		(toughnessReduction / 10) *
		boost *
		(1 + a.Stats.Get(model.StatBreakEffect)) *
		defenderSide(a, d, a.Element, model.StatBreakVuln) *
		BrokenMultiplier(d)
	return floor(v)
}

// BreakDoTBase returns the per-tick base of the DoT left by a weakness
// break of the given element, already scaled by break effect.
func BreakDoTBase(a *model.Unit, t model.DoTType) float64 {
	mult := 1.0
	if t == model.DoTShock {
		mult = 2.0
	}
	return LevelMultiplier(Level(a)) * mult * (1 + a.Stats.Get(model.StatBreakEffect))
}

// SnapshotDoT resolves an ATK-scaled DoT into a fixed per-tick base using
// the source's current stats and damage boosts.
func SnapshotDoT(a *model.Unit, dot model.DoT) model.DoT {
	dot.Element = a.Element
	dot.Level = Level(a)
	if dot.Fixed > 0 {
		return dot
	}
	boost := 1 + a.Stats.Get(model.DmgBoostKey(a.Element)) +
		a.Stats.Get(model.StatAllTypeDmgBoost) +
		a.Stats.Get(model.StatDoTDmgBoost)
	dot.Fixed = a.Stats.Get(model.StatATK) * dot.Multiplier * boost
	return dot
}

// DoTTick returns the damage of one DoT tick (times stacks) on d.
func DoTTick(d *model.Unit, dot model.DoT, stacks int) float64 {
	src := model.Unit{Level: dot.Level, Element: dot.Element}
	v := dot.Fixed * float64(max(stacks, 1)) *
		defenderSide(&src, d, dot.Element, model.StatDoTVuln) *
		BrokenMultiplier(d)
	return floor(v)
}

// AdditionalDamage is break-family extra damage (freeze, entanglement) with
// a precomputed base.
func AdditionalDamage(a, d *model.Unit, base float64) float64 {
	v := base * defenderSide(a, d, a.Element, "") * BrokenMultiplier(d)
	return floor(v)
}

// EffectChance returns the probability that a status lands.
// base * (1+EHR) * (1-effectRES) * (1-CC RES for crowd control).
func EffectChance(base float64, src, dst *model.Unit, crowdControl, ignoreRes bool) float64 {
	if ignoreRes {
		return base
	}
	p := base * (1 + src.Stats.Get(model.StatEffectHitRate)) * (1 - dst.Stats.Get(model.StatEffectRes))
	if crowdControl {
		p *= 1 - dst.Stats.Get(model.StatCrowdControlRes)
	}
	return math.Max(0, p)
}
