// Package combat holds the damage, break, healing and shield formulas.
//
// Functions take final unit stats and return numbers; applying them to a
// unit is the battle dispatcher's job.
package combat

import (
	"math"

	"github.com/udisondev/battlesim/internal/model"
	"github.com/udisondev/battlesim/internal/rng"
)

const (
	// MaxResistance caps the effective resistance after penetration.
	MaxResistance = 0.9
	// UnbrokenMultiplier applies while the defender still has toughness.
	UnbrokenMultiplier = 0.9
	// DefaultLevel is used for units without a level.
	DefaultLevel = 80
)

// Hit describes one damage instance to compute.
type Hit struct {
	Attacker   *model.Unit
	Defender   *model.Unit
	Ability    model.AbilityKind
	Element    model.Element
	Scaling    model.Scaling
	Multiplier float64
	Mods       Mods
}

// HitResult is the outcome of a computed hit.
type HitResult struct {
	Damage float64
	Crit   bool
	// Expected is the damage with crit averaged in, before flooring.
	Expected float64
}

// ScalingValue returns the stat an ability figure scales from.
func ScalingValue(u *model.Unit, s model.Scaling) float64 {
	switch s {
	case model.ScaleDEF:
		return u.Stats.Get(model.StatDEF)
	case model.ScaleHP:
		return u.Stats.Get(model.StatHP)
	case model.ScaleHealing:
		return u.Healing
	default:
		return u.Stats.Get(model.StatATK)
	}
}

// Damage computes a single hit. The crit roll consumes one value from r
// unless the crit rate is <= 0 or >= 1.
func Damage(h Hit, r *rng.Stream) HitResult {
	a, d := h.Attacker, h.Defender

	base := ScalingValue(a, h.Scaling) * (h.Multiplier + h.Mods.Multiplier)

	critRate := a.Stats.Get(model.StatCritRate) + h.Mods.CritRate
	critDmg := a.Stats.Get(model.StatCritDmg) + h.Mods.CritDmg
	crit := r.Roll(critRate)
	critMult := 1.0
	if crit {
		critMult = 1 + critDmg
	}
	expectedCrit := 1 + math.Max(0, math.Min(critRate, 1))*critDmg

	boost := DmgBoostMultiplier(a, h.Ability, h.Element, h.Mods.DmgBoost)
	weaken := math.Max(0, 1-a.Stats.Get(model.StatDmgDealtDown))
	def := DefMultiplier(a, d, h.Mods.DefReduction, h.Mods.DefIgnore)
	res := ResMultiplier(a, d, h.Element, h.Mods.ResPen)
	vuln := VulnMultiplier(d, h.Ability, h.Element, h.Mods.Vuln)
	mitigation := math.Max(0, 1-d.Stats.Get(model.StatDmgTakenDown))
	broken := BrokenMultiplier(d)
	final := 1 + h.Mods.Final

	rest := base * boost * weaken * def * res * vuln * mitigation * broken * final
	return HitResult{
		Damage:   floor(rest * critMult),
		Crit:     crit,
		Expected: rest * expectedCrit,
	}
}

// DmgBoostMultiplier is 1 + element boost + ability-type boost + all-type
// boost + extra.
func DmgBoostMultiplier(a *model.Unit, kind model.AbilityKind, el model.Element, extra float64) float64 {
	boost := a.Stats.Get(model.DmgBoostKey(el)) + a.Stats.Get(model.StatAllTypeDmgBoost) + extra
	if k := kind.DmgBoostKey(); k != "" {
		boost += a.Stats.Get(k)
	}
	return 1 + boost
}

// DefMultiplier returns 1 - DEF'/(DEF' + 200 + 10*attackerLevel), where
// DEF' is the defender's DEF reduced by def-reduction and def-ignore.
func DefMultiplier(a, d *model.Unit, extraReduction, extraIgnore float64) float64 {
	reduction := d.Stats.Get(model.StatDefReduction) + extraReduction
	ignore := a.Stats.Get(model.StatDefIgnore) + extraIgnore
	def := d.Stats.Get(model.StatDEF) * math.Max(0, 1-reduction-ignore)
	k := 200 + 10*float64(Level(a))
	return 1 - def/(def+k)
}

// ResMultiplier returns 1 - min(res - pen, MaxResistance).
func ResMultiplier(a, d *model.Unit, el model.Element, extraPen float64) float64 {
	res := d.Stats.Get(model.ResKey(el))
	pen := a.Stats.Get(model.ResPenKey(el)) + a.Stats.Get(model.StatAllTypeResPen) + extraPen
	return 1 - math.Min(res-pen, MaxResistance)
}

// VulnMultiplier returns 1 + the defender's applicable vulnerability stats.
func VulnMultiplier(d *model.Unit, kind model.AbilityKind, el model.Element, extra float64) float64 {
	v := d.Stats.Get(model.StatAllTypeVuln) + d.Stats.Get(model.VulnKey(el)) + extra
	if k := kind.VulnKey(); k != "" {
		v += d.Stats.Get(k)
	}
	return 1 + v
}

// BrokenMultiplier is 1 while the defender is broken or has no toughness
// bar, UnbrokenMultiplier otherwise.
func BrokenMultiplier(d *model.Unit) float64 {
	if d.MaxToughness <= 0 || d.Toughness <= 0 {
		return 1
	}
	return UnbrokenMultiplier
}

// ToughnessDamage returns the toughness a hit removes. Only hits of an
// element the defender is weak to reduce toughness.
func ToughnessDamage(a, d *model.Unit, el model.Element, amount float64) float64 {
	if amount <= 0 || d.MaxToughness <= 0 || !d.WeakTo(el) {
		return 0
	}
	return amount * (1 + a.Stats.Get(model.StatBreakEfficiency))
}

// Level returns the unit level used by formulas, defaulting to DefaultLevel.
func Level(u *model.Unit) int {
	if u.Level <= 0 {
		return DefaultLevel
	}
	return u.Level
}

// floor rounds damage down, absorbing float noise just below an integer.
func floor(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Floor(v + 1e-9)
}
