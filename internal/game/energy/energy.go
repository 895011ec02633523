// Package energy implements per-unit energy and the party skill-point pool.
package energy

import (
	"math"

	"github.com/udisondev/battlesim/internal/model"
)

const (
	// DefaultMaxSkillPoints is the party skill-point cap.
	DefaultMaxSkillPoints = 5
	// DefaultSkillPoints is the pool at battle start.
	DefaultSkillPoints = 3
	// KillEnergy is granted to a character that defeats an enemy.
	KillEnergy = 10
	// DefaultInitialRatio is the share of max energy characters start with.
	DefaultInitialRatio = 0.5
)

// Gain adds base*(1+energy regen rate) to u, clamped to its max energy.
// It returns the updated unit and the amount actually gained.
func Gain(u model.Unit, base float64) (model.Unit, float64) {
	if base <= 0 {
		return u, 0
	}
	return GainFlat(u, base*(1+u.Stats.Get(model.StatEnergyRegenRate)))
}

// GainFlat adds amount without energy regen scaling.
func GainFlat(u model.Unit, amount float64) (model.Unit, float64) {
	maxEP := u.MaxEnergy()
	if amount <= 0 || maxEP <= 0 {
		return u, 0
	}
	next := math.Min(maxEP, u.Energy+amount)
	gained := next - u.Energy
	u.Energy = next
	return u, gained
}

// Ready reports whether u can cast its ultimate.
func Ready(u *model.Unit) bool {
	maxEP := u.MaxEnergy()
	return maxEP > 0 && u.Energy >= maxEP-1e-9 && u.Abilities.Ultimate != nil
}

// Consume empties u's energy after an ultimate.
func Consume(u model.Unit) model.Unit {
	u.Energy = 0
	return u
}

// Initial sets u's starting energy to ratio of its max.
func Initial(u model.Unit, ratio float64) model.Unit {
	u.Energy = math.Max(0, math.Min(1, ratio)) * u.MaxEnergy()
	return u
}

// SkillPoints is the shared party pool.
type SkillPoints struct {
	Current int
	Max     int
}

// Change reports a pool adjustment. Overflow is the part of an attempted
// gain that the cap discarded.
type Change struct {
	Attempted int
	Applied   int
	Overflow  int
}

// Add changes the pool by n (negative spends), clamped to [0, Max].
func (p SkillPoints) Add(n int) (SkillPoints, Change) {
	next := min(max(p.Current+n, 0), p.Max)
	c := Change{Attempted: n, Applied: next - p.Current}
	if n > 0 {
		c.Overflow = n - c.Applied
	}
	p.Current = next
	return p, c
}

// Spend removes n points. ok is false, and the pool unchanged, when fewer
// than n are available.
func (p SkillPoints) Spend(n int) (SkillPoints, bool) {
	if n <= 0 {
		return p, true
	}
	if p.Current < n {
		return p, false
	}
	p.Current -= n
	return p, true
}
