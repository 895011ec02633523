package combat

import (
	"math"

	"github.com/udisondev/battlesim/internal/model"
)

// Heal returns the healing src grants dst, before the missing-hp cap.
func Heal(src, dst *model.Unit, spec model.HealSpec) float64 {
	base := ScalingValue(src, spec.Scaling)*spec.Multiplier + spec.Flat
	v := base *
		(1 + src.Stats.Get(model.StatOutgoingHealingBoost)) *
		(1 + dst.Stats.Get(model.StatIncomingHealBoost))
	return math.Max(0, v)
}

// ShieldValue returns the shield src grants.
func ShieldValue(src *model.Unit, spec model.ShieldSpec) float64 {
	base := ScalingValue(src, spec.Scaling)*spec.Multiplier + spec.Flat
	return math.Max(0, base*(1+src.Stats.Get(model.StatShieldStrengthBoost)))
}
