package model

// StatKey identifies a unit statistic.
type StatKey string

const (
	StatHP     StatKey = "hp"
	StatATK    StatKey = "atk"
	StatDEF    StatKey = "def"
	StatSPD    StatKey = "spd"
	StatHPPct  StatKey = "hp_pct"
	StatATKPct StatKey = "atk_pct"
	StatDEFPct StatKey = "def_pct"
	StatSPDPct StatKey = "spd_pct"
	StatAggro  StatKey = "aggro"

	StatCritRate        StatKey = "crit_rate"
	StatCritDmg         StatKey = "crit_dmg"
	StatEffectHitRate   StatKey = "effect_hit_rate"
	StatEffectRes       StatKey = "effect_res"
	StatCrowdControlRes StatKey = "crowd_control_res"
	StatBreakEffect     StatKey = "break_effect"
	StatEnergyRegenRate StatKey = "energy_regen_rate"
	StatMaxEnergy       StatKey = "max_ep"

	StatOutgoingHealingBoost StatKey = "outgoing_healing_boost"
	StatIncomingHealBoost    StatKey = "incoming_heal_boost"
	StatShieldStrengthBoost  StatKey = "shield_strength_boost"

	StatBasicDmgBoost    StatKey = "basic_atk_dmg_boost"
	StatSkillDmgBoost    StatKey = "skill_dmg_boost"
	StatUltDmgBoost      StatKey = "ult_dmg_boost"
	StatFollowUpDmgBoost StatKey = "fua_dmg_boost"
	StatDoTDmgBoost      StatKey = "dot_dmg_boost"
	StatAllTypeDmgBoost  StatKey = "all_type_dmg_boost"
	StatDmgDealtDown     StatKey = "all_dmg_dealt_reduction"
	StatBreakDmgBoost    StatKey = "break_dmg_boost"
	StatSuperBreak       StatKey = "super_break_dmg_boost"

	StatAllTypeResPen   StatKey = "all_type_res_pen"
	StatAllTypeVuln     StatKey = "all_type_vuln"
	StatDmgTakenDown    StatKey = "dmg_taken_reduction"
	StatDefReduction    StatKey = "def_reduction"
	StatDefIgnore       StatKey = "def_ignore"
	StatBreakEfficiency StatKey = "break_efficiency_boost"

	StatBasicVuln    StatKey = "basic_dmg_taken_boost"
	StatSkillVuln    StatKey = "skill_dmg_taken_boost"
	StatUltVuln      StatKey = "ult_dmg_taken_boost"
	StatFollowUpVuln StatKey = "fua_dmg_taken_boost"
	StatDoTVuln      StatKey = "dot_dmg_taken_boost"
	StatBreakVuln    StatKey = "break_dmg_taken_boost"
)

// DmgBoostKey returns the element damage boost stat, e.g. "fire_dmg_boost".
func DmgBoostKey(e Element) StatKey { return StatKey(e.String() + "_dmg_boost") }

// ResKey returns the element resistance stat.
func ResKey(e Element) StatKey { return StatKey(e.String() + "_res") }

// ResPenKey returns the element resistance penetration stat.
func ResPenKey(e Element) StatKey { return StatKey(e.String() + "_res_pen") }

// VulnKey returns the element vulnerability stat.
func VulnKey(e Element) StatKey { return StatKey(e.String() + "_dmg_taken_boost") }

// IsScaled reports whether the stat is one of HP/ATK/DEF/SPD, whose
// percentage modifiers multiply the base value.
func IsScaled(k StatKey) bool {
	switch k {
	case StatHP, StatATK, StatDEF, StatSPD:
		return true
	}
	return false
}

// PercentOf maps a scaled stat to its percentage key ("atk" -> "atk_pct").
func PercentOf(k StatKey) StatKey { return k + "_pct" }

// BaseOfPercent maps a percentage key back to the scaled stat. ok is false
// when k is not the percentage key of a scaled stat.
func BaseOfPercent(k StatKey) (StatKey, bool) {
	switch k {
	case StatHPPct:
		return StatHP, true
	case StatATKPct:
		return StatATK, true
	case StatDEFPct:
		return StatDEF, true
	case StatSPDPct:
		return StatSPD, true
	}
	return "", false
}

// Stats is a sparse stat table. Missing keys read as zero.
// Stats values are never mutated once shared; use Clone before writing.
type Stats map[StatKey]float64

// Get returns the stat value or 0.
func (s Stats) Get(k StatKey) float64 { return s[k] }

// Clone returns an independent copy.
func (s Stats) Clone() Stats {
	out := make(Stats, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
