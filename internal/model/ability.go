package model

// AbilityKind identifies one slot of a unit's ability set.
type AbilityKind uint8

const (
	AbilityBasic AbilityKind = iota
	AbilitySkill
	AbilityUltimate
	AbilityTalent
	AbilityTechnique
	AbilityFollowUp
)

func (k AbilityKind) String() string {
	switch k {
	case AbilitySkill:
		return "skill"
	case AbilityUltimate:
		return "ultimate"
	case AbilityTalent:
		return "talent"
	case AbilityTechnique:
		return "technique"
	case AbilityFollowUp:
		return "follow_up"
	default:
		return "basic"
	}
}

// DmgBoostKey returns the ability-type damage boost stat.
func (k AbilityKind) DmgBoostKey() StatKey {
	switch k {
	case AbilityBasic:
		return StatBasicDmgBoost
	case AbilitySkill:
		return StatSkillDmgBoost
	case AbilityUltimate:
		return StatUltDmgBoost
	case AbilityFollowUp, AbilityTalent:
		return StatFollowUpDmgBoost
	}
	return ""
}

// VulnKey returns the ability-type vulnerability stat on the defender.
func (k AbilityKind) VulnKey() StatKey {
	switch k {
	case AbilityBasic:
		return StatBasicVuln
	case AbilitySkill:
		return StatSkillVuln
	case AbilityUltimate:
		return StatUltVuln
	case AbilityFollowUp, AbilityTalent:
		return StatFollowUpVuln
	}
	return ""
}

// TargetType is the shape of an ability's targeting.
type TargetType string

const (
	TargetSingle     TargetType = "single"
	TargetBlast      TargetType = "blast"
	TargetAllEnemies TargetType = "all_enemies"
	TargetBounce     TargetType = "bounce"
	TargetAlly       TargetType = "ally"
	TargetSelf       TargetType = "self"
	TargetAllAllies  TargetType = "all_allies"
)

// Scaling is the stat a damage/heal/shield figure scales from.
type Scaling string

const (
	ScaleATK     Scaling = "atk"
	ScaleDEF     Scaling = "def"
	ScaleHP      Scaling = "hp"
	ScaleHealing Scaling = "healing" // accumulated healing done by the source
)

// Hit is a single damage instance.
type Hit struct {
	Multiplier float64 `yaml:"multiplier"`
	Toughness  float64 `yaml:"toughness"`
}

// DamageSpec declares the hits of an ability. Hits land on the main target
// (or a random enemy each for bounce, or every enemy for all_enemies);
// Adjacent hits land on neighbours of the main target for blast.
type DamageSpec struct {
	Scaling  Scaling `yaml:"scaling"`
	Hits     []Hit   `yaml:"hits"`
	Adjacent []Hit   `yaml:"adjacent,omitempty"`
}

// HasHits reports whether d deals any hit. A nil spec has none.
func (d *DamageSpec) HasHits() bool {
	return d != nil && (len(d.Hits) > 0 || len(d.Adjacent) > 0)
}

// ShieldSpec declares a shield granted to the ability's targets.
type ShieldSpec struct {
	Scaling    Scaling `yaml:"scaling"`
	Multiplier float64 `yaml:"multiplier"`
	Flat       float64 `yaml:"flat"`
	Duration   int     `yaml:"duration"`
}

// HealSpec declares healing granted to the ability's targets.
type HealSpec struct {
	Scaling    Scaling `yaml:"scaling"`
	Multiplier float64 `yaml:"multiplier"`
	Flat       float64 `yaml:"flat"`
}

// EffectTarget selects who receives an ability's effect.
type EffectTarget string

const (
	ToTargets    EffectTarget = "target"
	ToSelf       EffectTarget = "self"
	ToAllAllies  EffectTarget = "all_allies"
	ToAllEnemies EffectTarget = "all_enemies"
)

// EffectAction is what an ability effect entry does.
type EffectAction string

const (
	ApplyEffect EffectAction = "apply"
	Cleanse     EffectAction = "cleanse"
	Dispel      EffectAction = "dispel"
	Advance     EffectAction = "advance"
	Delay       EffectAction = "delay"
)

// EffectSpec is a chance-gated side effect of an ability.
type EffectSpec struct {
	Action     EffectAction `yaml:"action"`
	Target     EffectTarget `yaml:"target"`
	BaseChance float64      `yaml:"base_chance"`
	// IgnoreResistance rolls against BaseChance only.
	IgnoreResistance bool `yaml:"ignore_resistance"`
	// Amount is the action advance/delay fraction for Advance/Delay.
	Amount float64 `yaml:"amount,omitempty"`
	Effect Effect  `yaml:"effect"`
}

// EnergySpec declares energy gains tied to an ability.
type EnergySpec struct {
	OnUse float64 `yaml:"on_use"`
	// ToTarget is granted to each unit hit (energy from being attacked).
	ToTarget float64 `yaml:"to_target"`
	OnKill   float64 `yaml:"on_kill"`
}

// Ability is the declarative description of one ability.
type Ability struct {
	Kind    AbilityKind  `yaml:"-"`
	Name    string       `yaml:"name"`
	Target  TargetType   `yaml:"target"`
	Damage  *DamageSpec  `yaml:"damage,omitempty"`
	Shield  *ShieldSpec  `yaml:"shield,omitempty"`
	Heal    *HealSpec    `yaml:"heal,omitempty"`
	Effects []EffectSpec `yaml:"effects,omitempty"`
	Energy  EnergySpec   `yaml:"energy"`
	SPCost  int          `yaml:"sp_cost"`
	SPGain  int          `yaml:"sp_gain"`

	// Rolls is the number of effect application rolls; defaults to 1.
	Rolls int `yaml:"rolls,omitempty"`
}

// AbilitySet holds a unit's abilities. Nil entries are absent.
type AbilitySet struct {
	Basic     *Ability `yaml:"basic,omitempty"`
	Skill     *Ability `yaml:"skill,omitempty"`
	Ultimate  *Ability `yaml:"ultimate,omitempty"`
	Talent    *Ability `yaml:"talent,omitempty"`
	Technique *Ability `yaml:"technique,omitempty"`
	FollowUp  *Ability `yaml:"follow_up,omitempty"`
}

// Get returns the ability in slot k, or nil.
func (s AbilitySet) Get(k AbilityKind) *Ability {
	var a *Ability
	switch k {
	case AbilityBasic:
		a = s.Basic
	case AbilitySkill:
		a = s.Skill
	case AbilityUltimate:
		a = s.Ultimate
	case AbilityTalent:
		a = s.Talent
	case AbilityTechnique:
		a = s.Technique
	case AbilityFollowUp:
		a = s.FollowUp
		if a == nil {
			a = s.Talent
		}
	}
	return a
}
