package model

// UnitID identifies a combatant for the lifetime of a battle.
type UnitID string

// UltStrategy controls when a character casts its ultimate.
type UltStrategy string

const (
	// UltImmediate casts as soon as energy is full, interrupting the timeline.
	UltImmediate UltStrategy = "immediate"
	// UltCooldown casts only after the unit's own action, at most once per UltCooldown turns.
	UltCooldown UltStrategy = "cooldown"

	// DefaultUltStrategy applies when neither the table nor the scenario sets one.
	DefaultUltStrategy = UltCooldown
)

// Unit is a combatant: character, enemy or summon.
//
// Stats holds the final computed stats; it is derived data rebuilt by the
// stat calculator whenever Base, Modifiers or Effects change.
type Unit struct {
	ID      UnitID  `yaml:"id"`
	Name    string  `yaml:"name"`
	IsEnemy bool    `yaml:"is_enemy"`
	Element Element `yaml:"element"`
	Path    string  `yaml:"path,omitempty"`
	Level   int     `yaml:"level"`
	Eidolon int     `yaml:"eidolon,omitempty"`

	Base        Stats                 `yaml:"base"`
	Modifiers   []Modifier            `yaml:"modifiers,omitempty"`
	Conditional []ConditionalModifier `yaml:"conditional,omitempty"`
	Stats       Stats                 `yaml:"stats"`

	HP           float64    `yaml:"hp"`
	Shield       float64    `yaml:"shield"`
	Toughness    float64    `yaml:"toughness"`
	MaxToughness float64    `yaml:"max_toughness"`
	Weaknesses   ElementSet `yaml:"weaknesses,omitempty"`
	Energy       float64    `yaml:"energy"`

	Effects   []Effect   `yaml:"effects,omitempty"`
	Abilities AbilitySet `yaml:"abilities"`

	IsSummon     bool   `yaml:"is_summon,omitempty"`
	OwnerID      UnitID `yaml:"owner_id,omitempty"`
	Untargetable bool   `yaml:"untargetable,omitempty"`
	// FixedSpeed is the summon's own speed; all other stats come from the owner.
	FixedSpeed float64 `yaml:"fixed_speed,omitempty"`

	Rotation    []AbilityKind `yaml:"-"`
	RotationPos int           `yaml:"-"`
	UltStrategy UltStrategy   `yaml:"ult_strategy,omitempty"`
	UltCooldown int           `yaml:"ult_cooldown,omitempty"`
	UltReadyIn  int           `yaml:"-"`

	// Healing accumulates healing done; some abilities scale from it.
	Healing float64 `yaml:"healing"`
}

// Alive reports whether the unit has hp left.
func (u *Unit) Alive() bool { return u.HP > 0 }

// MaxHP returns the final max hp.
func (u *Unit) MaxHP() float64 { return u.Stats.Get(StatHP) }

// MaxEnergy returns the final max energy.
func (u *Unit) MaxEnergy() float64 { return u.Stats.Get(StatMaxEnergy) }

// Broken reports whether the unit has a toughness bar that is depleted.
func (u *Unit) Broken() bool { return u.MaxToughness > 0 && u.Toughness <= 0 }

// WeakTo reports whether the unit is weak to e.
func (u *Unit) WeakTo(e Element) bool { return u.Weaknesses.Has(e) }

// Effect returns the effect with the given id, if present.
func (u *Unit) Effect(id string) (Effect, bool) {
	for _, e := range u.Effects {
		if e.ID == id {
			return e, true
		}
	}
	return Effect{}, false
}

// HasEffect reports whether an effect with id is active.
func (u *Unit) HasEffect(id string) bool {
	_, ok := u.Effect(id)
	return ok
}

// HasTag reports whether any active effect carries tag t.
func (u *Unit) HasTag(t Tag) bool {
	for i := range u.Effects {
		if u.Effects[i].HasTag(t) {
			return true
		}
	}
	return false
}

// CrowdControl returns the first active turn-skipping effect.
func (u *Unit) CrowdControl() (Effect, bool) {
	for _, e := range u.Effects {
		if e.CC != nil {
			return e, true
		}
	}
	return Effect{}, false
}

// NextRotation returns the ability the rotation asks for this turn.
// Units without a rotation always use their basic attack.
func (u *Unit) NextRotation() AbilityKind {
	if len(u.Rotation) == 0 {
		return AbilityBasic
	}
	return u.Rotation[u.RotationPos%len(u.Rotation)]
}

// Clone returns a deep copy of u.
func (u Unit) Clone() Unit {
	u.Base = u.Base.Clone()
	if u.Stats != nil {
		u.Stats = u.Stats.Clone()
	}
	if u.Modifiers != nil {
		u.Modifiers = append([]Modifier(nil), u.Modifiers...)
	}
	if u.Conditional != nil {
		u.Conditional = append([]ConditionalModifier(nil), u.Conditional...)
	}
	if u.Effects != nil {
		effects := make([]Effect, len(u.Effects))
		for i := range u.Effects {
			effects[i] = u.Effects[i].Clone()
		}
		u.Effects = effects
	}
	if u.Rotation != nil {
		u.Rotation = append([]AbilityKind(nil), u.Rotation...)
	}
	return u
}

// ParseRotation converts rotation symbols ("b"/"basic", "s"/"skill") into
// ability kinds. ok is false on an unknown symbol.
func ParseRotation(symbols []string) ([]AbilityKind, bool) {
	out := make([]AbilityKind, 0, len(symbols))
	for _, s := range symbols {
		switch s {
		case "b", "basic":
			out = append(out, AbilityBasic)
		case "s", "skill":
			out = append(out, AbilitySkill)
		default:
			return nil, false
		}
	}
	return out, true
}
