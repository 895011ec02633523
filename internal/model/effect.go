package model

// Category classifies an effect for cleanse/dispel and chance rules.
type Category uint8

const (
	Buff Category = iota
	Debuff
	Status
)

func (c Category) String() string {
	switch c {
	case Debuff:
		return "debuff"
	case Status:
		return "status"
	default:
		return "buff"
	}
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(b []byte) error {
	switch string(b) {
	case "debuff", "DEBUFF":
		*c = Debuff
	case "status", "STATUS":
		*c = Status
	default:
		*c = Buff
	}
	return nil
}

// DurationKind defines when an effect's remaining duration ticks down.
type DurationKind uint8

const (
	Permanent DurationKind = iota
	// TurnStart ticks when the owning unit's turn starts.
	TurnStart
	// TurnEnd ticks when the owning unit's turn ends.
	TurnEnd
	// Linked lives as long as its parent effect.
	Linked
)

func (d DurationKind) String() string {
	switch d {
	case TurnStart:
		return "turn_start"
	case TurnEnd:
		return "turn_end"
	case Linked:
		return "linked"
	default:
		return "permanent"
	}
}

func (d DurationKind) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DurationKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "turn_start":
		*d = TurnStart
	case "turn_end":
		*d = TurnEnd
	case "linked":
		*d = Linked
	default:
		*d = Permanent
	}
	return nil
}

// EffectKind selects the payload an effect carries beyond its modifiers.
type EffectKind uint8

const (
	EffectPlain EffectKind = iota
	EffectDoT
	EffectShield
	EffectCrowdControl
)

// DoTType names the damage-over-time family.
type DoTType string

const (
	DoTBleed     DoTType = "bleed"
	DoTBurn      DoTType = "burn"
	DoTShock     DoTType = "shock"
	DoTWindShear DoTType = "wind_shear"
)

// CCType names the crowd-control statuses that skip a turn.
type CCType string

const (
	CCFreeze       CCType = "freeze"
	CCEntanglement CCType = "entanglement"
	CCImprisonment CCType = "imprisonment"
)

// Tag is a behavioral marker read by the turn loop.
type Tag string

const (
	TagSkipToughnessRecovery Tag = "skip_toughness_recovery"
	TagPreventTurnEnd        Tag = "prevent_turn_end"
	TagSkillSilence          Tag = "skill_silence"
	TagDebuffImmune          Tag = "debuff_immune"
)

// DoT describes periodic damage. Multiplier scales the source's ATK and is
// resolved into Fixed when the effect is applied; break DoTs set Fixed
// directly. Element and Level are the source's, for the defender-side
// multipliers at tick time.
type DoT struct {
	Type       DoTType `yaml:"type"`
	Multiplier float64 `yaml:"multiplier,omitempty"`
	Fixed      float64 `yaml:"fixed,omitempty"`
	Element    Element `yaml:"element"`
	Level      int     `yaml:"level,omitempty"`
}

// CrowdControl describes a turn-skipping status.
type CrowdControl struct {
	Type CCType `yaml:"type"`
	// DamagePerStack is dealt when the status consumes a turn, once per
	// stack. Element and Level are the inflicting unit's.
	DamagePerStack float64 `yaml:"damage_per_stack,omitempty"`
	Element        Element `yaml:"element"`
	Level          int     `yaml:"level,omitempty"`
	// ThawAdvance is the action advance granted when the status expires.
	ThawAdvance float64 `yaml:"thaw_advance,omitempty"`
}

// Effect is a timed or permanent modifier attached to a unit.
type Effect struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Category  Category     `yaml:"category"`
	SourceID  UnitID       `yaml:"source_id"`
	Duration  DurationKind `yaml:"duration_kind"`
	Remaining int          `yaml:"remaining"`
	Stacks    int          `yaml:"stacks"`
	MaxStacks int          `yaml:"max_stacks"`
	Modifiers []Modifier   `yaml:"modifiers,omitempty"`

	// SkipFirstTick exempts the effect from the next qualifying boundary.
	SkipFirstTick bool `yaml:"skip_first_tick,omitempty"`
	// Parent is the identity of the effect a Linked effect depends on.
	// ParentUnit is the unit carrying it; empty means the same unit.
	Parent     string `yaml:"parent,omitempty"`
	ParentUnit UnitID `yaml:"parent_unit,omitempty"`

	DoT    *DoT          `yaml:"dot,omitempty"`
	CC     *CrowdControl `yaml:"cc,omitempty"`
	Shield float64       `yaml:"shield,omitempty"`

	Tags        []Tag `yaml:"tags,omitempty"`
	Dispellable bool  `yaml:"dispellable,omitempty"`
	Cleansable  bool  `yaml:"cleansable,omitempty"`

	// Hook names an entry of the battle hook registry invoked on apply/remove.
	Hook string `yaml:"hook,omitempty"`
}

// Kind classifies the effect by its payload.
func (e *Effect) Kind() EffectKind {
	switch {
	case e.DoT != nil:
		return EffectDoT
	case e.CC != nil:
		return EffectCrowdControl
	case e.Shield > 0:
		return EffectShield
	}
	return EffectPlain
}

// HasTag reports whether the effect carries tag t.
func (e *Effect) HasTag(t Tag) bool {
	for _, x := range e.Tags {
		if x == t {
			return true
		}
	}
	return false
}

// Normalize clamps stack fields to their invariants.
func (e Effect) Normalize() Effect {
	if e.Stacks < 1 {
		e.Stacks = 1
	}
	if e.MaxStacks < 1 {
		e.MaxStacks = 1
	}
	if e.Stacks > e.MaxStacks {
		e.Stacks = e.MaxStacks
	}
	if e.Remaining < 0 {
		e.Remaining = 0
	}
	return e
}

// Clone returns a copy that shares no slices with e.
func (e Effect) Clone() Effect {
	if e.Modifiers != nil {
		e.Modifiers = append([]Modifier(nil), e.Modifiers...)
	}
	if e.Tags != nil {
		e.Tags = append([]Tag(nil), e.Tags...)
	}
	if e.DoT != nil {
		d := *e.DoT
		e.DoT = &d
	}
	if e.CC != nil {
		c := *e.CC
		e.CC = &c
	}
	return e
}
