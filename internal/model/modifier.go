package model

import "fmt"

// ModKind defines how a modifier combines with the stat it targets.
type ModKind uint8

const (
	ModFlat    ModKind = iota // added after percentage scaling
	ModPercent                // added to the percentage bucket
	ModBase                   // added to the base value before scaling
)

func (k ModKind) String() string {
	switch k {
	case ModPercent:
		return "pct"
	case ModBase:
		return "base"
	default:
		return "add"
	}
}

func (k ModKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ModKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "add", "flat":
		*k = ModFlat
	case "pct", "percent":
		*k = ModPercent
	case "base":
		*k = ModBase
	default:
		return fmt.Errorf("unknown modifier kind %q", b)
	}
	return nil
}

// StackScaling controls whether a modifier value is multiplied by the
// stack count of the effect carrying it.
type StackScaling uint8

const (
	ScaleByStack StackScaling = iota
	ScaleFixed
)

func (s StackScaling) MarshalText() ([]byte, error) {
	if s == ScaleFixed {
		return []byte("fixed"), nil
	}
	return []byte("stack"), nil
}

func (s *StackScaling) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "stack":
		*s = ScaleByStack
	case "fixed":
		*s = ScaleFixed
	default:
		return fmt.Errorf("unknown stack scaling %q", b)
	}
	return nil
}

// Modifier is an atomic stat change.
type Modifier struct {
	Stat    StatKey      `yaml:"stat"`
	Value   float64      `yaml:"value"`
	Kind    ModKind      `yaml:"kind"`
	Source  string       `yaml:"source,omitempty"`
	Scaling StackScaling `yaml:"scaling,omitempty"`
	// Dynamic, when set, replaces Value with a function of the battle state.
	Dynamic *DynamicValue `yaml:"dynamic,omitempty"`
}

// Scaled returns the value contributed for the given stack count.
func (m Modifier) Scaled(value float64, stacks int) float64 {
	if m.Scaling == ScaleFixed || stacks <= 1 {
		return value
	}
	return value * float64(stacks)
}

// ConditionKind enumerates the supported stat conditions.
type ConditionKind uint8

const (
	CondAlways ConditionKind = iota
	CondStatAtLeast
	CondStatBelow
)

// Condition is evaluated against a unit's preliminary final stats.
type Condition struct {
	Kind      ConditionKind `yaml:"kind"`
	Stat      StatKey       `yaml:"stat"`
	Threshold float64       `yaml:"threshold"`
}

// Holds reports whether the condition is met for the given stats.
func (c Condition) Holds(s Stats) bool {
	switch c.Kind {
	case CondStatAtLeast:
		return s.Get(c.Stat) >= c.Threshold
	case CondStatBelow:
		return s.Get(c.Stat) < c.Threshold
	default:
		return true
	}
}

func (k *ConditionKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "stat_at_least", ">=":
		*k = CondStatAtLeast
	case "stat_below", "<":
		*k = CondStatBelow
	default:
		*k = CondAlways
	}
	return nil
}

// ConditionalModifier is applied in the second stat pass, only when its
// condition holds for the unit's preliminary stats.
type ConditionalModifier struct {
	When     Condition `yaml:"when"`
	Modifier Modifier  `yaml:"modifier"`
}

// DynamicKind enumerates the built-in dynamic value rules.
type DynamicKind uint8

const (
	// DynAnyAllyShielded yields Value while any living ally of the unit has a shield.
	DynAnyAllyShielded DynamicKind = iota + 1
	// DynPerStat yields Value per Per points of the unit's preliminary Stat, capped at Cap (0 = no cap).
	DynPerStat
	// DynCustom delegates to Custom.
	DynCustom
)

// ValueView is the read-only battle snapshot available to dynamic values.
type ValueView struct {
	Self  *Unit
	Stats Stats
	Units []Unit
}

// ValueRule is the strategy interface for dynamic values that the built-in
// kinds cannot express.
type ValueRule interface {
	Value(v ValueView) float64
}

// DynamicValue computes a modifier value from battle state.
type DynamicValue struct {
	Kind   DynamicKind `yaml:"kind"`
	Value  float64     `yaml:"value"`
	Stat   StatKey     `yaml:"stat,omitempty"`
	Per    float64     `yaml:"per,omitempty"`
	Cap    float64     `yaml:"cap,omitempty"`
	Custom ValueRule   `yaml:"-"`
}

// Eval returns the dynamic value. Unknown kinds evaluate to fallback.
func (d DynamicValue) Eval(v ValueView, fallback float64) float64 {
	switch d.Kind {
	case DynAnyAllyShielded:
		if v.Self == nil {
			return 0
		}
		for i := range v.Units {
			u := &v.Units[i]
			if u.IsEnemy == v.Self.IsEnemy && u.Alive() && u.Shield > 0 {
				return d.Value
			}
		}
		return 0
	case DynPerStat:
		if d.Per <= 0 {
			return fallback
		}
		out := float64(int(v.Stats.Get(d.Stat)/d.Per)) * d.Value
		if d.Cap > 0 && out > d.Cap {
			out = d.Cap
		}
		return out
	case DynCustom:
		if d.Custom == nil {
			return fallback
		}
		return d.Custom.Value(v)
	}
	return fallback
}

func (k *DynamicKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "any_ally_shielded":
		*k = DynAnyAllyShielded
	case "per_stat":
		*k = DynPerStat
	default:
		*k = DynCustom
	}
	return nil
}
