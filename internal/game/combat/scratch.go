package combat

import (
	"fmt"
	"slices"
)

// Slot is a field of the per-hit damage modifier scratch space.
type Slot string

const (
	SlotDmgBoost     Slot = "dmg_boost"
	SlotDefIgnore    Slot = "def_ignore"
	SlotDefReduction Slot = "def_reduction"
	SlotResPen       Slot = "res_pen"
	SlotVuln         Slot = "vuln"
	SlotCritRate     Slot = "crit_rate"
	SlotCritDmg      Slot = "crit_dmg"
	// SlotMultiplier is added to the hit's ability multiplier.
	SlotMultiplier Slot = "multiplier"
	// SlotFinal is an extra (1+x) factor on the final damage.
	SlotFinal Slot = "final"
)

// Combine declares how a contribution merges with others on the same slot.
type Combine uint8

const (
	// CombineAdd sums with other additive contributions.
	CombineAdd Combine = iota
	// CombineMax keeps only the largest max-contribution, added to the sum.
	CombineMax
	// CombineOverride replaces the slot; the highest Priority wins, then
	// the larger value, then the lexically smaller source.
	CombineOverride
)

func (c *Combine) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "add":
		*c = CombineAdd
	case "max":
		*c = CombineMax
	case "override":
		*c = CombineOverride
	default:
		return fmt.Errorf("unknown combine mode %q", b)
	}
	return nil
}

// Contribution is one rule's write into the scratch space for a single
// damage instance.
type Contribution struct {
	Slot     Slot    `yaml:"slot"`
	Value    float64 `yaml:"value"`
	Combine  Combine `yaml:"combine"`
	Priority int     `yaml:"priority"`
	Source   string  `yaml:"source"`
}

// Scratch collects contributions for the damage instance being computed.
// It is cleared between instances. Its resolution does not depend on the
// order contributions were added.
type Scratch struct {
	items []Contribution
}

// Add returns a scratch with c appended.
func (s Scratch) Add(c Contribution) Scratch {
	items := make([]Contribution, len(s.items), len(s.items)+1)
	copy(items, s.items)
	s.items = append(items, c)
	return s
}

// Len returns the number of contributions.
func (s Scratch) Len() int { return len(s.items) }

// Contributions returns a copy of the collected contributions.
func (s Scratch) Contributions() []Contribution { return slices.Clone(s.items) }

// Resolve folds contributions into per-slot totals.
func (s Scratch) Resolve() Mods {
	var m Mods
	for _, slot := range []Slot{
		SlotDmgBoost, SlotDefIgnore, SlotDefReduction, SlotResPen,
		SlotVuln, SlotCritRate, SlotCritDmg, SlotMultiplier, SlotFinal,
	} {
		m.set(slot, s.resolveSlot(slot))
	}
	return m
}

func (s Scratch) resolveSlot(slot Slot) float64 {
	var (
		sum      float64
		best     float64
		hasMax   bool
		override *Contribution
	)
	for i := range s.items {
		c := &s.items[i]
		if c.Slot != slot {
			continue
		}
		switch c.Combine {
		case CombineOverride:
			if override == nil || overrides(c, override) {
				override = c
			}
		case CombineMax:
			if !hasMax || c.Value > best {
				best, hasMax = c.Value, true
			}
		default:
			sum += c.Value
		}
	}
	if override != nil {
		return override.Value
	}
	return sum + best
}

func overrides(a, b *Contribution) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.Value != b.Value {
		return a.Value > b.Value
	}
	return a.Source < b.Source
}

// Mods are resolved scratch totals applied on top of unit stats.
type Mods struct {
	DmgBoost     float64
	DefIgnore    float64
	DefReduction float64
	ResPen       float64
	Vuln         float64
	CritRate     float64
	CritDmg      float64
	Multiplier   float64
	Final        float64
}

func (m *Mods) set(slot Slot, v float64) {
	switch slot {
	case SlotDmgBoost:
		m.DmgBoost = v
	case SlotDefIgnore:
		m.DefIgnore = v
	case SlotDefReduction:
		m.DefReduction = v
	case SlotResPen:
		m.ResPen = v
	case SlotVuln:
		m.Vuln = v
	case SlotCritRate:
		m.CritRate = v
	case SlotCritDmg:
		m.CritDmg = v
	case SlotMultiplier:
		m.Multiplier = v
	case SlotFinal:
		m.Final = v
	}
}
