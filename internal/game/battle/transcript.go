package battle

import "github.com/udisondev/battlesim/internal/model"

// EntryKind classifies a transcript entry.
type EntryKind string

const (
	EntryBattleStart        EntryKind = "battle_start"
	EntryAction             EntryKind = "action"
	EntryRejected           EntryKind = "rejected"
	EntryTurnSkipped        EntryKind = "turn_skipped"
	EntryDoT                EntryKind = "dot"
	EntryBreak              EntryKind = "break"
	EntryAdditionalDamage   EntryKind = "additional_damage"
	EntryHeal               EntryKind = "heal"
	EntryShield             EntryKind = "shield"
	EntryEffectApplied      EntryKind = "effect_applied"
	EntryEffectRemoved      EntryKind = "effect_removed"
	EntryToughnessRecovered EntryKind = "toughness_recovered"
	EntryDefeated           EntryKind = "defeated"
	EntrySummon             EntryKind = "summon"
	EntryOutcome            EntryKind = "outcome"
)

// HitRecord is one hit of an action entry.
type HitRecord struct {
	Target    model.UnitID `yaml:"target" json:"target"`
	Damage    float64      `yaml:"damage" json:"damage"`
	Absorbed  float64      `yaml:"absorbed,omitempty" json:"absorbed,omitempty"`
	Crit      bool         `yaml:"crit,omitempty" json:"crit,omitempty"`
	Toughness float64      `yaml:"toughness,omitempty" json:"toughness,omitempty"`
}

// Entry is one line of the battle narrative.
type Entry struct {
	Seq     int          `yaml:"seq" json:"seq"`
	Time    float64      `yaml:"time" json:"time"`
	Turn    int          `yaml:"turn" json:"turn"`
	Kind    EntryKind    `yaml:"kind" json:"kind"`
	Source  model.UnitID `yaml:"source,omitempty" json:"source,omitempty"`
	Target  model.UnitID `yaml:"target,omitempty" json:"target,omitempty"`
	Ability string       `yaml:"ability,omitempty" json:"ability,omitempty"`
	Value   float64      `yaml:"value,omitempty" json:"value,omitempty"`
	Hits    []HitRecord  `yaml:"hits,omitempty" json:"hits,omitempty"`
	Detail  string       `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// Transcript is a persistent append-only log. Appending to a transcript
// shares storage with its ancestors as long as no sibling appended first;
// a fork copies the prefix once.
//
// A Transcript must not be appended to from several goroutines.
type Transcript struct {
	buf *transcriptBuffer
	n   int
}

type transcriptBuffer struct {
	entries []Entry
}

// Append returns a transcript with e added; e.Seq is assigned.
func (t Transcript) Append(e Entry) Transcript {
	if t.buf == nil {
		t.buf = &transcriptBuffer{entries: make([]Entry, 0, 64)}
	}
	if len(t.buf.entries) != t.n {
		entries := make([]Entry, t.n, t.n*2+1)
		copy(entries, t.buf.entries[:t.n])
		t.buf = &transcriptBuffer{entries: entries}
	}
	e.Seq = t.n
	t.buf.entries = append(t.buf.entries, e)
	t.n++
	return t
}

// Len returns the number of entries.
func (t Transcript) Len() int { return t.n }

// Entries returns the entries. The slice must not be modified.
func (t Transcript) Entries() []Entry {
	if t.buf == nil {
		return nil
	}
	return t.buf.entries[:t.n:t.n]
}

// Last returns the most recent entry.
func (t Transcript) Last() (Entry, bool) {
	if t.n == 0 {
		return Entry{}, false
	}
	return t.buf.entries[t.n-1], true
}
