// Package event defines the battle events handlers subscribe to.
//
// Event is a closed union: every kind has its own struct carrying exactly
// the fields that kind guarantees. Handlers switch on the concrete type.
package event

import "github.com/udisondev/battlesim/internal/model"

// Kind identifies an event type for subscriptions.
type Kind uint8

const (
	KindBattleStart Kind = iota + 1
	KindTurnStart
	KindTurnEnd
	KindTurnSkipped
	KindBeforeAction
	KindBasicAttack
	KindSkillUsed
	KindUltimateUsed
	KindFollowUpAttack
	KindBeforeDamage
	KindDamageDealt
	KindWeaknessBreak
	KindBreakRecoveryAttempt
	KindToughnessRecovered
	KindDoTDamage
	KindDeathPending
	KindUnitDefeated
	KindHealApplied
	KindShieldApplied
	KindEffectApplied
	KindEffectRemoved
	KindEnergyGained
	KindSkillPointsChanged
	KindSummonSpawned
	KindActionComplete
	kindCount
)

var kindNames = [...]string{
	KindBattleStart:          "battle_start",
	KindTurnStart:            "turn_start",
	KindTurnEnd:              "turn_end",
	KindTurnSkipped:          "turn_skipped",
	KindBeforeAction:         "before_action",
	KindBasicAttack:          "basic_attack",
	KindSkillUsed:            "skill_used",
	KindUltimateUsed:         "ultimate_used",
	KindFollowUpAttack:       "follow_up_attack",
	KindBeforeDamage:         "before_damage",
	KindDamageDealt:          "damage_dealt",
	KindWeaknessBreak:        "weakness_break",
	KindBreakRecoveryAttempt: "break_recovery_attempt",
	KindToughnessRecovered:   "toughness_recovered",
	KindDoTDamage:            "dot_damage",
	KindDeathPending:         "death_pending",
	KindUnitDefeated:         "unit_defeated",
	KindHealApplied:          "heal_applied",
	KindShieldApplied:        "shield_applied",
	KindEffectApplied:        "effect_applied",
	KindEffectRemoved:        "effect_removed",
	KindEnergyGained:         "energy_gained",
	KindSkillPointsChanged:   "skill_points_changed",
	KindSummonSpawned:        "summon_spawned",
	KindActionComplete:       "action_complete",
}

func (k Kind) String() string {
	if k == 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind resolves a kind name.
func ParseKind(s string) (Kind, bool) {
	for k := KindBattleStart; k < kindCount; k++ {
		if kindNames[k] == s {
			return k, true
		}
	}
	return 0, false
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, ok := ParseKind(string(b))
	if !ok {
		return &UnknownKindError{Name: string(b)}
	}
	*k = v
	return nil
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnknownKindError is returned when decoding an unknown event kind name.
type UnknownKindError struct{ Name string }

func (e *UnknownKindError) Error() string { return "unknown event kind " + e.Name }

// Event is a battle event.
type Event interface {
	Kind() Kind
	// Source is the unit the event is attributed to, if any.
	Source() model.UnitID
	sealed()
}

// BattleStart fires once before the first turn.
type BattleStart struct {
	SourceID model.UnitID
}

func (BattleStart) Kind() Kind             { return KindBattleStart }
func (e BattleStart) Source() model.UnitID { return e.SourceID }
func (BattleStart) sealed()                {}

// TurnStart fires when a unit's turn begins.
type TurnStart struct {
	SourceID model.UnitID
}

func (TurnStart) Kind() Kind             { return KindTurnStart }
func (e TurnStart) Source() model.UnitID { return e.SourceID }
func (TurnStart) sealed()                {}

// TurnEnd fires when a unit's turn ends normally.
type TurnEnd struct {
	SourceID model.UnitID
}

func (TurnEnd) Kind() Kind             { return KindTurnEnd }
func (e TurnEnd) Source() model.UnitID { return e.SourceID }
func (TurnEnd) sealed()                {}

// TurnSkipped fires when crowd control consumes a unit's turn.
type TurnSkipped struct {
	SourceID model.UnitID
	EffectID string
	CC       model.CCType
}

func (TurnSkipped) Kind() Kind             { return KindTurnSkipped }
func (e TurnSkipped) Source() model.UnitID { return e.SourceID }
func (TurnSkipped) sealed()                {}

// BeforeAction fires after costs are paid, before any hit.
type BeforeAction struct {
	SourceID model.UnitID
	Ability  model.AbilityKind
	Targets  []model.UnitID
}

func (BeforeAction) Kind() Kind             { return KindBeforeAction }
func (e BeforeAction) Source() model.UnitID { return e.SourceID }
func (BeforeAction) sealed()                {}

// AbilityUsed is the payload shared by the ability-specific events.
type AbilityUsed struct {
	SourceID model.UnitID
	Target   model.UnitID
	Targets  []model.UnitID
	Name     string
}

func (e AbilityUsed) Source() model.UnitID { return e.SourceID }
func (AbilityUsed) sealed()                {}

// BasicAttack fires after a basic attack resolved.
type BasicAttack struct{ AbilityUsed }

func (BasicAttack) Kind() Kind { return KindBasicAttack }

// SkillUsed fires after a skill resolved.
type SkillUsed struct{ AbilityUsed }

func (SkillUsed) Kind() Kind { return KindSkillUsed }

// UltimateUsed fires after an ultimate resolved.
type UltimateUsed struct{ AbilityUsed }

func (UltimateUsed) Kind() Kind { return KindUltimateUsed }

// FollowUpAttack fires after a follow-up attack resolved.
type FollowUpAttack struct{ AbilityUsed }

func (FollowUpAttack) Kind() Kind { return KindFollowUpAttack }

// BeforeDamage fires before each hit is computed. Handlers react by adding
// contributions to the damage scratch space.
type BeforeDamage struct {
	SourceID model.UnitID
	Target   model.UnitID
	Ability  model.AbilityKind
	Element  model.Element
	HitIdx   int
}

func (BeforeDamage) Kind() Kind             { return KindBeforeDamage }
func (e BeforeDamage) Source() model.UnitID { return e.SourceID }
func (BeforeDamage) sealed()                {}

// DamageDealt fires once per hit after it was applied.
type DamageDealt struct {
	SourceID  model.UnitID
	Target    model.UnitID
	Ability   model.AbilityKind
	Element   model.Element
	Value     float64
	Absorbed  float64
	Crit      bool
	Toughness float64
	HitIdx    int
}

func (DamageDealt) Kind() Kind             { return KindDamageDealt }
func (e DamageDealt) Source() model.UnitID { return e.SourceID }
func (DamageDealt) sealed()                {}

// WeaknessBreak fires once when a defender's toughness reaches zero.
type WeaknessBreak struct {
	SourceID model.UnitID
	Target   model.UnitID
	Element  model.Element
}

func (WeaknessBreak) Kind() Kind             { return KindWeaknessBreak }
func (e WeaknessBreak) Source() model.UnitID { return e.SourceID }
func (WeaknessBreak) sealed()                {}

// BreakRecoveryAttempt fires at a broken enemy's turn start before its
// toughness would recover.
type BreakRecoveryAttempt struct {
	SourceID model.UnitID
}

func (BreakRecoveryAttempt) Kind() Kind             { return KindBreakRecoveryAttempt }
func (e BreakRecoveryAttempt) Source() model.UnitID { return e.SourceID }
func (BreakRecoveryAttempt) sealed()                {}

// ToughnessRecovered fires when a broken enemy recovers its toughness.
type ToughnessRecovered struct {
	SourceID model.UnitID
}

func (ToughnessRecovered) Kind() Kind             { return KindToughnessRecovered }
func (e ToughnessRecovered) Source() model.UnitID { return e.SourceID }
func (ToughnessRecovered) sealed()                {}

// DoTDamage fires after a damage-over-time tick.
type DoTDamage struct {
	SourceID model.UnitID
	Target   model.UnitID
	EffectID string
	DoT      model.DoTType
	Value    float64
}

func (DoTDamage) Kind() Kind             { return KindDoTDamage }
func (e DoTDamage) Source() model.UnitID { return e.SourceID }
func (DoTDamage) sealed()                {}

// DeathPending fires when a unit's hp reaches zero, before it is defeated.
// A handler may restore hp to keep the unit alive.
type DeathPending struct {
	SourceID model.UnitID
	Target   model.UnitID
}

func (DeathPending) Kind() Kind             { return KindDeathPending }
func (e DeathPending) Source() model.UnitID { return e.SourceID }
func (DeathPending) sealed()                {}

// UnitDefeated fires after a unit was removed from battle.
type UnitDefeated struct {
	SourceID model.UnitID
	Target   model.UnitID
	IsEnemy  bool
}

func (UnitDefeated) Kind() Kind             { return KindUnitDefeated }
func (e UnitDefeated) Source() model.UnitID { return e.SourceID }
func (UnitDefeated) sealed()                {}

// HealApplied fires after healing reached a unit.
type HealApplied struct {
	SourceID model.UnitID
	Target   model.UnitID
	Value    float64
}

func (HealApplied) Kind() Kind             { return KindHealApplied }
func (e HealApplied) Source() model.UnitID { return e.SourceID }
func (HealApplied) sealed()                {}

// ShieldApplied fires after a shield was granted.
type ShieldApplied struct {
	SourceID model.UnitID
	Target   model.UnitID
	Value    float64
}

func (ShieldApplied) Kind() Kind             { return KindShieldApplied }
func (e ShieldApplied) Source() model.UnitID { return e.SourceID }
func (ShieldApplied) sealed()                {}

// EffectApplied fires after an effect was added or merged.
type EffectApplied struct {
	SourceID model.UnitID
	Target   model.UnitID
	EffectID string
	Category model.Category
	Stacks   int
}

func (EffectApplied) Kind() Kind             { return KindEffectApplied }
func (e EffectApplied) Source() model.UnitID { return e.SourceID }
func (EffectApplied) sealed()                {}

// EffectRemoved fires after an effect was removed.
type EffectRemoved struct {
	SourceID model.UnitID
	Target   model.UnitID
	EffectID string
	Category model.Category
}

func (EffectRemoved) Kind() Kind             { return KindEffectRemoved }
func (e EffectRemoved) Source() model.UnitID { return e.SourceID }
func (EffectRemoved) sealed()                {}

// EnergyGained fires after a unit gained energy.
type EnergyGained struct {
	SourceID model.UnitID
	Value    float64
}

func (EnergyGained) Kind() Kind             { return KindEnergyGained }
func (e EnergyGained) Source() model.UnitID { return e.SourceID }
func (EnergyGained) sealed()                {}

// SkillPointsChanged fires after the party pool changed. Overflow is the
// attempted gain the cap discarded.
type SkillPointsChanged struct {
	SourceID  model.UnitID
	Attempted int
	Applied   int
	Overflow  int
	Total     int
}

func (SkillPointsChanged) Kind() Kind             { return KindSkillPointsChanged }
func (e SkillPointsChanged) Source() model.UnitID { return e.SourceID }
func (SkillPointsChanged) sealed()                {}

// SummonSpawned fires after a summon joined the battle.
type SummonSpawned struct {
	SourceID model.UnitID
	Summon   model.UnitID
}

func (SummonSpawned) Kind() Kind             { return KindSummonSpawned }
func (e SummonSpawned) Source() model.UnitID { return e.SourceID }
func (SummonSpawned) sealed()                {}

// ActionComplete fires after an action and all its side effects resolved.
type ActionComplete struct {
	SourceID model.UnitID
	Ability  model.AbilityKind
	Targets  []model.UnitID
}

func (ActionComplete) Kind() Kind             { return KindActionComplete }
func (e ActionComplete) Source() model.UnitID { return e.SourceID }
func (ActionComplete) sealed()                {}

// TargetOf returns the unit an event is directed at, for the kinds that
// carry one.
func TargetOf(ev Event) (model.UnitID, bool) {
	switch e := ev.(type) {
	case BasicAttack:
		return e.Target, true
	case SkillUsed:
		return e.Target, true
	case UltimateUsed:
		return e.Target, true
	case FollowUpAttack:
		return e.Target, true
	case BeforeDamage:
		return e.Target, true
	case DamageDealt:
		return e.Target, true
	case WeaknessBreak:
		return e.Target, true
	case DoTDamage:
		return e.Target, true
	case DeathPending:
		return e.Target, true
	case UnitDefeated:
		return e.Target, true
	case HealApplied:
		return e.Target, true
	case ShieldApplied:
		return e.Target, true
	case EffectApplied:
		return e.Target, true
	case EffectRemoved:
		return e.Target, true
	case SummonSpawned:
		return e.Summon, true
	}
	return "", false
}
