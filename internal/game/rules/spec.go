package rules

import (
	"errors"
	"fmt"

	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/combat"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

// Party selects event participants relative to the rule owner.
type Party string

const (
	PartyAny Party = ""
	// PartySelf is the owner or one of its summons.
	PartySelf      Party = "self"
	PartyAlly      Party = "ally"
	PartyOtherAlly Party = "other_ally"
	PartyEnemy     Party = "enemy"
)

// Recipient selects the units a reaction affects.
type Recipient string

const (
	ToOwner   Recipient = "self"
	ToSource  Recipient = "source"
	ToTarget  Recipient = "target"
	ToAllies  Recipient = "all_allies"
	ToEnemies Recipient = "all_enemies"
)

// ReactionKind is what a reaction does.
type ReactionKind string

const (
	ReactApplyEffect  ReactionKind = "apply_effect"
	ReactRemoveEffect ReactionKind = "remove_effect"
	ReactEnergy       ReactionKind = "energy"
	ReactSkillPoints  ReactionKind = "skill_points"
	ReactAdvance      ReactionKind = "advance"
	ReactFollowUp     ReactionKind = "follow_up"
	ReactHeal         ReactionKind = "heal"
	ReactShield       ReactionKind = "shield"
	ReactDamageMod    ReactionKind = "damage_mod"
	ReactDamage       ReactionKind = "damage"
)

// Reaction is one step of a rule's response to an event.
type Reaction struct {
	Kind ReactionKind `yaml:"kind"`
	To   Recipient    `yaml:"to"`

	// Effect is applied by apply_effect; its id defaults to the rule's.
	Effect *model.Effect `yaml:"effect,omitempty"`
	// EffectID is removed by remove_effect.
	EffectID string `yaml:"effect_id,omitempty"`
	// Chance is the base application chance of apply_effect; 0 always lands.
	Chance float64 `yaml:"chance,omitempty"`

	// Amount is energy, skill points, the advance fraction (negative
	// delays), or the multiplier of heal, shield and damage.
	Amount   float64       `yaml:"amount,omitempty"`
	Scaling  model.Scaling `yaml:"scaling,omitempty"`
	Duration int           `yaml:"duration,omitempty"`

	// Contribution is written by damage_mod during BeforeDamage.
	Contribution combat.Contribution `yaml:"contribution,omitempty"`
}

// Spec is a declarative rule: when one of On fires with a matching source
// and target, and When holds for the owner, run Do in order.
type Spec struct {
	Name     string           `yaml:"name"`
	On       []event.Kind     `yaml:"on"`
	Source   Party            `yaml:"source,omitempty"`
	Target   Party            `yaml:"target,omitempty"`
	When     *model.Condition `yaml:"when,omitempty"`
	Cooldown int              `yaml:"cooldown,omitempty"`
	Do       []Reaction       `yaml:"do"`
}

var (
	ErrNoTrigger  = errors.New("rule has no trigger")
	ErrNoReaction = errors.New("rule has no reaction")
)

// Validate checks that the spec can be bound.
func (sp Spec) Validate() error {
	if len(sp.On) == 0 {
		return ErrNoTrigger
	}
	if len(sp.Do) == 0 {
		return ErrNoReaction
	}
	for i, re := range sp.Do {
		switch re.Kind {
		case ReactApplyEffect:
			if re.Effect == nil {
				return fmt.Errorf("reaction %d: apply_effect without effect", i)
			}
		case ReactRemoveEffect:
			if re.EffectID == "" {
				return fmt.Errorf("reaction %d: remove_effect without effect_id", i)
			}
		case ReactDamageMod:
			if !containsKind(sp.On, event.KindBeforeDamage) {
				return fmt.Errorf("reaction %d: damage_mod outside before_damage", i)
			}
		case ReactEnergy, ReactSkillPoints, ReactAdvance, ReactFollowUp, ReactHeal, ReactShield, ReactDamage:
		default:
			return fmt.Errorf("reaction %d: unknown kind %q", i, re.Kind)
		}
	}
	return nil
}

// Rule is a Spec bound to an owner.
type Rule struct {
	base
	spec Spec
}

// NewRule binds spec to owner under id.
func NewRule(owner model.UnitID, id string, spec Spec) (battle.Handler, error) {
	if id == "" {
		id = spec.Name
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("rule %q: %w", id, err)
	}
	return Rule{base: newBase(id, owner, spec.Cooldown, spec.On...), spec: spec}, nil
}

func (r Rule) Handle(ev event.Event, s battle.State) battle.State {
	owner, ok := r.ownerAlive(s)
	if !ok {
		return s
	}
	if !r.matches(s, &owner, ev.Source(), r.spec.Source) {
		return s
	}
	target, hasTarget := event.TargetOf(ev)
	if r.spec.Target != PartyAny && (!hasTarget || !r.matches(s, &owner, target, r.spec.Target)) {
		return s
	}
	if r.spec.When != nil && !r.spec.When.Holds(owner.Stats) {
		return s
	}
	for _, re := range r.spec.Do {
		s = r.react(s, ev, re, target)
	}
	return s
}

func (r Rule) matches(s battle.State, owner *model.Unit, id model.UnitID, p Party) bool {
	if p == PartyAny {
		return true
	}
	u, ok := s.Unit(id)
	if !ok {
		return false
	}
	switch p {
	case PartySelf:
		return u.ID == owner.ID || (u.IsSummon && u.OwnerID == owner.ID)
	case PartyAlly:
		return u.IsEnemy == owner.IsEnemy
	case PartyOtherAlly:
		return u.IsEnemy == owner.IsEnemy && u.ID != owner.ID
	case PartyEnemy:
		return u.IsEnemy != owner.IsEnemy
	}
	return false
}

func (r Rule) recipients(s battle.State, ev event.Event, to Recipient, target model.UnitID) []model.UnitID {
	owner, ok := s.Unit(r.owner)
	if !ok {
		return nil
	}
	var out []model.UnitID
	switch to {
	case ToSource:
		out = append(out, ev.Source())
	case ToTarget:
		out = append(out, target)
	case ToAllies:
		for _, u := range s.Registry().AliveSide(owner.IsEnemy) {
			out = append(out, u.ID)
		}
		return out
	case ToEnemies:
		for _, u := range s.Registry().AliveSide(!owner.IsEnemy) {
			out = append(out, u.ID)
		}
		return out
	default:
		out = append(out, r.owner)
	}
	if u, ok := s.Unit(out[0]); !ok || !u.Alive() {
		return nil
	}
	return out
}

func (r Rule) react(s battle.State, ev event.Event, re Reaction, target model.UnitID) battle.State {
	if re.Kind == ReactSkillPoints {
		return s.GainSkillPoints(r.owner, int(re.Amount))
	}
	if re.Kind == ReactDamageMod {
		c := re.Contribution
		if c.Source == "" {
			c.Source = r.id
		}
		return s.AddContribution(c)
	}

	for _, id := range r.recipients(s, ev, re.To, target) {
		owner, ok := s.Unit(r.owner)
		if !ok {
			return s
		}
		switch re.Kind {
		case ReactApplyEffect:
			e := re.Effect.Clone()
			if e.ID == "" {
				e.ID = r.id
			}
			if re.Chance > 0 {
				s = s.TryApplyEffect(r.owner, id, e, re.Chance, false)
			} else {
				s = s.ApplyEffect(r.owner, id, e)
			}
		case ReactRemoveEffect:
			s = s.RemoveEffect(id, re.EffectID)
		case ReactEnergy:
			s = s.GainEnergy(id, re.Amount, false)
		case ReactAdvance:
			if re.Amount < 0 {
				s = s.Delay(id, -re.Amount)
			} else {
				s = s.ActionAdvance(id, re.Amount)
			}
		case ReactFollowUp:
			return s.Enqueue(battle.Pending{Kind: battle.PendingFollowUp, Source: r.owner, Target: id})
		case ReactHeal:
			dst, _ := s.Unit(id)
			v := combat.Heal(&owner, &dst, model.HealSpec{Scaling: re.Scaling, Multiplier: re.Amount})
			s = s.Heal(r.owner, id, v)
		case ReactShield:
			v := combat.ShieldValue(&owner, model.ShieldSpec{Scaling: re.Scaling, Multiplier: re.Amount})
			s = s.GrantShield(r.owner, id, r.id, v, re.Duration)
		case ReactDamage:
			dst, ok := s.Unit(id)
			if !ok || !dst.Alive() {
				continue
			}
			v := combat.AdditionalDamage(&owner, &dst, combat.ScalingValue(&owner, re.Scaling)*re.Amount)
			s = s.DealDamage(r.owner, id, v)
		}
	}
	return s
}

func containsKind(kinds []event.Kind, k event.Kind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}
