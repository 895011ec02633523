package rules

import (
	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

const CounterID = "counter"

// Counter is a talent: when an enemy hits the owner, the owner answers with
// its follow-up attack against that enemy once the enemy's action ends.
// Params: "cooldown" (default 0).
type Counter struct {
	base
}

func NewCounter(owner model.UnitID, ref Ref) (battle.Handler, error) {
	return Counter{base: newBase(CounterID, owner, ref.Params.Int("cooldown", 0), event.KindDamageDealt)}, nil
}

func (r Counter) Handle(ev event.Event, s battle.State) battle.State {
	dd, ok := ev.(event.DamageDealt)
	if !ok || dd.Target != r.owner || dd.HitIdx != 0 {
		return s
	}
	attacker, ok := s.Unit(dd.SourceID)
	if !ok || !attacker.Alive() {
		return s
	}
	owner, ok := r.ownerAlive(s)
	if !ok || attacker.IsEnemy == owner.IsEnemy {
		return s
	}
	return s.Enqueue(battle.Pending{Kind: battle.PendingFollowUp, Source: r.owner, Target: dd.SourceID})
}
