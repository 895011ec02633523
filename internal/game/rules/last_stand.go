package rules

import (
	"fmt"

	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

const LastStandID = "last_stand"

// LastStand prevents the owner's first death in a battle and restores a
// share of its max hp. Use is tracked by a status effect on the owner.
// Params: "hp_ratio" (default 0.25).
type LastStand struct {
	base
	ratio float64
}

func NewLastStand(owner model.UnitID, ref Ref) (battle.Handler, error) {
	ratio := ref.Params.Float("hp_ratio", 0.25)
	if ratio <= 0 || ratio > 1 {
		return nil, fmt.Errorf("hp_ratio must be in (0, 1], got %v", ratio)
	}
	return LastStand{base: newBase(LastStandID, owner, 0, event.KindDeathPending), ratio: ratio}, nil
}

func (r LastStand) usedID() string { return r.id + ":used" }

func (r LastStand) Handle(ev event.Event, s battle.State) battle.State {
	dp, ok := ev.(event.DeathPending)
	if !ok || dp.Target != r.owner {
		return s
	}
	u, ok := s.Unit(r.owner)
	if !ok || u.Alive() || u.HasEffect(r.usedID()) {
		return s
	}
	s = s.UpdateUnit(r.owner, func(u model.Unit) model.Unit {
		u.HP = max(1, u.MaxHP()*r.ratio)
		return u
	})
	return s.ApplyEffect(r.owner, r.owner, model.Effect{
		ID:       r.usedID(),
		Name:     "Last Stand",
		Category: model.Status,
		Duration: model.Permanent,
	})
}
