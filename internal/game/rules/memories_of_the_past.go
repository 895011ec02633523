package rules

import (
	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

const MemoriesOfThePastID = "memories_of_the_past"

// MemoriesOfThePast is a light cone: after the wearer attacks it regains a
// fixed amount of energy, at most once per turn.
// Params: "energy" (default 4), "cooldown" (default 1).
type MemoriesOfThePast struct {
	base
	energy float64
}

func NewMemoriesOfThePast(owner model.UnitID, ref Ref) (battle.Handler, error) {
	return MemoriesOfThePast{
		base:   newBase(MemoriesOfThePastID, owner, ref.Params.Int("cooldown", 1), actionKinds...),
		energy: ref.Params.Float("energy", 4),
	}, nil
}

func (r MemoriesOfThePast) Handle(ev event.Event, s battle.State) battle.State {
	if ev.Source() != r.owner {
		return s
	}
	return s.GainEnergy(r.owner, r.energy, true)
}
