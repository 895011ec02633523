package rules

import (
	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/combat"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

const GeniusOfBrilliantStarsID = "genius_of_brilliant_stars"

// GeniusOfBrilliantStars is the 4-piece relic set effect: the wearer's hits
// ignore part of the defender's DEF, more against Quantum-weak defenders.
// Params: "def_ignore" (default 0.10), "quantum_bonus" (default 0.10).
type GeniusOfBrilliantStars struct {
	base
	ignore float64
	bonus  float64
}

func NewGeniusOfBrilliantStars(owner model.UnitID, ref Ref) (battle.Handler, error) {
	return GeniusOfBrilliantStars{
		base:   newBase(GeniusOfBrilliantStarsID, owner, 0, event.KindBeforeDamage),
		ignore: ref.Params.Float("def_ignore", 0.10),
		bonus:  ref.Params.Float("quantum_bonus", 0.10),
	}, nil
}

func (r GeniusOfBrilliantStars) Handle(ev event.Event, s battle.State) battle.State {
	bd, ok := ev.(event.BeforeDamage)
	if !ok || bd.SourceID != r.owner {
		return s
	}
	v := r.ignore
	if t, ok := s.Unit(bd.Target); ok && t.WeakTo(model.Quantum) {
		v += r.bonus
	}
	return s.AddContribution(combat.Contribution{
		Slot:    combat.SlotDefIgnore,
		Value:   v,
		Combine: combat.CombineAdd,
		Source:  r.id,
	})
}
