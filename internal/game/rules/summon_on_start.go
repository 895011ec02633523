package rules

import (
	"errors"

	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

const SummonOnStartID = "summon_on_start"

// SummonOnStart is a talent that brings the owner's summon into battle when
// it starts. The summon template comes from Ref.Summon; its id defaults to
// "<owner>/<name>".
type SummonOnStart struct {
	base
	template model.Unit
}

func NewSummonOnStart(owner model.UnitID, ref Ref) (battle.Handler, error) {
	if ref.Summon == nil {
		return nil, errors.New("summon template is required")
	}
	tpl := ref.Summon.Clone()
	if tpl.ID == "" {
		tpl.ID = model.UnitID(string(owner) + "/" + tpl.Name)
	}
	return SummonOnStart{base: newBase(SummonOnStartID, owner, 0, event.KindBattleStart), template: tpl}, nil
}

func (r SummonOnStart) Handle(_ event.Event, s battle.State) battle.State {
	if _, ok := r.ownerAlive(s); !ok {
		return s
	}
	return s.Spawn(r.owner, r.template.Clone())
}
