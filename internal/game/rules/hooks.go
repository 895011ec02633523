package rules

import (
	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/model"
)

const (
	RefundEnergyHook   = "refund_energy"
	CleanseOnApplyHook = "cleanse_on_apply"
)

// RefundEnergy returns energy to the effect's source when the effect ends.
type RefundEnergy struct {
	Amount float64
}

func (RefundEnergy) OnApply(s battle.State, _ model.UnitID, _ model.Effect) battle.State { return s }

func (h RefundEnergy) OnRemove(s battle.State, _ model.UnitID, e model.Effect) battle.State {
	if e.SourceID == "" {
		return s
	}
	return s.GainEnergy(e.SourceID, h.Amount, true)
}

// CleanseOnApply removes the carrier's cleansable debuffs when the effect lands.
type CleanseOnApply struct{}

func (CleanseOnApply) OnApply(s battle.State, target model.UnitID, _ model.Effect) battle.State {
	return s.Cleanse(target)
}

func (CleanseOnApply) OnRemove(s battle.State, _ model.UnitID, _ model.Effect) battle.State { return s }

// Hooks returns the built-in effect hooks.
func Hooks() battle.HookRegistry {
	return battle.NewHookRegistry(map[string]battle.Hook{
		RefundEnergyHook:   RefundEnergy{Amount: 5},
		CleanseOnApplyHook: CleanseOnApply{},
	})
}
