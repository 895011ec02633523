package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/battlesim/internal/model"
)

func TestRefundEnergyHook(t *testing.T) {
	s := newBattle(character("a", model.Fire), enemy("e", 10))
	s = s.ApplyEffect("a", "e", model.Effect{
		ID:       "mark",
		Category: model.Debuff,
		Duration: model.Permanent,
		Hook:     RefundEnergyHook,
	})
	a, _ := s.Unit("a")
	assert.InDelta(t, 100, a.Energy, 1e-9)

	s = s.RemoveEffect("e", "mark")
	a, _ = s.Unit("a")
	assert.InDelta(t, 105, a.Energy, 1e-9)
}

func TestCleanseOnApplyHook(t *testing.T) {
	s := newBattle(character("a", model.Fire), enemy("e", 10))
	s = s.ApplyEffect("e", "a", model.Effect{
		ID:         "curse",
		Category:   model.Debuff,
		Duration:   model.Permanent,
		Cleansable: true,
	})
	s = s.ApplyEffect("a", "a", model.Effect{
		ID:       "purify",
		Category: model.Buff,
		Duration: model.Permanent,
		Hook:     CleanseOnApplyHook,
	})

	a, _ := s.Unit("a")
	assert.False(t, a.HasEffect("curse"))
	assert.True(t, a.HasEffect("purify"))
}
