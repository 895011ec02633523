package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/battlesim/internal/model"
)

func baseUnit() model.Unit {
	return model.Unit{
		ID: "u1",
		Base: model.Stats{
			model.StatHP:       1000,
			model.StatATK:      500,
			model.StatDEF:      300,
			model.StatSPD:      100,
			model.StatCritRate: 0.05,
			model.StatCritDmg:  0.5,
		},
	}
}

func TestCompute_ScaledAndAdditive(t *testing.T) {
	u := baseUnit()
	u.Modifiers = []model.Modifier{
		{Stat: model.StatATKPct, Value: 0.2},
		{Stat: model.StatATK, Value: 100},
		{Stat: model.StatCritRate, Value: 0.1, Kind: model.ModPercent},
		{Stat: model.StatCritDmg, Value: 0.3},
		{Stat: model.StatHP, Value: 200, Kind: model.ModBase},
	}

	got := Compute(&u, nil)

	assert.InDelta(t, 500*1.2+100, got.Get(model.StatATK), 1e-9)
	assert.InDelta(t, 0.15, got.Get(model.StatCritRate), 1e-9)
	assert.InDelta(t, 0.8, got.Get(model.StatCritDmg), 1e-9)
	assert.InDelta(t, 1200, got.Get(model.StatHP), 1e-9)
	assert.InDelta(t, 100, got.Get(model.StatSPD), 1e-9)
}

func TestCompute_EffectStacks(t *testing.T) {
	tests := []struct {
		name    string
		scaling model.StackScaling
		want    float64
	}{
		{"per stack", model.ScaleByStack, 500 * 1.3},
		{"fixed", model.ScaleFixed, 500 * 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := baseUnit()
			u.Effects = []model.Effect{{
				ID:        "buff",
				Stacks:    3,
				MaxStacks: 5,
				Modifiers: []model.Modifier{{Stat: model.StatATK, Value: 0.1, Kind: model.ModPercent, Scaling: tt.scaling}},
			}}
			got := Compute(&u, nil)
			assert.InDelta(t, tt.want, got.Get(model.StatATK), 1e-9)
		})
	}
}

func TestCompute_ConditionalReadsPreliminary(t *testing.T) {
	u := baseUnit()
	u.Modifiers = []model.Modifier{{Stat: model.StatEffectRes, Value: 0.3}}
	u.Conditional = []model.ConditionalModifier{{
		When:     model.Condition{Kind: model.CondStatAtLeast, Stat: model.StatEffectRes, Threshold: 0.3},
		Modifier: model.Modifier{Stat: model.StatDEFPct, Value: 0.15},
	}}

	got := Compute(&u, nil)
	assert.InDelta(t, 300*1.15, got.Get(model.StatDEF), 1e-9)

	u.Modifiers[0].Value = 0.29
	got = Compute(&u, nil)
	assert.InDelta(t, 300, got.Get(model.StatDEF), 1e-9)
}

func TestCompute_Dynamic(t *testing.T) {
	self := baseUnit()
	self.Modifiers = []model.Modifier{{
		Stat:    model.StatAllTypeDmgBoost,
		Dynamic: &model.DynamicValue{Kind: model.DynAnyAllyShielded, Value: 0.12},
	}}
	ally := baseUnit()
	ally.ID = "u2"
	ally.HP = 10

	units := []model.Unit{self, ally}
	got := Compute(&self, units)
	assert.Zero(t, got.Get(model.StatAllTypeDmgBoost))

	units[1].Shield = 50
	got = Compute(&self, units)
	assert.InDelta(t, 0.12, got.Get(model.StatAllTypeDmgBoost), 1e-9)
}

func TestCompute_PerStatCapped(t *testing.T) {
	u := baseUnit()
	u.Modifiers = []model.Modifier{
		{Stat: model.StatBreakEffect, Value: 1.2},
		{
			Stat:    model.StatAllTypeDmgBoost,
			Dynamic: &model.DynamicValue{Kind: model.DynPerStat, Stat: model.StatBreakEffect, Per: 0.1, Value: 0.06, Cap: 0.36},
		},
	}
	got := Compute(&u, nil)
	assert.InDelta(t, 0.36, got.Get(model.StatAllTypeDmgBoost), 1e-9)
}

func TestCompute_SpeedFloor(t *testing.T) {
	u := baseUnit()
	u.Modifiers = []model.Modifier{{Stat: model.StatSPD, Value: -500}}
	got := Compute(&u, nil)
	assert.Equal(t, MinSpeed, got.Get(model.StatSPD))
}

func TestInherit(t *testing.T) {
	owner := baseUnit()
	owner.Modifiers = []model.Modifier{{Stat: model.StatATKPct, Value: 0.5}}
	ownerStats := Compute(&owner, nil)

	summon := model.Unit{ID: "s1", IsSummon: true, OwnerID: "u1", FixedSpeed: 90}
	got := Inherit(ownerStats, &summon)

	assert.InDelta(t, ownerStats.Get(model.StatATK), got.Get(model.StatATK), 1e-9)
	assert.InDelta(t, 90, got.Get(model.StatSPD), 1e-9)
	assert.InDelta(t, 100, ownerStats.Get(model.StatSPD), 1e-9, "owner stats must not be mutated")
}
