package rules

import (
	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

func strike(mult float64) *model.Ability {
	return &model.Ability{
		Name:   "strike",
		Target: model.TargetSingle,
		Damage: &model.DamageSpec{
			Scaling: model.ScaleATK,
			Hits:    []model.Hit{{Multiplier: mult, Toughness: 10}},
		},
		Energy: model.EnergySpec{OnUse: 20},
		SPGain: 1,
	}
}

func character(id model.UnitID, el model.Element) model.Unit {
	return model.Unit{
		ID:      id,
		Name:    string(id),
		Element: el,
		Level:   80,
		Base: model.Stats{
			model.StatHP:        1000,
			model.StatATK:       100,
			model.StatDEF:       100,
			model.StatSPD:       100,
			model.StatMaxEnergy: 200,
		},
		Abilities: model.AbilitySet{Basic: strike(1), FollowUp: strike(0.5)},
	}
}

func enemy(id model.UnitID, atk float64, weak ...model.Element) model.Unit {
	return model.Unit{
		ID:           id,
		Name:         string(id),
		IsEnemy:      true,
		Level:        80,
		Base:         model.Stats{model.StatHP: 100000, model.StatATK: atk, model.StatSPD: 90},
		MaxToughness: 60,
		Weaknesses:   model.NewElementSet(weak...),
		Abilities:    model.AbilitySet{Basic: strike(1)},
	}
}

func newBattle(units ...model.Unit) battle.State {
	o := battle.DefaultOptions()
	o.Seed = 11
	return battle.New(units, o, Hooks())
}

func mustBuild(t interface {
	Helper()
	Fatalf(string, ...any)
}, owner model.UnitID, ref Ref) battle.Handler {
	t.Helper()
	h, err := NewCatalog().Build(owner, ref)
	if err != nil {
		t.Fatalf("build %q: %v", ref.ID, err)
	}
	return h
}

// probe records the scratch contributions visible to handlers registered
// after the rules under test.
type probe struct {
	seen *[][]float64
}

func (probe) ID() string                  { return "probe" }
func (probe) Subscriptions() []event.Kind { return []event.Kind{event.KindBeforeDamage} }

func (p probe) Handle(_ event.Event, s battle.State) battle.State {
	var vals []float64
	for _, c := range s.Scratch().Contributions() {
		vals = append(vals, c.Value)
	}
	*p.seen = append(*p.seen, vals)
	return s
}
