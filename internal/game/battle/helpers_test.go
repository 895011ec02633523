package battle

import (
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

func basic(mult, toughness float64) *model.Ability {
	return &model.Ability{
		Name:   "basic",
		Target: model.TargetSingle,
		Damage: &model.DamageSpec{
			Scaling: model.ScaleATK,
			Hits:    []model.Hit{{Multiplier: mult, Toughness: toughness}},
		},
		Energy: model.EnergySpec{OnUse: 20},
		SPGain: 1,
	}
}

func ally(id model.UnitID, spd float64) model.Unit {
	return model.Unit{
		ID:      id,
		Name:    string(id),
		Element: model.Fire,
		Level:   80,
		Base: model.Stats{
			model.StatHP:        1000,
			model.StatATK:       100,
			model.StatDEF:       100,
			model.StatSPD:       spd,
			model.StatMaxEnergy: 200,
		},
		Abilities: model.AbilitySet{Basic: basic(1, 10)},
	}
}

func foe(id model.UnitID, hp, spd float64) model.Unit {
	return model.Unit{
		ID:           id,
		Name:         string(id),
		IsEnemy:      true,
		Level:        80,
		Base:         model.Stats{model.StatHP: hp, model.StatATK: 10, model.StatSPD: spd},
		MaxToughness: 30,
		Weaknesses:   model.NewElementSet(model.Fire),
		Abilities:    model.AbilitySet{Basic: basic(0, 0)},
	}
}

func opts() Options {
	o := DefaultOptions()
	o.Seed = 7
	return o
}

func entriesOf(s State, kind EntryKind) []Entry {
	var out []Entry
	for _, e := range s.Transcript().Entries() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// funcHandler adapts a function to Handler for tests.
type funcHandler struct {
	id       string
	kinds    []event.Kind
	cooldown int
	owner    model.UnitID
	fn       func(event.Event, State) State
}

func (h funcHandler) ID() string                           { return h.id }
func (h funcHandler) Subscriptions() []event.Kind          { return h.kinds }
func (h funcHandler) Handle(ev event.Event, s State) State { return h.fn(ev, s) }
func (h funcHandler) Cooldown() int                        { return h.cooldown }
func (h funcHandler) Owner() model.UnitID                  { return h.owner }
