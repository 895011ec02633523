package testutil

import (
	"github.com/udisondev/battlesim/internal/model"
)

// Strike returns a single-target ATK-scaling basic attack.
func Strike(mult float64) *model.Ability {
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

// Character returns a level 80 character with flat stats and a basic
// attack only.
func Character(id model.UnitID, el model.Element) model.Unit {
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
			model.StatMaxEnergy: 120,
		},
		Abilities: model.AbilitySet{Basic: Strike(1)},
	}
}

// Enemy returns a slow level 80 enemy with the given HP and weaknesses.
func Enemy(id model.UnitID, hp float64, weak ...model.Element) model.Unit {
	return model.Unit{
		ID:           id,
		Name:         string(id),
		IsEnemy:      true,
		Level:        80,
		Base:         model.Stats{model.StatHP: hp, model.StatATK: 50, model.StatSPD: 80},
		MaxToughness: 30,
		Weaknesses:   model.NewElementSet(weak...),
		Abilities:    model.AbilitySet{Basic: Strike(1)},
	}
}

// SampleScenario is a small scenario using the embedded tables.
const SampleScenario = `
name: sample
seed: 7
rounds: 3
party:
  - character: himeko
    light_cone: {id: night_on_the_milky_way}
    relics:
      - {set: firesmith_of_lava_forging, main: {stat: atk, kind: pct, value: 0.432}}
      - {set: firesmith_of_lava_forging, main: {stat: crit_rate, value: 0.324}}
  - character: march_7th
    light_cone: {id: moment_of_victory}
  - character: natasha
    light_cone: {id: post_op_conversation}
    rotation: bbs
enemies:
  - {enemy: automaton_direwolf}
  - {enemy: antibaryon}
`
