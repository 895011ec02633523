package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/battlesim/internal/data"
	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/rules"
	"github.com/udisondev/battlesim/internal/model"
)

const sample = `
name: himeko vs wolves
rounds: 3
party:
  - character: himeko
    eidolon: 1
    light_cone: {id: night_on_the_milky_way, superimposition: 2}
    relics:
      - {set: firesmith_of_lava_forging, main: {stat: atk, kind: pct, value: 0.432}}
      - {set: firesmith_of_lava_forging, main: {stat: crit_rate, value: 0.324}, subs: [{stat: spd, value: 4}]}
  - character: march_7th
    light_cone: {id: moment_of_victory}
  - character: natasha
    light_cone: {id: post_op_conversation}
    rotation: bbs
  - character: jing_yuan
    light_cone: {id: planetary_rendezvous, superimposition: 5}
enemies:
  - {enemy: automaton_direwolf}
  - {enemy: antibaryon, hp: 30000, spd: 95}
`

func tables(t *testing.T) data.Tables {
	t.Helper()
	tb, err := data.Default()
	require.NoError(t, err)
	return tb
}

func build(t *testing.T, raw string) Setup {
	t.Helper()
	c, err := Parse([]byte(raw))
	require.NoError(t, err)
	s, err := c.Build(tables(t), rules.NewCatalog())
	require.NoError(t, err)
	return s
}

func TestBuild_Units(t *testing.T) {
	s := build(t, sample)

	ids := make([]model.UnitID, len(s.Units))
	for i, u := range s.Units {
		ids[i] = u.ID
	}
	assert.Equal(t, []model.UnitID{"himeko", "march_7th", "natasha", "jing_yuan", "automaton_direwolf#1", "antibaryon#2"}, ids)

	himeko := s.Units[0]
	assert.InDelta(t, 756+582, himeko.Base.Get(model.StatATK), 1e-9, "light cone base stats add to the character's")
	assert.Equal(t, []model.AbilityKind{model.AbilitySkill, model.AbilityBasic, model.AbilityBasic}, himeko.Rotation)

	var sources []string
	for _, m := range himeko.Modifiers {
		sources = append(sources, m.Source)
	}
	assert.Contains(t, sources, "lc:night_on_the_milky_way")
	assert.Contains(t, sources, "set:firesmith_of_lava_forging:2")
	assert.NotContains(t, sources, "set:firesmith_of_lava_forging:4")
	assert.Contains(t, sources, "relic:2")

	antibaryon := s.Units[5]
	assert.True(t, antibaryon.IsEnemy)
	assert.InDelta(t, 30000, antibaryon.Base.Get(model.StatHP), 1e-9)
	assert.InDelta(t, 95, antibaryon.Base.Get(model.StatSPD), 1e-9)
	assert.Equal(t, 3, s.Options.Rounds)
}

func TestBuild_Rules(t *testing.T) {
	s := build(t, sample)

	var ids []string
	for _, h := range s.Handlers {
		ids = append(ids, h.ID())
	}
	assert.Contains(t, ids, rules.HandlerID("victory_rush", "himeko"))
	assert.Contains(t, ids, rules.HandlerID("childhood", "himeko"))
	assert.Contains(t, ids, rules.HandlerID("night_on_the_milky_way", "himeko"))
	assert.Contains(t, ids, rules.HandlerID(rules.CounterID, "march_7th"))
	assert.Contains(t, ids, rules.HandlerID(rules.LastStandID, "natasha"))
	assert.Contains(t, ids, rules.HandlerID(rules.SummonOnStartID, "jing_yuan"))
	assert.Contains(t, ids, rules.HandlerID(rules.PlanetaryRendezvousID, "jing_yuan"))
}

func TestBuild_UltStrategy(t *testing.T) {
	s := build(t, `
rounds: 1
party:
  - {character: himeko}
  - {character: march_7th}
  - {character: dan_heng, ult_strategy: immediate}
enemies: [{enemy: antibaryon}]
`)
	assert.Equal(t, model.DefaultUltStrategy, s.Units[0].UltStrategy, "unset in the table")
	assert.Equal(t, model.UltImmediate, s.Units[1].UltStrategy, "from the table")
	assert.Equal(t, model.UltImmediate, s.Units[2].UltStrategy, "member override")
}

func TestBuild_WeaknessOverride(t *testing.T) {
	s := build(t, `
rounds: 1
weaknesses: [quantum]
party: [{character: dan_heng}]
enemies: [{enemy: antibaryon}]
`)
	foe := s.Units[1]
	assert.True(t, foe.Weaknesses.Has(model.Quantum))
	assert.False(t, foe.Weaknesses.Has(model.Wind))
}

func TestValidate(t *testing.T) {
	one := 1.5
	base := func() Config {
		return Config{
			Rounds:  1,
			Party:   []Member{{Character: "himeko"}},
			Enemies: []EnemySlot{{Enemy: "antibaryon"}},
		}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty party", func(c *Config) { c.Party = nil }, ErrEmptyParty},
		{"too large", func(c *Config) {
			c.Party = []Member{{Character: "himeko"}, {Character: "march_7th"}, {Character: "natasha"}, {Character: "dan_heng"}, {Character: "jing_yuan"}}
		}, ErrPartyTooLarge},
		{"duplicate", func(c *Config) { c.Party = append(c.Party, Member{Character: "himeko"}) }, ErrDuplicateMember},
		{"unknown character", func(c *Config) { c.Party[0].Character = "nobody" }, ErrUnknownCharacter},
		{"no enemies", func(c *Config) { c.Enemies = nil }, ErrNoEnemies},
		{"unknown enemy", func(c *Config) { c.Enemies[0].Enemy = "slime" }, ErrUnknownEnemy},
		{"rounds", func(c *Config) { c.Rounds = 0 }, ErrInvalidRounds},
		{"rotation", func(c *Config) { c.Party[0].Rotation = "bsu" }, ErrInvalidRotation},
		{"eidolon", func(c *Config) { c.Party[0].Eidolon = 7 }, ErrInvalidEidolon},
		{"light cone", func(c *Config) { c.Party[0].LightCone = &Equipped{ID: "stick"} }, ErrUnknownLightCone},
		{"rank", func(c *Config) { c.Party[0].LightCone = &Equipped{ID: "planetary_rendezvous", Superimposition: 6} }, ErrInvalidRank},
		{"relic set", func(c *Config) { c.Party[0].Relics = []Relic{{Set: "nope"}} }, ErrUnknownRelicSet},
		{"ult strategy", func(c *Config) { c.Party[0].UltStrategy = "never" }, ErrInvalidUltStrategy},
		{"initial energy", func(c *Config) { c.InitialEnergy = &one }, ErrInvalidInitialRatio},
	}
	tb := tables(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate(tb)
			assert.ErrorIs(t, err, tt.want)

			_, err = c.Build(tb, rules.NewCatalog())
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.NoError(t, base().Validate(tb))
}

func TestBuild_BadRuleRef(t *testing.T) {
	c := Config{
		Rounds:  1,
		Party:   []Member{{Character: "himeko", Rules: []rules.Ref{{ID: "unknown_rule"}}}},
		Enemies: []EnemySlot{{Enemy: "antibaryon"}},
	}
	_, err := c.Build(tables(t), rules.NewCatalog())
	assert.ErrorContains(t, err, "unknown_rule")
}

func TestDigestAndSeed(t *testing.T) {
	a, err := Parse([]byte(sample))
	require.NoError(t, err)
	b, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, a.Digest(), b.Digest())
	assert.Len(t, a.Digest(), 64)
	assert.Equal(t, a.EffectiveSeed(), b.EffectiveSeed())
	assert.NotZero(t, a.EffectiveSeed())

	b.Seed = 42
	assert.Equal(t, a.Digest(), b.Digest(), "seed is not part of the digest")
	assert.Equal(t, uint64(42), b.EffectiveSeed())

	b.Rounds++
	assert.NotEqual(t, a.Digest(), b.Digest())
}

func TestParseRotation(t *testing.T) {
	tests := []struct {
		in      string
		want    []model.AbilityKind
		wantErr bool
	}{
		{"", nil, false},
		{"b", []model.AbilityKind{model.AbilityBasic}, false},
		{"S, b", []model.AbilityKind{model.AbilitySkill, model.AbilityBasic}, false},
		{"bx", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseRotation(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidRotation, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNewBattle_RunsToCompletion(t *testing.T) {
	run := func() battle.Result {
		s := build(t, sample)
		st, err := s.NewBattle().Run(context.Background())
		require.NoError(t, err)
		return st.Result()
	}
	first := run()
	second := run()

	assert.NotEmpty(t, first.Outcome)
	assert.Positive(t, first.Turns)
	assert.Equal(t, first.Transcript, second.Transcript)

	_, summoned := first.Totals["jing_yuan/lightning_lord"]
	assert.True(t, summoned, "summon acted")
}
