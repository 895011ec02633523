package testutil

import (
	"testing"

	"github.com/udisondev/battlesim/internal/data"
	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/rules"
	"github.com/udisondev/battlesim/internal/model"
	"github.com/udisondev/battlesim/internal/scenario"
)

// Setup builds raw against the embedded tables.
func Setup(tb testing.TB, raw string) scenario.Setup {
	tb.Helper()
	tables, err := data.Default()
	if err != nil {
		tb.Fatalf("loading tables: %v", err)
	}
	c, err := scenario.Parse([]byte(raw))
	if err != nil {
		tb.Fatalf("parsing scenario: %v", err)
	}
	s, err := c.Build(tables, rules.NewCatalog())
	if err != nil {
		tb.Fatalf("building scenario: %v", err)
	}
	return s
}

// SampleSetup builds SampleScenario.
func SampleSetup(tb testing.TB) scenario.Setup {
	tb.Helper()
	return Setup(tb, SampleScenario)
}

// Duel returns a setup of one character against one enemy.
func Duel(hero, foe model.Unit, seed uint64) scenario.Setup {
	opts := battle.DefaultOptions()
	opts.Seed = seed
	return scenario.Setup{
		Name:    "duel",
		Digest:  "duel0000",
		Units:   []model.Unit{hero, foe},
		Options: opts,
	}
}
