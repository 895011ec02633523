// Package data holds the static content tables: characters, enemies,
// light cones and relic sets. Tables are read from YAML, either the copies
// embedded in the binary or a directory supplied at startup, and are
// read-only after loading.
package data

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/battlesim/internal/game/rules"
	"github.com/udisondev/battlesim/internal/model"
)

//go:embed tables/*.yaml
var embedded embed.FS

const (
	charactersFile = "characters.yaml"
	enemiesFile    = "enemies.yaml"
	lightConesFile = "light_cones.yaml"
	relicSetsFile  = "relic_sets.yaml"
)

// MaxSuperimposition is the highest light cone rank.
const MaxSuperimposition = 5

// Eidolon unlocks modifiers and rules at a given eidolon level.
type Eidolon struct {
	Level     int              `yaml:"level"`
	Modifiers []model.Modifier `yaml:"modifiers,omitempty"`
	Rules     []rules.Ref      `yaml:"rules,omitempty"`
}

// Character is a playable unit template.
type Character struct {
	ID        string           `yaml:"id"`
	Name      string           `yaml:"name"`
	Element   model.Element    `yaml:"element"`
	Path      string           `yaml:"path"`
	Level     int              `yaml:"level"`
	Base      model.Stats      `yaml:"base"`
	Traces    []model.Modifier `yaml:"traces,omitempty"`
	Abilities model.AbilitySet `yaml:"abilities"`
	// Rotation is the default b/s pattern.
	Rotation    string            `yaml:"rotation,omitempty"`
	UltStrategy model.UltStrategy `yaml:"ult_strategy,omitempty"`
	UltCooldown int               `yaml:"ult_cooldown,omitempty"`
	Rules       []rules.Ref       `yaml:"rules,omitempty"`
	Eidolons    []Eidolon         `yaml:"eidolons,omitempty"`
}

// Enemy is an enemy unit template.
type Enemy struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Element      model.Element    `yaml:"element"`
	Level        int              `yaml:"level"`
	Base         model.Stats      `yaml:"base"`
	MaxToughness float64          `yaml:"max_toughness"`
	Weaknesses   model.ElementSet `yaml:"weaknesses"`
	Abilities    model.AbilitySet `yaml:"abilities"`
	Rotation     string           `yaml:"rotation,omitempty"`
	Rules        []rules.Ref      `yaml:"rules,omitempty"`
}

// Ranked is a modifier whose value depends on the light cone rank.
type Ranked struct {
	Stat   model.StatKey `yaml:"stat"`
	Kind   model.ModKind `yaml:"kind"`
	Values []float64     `yaml:"values"`
}

// At returns the modifier for superimposition rank (1-based).
func (r Ranked) At(rank int) model.Modifier {
	return model.Modifier{Stat: r.Stat, Kind: r.Kind, Value: rankValue(r.Values, rank)}
}

// RankedRef is a rule reference whose parameters depend on the light cone
// rank.
type RankedRef struct {
	ID     string               `yaml:"id"`
	Params map[string][]float64 `yaml:"params,omitempty"`
	Spec   *rules.Spec          `yaml:"spec,omitempty"`
}

// At returns the rule reference for superimposition rank (1-based).
func (r RankedRef) At(rank int) rules.Ref {
	ref := rules.Ref{ID: r.ID, Spec: r.Spec}
	if len(r.Params) > 0 {
		ref.Params = make(rules.Params, len(r.Params))
		for k, v := range r.Params {
			ref.Params[k] = rankValue(v, rank)
		}
	}
	return ref
}

func rankValue(values []float64, rank int) float64 {
	if len(values) == 0 {
		return 0
	}
	i := min(max(rank, 1), len(values)) - 1
	return values[i]
}

// LightCone is an equippable weapon.
type LightCone struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Path    string      `yaml:"path"`
	Base    model.Stats `yaml:"base"`
	Passive []Ranked    `yaml:"passive,omitempty"`
	Rule    *RankedRef  `yaml:"rule,omitempty"`
}

// SetBonus is granted when at least Pieces relics of a set are equipped.
type SetBonus struct {
	Pieces      int                         `yaml:"pieces"`
	Modifiers   []model.Modifier            `yaml:"modifiers,omitempty"`
	Conditional []model.ConditionalModifier `yaml:"conditional,omitempty"`
	Rules       []rules.Ref                 `yaml:"rules,omitempty"`
}

// RelicSet is a relic or planar ornament set.
type RelicSet struct {
	ID      string     `yaml:"id"`
	Name    string     `yaml:"name"`
	Bonuses []SetBonus `yaml:"bonuses"`
}

// Tables is the loaded content.
type Tables struct {
	Characters map[string]Character
	Enemies    map[string]Enemy
	LightCones map[string]LightCone
	RelicSets  map[string]RelicSet
}

var ErrDuplicateID = errors.New("duplicate id")

// Default loads the embedded tables.
func Default() (Tables, error) {
	sub, err := fs.Sub(embedded, "tables")
	if err != nil {
		return Tables{}, fmt.Errorf("opening embedded tables: %w", err)
	}
	return Load(sub)
}

// LoadDir loads tables from dir.
func LoadDir(dir string) (Tables, error) {
	return Load(os.DirFS(dir))
}

// Load reads every table file from fsys.
func Load(fsys fs.FS) (Tables, error) {
	var t Tables
	var err error
	if t.Characters, err = loadTable(fsys, charactersFile, func(c Character) string { return c.ID }); err != nil {
		return t, err
	}
	if t.Enemies, err = loadTable(fsys, enemiesFile, func(e Enemy) string { return e.ID }); err != nil {
		return t, err
	}
	if t.LightCones, err = loadTable(fsys, lightConesFile, func(l LightCone) string { return l.ID }); err != nil {
		return t, err
	}
	if t.RelicSets, err = loadTable(fsys, relicSetsFile, func(r RelicSet) string { return r.ID }); err != nil {
		return t, err
	}

	slog.Info("loaded data tables",
		"characters", len(t.Characters),
		"enemies", len(t.Enemies),
		"light_cones", len(t.LightCones),
		"relic_sets", len(t.RelicSets))
	return t, nil
}

func loadTable[T any](fsys fs.FS, name string, key func(T) string) (map[string]T, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	var rows []T
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	out := make(map[string]T, len(rows))
	for i, row := range rows {
		id := key(row)
		if id == "" {
			return nil, fmt.Errorf("%s: row %d has no id", name, i)
		}
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("%s: %q: %w", name, id, ErrDuplicateID)
		}
		out[id] = row
	}
	return out, nil
}
