// Package report projects a finished battle into a plain, serializable
// result that can cross the worker boundary and be written as YAML, JSON or
// text.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/model"
)

// Format is an output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Meta identifies the run a report belongs to.
type Meta struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Digest string `yaml:"digest" json:"digest"`
	Seed   uint64 `yaml:"seed" json:"seed"`
}

// Unit is the end-of-battle summary of one unit.
type Unit struct {
	ID     model.UnitID `yaml:"id" json:"id"`
	Name   string       `yaml:"name" json:"name"`
	Enemy  bool         `yaml:"enemy" json:"enemy"`
	Summon bool         `yaml:"summon,omitempty" json:"summon,omitempty"`
	Alive  bool         `yaml:"alive" json:"alive"`
	HP     float64      `yaml:"hp" json:"hp"`
	MaxHP  float64      `yaml:"max_hp" json:"max_hp"`
	Energy float64      `yaml:"energy,omitempty" json:"energy,omitempty"`

	battle.Totals `yaml:",inline" json:",inline"`
}

// Report is the result of one simulation.
type Report struct {
	Meta        `yaml:",inline"`
	Outcome     battle.Outcome `yaml:"outcome" json:"outcome"`
	Turns       int            `yaml:"turns" json:"turns"`
	Clock       float64        `yaml:"clock" json:"clock"`
	SkillPoints int            `yaml:"skill_points" json:"skill_points"`
	Units       []Unit         `yaml:"units" json:"units"`
	Transcript  []battle.Entry `yaml:"transcript" json:"transcript"`
}

// New projects r. Units still in the registry come first in registry
// order; defeated units follow, sorted by id.
func New(meta Meta, r battle.Result) Report {
	out := Report{
		Meta:        meta,
		Outcome:     r.Outcome,
		Turns:       r.Turns,
		Clock:       r.Clock,
		SkillPoints: r.SkillPoints,
		Transcript:  slices.Clone(r.Transcript),
	}

	present := make(map[model.UnitID]struct{}, len(r.Units))
	for _, u := range r.Units {
		present[u.ID] = struct{}{}
		out.Units = append(out.Units, Unit{
			ID:     u.ID,
			Name:   u.Name,
			Enemy:  u.IsEnemy,
			Summon: u.IsSummon,
			Alive:  u.Alive(),
			HP:     u.HP,
			MaxHP:  u.MaxHP(),
			Energy: u.Energy,
			Totals: r.Totals[u.ID],
		})
	}

	var gone []model.UnitID
	for id := range r.Totals {
		if _, ok := present[id]; !ok {
			gone = append(gone, id)
		}
	}
	slices.Sort(gone)
	names := defeatedNames(r.Transcript)
	for _, id := range gone {
		u := Unit{ID: id, Name: string(id), Totals: r.Totals[id]}
		if n, ok := names[id]; ok {
			u.Name = n
		}
		out.Units = append(out.Units, u)
	}
	return out
}

// defeatedNames reads display names recorded with defeat entries.
func defeatedNames(entries []battle.Entry) map[model.UnitID]string {
	out := make(map[model.UnitID]string)
	for _, e := range entries {
		if e.Kind == battle.EntryDefeated && e.Detail != "" {
			out[e.Target] = e.Detail
		}
	}
	return out
}

// Unit returns the summary of id.
func (r Report) Unit(id model.UnitID) (Unit, bool) {
	for _, u := range r.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// PartyDamage sums damage dealt by characters and their summons.
func (r Report) PartyDamage() float64 {
	var sum float64
	for _, u := range r.Units {
		if !u.Enemy {
			sum += u.DamageDealt
		}
	}
	return sum
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON, FormatText:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Write encodes r to w.
func (r Report) Write(w io.Writer, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml report: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding json report: %w", err)
		}
		return nil
	case FormatText:
		return r.writeText(w)
	}
	return fmt.Errorf("unknown report format %q", f)
}
