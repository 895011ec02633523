// Package rules holds the passive rule catalog: light cones, relic sets and
// character talents that react to battle events.
//
// Most content is described by Spec, a declarative trigger/reaction record
// read from data tables. Rules that do not fit it are Go types registered
// in the Catalog under a stable id.
package rules

import (
	"fmt"
	"slices"

	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

// Params are rule-specific numeric parameters from data tables.
type Params map[string]float64

// Float returns the parameter key, or def when absent.
func (p Params) Float(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Int returns the parameter key truncated to int, or def when absent.
func (p Params) Int(key string, def int) int {
	if v, ok := p[key]; ok {
		return int(v)
	}
	return def
}

// Ref names a rule for one unit: either a catalog id with parameters or an
// inline Spec.
type Ref struct {
	ID     string      `yaml:"id"`
	Params Params      `yaml:"params,omitempty"`
	Spec   *Spec       `yaml:"spec,omitempty"`
	Summon *model.Unit `yaml:"summon,omitempty"`
}

// Factory builds a rule bound to owner.
type Factory func(owner model.UnitID, ref Ref) (battle.Handler, error)

// Catalog maps rule ids to factories. It is built once at setup and passed
// to the scenario builder; it is never consulted during a run.
type Catalog struct {
	factories map[string]Factory
}

// NewCatalog returns a catalog with every built-in rule registered.
func NewCatalog() Catalog {
	c := Catalog{factories: make(map[string]Factory)}
	c.factories[PlanetaryRendezvousID] = NewPlanetaryRendezvous
	c.factories[MemoriesOfThePastID] = NewMemoriesOfThePast
	c.factories[GeniusOfBrilliantStarsID] = NewGeniusOfBrilliantStars
	c.factories[CounterID] = NewCounter
	c.factories[SummonOnStartID] = NewSummonOnStart
	c.factories[LastStandID] = NewLastStand
	return c
}

// With returns a copy of the catalog with f registered under id.
func (c Catalog) With(id string, f Factory) Catalog {
	next := Catalog{factories: make(map[string]Factory, len(c.factories)+1)}
	for k, v := range c.factories {
		next.factories[k] = v
	}
	next.factories[id] = f
	return next
}

// IDs returns the registered rule ids, sorted.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c.factories))
	for id := range c.factories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Has reports whether id is registered.
func (c Catalog) Has(id string) bool {
	_, ok := c.factories[id]
	return ok
}

// Build instantiates ref for owner. An inline Spec takes precedence over
// the catalog.
func (c Catalog) Build(owner model.UnitID, ref Ref) (battle.Handler, error) {
	if ref.Spec != nil {
		return NewRule(owner, ref.ID, *ref.Spec)
	}
	f, ok := c.factories[ref.ID]
	if !ok {
		return nil, fmt.Errorf("unknown rule %q", ref.ID)
	}
	h, err := f(owner, ref)
	if err != nil {
		return nil, fmt.Errorf("build rule %q for %s: %w", ref.ID, owner, err)
	}
	return h, nil
}

// HandlerID is the registration id of rule id bound to owner.
func HandlerID(id string, owner model.UnitID) string {
	return id + "@" + string(owner)
}

// base carries the identity shared by every rule bound to a unit.
type base struct {
	id       string
	owner    model.UnitID
	kinds    []event.Kind
	cooldown int
}

func newBase(id string, owner model.UnitID, cooldown int, kinds ...event.Kind) base {
	return base{id: HandlerID(id, owner), owner: owner, kinds: kinds, cooldown: cooldown}
}

func (b base) ID() string                  { return b.id }
func (b base) Owner() model.UnitID         { return b.owner }
func (b base) Subscriptions() []event.Kind { return b.kinds }
func (b base) Cooldown() int               { return b.cooldown }

// ownerAlive reports whether the rule's owner is still fighting.
func (b base) ownerAlive(s battle.State) (model.Unit, bool) {
	u, ok := s.Unit(b.owner)
	return u, ok && u.Alive()
}

// actionKinds are the events fired after the owner used an ability.
var actionKinds = []event.Kind{
	event.KindBasicAttack,
	event.KindSkillUsed,
	event.KindUltimateUsed,
	event.KindFollowUpAttack,
}
