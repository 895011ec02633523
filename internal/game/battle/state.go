// Package battle is the simulation core: the GameState aggregate, the
// handler registry, the action dispatcher and the turn loop.
//
// State is an immutable value. Every operation returns a new State and
// leaves its receiver valid, so handlers and tests can keep snapshots.
// Every mutation bumps a revision counter; Publish uses it to tell whether
// a handler reacted.
package battle

import (
	"github.com/udisondev/battlesim/internal/game/combat"
	"github.com/udisondev/battlesim/internal/game/effect"
	"github.com/udisondev/battlesim/internal/game/energy"
	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/game/timeline"
	"github.com/udisondev/battlesim/internal/game/unit"
	"github.com/udisondev/battlesim/internal/model"
	"github.com/udisondev/battlesim/internal/rng"
)

// Outcome is the battle result.
type Outcome string

const (
	Running Outcome = ""
	Victory Outcome = "victory"
	Defeat  Outcome = "defeat"
	Timeout Outcome = "timeout"
)

// Totals are per-unit aggregate metrics.
type Totals struct {
	DamageDealt float64 `yaml:"damage_dealt" json:"damage_dealt"`
	DamageTaken float64 `yaml:"damage_taken" json:"damage_taken"`
	Healing     float64 `yaml:"healing" json:"healing"`
	Shielding   float64 `yaml:"shielding" json:"shielding"`
	Actions     int     `yaml:"actions" json:"actions"`
	Breaks      int     `yaml:"breaks" json:"breaks"`
}

// PendingKind is the type of a queued follow-up.
type PendingKind uint8

const (
	PendingFollowUp PendingKind = iota
	PendingAdvance
	PendingUltimate
)

// Pending is an action requested by a handler, executed after the current
// action finishes.
type Pending struct {
	Kind   PendingKind
	Source model.UnitID
	Target model.UnitID
	// Amount is the advance fraction for PendingAdvance.
	Amount float64
}

// State is the battle aggregate root.
type State struct {
	units    unit.Registry
	queue    timeline.Queue
	sp       energy.SkillPoints
	handlers handlerSet
	hooks    HookRegistry
	rng      rng.Stream
	log      Transcript
	scratch  combat.Scratch
	pending  []Pending

	cooldowns map[string]int
	totals    map[model.UnitID]Totals

	opts    Options
	turn    int
	outcome Outcome
	rev     uint64
	depth   int
	started bool

	// draft is the action entry under construction while inAction is set;
	// hits land in it.
	draft    Entry
	inAction bool
}

// New creates a battle from units in registry order. Characters start with
// opts.InitialEnergy of their max energy and every unit is queued with a
// full action value.
func New(units []model.Unit, opts Options, hooks HookRegistry) State {
	opts = opts.withDefaults()
	r := effect.RefreshAll(unit.New(units...))
	var q timeline.Queue
	for _, u := range r.All() {
		if !u.IsEnemy && !u.IsSummon {
			id := u.ID
			r = r.Update(id, func(u model.Unit) model.Unit {
				if u.HP <= 0 {
					u.HP = u.MaxHP()
				}
				return energy.Initial(u, opts.InitialEnergy)
			})
		} else if u.HP <= 0 {
			r = r.Update(u.ID, func(u model.Unit) model.Unit {
				u.HP = u.MaxHP()
				return u
			})
		}
		if u.Toughness == 0 && u.MaxToughness > 0 {
			r = r.Update(u.ID, func(u model.Unit) model.Unit {
				u.Toughness = u.MaxToughness
				return u
			})
		}
		q = q.Add(u.ID, u.Stats.Get(model.StatSPD))
	}
	return State{
		units:  r,
		queue:  q,
		sp:     energy.SkillPoints{Current: min(opts.SkillPoints, opts.MaxSkillPoints), Max: opts.MaxSkillPoints},
		hooks:  hooks,
		rng:    rng.New(opts.Seed),
		opts:   opts,
		totals: make(map[model.UnitID]Totals, r.Len()),
	}
}

func (s State) bump() State {
	s.rev++
	return s
}

// Rev returns the revision counter. It changes on every mutation.
func (s State) Rev() uint64 { return s.rev }

// Options returns the battle options.
func (s State) Options() Options { return s.opts }

// Unit returns the unit with id.
func (s State) Unit(id model.UnitID) (model.Unit, bool) { return s.units.Get(id) }

// Units returns every unit in registry order. The slice must not be modified.
func (s State) Units() []model.Unit { return s.units.All() }

// Registry returns the unit registry.
func (s State) Registry() unit.Registry { return s.units }

// AliveAllies returns living player-side units.
func (s State) AliveAllies() []model.Unit { return s.units.AliveAllies() }

// AliveEnemies returns living enemies.
func (s State) AliveEnemies() []model.Unit { return s.units.AliveEnemies() }

// Queue returns the turn order.
func (s State) Queue() timeline.Queue { return s.queue }

// Clock returns the elapsed action value.
func (s State) Clock() float64 { return s.queue.Clock() }

// Turn returns the number of turns taken.
func (s State) Turn() int { return s.turn }

// SkillPoints returns the party pool.
func (s State) SkillPoints() energy.SkillPoints { return s.sp }

// Transcript returns the battle log.
func (s State) Transcript() Transcript { return s.log }

// Outcome returns the battle outcome, Running until it ends.
func (s State) Outcome() Outcome { return s.outcome }

// Totals returns aggregate metrics for id.
func (s State) Totals(id model.UnitID) Totals { return s.totals[id] }

// Scratch returns the damage modifier scratch of the current hit.
func (s State) Scratch() combat.Scratch { return s.scratch }

// Pending returns queued pending actions.
func (s State) Pending() []Pending { return s.pending }

// Hooks returns the effect hook registry.
func (s State) Hooks() HookRegistry { return s.hooks }

// UpdateUnit replaces unit id by fn applied to a copy. Stats are
// recomputed afterwards. Absent ids are a no-op.
func (s State) UpdateUnit(id model.UnitID, fn func(model.Unit) model.Unit) State {
	if !s.units.Has(id) {
		return s
	}
	s.units = effect.Refresh(s.units.Update(id, fn), id)
	return s.bump()
}

// AddContribution writes into the damage scratch of the hit being computed.
func (s State) AddContribution(c combat.Contribution) State {
	s.scratch = s.scratch.Add(c)
	return s.bump()
}

// Enqueue schedules p to run after the current action.
func (s State) Enqueue(p Pending) State {
	pending := make([]Pending, len(s.pending), len(s.pending)+1)
	copy(pending, s.pending)
	s.pending = append(pending, p)
	return s.bump()
}

// ActionAdvance moves id forward by pct of its full action value.
func (s State) ActionAdvance(id model.UnitID, pct float64) State {
	u, ok := s.units.Get(id)
	if !ok || pct == 0 {
		return s
	}
	s.queue = s.queue.ActionAdvance(id, pct, u.Stats.Get(model.StatSPD))
	return s.bump()
}

// Delay pushes id back by pct of its full action value.
func (s State) Delay(id model.UnitID, pct float64) State {
	return s.ActionAdvance(id, -pct)
}

// GainEnergy grants base energy to id, scaled by its energy regen rate
// unless flat is set.
func (s State) GainEnergy(id model.UnitID, base float64, flat bool) State {
	u, ok := s.units.Get(id)
	if !ok || !u.Alive() || base <= 0 {
		return s
	}
	var gained float64
	if flat {
		u, gained = energy.GainFlat(u, base)
	} else {
		u, gained = energy.Gain(u, base)
	}
	if gained <= 0 {
		return s
	}
	energyNow := u.Energy
	s.units = s.units.Update(id, func(u model.Unit) model.Unit {
		u.Energy = energyNow
		return u
	})
	s = s.bump()
	return s.Publish(event.EnergyGained{SourceID: id, Value: gained})
}

// GainSkillPoints changes the party pool by n and reports the change.
func (s State) GainSkillPoints(source model.UnitID, n int) State {
	if n == 0 {
		return s
	}
	var c energy.Change
	s.sp, c = s.sp.Add(n)
	s = s.bump()
	return s.Publish(event.SkillPointsChanged{
		SourceID:  source,
		Attempted: c.Attempted,
		Applied:   c.Applied,
		Overflow:  c.Overflow,
		Total:     s.sp.Current,
	})
}

// SpendSkillPoints removes n points from the party pool. ok is false, and
// the state unchanged, when the pool holds fewer than n.
func (s State) SpendSkillPoints(source model.UnitID, n int) (State, bool) {
	sp, ok := s.sp.Spend(n)
	if !ok {
		return s, false
	}
	if n <= 0 {
		return s, true
	}
	s.sp = sp
	s = s.bump()
	return s.Publish(event.SkillPointsChanged{
		SourceID:  source,
		Attempted: -n,
		Applied:   -n,
		Total:     s.sp.Current,
	}), true
}

// Roll draws a success with probability p from the battle's random stream.
func (s State) Roll(p float64) (State, bool) {
	ok := s.rng.Roll(p)
	return s, ok
}

// RandomIndex draws a value in [0, n) from the battle's random stream.
func (s State) RandomIndex(n int) (State, int) {
	i := s.rng.IntN(n)
	return s, i
}

func (s State) addTotals(id model.UnitID, fn func(*Totals)) State {
	t := make(map[model.UnitID]Totals, len(s.totals)+1)
	for k, v := range s.totals {
		t[k] = v
	}
	cur := t[id]
	fn(&cur)
	t[id] = cur
	s.totals = t
	return s
}

func (s State) record(e Entry) State {
	e.Time = s.queue.Clock()
	e.Turn = s.turn
	s.log = s.log.Append(e)
	return s.bump()
}
