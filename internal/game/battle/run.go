package battle

import (
	"context"
	"fmt"
	"maps"

	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

// Start records the battle start and publishes BattleStart. Handlers must
// be registered before Start to see it. Calling Start twice is a no-op.
func (s State) Start() State {
	if s.started {
		return s
	}
	s.started = true
	s = s.record(Entry{Kind: EntryBattleStart})
	s = s.Publish(event.BattleStart{})
	s = s.drainPending()
	return s.checkOutcome()
}

// Run plays the battle until it has an outcome. It stops early with the
// context's error when ctx is done.
func (s State) Run(ctx context.Context) (State, error) {
	s = s.Start()
	for s.outcome == Running {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("battle stopped at turn %d: %w", s.turn, err)
		}
		s = s.Step()
	}
	return s, nil
}

// Result is the final projection of a battle.
type Result struct {
	Outcome     Outcome
	Turns       int
	Clock       float64
	SkillPoints int
	// Units are the units left in the registry, in registry order.
	Units      []model.Unit
	Totals     map[model.UnitID]Totals
	Transcript []Entry
}

// Result projects the state into a Result.
func (s State) Result() Result {
	units := make([]model.Unit, 0, s.units.Len())
	for _, u := range s.units.All() {
		units = append(units, u.Clone())
	}
	return Result{
		Outcome:     s.outcome,
		Turns:       s.turn,
		Clock:       s.queue.Clock(),
		SkillPoints: s.sp.Current,
		Units:       units,
		Totals:      maps.Clone(s.totals),
		Transcript:  s.log.Entries(),
	}
}
