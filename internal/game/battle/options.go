package battle

import "github.com/udisondev/battlesim/internal/game/energy"

const (
	// DefaultMaxTurns bounds a run regardless of the time limit.
	DefaultMaxTurns = 500
	// DefaultMaxPending bounds pending actions drained after one action.
	DefaultMaxPending = 100
	// maxPublishDepth bounds nested event publication.
	maxPublishDepth = 32
	// maxExtraActions bounds consecutive actions kept open by PreventTurnEnd.
	maxExtraActions = 5
	// firstCycleAV is the length of the first cycle; later cycles take cycleAV.
	firstCycleAV = 150
	cycleAV      = 100
)

// Options configures a battle.
type Options struct {
	// Rounds is the number of cycles simulated; the time limit is
	// 150 + 100*(Rounds-1) action value.
	Rounds int
	// MaxTurns stops the run after this many turns.
	MaxTurns int
	// InitialEnergy is the fraction of max energy characters start with.
	InitialEnergy float64
	// SkillPoints and MaxSkillPoints size the party pool.
	SkillPoints    int
	MaxSkillPoints int
	// MaxPending bounds the pending-action queue drain.
	MaxPending int
	// Seed drives crit, effect and targeting rolls.
	Seed uint64
}

// DefaultOptions returns options for a 5-cycle battle.
func DefaultOptions() Options {
	return Options{
		Rounds:         5,
		MaxTurns:       DefaultMaxTurns,
		InitialEnergy:  energy.DefaultInitialRatio,
		SkillPoints:    energy.DefaultSkillPoints,
		MaxSkillPoints: energy.DefaultMaxSkillPoints,
		MaxPending:     DefaultMaxPending,
		Seed:           1,
	}
}

// TimeLimit returns the action value at which the battle times out.
func (o Options) TimeLimit() float64 {
	if o.Rounds <= 0 {
		return firstCycleAV
	}
	return float64(o.Rounds*cycleAV + firstCycleAV - cycleAV)
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Rounds <= 0 {
		o.Rounds = d.Rounds
	}
	if o.MaxTurns <= 0 {
		o.MaxTurns = d.MaxTurns
	}
	if o.MaxSkillPoints <= 0 {
		o.MaxSkillPoints = d.MaxSkillPoints
	}
	if o.SkillPoints < 0 {
		o.SkillPoints = 0
	}
	if o.MaxPending <= 0 {
		o.MaxPending = d.MaxPending
	}
	return o
}
