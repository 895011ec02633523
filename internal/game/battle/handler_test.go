package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

func TestPublish_RegistrationOrder(t *testing.T) {
	var order []string
	record := func(id string) funcHandler {
		return funcHandler{
			id:    id,
			kinds: []event.Kind{event.KindBasicAttack},
			fn: func(_ event.Event, s State) State {
				order = append(order, id)
				return s
			},
		}
	}
	s := New([]model.Unit{ally("a", 100), foe("e", 1e6, 50)}, opts(), HookRegistry{})
	s = s.Register(record("second-registered")).Register(record("first")).Register(record("third"))
	s = s.Register(record("first"))

	assert.Equal(t, []string{"second-registered", "first", "third"}, s.HandlerIDs())

	s.Dispatch(Action{Source: "a", Ability: model.AbilityBasic})
	assert.Equal(t, []string{"second-registered", "first", "third"}, order)

	order = nil
	s.Unregister("first").Dispatch(Action{Source: "a", Ability: model.AbilityBasic})
	assert.Equal(t, []string{"second-registered", "third"}, order)
}

func TestPublish_CooldownOnlyAfterReaction(t *testing.T) {
	calls := 0
	h := funcHandler{
		id:       "counter",
		kinds:    []event.Kind{event.KindBasicAttack},
		cooldown: 2,
		owner:    "a",
		fn: func(ev event.Event, s State) State {
			calls++
			if calls == 1 {
				// First call declines to react.
				return s
			}
			return s.ActionAdvance(ev.Source(), 0.1)
		},
	}
	s := New([]model.Unit{ally("a", 100), foe("e", 1e6, 50)}, opts(), HookRegistry{})
	s = s.Register(h)

	s = s.Dispatch(Action{Source: "a", Ability: model.AbilityBasic})
	assert.Equal(t, 0, s.Cooldown("counter"))

	s = s.Dispatch(Action{Source: "a", Ability: model.AbilityBasic})
	assert.Equal(t, 2, s.Cooldown("counter"))

	s = s.Dispatch(Action{Source: "a", Ability: model.AbilityBasic})
	assert.Equal(t, 2, calls, "skipped while cooling down")

	s = s.tickCooldowns("e")
	assert.Equal(t, 2, s.Cooldown("counter"), "other units' turns do not count")
	s = s.tickCooldowns("a").tickCooldowns("a")
	assert.Equal(t, 0, s.Cooldown("counter"))

	s.Dispatch(Action{Source: "a", Ability: model.AbilityBasic})
	assert.Equal(t, 3, calls)
}

func TestPublish_PanickingHandlerIsContained(t *testing.T) {
	ran := false
	s := New([]model.Unit{ally("a", 100), foe("e", 1e6, 50)}, opts(), HookRegistry{})
	s = s.Register(funcHandler{
		id:    "broken",
		kinds: []event.Kind{event.KindBasicAttack},
		fn: func(event.Event, State) State {
			panic("boom")
		},
	})
	s = s.Register(funcHandler{
		id:    "healthy",
		kinds: []event.Kind{event.KindBasicAttack},
		fn: func(_ event.Event, s State) State {
			ran = true
			return s
		},
	})

	require.NotPanics(t, func() {
		s = s.Dispatch(Action{Source: "a", Ability: model.AbilityBasic})
	})
	assert.True(t, ran)
	assert.Len(t, entriesOf(s, EntryAction), 1)
}

func TestEnqueue_FollowUpRunsAfterAction(t *testing.T) {
	a := ally("a", 100)
	a.Abilities.FollowUp = &model.Ability{
		Name:   "riposte",
		Target: model.TargetSingle,
		Damage: &model.DamageSpec{Scaling: model.ScaleATK, Hits: []model.Hit{{Multiplier: 1}}},
	}
	s := New([]model.Unit{a, foe("e", 1e6, 50)}, opts(), HookRegistry{})
	s = s.Register(funcHandler{
		id:    "riposte",
		kinds: []event.Kind{event.KindBasicAttack},
		fn: func(ev event.Event, s State) State {
			return s.Enqueue(Pending{Kind: PendingFollowUp, Source: ev.Source()})
		},
	})

	s = s.act("a")

	actions := entriesOf(s, EntryAction)
	require.Len(t, actions, 2)
	assert.Equal(t, "basic", actions[0].Ability)
	assert.Equal(t, "follow_up", actions[1].Ability)
	assert.Empty(t, s.Pending())
}

func TestPublish_FailedRollsAdvanceTheStream(t *testing.T) {
	rolls := map[string][]bool{}
	chance := func(id string) funcHandler {
		return funcHandler{
			id:    id,
			kinds: []event.Kind{event.KindBasicAttack},
			fn: func(ev event.Event, s State) State {
				s, ok := s.Roll(0.5)
				rolls[id] = append(rolls[id], ok)
				if !ok {
					return s
				}
				return s.ActionAdvance(ev.Source(), 0.01)
			},
		}
	}
	s := New([]model.Unit{ally("a", 100), foe("e", 1e9, 50)}, opts(), HookRegistry{})
	s = s.Register(chance("first")).Register(chance("second"))

	const dispatches = 400
	for range dispatches {
		s = s.Dispatch(Action{Source: "a", Ability: model.AbilityBasic, Target: "e"})
	}

	first, second := rolls["first"], rolls["second"]
	require.Len(t, first, dispatches)
	require.Len(t, second, dispatches)

	var firstFailed, secondAfterFail, firstWon int
	for i := range first {
		if first[i] {
			firstWon++
			continue
		}
		firstFailed++
		if second[i] {
			secondAfterFail++
		}
	}
	assert.Greater(t, firstWon, 0)
	assert.Greater(t, firstFailed, 0)
	// Independent 50% draws: roughly half of the first rule's failures.
	assert.InDelta(t, float64(firstFailed)/2, float64(secondAfterFail), float64(firstFailed)/4)
}

func TestPublish_LoneChanceRuleEventuallyFires(t *testing.T) {
	s := New([]model.Unit{ally("a", 100), foe("e", 1e9, 50)}, opts(), HookRegistry{})
	fired := 0
	s = s.Register(funcHandler{
		id:    "coin",
		kinds: []event.Kind{event.KindActionComplete},
		fn: func(ev event.Event, s State) State {
			s, ok := s.Roll(0.5)
			if ok {
				fired++
			}
			return s
		},
	})

	for range 20 {
		s = s.Dispatch(Action{Source: "a", Ability: model.AbilityBasic, Target: "e"})
	}
	assert.Greater(t, fired, 0)
	assert.Less(t, fired, 20)
}
