package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/model"
	"github.com/udisondev/battlesim/internal/testutil"
)

func TestRun_Sample(t *testing.T) {
	setup := testutil.SampleSetup(t)

	c := Run(context.Background(), Request{ID: "one", Setup: setup})
	require.NoError(t, c.Err)

	assert.Equal(t, "one", c.ID)
	assert.Equal(t, setup.Digest, c.Report.Digest)
	assert.Equal(t, "sample", c.Report.Name)
	assert.Equal(t, uint64(7), c.Report.Seed)
	assert.NotEqual(t, battle.Running, c.Report.Outcome)
	require.NotEmpty(t, c.Report.Transcript)
	assert.Equal(t, battle.EntryBattleStart, c.Report.Transcript[0].Kind)
	assert.Positive(t, c.Elapsed)
}

func TestRun_SeedOverride(t *testing.T) {
	setup := testutil.SampleSetup(t)

	c := Run(context.Background(), Request{Setup: setup, Seed: 99})
	require.NoError(t, c.Err)
	assert.Equal(t, uint64(99), c.Report.Seed)
	assert.Equal(t, uint64(7), setup.Options.Seed, "request must not mutate the setup")
}

func TestRun_Deterministic(t *testing.T) {
	setup := testutil.SampleSetup(t)

	a := Run(context.Background(), Request{Setup: setup})
	b := Run(context.Background(), Request{Setup: setup})
	require.NoError(t, a.Err)
	require.NoError(t, b.Err)
	assert.Equal(t, a.Report.Transcript, b.Report.Transcript)
	assert.Equal(t, a.Report.Units, b.Report.Units)
}

func TestRun_DoesNotShareUnits(t *testing.T) {
	setup := testutil.Duel(testutil.Character("hero", model.Fire), testutil.Enemy("foe", 300, model.Fire), 3)
	before := setup.Units[0].Base.Get(model.StatATK)

	c := Run(context.Background(), Request{Setup: setup})
	require.NoError(t, c.Err)
	assert.InDelta(t, before, setup.Units[0].Base.Get(model.StatATK), 1e-9)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := Run(ctx, Request{ID: "x", Setup: testutil.SampleSetup(t)})
	require.ErrorIs(t, c.Err, context.Canceled)
	assert.Equal(t, "x", c.ID)
}

func TestStart_OneCompletion(t *testing.T) {
	ch := Start(context.Background(), Request{ID: "bg", Setup: testutil.SampleSetup(t)})

	c, ok := <-ch
	require.True(t, ok)
	require.NoError(t, c.Err)
	assert.Equal(t, "bg", c.ID)

	_, ok = <-ch
	assert.False(t, ok, "channel closed after the completion")
}
