package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/report"
	"github.com/udisondev/battlesim/internal/testutil"
)

func TestNewPool(t *testing.T) {
	assert.Equal(t, 1, NewPool(0).Workers())
	assert.Equal(t, 1, NewPool(-3).Workers())
	assert.Equal(t, 4, NewPool(4).Workers())
}

func TestSeeds(t *testing.T) {
	assert.Equal(t, []uint64{10, 11, 12}, Seeds(10, 3))
	assert.Empty(t, Seeds(1, 0))
}

func TestPool_Batch(t *testing.T) {
	setup := testutil.SampleSetup(t)
	reqs := Sweep(setup, Seeds(1, 6))

	out, err := NewPool(3).Batch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, out, 6)

	for i, c := range out {
		require.NoError(t, c.Err)
		assert.Equal(t, reqs[i].ID, c.ID)
		assert.Equal(t, uint64(i+1), c.Report.Seed)
	}

	// the same seed replays the same battle regardless of scheduling
	single := Run(context.Background(), reqs[2])
	require.NoError(t, single.Err)
	assert.Equal(t, single.Report.Transcript, out[2].Report.Transcript)
}

func TestPool_BatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPool(2).Batch(ctx, Sweep(testutil.SampleSetup(t), Seeds(1, 4)))
	require.ErrorIs(t, err, context.Canceled)
}

func completion(outcome battle.Outcome, dmg, clock float64) Completion {
	return Completion{Report: report.Report{
		Outcome: outcome,
		Clock:   clock,
		Units:   []report.Unit{{ID: "a", Totals: battle.Totals{DamageDealt: dmg}}},
	}}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		in   []Completion
		want Summary
	}{
		{
			name: "empty",
			want: Summary{},
		},
		{
			name: "mixed",
			in: []Completion{
				completion(battle.Victory, 100, 200),
				completion(battle.Victory, 300, 100),
				completion(battle.Timeout, 200, 450),
				{Err: context.Canceled},
			},
			want: Summary{
				Runs: 4, Victories: 2, Timeouts: 1, Failed: 1,
				MinDamage: 100, MaxDamage: 300, AvgDamage: 200, AvgClock: 250,
			},
		},
		{
			name: "all failed",
			in:   []Completion{{Err: context.Canceled}},
			want: Summary{Runs: 1, Failed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.in))
		})
	}
}
