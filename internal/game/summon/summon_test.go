package summon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/battlesim/internal/game/effect"
	"github.com/udisondev/battlesim/internal/game/timeline"
	"github.com/udisondev/battlesim/internal/game/unit"
	"github.com/udisondev/battlesim/internal/model"
)

func setup(t *testing.T) (unit.Registry, timeline.Queue) {
	t.Helper()
	owner := model.Unit{ID: "owner", HP: 1000, Base: model.Stats{model.StatHP: 1000, model.StatATK: 700, model.StatSPD: 120}}
	other := model.Unit{ID: "other", HP: 1000, Base: model.Stats{model.StatHP: 1000, model.StatSPD: 100}}
	r := effect.RefreshAll(unit.New(owner, other))
	q := timeline.Queue{}.Add("owner", 120).Add("other", 100)
	return r, q
}

func TestSpawn(t *testing.T) {
	r, q := setup(t)

	r, q, ok := Spawn(r, q, "owner", model.Unit{ID: "numby", FixedSpeed: 80})
	require.True(t, ok)

	assert.Equal(t, []model.UnitID{"owner", "numby", "other"}, r.IDs())
	s, _ := r.Get("numby")
	assert.True(t, s.IsSummon)
	assert.Equal(t, model.UnitID("owner"), s.OwnerID)
	assert.InDelta(t, 700, s.Stats.Get(model.StatATK), 1e-9)
	assert.InDelta(t, 1000, s.HP, 1e-9)

	av, ok := q.AV("numby")
	require.True(t, ok)
	assert.InDelta(t, 125, av, 1e-9, "uses its own speed, not the owner's")
}

func TestSpawn_Rejected(t *testing.T) {
	r, q := setup(t)

	_, _, ok := Spawn(r, q, "ghost", model.Unit{ID: "x", FixedSpeed: 80})
	assert.False(t, ok)

	_, _, ok = Spawn(r, q, "owner", model.Unit{ID: "other", FixedSpeed: 80})
	assert.False(t, ok, "id collision")
}

func TestRemoveWithSummons(t *testing.T) {
	r, q := setup(t)
	r, q, _ = Spawn(r, q, "owner", model.Unit{ID: "numby", FixedSpeed: 80})

	r, q, removed := RemoveWithSummons(r, q, "owner")

	assert.ElementsMatch(t, []model.UnitID{"owner", "numby"}, removed)
	assert.Equal(t, []model.UnitID{"other"}, r.IDs())
	assert.Equal(t, 1, q.Len())
	assert.Empty(t, r.SummonsOf("owner"))
}

func TestDismiss(t *testing.T) {
	r, q := setup(t)
	r, q, _ = Spawn(r, q, "owner", model.Unit{ID: "numby", FixedSpeed: 80})

	r2, q2 := Dismiss(r, q, "owner")
	assert.Equal(t, r.IDs(), r2.IDs(), "non-summon is not dismissed")
	assert.Equal(t, q.Len(), q2.Len())

	r, q = Dismiss(r, q, "numby")
	assert.False(t, r.Has("numby"))
	_, ok := q.AV("numby")
	assert.False(t, ok)
}
