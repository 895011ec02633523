package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/battlesim/internal/model"
)

func TestKind_TextRoundTrip(t *testing.T) {
	for k := KindBattleStart; k < kindCount; k++ {
		b, err := k.MarshalText()
		require.NoError(t, err)

		var got Kind
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, k, got, "kind %s", b)
	}
}

func TestKind_Unknown(t *testing.T) {
	var k Kind
	err := k.UnmarshalText([]byte("tea_time"))
	var unknown *UnknownKindError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "tea_time", unknown.Name)

	_, ok := ParseKind("tea_time")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestTargetOf(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want model.UnitID
		ok   bool
	}{
		{"ability", SkillUsed{AbilityUsed{SourceID: "a", Target: "e"}}, "e", true},
		{"damage", DamageDealt{SourceID: "a", Target: "e"}, "e", true},
		{"summon", SummonSpawned{SourceID: "a", Summon: "a/s"}, "a/s", true},
		{"turn start", TurnStart{SourceID: "a"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TargetOf(tt.ev)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, model.UnitID("a"), tt.ev.Source())
		})
	}
}
