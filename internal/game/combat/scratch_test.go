package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestScratch_OrderIndependent(t *testing.T) {
	items := []Contribution{
		{Slot: SlotDmgBoost, Value: 0.1, Source: "a"},
		{Slot: SlotDmgBoost, Value: 0.2, Source: "b"},
		{Slot: SlotDmgBoost, Value: 0.3, Combine: CombineMax, Source: "c"},
		{Slot: SlotDmgBoost, Value: 0.25, Combine: CombineMax, Source: "d"},
		{Slot: SlotDefIgnore, Value: 0.1, Combine: CombineOverride, Priority: 1, Source: "e"},
		{Slot: SlotDefIgnore, Value: 0.4, Combine: CombineOverride, Priority: 2, Source: "f"},
		{Slot: SlotDefIgnore, Value: 0.9, Source: "g"},
	}

	var forward, backward Scratch
	for i := range items {
		forward = forward.Add(items[i])
		backward = backward.Add(items[len(items)-1-i])
	}

	f, b := forward.Resolve(), backward.Resolve()
	assert.Equal(t, f, b)
	assert.InDelta(t, 0.6, f.DmgBoost, 1e-9)
	assert.InDelta(t, 0.4, f.DefIgnore, 1e-9)
}

func TestScratch_OverrideTieBreak(t *testing.T) {
	s := Scratch{}.
		Add(Contribution{Slot: SlotVuln, Value: 0.2, Combine: CombineOverride, Source: "z"}).
		Add(Contribution{Slot: SlotVuln, Value: 0.2, Combine: CombineOverride, Source: "a"}).
		Add(Contribution{Slot: SlotVuln, Value: 0.1, Combine: CombineOverride, Source: "b"})
	assert.InDelta(t, 0.2, s.Resolve().Vuln, 1e-9)
}

func TestScratch_Empty(t *testing.T) {
	assert.Equal(t, Mods{}, Scratch{}.Resolve())
}

func TestCombine_UnmarshalText(t *testing.T) {
	tests := []struct {
		raw     string
		expect  Combine
		wantErr bool
	}{
		{"{slot: vuln, value: 0.1}", CombineAdd, false},
		{"{slot: vuln, value: 0.1, combine: add}", CombineAdd, false},
		{"{slot: vuln, value: 0.1, combine: max}", CombineMax, false},
		{"{slot: vuln, value: 0.1, combine: override}", CombineOverride, false},
		{"{slot: vuln, value: 0.1, combine: overide}", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var c Contribution
			err := yaml.Unmarshal([]byte(tt.raw), &c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expect, c.Combine)
		})
	}
}
