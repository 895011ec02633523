package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscript_AppendShares(t *testing.T) {
	var t0 Transcript
	t1 := t0.Append(Entry{Kind: EntryAction})
	t2 := t1.Append(Entry{Kind: EntryHeal})

	assert.Equal(t, 0, t0.Len())
	assert.Equal(t, 1, t1.Len())
	assert.Equal(t, 2, t2.Len())
	assert.Equal(t, 1, t2.Entries()[1].Seq)
}

func TestTranscript_ForkDoesNotClobber(t *testing.T) {
	base := Transcript{}.Append(Entry{Kind: EntryBattleStart})
	a := base.Append(Entry{Kind: EntryAction, Detail: "a"})
	b := base.Append(Entry{Kind: EntryAction, Detail: "b"})

	assert.Equal(t, "a", a.Entries()[1].Detail)
	assert.Equal(t, "b", b.Entries()[1].Detail)
	assert.Equal(t, 1, base.Len())

	last, ok := a.Last()
	assert.True(t, ok)
	assert.Equal(t, "a", last.Detail)
}
