// Package timeline implements the action-value turn order.
//
// Every unit waits AV = TimeConstant / speed units of time between turns.
// The queue advances a global clock to the next ready unit, breaking ties
// by insertion order.
package timeline

import (
	"math"
	"slices"

	"github.com/udisondev/battlesim/internal/model"
)

// TimeConstant is the distance a unit must travel per turn.
const TimeConstant = 10000.0

// ActionValue returns the AV of a full turn at the given speed.
// Non-positive speeds yield +Inf (the unit never acts).
func ActionValue(speed float64) float64 {
	if speed <= 0 {
		return math.Inf(1)
	}
	return TimeConstant / speed
}

// Entry is one unit's position in the queue.
type Entry struct {
	ID  model.UnitID
	AV  float64
	seq int
}

// Queue is an immutable AV queue. Mutating methods return a new Queue.
type Queue struct {
	entries []Entry
	nextSeq int
	clock   float64

	// acting is the unit whose turn is in progress; advance/delay applied to
	// it is kept in shift and folded into the post-turn reset.
	acting model.UnitID
	shift  float64
}

// Clock returns the elapsed action value since battle start.
func (q Queue) Clock() float64 { return q.clock }

// Len returns the number of queued units.
func (q Queue) Len() int { return len(q.entries) }

// Acting returns the unit whose turn is in progress, if any.
func (q Queue) Acting() model.UnitID { return q.acting }

// Add enqueues id with a full AV for speed. An id already queued is left as is.
func (q Queue) Add(id model.UnitID, speed float64) Queue {
	if _, ok := q.find(id); ok {
		return q
	}
	entries := make([]Entry, len(q.entries), len(q.entries)+1)
	copy(entries, q.entries)
	q.entries = append(entries, Entry{ID: id, AV: ActionValue(speed), seq: q.nextSeq})
	q.nextSeq++
	return q
}

// Remove drops id from the queue.
func (q Queue) Remove(id model.UnitID) Queue {
	i, ok := q.find(id)
	if !ok {
		return q
	}
	entries := make([]Entry, 0, len(q.entries)-1)
	entries = append(entries, q.entries[:i]...)
	q.entries = append(entries, q.entries[i+1:]...)
	if q.acting == id {
		q.acting, q.shift = "", 0
	}
	return q
}

// AV returns the current action value of id.
func (q Queue) AV(id model.UnitID) (float64, bool) {
	i, ok := q.find(id)
	if !ok {
		return 0, false
	}
	return q.entries[i].AV, true
}

// Next returns the entry that acts next without advancing time.
func (q Queue) Next() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	best := q.entries[0]
	for _, e := range q.entries[1:] {
		if before(e, best) {
			best = e
		}
	}
	return best, true
}

// Advance moves the clock forward by delta, subtracting it from every
// entry (clamped at 0), and returns the entries that became ready in
// acting order.
func (q Queue) Advance(delta float64) (Queue, []Entry) {
	if delta < 0 {
		delta = 0
	}
	entries := make([]Entry, len(q.entries))
	var ready []Entry
	for i, e := range q.entries {
		e.AV = math.Max(0, e.AV-delta)
		entries[i] = e
		if e.AV <= 0 {
			ready = append(ready, e)
		}
	}
	q.entries = entries
	q.clock += delta
	slices.SortFunc(ready, func(a, b Entry) int { return a.seq - b.seq })
	return q, ready
}

// AdvanceToNext advances time until the next unit is ready and returns it.
func (q Queue) AdvanceToNext() (Queue, Entry, bool) {
	next, ok := q.Next()
	if !ok || math.IsInf(next.AV, 1) {
		return q, Entry{}, false
	}
	q, _ = q.Advance(next.AV)
	i, _ := q.find(next.ID)
	return q, q.entries[i], true
}

// BeginTurn marks id as acting.
func (q Queue) BeginTurn(id model.UnitID) Queue {
	q.acting, q.shift = id, 0
	return q
}

// EndTurn resets id to a full AV at speed, applying any advance or delay
// it received during its own turn.
func (q Queue) EndTurn(id model.UnitID, speed float64) Queue {
	shift := 0.0
	if q.acting == id {
		shift = q.shift
		q.acting, q.shift = "", 0
	}
	return q.set(id, math.Max(0, ActionValue(speed)+shift))
}

// Reset sets id to a full AV at speed.
func (q Queue) Reset(id model.UnitID, speed float64) Queue {
	return q.set(id, ActionValue(speed))
}

// ActionAdvance moves id forward by pct of its full AV at speed (clamped
// at 0). Negative pct delays.
func (q Queue) ActionAdvance(id model.UnitID, pct, speed float64) Queue {
	i, ok := q.find(id)
	if !ok {
		return q
	}
	delta := ActionValue(speed) * pct
	if q.acting == id {
		q.shift -= delta
		return q
	}
	return q.set(id, math.Max(0, q.entries[i].AV-delta))
}

// Delay pushes id back by pct of its full AV at speed.
func (q Queue) Delay(id model.UnitID, pct, speed float64) Queue {
	return q.ActionAdvance(id, -pct, speed)
}

// Entries returns the queue in acting order.
func (q Queue) Entries() []Entry {
	out := slices.Clone(q.entries)
	slices.SortFunc(out, func(a, b Entry) int {
		if before(a, b) {
			return -1
		}
		if before(b, a) {
			return 1
		}
		return 0
	})
	return out
}

func (q Queue) set(id model.UnitID, av float64) Queue {
	i, ok := q.find(id)
	if !ok {
		return q
	}
	entries := make([]Entry, len(q.entries))
	copy(entries, q.entries)
	entries[i].AV = av
	q.entries = entries
	return q
}

func (q Queue) find(id model.UnitID) (int, bool) {
	for i := range q.entries {
		if q.entries[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func before(a, b Entry) bool {
	if a.AV != b.AV {
		return a.AV < b.AV
	}
	return a.seq < b.seq
}
