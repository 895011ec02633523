package battle

import (
	"log/slog"
	"slices"

	"github.com/udisondev/battlesim/internal/game/event"
	"github.com/udisondev/battlesim/internal/model"
)

// Handler is a passive rule reacting to battle events: a character talent,
// light cone or relic set. Handle must be pure: it returns the next state
// and never keeps references to s.
//
// A handler that returns s without calling any State mutator did not react.
type Handler interface {
	ID() string
	Subscriptions() []event.Kind
	Handle(ev event.Event, s State) State
}

// Cooldowner is implemented by handlers that may react at most once per
// Cooldown turns. The counter is set only when the handler reacted.
type Cooldowner interface {
	Cooldown() int
}

// Owned is implemented by handlers bound to a unit. Their cooldown counts
// down at the end of the owner's turns; unowned cooldowns count every turn.
type Owned interface {
	Owner() model.UnitID
}

// handlerSet is an immutable registration-ordered handler list with a
// per-kind index. Registration builds a new set.
type handlerSet struct {
	list   []Handler
	byKind map[event.Kind][]int
	ids    map[string]int
}

func (hs handlerSet) add(h Handler) (handlerSet, bool) {
	if _, dup := hs.ids[h.ID()]; dup {
		return hs, false
	}
	list := append(slices.Clip(hs.list), h)
	next := handlerSet{
		list:   list,
		byKind: make(map[event.Kind][]int, len(hs.byKind)+1),
		ids:    make(map[string]int, len(list)),
	}
	for i, h := range list {
		next.ids[h.ID()] = i
		for _, k := range h.Subscriptions() {
			idx := next.byKind[k]
			if len(idx) > 0 && idx[len(idx)-1] == i {
				continue
			}
			next.byKind[k] = append(idx, i)
		}
	}
	return next, true
}

func (hs handlerSet) remove(id string) handlerSet {
	i, ok := hs.ids[id]
	if !ok {
		return hs
	}
	var next handlerSet
	for j, h := range hs.list {
		if j != i {
			next, _ = next.add(h)
		}
	}
	return next
}

// Register adds h to the state's handlers. Handlers fire in registration
// order. A duplicate ID is ignored with a warning.
func (s State) Register(h Handler) State {
	next, ok := s.handlers.add(h)
	if !ok {
		slog.Warn("duplicate handler id ignored", "handler", h.ID())
		return s
	}
	s.handlers = next
	return s.bump()
}

// Unregister removes the handler with id.
func (s State) Unregister(id string) State {
	if _, ok := s.handlers.ids[id]; !ok {
		return s
	}
	s.handlers = s.handlers.remove(id)
	return s.bump()
}

// HandlerIDs returns registered handler ids in firing order.
func (s State) HandlerIDs() []string {
	ids := make([]string, len(s.handlers.list))
	for i, h := range s.handlers.list {
		ids[i] = h.ID()
	}
	return ids
}

// Cooldown returns the remaining cooldown of handler id.
func (s State) Cooldown(id string) int { return s.cooldowns[id] }

// Publish delivers ev to every subscribed handler in registration order,
// threading the state through each call.
func (s State) Publish(ev event.Event) State {
	if s.depth >= maxPublishDepth {
		slog.Warn("event recursion limit reached", "event", ev.Kind().String())
		return s
	}
	s.depth++

	hs := s.handlers
	for _, i := range hs.byKind[ev.Kind()] {
		h := hs.list[i]
		if s.cooldowns[h.ID()] > 0 {
			continue
		}
		before := s.rev
		next := s.invoke(h, ev)
		if next.rev == before {
			// A failed roll still consumes the stream.
			s.rng = next.rng
			continue
		}
		s = next
		if cd, ok := h.(Cooldowner); ok && cd.Cooldown() > 0 {
			s = s.setCooldown(h.ID(), cd.Cooldown())
		}
	}

	s.depth--
	return s
}

// invoke runs one handler, discarding its result if it panics.
func (s State) invoke(h Handler, ev event.Event) (out State) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("handler panicked", "handler", h.ID(), "event", ev.Kind().String(), "panic", r)
			out = s
		}
	}()
	return h.Handle(ev, s)
}

func (s State) setCooldown(id string, turns int) State {
	cd := make(map[string]int, len(s.cooldowns)+1)
	for k, v := range s.cooldowns {
		cd[k] = v
	}
	cd[id] = turns
	s.cooldowns = cd
	return s.bump()
}

// tickCooldowns counts down cooldowns of handlers owned by unit id, and of
// unowned handlers.
func (s State) tickCooldowns(id model.UnitID) State {
	if len(s.cooldowns) == 0 {
		return s
	}
	cd := make(map[string]int, len(s.cooldowns))
	changed := false
	for hid, v := range s.cooldowns {
		i, ok := s.handlers.ids[hid]
		if ok {
			if o, owned := s.handlers.list[i].(Owned); owned && o.Owner() != "" && o.Owner() != id {
				cd[hid] = v
				continue
			}
		}
		if v > 1 {
			cd[hid] = v - 1
		}
		changed = true
	}
	if !changed {
		return s
	}
	s.cooldowns = cd
	return s.bump()
}
