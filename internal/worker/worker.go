// Package worker runs simulations off the caller's goroutine. A request
// produces exactly one completion carrying a plain report; no engine state
// crosses the boundary.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/battlesim/internal/model"
	"github.com/udisondev/battlesim/internal/report"
	"github.com/udisondev/battlesim/internal/scenario"
)

// ErrPanic wraps a panic raised while a simulation ran.
var ErrPanic = errors.New("simulation panicked")

// Request is one unit of work.
type Request struct {
	ID    string
	Setup scenario.Setup
	// Seed replaces the setup's seed when non-zero.
	Seed uint64
}

// Completion is the single message produced for a Request.
type Completion struct {
	ID      string
	Report  report.Report
	Elapsed time.Duration
	Err     error
}

// Run executes req synchronously.
func Run(ctx context.Context, req Request) (c Completion) {
	c.ID = req.ID
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c = Completion{ID: req.ID, Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
		c.Elapsed = time.Since(start)
	}()

	setup := req.Setup
	setup.Units = cloneUnits(setup.Units)
	if req.Seed != 0 {
		setup.Options.Seed = req.Seed
	}

	st, err := setup.NewBattle().Run(ctx)
	if err != nil {
		c.Err = fmt.Errorf("running %s: %w", req.ID, err)
		return c
	}

	c.Report = report.New(report.Meta{
		Name:   setup.Name,
		Digest: setup.Digest,
		Seed:   setup.Options.Seed,
	}, st.Result())

	slog.Debug("simulation finished",
		"request", req.ID,
		"outcome", c.Report.Outcome,
		"turns", c.Report.Turns,
		"seed", setup.Options.Seed)
	return c
}

// Start runs req on a new goroutine. The returned channel receives one
// completion and is then closed.
func Start(ctx context.Context, req Request) <-chan Completion {
	ch := make(chan Completion, 1)
	go func() {
		defer close(ch)
		ch <- Run(ctx, req)
	}()
	return ch
}

func cloneUnits(units []model.Unit) []model.Unit {
	out := make([]model.Unit, len(units))
	for i, u := range units {
		out[i] = u.Clone()
	}
	return out
}
