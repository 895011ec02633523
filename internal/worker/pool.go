package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/scenario"
)

// Pool runs batches of requests with bounded parallelism.
type Pool struct {
	workers int
}

// NewPool creates a pool running at most workers simulations at once.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the parallelism bound.
func (p *Pool) Workers() int { return p.workers }

// Batch runs every request and returns completions in request order. The
// first failed run cancels the rest and its error is returned.
func (p *Pool) Batch(ctx context.Context, reqs []Request) ([]Completion, error) {
	out := make([]Completion, len(reqs))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, req := range reqs {
		g.Go(func() error {
			out[i] = Run(gctx, req)
			return out[i].Err
		})
	}
	if err := g.Wait(); err != nil {
		return out, fmt.Errorf("batch: %w", err)
	}

	slog.Info("batch finished",
		"runs", len(reqs),
		"workers", p.workers,
		"elapsed", time.Since(start))
	return out, nil
}

// Sweep builds one request per seed for setup.
func Sweep(setup scenario.Setup, seeds []uint64) []Request {
	reqs := make([]Request, len(seeds))
	for i, seed := range seeds {
		reqs[i] = Request{ID: fmt.Sprintf("%s/%d", setup.Digest[:min(8, len(setup.Digest))], seed), Setup: setup, Seed: seed}
	}
	return reqs
}

// Seeds returns n consecutive seeds starting at from.
func Seeds(from uint64, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = from + uint64(i)
	}
	return out
}

// Summary aggregates the outcomes of a batch.
type Summary struct {
	Runs      int     `yaml:"runs" json:"runs"`
	Victories int     `yaml:"victories" json:"victories"`
	Defeats   int     `yaml:"defeats" json:"defeats"`
	Timeouts  int     `yaml:"timeouts" json:"timeouts"`
	Failed    int     `yaml:"failed,omitempty" json:"failed,omitempty"`
	MinDamage float64 `yaml:"min_damage" json:"min_damage"`
	MaxDamage float64 `yaml:"max_damage" json:"max_damage"`
	AvgDamage float64 `yaml:"avg_damage" json:"avg_damage"`
	AvgClock  float64 `yaml:"avg_clock" json:"avg_clock"`
}

// Summarize aggregates completions. Failed completions are counted but
// excluded from the damage and clock figures.
func Summarize(cs []Completion) Summary {
	s := Summary{Runs: len(cs), MinDamage: math.Inf(1)}
	var ok int
	for _, c := range cs {
		if c.Err != nil {
			s.Failed++
			continue
		}
		ok++
		switch c.Report.Outcome {
		case battle.Victory:
			s.Victories++
		case battle.Defeat:
			s.Defeats++
		case battle.Timeout:
			s.Timeouts++
		}
		dmg := c.Report.PartyDamage()
		s.MinDamage = min(s.MinDamage, dmg)
		s.MaxDamage = max(s.MaxDamage, dmg)
		s.AvgDamage += dmg
		s.AvgClock += c.Report.Clock
	}
	if ok == 0 {
		s.MinDamage = 0
		return s
	}
	s.AvgDamage /= float64(ok)
	s.AvgClock /= float64(ok)
	return s
}
