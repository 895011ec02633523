package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/battlesim/internal/config"
	"github.com/udisondev/battlesim/internal/data"
	"github.com/udisondev/battlesim/internal/db"
	"github.com/udisondev/battlesim/internal/game/rules"
	"github.com/udisondev/battlesim/internal/report"
	"github.com/udisondev/battlesim/internal/scenario"
	"github.com/udisondev/battlesim/internal/worker"
)

const ConfigPath = "config/battlesim.yaml"

var errUsage = errors.New("usage: battlesim -scenario <file> [-config <file>] [-runs N] [-output yaml|json|text] [-out <file>] [-validate]")

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

type options struct {
	config   string
	scenario string
	runs     int
	output   string
	out      string
	validate bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("battlesim", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.config, "config", "", "application config file")
	fs.StringVar(&o.scenario, "scenario", "", "scenario file")
	fs.IntVar(&o.runs, "runs", 1, "number of seeds to run, starting at the scenario seed")
	fs.StringVar(&o.output, "output", "", "report format, overrides config")
	fs.StringVar(&o.out, "out", "", "write the report to this file instead of stdout")
	fs.BoolVar(&o.validate, "validate", false, "validate the scenario and exit")
	if err := fs.Parse(args); err != nil {
		return o, fmt.Errorf("%w: %w", errUsage, err)
	}
	if o.scenario == "" || o.runs < 1 {
		return o, errUsage
	}
	if o.config == "" {
		o.config = ConfigPath
		if p := os.Getenv(config.EnvPrefix + "CONFIG"); p != "" {
			o.config = p
		}
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadApp(opts.config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}
	format, err := report.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	// Logs go to stderr so the report owns stdout.
	lvl, _ := config.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})))
	slog.Info("battlesim starting", "log_level", cfg.LogLevel, "workers", cfg.Workers)

	tables, err := loadTables(cfg.DataDir)
	if err != nil {
		return err
	}

	sc, err := scenario.Load(opts.scenario)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}
	if sc.Seed == 0 {
		sc.Seed = cfg.DefaultSeed
	}
	setup, err := sc.Build(tables, rules.NewCatalog())
	if err != nil {
		return fmt.Errorf("building scenario %s: %w", opts.scenario, err)
	}
	slog.Info("scenario ready",
		"name", setup.Name,
		"digest", setup.Digest,
		"seed", setup.Options.Seed,
		"units", len(setup.Units))
	if opts.validate {
		return nil
	}

	reqs := worker.Sweep(setup, worker.Seeds(setup.Options.Seed, opts.runs))
	completions, err := worker.NewPool(cfg.Workers).Batch(ctx, reqs)
	if err != nil {
		return err
	}

	if cfg.Persist {
		if err := persist(ctx, cfg.Database.DSN(), completions); err != nil {
			return err
		}
	}

	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", opts.out, err)
		}
		defer f.Close()
		w = f
	}

	if len(completions) == 1 {
		return completions[0].Report.Write(w, format)
	}
	return writeSummary(w, format, worker.Summarize(completions))
}

func loadTables(dir string) (data.Tables, error) {
	if dir == "" {
		return data.Default()
	}
	t, err := data.LoadDir(dir)
	if err != nil {
		return data.Tables{}, fmt.Errorf("loading data tables from %s: %w", dir, err)
	}
	return t, nil
}

// persist migrates the run store and saves every completion concurrently.
func persist(ctx context.Context, dsn string, completions []worker.Completion) error {
	if _, err := db.RunMigrations(ctx, dsn); err != nil {
		return err
	}
	database, err := db.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	runs := database.Runs()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(int(database.Pool().Config().MaxConns))
	for _, c := range completions {
		g.Go(func() error {
			id, err := runs.Save(gctx, c.Report)
			if err != nil {
				return fmt.Errorf("saving %s: %w", c.ID, err)
			}
			slog.Info("run saved", "run", id, "request", c.ID)
			return nil
		})
	}
	return g.Wait()
}
