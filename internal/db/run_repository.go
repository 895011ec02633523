package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/battlesim/internal/game/battle"
	"github.com/udisondev/battlesim/internal/model"
	"github.com/udisondev/battlesim/internal/report"
)

// RunSummary is the stored header of a finished run.
type RunSummary struct {
	ID          uuid.UUID
	Name        string
	Digest      string
	Seed        uint64
	Outcome     battle.Outcome
	Turns       int
	Clock       float64
	SkillPoints int
	PartyDamage float64
	CreatedAt   time.Time
}

// RunRepository stores simulation reports in PostgreSQL.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a repository on pool.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// Save stores rep with its unit summaries and transcript in one
// transaction and returns the new run id.
func (r *RunRepository) Save(ctx context.Context, rep report.Report) (uuid.UUID, error) {
	id := uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin transaction for run %s: %w", id, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "run", id, "error", err)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO runs (id, name, digest, seed, outcome, turns, clock, skill_points, party_damage)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, rep.Name, rep.Digest, int64(rep.Seed), string(rep.Outcome),
		rep.Turns, rep.Clock, rep.SkillPoints, rep.PartyDamage(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting run %s: %w", id, err)
	}

	if err := saveUnitsTx(ctx, tx, id, rep.Units); err != nil {
		return uuid.Nil, err
	}
	if err := saveEntriesTx(ctx, tx, id, rep.Transcript); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("committing run %s: %w", id, err)
	}

	slog.Debug("saved run",
		"run", id,
		"digest", rep.Digest,
		"units", len(rep.Units),
		"entries", len(rep.Transcript))
	return id, nil
}

func saveUnitsTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, units []report.Unit) error {
	if len(units) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(units))
	for _, u := range units {
		rows = append(rows, []any{
			id, string(u.ID), u.Name, u.Enemy, u.Summon, u.Alive, u.HP, u.MaxHP,
			u.DamageDealt, u.DamageTaken, u.Healing, u.Shielding, u.Actions, u.Breaks,
		})
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"run_units"},
		[]string{
			"run_id", "unit_id", "name", "enemy", "summon", "alive", "hp", "max_hp",
			"damage_dealt", "damage_taken", "healing", "shielding", "actions", "breaks",
		},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting units for run %s: %w", id, err)
	}
	return nil
}

func saveEntriesTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, entries []battle.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		var hits []byte
		if len(e.Hits) > 0 {
			var err error
			if hits, err = json.Marshal(e.Hits); err != nil {
				return fmt.Errorf("encoding hits of entry %d: %w", e.Seq, err)
			}
		}
		rows = append(rows, []any{
			id, e.Seq, e.Time, e.Turn, string(e.Kind), string(e.Source), string(e.Target),
			e.Ability, e.Value, e.Detail, hits,
		})
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"run_entries"},
		[]string{"run_id", "seq", "time", "turn", "kind", "source", "target", "ability", "value", "detail", "hits"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting transcript for run %s: %w", id, err)
	}
	return nil
}

const runColumns = `id, name, digest, seed, outcome, turns, clock, skill_points, party_damage, created_at`

func scanRun(row pgx.Row) (RunSummary, error) {
	var s RunSummary
	var seed int64
	var outcome string
	err := row.Scan(&s.ID, &s.Name, &s.Digest, &seed, &outcome,
		&s.Turns, &s.Clock, &s.SkillPoints, &s.PartyDamage, &s.CreatedAt)
	s.Seed = uint64(seed)
	s.Outcome = battle.Outcome(outcome)
	return s, err
}

// Get returns run id. Returns nil, nil if the run does not exist.
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (*RunSummary, error) {
	s, err := scanRun(r.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM runs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", id, err)
	}
	return &s, nil
}

// ListByDigest returns runs of one scenario, newest first.
func (r *RunRepository) ListByDigest(ctx context.Context, digest string, limit int) ([]RunSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+runColumns+` FROM runs WHERE digest = $1 ORDER BY created_at DESC, id LIMIT $2`,
		digest, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs for digest %s: %w", digest, err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		s, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return out, nil
}

// Transcript loads the stored transcript of run id in sequence order.
func (r *RunRepository) Transcript(ctx context.Context, id uuid.UUID) ([]battle.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT seq, time, turn, kind, source, target, ability, value, detail, hits
		 FROM run_entries WHERE run_id = $1 ORDER BY seq`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying transcript of run %s: %w", id, err)
	}
	defer rows.Close()

	var out []battle.Entry
	for rows.Next() {
		var e battle.Entry
		var kind, source, target string
		var hits []byte
		if err := rows.Scan(&e.Seq, &e.Time, &e.Turn, &kind, &source, &target,
			&e.Ability, &e.Value, &e.Detail, &hits); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Kind = battle.EntryKind(kind)
		e.Source = model.UnitID(source)
		e.Target = model.UnitID(target)
		if len(hits) > 0 {
			if err := json.Unmarshal(hits, &e.Hits); err != nil {
				return nil, fmt.Errorf("decoding hits of entry %d: %w", e.Seq, err)
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transcript: %w", err)
	}
	return out, nil
}

// Delete removes run id and its rows.
func (r *RunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM runs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting run %s: %w", id, err)
	}
	return nil
}
