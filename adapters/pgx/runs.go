package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/musetax/checkboost-onboard/core"
)

// Runs live in a single table; the wizard state rides in a jsonb column so
// schema changes track the Run type without migrations per field. The
// credential pair and user draft are excluded from the run's JSON form, so
// they never reach the database.
//
//	CREATE TABLE onboarding_runs (
//	    id         TEXT PRIMARY KEY,
//	    state      JSONB NOT NULL,
//	    expires_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);

func (a *Adapter) CreateRun(run *core.Run) error {
	state, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	_, err = a.pool.Exec(context.Background(),
		`INSERT INTO onboarding_runs (id, state, expires_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		run.ID, state, run.ExpiresAt, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (a *Adapter) GetRun(id string) (*core.Run, error) {
	var state []byte
	err := a.pool.QueryRow(context.Background(),
		`SELECT state FROM onboarding_runs WHERE id = $1`,
		id,
	).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var run core.Run
	if err := json.Unmarshal(state, &run); err != nil {
		return nil, fmt.Errorf("failed to decode run: %w", err)
	}
	if run.Expired(time.Now()) {
		_ = a.DeleteRun(id)
		return nil, core.ErrRunExpired
	}
	return &run, nil
}

func (a *Adapter) UpdateRun(run *core.Run) error {
	state, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	tag, err := a.pool.Exec(context.Background(),
		`UPDATE onboarding_runs
		 SET state = $2, expires_at = $3, updated_at = $4
		 WHERE id = $1`,
		run.ID, state, run.ExpiresAt, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrRunNotFound
	}
	return nil
}

func (a *Adapter) DeleteRun(id string) error {
	_, err := a.pool.Exec(context.Background(),
		`DELETE FROM onboarding_runs WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

func (a *Adapter) DeleteExpiredRuns() (int, error) {
	tag, err := a.pool.Exec(context.Background(),
		`DELETE FROM onboarding_runs WHERE expires_at < now()`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired runs: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
