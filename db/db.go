package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
)

func Connect(dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	// Live scoring is a handful of writes per minute per tournament.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database within %v: %w (close also failed: %v)", timeout, err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS cards_tournaments (
	id            UUID PRIMARY KEY,
	name          TEXT NOT NULL,
	slug          TEXT NOT NULL,
	pairs         JSONB NOT NULL,
	matches       JSONB NOT NULL,
	current_round INTEGER NOT NULL DEFAULT 1,
	status        TEXT NOT NULL,
	archive_url   TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_cards_tournaments_status ON cards_tournaments (status);

CREATE TABLE IF NOT EXISTS cards_final_standings (
	tournament_id  UUID NOT NULL,
	pair_id        TEXT NOT NULL,
	pair_name      TEXT NOT NULL,
	rank           INTEGER NOT NULL,
	wins           INTEGER NOT NULL,
	points_for     INTEGER NOT NULL,
	points_against INTEGER NOT NULL,
	diff           INTEGER NOT NULL,
	recorded_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (tournament_id, pair_id)
);
`

// Migrate creates the tables the service needs if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
