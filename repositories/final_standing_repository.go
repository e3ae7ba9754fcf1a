package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"
)

type FinalStandingRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, standings []*models.FinalStanding) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.FinalStanding, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID string) error
}

type postgresFinalStandingRepository struct {
	db *sql.DB
}

func NewPostgresFinalStandingRepository(db *sql.DB) FinalStandingRepository {
	return &postgresFinalStandingRepository{db: db}
}

func (r *postgresFinalStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const upsertFinalStandingQuery = `
	INSERT INTO cards_final_standings
		(tournament_id, pair_id, pair_name, rank, wins, points_for, points_against, diff, recorded_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (tournament_id, pair_id) DO UPDATE SET
		pair_name = EXCLUDED.pair_name, rank = EXCLUDED.rank, wins = EXCLUDED.wins,
		points_for = EXCLUDED.points_for, points_against = EXCLUDED.points_against,
		diff = EXCLUDED.diff, recorded_at = EXCLUDED.recorded_at`

// BatchCreate writes the whole table at once. Without an executor it opens its own
// transaction so a table is never stored half-way.
func (r *postgresFinalStandingRepository) BatchCreate(ctx context.Context, exec SQLExecutor, standings []*models.FinalStanding) (err error) {
	if len(standings) == 0 {
		return nil
	}

	executor := exec
	if executor == nil {
		tx, errTx := r.db.BeginTx(ctx, nil)
		if errTx != nil {
			return fmt.Errorf("BatchCreate failed to begin transaction: %w", errTx)
		}
		defer func() {
			if p := recover(); p != nil {
				_ = tx.Rollback()
				panic(p)
			} else if err != nil {
				_ = tx.Rollback()
			} else {
				err = tx.Commit()
			}
		}()
		executor = tx
	}

	for _, st := range standings {
		if st.RecordedAt.IsZero() {
			st.RecordedAt = time.Now().UTC()
		}
		_, err = executor.ExecContext(ctx, upsertFinalStandingQuery,
			st.TournamentID, st.PairID, st.PairName, st.Rank,
			st.Wins, st.PointsFor, st.PointsAgainst, st.Diff, st.RecordedAt,
		)
		if err != nil {
			return fmt.Errorf("BatchCreate failed for pair %s: %w", st.PairID, err)
		}
	}
	return nil
}

func (r *postgresFinalStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.FinalStanding, error) {
	query := `
		SELECT tournament_id, pair_id, pair_name, rank, wins, points_for, points_against, diff, recorded_at
		FROM cards_final_standings
		WHERE tournament_id = $1
		ORDER BY rank ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.FinalStanding, 0, 4)
	for rows.Next() {
		var s models.FinalStanding
		if errScan := rows.Scan(
			&s.TournamentID, &s.PairID, &s.PairName, &s.Rank,
			&s.Wins, &s.PointsFor, &s.PointsAgainst, &s.Diff, &s.RecordedAt,
		); errScan != nil {
			return nil, errScan
		}
		standings = append(standings, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}

func (r *postgresFinalStandingRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID string) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM cards_final_standings WHERE tournament_id = $1`, tournamentID)
	return err
}
