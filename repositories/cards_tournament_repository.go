package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"
	"github.com/lib/pq"
)

var (
	ErrCardsTournamentNotFound = errors.New("cards tournament not found")
	ErrCardsTournamentConflict = errors.New("cards tournament already exists")
)

const uniqueViolationCode = "23505"

type CardsTournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, t *models.CardsTournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.CardsTournament, error)
	Update(ctx context.Context, exec SQLExecutor, t *models.CardsTournament) error
	Delete(ctx context.Context, exec SQLExecutor, id string) error
	ListByStatus(ctx context.Context, exec SQLExecutor, statuses []models.CardsStatus) ([]*models.CardsTournament, error)
}

type postgresCardsTournamentRepository struct {
	db *sql.DB
}

func NewPostgresCardsTournamentRepository(db *sql.DB) CardsTournamentRepository {
	return &postgresCardsTournamentRepository{db: db}
}

func (r *postgresCardsTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresCardsTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.CardsTournament) error {
	pairsJSON, matchesJSON, err := encodeCardsPayload(t)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	query := `
		INSERT INTO cards_tournaments
			(id, name, slug, pairs, matches, current_round, status, archive_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.getExecutor(exec).ExecContext(ctx, query,
		t.ID, t.Name, t.Slug, pairsJSON, matchesJSON,
		t.CurrentRound, t.Status, t.ArchiveURL, t.CreatedAt, t.UpdatedAt,
	)
	return handleCardsTournamentError(err)
}

func (r *postgresCardsTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.CardsTournament, error) {
	query := `
		SELECT id, name, slug, pairs, matches, current_round, status, archive_url, created_at, updated_at
		FROM cards_tournaments
		WHERE id = $1`

	row := r.getExecutor(exec).QueryRowContext(ctx, query, id)
	return scanCardsTournament(row)
}

func (r *postgresCardsTournamentRepository) Update(ctx context.Context, exec SQLExecutor, t *models.CardsTournament) error {
	pairsJSON, matchesJSON, err := encodeCardsPayload(t)
	if err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE cards_tournaments SET
			name = $1, slug = $2, pairs = $3, matches = $4, current_round = $5,
			status = $6, archive_url = $7, updated_at = $8
		WHERE id = $9`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		t.Name, t.Slug, pairsJSON, matchesJSON, t.CurrentRound,
		t.Status, t.ArchiveURL, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return handleCardsTournamentError(err)
	}
	return checkAffectedRows(result, ErrCardsTournamentNotFound)
}

func (r *postgresCardsTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id string) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM cards_tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCardsTournamentNotFound)
}

func (r *postgresCardsTournamentRepository) ListByStatus(ctx context.Context, exec SQLExecutor, statuses []models.CardsStatus) ([]*models.CardsTournament, error) {
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}

	query := `
		SELECT id, name, slug, pairs, matches, current_round, status, archive_url, created_at, updated_at
		FROM cards_tournaments
		WHERE status = ANY($1)
		ORDER BY created_at DESC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.CardsTournament, 0)
	for rows.Next() {
		t, errScan := scanCardsTournament(rows)
		if errScan != nil {
			return nil, errScan
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func scanCardsTournament(rowScanner interface{ Scan(...interface{}) error }) (*models.CardsTournament, error) {
	var (
		t           models.CardsTournament
		pairsJSON   []byte
		matchesJSON []byte
		archiveURL  sql.NullString
	)
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.Slug, &pairsJSON, &matchesJSON,
		&t.CurrentRound, &t.Status, &archiveURL, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardsTournamentNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(pairsJSON, &t.Pairs); err != nil {
		return nil, fmt.Errorf("failed to decode pairs of cards tournament %s: %w", t.ID, err)
	}
	if err := json.Unmarshal(matchesJSON, &t.Matches); err != nil {
		return nil, fmt.Errorf("failed to decode matches of cards tournament %s: %w", t.ID, err)
	}
	if archiveURL.Valid {
		t.ArchiveURL = &archiveURL.String
	}
	return &t, nil
}

func encodeCardsPayload(t *models.CardsTournament) ([]byte, []byte, error) {
	pairsJSON, err := json.Marshal(t.Pairs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode pairs: %w", err)
	}
	matches := t.Matches
	if matches == nil {
		matches = []models.Match{}
	}
	matchesJSON, err := json.Marshal(matches)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode matches: %w", err)
	}
	return pairsJSON, matchesJSON, nil
}

func handleCardsTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return ErrCardsTournamentConflict
	}
	return err
}
