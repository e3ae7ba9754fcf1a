package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/brackets"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/models"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/repositories"
	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/storage"
)

const archiveTimeout = 30 * time.Second

// Broadcaster pushes live updates to spectators. *brackets.Hub implements it.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type CreateCardsTournamentInput struct {
	Name  string        `json:"name"`
	Pairs []models.Pair `json:"pairs"`
}

// RecordResultInput uses pointers so that a missing score is told apart from a zero.
type RecordResultInput struct {
	ScoreA      *int `json:"score_a"`
	ScoreB      *int `json:"score_b"`
	GoldenPoint bool `json:"golden_point"`
}

func (in RecordResultInput) toEntry() (models.ScoreEntry, error) {
	if in.ScoreA == nil || in.ScoreB == nil {
		return models.ScoreEntry{}, fmt.Errorf("%w: score_a and score_b are required", ErrValidationFailed)
	}
	return models.ScoreEntry{ScoreA: *in.ScoreA, ScoreB: *in.ScoreB, GoldenPoint: in.GoldenPoint}, nil
}

type RoundProgress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type CardsTournamentView struct {
	Tournament          models.CardsTournament `json:"tournament"`
	Standings           []models.Standing      `json:"standings"`
	CurrentRoundMatches []models.Match         `json:"current_round_matches"`
	RoundProgress       RoundProgress          `json:"round_progress"`
}

type RecordResultOutput struct {
	Match      models.Match       `json:"match"`
	Standings  []models.Standing  `json:"standings"`
	Advanced   bool               `json:"advanced"`
	NewMatches []models.Match     `json:"new_matches"`
	Status     models.CardsStatus `json:"status"`
	ArchiveURL *string            `json:"archive_url,omitempty"`
}

type CardsService interface {
	CreateTournament(ctx context.Context, input CreateCardsTournamentInput) (*CardsTournamentView, error)
	GetTournament(ctx context.Context, tournamentID string) (*CardsTournamentView, error)
	GetStandings(ctx context.Context, tournamentID string) ([]models.Standing, error)
	ListRoundMatches(ctx context.Context, tournamentID string, round int) ([]models.Match, error)
	RecordResult(ctx context.Context, tournamentID, matchID string, input RecordResultInput) (*RecordResultOutput, error)
	DeleteTournament(ctx context.Context, tournamentID string) error
	ListTournaments(ctx context.Context, statuses []models.CardsStatus) ([]*models.CardsTournament, error)
	GetFinalStandings(ctx context.Context, tournamentID string) ([]*models.FinalStanding, error)
	EvictIdle(maxIdle time.Duration) int
}

type CardsServiceConfig struct {
	RejectTiedScores bool
}

type cardsSession struct {
	mu          sync.Mutex
	meta        models.CardsTournament
	ctrl        *brackets.CardsController
	lastTouched time.Time
	// stale marks a session dropped from the cache. Its controller may be ahead of the
	// database, so holders must fetch a fresh one.
	stale       bool
}

// snapshot merges the controller state into the stored metadata. Caller holds mu.
func (s *cardsSession) snapshot() *models.CardsTournament {
	t := s.meta
	t.Pairs = s.ctrl.Pairs()
	t.Matches = s.ctrl.Matches()
	t.CurrentRound = s.ctrl.CurrentRound()
	t.Status = s.ctrl.Status()
	return &t
}

type cardsService struct {
	repo         repositories.CardsTournamentRepository
	standingRepo repositories.FinalStandingRepository
	uploader     storage.FileUploader
	broadcaster  Broadcaster
	logger       *slog.Logger
	opts         brackets.ControllerOptions
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*cardsSession
}

// NewCardsService wires the live Cards engine to storage. standingRepo, uploader and
// broadcaster may be nil, in which case that part of the completion work is skipped.
func NewCardsService(
	repo repositories.CardsTournamentRepository,
	standingRepo repositories.FinalStandingRepository,
	uploader storage.FileUploader,
	broadcaster Broadcaster,
	logger *slog.Logger,
	cfg CardsServiceConfig,
) CardsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &cardsService{
		repo:         repo,
		standingRepo: standingRepo,
		uploader:     uploader,
		broadcaster:  broadcaster,
		logger:       logger.With(slog.String("service", "cards")),
		opts:         brackets.ControllerOptions{RejectTiedScores: cfg.RejectTiedScores},
		now:          time.Now,
		sessions:     make(map[string]*cardsSession),
	}
}

func (s *cardsService) CreateTournament(ctx context.Context, input CreateCardsTournamentInput) (*CardsTournamentView, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}

	pairs := brackets.AssignCards(input.Pairs)
	ctrl, err := brackets.NewCardsController(pairs, s.opts)
	if err != nil {
		return nil, mapEngineError(err)
	}

	sess := &cardsSession{
		meta: models.CardsTournament{
			ID:   uuid.NewString(),
			Name: name,
			Slug: slug.Make(name),
		},
		ctrl:        ctrl,
		lastTouched: s.now(),
	}
	snap := sess.snapshot()
	if err := s.repo.Create(ctx, nil, snap); err != nil {
		return nil, fmt.Errorf("failed to store cards tournament: %w", err)
	}
	sess.meta.CreatedAt = snap.CreatedAt
	sess.meta.UpdatedAt = snap.UpdatedAt

	s.mu.Lock()
	s.sessions[snap.ID] = sess
	s.mu.Unlock()

	s.logger.Info("cards tournament created",
		slog.String("tournament_id", snap.ID),
		slog.String("slug", snap.Slug),
	)
	return s.view(sess, snap), nil
}

func (s *cardsService) GetTournament(ctx context.Context, tournamentID string) (*CardsTournamentView, error) {
	sess, err := s.acquire(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()
	return s.view(sess, sess.snapshot()), nil
}

func (s *cardsService) GetStandings(ctx context.Context, tournamentID string) ([]models.Standing, error) {
	sess, err := s.acquire(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()
	return sess.ctrl.Standings(), nil
}

func (s *cardsService) ListRoundMatches(ctx context.Context, tournamentID string, round int) ([]models.Match, error) {
	if round < 1 || round > 2 {
		return nil, fmt.Errorf("%w: round %d", ErrRoundOutOfRange, round)
	}
	sess, err := s.acquire(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()
	return sess.ctrl.MatchesForRound(round), nil
}

func (s *cardsService) RecordResult(ctx context.Context, tournamentID, matchID string, input RecordResultInput) (*RecordResultOutput, error) {
	entry, err := input.toEntry()
	if err != nil {
		return nil, err
	}
	sess, err := s.acquire(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	outcome, err := sess.ctrl.RecordResult(matchID, entry)
	if err != nil {
		return nil, mapEngineError(err)
	}

	snap := sess.snapshot()
	if err := s.repo.Update(ctx, nil, snap); err != nil {
		// The cached controller is now ahead of the database; drop it so the next request
		// reloads the stored state.
		sess.stale = true
		s.forget(tournamentID, sess)
		return nil, fmt.Errorf("failed to store result for match %s: %w", matchID, err)
	}
	sess.meta.UpdatedAt = snap.UpdatedAt

	s.logger.Info("match result recorded",
		slog.String("tournament_id", tournamentID),
		slog.String("match_id", matchID),
		slog.Int("score_a", outcome.Match.Result.ScoreA),
		slog.Int("score_b", outcome.Match.Result.ScoreB),
		slog.String("winner", string(outcome.Match.Result.Winner)),
		slog.Bool("advanced", outcome.Advanced),
	)

	out := &RecordResultOutput{
		Match:      outcome.Match,
		Standings:  outcome.Standings,
		Advanced:   outcome.Advanced,
		NewMatches: outcome.NewMatches,
		Status:     outcome.Status,
	}

	if outcome.Status == models.CardsStatusComplete {
		if url := s.finalize(ctx, snap, outcome.Standings); url != nil {
			sess.meta.ArchiveURL = url
			snap.ArchiveURL = url
			if err := s.repo.Update(ctx, nil, snap); err != nil {
				s.logger.Error("failed to store archive url",
					slog.String("tournament_id", tournamentID),
					slog.Any("error", err),
				)
			}
		}
		out.ArchiveURL = sess.meta.ArchiveURL
	}

	s.publish(tournamentID, out)
	return out, nil
}

func (s *cardsService) DeleteTournament(ctx context.Context, tournamentID string) error {
	if _, err := uuid.Parse(tournamentID); err != nil {
		return ErrTournamentNotFound
	}
	stored, err := s.repo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardsTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to load cards tournament %s: %w", tournamentID, err)
	}
	if s.standingRepo != nil {
		if err := s.standingRepo.DeleteByTournamentID(ctx, nil, tournamentID); err != nil {
			return fmt.Errorf("failed to delete final standings of %s: %w", tournamentID, err)
		}
	}
	if err := s.repo.Delete(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrCardsTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete cards tournament %s: %w", tournamentID, err)
	}

	s.mu.Lock()
	delete(s.sessions, tournamentID)
	s.mu.Unlock()

	if stored.ArchiveURL != nil && s.uploader != nil {
		for _, key := range archiveKeys(stored) {
			if err := s.uploader.Delete(ctx, key); err != nil {
				s.logger.Warn("failed to delete archive object", slog.String("key", key), slog.Any("error", err))
			}
		}
	}

	s.broadcast(tournamentID, brackets.EventTournamentDeleted, map[string]string{"tournament_id": tournamentID})
	s.logger.Info("cards tournament deleted", slog.String("tournament_id", tournamentID))
	return nil
}

var activeStatuses = []models.CardsStatus{models.CardsStatusRound1, models.CardsStatusRound2}

// ListTournaments returns stored tournaments in the given states, newest first. No states
// means the ones still being played.
func (s *cardsService) ListTournaments(ctx context.Context, statuses []models.CardsStatus) ([]*models.CardsTournament, error) {
	if len(statuses) == 0 {
		statuses = activeStatuses
	}
	for _, st := range statuses {
		switch st {
		case models.CardsStatusRound1, models.CardsStatusRound2, models.CardsStatusComplete:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidationFailed, st)
		}
	}
	list, err := s.repo.ListByStatus(ctx, nil, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards tournaments: %w", err)
	}
	return list, nil
}

// GetFinalStandings returns the frozen table of a finished tournament.
func (s *cardsService) GetFinalStandings(ctx context.Context, tournamentID string) ([]*models.FinalStanding, error) {
	sess, err := s.acquire(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	complete := sess.ctrl.IsComplete()
	standings := sess.ctrl.Standings()
	finishedAt := sess.meta.UpdatedAt
	sess.mu.Unlock()

	if !complete {
		return nil, ErrTournamentNotOver
	}
	if s.standingRepo != nil {
		rows, err := s.standingRepo.ListByTournament(ctx, nil, tournamentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load final standings of %s: %w", tournamentID, err)
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	// Nothing stored: derive the table from the matches.
	return models.NewFinalStandings(tournamentID, standings, finishedAt), nil
}

// EvictIdle drops cached sessions nobody touched for maxIdle. Sessions in use are skipped.
func (s *cardsService) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if sess.lastTouched.Before(cutoff) {
			sess.stale = true
			delete(s.sessions, id)
			evicted++
		}
		sess.mu.Unlock()
	}
	return evicted
}

// acquire returns the session locked and touched. A session that went stale while the
// caller waited for its lock is swapped for a fresh one.
func (s *cardsService) acquire(ctx context.Context, tournamentID string) (*cardsSession, error) {
	for {
		sess, err := s.session(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		sess.mu.Lock()
		if !sess.stale {
			sess.lastTouched = s.now()
			return sess, nil
		}
		sess.mu.Unlock()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

// session returns the cached session or loads it from the repository.
func (s *cardsService) session(ctx context.Context, tournamentID string) (*cardsSession, error) {
	if _, err := uuid.Parse(tournamentID); err != nil {
		return nil, ErrTournamentNotFound
	}

	s.mu.Lock()
	sess, ok := s.sessions[tournamentID]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	stored, err := s.repo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardsTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load cards tournament %s: %w", tournamentID, err)
	}
	ctrl, err := brackets.RestoreCardsController(stored.Pairs, stored.Matches, stored.CurrentRound, s.opts)
	if err != nil {
		return nil, fmt.Errorf("stored cards tournament %s is inconsistent: %w", tournamentID, err)
	}

	loaded := &cardsSession{
		meta: models.CardsTournament{
			ID:         stored.ID,
			Name:       stored.Name,
			Slug:       stored.Slug,
			ArchiveURL: stored.ArchiveURL,
			CreatedAt:  stored.CreatedAt,
			UpdatedAt:  stored.UpdatedAt,
		},
		ctrl:        ctrl,
		lastTouched: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[tournamentID]; ok {
		return existing, nil
	}
	s.sessions[tournamentID] = loaded
	s.logger.Debug("cards session loaded", slog.String("tournament_id", tournamentID))
	return loaded, nil
}

func (s *cardsService) forget(tournamentID string, sess *cardsSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[tournamentID] == sess {
		delete(s.sessions, tournamentID)
	}
}

func (s *cardsService) view(sess *cardsSession, snap *models.CardsTournament) *CardsTournamentView {
	return &CardsTournamentView{
		Tournament:          *snap,
		Standings:           sess.ctrl.Standings(),
		CurrentRoundMatches: sess.ctrl.CurrentRoundMatches(),
		RoundProgress: RoundProgress{
			Current: sess.ctrl.CurrentRound(),
			Total:   models.CardsNominalRounds,
		},
	}
}

func (s *cardsService) publish(tournamentID string, out *RecordResultOutput) {
	s.broadcast(tournamentID, brackets.EventMatchResultRecorded, out.Match)
	s.broadcast(tournamentID, brackets.EventStandingsUpdated, out.Standings)
	if out.Advanced {
		s.broadcast(tournamentID, brackets.EventRoundAdvanced, out.NewMatches)
	}
	if out.Status == models.CardsStatusComplete {
		s.broadcast(tournamentID, brackets.EventTournamentCompleted, map[string]interface{}{
			"tournament_id": tournamentID,
			"standings":     out.Standings,
			"archive_url":   out.ArchiveURL,
		})
	}
}

func (s *cardsService) broadcast(tournamentID, eventType string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	roomID := brackets.RoomID(tournamentID)
	s.broadcaster.BroadcastToRoom(roomID, brackets.WebSocketMessage{
		Type:    eventType,
		Payload: payload,
		RoomID:  roomID,
	})
}

// finalize freezes the final table and archives the tournament side by side. Neither step
// fails the result that completed the tournament.
func (s *cardsService) finalize(ctx context.Context, snap *models.CardsTournament, standings []models.Standing) *string {
	var (
		g          errgroup.Group
		archiveURL *string
	)
	if s.standingRepo != nil {
		g.Go(func() error {
			rows := models.NewFinalStandings(snap.ID, standings, s.now().UTC())
			if err := s.standingRepo.BatchCreate(ctx, nil, rows); err != nil {
				return fmt.Errorf("failed to store final standings: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		archiveURL = s.archive(ctx, snap, standings)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to finalize cards tournament", slog.String("tournament_id", snap.ID), slog.Any("error", err))
	}
	return archiveURL
}

type archiveDocument struct {
	Tournament models.CardsTournament `json:"tournament"`
	Standings  []models.Standing      `json:"standings"`
	ArchivedAt time.Time              `json:"archived_at"`
}

// archive uploads the final results and standings table. Failures are logged and leave
// the tournament without an archive URL.
func (s *cardsService) archive(ctx context.Context, snap *models.CardsTournament, standings []models.Standing) *string {
	if s.uploader == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()

	keys := archiveKeys(snap)
	resultsKey, standingsKey := keys[0], keys[1]

	resultsBody, err := json.MarshalIndent(archiveDocument{
		Tournament: *snap,
		Standings:  standings,
		ArchivedAt: s.now().UTC(),
	}, "", "\t")
	if err != nil {
		s.logger.Error("failed to encode archive", slog.String("tournament_id", snap.ID), slog.Any("error", err))
		return nil
	}
	standingsBody, err := standingsCSV(standings)
	if err != nil {
		s.logger.Error("failed to encode standings csv", slog.String("tournament_id", snap.ID), slog.Any("error", err))
		return nil
	}

	var location string
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.uploader.Upload(gCtx, resultsKey, "application/json", bytes.NewReader(resultsBody))
		if err != nil {
			return err
		}
		location = res.Location
		return nil
	})
	g.Go(func() error {
		_, err := s.uploader.Upload(gCtx, standingsKey, "text/csv", bytes.NewReader(standingsBody))
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to archive cards tournament", slog.String("tournament_id", snap.ID), slog.Any("error", err))
		return nil
	}

	s.logger.Info("cards tournament archived", slog.String("tournament_id", snap.ID), slog.String("location", location))
	return &location
}

func archiveKeys(t *models.CardsTournament) [2]string {
	prefix := fmt.Sprintf("cards/%s-%s", t.Slug, t.ID)
	return [2]string{prefix + "/results.json", prefix + "/standings.csv"}
}

func standingsCSV(standings []models.Standing) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"rank", "pair_id", "pair_name", "wins", "points_for", "points_against", "diff"}); err != nil {
		return nil, err
	}
	for i, st := range standings {
		if err := w.Write([]string{
			strconv.Itoa(i + 1),
			st.PairID,
			st.PairName,
			strconv.Itoa(st.Wins),
			strconv.Itoa(st.PointsFor),
			strconv.Itoa(st.PointsAgainst),
			strconv.Itoa(st.Diff),
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
