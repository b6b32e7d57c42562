package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bpaddle/competition-engine/brackets"
	"github.com/bpaddle/competition-engine/elo"
	"github.com/bpaddle/competition-engine/metrics"
	"github.com/bpaddle/competition-engine/models"
	"github.com/bpaddle/competition-engine/repositories"
	"github.com/bpaddle/competition-engine/standings"
)

// maxCommitAttempts bounds optimistic-concurrency retries before the
// conflict is surfaced to the caller.
const maxCommitAttempts = 3

// errDuplicateAdvance is internal: the node is already decided the
// same way, so processing short-circuits into a duplicate outcome.
var errDuplicateAdvance = errors.New("duplicate bracket advancement")

type ProcessorService interface {
	SubmitMatchResult(ctx context.Context, result models.MatchResult) (*models.ProcessingOutcome, error)
}

type processorService struct {
	repo    repositories.Repository
	ratings *elo.Engine
	hub     *brackets.Hub
	logger  *slog.Logger
	locks   entityLocks
}

func NewProcessorService(repo repositories.Repository, ratings *elo.Engine, hub *brackets.Hub, logger *slog.Logger) ProcessorService {
	return &processorService{
		repo:    repo,
		ratings: ratings,
		hub:     hub,
		logger:  logger,
	}
}

// entityLocks serializes result processing per tournament or league.
// Lock scope is the whole entity, not individual nodes, so sibling
// advancements into a shared parent cannot interleave.
type entityLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *entityLocks) lock(key string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	entityMu, ok := l.m[key]
	if !ok {
		entityMu = &sync.Mutex{}
		l.m[key] = entityMu
	}
	l.mu.Unlock()

	entityMu.Lock()
	return entityMu.Unlock
}

func (s *processorService) SubmitMatchResult(ctx context.Context, result models.MatchResult) (*models.ProcessingOutcome, error) {
	if err := validateResult(&result); err != nil {
		metrics.ResultsRejected.WithLabelValues("validation").Inc()
		return nil, err
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}

	// Idempotency: a match id already on record is either a harmless
	// replay or a conflict, never a second processing.
	if existing, err := s.repo.GetMatch(ctx, result.MatchID); err == nil {
		return s.resolveDuplicate(existing, &result)
	} else if !errors.Is(err, repositories.ErrMatchNotFound) {
		return nil, err
	}

	unlock := s.locks.lock(s.lockKey(&result))
	defer unlock()

	var outcome *models.ProcessingOutcome
	var err error
	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		outcome, err = s.process(ctx, &result)
		if err == nil || !errors.Is(err, repositories.ErrVersionConflict) {
			break
		}
		metrics.CommitRetries.Inc()
		s.logger.Warn("commit lost optimistic-concurrency race, retrying",
			slog.String("match_id", result.MatchID),
			slog.Int("attempt", attempt))
	}
	if err != nil {
		if errors.Is(err, repositories.ErrVersionConflict) {
			metrics.ResultsRejected.WithLabelValues("concurrent_update").Inc()
			return nil, fmt.Errorf("%w: gave up after %d attempts", ErrConcurrentUpdateConflict, maxCommitAttempts)
		}
		return nil, err
	}

	metrics.ResultsProcessed.WithLabelValues(string(result.Context), string(result.Outcome)).Inc()
	s.broadcast(&result, outcome)
	return outcome, nil
}

func (s *processorService) lockKey(result *models.MatchResult) string {
	if result.Context.Bracket() {
		return "tournament:" + *result.TournamentID
	}
	return "league:" + *result.LeagueID
}

// process performs one read-compute-commit attempt.
func (s *processorService) process(ctx context.Context, result *models.MatchResult) (*models.ProcessingOutcome, error) {
	set := &models.MutationSet{MatchRecord: result}
	outcome := &models.ProcessingOutcome{MatchID: result.MatchID}

	// A cancelled match never played: kept for audit only.
	if result.Outcome == models.OutcomeCancelled {
		if err := s.repo.Commit(ctx, set); err != nil {
			return nil, s.mapCommitError(err)
		}
		return outcome, nil
	}

	updated, deltas, err := s.computeRatings(ctx, result)
	if err != nil {
		return nil, err
	}
	set.Ratings = updated
	outcome.RatingDeltas = deltas

	if result.Context.Bracket() {
		update, nodes, tournament, err := s.applyBracket(ctx, result)
		if errors.Is(err, errDuplicateAdvance) {
			// Node already decided the same way under another match id:
			// no second rating update, no bracket mutation.
			return &models.ProcessingOutcome{MatchID: result.MatchID, Duplicate: true}, nil
		}
		if err != nil {
			return nil, err
		}
		set.Nodes = nodes
		set.Tournament = tournament
		outcome.Bracket = update
	} else {
		update, rows, league, err := s.applyStandings(ctx, result)
		if err != nil {
			return nil, err
		}
		set.Standings = rows
		set.League = league
		outcome.Standings = update
	}

	if err := s.repo.Commit(ctx, set); err != nil {
		return nil, s.mapCommitError(err)
	}
	return outcome, nil
}

func (s *processorService) computeRatings(ctx context.Context, result *models.MatchResult) ([]models.Rating, []models.RatingDelta, error) {
	loadSide := func(side models.Side) ([]models.Rating, error) {
		ratings := make([]models.Rating, 0, len(side.PlayerIDs))
		for _, playerID := range side.PlayerIDs {
			rating, err := s.repo.GetRating(ctx, playerID, result.Discipline)
			switch {
			case err == nil:
				ratings = append(ratings, *rating)
			case errors.Is(err, repositories.ErrRatingNotFound):
				// New players are seeded, never rejected.
				ratings = append(ratings, s.ratings.InitialRating(playerID, result.Discipline))
			default:
				return nil, err
			}
		}
		return ratings, nil
	}

	sideA, err := loadSide(result.Sides[0])
	if err != nil {
		return nil, nil, err
	}
	sideB, err := loadSide(result.Sides[1])
	if err != nil {
		return nil, nil, err
	}
	return s.ratings.UpdateMatch(sideA, sideB, result.WinnerSide, result.Outcome)
}

func (s *processorService) applyBracket(ctx context.Context, result *models.MatchResult) (*models.BracketUpdate, []*models.BracketNode, *models.Tournament, error) {
	tournament, err := s.repo.GetBracket(ctx, *result.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, *result.TournamentID)
		}
		return nil, nil, nil, err
	}
	for side := range result.Sides {
		if !tournament.HasParticipant(result.ParticipantKey(side)) {
			return nil, nil, nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, result.ParticipantKey(side))
		}
	}

	node := tournament.Node(*result.NodeID)
	if node == nil {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrNodeNotFound, *result.NodeID)
	}
	// Replays of the decided final still flow through the duplicate
	// path; anything else against a finished bracket is refused.
	if tournament.Status == models.TournamentCompleted && node.Status != models.NodeCompleted {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrTournamentCompleted, tournament.ID)
	}
	winnerSlot := node.SlotOf(result.WinnerKey())
	loserSlot := node.SlotOf(result.LoserKey())
	if winnerSlot == 0 || loserSlot == 0 {
		if !node.SideA.Concrete() || !node.SideB.Concrete() {
			metrics.ResultsRejected.WithLabelValues("invalid_node_state").Inc()
			return nil, nil, nil, fmt.Errorf("%w: node %s is not ready for a result", ErrInvalidNodeState, node.ID)
		}
		return nil, nil, nil, fmt.Errorf("%w: result sides do not match node %s", ErrUnknownParticipant, node.ID)
	}

	advance, err := brackets.RecordResult(tournament, node.ID, winnerSlot)
	if err != nil {
		switch {
		case errors.Is(err, brackets.ErrBracketConflict):
			metrics.ResultsRejected.WithLabelValues("bracket_conflict").Inc()
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrBracketConflict, err)
		case errors.Is(err, brackets.ErrInvalidNodeState), errors.Is(err, brackets.ErrInvalidSlot):
			metrics.ResultsRejected.WithLabelValues("invalid_node_state").Inc()
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidNodeState, err)
		case errors.Is(err, brackets.ErrNodeNotFound):
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrNodeNotFound, err)
		default:
			return nil, nil, nil, err
		}
	}

	if advance.Duplicate {
		return nil, nil, nil, errDuplicateAdvance
	}

	update := &models.BracketUpdate{
		TournamentID:        tournament.ID,
		NodeID:              node.ID,
		WinnerID:            result.WinnerKey(),
		TournamentCompleted: advance.Completed,
	}
	for _, touched := range advance.Touched[1:] {
		update.AdvancedNodeIDs = append(update.AdvancedNodeIDs, touched.ID)
	}
	if advance.Completed {
		update.ChampionID = tournament.ChampionID
	}
	return update, advance.Touched, tournament, nil
}

func (s *processorService) applyStandings(ctx context.Context, result *models.MatchResult) (*models.StandingsUpdate, []*models.LeagueStanding, *models.League, error) {
	league, rows, err := s.repo.GetStandings(ctx, *result.LeagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, nil, nil, fmt.Errorf("%w: %s", ErrLeagueNotFound, *result.LeagueID)
		}
		return nil, nil, nil, err
	}
	if league.Status != models.LeagueRegularSeason {
		return nil, nil, nil, fmt.Errorf("%w: league %s", ErrSeasonNotRegular, league.ID)
	}

	byParticipant := make(map[string]*models.LeagueStanding, len(rows))
	for _, row := range rows {
		byParticipant[row.ParticipantID] = row
	}
	touched, err := standings.Apply(byParticipant, result)
	if err != nil {
		if errors.Is(err, standings.ErrUnknownParticipant) {
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrUnknownParticipant, err)
		}
		return nil, nil, nil, err
	}

	update := &models.StandingsUpdate{LeagueID: league.ID, Rows: touched}
	return update, touched, league, nil
}

// resolveDuplicate decides whether a known match id is a replay (no-op
// outcome, no second rating update) or a contradiction.
func (s *processorService) resolveDuplicate(existing, submitted *models.MatchResult) (*models.ProcessingOutcome, error) {
	same := existing.Outcome == submitted.Outcome &&
		existing.WinnerKey() == submitted.WinnerKey() &&
		existing.LoserKey() == submitted.LoserKey()
	if same {
		return &models.ProcessingOutcome{MatchID: submitted.MatchID, Duplicate: true}, nil
	}
	if submitted.Context.Bracket() {
		metrics.ResultsRejected.WithLabelValues("bracket_conflict").Inc()
		return nil, fmt.Errorf("%w: match %s", ErrBracketConflict, submitted.MatchID)
	}
	metrics.ResultsRejected.WithLabelValues("result_conflict").Inc()
	return nil, fmt.Errorf("%w: match %s", ErrResultConflict, submitted.MatchID)
}

func (s *processorService) mapCommitError(err error) error {
	// A duplicate insert racing past the pre-read is treated as a lost
	// race: the retry will see the record and take the replay path.
	if errors.Is(err, repositories.ErrDuplicateMatch) {
		return repositories.ErrVersionConflict
	}
	return err
}

func (s *processorService) broadcast(result *models.MatchResult, outcome *models.ProcessingOutcome) {
	if s.hub == nil {
		return
	}
	if len(outcome.RatingDeltas) > 0 {
		room := s.lockKey(result)
		s.hub.BroadcastToRoom(room, brackets.EventRatingsUpdated, outcome.RatingDeltas)
	}
	if outcome.Bracket != nil {
		room := "tournament:" + outcome.Bracket.TournamentID
		s.hub.BroadcastToRoom(room, brackets.EventBracketUpdated, outcome.Bracket)
		if outcome.Bracket.TournamentCompleted {
			s.hub.BroadcastToRoom(room, brackets.EventTournamentCompleted, outcome.Bracket)
		}
	}
	if outcome.Standings != nil {
		room := "league:" + outcome.Standings.LeagueID
		s.hub.BroadcastToRoom(room, brackets.EventStandingsUpdated, outcome.Standings)
	}
}

func validateResult(result *models.MatchResult) error {
	fail := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
	}

	if result.MatchID == "" {
		return fail("match_id is required")
	}
	if !result.Context.Valid() {
		return fail("unrecognized context %q", result.Context)
	}
	if !result.Outcome.Valid() {
		return fail("unrecognized outcome %q", result.Outcome)
	}
	if !result.Discipline.Valid() {
		return fail("unrecognized discipline %q", result.Discipline)
	}
	want := result.Discipline.PlayersPerSide()
	for i, side := range result.Sides {
		if len(side.PlayerIDs) != want {
			return fail("side %d must field %d player(s) for %s", i, want, result.Discipline)
		}
		for _, id := range side.PlayerIDs {
			if id == "" {
				return fail("side %d contains an empty player id", i)
			}
		}
	}
	if result.ParticipantKey(0) == result.ParticipantKey(1) {
		return fail("both sides reference the same participant")
	}
	if result.WinnerSide != 0 && result.WinnerSide != 1 {
		return fail("winner_side must be 0 or 1")
	}
	if result.Context.Bracket() {
		if result.TournamentID == nil || *result.TournamentID == "" {
			return fail("tournament_id is required for context %s", result.Context)
		}
		if result.NodeID == nil || *result.NodeID == "" {
			return fail("node_id is required for context %s", result.Context)
		}
	} else {
		if result.LeagueID == nil || *result.LeagueID == "" {
			return fail("league_id is required for context %s", result.Context)
		}
	}
	if result.Outcome == models.OutcomeNormalWin || result.Outcome == models.OutcomeRetirement {
		if len(result.ScoreBySet) == 0 {
			return fail("score_by_set is required for outcome %s", result.Outcome)
		}
	}
	return nil
}
