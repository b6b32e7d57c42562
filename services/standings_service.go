package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bpaddle/competition-engine/brackets"
	"github.com/bpaddle/competition-engine/metrics"
	"github.com/bpaddle/competition-engine/models"
	"github.com/bpaddle/competition-engine/repositories"
	"github.com/bpaddle/competition-engine/standings"
	"github.com/google/uuid"
)

type StandingsService interface {
	GetStandings(ctx context.Context, leagueID string) (*models.League, []*models.LeagueStanding, error)
	GetRanking(ctx context.Context, leagueID string) ([]standings.Ranked, error)
	// QualifyPlayoffs closes the regular season: the ranking's top-N
	// seed a playoff bracket. One-shot per season.
	QualifyPlayoffs(ctx context.Context, leagueID string) (*models.Tournament, error)
}

type standingsService struct {
	repo   repositories.Repository
	hub    *brackets.Hub
	logger *slog.Logger
	locks  entityLocks
}

func NewStandingsService(repo repositories.Repository, hub *brackets.Hub, logger *slog.Logger) StandingsService {
	return &standingsService{repo: repo, hub: hub, logger: logger}
}

func (s *standingsService) GetStandings(ctx context.Context, leagueID string) (*models.League, []*models.LeagueStanding, error) {
	league, rows, err := s.repo.GetStandings(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrLeagueNotFound, leagueID)
		}
		return nil, nil, err
	}
	return league, rows, nil
}

func (s *standingsService) GetRanking(ctx context.Context, leagueID string) ([]standings.Ranked, error) {
	_, rows, err := s.GetStandings(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.ListLeagueResults(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return standings.ComputeRanking(rows, history), nil
}

func (s *standingsService) QualifyPlayoffs(ctx context.Context, leagueID string) (*models.Tournament, error) {
	unlock := s.locks.lock("league:" + leagueID)
	defer unlock()

	league, rows, err := s.GetStandings(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league.Status != models.LeagueRegularSeason {
		return nil, fmt.Errorf("%w: league %s is %s", ErrSeasonNotRegular, leagueID, league.Status)
	}

	history, err := s.repo.ListLeagueResults(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	ranked := standings.ComputeRanking(rows, history)
	seeding, err := standings.QualifySeeding(ranked, league.PlayoffCutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCutoff, err)
	}

	tournament, err := brackets.NewTournament(uuid.NewString(), league.Name+" playoffs", league.Discipline, seeding)
	if err != nil {
		return nil, err
	}
	tournament.LeagueID = &league.ID

	league.Status = models.LeaguePlayoffs
	league.PlayoffTournamentID = &tournament.ID
	err = s.repo.Commit(ctx, &models.MutationSet{
		NewTournament: tournament,
		League:        league,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrVersionConflict) {
			// Another writer moved the league; the season transition is
			// one-shot, so surface rather than retry blindly.
			return nil, fmt.Errorf("%w: league %s", ErrConcurrentUpdateConflict, leagueID)
		}
		return nil, err
	}

	metrics.PlayoffsQualified.Inc()
	s.logger.Info("playoff qualification completed",
		slog.String("league_id", leagueID),
		slog.String("tournament_id", tournament.ID),
		slog.Int("seeds", len(seeding)))
	if s.hub != nil {
		s.hub.BroadcastToRoom("league:"+leagueID, brackets.EventBracketUpdated, tournament)
	}
	return tournament, nil
}
