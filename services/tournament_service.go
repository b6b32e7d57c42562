package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bpaddle/competition-engine/brackets"
	"github.com/bpaddle/competition-engine/models"
	"github.com/bpaddle/competition-engine/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type TournamentService interface {
	Create(ctx context.Context, name string, discipline models.Discipline, seeding []string) (*models.Tournament, error)
	// GetFull returns the bracket together with the participants'
	// current ratings for display.
	GetFull(ctx context.Context, tournamentID string) (*TournamentView, error)
}

// TournamentView is the bracket plus current participant ratings
// keyed by participant id.
type TournamentView struct {
	Tournament *models.Tournament        `json:"tournament"`
	Ratings    map[string]*models.Rating `json:"ratings"`
}

type tournamentService struct {
	repo    repositories.Repository
	ratings RatingService
	logger  *slog.Logger
}

func NewTournamentService(repo repositories.Repository, ratings RatingService, logger *slog.Logger) TournamentService {
	return &tournamentService{repo: repo, ratings: ratings, logger: logger}
}

func (s *tournamentService) Create(ctx context.Context, name string, discipline models.Discipline, seeding []string) (*models.Tournament, error) {
	if !discipline.Valid() {
		return nil, fmt.Errorf("%w: unrecognized discipline %q", ErrValidationFailed, discipline)
	}
	tournament, err := brackets.NewTournament(uuid.NewString(), name, discipline, seeding)
	if err != nil {
		switch {
		case errors.Is(err, brackets.ErrNotEnoughParticipants):
			return nil, fmt.Errorf("%w: %v", ErrNotEnoughSeeds, err)
		case errors.Is(err, brackets.ErrDuplicateParticipant):
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		default:
			return nil, err
		}
	}

	if err := s.repo.Commit(ctx, &models.MutationSet{NewTournament: tournament}); err != nil {
		return nil, fmt.Errorf("failed to persist tournament %s: %w", tournament.ID, err)
	}
	s.logger.Info("tournament created",
		slog.String("tournament_id", tournament.ID),
		slog.String("discipline", string(discipline)),
		slog.Int("participants", tournament.ParticipantCount))
	return tournament, nil
}

func (s *tournamentService) GetFull(ctx context.Context, tournamentID string) (*TournamentView, error) {
	tournament, err := s.repo.GetBracket(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
		}
		return nil, err
	}

	view := &TournamentView{
		Tournament: tournament,
		Ratings:    make(map[string]*models.Rating, len(tournament.Seeding)),
	}

	g, gCtx := errgroup.WithContext(ctx)
	results := make([]*models.Rating, len(tournament.Seeding))
	for i, participantID := range tournament.Seeding {
		i, participantID := i, participantID
		g.Go(func() error {
			rating, err := s.ratings.Get(gCtx, participantID, tournament.Discipline)
			if err != nil {
				return err
			}
			results[i] = rating
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, participantID := range tournament.Seeding {
		view.Ratings[participantID] = results[i]
	}
	return view, nil
}
