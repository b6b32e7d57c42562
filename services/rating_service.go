package services

import (
	"context"
	"errors"

	"github.com/bpaddle/competition-engine/elo"
	"github.com/bpaddle/competition-engine/models"
	"github.com/bpaddle/competition-engine/repositories"
)

type RatingService interface {
	// Get returns the stored rating, or the seeded default for a
	// player never rated in the discipline. It never fails on an
	// unknown player.
	Get(ctx context.Context, playerID string, discipline models.Discipline) (*models.Rating, error)
}

type ratingService struct {
	repo    repositories.Repository
	ratings *elo.Engine
}

func NewRatingService(repo repositories.Repository, ratings *elo.Engine) RatingService {
	return &ratingService{repo: repo, ratings: ratings}
}

func (s *ratingService) Get(ctx context.Context, playerID string, discipline models.Discipline) (*models.Rating, error) {
	if !discipline.Valid() {
		return nil, ErrValidationFailed
	}
	rating, err := s.repo.GetRating(ctx, playerID, discipline)
	if err != nil {
		if errors.Is(err, repositories.ErrRatingNotFound) {
			seeded := s.ratings.InitialRating(playerID, discipline)
			return &seeded, nil
		}
		return nil, err
	}
	return rating, nil
}
