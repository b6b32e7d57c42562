package repositories

import (
	"context"
	"time"

	"github.com/bpaddle/competition-engine/models"
)

// Repository is the persistence boundary the engine works against.
// Reads return current state with versions; Commit applies a mutation
// set all-or-nothing, failing with ErrVersionConflict if any versioned
// entity moved since it was read.
type Repository interface {
	GetBracket(ctx context.Context, tournamentID string) (*models.Tournament, error)
	GetStandings(ctx context.Context, leagueID string) (*models.League, []*models.LeagueStanding, error)
	GetRating(ctx context.Context, playerID string, discipline models.Discipline) (*models.Rating, error)
	GetMatch(ctx context.Context, matchID string) (*models.MatchResult, error)
	ListLeagueResults(ctx context.Context, leagueID string) ([]*models.MatchResult, error)
	ListEndedRegularLeagues(ctx context.Context, now time.Time) ([]*models.League, error)
	Commit(ctx context.Context, set *models.MutationSet) error
}
