package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bpaddle/competition-engine/models"
)

// Store composes the per-entity repositories into the Repository the
// engine consumes. Commit is the only write path.
type Store struct {
	db          *sql.DB
	tournaments TournamentRepository
	leagues     LeagueRepository
	ratings     RatingRepository
	matches     MatchRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:          db,
		tournaments: NewPostgresTournamentRepository(db),
		leagues:     NewPostgresLeagueRepository(db),
		ratings:     NewPostgresRatingRepository(db),
		matches:     NewPostgresMatchRepository(db),
	}
}

func (s *Store) GetBracket(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	return s.tournaments.GetByID(ctx, tournamentID)
}

func (s *Store) GetStandings(ctx context.Context, leagueID string) (*models.League, []*models.LeagueStanding, error) {
	league, err := s.leagues.GetByID(ctx, leagueID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.leagues.ListStandings(ctx, leagueID)
	if err != nil {
		return nil, nil, err
	}
	return league, rows, nil
}

func (s *Store) GetRating(ctx context.Context, playerID string, discipline models.Discipline) (*models.Rating, error) {
	return s.ratings.Get(ctx, playerID, discipline)
}

func (s *Store) GetMatch(ctx context.Context, matchID string) (*models.MatchResult, error) {
	return s.matches.GetByMatchID(ctx, matchID)
}

func (s *Store) ListLeagueResults(ctx context.Context, leagueID string) ([]*models.MatchResult, error) {
	return s.matches.ListByLeague(ctx, leagueID)
}

func (s *Store) ListEndedRegularLeagues(ctx context.Context, now time.Time) ([]*models.League, error) {
	return s.leagues.ListEndedRegular(ctx, now)
}

// Commit applies the whole mutation set in one transaction. Any
// version condition that fails rolls everything back and surfaces
// ErrVersionConflict, leaving prior state fully intact.
func (s *Store) Commit(ctx context.Context, set *models.MutationSet) (err error) {
	if set == nil || set.Empty() {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	if set.MatchRecord != nil {
		if err = s.matches.Insert(ctx, tx, set.MatchRecord); err != nil {
			return err
		}
	}
	for _, rating := range set.Ratings {
		if err = s.ratings.Upsert(ctx, tx, rating); err != nil {
			return err
		}
	}
	for _, node := range set.Nodes {
		if err = s.tournaments.UpdateNode(ctx, tx, node); err != nil {
			return err
		}
	}
	if set.Tournament != nil {
		if err = s.tournaments.UpdateVersioned(ctx, tx, set.Tournament); err != nil {
			return err
		}
	}
	for _, row := range set.Standings {
		if err = s.leagues.UpdateStanding(ctx, tx, row); err != nil {
			return err
		}
	}
	if set.League != nil {
		if err = s.leagues.UpdateVersioned(ctx, tx, set.League); err != nil {
			return err
		}
	}
	if set.NewTournament != nil {
		if err = s.tournaments.Create(ctx, tx, set.NewTournament); err != nil {
			return err
		}
	}
	return nil
}
