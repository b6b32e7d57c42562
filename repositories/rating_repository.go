package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bpaddle/competition-engine/models"
)

type RatingRepository interface {
	Get(ctx context.Context, playerID string, discipline models.Discipline) (*models.Rating, error)
	Upsert(ctx context.Context, exec SQLExecutor, rating models.Rating) error
}

type postgresRatingRepository struct {
	db *sql.DB
}

func NewPostgresRatingRepository(db *sql.DB) RatingRepository {
	return &postgresRatingRepository{db: db}
}

func (r *postgresRatingRepository) Get(ctx context.Context, playerID string, discipline models.Discipline) (*models.Rating, error) {
	query := `
		SELECT player_id, discipline, value, match_count, version
		FROM ratings
		WHERE player_id = $1 AND discipline = $2`

	rating := &models.Rating{}
	err := r.db.QueryRowContext(ctx, query, playerID, discipline).Scan(
		&rating.PlayerID,
		&rating.Discipline,
		&rating.Value,
		&rating.MatchCount,
		&rating.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to scan rating %s/%s: %w", playerID, discipline, err)
	}
	return rating, nil
}

// Upsert writes a rating conditioned on the version it was read at.
// Version 0 means the rating was seeded in memory and must not exist
// yet; a concurrent insert surfaces as ErrVersionConflict.
func (r *postgresRatingRepository) Upsert(ctx context.Context, exec SQLExecutor, rating models.Rating) error {
	if rating.Version == 0 {
		query := `
			INSERT INTO ratings (player_id, discipline, value, match_count, version)
			VALUES ($1, $2, $3, $4, 1)
			ON CONFLICT (player_id, discipline) DO NOTHING`
		result, err := exec.ExecContext(ctx, query, rating.PlayerID, rating.Discipline, rating.Value, rating.MatchCount)
		if err != nil {
			return fmt.Errorf("failed to insert rating %s/%s: %w", rating.PlayerID, rating.Discipline, err)
		}
		return checkAffectedRows(result, ErrVersionConflict)
	}

	query := `
		UPDATE ratings
		SET value = $1, match_count = $2, version = version + 1
		WHERE player_id = $3 AND discipline = $4 AND version = $5`
	result, err := exec.ExecContext(ctx, query, rating.Value, rating.MatchCount, rating.PlayerID, rating.Discipline, rating.Version)
	if err != nil {
		return fmt.Errorf("failed to update rating %s/%s: %w", rating.PlayerID, rating.Discipline, err)
	}
	return checkAffectedRows(result, ErrVersionConflict)
}
