package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bpaddle/competition-engine/models"
)

type LeagueRepository interface {
	GetByID(ctx context.Context, id string) (*models.League, error)
	ListStandings(ctx context.Context, leagueID string) ([]*models.LeagueStanding, error)
	ListEndedRegular(ctx context.Context, now time.Time) ([]*models.League, error)
	UpdateStanding(ctx context.Context, exec SQLExecutor, row *models.LeagueStanding) error
	// UpdateVersioned bumps the league version, conditioned on the
	// version it was read at. Every committed league mutation goes
	// through this so concurrent writers of the same league collide.
	UpdateVersioned(ctx context.Context, exec SQLExecutor, league *models.League) error
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id string) (*models.League, error) {
	query := `
		SELECT id, name, discipline, playoff_cutoff, season_end, status, playoff_tournament_id, version
		FROM leagues
		WHERE id = $1`

	league := &models.League{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&league.ID,
		&league.Name,
		&league.Discipline,
		&league.PlayoffCutoff,
		&league.SeasonEnd,
		&league.Status,
		&league.PlayoffTournamentID,
		&league.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to scan league %s: %w", id, err)
	}
	return league, nil
}

func (r *postgresLeagueRepository) ListStandings(ctx context.Context, leagueID string) ([]*models.LeagueStanding, error) {
	query := `
		SELECT league_id, participant_id, registration_order, wins, losses,
		       sets_won, sets_lost, points_for, points_against
		FROM league_standings
		WHERE league_id = $1
		ORDER BY registration_order`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings for league %s: %w", leagueID, err)
	}
	defer rows.Close()

	var standings []*models.LeagueStanding
	for rows.Next() {
		row := &models.LeagueStanding{}
		if err := rows.Scan(
			&row.LeagueID,
			&row.ParticipantID,
			&row.RegistrationOrder,
			&row.Wins,
			&row.Losses,
			&row.SetsWon,
			&row.SetsLost,
			&row.PointsFor,
			&row.PointsAgainst,
		); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, row)
	}
	return standings, rows.Err()
}

func (r *postgresLeagueRepository) ListEndedRegular(ctx context.Context, now time.Time) ([]*models.League, error) {
	query := `
		SELECT id, name, discipline, playoff_cutoff, season_end, status, playoff_tournament_id, version
		FROM leagues
		WHERE status = $1 AND season_end <= $2`

	rows, err := r.db.QueryContext(ctx, query, models.LeagueRegularSeason, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list ended leagues: %w", err)
	}
	defer rows.Close()

	var leagues []*models.League
	for rows.Next() {
		league := &models.League{}
		if err := rows.Scan(
			&league.ID,
			&league.Name,
			&league.Discipline,
			&league.PlayoffCutoff,
			&league.SeasonEnd,
			&league.Status,
			&league.PlayoffTournamentID,
			&league.Version,
		); err != nil {
			return nil, fmt.Errorf("failed to scan league: %w", err)
		}
		leagues = append(leagues, league)
	}
	return leagues, rows.Err()
}

func (r *postgresLeagueRepository) UpdateStanding(ctx context.Context, exec SQLExecutor, row *models.LeagueStanding) error {
	query := `
		UPDATE league_standings
		SET wins = $1, losses = $2, sets_won = $3, sets_lost = $4,
		    points_for = $5, points_against = $6
		WHERE league_id = $7 AND participant_id = $8`
	result, err := exec.ExecContext(ctx, query,
		row.Wins, row.Losses, row.SetsWon, row.SetsLost,
		row.PointsFor, row.PointsAgainst, row.LeagueID, row.ParticipantID)
	if err != nil {
		return fmt.Errorf("failed to update standing %s/%s: %w", row.LeagueID, row.ParticipantID, err)
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}

func (r *postgresLeagueRepository) UpdateVersioned(ctx context.Context, exec SQLExecutor, league *models.League) error {
	query := `
		UPDATE leagues
		SET status = $1, playoff_tournament_id = $2, version = version + 1
		WHERE id = $3 AND version = $4`
	result, err := exec.ExecContext(ctx, query, league.Status, league.PlayoffTournamentID, league.ID, league.Version)
	if err != nil {
		return fmt.Errorf("failed to update league %s: %w", league.ID, err)
	}
	return checkAffectedRows(result, ErrVersionConflict)
}
