package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bpaddle/competition-engine/models"
	"github.com/lib/pq"
)

// matchPayload is the JSON body of a stored result: sides and scores,
// everything the audit log and head-to-head lookups need beyond the
// indexed columns.
type matchPayload struct {
	Sides      [2]models.Side    `json:"sides"`
	ScoreBySet []models.SetScore `json:"score_by_set"`
	WinnerSide int               `json:"winner_side"`
	ReversalOf *string           `json:"reversal_of,omitempty"`
}

type MatchRepository interface {
	GetByMatchID(ctx context.Context, matchID string) (*models.MatchResult, error)
	Insert(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error
	ListByLeague(ctx context.Context, leagueID string) ([]*models.MatchResult, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `match_id, context, discipline, tournament_id, node_id, league_id, payload, outcome, created_at`

func (r *postgresMatchRepository) GetByMatchID(ctx context.Context, matchID string) (*models.MatchResult, error) {
	query := `SELECT ` + matchColumns + ` FROM match_results WHERE match_id = $1`
	result, err := scanMatch(r.db.QueryRowContext(ctx, query, matchID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %s: %w", matchID, err)
	}
	return result, nil
}

func (r *postgresMatchRepository) Insert(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error {
	payload, err := json.Marshal(matchPayload{
		Sides:      result.Sides,
		ScoreBySet: result.ScoreBySet,
		WinnerSide: result.WinnerSide,
		ReversalOf: result.ReversalOf,
	})
	if err != nil {
		return fmt.Errorf("failed to encode match %s: %w", result.MatchID, err)
	}

	query := `
		INSERT INTO match_results (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = exec.ExecContext(ctx, query,
		result.MatchID,
		result.Context,
		result.Discipline,
		result.TournamentID,
		result.NodeID,
		result.LeagueID,
		payload,
		result.Outcome,
		result.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateMatch
		}
		return fmt.Errorf("failed to insert match %s: %w", result.MatchID, err)
	}
	return nil
}

func (r *postgresMatchRepository) ListByLeague(ctx context.Context, leagueID string) ([]*models.MatchResult, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM match_results
		WHERE league_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for league %s: %w", leagueID, err)
	}
	defer rows.Close()

	var results []*models.MatchResult
	for rows.Next() {
		result, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan league match: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.MatchResult, error) {
	result := &models.MatchResult{}
	var payload []byte
	if err := row.Scan(
		&result.MatchID,
		&result.Context,
		&result.Discipline,
		&result.TournamentID,
		&result.NodeID,
		&result.LeagueID,
		&payload,
		&result.Outcome,
		&result.CreatedAt,
	); err != nil {
		return nil, err
	}
	var body matchPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("failed to decode match %s payload: %w", result.MatchID, err)
	}
	result.Sides = body.Sides
	result.ScoreBySet = body.ScoreBySet
	result.WinnerSide = body.WinnerSide
	result.ReversalOf = body.ReversalOf
	return result, nil
}
