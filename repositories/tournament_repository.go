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

type TournamentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	UpdateNode(ctx context.Context, exec SQLExecutor, node *models.BracketNode) error
	// UpdateVersioned writes status/champion and bumps the version,
	// conditioned on the version the tournament was read at.
	UpdateVersioned(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `
		SELECT id, name, discipline, league_id, participant_count, seeding, status, champion_id, version, created_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.Discipline,
		&t.LeagueID,
		&t.ParticipantCount,
		pq.Array(&t.Seeding),
		&t.Status,
		&t.ChampionID,
		&t.Version,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %s: %w", id, err)
	}

	nodes, err := r.listNodes(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Nodes = nodes
	return t, nil
}

func (r *postgresTournamentRepository) listNodes(ctx context.Context, tournamentID string) ([]*models.BracketNode, error) {
	query := `
		SELECT id, tournament_id, round, slot_index, side_a, side_b, status,
		       winner_slot, winner_id, next_node_id, next_slot
		FROM bracket_nodes
		WHERE tournament_id = $1
		ORDER BY round, slot_index`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bracket nodes for %s: %w", tournamentID, err)
	}
	defer rows.Close()

	var nodes []*models.BracketNode
	for rows.Next() {
		node := &models.BracketNode{}
		var sideA, sideB []byte
		if err := rows.Scan(
			&node.ID,
			&node.TournamentID,
			&node.Round,
			&node.SlotIndex,
			&sideA,
			&sideB,
			&node.Status,
			&node.WinnerSlot,
			&node.WinnerID,
			&node.NextNodeID,
			&node.NextSlot,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bracket node: %w", err)
		}
		if err := json.Unmarshal(sideA, &node.SideA); err != nil {
			return nil, fmt.Errorf("failed to decode node %s side A: %w", node.ID, err)
		}
		if err := json.Unmarshal(sideB, &node.SideB); err != nil {
			return nil, fmt.Errorf("failed to decode node %s side B: %w", node.ID, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(id, name, discipline, league_id, participant_count, seeding, status, champion_id, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9)`

	_, err := exec.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.Discipline,
		t.LeagueID,
		t.ParticipantCount,
		pq.Array(t.Seeding),
		t.Status,
		t.ChampionID,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tournament %s: %w", t.ID, err)
	}

	nodeQuery := `
		INSERT INTO bracket_nodes
			(id, tournament_id, round, slot_index, side_a, side_b, status,
			 winner_slot, winner_id, next_node_id, next_slot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, node := range t.Nodes {
		sideA, sideB, err := encodeSlots(node)
		if err != nil {
			return err
		}
		if _, err := exec.ExecContext(ctx, nodeQuery,
			node.ID,
			node.TournamentID,
			node.Round,
			node.SlotIndex,
			sideA,
			sideB,
			node.Status,
			node.WinnerSlot,
			node.WinnerID,
			node.NextNodeID,
			node.NextSlot,
		); err != nil {
			return fmt.Errorf("failed to insert bracket node %s/%s: %w", t.ID, node.ID, err)
		}
	}
	return nil
}

func (r *postgresTournamentRepository) UpdateNode(ctx context.Context, exec SQLExecutor, node *models.BracketNode) error {
	sideA, sideB, err := encodeSlots(node)
	if err != nil {
		return err
	}
	query := `
		UPDATE bracket_nodes
		SET side_a = $1, side_b = $2, status = $3, winner_slot = $4, winner_id = $5
		WHERE tournament_id = $6 AND id = $7`
	result, err := exec.ExecContext(ctx, query,
		sideA, sideB, node.Status, node.WinnerSlot, node.WinnerID, node.TournamentID, node.ID)
	if err != nil {
		return fmt.Errorf("failed to update bracket node %s/%s: %w", node.TournamentID, node.ID, err)
	}
	return checkAffectedRows(result, ErrNodeNotFound)
}

func (r *postgresTournamentRepository) UpdateVersioned(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET status = $1, champion_id = $2, version = version + 1
		WHERE id = $3 AND version = $4`
	result, err := exec.ExecContext(ctx, query, t.Status, t.ChampionID, t.ID, t.Version)
	if err != nil {
		return fmt.Errorf("failed to update tournament %s: %w", t.ID, err)
	}
	return checkAffectedRows(result, ErrVersionConflict)
}

func encodeSlots(node *models.BracketNode) ([]byte, []byte, error) {
	sideA, err := json.Marshal(node.SideA)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode node %s side A: %w", node.ID, err)
	}
	sideB, err := json.Marshal(node.SideB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode node %s side B: %w", node.ID, err)
	}
	return sideA, sideB, nil
}
