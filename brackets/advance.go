package brackets

import (
	"errors"
	"fmt"

	"github.com/bpaddle/competition-engine/models"
)

var (
	ErrNodeNotFound     = errors.New("brackets: node not found")
	ErrInvalidNodeState = errors.New("brackets: node is not ready for a result")
	ErrBracketConflict  = errors.New("brackets: node already completed with a different winner")
	ErrInvalidSlot      = errors.New("brackets: winner slot must be 1 or 2")
)

// AdvanceResult reports what recording a winner changed.
type AdvanceResult struct {
	Node *models.BracketNode
	// Touched lists every node mutated by the call, the completed node
	// first, then any nodes reached by the advancement cascade.
	Touched    []*models.BracketNode
	Completed  bool
	ChampionID string
	// Duplicate is set when the identical result was already recorded;
	// nothing was mutated.
	Duplicate bool
}

// RecordResult completes a node with the winner at slot 1 or 2 and
// advances the winner along the node's outward edge. Re-submitting the
// identical result is a no-op; a different winner for a completed node
// is a conflict and is never silently overwritten.
func RecordResult(t *models.Tournament, nodeID string, winnerSlot int) (*AdvanceResult, error) {
	node := t.Node(nodeID)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	if winnerSlot != 1 && winnerSlot != 2 {
		return nil, ErrInvalidSlot
	}

	switch node.Status {
	case models.NodeCompleted:
		if node.WinnerSlot != nil && *node.WinnerSlot == winnerSlot {
			return &AdvanceResult{
				Node:       node,
				Duplicate:  true,
				Completed:  t.Status == models.TournamentCompleted,
				ChampionID: deref(t.ChampionID),
			}, nil
		}
		return nil, fmt.Errorf("%w: node %s", ErrBracketConflict, nodeID)
	case models.NodeBye:
		return nil, fmt.Errorf("%w: node %s is a bye", ErrInvalidNodeState, nodeID)
	}

	if !node.SideA.Concrete() || !node.SideB.Concrete() {
		return nil, fmt.Errorf("%w: node %s slots are not concrete yet", ErrInvalidNodeState, nodeID)
	}

	node.Status = models.NodeCompleted
	node.WinnerSlot = &winnerSlot
	node.WinnerID = node.Slot(winnerSlot).ParticipantID

	res := &AdvanceResult{Node: node, Touched: []*models.BracketNode{node}}
	advanceWinner(t, node, &res.Touched)

	if t.Status == models.TournamentCompleted {
		res.Completed = true
		res.ChampionID = deref(t.ChampionID)
	}
	return res, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
