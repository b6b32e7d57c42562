// Package brackets builds and advances single-elimination brackets.
// A bracket is an arena of nodes indexed by id; every non-final node
// carries a single outward edge (NextNodeID, NextSlot).
package brackets

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bpaddle/competition-engine/models"
)

var (
	ErrNotEnoughParticipants = errors.New("brackets: at least 2 participants required")
	ErrDuplicateParticipant  = errors.New("brackets: seeding contains a duplicate participant")
)

// seedOrder returns first-round seed placement for a full bracket of
// the given size (a power of two). Seed 1 meets seed N in round 1 slot
// terms, so the top two seeds can only meet in the final.
func seedOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		next := make([]int, 0, len(order)*2)
		mirror := len(order)*2 + 1
		for _, s := range order {
			next = append(next, s, mirror-s)
		}
		order = next
	}
	return order
}

// NewTournament creates a seeded single-elimination bracket. If the
// participant count is not a power of two, the top seeds receive byes
// and are advanced into round 2 immediately.
func NewTournament(id, name string, discipline models.Discipline, seeding []string) (*models.Tournament, error) {
	n := len(seeding)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}
	seen := make(map[string]struct{}, n)
	for _, p := range seeding {
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, p)
		}
		seen[p] = struct{}{}
	}

	numRounds := int(math.Ceil(math.Log2(float64(n))))
	size := 1 << uint(numRounds)

	t := &models.Tournament{
		ID:               id,
		Name:             name,
		Discipline:       discipline,
		ParticipantCount: n,
		Seeding:          append([]string(nil), seeding...),
		Status:           models.TournamentActive,
		CreatedAt:        time.Now().UTC(),
	}

	// Build the empty node grid round by round, linking each node to
	// its slot in the next round.
	nodesPerRound := size / 2
	for r := 1; r <= numRounds; r++ {
		for i := 0; i < nodesPerRound; i++ {
			node := &models.BracketNode{
				ID:           nodeID(r, i),
				TournamentID: id,
				Round:        r,
				SlotIndex:    i,
				Status:       models.NodePending,
			}
			if r < numRounds {
				next := nodeID(r+1, i/2)
				slot := 1 + i%2
				node.NextNodeID = &next
				node.NextSlot = &slot
			}
			t.Nodes = append(t.Nodes, node)
		}
		nodesPerRound /= 2
	}

	// Later-round inputs reference the winners of their feeders.
	for _, node := range t.Nodes {
		if node.NextNodeID != nil {
			target := t.Node(*node.NextNodeID)
			feeder := node.ID
			target.Slot(*node.NextSlot).WinnerOfNode = &feeder
		}
	}

	// Fill round 1 from the seed order. Seed numbers beyond n are byes.
	order := seedOrder(size)
	for i := 0; i < size; i += 2 {
		node := t.Node(nodeID(1, i/2))
		for pos, seed := range []int{order[i], order[i+1]} {
			slot := node.Slot(pos + 1)
			if seed <= n {
				pid := seeding[seed-1]
				slot.ParticipantID = &pid
			} else {
				slot.Bye = true
			}
		}
		switch {
		case node.SideA.Concrete() && node.SideB.Concrete():
			node.Status = models.NodeInProgress
		case node.SideA.Bye:
			resolveBye(t, node, 2)
		case node.SideB.Bye:
			resolveBye(t, node, 1)
		}
	}

	return t, nil
}

func nodeID(round, slotIndex int) string {
	return fmt.Sprintf("R%dM%d", round, slotIndex+1)
}

// resolveBye marks the node as a bye won by the given slot and pushes
// the recipient forward without a recorded match.
func resolveBye(t *models.Tournament, node *models.BracketNode, winnerSlot int) {
	node.Status = models.NodeBye
	node.WinnerSlot = &winnerSlot
	node.WinnerID = node.Slot(winnerSlot).ParticipantID
	advanceWinner(t, node, nil)
}

// advanceWinner writes the node's winner into the target slot of the
// next node, then cascades: a target whose other input is a bye is
// completed on the spot and advanced in turn. Recursion depth is
// bounded by the round count.
func advanceWinner(t *models.Tournament, node *models.BracketNode, touched *[]*models.BracketNode) {
	if node.NextNodeID == nil {
		t.Status = models.TournamentCompleted
		t.ChampionID = node.WinnerID
		return
	}

	target := t.Node(*node.NextNodeID)
	slot := target.Slot(*node.NextSlot)
	slot.ParticipantID = node.WinnerID
	slot.WinnerOfNode = nil
	if touched != nil && !contains(*touched, target) {
		*touched = append(*touched, target)
	}

	other := target.Slot(3 - *node.NextSlot)
	switch {
	case other.Bye:
		winnerSlot := *node.NextSlot
		target.Status = models.NodeBye
		target.WinnerSlot = &winnerSlot
		target.WinnerID = slot.ParticipantID
		advanceWinner(t, target, touched)
	case other.Concrete():
		target.Status = models.NodeInProgress
	}
}

func contains(nodes []*models.BracketNode, node *models.BracketNode) bool {
	for _, n := range nodes {
		if n == node {
			return true
		}
	}
	return false
}
