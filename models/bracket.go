package models

import "time"

type NodeStatus string

const (
	NodePending    NodeStatus = "pending"
	NodeBye        NodeStatus = "bye"
	NodeInProgress NodeStatus = "in_progress"
	NodeCompleted  NodeStatus = "completed"
)

// Slot is one input of a bracket node: a concrete participant, a bye
// marker, or a reference to the winner of an earlier node.
type Slot struct {
	ParticipantID *string `json:"participant_id,omitempty"`
	Bye           bool    `json:"bye,omitempty"`
	WinnerOfNode  *string `json:"winner_of_node,omitempty"`
}

func (s Slot) Concrete() bool {
	return s.ParticipantID != nil
}

// BracketNode is one match slot in a single-elimination bracket.
// NextNodeID/NextSlot form the node's single outward edge; both are nil
// only for the final.
type BracketNode struct {
	ID           string     `json:"id" db:"id"`
	TournamentID string     `json:"tournament_id" db:"tournament_id"`
	Round        int        `json:"round" db:"round"`
	SlotIndex    int        `json:"slot_index" db:"slot_index"`
	SideA        Slot       `json:"side_a"`
	SideB        Slot       `json:"side_b"`
	Status       NodeStatus `json:"status" db:"status"`
	WinnerSlot   *int       `json:"winner_slot,omitempty"` // 1 = SideA, 2 = SideB
	WinnerID     *string    `json:"winner_id,omitempty"`
	NextNodeID   *string    `json:"next_node_id,omitempty"`
	NextSlot     *int       `json:"next_slot,omitempty"` // 1 or 2
}

// Slot returns the input at position 1 or 2.
func (n *BracketNode) Slot(pos int) *Slot {
	if pos == 1 {
		return &n.SideA
	}
	return &n.SideB
}

// SlotOf reports which position the participant occupies, 0 if absent.
func (n *BracketNode) SlotOf(participantID string) int {
	if n.SideA.Concrete() && *n.SideA.ParticipantID == participantID {
		return 1
	}
	if n.SideB.Concrete() && *n.SideB.ParticipantID == participantID {
		return 2
	}
	return 0
}

type TournamentStatus string

const (
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
)

// Tournament is a single-elimination bracket. Seeding is fixed at
// creation; Nodes are ordered by round then slot index.
type Tournament struct {
	ID               string           `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	Discipline       Discipline       `json:"discipline" db:"discipline"`
	LeagueID         *string          `json:"league_id,omitempty" db:"league_id"`
	ParticipantCount int              `json:"participant_count" db:"participant_count"`
	Seeding          []string         `json:"seeding"`
	Nodes            []*BracketNode   `json:"nodes"`
	Status           TournamentStatus `json:"status" db:"status"`
	ChampionID       *string          `json:"champion_id,omitempty" db:"champion_id"`
	Version          int              `json:"-" db:"version"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

func (t *Tournament) Node(id string) *BracketNode {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// FinalNode is the single node without an outward edge.
func (t *Tournament) FinalNode() *BracketNode {
	for _, n := range t.Nodes {
		if n.NextNodeID == nil {
			return n
		}
	}
	return nil
}

// Rounds groups nodes by round ordinal, earliest first.
func (t *Tournament) Rounds() [][]*BracketNode {
	if len(t.Nodes) == 0 {
		return nil
	}
	last := 0
	for _, n := range t.Nodes {
		if n.Round > last {
			last = n.Round
		}
	}
	rounds := make([][]*BracketNode, last)
	for _, n := range t.Nodes {
		rounds[n.Round-1] = append(rounds[n.Round-1], n)
	}
	return rounds
}

func (t *Tournament) HasParticipant(participantID string) bool {
	for _, s := range t.Seeding {
		if s == participantID {
			return true
		}
	}
	return false
}
