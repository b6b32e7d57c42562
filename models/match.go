package models

import (
	"sort"
	"strings"
	"time"
)

type MatchContext string

const (
	ContextTournament    MatchContext = "tournament"
	ContextLeagueRegular MatchContext = "league-regular"
	ContextLeaguePlayoff MatchContext = "league-playoff"
)

func (c MatchContext) Valid() bool {
	switch c {
	case ContextTournament, ContextLeagueRegular, ContextLeaguePlayoff:
		return true
	}
	return false
}

// Bracket returns true for contexts whose matches live on bracket nodes.
func (c MatchContext) Bracket() bool {
	return c == ContextTournament || c == ContextLeaguePlayoff
}

type MatchOutcome string

const (
	OutcomeNormalWin  MatchOutcome = "normal-win"
	OutcomeRetirement MatchOutcome = "retirement"
	OutcomeWalkover   MatchOutcome = "walkover"
	OutcomeCancelled  MatchOutcome = "cancelled"
)

func (o MatchOutcome) Valid() bool {
	switch o {
	case OutcomeNormalWin, OutcomeRetirement, OutcomeWalkover, OutcomeCancelled:
		return true
	}
	return false
}

// Side is one end of a match: one player id for singles, two for doubles.
type Side struct {
	PlayerIDs []string `json:"player_ids"`
}

// Key is the side's stable participant identity. For doubles the two ids
// are sorted and joined so the same pairing always yields the same key.
func (s Side) Key() string {
	ids := make([]string, len(s.PlayerIDs))
	copy(ids, s.PlayerIDs)
	sort.Strings(ids)
	return strings.Join(ids, "+")
}

type SetScore struct {
	SideA int `json:"side_a"`
	SideB int `json:"side_b"`
}

// MatchResult is a completed match submission. Accepted results are
// immutable; a correction arrives as a new result with ReversalOf set.
type MatchResult struct {
	MatchID      string       `json:"match_id"`
	Context      MatchContext `json:"context"`
	Discipline   Discipline   `json:"discipline"`
	TournamentID *string      `json:"tournament_id,omitempty"`
	NodeID       *string      `json:"node_id,omitempty"`
	LeagueID     *string      `json:"league_id,omitempty"`
	Sides        [2]Side      `json:"sides"`
	ScoreBySet   []SetScore   `json:"score_by_set"`
	Outcome      MatchOutcome `json:"outcome"`
	WinnerSide   int          `json:"winner_side"` // 0 = Sides[0], 1 = Sides[1]
	ReversalOf   *string      `json:"reversal_of,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (m *MatchResult) ParticipantKey(side int) string {
	return m.Sides[side].Key()
}

func (m *MatchResult) WinnerKey() string {
	return m.ParticipantKey(m.WinnerSide)
}

func (m *MatchResult) LoserKey() string {
	return m.ParticipantKey(1 - m.WinnerSide)
}

// SetsWonBy counts sets taken by the given side index.
func (m *MatchResult) SetsWonBy(side int) int {
	won := 0
	for _, set := range m.ScoreBySet {
		a, b := set.SideA, set.SideB
		if side == 1 {
			a, b = b, a
		}
		if a > b {
			won++
		}
	}
	return won
}

// PointsWonBy sums game points scored by the given side index.
func (m *MatchResult) PointsWonBy(side int) int {
	points := 0
	for _, set := range m.ScoreBySet {
		if side == 0 {
			points += set.SideA
		} else {
			points += set.SideB
		}
	}
	return points
}
