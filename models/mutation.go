package models

// MutationSet is everything one unit of work writes. The repository
// applies it in a single transaction: either all of it lands or none.
// Versioned entities carry the version they were read at; the commit
// fails if any of them moved in the meantime.
type MutationSet struct {
	MatchRecord   *MatchResult
	Ratings       []Rating
	Nodes         []*BracketNode
	Tournament    *Tournament
	Standings     []*LeagueStanding
	League        *League
	NewTournament *Tournament
}

func (m *MutationSet) Empty() bool {
	return m.MatchRecord == nil && len(m.Ratings) == 0 && len(m.Nodes) == 0 &&
		m.Tournament == nil && len(m.Standings) == 0 && m.League == nil &&
		m.NewTournament == nil
}

// BracketUpdate describes what a processed result did to a bracket.
type BracketUpdate struct {
	TournamentID        string   `json:"tournament_id"`
	NodeID              string   `json:"node_id"`
	WinnerID            string   `json:"winner_id"`
	AdvancedNodeIDs     []string `json:"advanced_node_ids,omitempty"`
	TournamentCompleted bool     `json:"tournament_completed"`
	ChampionID          *string  `json:"champion_id,omitempty"`
}

// StandingsUpdate carries the two rows a regular-season result touched.
type StandingsUpdate struct {
	LeagueID string            `json:"league_id"`
	Rows     []*LeagueStanding `json:"rows"`
}

// ProcessingOutcome is the discriminated success result of submitting a
// match result. Exactly one of Bracket/Standings is set for played
// matches; both are nil for cancelled results and duplicates.
type ProcessingOutcome struct {
	MatchID      string           `json:"match_id"`
	Duplicate    bool             `json:"duplicate"`
	RatingDeltas []RatingDelta    `json:"rating_deltas,omitempty"`
	Bracket      *BracketUpdate   `json:"bracket,omitempty"`
	Standings    *StandingsUpdate `json:"standings,omitempty"`
}
