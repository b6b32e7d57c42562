package models

import "time"

type LeagueStatus string

const (
	LeagueRegularSeason LeagueStatus = "regular"
	LeaguePlayoffs      LeagueStatus = "playoffs"
	LeagueCompleted     LeagueStatus = "completed"
)

// League is one season of round-robin play followed by a playoff
// bracket for the top PlayoffCutoff participants.
type League struct {
	ID                  string       `json:"id" db:"id"`
	Name                string       `json:"name" db:"name"`
	Discipline          Discipline   `json:"discipline" db:"discipline"`
	PlayoffCutoff       int          `json:"playoff_cutoff" db:"playoff_cutoff"`
	SeasonEnd           time.Time    `json:"season_end" db:"season_end"`
	Status              LeagueStatus `json:"status" db:"status"`
	PlayoffTournamentID *string      `json:"playoff_tournament_id,omitempty" db:"playoff_tournament_id"`
	Version             int          `json:"-" db:"version"`
}

// LeagueStanding is one participant's accumulated regular-season row.
// Rank is never stored; it is derived on read.
type LeagueStanding struct {
	LeagueID          string `json:"league_id" db:"league_id"`
	ParticipantID     string `json:"participant_id" db:"participant_id"`
	RegistrationOrder int    `json:"registration_order" db:"registration_order"`
	Wins              int    `json:"wins" db:"wins"`
	Losses            int    `json:"losses" db:"losses"`
	SetsWon           int    `json:"sets_won" db:"sets_won"`
	SetsLost          int    `json:"sets_lost" db:"sets_lost"`
	PointsFor         int    `json:"points_for" db:"points_for"`
	PointsAgainst     int    `json:"points_against" db:"points_against"`
}

func (s *LeagueStanding) SetDiff() int {
	return s.SetsWon - s.SetsLost
}

func (s *LeagueStanding) PointDiff() int {
	return s.PointsFor - s.PointsAgainst
}
