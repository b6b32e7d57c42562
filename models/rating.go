package models

type Discipline string

const (
	DisciplineSingles Discipline = "singles"
	DisciplineDoubles Discipline = "doubles"
	DisciplineMixed   Discipline = "mixed"
)

func (d Discipline) Valid() bool {
	switch d {
	case DisciplineSingles, DisciplineDoubles, DisciplineMixed:
		return true
	}
	return false
}

// PlayersPerSide returns how many players a side fields in this discipline.
func (d Discipline) PlayersPerSide() int {
	if d == DisciplineSingles {
		return 1
	}
	return 2
}

// Rating is a player's skill estimate for one discipline.
// MatchCount is fractional: walkover wins count with a reduced weight.
type Rating struct {
	PlayerID   string     `json:"player_id" db:"player_id"`
	Discipline Discipline `json:"discipline" db:"discipline"`
	Value      float64    `json:"value" db:"value"`
	MatchCount float64    `json:"match_count" db:"match_count"`
	Version    int        `json:"-" db:"version"` // 0 means not yet persisted
}

type RatingDelta struct {
	PlayerID   string     `json:"player_id"`
	Discipline Discipline `json:"discipline"`
	OldValue   float64    `json:"old_value"`
	NewValue   float64    `json:"new_value"`
	Delta      float64    `json:"delta"`
}
