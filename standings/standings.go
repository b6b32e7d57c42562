// Package standings maintains league regular-season tables and derives
// rankings and playoff seedings from them.
package standings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bpaddle/competition-engine/models"
)

var (
	ErrUnknownParticipant = errors.New("standings: participant is not part of this league")
	ErrInvalidCutoff      = errors.New("standings: playoff cutoff out of range")
)

// Apply folds one completed regular-season result into the two affected
// rows. Purely additive: historical matches are never recomputed.
func Apply(rows map[string]*models.LeagueStanding, result *models.MatchResult) ([]*models.LeagueStanding, error) {
	winner, ok := rows[result.WinnerKey()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, result.WinnerKey())
	}
	loser, ok := rows[result.LoserKey()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, result.LoserKey())
	}

	winner.Wins++
	loser.Losses++

	winSide := result.WinnerSide
	winner.SetsWon += result.SetsWonBy(winSide)
	winner.SetsLost += result.SetsWonBy(1 - winSide)
	winner.PointsFor += result.PointsWonBy(winSide)
	winner.PointsAgainst += result.PointsWonBy(1 - winSide)

	loser.SetsWon += result.SetsWonBy(1 - winSide)
	loser.SetsLost += result.SetsWonBy(winSide)
	loser.PointsFor += result.PointsWonBy(1 - winSide)
	loser.PointsAgainst += result.PointsWonBy(winSide)

	return []*models.LeagueStanding{winner, loser}, nil
}

// Ranked is one row of the derived league table.
type Ranked struct {
	models.LeagueStanding
	Rank int `json:"rank"`
}

type headToHead struct {
	meetings int
	winner   string
}

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

// ComputeRanking derives the ordered table. Sort key: wins descending,
// then head-to-head when the tied pair met exactly once, then set
// differential, then point differential, then registration order with
// a shared rank. The result is a pure function of the rows and the
// league's completed regular-season results.
func ComputeRanking(rows []*models.LeagueStanding, history []*models.MatchResult) []Ranked {
	h2h := make(map[string]headToHead)
	for _, m := range history {
		if m.Context != models.ContextLeagueRegular || m.Outcome == models.OutcomeCancelled {
			continue
		}
		key := pairKey(m.ParticipantKey(0), m.ParticipantKey(1))
		entry := h2h[key]
		entry.meetings++
		entry.winner = m.WinnerKey()
		h2h[key] = entry
	}

	ranked := make([]Ranked, 0, len(rows))
	for _, r := range rows {
		ranked = append(ranked, Ranked{LeagueStanding: *r})
	}

	// headToHeadOrder returns -1/1 when the pair met exactly once and
	// the record decides it, 0 otherwise.
	headToHeadOrder := func(a, b *Ranked) int {
		entry, ok := h2h[pairKey(a.ParticipantID, b.ParticipantID)]
		if !ok || entry.meetings != 1 {
			return 0
		}
		if entry.winner == a.ParticipantID {
			return -1
		}
		return 1
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if order := headToHeadOrder(a, b); order != 0 {
			return order < 0
		}
		if a.SetDiff() != b.SetDiff() {
			return a.SetDiff() > b.SetDiff()
		}
		if a.PointDiff() != b.PointDiff() {
			return a.PointDiff() > b.PointDiff()
		}
		return a.RegistrationOrder < b.RegistrationOrder
	})

	for i := range ranked {
		if i == 0 {
			ranked[i].Rank = 1
			continue
		}
		prev := &ranked[i-1]
		cur := &ranked[i]
		tied := cur.Wins == prev.Wins &&
			cur.SetDiff() == prev.SetDiff() &&
			cur.PointDiff() == prev.PointDiff() &&
			headToHeadOrder(prev, cur) == 0
		if tied {
			cur.Rank = prev.Rank
		} else {
			cur.Rank = i + 1
		}
	}
	return ranked
}

// QualifySeeding returns the top-N participants of the ranking as a
// seeding list for a playoff bracket.
func QualifySeeding(ranked []Ranked, cutoff int) ([]string, error) {
	if cutoff < 2 || cutoff > len(ranked) {
		return nil, fmt.Errorf("%w: cutoff %d with %d participants", ErrInvalidCutoff, cutoff, len(ranked))
	}
	seeding := make([]string, cutoff)
	for i := 0; i < cutoff; i++ {
		seeding[i] = ranked[i].ParticipantID
	}
	return seeding, nil
}
