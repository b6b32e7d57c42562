package standings_test

import (
	"testing"

	"github.com/bpaddle/competition-engine/models"
	"github.com/bpaddle/competition-engine/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func singlesResult(matchID, winner, loser string, sets []models.SetScore) *models.MatchResult {
	return &models.MatchResult{
		MatchID:    matchID,
		Context:    models.ContextLeagueRegular,
		Discipline: models.DisciplineSingles,
		Sides: [2]models.Side{
			{PlayerIDs: []string{winner}},
			{PlayerIDs: []string{loser}},
		},
		ScoreBySet: sets,
		Outcome:    models.OutcomeNormalWin,
		WinnerSide: 0,
	}
}

func freshRows(ids ...string) map[string]*models.LeagueStanding {
	rows := make(map[string]*models.LeagueStanding, len(ids))
	for i, id := range ids {
		rows[id] = &models.LeagueStanding{LeagueID: "l1", ParticipantID: id, RegistrationOrder: i}
	}
	return rows
}

func rowList(rows map[string]*models.LeagueStanding, ids ...string) []*models.LeagueStanding {
	list := make([]*models.LeagueStanding, 0, len(ids))
	for _, id := range ids {
		list = append(list, rows[id])
	}
	return list
}

func TestApply(t *testing.T) {
	Convey("Given a league with two registered participants", t, func() {
		rows := freshRows("ann", "bob")

		Convey("When ann beats bob 6-2 3-6 6-4", func() {
			result := singlesResult("m1", "ann", "bob", []models.SetScore{{SideA: 6, SideB: 2}, {SideA: 3, SideB: 6}, {SideA: 6, SideB: 4}})
			touched, err := standings.Apply(rows, result)

			Convey("Then both rows accumulate wins, sets and points", func() {
				So(err, ShouldBeNil)
				So(len(touched), ShouldEqual, 2)
				So(rows["ann"].Wins, ShouldEqual, 1)
				So(rows["ann"].Losses, ShouldEqual, 0)
				So(rows["ann"].SetsWon, ShouldEqual, 2)
				So(rows["ann"].SetsLost, ShouldEqual, 1)
				So(rows["ann"].PointsFor, ShouldEqual, 15)
				So(rows["ann"].PointsAgainst, ShouldEqual, 12)
				So(rows["bob"].Losses, ShouldEqual, 1)
				So(rows["bob"].SetsWon, ShouldEqual, 1)
				So(rows["bob"].PointsFor, ShouldEqual, 12)
			})
		})

		Convey("When a walkover with no sets is applied", func() {
			result := singlesResult("m2", "ann", "bob", nil)
			result.Outcome = models.OutcomeWalkover
			_, err := standings.Apply(rows, result)

			Convey("Then only the win/loss columns move", func() {
				So(err, ShouldBeNil)
				So(rows["ann"].Wins, ShouldEqual, 1)
				So(rows["bob"].Losses, ShouldEqual, 1)
				So(rows["ann"].SetsWon, ShouldEqual, 0)
				So(rows["ann"].PointsFor, ShouldEqual, 0)
			})
		})

		Convey("When a result references an unregistered participant", func() {
			result := singlesResult("m3", "ann", "zed", []models.SetScore{{SideA: 6, SideB: 0}})
			_, err := standings.Apply(rows, result)

			Convey("Then the engine refuses", func() {
				So(err, ShouldWrap, standings.ErrUnknownParticipant)
				So(rows["ann"].Wins, ShouldEqual, 0)
			})
		})
	})
}

func TestComputeRanking(t *testing.T) {
	Convey("Given a season of results", t, func() {
		rows := freshRows("ann", "bob", "cid")
		sets := []models.SetScore{{SideA: 6, SideB: 3}, {SideA: 6, SideB: 3}}
		history := []*models.MatchResult{
			singlesResult("m1", "ann", "cid", sets),
			singlesResult("m2", "bob", "cid", sets),
			singlesResult("m3", "bob", "ann", sets),
		}
		for _, m := range history {
			_, err := standings.Apply(rows, m)
			So(err, ShouldBeNil)
		}

		Convey("When the ranking is computed", func() {
			ranked := standings.ComputeRanking(rowList(rows, "ann", "bob", "cid"), history)

			Convey("Then wins decide the order", func() {
				So(ranked[0].ParticipantID, ShouldEqual, "bob")
				So(ranked[1].ParticipantID, ShouldEqual, "ann")
				So(ranked[2].ParticipantID, ShouldEqual, "cid")
				So(ranked[0].Rank, ShouldEqual, 1)
				So(ranked[2].Rank, ShouldEqual, 3)
			})

			Convey("Then repeated computation returns the identical order", func() {
				again := standings.ComputeRanking(rowList(rows, "ann", "bob", "cid"), history)
				So(again, ShouldResemble, ranked)
			})
		})

		Convey("When two participants are tied on wins and met once", func() {
			tieRows := freshRows("ann", "bob", "cid", "dan")
			tieHistory := []*models.MatchResult{
				singlesResult("m1", "ann", "cid", sets),
				singlesResult("m2", "bob", "dan", sets),
				// bob beat ann head to head, with a worse set score so
				// only the head-to-head rule can order them.
				singlesResult("m3", "bob", "ann", []models.SetScore{{SideA: 7, SideB: 6}, {SideA: 5, SideB: 7}, {SideA: 7, SideB: 6}}),
				singlesResult("m4", "ann", "dan", sets),
				singlesResult("m5", "cid", "bob", sets),
			}
			for _, m := range tieHistory {
				_, err := standings.Apply(tieRows, m)
				So(err, ShouldBeNil)
			}

			ranked := standings.ComputeRanking(rowList(tieRows, "ann", "bob", "cid", "dan"), tieHistory)

			Convey("Then the head-to-head winner ranks first", func() {
				So(ranked[0].Wins, ShouldEqual, 2)
				So(ranked[1].Wins, ShouldEqual, 2)
				So(ranked[0].ParticipantID, ShouldEqual, "bob")
				So(ranked[1].ParticipantID, ShouldEqual, "ann")
			})
		})

		Convey("When participants are fully tied with no meeting", func() {
			tieRows := freshRows("ann", "bob")
			ranked := standings.ComputeRanking(rowList(tieRows, "ann", "bob"), nil)

			Convey("Then they share a rank in registration order", func() {
				So(ranked[0].ParticipantID, ShouldEqual, "ann")
				So(ranked[1].ParticipantID, ShouldEqual, "bob")
				So(ranked[0].Rank, ShouldEqual, 1)
				So(ranked[1].Rank, ShouldEqual, 1)
			})
		})
	})
}

func TestQualifySeeding(t *testing.T) {
	Convey("Given a computed ranking", t, func() {
		ranked := []standings.Ranked{
			{LeagueStanding: models.LeagueStanding{ParticipantID: "ann"}, Rank: 1},
			{LeagueStanding: models.LeagueStanding{ParticipantID: "bob"}, Rank: 2},
			{LeagueStanding: models.LeagueStanding{ParticipantID: "cid"}, Rank: 3},
			{LeagueStanding: models.LeagueStanding{ParticipantID: "dan"}, Rank: 4},
		}

		Convey("The top-N rows become the playoff seeding in order", func() {
			seeding, err := standings.QualifySeeding(ranked, 4)
			So(err, ShouldBeNil)
			So(seeding, ShouldResemble, []string{"ann", "bob", "cid", "dan"})
		})

		Convey("A cutoff beyond the table is rejected", func() {
			_, err := standings.QualifySeeding(ranked, 5)
			So(err, ShouldWrap, standings.ErrInvalidCutoff)
		})

		Convey("A cutoff below two is rejected", func() {
			_, err := standings.QualifySeeding(ranked, 1)
			So(err, ShouldWrap, standings.ErrInvalidCutoff)
		})
	})
}
