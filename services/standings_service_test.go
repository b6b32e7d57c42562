package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/bpaddle/competition-engine/models"
	"github.com/bpaddle/competition-engine/services"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQualifyPlayoffs(t *testing.T) {
	Convey("Given a league past its season end", t, func() {
		repo := newFakeRepo()
		repo.addLeague(&models.League{
			ID:            "l1",
			Name:          "Winter League",
			Discipline:    models.DisciplineSingles,
			PlayoffCutoff: 4,
			SeasonEnd:     time.Now().Add(-time.Hour),
			Status:        models.LeagueRegularSeason,
			Version:       3,
		}, "ann", "bob", "cid", "dan", "eve", "fay")

		// Distinct win totals give an unambiguous ranking.
		wins := map[string]int{"ann": 5, "bob": 4, "cid": 3, "dan": 2, "eve": 1, "fay": 0}
		for p, w := range wins {
			repo.standings["l1"][p].Wins = w
			repo.standings["l1"][p].Losses = 5 - w
		}

		svc := services.NewStandingsService(repo, nil, testLogger())
		ctx := context.Background()

		Convey("When playoffs are qualified", func() {
			tournament, err := svc.QualifyPlayoffs(ctx, "l1")

			Convey("Then the top of the ranking seeds the bracket in order", func() {
				So(err, ShouldBeNil)
				So(tournament.Seeding, ShouldResemble, []string{"ann", "bob", "cid", "dan"})
				So(tournament.Name, ShouldEqual, "Winter League playoffs")
				So(tournament.Discipline, ShouldEqual, models.DisciplineSingles)
				So(*tournament.LeagueID, ShouldEqual, "l1")
			})

			Convey("Then the league moved into playoffs atomically", func() {
				So(err, ShouldBeNil)
				league := repo.leagues["l1"]
				So(league.Status, ShouldEqual, models.LeaguePlayoffs)
				So(*league.PlayoffTournamentID, ShouldEqual, tournament.ID)
				So(repo.tournaments[tournament.ID], ShouldNotBeNil)
			})

			Convey("And a second qualification is refused", func() {
				So(err, ShouldBeNil)
				_, err := svc.QualifyPlayoffs(ctx, "l1")
				So(err, ShouldWrap, services.ErrSeasonNotRegular)
			})
		})

		Convey("When the commit loses the version race", func() {
			repo.failCommits = 1
			_, err := svc.QualifyPlayoffs(ctx, "l1")

			Convey("Then the conflict surfaces instead of retrying the one-shot transition", func() {
				So(err, ShouldWrap, services.ErrConcurrentUpdateConflict)
				So(repo.leagues["l1"].Status, ShouldEqual, models.LeagueRegularSeason)
			})
		})

		Convey("When the league does not exist", func() {
			_, err := svc.QualifyPlayoffs(ctx, "missing")
			So(err, ShouldWrap, services.ErrLeagueNotFound)
		})
	})

	Convey("Given a league ranking request", t, func() {
		repo := newFakeRepo()
		repo.addLeague(&models.League{
			ID:            "l2",
			Name:          "Spring League",
			Discipline:    models.DisciplineSingles,
			PlayoffCutoff: 2,
			SeasonEnd:     time.Now().Add(24 * time.Hour),
			Status:        models.LeagueRegularSeason,
			Version:       1,
		}, "ann", "bob", "cid")
		repo.standings["l2"]["ann"].Wins = 2
		repo.standings["l2"]["bob"].Wins = 1
		repo.standings["l2"]["bob"].Losses = 1
		repo.standings["l2"]["cid"].Losses = 2

		svc := services.NewStandingsService(repo, nil, testLogger())

		Convey("When the ranking is computed", func() {
			ranked, err := svc.GetRanking(context.Background(), "l2")

			Convey("Then rows come back ordered with ranks assigned", func() {
				So(err, ShouldBeNil)
				So(ranked, ShouldHaveLength, 3)
				So(ranked[0].ParticipantID, ShouldEqual, "ann")
				So(ranked[0].Rank, ShouldEqual, 1)
				So(ranked[1].ParticipantID, ShouldEqual, "bob")
				So(ranked[2].ParticipantID, ShouldEqual, "cid")
			})
		})
	})
}
