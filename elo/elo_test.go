package elo_test

import (
	"testing"

	"github.com/bpaddle/competition-engine/elo"
	"github.com/bpaddle/competition-engine/models"
	. "github.com/smartystreets/goconvey/convey"
)

func rating(id string, value, count float64) models.Rating {
	return models.Rating{PlayerID: id, Discipline: models.DisciplineSingles, Value: value, MatchCount: count}
}

func TestUpdateMatch(t *testing.T) {
	Convey("Given an engine with default configuration", t, func() {
		engine := elo.NewEngine(elo.DefaultConfig())

		Convey("When two equally rated provisional players play a normal match", func() {
			sideA := []models.Rating{rating("a", 1200, 0)}
			sideB := []models.Rating{rating("b", 1200, 0)}
			updated, deltas, err := engine.UpdateMatch(sideA, sideB, 0, models.OutcomeNormalWin)

			Convey("Then the exchange is a symmetric 16 points", func() {
				So(err, ShouldBeNil)
				So(updated[0].Value, ShouldEqual, 1216)
				So(updated[1].Value, ShouldEqual, 1184)
				So(deltas[0].Delta, ShouldEqual, -deltas[1].Delta)
			})

			Convey("And both match counts advance by one", func() {
				So(err, ShouldBeNil)
				So(updated[0].MatchCount, ShouldEqual, 1)
				So(updated[1].MatchCount, ShouldEqual, 1)
			})
		})

		Convey("When an established player faces a provisional one", func() {
			sideA := []models.Rating{rating("a", 1200, 50)}
			sideB := []models.Rating{rating("b", 1200, 0)}
			updated, _, err := engine.UpdateMatch(sideA, sideB, 1, models.OutcomeNormalWin)

			Convey("Then the established player moves at the stable K", func() {
				So(err, ShouldBeNil)
				So(updated[0].Value, ShouldEqual, 1192) // K=16, loss at 0.5 expected
				So(updated[1].Value, ShouldEqual, 1216) // K=32
			})
		})

		Convey("When the match ends by retirement", func() {
			sideA := []models.Rating{rating("a", 1200, 0)}
			sideB := []models.Rating{rating("b", 1200, 0)}
			retired, _, err := engine.UpdateMatch(sideA, sideB, 0, models.OutcomeRetirement)
			normal, _, err2 := engine.UpdateMatch(sideA, sideB, 0, models.OutcomeNormalWin)

			Convey("Then ratings move exactly as for a normal win", func() {
				So(err, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(retired[0].Value, ShouldEqual, normal[0].Value)
				So(retired[1].Value, ShouldEqual, normal[1].Value)
				So(retired[0].MatchCount, ShouldEqual, 1)
			})
		})

		Convey("When the match is a walkover", func() {
			sideA := []models.Rating{rating("a", 1200, 0)}
			sideB := []models.Rating{rating("b", 1200, 0)}
			updated, _, err := engine.UpdateMatch(sideA, sideB, 0, models.OutcomeWalkover)

			Convey("Then the full rating still changes hands", func() {
				So(err, ShouldBeNil)
				So(updated[0].Value, ShouldEqual, 1216)
				So(updated[1].Value, ShouldEqual, 1184)
			})

			Convey("And the recipient's match count advances by the reduced weight", func() {
				So(err, ShouldBeNil)
				So(updated[0].MatchCount, ShouldEqual, 0.5)
				So(updated[1].MatchCount, ShouldEqual, 1)
			})
		})

		Convey("When a doubles match is rated", func() {
			sideA := []models.Rating{
				{PlayerID: "a1", Discipline: models.DisciplineDoubles, Value: 1300, MatchCount: 5},
				{PlayerID: "a2", Discipline: models.DisciplineDoubles, Value: 1100, MatchCount: 5},
			}
			sideB := []models.Rating{
				{PlayerID: "b1", Discipline: models.DisciplineDoubles, Value: 1200, MatchCount: 5},
				{PlayerID: "b2", Discipline: models.DisciplineDoubles, Value: 1200, MatchCount: 5},
			}
			updated, deltas, err := engine.UpdateMatch(sideA, sideB, 0, models.OutcomeNormalWin)

			Convey("Then partners on a side receive the same delta", func() {
				So(err, ShouldBeNil)
				So(deltas[0].Delta, ShouldEqual, deltas[1].Delta)
				So(deltas[2].Delta, ShouldEqual, deltas[3].Delta)
			})

			Convey("And equal team means make the exchange a symmetric 16", func() {
				So(err, ShouldBeNil)
				So(updated[0].Value, ShouldEqual, 1316)
				So(updated[1].Value, ShouldEqual, 1116)
				So(updated[2].Value, ShouldEqual, 1184)
				So(updated[3].Value, ShouldEqual, 1184)
			})
		})

		Convey("When a side is empty", func() {
			_, _, err := engine.UpdateMatch(nil, []models.Rating{rating("b", 1200, 0)}, 0, models.OutcomeNormalWin)

			Convey("Then the engine refuses", func() {
				So(err, ShouldEqual, elo.ErrEmptySide)
			})
		})

		Convey("When seeding a new player", func() {
			seeded := engine.InitialRating("new", models.DisciplineMixed)

			Convey("Then the default rating is used", func() {
				So(seeded.Value, ShouldEqual, elo.DefaultInitialRating)
				So(seeded.MatchCount, ShouldEqual, 0)
				So(seeded.Discipline, ShouldEqual, models.DisciplineMixed)
			})
		})
	})
}

func TestExpected(t *testing.T) {
	Convey("Expected score follows the logistic model", t, func() {
		So(elo.Expected(1200, 1200), ShouldEqual, 0.5)
		So(elo.Expected(1400, 1000), ShouldAlmostEqual, 1.0/(1.0+0.1), 1e-9)
		So(elo.Expected(1000, 1400)+elo.Expected(1400, 1000), ShouldAlmostEqual, 1.0, 1e-9)
	})
}
