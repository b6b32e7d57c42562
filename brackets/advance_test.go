package brackets_test

import (
	"testing"

	"github.com/bpaddle/competition-engine/brackets"
	"github.com/bpaddle/competition-engine/models"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordResult(t *testing.T) {
	Convey("Given a 4-player bracket", t, func() {
		tournament, err := brackets.NewTournament("t1", "Club Open", models.DisciplineSingles, []string{"A", "B", "C", "D"})
		So(err, ShouldBeNil)

		Convey("When A beats D in round 1", func() {
			res, err := brackets.RecordResult(tournament, "R1M1", 1)

			Convey("Then the node completes and A moves into the final", func() {
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeFalse)
				So(res.Node.Status, ShouldEqual, models.NodeCompleted)
				So(*res.Node.WinnerID, ShouldEqual, "A")
				final := tournament.Node("R2M1")
				So(*final.SideA.ParticipantID, ShouldEqual, "A")
				So(final.Status, ShouldEqual, models.NodePending)
			})

			Convey("And the identical resubmission is a no-op", func() {
				So(err, ShouldBeNil)
				again, err := brackets.RecordResult(tournament, "R1M1", 1)
				So(err, ShouldBeNil)
				So(again.Duplicate, ShouldBeTrue)
				So(*tournament.Node("R1M1").WinnerID, ShouldEqual, "A")
			})

			Convey("And a contradictory resubmission is a conflict", func() {
				So(err, ShouldBeNil)
				_, err := brackets.RecordResult(tournament, "R1M1", 2)
				So(err, ShouldWrap, brackets.ErrBracketConflict)
				So(*tournament.Node("R1M1").WinnerID, ShouldEqual, "A")
			})
		})

		Convey("When the final is submitted before its slots are concrete", func() {
			_, err := brackets.RecordResult(tournament, "R2M1", 1)

			Convey("Then the call fails with an invalid node state", func() {
				So(err, ShouldWrap, brackets.ErrInvalidNodeState)
			})
		})

		Convey("When both round-1 results land", func() {
			_, err1 := brackets.RecordResult(tournament, "R1M1", 1) // A over D
			_, err2 := brackets.RecordResult(tournament, "R1M2", 2) // C over B

			Convey("Then the final is A vs C and in progress", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				final := tournament.Node("R2M1")
				So(*final.SideA.ParticipantID, ShouldEqual, "A")
				So(*final.SideB.ParticipantID, ShouldEqual, "C")
				So(final.Status, ShouldEqual, models.NodeInProgress)
			})

			Convey("And completing the final completes the tournament", func() {
				res, err := brackets.RecordResult(tournament, "R2M1", 1)
				So(err, ShouldBeNil)
				So(res.Completed, ShouldBeTrue)
				So(res.ChampionID, ShouldEqual, "A")
				So(tournament.Status, ShouldEqual, models.TournamentCompleted)
				So(*tournament.ChampionID, ShouldEqual, "A")
			})
		})

		Convey("When an unknown node is referenced", func() {
			_, err := brackets.RecordResult(tournament, "R9M9", 1)
			So(err, ShouldWrap, brackets.ErrNodeNotFound)
		})

		Convey("When the winner slot is out of range", func() {
			_, err := brackets.RecordResult(tournament, "R1M1", 3)
			So(err, ShouldEqual, brackets.ErrInvalidSlot)
		})
	})

	Convey("Given a bracket where a winner advances next to a bye slot", t, func() {
		bye := true
		one := 1
		next := "R2M1"
		x, y := "X", "Y"
		tournament := &models.Tournament{
			ID:               "hand",
			ParticipantCount: 3,
			Seeding:          []string{"X", "Y", "Z"},
			Status:           models.TournamentActive,
			Nodes: []*models.BracketNode{
				{ID: "R1M1", TournamentID: "hand", Round: 1, SlotIndex: 0, Status: models.NodeInProgress,
					SideA: models.Slot{ParticipantID: &x}, SideB: models.Slot{ParticipantID: &y},
					NextNodeID: &next, NextSlot: &one},
				{ID: "R2M1", TournamentID: "hand", Round: 2, SlotIndex: 0, Status: models.NodePending,
					SideB: models.Slot{Bye: bye}},
			},
		}

		Convey("When the feeding match completes", func() {
			res, err := brackets.RecordResult(tournament, "R1M1", 2)

			Convey("Then the advancement cascades through the bye to the end", func() {
				So(err, ShouldBeNil)
				target := tournament.Node("R2M1")
				So(target.Status, ShouldEqual, models.NodeBye)
				So(*target.WinnerID, ShouldEqual, "Y")
				So(res.Completed, ShouldBeTrue)
				So(res.ChampionID, ShouldEqual, "Y")
				So(len(res.Touched), ShouldEqual, 2)
			})
		})
	})
}
