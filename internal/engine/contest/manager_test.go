package contest_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/runway/internal/domain/model"
	"github.com/okian/runway/internal/engine/contest"
	"github.com/okian/runway/internal/engine/points"
	"github.com/okian/runway/internal/store"
)

func newFixture(t *testing.T) (*contest.Manager, *points.Ledger, *store.MemStore) {
	t.Helper()
	ms := store.NewMemStore()
	ledger := points.NewLedger(ms)
	mgr := contest.NewManager(ms, ledger)
	ctx := context.Background()
	if err := ledger.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Load(ctx); err != nil {
		t.Fatal(err)
	}
	return mgr, ledger, ms
}

func TestStart(t *testing.T) {
	Convey("Given no active competition", t, func() {
		mgr, _, _ := newFixture(t)
		ctx := context.Background()

		Convey("When starting a competition", func() {
			comp, err := mgr.Start(ctx, "Street Style Showdown", "best street look", "VogueMart", 7)
			So(err, ShouldBeNil)
			So(comp.Sponsor, ShouldEqual, "VogueMart")

			Convey("Then starting another fails while it runs", func() {
				_, err := mgr.Start(ctx, "Gala Night", "", "", 7)
				So(err, ShouldWrap, contest.ErrCompetitionActive)
			})
		})

		Convey("When operating with nothing active", func() {
			_, err := mgr.End(ctx)
			So(err, ShouldWrap, contest.ErrNoCompetition)

			_, err = mgr.SubmitEntry(ctx, "42", "ada", "https://cdn.example/a.jpg", "")
			So(err, ShouldWrap, contest.ErrNoCompetition)

			So(mgr.Vote(ctx, "1", "2"), ShouldWrap, contest.ErrNoCompetition)
		})
	})
}

func TestVote(t *testing.T) {
	Convey("Given a competition with two entrants", t, func() {
		mgr, ledger, _ := newFixture(t)
		ctx := context.Background()
		_, err := mgr.Start(ctx, "Street Style Showdown", "", "", 7)
		So(err, ShouldBeNil)
		_, err = mgr.SubmitEntry(ctx, "A", "ada", "https://cdn.example/a.jpg", "layered denim")
		So(err, ShouldBeNil)
		_, err = mgr.SubmitEntry(ctx, "B", "bea", "https://cdn.example/b.jpg", "vintage tee")
		So(err, ShouldBeNil)

		Convey("When a voter votes for A", func() {
			So(mgr.Vote(ctx, "V1", "A"), ShouldBeNil)

			Convey("Then the target is credited, not the voter", func() {
				So(mgr.VoteCount(ctx, "A"), ShouldEqual, 1)
				acct := ledger.User(ctx, "A")
				So(acct.Points, ShouldEqual, contest.VotePoints)
				So(ledger.User(ctx, "V1"), ShouldBeNil)
			})

			Convey("And voting a second time fails without moving the first", func() {
				err := mgr.Vote(ctx, "V1", "B")
				So(err, ShouldWrap, contest.ErrAlreadyVoted)
				So(mgr.VoteCount(ctx, "A"), ShouldEqual, 1)
				So(mgr.VoteCount(ctx, "B"), ShouldEqual, 0)
			})
		})

		Convey("When voting for a user without an entry", func() {
			err := mgr.Vote(ctx, "V1", "ghost")
			So(err, ShouldWrap, contest.ErrTargetNotFound)
			So(mgr.VoteCount(ctx, "ghost"), ShouldEqual, 0)
		})

		Convey("When reading the active competition", func() {
			active := mgr.Active(ctx)
			So(active, ShouldNotBeNil)
			So(active.Participants, ShouldResemble, []string{"A", "B"})

			Convey("Then the returned copy is independent of manager state", func() {
				active.Participants[0] = "mutated"
				active.Entries["A"][0].Votes = 999
				active.Winner = &model.Winner{UserID: "mutated"}

				fresh := mgr.Active(ctx)
				So(fresh.Participants[0], ShouldEqual, "A")
				So(fresh.Entries["A"][0].Votes, ShouldEqual, 0)
				So(fresh.Winner, ShouldBeNil)
			})
		})

		Convey("When entrants vote for each other", func() {
			So(mgr.Vote(ctx, "A", "B"), ShouldBeNil)
			So(mgr.Vote(ctx, "B", "A"), ShouldBeNil)
			So(mgr.VoteCount(ctx, "A"), ShouldEqual, 1)
			So(mgr.VoteCount(ctx, "B"), ShouldEqual, 1)
		})
	})
}

func TestEnd(t *testing.T) {
	Convey("Given a competition with votes cast", t, func() {
		mgr, ledger, _ := newFixture(t)
		ctx := context.Background()
		_, err := mgr.Start(ctx, "Street Style Showdown", "", "", 7)
		So(err, ShouldBeNil)
		_, err = mgr.SubmitEntry(ctx, "A", "ada", "https://cdn.example/a.jpg", "")
		So(err, ShouldBeNil)
		_, err = mgr.SubmitEntry(ctx, "B", "bea", "https://cdn.example/b.jpg", "")
		So(err, ShouldBeNil)

		So(mgr.Vote(ctx, "V1", "A"), ShouldBeNil)
		So(mgr.Vote(ctx, "V2", "A"), ShouldBeNil)
		So(mgr.Vote(ctx, "V3", "A"), ShouldBeNil)
		So(mgr.Vote(ctx, "V4", "B"), ShouldBeNil)

		Convey("When the competition ends", func() {
			res, err := mgr.End(ctx)
			So(err, ShouldBeNil)

			Convey("Then the entrant with the most votes wins", func() {
				So(res.Winner, ShouldNotBeNil)
				So(res.Winner.UserID, ShouldEqual, "A")
				So(res.Winner.Votes, ShouldEqual, 3)
			})

			Convey("And the winner gets the flat bonus and a win, no participation", func() {
				acct := ledger.User(ctx, "A")
				So(acct.Points, ShouldEqual, 3*contest.VotePoints+points.WinBonus)
				So(acct.Wins, ShouldEqual, 1)
				So(acct.Participations, ShouldEqual, 3)
			})

			Convey("And the runner-up keeps only vote credit", func() {
				acct := ledger.User(ctx, "B")
				So(acct.Points, ShouldEqual, contest.VotePoints)
				So(acct.Wins, ShouldEqual, 0)
			})

			Convey("And the archive holds the result while votes reset", func() {
				So(mgr.Active(ctx), ShouldBeNil)
				history := mgr.History(ctx)
				So(len(history), ShouldEqual, 1)
				So(history[0].Winner.UserID, ShouldEqual, "A")
				So(mgr.VoteCount(ctx, "A"), ShouldEqual, 0)

				Convey("So a voter may vote again in the next competition", func() {
					_, err := mgr.Start(ctx, "Gala Night", "", "", 7)
					So(err, ShouldBeNil)
					_, err = mgr.SubmitEntry(ctx, "B", "bea", "https://cdn.example/c.jpg", "")
					So(err, ShouldBeNil)
					So(mgr.Vote(ctx, "V1", "B"), ShouldBeNil)
				})
			})
		})
	})
}

func TestEndTieBreak(t *testing.T) {
	Convey("Given a competition where nobody voted", t, func() {
		mgr, ledger, _ := newFixture(t)
		ctx := context.Background()
		_, err := mgr.Start(ctx, "Street Style Showdown", "", "", 7)
		So(err, ShouldBeNil)
		_, err = mgr.SubmitEntry(ctx, "B", "bea", "https://cdn.example/b.jpg", "")
		So(err, ShouldBeNil)
		_, err = mgr.SubmitEntry(ctx, "A", "ada", "https://cdn.example/a.jpg", "")
		So(err, ShouldBeNil)

		Convey("When the competition ends", func() {
			res, err := mgr.End(ctx)
			So(err, ShouldBeNil)

			Convey("Then the first entrant wins the zero-vote tie", func() {
				So(res.Winner, ShouldNotBeNil)
				So(res.Winner.UserID, ShouldEqual, "B")
				So(ledger.User(ctx, "B").Wins, ShouldEqual, 1)
				So(ledger.User(ctx, "A"), ShouldBeNil)
			})
		})
	})
}

func TestEndWithoutEntries(t *testing.T) {
	Convey("Given a competition nobody entered", t, func() {
		mgr, _, _ := newFixture(t)
		ctx := context.Background()
		_, err := mgr.Start(ctx, "Street Style Showdown", "", "", 7)
		So(err, ShouldBeNil)

		Convey("When it ends", func() {
			res, err := mgr.End(ctx)
			So(err, ShouldBeNil)

			Convey("Then there is no winner and the archive records that", func() {
				So(res.Winner, ShouldBeNil)
				history := mgr.History(ctx)
				So(len(history), ShouldEqual, 1)
				So(history[0].Winner, ShouldBeNil)
			})
		})
	})
}

func TestLoadRestoresCompetitionState(t *testing.T) {
	Convey("Given a competition persisted to a shared store", t, func() {
		ctx := context.Background()
		ms := store.NewMemStore()
		ledger := points.NewLedger(ms)
		So(ledger.Load(ctx), ShouldBeNil)

		first := contest.NewManager(ms, ledger)
		So(first.Load(ctx), ShouldBeNil)
		_, err := first.Start(ctx, "Street Style Showdown", "", "", 7)
		So(err, ShouldBeNil)
		_, err = first.SubmitEntry(ctx, "A", "ada", "https://cdn.example/a.jpg", "")
		So(err, ShouldBeNil)
		So(first.Vote(ctx, "V1", "A"), ShouldBeNil)

		Convey("When a fresh manager loads from the same store", func() {
			second := contest.NewManager(ms, ledger)
			So(second.Load(ctx), ShouldBeNil)

			Convey("Then the active competition and vote facts survive", func() {
				active := second.Active(ctx)
				So(active, ShouldNotBeNil)
				So(active.Name, ShouldEqual, "Street Style Showdown")
				So(second.VoteCount(ctx, "A"), ShouldEqual, 1)

				Convey("So the same voter still cannot vote twice", func() {
					So(second.Vote(ctx, "V1", "A"), ShouldWrap, contest.ErrAlreadyVoted)
				})
			})
		})
	})
}
