package points_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/runway/internal/engine/points"
	"github.com/okian/runway/internal/store"
)

func TestAddPoints(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		ctx := context.Background()
		ms := store.NewMemStore()
		ledger := points.NewLedger(ms)
		So(ledger.Load(ctx), ShouldBeNil)

		Convey("When crediting a user for the first time", func() {
			acct, err := ledger.AddPoints(ctx, "42", 80, "ada")
			So(err, ShouldBeNil)

			Convey("Then the account is created lazily with the award applied", func() {
				So(acct.UserID, ShouldEqual, "42")
				So(acct.DisplayName, ShouldEqual, "ada")
				So(acct.Points, ShouldEqual, 80)
				So(acct.Participations, ShouldEqual, 1)
				So(acct.Wins, ShouldEqual, 0)
			})

			Convey("And crediting again increments participations each call", func() {
				acct, err := ledger.AddPoints(ctx, "42", 10, "ada")
				So(err, ShouldBeNil)
				So(acct.Points, ShouldEqual, 90)
				So(acct.Participations, ShouldEqual, 2)
			})
		})

		Convey("When no display name is supplied", func() {
			acct, err := ledger.AddPoints(ctx, "7", 5, "")
			So(err, ShouldBeNil)

			Convey("Then a placeholder name is synthesized", func() {
				So(acct.DisplayName, ShouldEqual, "User7")
			})
		})

		Convey("When the snapshot save fails", func() {
			_, err := ledger.AddPoints(ctx, "42", 80, "ada")
			So(err, ShouldBeNil)

			ms.FailNextSave()
			_, err = ledger.AddPoints(ctx, "42", 100, "ada")

			Convey("Then the error surfaces and the mutation is discarded", func() {
				So(err, ShouldWrap, store.ErrIO)
				acct := ledger.User(ctx, "42")
				So(acct.Points, ShouldEqual, 80)
				So(acct.Participations, ShouldEqual, 1)
			})
		})
	})
}

func TestApplyWin(t *testing.T) {
	Convey("Given a ledger with an existing account", t, func() {
		ctx := context.Background()
		ledger := points.NewLedger(store.NewMemStore())
		So(ledger.Load(ctx), ShouldBeNil)
		_, err := ledger.AddPoints(ctx, "42", 30, "ada")
		So(err, ShouldBeNil)

		Convey("When applying a win", func() {
			acct, err := ledger.ApplyWin(ctx, "42", "ada")
			So(err, ShouldBeNil)

			Convey("Then the bonus and win land without a participation", func() {
				So(acct.Points, ShouldEqual, 30+points.WinBonus)
				So(acct.Wins, ShouldEqual, 1)
				So(acct.Participations, ShouldEqual, 1)
			})
		})
	})
}

func TestLeaderboard(t *testing.T) {
	Convey("Given a ledger with several accounts", t, func() {
		ctx := context.Background()
		ledger := points.NewLedger(store.NewMemStore())
		So(ledger.Load(ctx), ShouldBeNil)

		mustAdd := func(id string, pts int, name string) {
			_, err := ledger.AddPoints(ctx, id, pts, name)
			So(err, ShouldBeNil)
		}
		mustAdd("1", 50, "ada")
		mustAdd("2", 80, "bea")
		mustAdd("3", 50, "cleo")
		mustAdd("4", 20, "didi")

		Convey("When ranking", func() {
			ranked := ledger.Leaderboard(ctx, 10)

			Convey("Then points are non-increasing", func() {
				So(len(ranked), ShouldEqual, 4)
				for i := 1; i < len(ranked); i++ {
					So(ranked[i].Points, ShouldBeLessThanOrEqualTo, ranked[i-1].Points)
				}
			})

			Convey("And ties keep account creation order", func() {
				So(ranked[0].UserID, ShouldEqual, "2")
				So(ranked[1].UserID, ShouldEqual, "1")
				So(ranked[2].UserID, ShouldEqual, "3")
			})
		})

		Convey("When a limit is given", func() {
			ranked := ledger.Leaderboard(ctx, 2)
			So(len(ranked), ShouldEqual, 2)
			So(ranked[0].UserID, ShouldEqual, "2")
		})

		Convey("When renaming an account", func() {
			So(ledger.Rename(ctx, "1", "ada lovelace"), ShouldBeNil)
			So(ledger.User(ctx, "1").DisplayName, ShouldEqual, "ada lovelace")

			Convey("And renaming an unknown user is a no-op", func() {
				So(ledger.Rename(ctx, "999", "ghost"), ShouldBeNil)
				So(ledger.User(ctx, "999"), ShouldBeNil)
			})
		})
	})
}

func TestLoadRestoresState(t *testing.T) {
	Convey("Given a ledger persisted to a shared store", t, func() {
		ctx := context.Background()
		ms := store.NewMemStore()

		first := points.NewLedger(ms)
		So(first.Load(ctx), ShouldBeNil)
		_, err := first.AddPoints(ctx, "42", 80, "ada")
		So(err, ShouldBeNil)

		Convey("When a fresh ledger loads from the same store", func() {
			second := points.NewLedger(ms)
			So(second.Load(ctx), ShouldBeNil)

			Convey("Then the account is restored", func() {
				acct := second.User(ctx, "42")
				So(acct, ShouldNotBeNil)
				So(acct.Points, ShouldEqual, 80)
			})
		})
	})
}
