package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/runway/internal/domain/model"
	"github.com/okian/runway/internal/store"
)

func TestFileStoreRoundTrip(t *testing.T) {
	Convey("Given a file store in a fresh directory", t, func() {
		dir := t.TempDir()
		fs, err := store.NewFileStore(dir)
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When loading an aggregate that was never saved", func() {
			state := model.NewTrendState()
			err := fs.Load(ctx, store.AggregateTrends, state)

			Convey("Then it reports ErrNotFound", func() {
				So(err, ShouldWrap, store.ErrNotFound)
			})
		})

		Convey("When saving and reloading a trends snapshot", func() {
			state := model.NewTrendState()
			state.Active = &model.Trend{
				Name:         "Y2K Revival",
				Description:  "low-rise jeans and butterflies",
				StartTime:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
				DurationDays: 7,
				Participants: []string{"42"},
			}
			state.Submissions["42"] = []model.Submission{{
				ID:        "sub-1",
				UserID:    "42",
				ImageRef:  "https://cdn.example/a.jpg",
				CreatedAt: time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
				Rating:    &model.Rating{TrendAccuracy: 8, Creativity: 6, Fit: 10, Average: 8, Points: 80},
			}}

			So(fs.Save(ctx, store.AggregateTrends, state), ShouldBeNil)

			loaded := model.NewTrendState()
			So(fs.Load(ctx, store.AggregateTrends, loaded), ShouldBeNil)

			Convey("Then the snapshot round-trips identically", func() {
				So(loaded, ShouldResemble, state)
			})
		})

		Convey("When saving over an existing snapshot", func() {
			book := model.NewAccountBook()
			book.Users["1"] = &model.UserAccount{UserID: "1", DisplayName: "ada", Points: 80}
			book.Order = []string{"1"}
			So(fs.Save(ctx, store.AggregateAccounts, book), ShouldBeNil)

			book.Users["1"].Points = 90
			So(fs.Save(ctx, store.AggregateAccounts, book), ShouldBeNil)

			loaded := model.NewAccountBook()
			So(fs.Load(ctx, store.AggregateAccounts, loaded), ShouldBeNil)

			Convey("Then the document holds the replacement, not a merge", func() {
				So(loaded.Users["1"].Points, ShouldEqual, 90)
			})

			Convey("And no temp files are left behind", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				for _, e := range entries {
					So(filepath.Ext(e.Name()), ShouldEqual, ".json")
				}
			})
		})

		Convey("When a value cannot be encoded", func() {
			err := fs.Save(ctx, store.AggregateAccounts, make(chan int))

			Convey("Then it reports ErrIO and keeps the old document", func() {
				So(err, ShouldWrap, store.ErrIO)
			})
		})
	})
}

func TestMemStoreFailureInjection(t *testing.T) {
	Convey("Given a memory store", t, func() {
		ms := store.NewMemStore()
		ctx := context.Background()

		book := model.NewAccountBook()
		book.Users["1"] = &model.UserAccount{UserID: "1", Points: 10}
		book.Order = []string{"1"}
		So(ms.Save(ctx, store.AggregateAccounts, book), ShouldBeNil)

		Convey("When the next save is made to fail", func() {
			ms.FailNextSave()
			book.Users["1"].Points = 999
			err := ms.Save(ctx, store.AggregateAccounts, book)

			Convey("Then the save errors and the prior document survives", func() {
				So(err, ShouldWrap, store.ErrIO)

				loaded := model.NewAccountBook()
				So(ms.Load(ctx, store.AggregateAccounts, loaded), ShouldBeNil)
				So(loaded.Users["1"].Points, ShouldEqual, 10)
			})
		})
	})
}
