package advisor_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/runway/internal/adapters/advisor"
)

func TestParseReview(t *testing.T) {
	Convey("Given formatted analysis text", t, func() {
		Convey("When all three criteria are present", func() {
			review := advisor.ParseReview(`## Ratings
Trend Accuracy: 8/10
Creativity: 6.5/10
Overall Fit: 10/10`)

			Convey("Then the numbers are extracted", func() {
				So(review.TrendAccuracy, ShouldEqual, 8.0)
				So(review.Creativity, ShouldEqual, 6.5)
				So(review.Fit, ShouldEqual, 10.0)
			})
		})

		Convey("When a criterion is missing", func() {
			review := advisor.ParseReview("Trend Accuracy: 7/10\nno other scores here")

			Convey("Then the missing ones default to 5.0", func() {
				So(review.TrendAccuracy, ShouldEqual, 7.0)
				So(review.Creativity, ShouldEqual, 5.0)
				So(review.Fit, ShouldEqual, 5.0)
			})
		})

		Convey("When a criterion is out of range", func() {
			review := advisor.ParseReview("Trend Accuracy: 37/10\nCreativity: 0/10\nOverall Fit: 9/10")

			Convey("Then values are clamped to [1,10]", func() {
				So(review.TrendAccuracy, ShouldEqual, 10.0)
				So(review.Creativity, ShouldEqual, 1.0)
				So(review.Fit, ShouldEqual, 9.0)
			})
		})

		Convey("When the text has no scores at all", func() {
			review := advisor.ParseReview("the model returned prose only")

			So(review.TrendAccuracy, ShouldEqual, 5.0)
			So(review.Creativity, ShouldEqual, 5.0)
			So(review.Fit, ShouldEqual, 5.0)
			So(review.AnalysisText, ShouldEqual, "the model returned prose only")
		})
	})
}

func TestStub(t *testing.T) {
	Convey("Given a stub advisor with fast latency", t, func() {
		ctx := context.Background()
		stub := advisor.NewStub(advisor.WithLatencyRange(time.Millisecond, 2*time.Millisecond))

		Convey("When describing a known theme", func() {
			blurb, err := stub.DescribeTrend(ctx, "Y2K Revival")
			So(err, ShouldBeNil)
			So(blurb, ShouldContainSubstring, "low-rise jeans")
		})

		Convey("When describing an unknown theme", func() {
			blurb, err := stub.DescribeTrend(ctx, "Mushroomcore")
			So(err, ShouldBeNil)
			So(blurb, ShouldContainSubstring, "Mushroomcore")
		})

		Convey("When reviewing an outfit", func() {
			review, err := stub.ReviewOutfit(ctx, "https://cdn.example/a.jpg", "Y2K Revival")
			So(err, ShouldBeNil)

			Convey("Then the criteria land inside the [1,10] contract", func() {
				for _, v := range []float64{review.TrendAccuracy, review.Creativity, review.Fit} {
					So(v, ShouldBeGreaterThanOrEqualTo, 1.0)
					So(v, ShouldBeLessThanOrEqualTo, 10.0)
				}
			})

			Convey("And the analysis text parses back to the same numbers", func() {
				reparsed := advisor.ParseReview(review.AnalysisText)
				So(reparsed.TrendAccuracy, ShouldEqual, review.TrendAccuracy)
				So(reparsed.Creativity, ShouldEqual, review.Creativity)
				So(reparsed.Fit, ShouldEqual, review.Fit)
			})
		})

		Convey("When two stubs share a seed", func() {
			a := advisor.NewStub(advisor.WithLatencyRange(time.Millisecond, 2*time.Millisecond), advisor.WithSeed(7))
			b := advisor.NewStub(advisor.WithLatencyRange(time.Millisecond, 2*time.Millisecond), advisor.WithSeed(7))

			ra, err := a.ReviewOutfit(ctx, "https://cdn.example/a.jpg", "Gorpcore")
			So(err, ShouldBeNil)
			rb, err := b.ReviewOutfit(ctx, "https://cdn.example/a.jpg", "Gorpcore")
			So(err, ShouldBeNil)

			Convey("Then their reviews match", func() {
				So(ra, ShouldResemble, rb)
			})
		})

		Convey("When the context is already canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := stub.ReviewOutfit(canceled, "https://cdn.example/a.jpg", "Y2K Revival")
			So(err, ShouldWrap, context.Canceled)
		})
	})
}
