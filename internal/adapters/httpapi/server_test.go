package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/runway/internal/adapters/httpapi"
	"github.com/okian/runway/internal/domain/model"
)

// fakeDeps serves canned engine reads.
type fakeDeps struct {
	accounts    []model.UserAccount
	trend       *model.Trend
	competition *model.Competition
}

func (f *fakeDeps) Leaderboard(_ context.Context, limit int) []model.UserAccount {
	if limit > 0 && len(f.accounts) > limit {
		return f.accounts[:limit]
	}
	return f.accounts
}

func (f *fakeDeps) ActiveTrend(context.Context) *model.Trend             { return f.trend }
func (f *fakeDeps) ActiveCompetition(context.Context) *model.Competition { return f.competition }
func (f *fakeDeps) UserCount(context.Context) int                        { return len(f.accounts) }

func newTestServer(deps *fakeDeps, opts ...httpapi.Option) *httptest.Server {
	mux := http.NewServeMux()
	httpapi.NewServer(deps, opts...).Register(mux)
	return httptest.NewServer(mux)
}

func TestHealth(t *testing.T) {
	Convey("Given a running API server", t, func() {
		deps := &fakeDeps{accounts: []model.UserAccount{{UserID: "1"}, {UserID: "2"}}}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When requesting /healthz", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it reports ok with the user count", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldEqual, "application/json")

				var body map[string]any
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
				So(body["users"], ShouldEqual, 2.0)
			})
		})

		Convey("When using a non-GET method", func() {
			resp, err := http.Post(ts.URL+"/healthz", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestLeaderboardEndpoint(t *testing.T) {
	Convey("Given accounts behind the API", t, func() {
		deps := &fakeDeps{accounts: []model.UserAccount{
			{UserID: "1", DisplayName: "ada", Points: 80},
			{UserID: "2", DisplayName: "bea", Points: 50},
		}}
		ts := newTestServer(deps, httpapi.WithMaxLeaderboardLimit(10))
		defer ts.Close()

		Convey("When requesting the leaderboard", func() {
			resp, err := http.Get(ts.URL + "/leaderboard")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var ranked []model.UserAccount
			So(json.NewDecoder(resp.Body).Decode(&ranked), ShouldBeNil)
			So(len(ranked), ShouldEqual, 2)
			So(ranked[0].DisplayName, ShouldEqual, "ada")
		})

		Convey("When passing an explicit limit", func() {
			resp, err := http.Get(ts.URL + "/leaderboard?limit=1")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var ranked []model.UserAccount
			So(json.NewDecoder(resp.Body).Decode(&ranked), ShouldBeNil)
			So(len(ranked), ShouldEqual, 1)
		})

		Convey("When the limit is malformed or out of bounds", func() {
			for _, q := range []string{"?limit=abc", "?limit=0", "?limit=-3", "?limit=999"} {
				resp, err := http.Get(ts.URL + "/leaderboard" + q)
				So(err, ShouldBeNil)
				resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			}
		})
	})
}

func TestLifecycleEndpoints(t *testing.T) {
	Convey("Given no active trend or competition", t, func() {
		ts := newTestServer(&fakeDeps{})
		defer ts.Close()

		Convey("When requesting lifecycle status", func() {
			for _, path := range []string{"/trend", "/competition"} {
				resp, err := http.Get(ts.URL + path)
				So(err, ShouldBeNil)
				resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			}
		})
	})

	Convey("Given an active trend and competition", t, func() {
		deps := &fakeDeps{
			trend:       &model.Trend{Name: "Y2K Revival", DurationDays: 7},
			competition: &model.Competition{Name: "Street Style Showdown", Sponsor: "StyleCo"},
		}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When requesting /trend", func() {
			resp, err := http.Get(ts.URL + "/trend")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var trend model.Trend
			So(json.NewDecoder(resp.Body).Decode(&trend), ShouldBeNil)
			So(trend.Name, ShouldEqual, "Y2K Revival")
		})

		Convey("When requesting /competition", func() {
			resp, err := http.Get(ts.URL + "/competition")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var comp model.Competition
			So(json.NewDecoder(resp.Body).Decode(&comp), ShouldBeNil)
			So(comp.Sponsor, ShouldEqual, "StyleCo")
		})
	})
}

func TestMetricsEndpoint(t *testing.T) {
	Convey("Given a running API server", t, func() {
		ts := newTestServer(&fakeDeps{})
		defer ts.Close()

		Convey("When scraping /metrics", func() {
			resp, err := http.Get(ts.URL + "/metrics")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}
