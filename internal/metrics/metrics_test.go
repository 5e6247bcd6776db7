package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func scrape(r *Recorder) string {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestRecorderCreation(t *testing.T) {
	Convey("Given recorder options", t, func() {
		Convey("When creating with defaults", func() {
			r := New()

			Convey("Then the Go runtime collector is registered too", func() {
				So(scrape(r), ShouldContainSubstring, "go_goroutines")
			})
		})

		Convey("When creating with a custom registry and namespace", func() {
			registry := prometheus.NewRegistry()
			r := New(WithRegistry(registry), WithNamespace("custom"), WithHistogramBuckets([]float64{1, 2}))
			r.ObserveRun(time.Second, nil)

			Convey("Then metrics use the namespace and the registry is shared", func() {
				So(r.Registry(), ShouldEqual, registry)
				body := scrape(r)
				So(body, ShouldContainSubstring, `custom_runs_total{status="ok"} 1`)
				So(body, ShouldContainSubstring, `custom_run_duration_seconds_bucket{le="2"} 1`)
				So(body, ShouldNotContainSubstring, "go_goroutines")
			})
		})
	})
}

func TestRecorderRecording(t *testing.T) {
	Convey("Given a recorder", t, func() {
		r := New()

		Convey("When runs succeed and fail", func() {
			r.ObserveRun(10*time.Millisecond, nil)
			r.ObserveRun(20*time.Millisecond, errors.New("boom"))

			Convey("Then both outcomes are counted", func() {
				body := scrape(r)
				So(body, ShouldContainSubstring, `hours_report_runs_total{status="ok"} 1`)
				So(body, ShouldContainSubstring, `hours_report_runs_total{status="error"} 1`)
				So(body, ShouldContainSubstring, "hours_report_run_duration_seconds_count 2")
			})
		})

		Convey("When files are loaded", func() {
			r.FileLoaded(true, "")
			r.FileLoaded(false, "size")
			r.FileLoaded(false, "")

			Convey("Then sources and miss reasons are counted", func() {
				body := scrape(r)
				So(body, ShouldContainSubstring, `hours_report_files_loaded_total{source="cache"} 1`)
				So(body, ShouldContainSubstring, `hours_report_files_loaded_total{source="parse"} 2`)
				So(body, ShouldContainSubstring, `hours_report_cache_misses_total{reason="size"} 1`)
			})
		})

		Convey("When totals are replaced", func() {
			r.SetTotals(3, 7.5, []string{"coaching", "lecture"}, []float64{5, 2.5})
			r.SetTotals(1, 2, []string{"lecture"}, []float64{2})

			Convey("Then stale categories disappear", func() {
				body := scrape(r)
				So(body, ShouldContainSubstring, "hours_report_records 1")
				So(body, ShouldContainSubstring, "hours_report_hours_total 2")
				So(body, ShouldContainSubstring, `hours_report_category_hours{category="lecture"} 2`)
				So(body, ShouldNotContainSubstring, `category="coaching"`)
			})
		})
	})
}

func TestNilRecorder(t *testing.T) {
	Convey("Given a nil recorder", t, func() {
		var r *Recorder

		Convey("Then recording is a no-op", func() {
			So(func() {
				r.ObserveRun(time.Second, nil)
				r.FileLoaded(false, "size")
				r.SetTotals(1, 1, []string{"a"}, []float64{1})
			}, ShouldNotPanic)
		})
	})
}
