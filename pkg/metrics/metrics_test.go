package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("charts"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)
			manager.chartRenders.WithLabelValues("radar").Inc()

			Convey("Then metrics are registered under the given names", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				count, err := testutil.GatherAndCount(registry, "test_charts_chart_renders_total")
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 1)
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "profile")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When chart and skill metrics are recorded", func() {
			before := testutil.ToFloat64(globalManager.degenerateGeometry.WithLabelValues("bars", "zero_magnitude"))
			RecordDegenerateGeometry("bars", "zero_magnitude")
			skipped := testutil.ToFloat64(globalManager.skippedSamples)
			RecordSkippedSamples(3)
			RecordSkippedSamples(0)

			Convey("Then counters advance", func() {
				So(testutil.ToFloat64(globalManager.degenerateGeometry.WithLabelValues("bars", "zero_magnitude")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.skippedSamples), ShouldEqual, skipped+3)
			})
		})

		Convey("When cache lookups are recorded", func() {
			hits := testutil.ToFloat64(globalManager.cacheLookups.WithLabelValues("hit"))
			misses := testutil.ToFloat64(globalManager.cacheLookups.WithLabelValues("miss"))
			RecordCacheLookup(true)
			RecordCacheLookup(false)
			RecordCacheLookup(false)

			Convey("Then hits and misses are split", func() {
				So(testutil.ToFloat64(globalManager.cacheLookups.WithLabelValues("hit")), ShouldEqual, hits+1)
				So(testutil.ToFloat64(globalManager.cacheLookups.WithLabelValues("miss")), ShouldEqual, misses+2)
			})
		})

		Convey("When the session gauge is set", func() {
			UpdateActiveSessions(7)

			Convey("Then it reports the value", func() {
				So(testutil.ToFloat64(globalManager.activeSessions), ShouldEqual, 7.0)
			})
		})

		Convey("When HTTP metrics are recorded", func() {
			RecordHTTPRequest("/api/profile", "GET", "200")
			RecordHTTPRequestDuration("/api/profile", "GET", "200", 12.5)
			RecordUpstreamRequest("signin", "ok")
			RecordUpstreamLatency("signin", 40)
			RecordLogin("ok")
			RecordMalformedInput()
			RecordChartRender("radar")
			RecordCacheError("get")
			RecordErrorByType("upstream", "error")
			RecordErrorByEndpoint("/api/profile", "GET", "upstream")
			UpdateSystemMemoryUsage(1024)
			UpdateSystemGoroutineCount(10)
			RecordSystemGCPauseTime(0.3)

			Convey("Then the custom registry exposes them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				joined := strings.Join(names, ",")
				So(joined, ShouldContainSubstring, "profile_dashboard_http_requests_total")
				So(joined, ShouldContainSubstring, "profile_dashboard_upstream_latency_milliseconds")
				So(joined, ShouldContainSubstring, "profile_dashboard_skills_malformed_input_total")
				So(joined, ShouldContainSubstring, "profile_dashboard_system_gc_pause_time_milliseconds")
			})
		})
	})
}
