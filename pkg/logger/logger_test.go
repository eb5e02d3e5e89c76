package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When it is initialized", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns it", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with a nil writer", func() {
			Convey("Then an error is returned", func() {
				So(InitWithWriter(nil), ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerFields(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "chart rendered", String("chart", "radar"), Int("vertices", 6), Error(errors.New("boom")))

			Convey("Then the line carries every field and the caller", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "chart rendered")
				So(out, ShouldContainSubstring, "chart=radar")
				So(out, ShouldContainSubstring, "vertices=6")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the context carries a request id", func() {
			Get().Warn(WithRequestID(ctx, "req-42"), "slow upstream")

			Convey("Then the id is logged", func() {
				So(buf.String(), ShouldContainSubstring, "request_id=req-42")
				So(RequestID(WithRequestID(ctx, "req-42")), ShouldEqual, "req-42")
				So(RequestID(ctx), ShouldEqual, "")
			})
		})

		Convey("When the level filters a message out", func() {
			So(SetLevelString("error"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Debug(ctx, "hidden")
			Get().Info(ctx, "hidden too")

			Convey("Then nothing is written", func() {
				So(buf.String(), ShouldBeEmpty)
			})
		})

		Convey("When using a named logger", func() {
			Named("upstream").Error(ctx, "request failed", String("op", "signin"))

			Convey("Then fields are grouped under the name", func() {
				So(buf.String(), ShouldContainSubstring, "upstream.op=signin")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for _, lvl := range []string{"debug", "INFO", "", "warn", "warning", " error "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		So(SetLevelString("info"), ShouldBeNil)
	})
}
