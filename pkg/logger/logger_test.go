package logger

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitAndGet(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then the global accessor returns it", func() {
			So(Get(), ShouldNotBeNil)
		})

		Convey("Then named loggers derive from it", func() {
			l := Named("service")
			So(l, ShouldNotBeNil)
			l.Info(context.Background(), "named logger works", String("k", "v"))
		})

		Convey("Then logging with every field kind does not panic", func() {
			ctx := context.Background()
			l := Get()
			l.Info(ctx, "info",
				String("s", "v"),
				Int("i", 1),
				Bool("b", true),
				Float64("f", 1.5),
				Duration("d", 0),
				Any("a", struct{ X int }{X: 1}),
				Error(errors.New("boom")))
			l.Debug(ctx, "debug")
			l.Warn(ctx, "warn")
			l.Error(ctx, "error")
		})

		Convey("Then Sync flushes without error on stderr sinks", func() {
			// Sync on stderr can return EINVAL on some platforms; only the
			// call path matters here.
			_ = Sync()
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("When setting recognized levels", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", "DEBUG", " info ", ""} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("When setting an unknown level", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})

		Convey("When setting a level directly", func() {
			SetLevel(zapcore.WarnLevel)
			So(levelVar.Level(), ShouldEqual, zapcore.WarnLevel)
			SetLevel(zapcore.InfoLevel)
		})
	})
}

func TestConvertFields(t *testing.T) {
	Convey("Given mixed fields", t, func() {
		err := errors.New("boom")
		out := convertFields([]Field{String("s", "v"), Error(err)})

		So(out, ShouldHaveLength, 2)
		So(out[0], ShouldResemble, zap.Any("s", "v"))
		So(out[1], ShouldResemble, zap.Error(err))
	})
}
