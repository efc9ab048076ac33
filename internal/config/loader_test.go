package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// clearConfigEnvVars removes every FIELDCHECK_ variable a previous test or
// the host environment may have left behind.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FIELDCHECK_CONFIG",
		"FIELDCHECK_LOG_LEVEL",
		"FIELDCHECK_ADDR",
		"FIELDCHECK_SEED_PATH",
		"FIELDCHECK_SUBMIT_REQUIRES_VERIFICATION",
		"FIELDCHECK_INSPECTOR_ID",
		"FIELDCHECK_INSPECTOR_NAME",
		"FIELDCHECK_VERIFIED_NOTE",
	} {
		if err := os.Unsetenv(key); err != nil {
			t.Fatal(err)
		}
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := New()

		So(cfg.LogLevel, ShouldEqual, "info")
		So(cfg.Addr, ShouldEqual, ":9080")
		So(cfg.SeedPath, ShouldEqual, "config/seed.yaml")
		So(cfg.SubmitRequiresVerification, ShouldBeFalse)
		So(cfg.InspectorID, ShouldEqual, "INS-001")
		So(cfg.InspectorName, ShouldEqual, "Demo Inspector")
		So(cfg.VerifiedNote, ShouldBeEmpty)
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a clean environment", t, func() {
		clearConfigEnvVars(t)

		Convey("When loading with nothing set", func() {
			cfg, err := Load(ctx)

			Convey("Then defaults come back", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.LogLevel, ShouldEqual, "info")
			})
		})

		Convey("When environment variables override defaults", func() {
			t.Setenv("FIELDCHECK_ADDR", ":7070")
			t.Setenv("FIELDCHECK_LOG_LEVEL", "debug")
			t.Setenv("FIELDCHECK_SEED_PATH", "")
			t.Setenv("FIELDCHECK_SUBMIT_REQUIRES_VERIFICATION", "true")

			cfg, err := Load(ctx)

			Convey("Then the overrides win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.SeedPath, ShouldBeEmpty)
				So(cfg.SubmitRequiresVerification, ShouldBeTrue)
			})
		})

		Convey("When a YAML file is supplied", func() {
			path := createTempConfigFile(t, "addr: \":6060\"\ninspector_name: Field Reviewer\n")
			t.Setenv("FIELDCHECK_CONFIG", path)

			cfg, err := Load(ctx)

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.InspectorName, ShouldEqual, "Field Reviewer")
				So(cfg.LogLevel, ShouldEqual, "info")
			})
		})

		Convey("When both a file and environment set the same key", func() {
			path := createTempConfigFile(t, "addr: \":6060\"\n")
			t.Setenv("FIELDCHECK_CONFIG", path)
			t.Setenv("FIELDCHECK_ADDR", ":5050")

			cfg, err := Load(ctx)

			Convey("Then the environment takes precedence", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
			})
		})

		Convey("When the file path does not exist", func() {
			t.Setenv("FIELDCHECK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := Load(ctx)

			Convey("Then loading fails with ErrLoadConfig", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, ErrLoadConfig.Error())
			})
		})

		Convey("When the address is blanked out", func() {
			t.Setenv("FIELDCHECK_ADDR", "")

			_, err := Load(ctx)

			Convey("Then validation rejects the config", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, ErrInvalidConfig.Error())
			})
		})

		Convey("When the inspector id is blanked out", func() {
			t.Setenv("FIELDCHECK_INSPECTOR_ID", "")

			_, err := Load(ctx)

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, ErrInvalidConfig.Error())
		})
	})
}
