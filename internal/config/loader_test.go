package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mindloop/acumen/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no file and no env overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the defaults apply", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8090")
			So(cfg.DailySkillCapXP, ShouldEqual, 60)
			So(cfg.TierXP["high"], ShouldEqual, 30)
			So(cfg.WeeklyCategoryCaps["study"], ShouldEqual, 100)
			So(cfg.RQInactivityDays, ShouldEqual, 14)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ACUMEN_ADDR", ":9999")
	t.Setenv("ACUMEN_DAILY_SKILL_CAP_XP", "90")

	Convey("Given env overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env wins over defaults and untouched keys keep theirs", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9999")
			So(cfg.DailySkillCapXP, ShouldEqual, 90)
			So(cfg.DetoxTargetMinutes, ShouldEqual, 120)
		})
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\nlog_level: debug\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("ACUMEN_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the file layers over the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.ShardCount, ShouldEqual, 8)
		})
	})
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("ACUMEN_CONFIG", path)
	t.Setenv("ACUMEN_ADDR", ":9999")

	Convey("Given both a file and an env override for the same key", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env wins", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9999")
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("ACUMEN_CONFIG", "/nonexistent/config.yaml")

	Convey("Given a missing config file", t, func() {
		_, err := config.Load(context.Background())
		So(errors.Is(err, config.ErrLoadFile), ShouldBeTrue)
	})
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("ACUMEN_DAILY_SKILL_CAP_XP", "-5")

	Convey("Given an override that fails validation", t, func() {
		_, err := config.Load(context.Background())
		So(errors.Is(err, config.ErrInvalid), ShouldBeTrue)
	})
}

func TestLoadCancelled(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := config.Load(ctx)
		So(err, ShouldNotBeNil)
	})
}
