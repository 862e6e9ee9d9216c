package recovery_test

import (
	"testing"
	"time"

	"github.com/mindloop/acumen/internal/domain/model"
	"github.com/mindloop/acumen/internal/domain/recovery"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculator_Score(t *testing.T) {
	Convey("Given a calculator with a 120 minute detox target", t, func() {
		c := recovery.New(recovery.WithDetoxTarget(120))

		Convey("When detox is 60 and walk is 40", func() {
			Convey("Then walk minutes count at half weight", func() {
				So(c.Score(60, 40), ShouldAlmostEqual, 66.6667, 0.001)
			})
		})

		Convey("When the target is exactly met", func() {
			So(c.Score(120, 0), ShouldEqual, 100)
			So(c.Score(0, 240), ShouldEqual, 100)
		})

		Convey("When input exceeds the target", func() {
			Convey("Then the score saturates at 100", func() {
				So(c.Score(300, 100), ShouldEqual, 100)
			})
		})

		Convey("When there is no recovery activity", func() {
			So(c.Score(0, 0), ShouldEqual, 0)
		})

		Convey("When inputs are negative they count as zero", func() {
			So(c.Score(-30, -10), ShouldEqual, 0)
		})
	})
}

func TestCalculator_WeeklyMinutes(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	Convey("Given a recovery log spanning more than a week", t, func() {
		c := recovery.New()
		entries := []model.RecoveryEntry{
			{Kind: model.RecoveryDetox, Minutes: 30, At: now.Add(-2 * time.Hour)},
			{Kind: model.RecoveryWalk, Minutes: 20, At: now.Add(-3 * 24 * time.Hour)},
			{Kind: model.RecoveryDetox, Minutes: 45, At: now.Add(-6 * 24 * time.Hour)},
			{Kind: model.RecoveryDetox, Minutes: 90, At: now.Add(-8 * 24 * time.Hour)}, // outside window
			{Kind: model.RecoveryWalk, Minutes: 15, At: now.Add(time.Hour)},            // future
		}

		Convey("When summing the rolling window", func() {
			detox, walk := c.WeeklyMinutes(entries, now)

			Convey("Then only in-window entries count", func() {
				So(detox, ShouldEqual, 75)
				So(walk, ShouldEqual, 20)
			})
		})

		Convey("When scoring straight from the log", func() {
			So(c.FromLog(entries, now), ShouldAlmostEqual, (75+0.5*20)/120*100, 0.001)
		})

		Convey("When the window advances past every entry", func() {
			detox, walk := c.WeeklyMinutes(entries, now.Add(14*24*time.Hour))

			Convey("Then the signal drops back to zero", func() {
				So(detox, ShouldEqual, 0)
				So(walk, ShouldEqual, 0)
			})
		})
	})
}
