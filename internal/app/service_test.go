package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mindloop/acumen/internal/app"
	"github.com/mindloop/acumen/internal/domain/model"
	"github.com/mindloop/acumen/internal/domain/quality"
	"github.com/mindloop/acumen/internal/domain/routing"
	"github.com/mindloop/acumen/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

var fixedNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func newStartedService(t *testing.T, opts ...app.Option) *app.Service {
	t.Helper()
	opts = append([]app.Option{app.WithClock(func() time.Time { return fixedNow })}, opts...)
	svc := app.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func event(id, user, drill string, score float64) model.TrainingEvent {
	return model.TrainingEvent{
		EventID:    id,
		UserID:     user,
		Drill:      drill,
		Score:      score,
		OccurredAt: fixedNow,
	}
}

func baseline() model.Baseline {
	return model.Baseline{AE: 70, RA: 60, CT: 50, IN: 40, CognitiveAge: 40}
}

func TestService_RecordTrainingEvent(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := newStartedService(t)

		Convey("When a high tier event lands with a perfect score", func() {
			receipt, err := svc.RecordTrainingEvent(ctx, event("e1", "user-1", "n-back", 100))

			Convey("Then the full request is granted and routed to attention", func() {
				So(err, ShouldBeNil)
				So(receipt.Skill, ShouldEqual, model.SkillAttention)
				So(receipt.Category, ShouldEqual, "focus")
				So(receipt.RequestedXP, ShouldEqual, 30)
				So(receipt.GrantedXP, ShouldEqual, 30)
				So(receipt.Capped, ShouldBeFalse)
				So(receipt.Duplicate, ShouldBeFalse)
			})

			Convey("And the skill vector moves by the converted delta", func() {
				v, err := svc.GetSkillVector(ctx, "user-1")
				So(err, ShouldBeNil)
				So(v.AE, ShouldAlmostEqual, 3, 0.001)
				So(v.RA, ShouldEqual, 0)
			})
		})

		Convey("When the same event id is delivered twice", func() {
			_, err := svc.RecordTrainingEvent(ctx, event("e1", "user-1", "n-back", 100))
			So(err, ShouldBeNil)
			before, _ := svc.GetSkillVector(ctx, "user-1")

			receipt, err := svc.RecordTrainingEvent(ctx, event("e1", "user-1", "n-back", 100))

			Convey("Then the replay acks as a duplicate with no state change", func() {
				So(err, ShouldBeNil)
				So(receipt.Duplicate, ShouldBeTrue)

				after, _ := svc.GetSkillVector(ctx, "user-1")
				So(after, ShouldResemble, before)
			})

			Convey("And the duplicate receipt echoes the original grant", func() {
				So(receipt.RequestedXP, ShouldEqual, 30)
				So(receipt.GrantedXP, ShouldEqual, 30)
				So(receipt.Capped, ShouldBeFalse)
			})
		})

		Convey("When the daily skill cap saturates", func() {
			_, err := svc.RecordTrainingEvent(ctx, event("e1", "user-1", "n-back", 100))
			So(err, ShouldBeNil)
			_, err = svc.RecordTrainingEvent(ctx, event("e2", "user-1", "n-back", 100))
			So(err, ShouldBeNil)

			receipt, err := svc.RecordTrainingEvent(ctx, event("e3", "user-1", "n-back", 100))

			Convey("Then the third event succeeds with zero granted XP", func() {
				So(err, ShouldBeNil)
				So(receipt.RequestedXP, ShouldEqual, 30)
				So(receipt.GrantedXP, ShouldEqual, 0)
				So(receipt.Capped, ShouldBeTrue)
			})

			Convey("And the vector reflects only the granted amounts", func() {
				v, err := svc.GetSkillVector(ctx, "user-1")
				So(err, ShouldBeNil)
				So(v.AE, ShouldAlmostEqual, 6, 0.001)
			})
		})

		Convey("When the drill is not in the catalog", func() {
			_, err := svc.RecordTrainingEvent(ctx, event("e1", "user-1", "mystery-drill", 80))

			Convey("Then the event is rejected, never defaulted", func() {
				So(errors.Is(err, routing.ErrUnknownRoute), ShouldBeTrue)
			})

			Convey("And no profile state was created", func() {
				_, err := svc.GetSkillVector(ctx, "user-1")
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the payload is malformed", func() {
			_, err := svc.RecordTrainingEvent(ctx, event("e1", "user-1", "n-back", 150))
			So(errors.Is(err, app.ErrInvalidEvent), ShouldBeTrue)

			_, err = svc.RecordTrainingEvent(ctx, event("", "user-1", "n-back", 80))
			So(errors.Is(err, app.ErrInvalidEvent), ShouldBeTrue)
		})

		Convey("When a priming task completes", func() {
			_, err := svc.RecordTrainingEvent(ctx, event("e1", "user-1", "podcast", 90))
			So(err, ShouldBeNil)
			So(svc.CompleteCalibration(ctx, "user-1", baseline()), ShouldBeNil)

			Convey("Then the priming contribution shows up in reasoning quality", func() {
				scores, err := svc.GetCompositeScores(ctx, "user-1", nil)
				So(err, ShouldBeNil)
				So(scores.RQState, ShouldEqual, quality.StateActive)
				So(scores.RQ, ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := app.New()

		Convey("Then every operation refuses with the not-started sentinel", func() {
			_, err := svc.RecordTrainingEvent(ctx, event("e1", "user-1", "n-back", 80))
			So(errors.Is(err, app.ErrNotStarted), ShouldBeTrue)

			_, err = svc.GetCompositeScores(ctx, "user-1", nil)
			So(errors.Is(err, app.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Calibration(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := newStartedService(t)

		Convey("When a user calibrates", func() {
			So(svc.CompleteCalibration(ctx, "user-1", baseline()), ShouldBeNil)

			Convey("Then the skill vector is seeded from the baseline", func() {
				v, err := svc.GetSkillVector(ctx, "user-1")
				So(err, ShouldBeNil)
				So(v, ShouldResemble, model.Vector{AE: 70, RA: 60, CT: 50, IN: 40})
			})

			Convey("And a second calibration is refused", func() {
				err := svc.CompleteCalibration(ctx, "user-1", baseline())
				So(errors.Is(err, app.ErrAlreadyCalibrated), ShouldBeTrue)
			})
		})

		Convey("When the baseline is out of range", func() {
			err := svc.CompleteCalibration(ctx, "user-1", model.Baseline{AE: 120, RA: 50, CT: 50, IN: 50, CognitiveAge: 40})
			So(errors.Is(err, app.ErrInvalidBaseline), ShouldBeTrue)
		})
	})
}

func TestService_CompositeScores(t *testing.T) {
	ctx := context.Background()

	Convey("Given a calibrated user with no activity", t, func() {
		svc := newStartedService(t)
		So(svc.CompleteCalibration(ctx, "user-1", baseline()), ShouldBeNil)

		Convey("When reading composite scores", func() {
			scores, err := svc.GetCompositeScores(ctx, "user-1", nil)
			So(err, ShouldBeNil)

			Convey("Then the sub-composites follow the vector", func() {
				So(scores.S1, ShouldEqual, 65)
				So(scores.S2, ShouldEqual, 45)
				So(scores.PerformanceAvg, ShouldAlmostEqual, 53, 0.001)
				So(scores.CognitiveAge, ShouldAlmostEqual, 40, 0.001)
			})

			Convey("And zero recovery pins sharpness to its floor", func() {
				So(scores.REC, ShouldEqual, 0)
				So(scores.Sharpness, ShouldAlmostEqual, 0.75*62.5, 0.001)
				So(scores.Readiness, ShouldAlmostEqual, 0.35*45+0.30*70, 0.001)
			})
		})

		Convey("When a physiological score accompanies the read", func() {
			without, err := svc.GetCompositeScores(ctx, "user-1", nil)
			So(err, ShouldBeNil)
			physio := 90.0
			with, err := svc.GetCompositeScores(ctx, "user-1", &physio)
			So(err, ShouldBeNil)

			Convey("Then only readiness re-blends with it", func() {
				So(with.Readiness, ShouldAlmostEqual, 0.6*without.Readiness+0.4*90, 0.001)
				So(with.Sharpness, ShouldAlmostEqual, without.Sharpness, 0.001)
			})
		})

		Convey("When computing twice from unchanged state", func() {
			first, err := svc.GetCompositeScores(ctx, "user-1", nil)
			So(err, ShouldBeNil)
			second, err := svc.GetCompositeScores(ctx, "user-1", nil)
			So(err, ShouldBeNil)

			Convey("Then the full score set is bit-for-bit identical", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When recovery minutes accrue", func() {
			So(svc.RecordRecoveryActivity(ctx, model.RecoveryActivity{
				UserID: "user-1", Kind: model.RecoveryDetox, Minutes: 60, OccurredAt: fixedNow.Add(-time.Hour),
			}), ShouldBeNil)
			So(svc.RecordRecoveryActivity(ctx, model.RecoveryActivity{
				UserID: "user-1", Kind: model.RecoveryWalk, Minutes: 40, OccurredAt: fixedNow.Add(-time.Hour),
			}), ShouldBeNil)

			scores, err := svc.GetCompositeScores(ctx, "user-1", nil)
			So(err, ShouldBeNil)

			Convey("Then REC reflects the weighted weekly minutes", func() {
				So(scores.REC, ShouldAlmostEqual, 66.6667, 0.001)
			})
		})
	})

	Convey("Given an uncalibrated user with activity", t, func() {
		svc := newStartedService(t)
		_, err := svc.RecordTrainingEvent(ctx, event("e1", "user-1", "n-back", 80))
		So(err, ShouldBeNil)

		Convey("Then composite reads refuse until calibration", func() {
			_, err := svc.GetCompositeScores(ctx, "user-1", nil)
			So(errors.Is(err, app.ErrNotCalibrated), ShouldBeTrue)
		})
	})

	Convey("Given an unknown user", t, func() {
		svc := newStartedService(t)

		Convey("Then composite reads report not found", func() {
			_, err := svc.GetCompositeScores(ctx, "ghost", nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestService_RecoveryValidation(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := newStartedService(t)

		Convey("Then malformed recovery activities are refused", func() {
			err := svc.RecordRecoveryActivity(ctx, model.RecoveryActivity{UserID: "user-1", Kind: "nap", Minutes: 30})
			So(errors.Is(err, app.ErrInvalidRecovery), ShouldBeTrue)

			err = svc.RecordRecoveryActivity(ctx, model.RecoveryActivity{UserID: "user-1", Kind: model.RecoveryDetox, Minutes: 0})
			So(errors.Is(err, app.ErrInvalidRecovery), ShouldBeTrue)
		})
	})
}

func TestService_WeeklyProgress(t *testing.T) {
	ctx := context.Background()

	Convey("Given a user training past the daily cap", t, func() {
		svc := newStartedService(t)
		for _, id := range []string{"e1", "e2", "e3"} {
			_, err := svc.RecordTrainingEvent(ctx, event(id, "user-1", "n-back", 100))
			So(err, ShouldBeNil)
		}

		Convey("When reading the weekly report", func() {
			w, err := svc.GetWeeklyProgress(ctx, "user-1")
			So(err, ShouldBeNil)

			Convey("Then the raw load counts every requested point", func() {
				So(w.RawByCategory["focus"], ShouldEqual, 90)
			})

			Convey("And the capped view counts only XP that reached the vector", func() {
				So(w.CappedByCategory["focus"], ShouldEqual, 60)
				So(w.CappedTotal, ShouldEqual, 60)
			})
		})
	})
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with one profile", t, func() {
		svc := newStartedService(t)
		_, err := svc.RecordTrainingEvent(ctx, event("e1", "user-1", "n-back", 100))
		So(err, ShouldBeNil)

		Convey("Then stats report the live counts", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["profiles"], ShouldEqual, 1)
			So(stats["dedupeSize"], ShouldEqual, int64(1))
		})
	})
}
