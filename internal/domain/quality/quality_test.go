package quality_test

import (
	"testing"
	"time"

	"github.com/mindloop/acumen/internal/domain/model"
	"github.com/mindloop/acumen/internal/domain/quality"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEngine_Score(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	v := model.Vector{AE: 70, RA: 60, CT: 60, IN: 40}

	Convey("Given an engine with defaults", t, func() {
		e := quality.New()

		Convey("When the profile has no slow-system history", func() {
			res := e.Score(v, nil, nil, time.Time{}, now)

			Convey("Then consistency sits at the neutral midpoint", func() {
				So(res.S2Core, ShouldEqual, 50)
				So(res.Consistency, ShouldEqual, 50)
				So(res.Priming, ShouldEqual, 0)
				So(res.RQ, ShouldAlmostEqual, 0.5*50+0.3*50, 0.001)
				So(res.State, ShouldEqual, quality.StateActive)
			})
		})

		Convey("When recent slow-system scores are perfectly stable", func() {
			sessions := []model.SessionRecord{
				{Skill: model.SkillCritical, Score: 80},
				{Skill: model.SkillAttention, Score: 5}, // fast-system, ignored
				{Skill: model.SkillInsight, Score: 80},
			}
			res := e.Score(v, sessions, nil, now, now)

			Convey("Then consistency is maximal", func() {
				So(res.Consistency, ShouldEqual, 100)
				So(res.RQ, ShouldAlmostEqual, 0.5*50+0.3*100, 0.001)
			})
		})

		Convey("When slow-system scores spread out", func() {
			sessions := []model.SessionRecord{
				{Skill: model.SkillCritical, Score: 70},
				{Skill: model.SkillInsight, Score: 90},
			}
			res := e.Score(v, sessions, nil, now, now)

			Convey("Then each point of standard deviation costs two", func() {
				So(res.Consistency, ShouldAlmostEqual, 80, 0.001)
			})
		})

		Convey("When priming completions carry different ages", func() {
			priming := []model.PrimingRecord{
				{Kind: model.PrimingArticle, At: now},
				{Kind: model.PrimingBook, At: now.Add(-15 * 24 * time.Hour)},
				{Kind: model.PrimingPodcast, At: now.Add(-40 * 24 * time.Hour)}, // aged out
			}
			res := e.Score(v, nil, priming, now, now)

			Convey("Then contributions decay linearly and expired ones drop", func() {
				So(res.Priming, ShouldAlmostEqual, 6+12*0.5, 0.001)
			})
		})

		Convey("When priming completions pile up", func() {
			var priming []model.PrimingRecord
			for i := 0; i < 12; i++ {
				priming = append(priming, model.PrimingRecord{Kind: model.PrimingBook, At: now})
			}
			res := e.Score(v, nil, priming, now, now)

			Convey("Then the priming term caps at 100", func() {
				So(res.Priming, ShouldEqual, 100)
			})
		})
	})

	Convey("Given an inactive profile past the decay threshold", t, func() {
		e := quality.New()
		sessions := []model.SessionRecord{
			{Skill: model.SkillCritical, Score: 90},
			{Skill: model.SkillInsight, Score: 90},
		}

		Convey("When one week past the threshold", func() {
			res := e.Score(v, sessions, nil, now.Add(-21*24*time.Hour), now)

			Convey("Then the score sheds the weekly decay", func() {
				So(res.State, ShouldEqual, quality.StateDecaying)
				So(res.RQ, ShouldAlmostEqual, (0.5*50+0.3*100)-2, 0.001)
			})
		})

		Convey("When long enough idle to hit the floor", func() {
			res := e.Score(v, sessions, nil, now.Add(-200*24*time.Hour), now)

			Convey("Then decay stops ten points under the slow-system core", func() {
				So(res.State, ShouldEqual, quality.StateDecaying)
				So(res.RQ, ShouldAlmostEqual, res.S2Core-10, 0.001)
			})
		})

		Convey("When activity is recent the state stays active", func() {
			res := e.Score(v, sessions, nil, now.Add(-5*24*time.Hour), now)

			So(res.State, ShouldEqual, quality.StateActive)
			So(res.RQ, ShouldAlmostEqual, 0.5*50+0.3*100, 0.001)
		})
	})

	Convey("Given a shortened consistency window", t, func() {
		e := quality.New(quality.WithConsistencyWindow(2))
		sessions := []model.SessionRecord{
			{Skill: model.SkillCritical, Score: 10},
			{Skill: model.SkillCritical, Score: 80},
			{Skill: model.SkillInsight, Score: 80},
		}

		Convey("Then only the newest scores enter the window", func() {
			res := e.Score(v, sessions, nil, now, now)
			So(res.Consistency, ShouldEqual, 100)
		})
	})
}
