package app_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/mindloop/acumen/internal/adapters/mq/queue"
	"github.com/mindloop/acumen/internal/app"
	"github.com/mindloop/acumen/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestJournal(t *testing.T) {
	ctx := context.Background()

	Convey("Given a journal keeping three entries", t, func() {
		j := app.NewJournal(3)

		Convey("When appending applied and capped events", func() {
			j.Append(ctx, queue.Entry{UserID: "u1", Record: model.SessionRecord{RequestedXP: 30, GrantedXP: 30}})
			j.Append(ctx, queue.Entry{UserID: "u1", Record: model.SessionRecord{RequestedXP: 30, GrantedXP: 10}})

			Convey("Then the totals separate capped from full grants", func() {
				total, capped, granted := j.Totals()
				So(total, ShouldEqual, 2)
				So(capped, ShouldEqual, 1)
				So(granted, ShouldEqual, 40)
			})
		})

		Convey("When more entries than the window arrive", func() {
			for i := 0; i < 5; i++ {
				j.Append(ctx, queue.Entry{Record: model.SessionRecord{EventID: fmt.Sprintf("e%d", i)}})
			}

			Convey("Then the window holds only the newest entries but totals keep counting", func() {
				So(j.RecentCount(), ShouldEqual, 3)
				total, _, _ := j.Totals()
				So(total, ShouldEqual, 5)
			})
		})
	})
}
