package queue_test

import (
	"context"
	"testing"

	"github.com/mindloop/acumen/internal/adapters/mq/queue"
	"github.com/mindloop/acumen/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with capacity two", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When enqueueing within capacity", func() {
			So(q.Enqueue(ctx, queue.Entry{UserID: "u1"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Entry{UserID: "u2"}), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("And a third enqueue drops instead of blocking", func() {
				So(q.Enqueue(ctx, queue.Entry{UserID: "u3"}), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When dequeuing", func() {
			q.Enqueue(ctx, queue.Entry{UserID: "u1", Record: model.SessionRecord{EventID: "e1"}})
			So(q.Close(), ShouldBeNil)

			Convey("Then queued entries drain in order and the channel closes", func() {
				out := q.Dequeue(ctx)
				e, ok := <-out
				So(ok, ShouldBeTrue)
				So(e.Record.EventID, ShouldEqual, "e1")

				_, ok = <-out
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are refused and a second close is a no-op", func() {
				So(q.Enqueue(ctx, queue.Entry{UserID: "u1"}), ShouldBeFalse)
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
