package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/fairdeal/internal/adapters/worker"
	"github.com/okian/fairdeal/internal/domain/model"
	logging "github.com/okian/fairdeal/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

var errBoom = errors.New("boom")

// mockValuer echoes the inflation rate as the fair AAV and fails on negative
// rates.
type mockValuer struct {
	calls atomic.Int64
	delay time.Duration
}

func (m *mockValuer) Value(in model.ValuationInputs) (model.ValuationResult, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if in.InflationPercent < 0 {
		return model.ValuationResult{}, errBoom
	}
	return model.ValuationResult{FairAAV: in.InflationPercent}, nil
}

func jobs(rates ...float64) []worker.Job {
	out := make([]worker.Job, len(rates))
	for i, r := range rates {
		out[i] = worker.Job{Inputs: model.ValuationInputs{InflationPercent: r}}
	}
	return out
}

func TestPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		_ = logging.Init()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		valuer := &mockValuer{}
		pool := worker.NewPool(4, valuer, worker.WithName("test-pool"), worker.WithBuffer(2))

		convey.Convey("When submitting before Start", func() {
			_, err := pool.Submit(ctx, jobs(1))

			convey.Convey("Then the pool reports closed", func() {
				convey.So(errors.Is(err, worker.ErrPoolClosed), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When started", func() {
			pool.Start(ctx)
			pool.Start(ctx)
			defer func() { _ = pool.Shutdown(context.Background()) }()

			convey.Convey("And a batch is submitted", func() {
				res, err := pool.Submit(ctx, jobs(1, 2, 3, 4, 5, 6, 7, 8, 9, 10))

				convey.Convey("Then results come back in job order", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(len(res), convey.ShouldEqual, 10)
					for i, r := range res {
						convey.So(r.Err, convey.ShouldBeNil)
						convey.So(r.Value.FairAAV, convey.ShouldEqual, float64(i+1))
					}
					convey.So(valuer.calls.Load(), convey.ShouldEqual, 10)
				})
			})

			convey.Convey("And one job fails", func() {
				res, err := pool.Submit(ctx, jobs(1, -1, 3))

				convey.Convey("Then only that result carries the error", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(res[0].Err, convey.ShouldBeNil)
					convey.So(errors.Is(res[1].Err, errBoom), convey.ShouldBeTrue)
					convey.So(res[2].Value.FairAAV, convey.ShouldEqual, 3)
				})
			})

			convey.Convey("And an empty batch is submitted", func() {
				res, err := pool.Submit(ctx, nil)
				convey.So(err, convey.ShouldBeNil)
				convey.So(res, convey.ShouldBeEmpty)
			})

			convey.Convey("And the submitter's context is already done", func() {
				done, stop := context.WithCancel(context.Background())
				stop()
				_, err := pool.Submit(done, jobs(1, 2, 3, 4, 5, 6, 7, 8))

				convey.Convey("Then Submit returns the context error", func() {
					convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
				})
			})

			convey.Convey("And shut down", func() {
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)

				_, err := pool.Submit(ctx, jobs(1))
				convey.So(errors.Is(err, worker.ErrPoolClosed), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When jobs outlast the submit deadline", func() {
			slow := worker.NewPool(1, &mockValuer{delay: 50 * time.Millisecond})
			slow.Start(ctx)
			defer func() { _ = slow.Shutdown(context.Background()) }()

			short, stop := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer stop()
			_, err := slow.Submit(short, jobs(1, 2, 3))

			convey.Convey("Then Submit gives up with the deadline error", func() {
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the context given to Start ends", func() {
			runCtx, stopRun := context.WithCancel(context.Background())
			pool.Start(runCtx)
			stopRun()

			convey.Convey("Then later submissions fail instead of waiting", func() {
				_, err := pool.Submit(context.Background(), jobs(1, 2, 3, 4))
				convey.So(errors.Is(err, worker.ErrPoolClosed), convey.ShouldBeTrue)
			})

			convey.Convey("Then Shutdown returns promptly", func() {
				deadline, stop := context.WithTimeout(context.Background(), time.Second)
				defer stop()
				convey.So(pool.Shutdown(deadline), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the pool stops while a batch is in flight", func() {
			runCtx, stopRun := context.WithCancel(context.Background())
			slow := worker.NewPool(1, &mockValuer{delay: 200 * time.Millisecond})
			slow.Start(runCtx)

			errc := make(chan error, 1)
			go func() {
				_, err := slow.Submit(context.Background(), jobs(1, 2, 3))
				errc <- err
			}()
			time.Sleep(20 * time.Millisecond)
			stopRun()

			convey.Convey("Then the waiting submitter is released", func() {
				select {
				case err := <-errc:
					convey.So(errors.Is(err, worker.ErrPoolClosed), convey.ShouldBeTrue)
				case <-time.After(2 * time.Second):
					convey.So("submit still waiting", convey.ShouldBeEmpty)
				}
				convey.So(slow.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})

		convey.Convey("When created with a non-positive count", func() {
			p := worker.NewPool(0, valuer)
			convey.So(p.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
