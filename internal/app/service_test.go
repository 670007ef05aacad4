package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/fairdeal/internal/adapters/repository"
	workerpool "github.com/okian/fairdeal/internal/adapters/worker"
	service "github.com/okian/fairdeal/internal/app"
	"github.com/okian/fairdeal/internal/domain/model"
	"github.com/okian/fairdeal/internal/domain/types"
	"github.com/okian/fairdeal/internal/domain/valuation"
	"github.com/okian/fairdeal/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var stats = map[string]float64{"war": 5, "wrc_plus": 120, "ops": 0.85, "hr": 25, "def": 3, "bsr": 1}

func newStore() *repository.MemoryStore {
	st, err := repository.NewMemoryStore(repository.WithDataset(repository.Dataset{
		Players: []model.Player{
			{ID: "p-ss", Name: "Short Stop", Position: "SS", Performance: model.PerformanceRecord{Stats: stats, Age: 29}},
			{ID: "p-lf", Name: "Left Field", Position: "LF", Performance: model.PerformanceRecord{Stats: stats, Age: 29}},
		},
		Contracts: []model.ReferenceContract{
			{ID: "c-ss-1", Position: "SS", SignedYear: 2022, AnnualValue: 27, ContractYears: 6, AgeAtSigning: 29, Performance: model.PerformanceRecord{Stats: stats}},
			{ID: "c-ss-2", Position: "SS", SignedYear: 2025, AnnualValue: 50, ContractYears: 10, AgeAtSigning: 29, Performance: model.PerformanceRecord{Stats: stats}},
			{ID: "c-cf-1", Position: "CF", SignedYear: 2025, AnnualValue: 20, ContractYears: 4, AgeAtSigning: 29, Performance: model.PerformanceRecord{Stats: stats}},
		},
	}))
	if err != nil {
		panic(err)
	}
	return st
}

func newService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithStore(newStore()),
		service.WithWorkerCount(2),
		service.WithMaxBatchSize(3),
		service.WithDefaults(service.Defaults{InflationPercent: 4, AdjustAAV: true, AdjustYears: true, PresentYear: 2025}),
	}
	return service.New(append(base, opts...)...)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should expose the default registry", func() {
			So(svc, ShouldNotBeNil)
			So(len(svc.Categories()), ShouldEqual, valuation.New().Registry().Len())
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := newService()
		defer svc.Stop()

		Convey("When batch valuing before Start", func() {
			_, err := svc.ValueBatch(context.Background(), []types.ValuationRequest{{SubjectID: "p-ss"}})

			Convey("Then it reports not started", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["players"], ShouldEqual, 2)
				So(stats["contracts"], ShouldEqual, 3)
				So(stats["presentYear"], ShouldEqual, 2025)
			})

			Convey("And when stopped", func() {
				svc.Stop()
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When the start context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			So(svc.Start(ctx), ShouldBeNil)
			cancel()

			Convey("Then batches fail fast and Stop returns", func() {
				_, err := svc.ValueBatch(context.Background(), []types.ValuationRequest{{SubjectID: "p-ss"}, {SubjectID: "p-ss"}})
				So(errors.Is(err, workerpool.ErrPoolClosed), ShouldBeTrue)

				stopped := make(chan struct{})
				go func() {
					svc.Stop()
					close(stopped)
				}()
				select {
				case <-stopped:
				case <-time.After(2 * time.Second):
					So("Stop still waiting", ShouldBeEmpty)
				}
			})
		})
	})
}

func TestService_Value(t *testing.T) {
	Convey("Given a service over a small reference set", t, func() {
		ctx := context.Background()
		svc := newService()

		Convey("When valuing a stored subject against one chosen comparable", func() {
			v, err := svc.Value(ctx, types.ValuationRequest{SubjectID: "p-ss", CohortIDs: []string{"c-ss-1"}})

			Convey("Then the baseline is inflated and length unchanged", func() {
				So(err, ShouldBeNil)
				So(v.ID, ShouldNotBeEmpty)
				So(v.Position, ShouldEqual, "SS")
				So(v.WeightSource, ShouldEqual, service.WeightsFromProfile)
				So(v.Result.CohortSize, ShouldEqual, 1)
				So(v.Result.BaselineAAV, ShouldAlmostEqual, 30.371328, 1e-6)
				So(v.Result.FairAAV, ShouldAlmostEqual, 30.371328, 1e-6)
				So(v.Result.FairYears, ShouldEqual, 6.0)
			})
		})

		Convey("When the requested inflation overflows the baseline", func() {
			huge := 1e120
			_, err := svc.Value(ctx, types.ValuationRequest{SubjectID: "p-ss", CohortIDs: []string{"c-ss-1"}, InflationPercent: &huge})

			Convey("Then the request is rejected instead of returning Inf", func() {
				So(errors.Is(err, valuation.ErrOutOfRange), ShouldBeTrue)
			})
		})

		Convey("When no cohort ids are given", func() {
			v, err := svc.Value(ctx, types.ValuationRequest{SubjectID: "p-ss"})

			Convey("Then every candidate at the position is active", func() {
				So(err, ShouldBeNil)
				So(v.Result.CohortSize, ShouldEqual, 2)
				So(v.Result.BaselineYears, ShouldEqual, 8.0)
			})
		})

		Convey("When a cohort id is outside the subject's position", func() {
			v, err := svc.Value(ctx, types.ValuationRequest{SubjectID: "p-ss", CohortIDs: []string{"c-cf-1"}})

			Convey("Then it is looked up and included", func() {
				So(err, ShouldBeNil)
				So(v.Result.CohortSize, ShouldEqual, 1)
				So(v.Result.BaselineAAV, ShouldEqual, 20.0)
			})
		})

		Convey("When overrides are given", func() {
			zero := 0.0
			off := false
			year := 2022
			v, err := svc.Value(ctx, types.ValuationRequest{
				SubjectID:        "p-ss",
				CohortIDs:        []string{"c-ss-1"},
				InflationPercent: &zero,
				AdjustYears:      &off,
				PresentYear:      &year,
				Weights:          map[string]float64{"war": 1},
			})

			Convey("Then they replace the defaults", func() {
				So(err, ShouldBeNil)
				So(v.WeightSource, ShouldEqual, service.WeightsFromRequest)
				So(v.Result.BaselineAAV, ShouldEqual, 27.0)
				So(v.Inputs.AdjustYears, ShouldBeFalse)
				So(len(v.Result.Categories), ShouldEqual, 1)
			})
		})

		Convey("When the subject is given inline", func() {
			v, err := svc.Value(ctx, types.ValuationRequest{
				Subject:    &model.PerformanceRecord{Stats: map[string]float64{"war": 10}, Age: 29},
				Position:   "lf",
				Categories: []string{"war"},
			})

			Convey("Then an empty candidate list gives the degenerate result", func() {
				So(err, ShouldBeNil)
				So(v.Position, ShouldEqual, "LF")
				So(v.WeightSource, ShouldEqual, service.WeightsFromRegistry)
				So(v.Result.Degenerate(), ShouldBeTrue)
				So(v.Result.FairAAV, ShouldEqual, 0)
				So(v.Result.FairYears, ShouldEqual, 3.0)
			})
		})

		Convey("When the request names no subject", func() {
			_, err := svc.Value(ctx, types.ValuationRequest{})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("When the subject is unknown", func() {
			_, err := svc.Value(ctx, types.ValuationRequest{SubjectID: "ghost"})
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When a cohort id is unknown", func() {
			_, err := svc.Value(ctx, types.ValuationRequest{SubjectID: "p-ss", CohortIDs: []string{"nope"}})
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When a category is unknown", func() {
			_, err := svc.Value(ctx, types.ValuationRequest{SubjectID: "p-ss", Categories: []string{"xfip"}})
			So(errors.Is(err, valuation.ErrUnknownCategory), ShouldBeTrue)
		})
	})

	Convey("Given a service with no present year configured", t, func() {
		svc := service.New(
			service.WithStore(newStore()),
			service.WithClock(func() time.Time { return time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC) }),
		)

		Convey("Then the clock's year is used", func() {
			v, err := svc.Value(context.Background(), types.ValuationRequest{SubjectID: "p-ss", CohortIDs: []string{"c-ss-1"}})
			So(err, ShouldBeNil)
			So(v.Inputs.PresentYear, ShouldEqual, 2023)
			So(v.Result.BaselineAAV, ShouldAlmostEqual, 27*1.04, 1e-9)
		})
	})
}

func TestService_ValueBatch(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a mixed batch is submitted", func() {
			items, err := svc.ValueBatch(ctx, []types.ValuationRequest{
				{SubjectID: "p-ss", CohortIDs: []string{"c-ss-1"}},
				{SubjectID: "ghost"},
				{SubjectID: "p-ss", Categories: []string{"war"}},
			})

			Convey("Then each slot holds its own outcome", func() {
				So(err, ShouldBeNil)
				So(len(items), ShouldEqual, 3)
				So(items[0].Valuation, ShouldNotBeNil)
				So(items[0].Valuation.Result.FairYears, ShouldEqual, 6.0)
				So(items[1].Valuation, ShouldBeNil)
				So(items[1].Error, ShouldContainSubstring, "not found")
				So(items[2].Valuation, ShouldNotBeNil)
				So(items[2].Valuation.Result.CohortSize, ShouldEqual, 2)
			})
		})

		Convey("When the batch exceeds the cap", func() {
			_, err := svc.ValueBatch(ctx, make([]types.ValuationRequest, 4))
			So(errors.Is(err, service.ErrBatchTooLarge), ShouldBeTrue)
		})

		Convey("When the batch is empty", func() {
			items, err := svc.ValueBatch(ctx, nil)
			So(err, ShouldBeNil)
			So(items, ShouldBeEmpty)
		})
	})
}

func TestService_Lookups(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := newService()

		Convey("When reading a subject's cohort", func() {
			view, err := svc.Cohort(ctx, "p-ss")

			Convey("Then candidates at its position come newest first", func() {
				So(err, ShouldBeNil)
				So(view.Subject.ID, ShouldEqual, "p-ss")
				So(len(view.Candidates), ShouldEqual, 2)
				So(view.Candidates[0].ID, ShouldEqual, "c-ss-2")
			})
		})

		Convey("When the subject is unknown", func() {
			_, err := svc.Cohort(ctx, "ghost")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When reading profiles", func() {
			So(svc.Profile("ss").Fallback, ShouldBeFalse)
			So(svc.Profile("XX").Fallback, ShouldBeTrue)
		})

		Convey("When there is no store", func() {
			bare := service.New()
			_, err := bare.Cohort(ctx, "p-ss")
			So(errors.Is(err, service.ErrNoStore), ShouldBeTrue)
		})
	})
}
