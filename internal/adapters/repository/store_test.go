package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/fairdeal/internal/adapters/repository"
	"github.com/okian/fairdeal/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func contract(id, pos string, year int) model.ReferenceContract {
	return model.ReferenceContract{ID: id, Position: pos, SignedYear: year, AnnualValue: 10, ContractYears: 3}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store seeded with players and contracts", t, func() {
		ctx := context.Background()
		store, err := repository.NewMemoryStore(repository.WithDataset(repository.Dataset{
			Players: []model.Player{
				{ID: "p1", Name: "One", Position: " ss "},
				{ID: "p2", Name: "Two", Position: "SP"},
			},
			Contracts: []model.ReferenceContract{
				contract("c-b", "SS", 2022),
				contract("c-a", "SS", 2022),
				contract("c-c", "ss", 2024),
				contract("c-d", "SP", 2023),
			},
		}))
		So(err, ShouldBeNil)

		Convey("When looking up a subject", func() {
			p, err := store.Subject(ctx, "p1")

			Convey("Then its position is normalized", func() {
				So(err, ShouldBeNil)
				So(p.Position, ShouldEqual, "SS")
			})
		})

		Convey("When looking up an unknown subject", func() {
			_, err := store.Subject(ctx, "nope")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When looking up contracts", func() {
			c, err := store.Contract(ctx, "c-d")
			So(err, ShouldBeNil)
			So(c.Position, ShouldEqual, "SP")

			_, err = store.Contract(ctx, "missing")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When listing candidates for a position", func() {
			cs, err := store.Candidates(ctx, "ss")

			Convey("Then newest signings come first, ties by id", func() {
				So(err, ShouldBeNil)
				So(len(cs), ShouldEqual, 3)
				So(cs[0].ID, ShouldEqual, "c-c")
				So(cs[1].ID, ShouldEqual, "c-a")
				So(cs[2].ID, ShouldEqual, "c-b")
			})

			Convey("Then the slice is a copy", func() {
				cs[0].AnnualValue = 999
				again, _ := store.Candidates(ctx, "SS")
				So(again[0].AnnualValue, ShouldEqual, 10)
			})
		})

		Convey("When listing candidates for every position", func() {
			cs, _ := store.Candidates(ctx, "")
			So(len(cs), ShouldEqual, 4)
			So(cs[0].ID, ShouldEqual, "c-c")
		})

		Convey("When counting", func() {
			players, contracts := store.Count(ctx)
			So(players, ShouldEqual, 2)
			So(contracts, ShouldEqual, 4)
		})

		Convey("When replacing with invalid data", func() {
			err := store.Replace(ctx, repository.Dataset{Players: []model.Player{{ID: ""}}})

			Convey("Then the old data is kept", func() {
				So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
				players, _ := store.Count(ctx)
				So(players, ShouldEqual, 2)
			})
		})

		Convey("When reading during concurrent replaces", func() {
			var wg sync.WaitGroup
			for i := 0; i < 4; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_ = store.Replace(ctx, repository.Dataset{Contracts: []model.ReferenceContract{contract("x", "SS", 2020)}})
				}()
				go func() {
					defer wg.Done()
					_, _ = store.Candidates(ctx, "SS")
				}()
			}
			wg.Wait()

			Convey("Then the final state is the replaced one", func() {
				_, contracts := store.Count(ctx)
				So(contracts, ShouldEqual, 1)
			})
		})
	})

	Convey("Given invalid seed data", t, func() {
		Convey("When ids repeat", func() {
			_, err := repository.NewMemoryStore(repository.WithDataset(repository.Dataset{
				Contracts: []model.ReferenceContract{contract("c", "SS", 2020), contract("c", "SP", 2021)},
			}))
			So(errors.Is(err, repository.ErrDuplicateID), ShouldBeTrue)
		})

		Convey("When terms are negative", func() {
			bad := contract("c", "SS", 2020)
			bad.AnnualValue = -1
			_, err := repository.NewMemoryStore(repository.WithDataset(repository.Dataset{Contracts: []model.ReferenceContract{bad}}))
			So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a YAML reference file", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "players.yaml")
		content := `
players:
  - id: p1
    name: Test Player
    position: SS
    performance:
      age: 28
      stats:
        war: 5
        ops: 0.85
contracts:
  - id: c1
    position: SS
    signed_year: 2022
    annual_value: 27
    contract_years: 6
    age_at_signing: 29
    included_in_cohort: true
    performance:
      stats: {war: 5, ops: 0.85}
`
		So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)

		Convey("When it is loaded", func() {
			ds, err := repository.LoadFile(ctx, path)

			Convey("Then players and contracts decode", func() {
				So(err, ShouldBeNil)
				So(len(ds.Players), ShouldEqual, 1)
				So(ds.Players[0].Performance.Age, ShouldEqual, 28)
				So(ds.Players[0].Performance.Stats["ops"], ShouldEqual, 0.85)
				So(len(ds.Contracts), ShouldEqual, 1)
				So(ds.Contracts[0].AnnualValue, ShouldEqual, 27)
				So(ds.Contracts[0].SignedYear, ShouldEqual, 2022)
				So(ds.Contracts[0].IncludedInCohort, ShouldBeTrue)
				So(ds.Contracts[0].Performance.Stats["war"], ShouldEqual, 5)
			})
		})

		Convey("When it is opened as a store", func() {
			store, err := repository.Open(ctx, path)
			So(err, ShouldBeNil)
			p, err := store.Subject(ctx, "p1")
			So(err, ShouldBeNil)
			So(p.Name, ShouldEqual, "Test Player")
		})
	})

	Convey("Given the bundled sample data", t, func() {
		store, err := repository.Open(context.Background(), filepath.Join("..", "..", "..", "data", "players.yaml"))

		Convey("Then it loads cleanly", func() {
			So(err, ShouldBeNil)
			players, contracts := store.Count(context.Background())
			So(players, ShouldEqual, 3)
			So(contracts, ShouldEqual, 7)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := repository.LoadFile(context.Background(), "/non/existent.yaml")
		So(err, ShouldNotBeNil)
	})
}
