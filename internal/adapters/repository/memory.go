package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/okian/fairdeal/internal/domain/model"
	"github.com/okian/fairdeal/pkg/metrics"
)

// snapshot is an immutable, indexed view of a Dataset. Readers load the
// current snapshot without locking; Replace publishes a new one.
type snapshot struct {
	players    map[string]model.Player
	contracts  map[string]model.ReferenceContract
	byPosition map[string][]model.ReferenceContract
	all        []model.ReferenceContract
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	current atomic.Pointer[snapshot]
	seed    *Dataset
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds a store, validating any seeded dataset.
func NewMemoryStore(opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	ds := Dataset{}
	if s.seed != nil {
		ds = *s.seed
		s.seed = nil
	}
	if err := s.Replace(context.Background(), ds); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace validates ds and atomically swaps it in. On error the previous
// data stays in place.
func (s *MemoryStore) Replace(_ context.Context, ds Dataset) error {
	const op = "repository.replace"

	snap, err := build(ds)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.current.Store(snap)

	metrics.UpdateSubjects(len(snap.players))
	metrics.UpdateReferenceContracts(len(snap.all))
	return nil
}

func build(ds Dataset) (*snapshot, error) {
	snap := &snapshot{
		players:    make(map[string]model.Player, len(ds.Players)),
		contracts:  make(map[string]model.ReferenceContract, len(ds.Contracts)),
		byPosition: make(map[string][]model.ReferenceContract),
		all:        make([]model.ReferenceContract, 0, len(ds.Contracts)),
	}

	for _, p := range ds.Players {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("%w: player %q has no id", ErrInvalidRecord, p.Name)
		}
		if _, dup := snap.players[p.ID]; dup {
			return nil, fmt.Errorf("%w: player %s", ErrDuplicateID, p.ID)
		}
		p.Position = normalizePosition(p.Position)
		snap.players[p.ID] = p
	}

	for _, c := range ds.Contracts {
		c.ID = strings.TrimSpace(c.ID)
		switch {
		case c.ID == "":
			return nil, fmt.Errorf("%w: contract %q has no id", ErrInvalidRecord, c.Name)
		case c.AnnualValue < 0 || c.ContractYears < 0:
			return nil, fmt.Errorf("%w: contract %s has negative terms", ErrInvalidRecord, c.ID)
		}
		if _, dup := snap.contracts[c.ID]; dup {
			return nil, fmt.Errorf("%w: contract %s", ErrDuplicateID, c.ID)
		}
		c.Position = normalizePosition(c.Position)
		snap.contracts[c.ID] = c
		snap.all = append(snap.all, c)
	}

	sortCandidates(snap.all)
	for _, c := range snap.all {
		snap.byPosition[c.Position] = append(snap.byPosition[c.Position], c)
	}
	return snap, nil
}

// Subject implements Store.
func (s *MemoryStore) Subject(_ context.Context, id string) (model.Player, error) {
	p, ok := s.current.Load().players[strings.TrimSpace(id)]
	if !ok {
		return model.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, id)
	}
	return p, nil
}

// Contract implements Store.
func (s *MemoryStore) Contract(_ context.Context, id string) (model.ReferenceContract, error) {
	c, ok := s.current.Load().contracts[strings.TrimSpace(id)]
	if !ok {
		return model.ReferenceContract{}, fmt.Errorf("%w: contract %s", ErrNotFound, id)
	}
	return c, nil
}

// Candidates implements Store. The returned slice is a copy.
func (s *MemoryStore) Candidates(_ context.Context, position string) ([]model.ReferenceContract, error) {
	snap := s.current.Load()
	src := snap.all
	if pos := normalizePosition(position); pos != "" {
		src = snap.byPosition[pos]
	}
	out := make([]model.ReferenceContract, len(src))
	copy(out, src)
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, int) {
	snap := s.current.Load()
	return len(snap.players), len(snap.all)
}

// sortCandidates orders newest signings first, ties by ID.
func sortCandidates(cs []model.ReferenceContract) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].SignedYear != cs[j].SignedYear {
			return cs[i].SignedYear > cs[j].SignedYear
		}
		return cs[i].ID < cs[j].ID
	})
}

func normalizePosition(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}
