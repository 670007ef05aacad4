// Package repository holds the reference data a valuation draws on: subject
// players and already-signed comparable contracts.
package repository

import (
	"context"

	"github.com/okian/fairdeal/internal/domain/model"
)

// Dataset is the full reference data set as loaded from disk.
type Dataset struct {
	Players   []model.Player            `koanf:"players"`
	Contracts []model.ReferenceContract `koanf:"contracts"`
}

// Store provides read access to reference data.
type Store interface {
	// Subject returns the player with id, or ErrNotFound.
	Subject(ctx context.Context, id string) (model.Player, error)

	// Contract returns the reference contract with id, or ErrNotFound.
	Contract(ctx context.Context, id string) (model.ReferenceContract, error)

	// Candidates returns reference contracts signed at position, newest
	// first and then by ID. An empty position returns every contract.
	Candidates(ctx context.Context, position string) ([]model.ReferenceContract, error)

	// Count returns the number of players and contracts held.
	Count(ctx context.Context) (players, contracts int)
}
