package repository

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadFile reads a YAML document with top-level "players" and "contracts"
// lists.
func LoadFile(_ context.Context, path string) (Dataset, error) {
	const op = "repository.load_file"

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Dataset{}, fmt.Errorf("%s: read %s: %w", op, path, err)
	}

	var ds Dataset
	if err := k.UnmarshalWithConf("", &ds, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Dataset{}, fmt.Errorf("%s: decode %s: %w", op, path, err)
	}
	return ds, nil
}

// Open loads path into a new MemoryStore.
func Open(ctx context.Context, path string) (*MemoryStore, error) {
	ds, err := LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(WithDataset(ds))
}
