package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithDataset seeds the store. Invalid data is reported by NewMemoryStore.
func WithDataset(ds Dataset) Option {
	return func(s *MemoryStore) {
		s.seed = &ds
	}
}
