package category

import "sort"

// Registry is an ordered, immutable set of categories. Iteration order is the
// registration order, which keeps weighted sums reproducible bit for bit.
type Registry struct {
	categories []Category
	index      map[string]int
}

// Option applies a configuration option to a Registry under construction.
type Option func(*builder)

type builder struct {
	categories []Category
	weights    map[string]float64
}

// WithCategories replaces the built-in category set.
func WithCategories(cats []Category) Option {
	return func(b *builder) {
		if len(cats) > 0 {
			b.categories = append([]Category(nil), cats...)
		}
	}
}

// WithWeights overrides registry weights for known keys. Unknown keys and
// negative weights are ignored.
func WithWeights(weights map[string]float64) Option {
	return func(b *builder) {
		for k, w := range weights {
			if w >= 0 {
				b.weights[k] = w
			}
		}
	}
}

// NewRegistry builds a registry from the defaults plus options.
func NewRegistry(opts ...Option) *Registry {
	b := &builder{
		categories: Defaults(),
		weights:    make(map[string]float64),
	}
	for _, opt := range opts {
		opt(b)
	}

	r := &Registry{
		categories: make([]Category, 0, len(b.categories)),
		index:      make(map[string]int, len(b.categories)),
	}
	for _, c := range b.categories {
		if _, dup := r.index[c.Key]; dup || c.Key == "" {
			continue
		}
		if w, ok := b.weights[c.Key]; ok {
			c.Weight = w
		}
		r.index[c.Key] = len(r.categories)
		r.categories = append(r.categories, c)
	}
	return r
}

// Lookup returns the category registered under key.
func (r *Registry) Lookup(key string) (Category, bool) {
	i, ok := r.index[key]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.index[key]
	return ok
}

// All returns a copy of every category in registry order.
func (r *Registry) All() []Category {
	return append([]Category(nil), r.categories...)
}

// Len returns the number of registered categories.
func (r *Registry) Len() int { return len(r.categories) }

// Ordered returns the categories named by keys in registry order. Keys that
// are not registered are returned separately so callers can reject them.
func (r *Registry) Ordered(keys []string) (cats []Category, unknown []string) {
	seen := make(map[string]bool, len(keys))
	pos := make([]int, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		i, ok := r.index[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		pos = append(pos, i)
	}
	sort.Ints(pos)
	cats = make([]Category, len(pos))
	for i, p := range pos {
		cats[i] = r.categories[p]
	}
	sort.Strings(unknown)
	return cats, unknown
}

// Defaults returns the built-in category set.
func Defaults() []Category {
	return []Category{
		// hitting
		{Key: "war", Label: "WAR", HigherIsBetter: true, Weight: 0.25, Scale: ScaleDecimal},
		{Key: "wrc_plus", Label: "wRC+", HigherIsBetter: true, Weight: 0.20, Scale: ScaleCount},
		{Key: "ops", Label: "OPS", HigherIsBetter: true, Weight: 0.10, Scale: ScaleDecimal},
		{Key: "avg", Label: "AVG", HigherIsBetter: true, Weight: 0.05, Scale: ScaleDecimal},
		{Key: "hr", Label: "Home Runs", HigherIsBetter: true, Weight: 0.08, Scale: ScaleCount},
		{Key: "bb_pct", Label: "BB%", HigherIsBetter: true, Weight: 0.04, Scale: ScalePercent},
		{Key: "k_pct", Label: "K%", HigherIsBetter: false, Weight: 0.04, Scale: ScalePercent},
		{Key: "barrel_pct", Label: "Barrel%", HigherIsBetter: true, Weight: 0.06, Scale: ScalePercent},
		{Key: "exit_velo", Label: "Avg Exit Velocity", HigherIsBetter: true, Weight: 0.04, Scale: ScaleMPH},
		{Key: "def", Label: "Defensive Runs", HigherIsBetter: true, Bipolar: true, TypicalRange: DefaultTypicalRange, Weight: 0.10, Scale: ScaleRuns},
		{Key: "bsr", Label: "Baserunning Runs", HigherIsBetter: true, Bipolar: true, TypicalRange: DefaultTypicalRange, Weight: 0.04, Scale: ScaleRuns},
		// pitching
		{Key: "era", Label: "ERA", HigherIsBetter: false, Weight: 0.20, Scale: ScaleDecimal},
		{Key: "fip", Label: "FIP", HigherIsBetter: false, Weight: 0.20, Scale: ScaleDecimal},
		{Key: "whip", Label: "WHIP", HigherIsBetter: false, Weight: 0.10, Scale: ScaleDecimal},
		{Key: "k_9", Label: "K/9", HigherIsBetter: true, Weight: 0.12, Scale: ScaleRate},
		{Key: "bb_9", Label: "BB/9", HigherIsBetter: false, Weight: 0.08, Scale: ScaleRate},
		{Key: "ip", Label: "Innings Pitched", HigherIsBetter: true, Weight: 0.10, Scale: ScaleCount},
		{Key: "velo", Label: "Fastball Velocity", HigherIsBetter: true, Weight: 0.05, Scale: ScaleMPH},
	}
}
