// Package profile maps a position code to the category weights used when
// comparing players at that position.
package profile

import (
	"sort"
	"strings"
)

// DefaultKey names the fallback profile.
const DefaultKey = "DEFAULT"

// Profile is the weight vector for one position.
type Profile struct {
	Position string             `json:"position"`
	Weights  map[string]float64 `json:"weights"`
	// Fallback is set when the position had no entry and the default was used.
	Fallback bool `json:"fallback"`
}

// Keys returns the profile's category keys sorted alphabetically.
func (p Profile) Keys() []string {
	keys := make([]string, 0, len(p.Weights))
	for k := range p.Weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the sum of the profile weights.
func (p Profile) Total() float64 {
	var sum float64
	for _, k := range p.Keys() {
		sum += p.Weights[k]
	}
	return sum
}

// Selector resolves profiles from a configuration table.
type Selector struct {
	table map[string]map[string]float64
}

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithProfiles replaces or adds table rows. Position codes are normalized;
// empty rows are ignored.
func WithProfiles(rows map[string]map[string]float64) Option {
	return func(s *Selector) {
		for pos, weights := range rows {
			if len(weights) == 0 {
				continue
			}
			s.table[normalize(pos)] = copyWeights(weights)
		}
	}
}

// NewSelector creates a selector over the built-in table plus options.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{table: make(map[string]map[string]float64, len(defaultTable))}
	for pos, weights := range defaultTable {
		s.table[pos] = copyWeights(weights)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// For returns the profile for position, falling back to the default row.
func (s *Selector) For(position string) Profile {
	pos := normalize(position)
	if w, ok := s.table[pos]; ok && pos != DefaultKey {
		return Profile{Position: pos, Weights: copyWeights(w)}
	}
	return Profile{Position: pos, Weights: copyWeights(s.table[DefaultKey]), Fallback: true}
}

// Positions lists the configured position codes, excluding the default row.
func (s *Selector) Positions() []string {
	out := make([]string, 0, len(s.table))
	for pos := range s.table {
		if pos != DefaultKey {
			out = append(out, pos)
		}
	}
	sort.Strings(out)
	return out
}

func normalize(position string) string {
	p := strings.ToUpper(strings.TrimSpace(position))
	if p == "" {
		return DefaultKey
	}
	return p
}

func copyWeights(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
