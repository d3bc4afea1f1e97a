// Package standings turns raw department tallies into ranked tables.
//
// Everything here is pure: no storage, no clock, no authorization. Callers
// load records, hand them in, and render what comes back.
package standings

import (
	"cmp"
	"slices"
	"strings"
)

// Direction is the sort order of a single ranking key.
type Direction int

const (
	// Descending puts larger values first (points, wins).
	Descending Direction = iota
	// Ascending puts smaller values first (losses).
	Ascending
)

// Key is one numeric criterion in a ranking, in priority order.
type Key[T any] struct {
	Name      string
	Value     func(T) float64
	Direction Direction
}

// Placement pairs an entry with its competition rank.
type Placement[T any] struct {
	Entry    T   `json:"entry"`
	Position int `json:"position"`
}

// Ranker orders entries by its keys, then by id ascending, and assigns
// competition ranks: entries whose key tuples are equal share a position and
// the next distinct entry gets its 1-based index (1, 1, 3).
type Ranker[T any] struct {
	id   func(T) string
	keys []Key[T]
}

// NewRanker builds a Ranker. id supplies the final, lexicographic tie-break
// and is not part of the tuple that decides shared positions.
func NewRanker[T any](id func(T) string, keys ...Key[T]) *Ranker[T] {
	return &Ranker[T]{id: id, keys: slices.Clone(keys)}
}

// Keys returns the names of the ranking keys in priority order.
func (r *Ranker[T]) Keys() []string {
	names := make([]string, len(r.keys))
	for i, k := range r.keys {
		names[i] = k.Name
	}
	return names
}

// Rank returns entries in ranked order with positions. The input is not
// modified and the result does not depend on the input order.
func (r *Ranker[T]) Rank(entries []T) []Placement[T] {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b T) int {
		if c := r.compareKeys(a, b); c != 0 {
			return c
		}
		return strings.Compare(r.id(a), r.id(b))
	})

	placements := make([]Placement[T], len(sorted))
	for i, entry := range sorted {
		position := i + 1
		if i > 0 && r.compareKeys(sorted[i-1], entry) == 0 {
			position = placements[i-1].Position
		}
		placements[i] = Placement[T]{Entry: entry, Position: position}
	}
	return placements
}

func (r *Ranker[T]) compareKeys(a, b T) int {
	for _, k := range r.keys {
		c := cmp.Compare(k.Value(a), k.Value(b))
		if k.Direction == Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}
