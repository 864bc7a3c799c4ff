// Package sampling produces the synthetic integer batches served by the
// sample data service.
//
// A batch is drawn fresh for every caller: SampleSize values uniformly from
// [MinValue, MaxValue], an ascending copy that keeps duplicates, and an
// ascending copy with duplicates collapsed. Nothing in this package holds
// state between calls, so Generate is safe for concurrent use as long as the
// Source is.
package sampling

import (
	"math/rand/v2"
	"slices"
)

// Fixed shape of every batch. These are part of the response contract and
// are intentionally not configurable.
const (
	SampleSize = 15
	MinValue   = 1
	MaxValue   = 30
)

// Source yields uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// globalSource draws from the runtime-seeded, goroutine-safe top-level
// generator in math/rand/v2.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns the process-wide source used when none is supplied.
func DefaultSource() Source { return globalSource{} }

// Batch holds one generated sample and its two derived orderings.
type Batch struct {
	Unsorted     []int
	SortedRaw    []int
	SortedUnique []int
}

// Generate draws a new batch from src. A nil src uses DefaultSource.
func Generate(src Source) Batch {
	if src == nil {
		src = DefaultSource()
	}

	unsorted := Draw(src, SampleSize)
	raw := SortAscending(unsorted)

	return Batch{
		Unsorted:     unsorted,
		SortedRaw:    raw,
		SortedUnique: UniqueSorted(raw),
	}
}

// Draw returns n independent values in [MinValue, MaxValue].
func Draw(src Source, n int) []int {
	span := MaxValue - MinValue + 1
	values := make([]int, n)
	for i := range values {
		values[i] = MinValue + src.IntN(span)
	}
	return values
}

// SortAscending returns an ascending copy of values. The input is not modified.
func SortAscending(values []int) []int {
	sorted := slices.Clone(values)
	if sorted == nil {
		sorted = []int{}
	}
	slices.Sort(sorted)
	return sorted
}

// UniqueSorted collapses runs of equal values in an ascending slice.
// A value is kept only when it differs from the last value kept, so the
// result is strictly ascending whenever the input is sorted.
func UniqueSorted(sorted []int) []int {
	unique := make([]int, 0, len(sorted))
	for _, v := range sorted {
		if len(unique) == 0 || unique[len(unique)-1] != v {
			unique = append(unique, v)
		}
	}
	return unique
}
