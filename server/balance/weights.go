package balance

import (
	"fmt"
	"math"
	"sort"

	"classbalance/server/engine"
)

// PopulationCounts counts pool cards per class label.
func PopulationCounts(pool engine.Pool) map[string]int {
	out := make(map[string]int)
	for _, c := range pool {
		out[c.Class]++
	}
	return out
}

// MaxCount is the population of the most numerous class. That class is the
// weighting reference and always gets weight 1.0.
func MaxCount(counts map[string]int) int {
	m := 0
	for _, n := range counts {
		if n > m {
			m = n
		}
	}
	return m
}

// Weight is the per-card credit multiplier for a class with the given
// population: rare classes are boosted by maxCount/count.
func Weight(maxCount, count int) float64 {
	w := float64(maxCount) / float64(count)
	mustFinite(fmt.Sprintf("weight(max=%d,count=%d)", maxCount, count), w)
	return w
}

// Weights returns Weight for every class in counts.
func Weights(counts map[string]int) map[string]float64 {
	ref := MaxCount(counts)
	out := make(map[string]float64, len(counts))
	for cls, n := range counts {
		out[cls] = Weight(ref, n)
	}
	return out
}

func sortedClasses[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mustFinite panics on NaN or Inf. Those can only come from a broken
// invariant (a zero population or an all-zero credit map), never from input.
func mustFinite(what string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("balance: non-finite %s = %v", what, v))
	}
}
