package balance

import "fmt"

// FairnessReport summarizes how evenly the win rates are spread.
type FairnessReport struct {
	JainIndex float64 `json:"jain_index"`
	Variance  float64 `json:"variance"`
}

// Normalize divides every credit by the total credit. Sums run in sorted
// class order so equal inputs give bit-identical outputs.
func Normalize(credit map[string]float64) map[string]float64 {
	keys := sortedClasses(credit)
	total := 0.0
	for _, k := range keys {
		total += credit[k]
	}
	out := make(map[string]float64, len(credit))
	for _, k := range keys {
		r := credit[k] / total
		mustFinite(fmt.Sprintf("win rate[%s]", k), r)
		out[k] = r
	}
	return out
}

// JainIndex is (Σr)² / (n·Σr²): 1 when all values are equal, 1/n when a
// single value holds everything.
func JainIndex(rates []float64) float64 {
	var sum, sumSq float64
	for _, r := range rates {
		sum += r
		sumSq += r * r
	}
	j := (sum * sum) / (float64(len(rates)) * sumSq)
	mustFinite("jain index", j)
	return j
}

// Variance is the population variance (divides by n, not n-1).
func Variance(rates []float64) float64 {
	n := float64(len(rates))
	mean := 0.0
	for _, r := range rates {
		mean += r
	}
	mean /= n
	v := 0.0
	for _, r := range rates {
		d := r - mean
		v += d * d
	}
	v /= n
	mustFinite("variance", v)
	return v
}

// Fairness computes both statistics over the rates in sorted class order.
func Fairness(rates map[string]float64) FairnessReport {
	keys := sortedClasses(rates)
	vec := make([]float64, len(keys))
	for i, k := range keys {
		vec[i] = rates[k]
	}
	return FairnessReport{JainIndex: JainIndex(vec), Variance: Variance(vec)}
}
