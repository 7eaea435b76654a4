package hashbench

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ChiSquareUniform runs a chi-square goodness-of-fit test of the observed
// bucket counts against equal occupancy of the occupied buckets, i.e. the
// expected count of each bucket is sum(counts)/len(counts). It measures
// non-uniformity among the codes that appeared, not over the codomain of the
// hash function.
//
// Degenerate inputs: no buckets (empty dataset) give (0, 0). A single bucket
// has no degrees of freedom; all elements share one code, which is reported
// as statistic 0 with p-value 0.
func ChiSquareUniform(counts []int) (stat, pValue float64) {
	k := len(counts)
	if k == 0 {
		return 0, 0
	}
	n := 0
	for _, c := range counts {
		n += c
	}
	if n == 0 {
		return 0, 0
	}
	stat = chiSquareStatistic(counts, n)
	if k == 1 {
		return stat, 0
	}
	return stat, distuv.ChiSquared{K: float64(k - 1)}.Survival(stat)
}

// chiSquareStatistic computes Σ (o - n/k)² / (n/k) as Σ (k·o - n)² / (k·n).
// The deviations k·o - n are exact integers, so the only rounding happens in
// the squared terms, which are summed with Neumaier compensation.
func chiSquareStatistic(counts []int, n int) float64 {
	k := int64(len(counts))
	total := int64(n)
	var sum, comp float64
	for _, o := range counts {
		d := float64(k*int64(o) - total)
		term := d * d
		t := sum + term
		if math.Abs(sum) >= math.Abs(term) {
			comp += (sum - t) + term
		} else {
			comp += (term - t) + sum
		}
		sum = t
	}
	return (sum + comp) / (float64(k) * float64(total))
}
