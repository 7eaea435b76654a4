/*
Package power tells how many elements the chi-square uniformity test needs
before it notices a skewed hash function.

The null hypothesis is the one the benchmark tests: every occupied bucket is
equally likely. An alternative is summarized by its squared effect size

	w² = Σ (p_i - 1/k)² / (1/k)

so that n elements give the noncentrality λ = n·w². The rejection
probability is 1 - F(c; k-1, λ), where c is the central critical value and F
the noncentral chi-square CDF, evaluated as a Poisson mixture of central
CDFs.
*/
package power

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultTol is the Poisson tail weight at which the noncentral CDF stops.
const DefaultTol = 1e-12

var (
	ErrBuckets     = errors.New("at least 2 buckets required")
	ErrUnreachable = errors.New("target power not reachable within the size limit")
)

// Test is a level-Alpha chi-square uniformity test over Buckets categories.
type Test struct {
	Buckets int
	Alpha   float64
	// Tol is the Poisson tail weight of the noncentral CDF. Zero means
	// DefaultTol.
	Tol float64
}

func (t Test) validate() error {
	if t.Buckets < 2 {
		return fmt.Errorf("%d buckets: %w", t.Buckets, ErrBuckets)
	}
	if t.Alpha <= 0 || t.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0,1), got %v", t.Alpha)
	}
	return nil
}

func (t Test) df() float64 { return float64(t.Buckets - 1) }

func (t Test) tol() float64 {
	if t.Tol <= 0 {
		return DefaultTol
	}
	return t.Tol
}

// Critical is the rejection threshold χ²_{1-α, k-1}.
func (t Test) Critical() float64 {
	return CriticalValue(t.df(), t.Alpha)
}

// Power is the probability that n elements drawn from an alternative with
// squared effect size w2 fail the test.
func (t Test) Power(n uint64, w2 float64) float64 {
	return t.powerAt(t.Critical(), n, w2)
}

func (t Test) powerAt(c float64, n uint64, w2 float64) float64 {
	return 1 - NoncentralCDF(c, t.df(), float64(n)*w2, t.tol())
}

// RequiredSize returns the smallest n whose power against w2 reaches target,
// together with that power. The search stops at limit, where zero means
// math.MaxUint32, and reports ErrUnreachable with the power at the limit.
func (t Test) RequiredSize(target, w2 float64, limit uint64) (uint64, float64, error) {
	if limit == 0 {
		limit = math.MaxUint32
	}
	c := t.Critical()
	at := func(n uint64) float64 { return t.powerAt(c, n, w2) }

	var below uint64
	hi := uint64(1)
	for at(hi) < target {
		if hi >= limit {
			return 0, at(limit), ErrUnreachable
		}
		below, hi = hi, min(2*hi, limit)
	}
	lo := below + 1
	for lo < hi {
		mid := lo + (hi-lo)/2
		if at(mid) < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return hi, at(hi), nil
}

// CriticalValue returns χ²_{1-α, df}.
func CriticalValue(df, alpha float64) float64 {
	return distuv.ChiSquared{K: df}.Quantile(1 - alpha)
}

// NoncentralCDF is F(x; df, λ). The Poisson(λ/2) mixture is summed until the
// weight left beyond the mean falls below tol. Invalid arguments give NaN.
func NoncentralCDF(x, df, lambda, tol float64) float64 {
	if lambda < 0 || df <= 0 || x < 0 {
		return math.NaN()
	}
	if lambda == 0 {
		return distuv.ChiSquared{K: df}.CDF(x)
	}
	mix := distuv.Poisson{Lambda: lambda / 2}
	mean := lambda / 2
	last := int(math.Max(mean+10*math.Sqrt(mean)+50, 100))

	var sum, seen float64
	for i := 0; i <= last; i++ {
		w := mix.Prob(float64(i))
		seen += w
		sum += w * distuv.ChiSquared{K: df + 2*float64(i)}.CDF(x)
		if float64(i) > mean && 1-seen < tol {
			break
		}
	}
	return sum
}
