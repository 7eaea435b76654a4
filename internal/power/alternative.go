package power

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
)

// HotBucketEffect is w² for k buckets of which one receives factor times its
// fair share 1/k and the others split the remainder evenly:
// (factor-1)²/(k-1). Fewer than two buckets give 0.
func HotBucketEffect(buckets int, factor float64) float64 {
	if buckets < 2 {
		return 0
	}
	d := factor - 1
	return d * d / float64(buckets-1)
}

// Detectability is the probability that a level-alpha uniformity test over
// buckets occupied buckets flags n elements whose hottest bucket receives
// factor times its fair share. Empty or single-bucket datasets give 0.
func Detectability(n, buckets int, factor, alpha float64) float64 {
	if n <= 0 || buckets < 2 {
		return 0
	}
	t := Test{Buckets: buckets, Alpha: alpha}
	return t.Power(uint64(n), HotBucketEffect(buckets, factor))
}

// Alternative is a bucket distribution tested against the uniform one.
type Alternative struct {
	cum    []float64
	effect float64
}

// HotBucket is the alternative where the last of k buckets receives factor/k
// and the others share the rest. factor must lie in [0, k].
func HotBucket(buckets int, factor float64) (Alternative, error) {
	if buckets < 2 {
		return Alternative{}, fmt.Errorf("%d buckets: %w", buckets, ErrBuckets)
	}
	k := float64(buckets)
	if factor < 0 || factor > k {
		return Alternative{}, fmt.Errorf("factor must be in [0,%d], got %v", buckets, factor)
	}
	hot := factor / k
	rest := (1 - hot) / (k - 1)
	cum := make([]float64, buckets)
	for i := range cum[:buckets-1] {
		cum[i] = float64(i+1) * rest
	}
	cum[buckets-1] = 1
	return Alternative{cum: cum, effect: HotBucketEffect(buckets, factor)}, nil
}

// Weights builds an alternative from non-negative weights, which need not
// sum to 1.
func Weights(w []float64) (Alternative, error) {
	if len(w) < 2 {
		return Alternative{}, fmt.Errorf("%d weights: %w", len(w), ErrBuckets)
	}
	total := 0.0
	for i, v := range w {
		if v < 0 {
			return Alternative{}, fmt.Errorf("weight %d is negative: %v", i, v)
		}
		total += v
	}
	if total == 0 {
		return Alternative{}, errors.New("weights sum to 0")
	}
	k := float64(len(w))
	cum := make([]float64, len(w))
	var acc, w2 float64
	for i, v := range w {
		p := v / total
		acc += p
		cum[i] = acc
		d := p - 1/k
		w2 += d * d * k
	}
	cum[len(cum)-1] = 1
	return Alternative{cum: cum, effect: w2}, nil
}

// ParseWeights reads a comma-separated weight list; empty items are ignored.
func ParseWeights(s string) (Alternative, error) {
	var w []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return Alternative{}, fmt.Errorf("weight %q: %w", part, err)
		}
		w = append(w, v)
	}
	return Weights(w)
}

// Buckets is the number of categories.
func (a Alternative) Buckets() int { return len(a.cum) }

// Effect is the squared effect size w² against the uniform distribution.
func (a Alternative) Effect() float64 { return a.effect }

func (a Alternative) draw(rng *rand.Rand) int {
	i := sort.SearchFloat64s(a.cum, rng.Float64())
	return min(i, len(a.cum)-1)
}

// Simulate estimates the power of t by drawing trials samples of n elements
// from a and counting how many fail the test. The same seed gives the same
// estimate.
func (a Alternative) Simulate(t Test, n uint64, trials int, seed uint64) float64 {
	if trials <= 0 {
		return 0
	}
	rng := rand.New(rand.NewPCG(seed, 0x9E3779B97F4A7C15))
	c := t.Critical()
	k := a.Buckets()
	expected := float64(n) / float64(k)
	counts := make([]uint64, k)

	rejected := 0
	for range trials {
		clear(counts)
		for range n {
			counts[a.draw(rng)]++
		}
		stat := 0.0
		for _, o := range counts {
			d := float64(o) - expected
			stat += d * d / expected
		}
		if stat > c {
			rejected++
		}
	}
	return float64(rejected) / float64(trials)
}
