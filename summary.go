package hashbench

import (
	"time"

	"github.com/montanaflynn/stats"
)

// FunctionSummary aggregates the results of one function over every dataset
// it completed on.
type FunctionSummary struct {
	Function            string
	Datasets            int
	TotalElapsed        time.Duration
	MeanCollisionRate   float64
	MedianCollisionRate float64
	MaxCollisionRate    float64
	MeanChiSquare       float64
	MedianPValue        float64
	// Uniform counts datasets whose p-value is at least the alpha given to
	// Summarize.
	Uniform  int
	Failures int
}

// Summarize aggregates m per function, ordered by the registry order in
// names. Functions without any result are left out.
func Summarize(m *ResultsMatrix, names []string, alpha float64) []FunctionSummary {
	type acc struct {
		rates, chi2, pvals []float64
		s                  FunctionSummary
	}
	byFn := make(map[string]*acc)
	m.Each(func(r TestResult) {
		a := byFn[r.Function]
		if a == nil {
			a = &acc{s: FunctionSummary{Function: r.Function}}
			byFn[r.Function] = a
		}
		a.s.Datasets++
		a.s.TotalElapsed += r.Elapsed
		a.s.Failures += r.Failures
		if r.Size > 0 && r.PValue >= alpha {
			a.s.Uniform++
		}
		a.rates = append(a.rates, r.CollisionRate)
		a.chi2 = append(a.chi2, r.ChiSquare)
		a.pvals = append(a.pvals, r.PValue)
	})

	out := make([]FunctionSummary, 0, len(byFn))
	for _, name := range names {
		a, ok := byFn[name]
		if !ok {
			continue
		}
		// The inputs are never empty here, which is the only error these
		// helpers report.
		a.s.MeanCollisionRate, _ = stats.Mean(a.rates)
		a.s.MedianCollisionRate, _ = stats.Median(a.rates)
		a.s.MaxCollisionRate, _ = stats.Max(a.rates)
		a.s.MeanChiSquare, _ = stats.Mean(a.chi2)
		a.s.MedianPValue, _ = stats.Median(a.pvals)
		out = append(out, a.s)
	}
	return out
}
