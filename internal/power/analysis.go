package power

import (
	"errors"
	"fmt"
	"io"
)

// Request describes one analysis against the uniform distribution over the
// buckets of Alt.
type Request struct {
	Alt   Alternative
	Alpha float64
	Tol   float64
	// N is the dataset size whose power is computed. It is ignored when
	// Target is set.
	N uint64
	// Target, if positive, asks for the smallest N reaching that power.
	Target float64
	// Trials is the number of simulated datasets that cross-check the
	// analytic power, 0 to disable.
	Trials int
	Seed   uint64
}

// Result is the outcome of Analyze.
type Result struct {
	Buckets  int
	Alpha    float64
	Target   float64
	N        uint64
	Critical float64
	Effect   float64
	Lambda   float64
	Power    float64
	// Simulated is set when Trials > 0.
	Simulated float64
	Trials    int
}

// Analyze computes the power of req.N elements, or the size needed to reach
// req.Target.
func Analyze(req Request) (*Result, error) {
	t := Test{Buckets: req.Alt.Buckets(), Alpha: req.Alpha, Tol: req.Tol}
	if err := t.validate(); err != nil {
		return nil, err
	}
	if req.Target >= 1 {
		return nil, errors.New("target power must be below 1")
	}
	res := &Result{
		Buckets:  t.Buckets,
		Alpha:    t.Alpha,
		Target:   req.Target,
		N:        req.N,
		Critical: t.Critical(),
		Effect:   req.Alt.Effect(),
	}
	if req.Target > 0 {
		n, pw, err := t.RequiredSize(req.Target, res.Effect, 0)
		if err != nil {
			return nil, err
		}
		res.N, res.Power = n, pw
	} else {
		res.Power = t.Power(req.N, res.Effect)
	}
	res.Lambda = float64(res.N) * res.Effect

	if req.Trials > 0 {
		res.Trials = req.Trials
		res.Simulated = req.Alt.Simulate(t, res.N, req.Trials, req.Seed)
	}
	return res, nil
}

// Print writes r as aligned key/value lines.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintf(w, "buckets        : %d (df=%d)\n", r.Buckets, r.Buckets-1)
	fmt.Fprintf(w, "alpha          : %.4f\n", r.Alpha)
	fmt.Fprintf(w, "effect w²      : %.6g\n", r.Effect)
	if r.Target > 0 {
		fmt.Fprintf(w, "target power   : %.4f\n", r.Target)
		fmt.Fprintf(w, "required size  : %d\n", r.N)
	} else {
		fmt.Fprintf(w, "size           : %d\n", r.N)
	}
	fmt.Fprintf(w, "critical value : %.6f\n", r.Critical)
	fmt.Fprintf(w, "noncentrality  : %.6f\n", r.Lambda)
	fmt.Fprintf(w, "power          : %.6f\n", r.Power)
	if r.Trials > 0 {
		fmt.Fprintf(w, "simulated      : %.6f (%d trials)\n", r.Simulated, r.Trials)
	}
}
