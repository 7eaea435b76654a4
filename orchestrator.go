package hashbench

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxElementWarnings caps the per-element warnings logged for one pair.
const maxElementWarnings = 10

// Orchestrator evaluates every (dataset, function) pair of a run.
type Orchestrator struct {
	registry *Registry
	workers  int
	logger   *log.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets how many pairs are evaluated concurrently. Values below 1
// select the sequential reference behavior.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithLogger sets the destination of warnings. A nil logger discards them.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		o.logger = l
	}
}

// NewOrchestrator returns an orchestrator over the functions of reg. It runs
// sequentially and logs through log.Default unless opts say otherwise.
func NewOrchestrator(reg *Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: reg,
		workers:  1,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run evaluates the cross-product of datasets and registered functions.
//
// No failure aborts the run: element failures are replaced by SentinelCode,
// pair failures are recorded as skipped pairs. When ctx is canceled no new
// pair is started, the pairs not yet started stay PENDING, and Run returns
// the partial matrix together with ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, datasets []*Dataset) (*ResultsMatrix, error) {
	b := NewResultsBuilder()
	seen := make(map[string]bool, len(datasets))
	var unique []*Dataset
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		if seen[ds.Name()] {
			o.logger.Printf("warning: duplicate dataset %q ignored", ds.Name())
			continue
		}
		seen[ds.Name()] = true
		unique = append(unique, ds)
	}
	names := o.registry.Names()
	for _, ds := range unique {
		for _, name := range names {
			b.expect(ds.Name(), name)
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(o.workers)
	var runErr error
schedule:
	for _, ds := range unique {
		for _, name := range names {
			if err := ctx.Err(); err != nil {
				runErr = err
				break schedule
			}
			fn := o.mustLookup(name)
			g.Go(func() error {
				o.runPair(b, ds, fn)
				return nil
			})
		}
	}
	_ = g.Wait()
	return b.Build(), runErr
}

func (o *Orchestrator) mustLookup(name string) HashFunction {
	fn, ok := o.registry.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("registry lost %q", name))
	}
	return fn
}

// runPair evaluates one pair and records either a result or a skip.
func (o *Orchestrator) runPair(b *ResultsBuilder, ds *Dataset, fn HashFunction) {
	if err := b.Start(ds.Name(), fn.Name()); err != nil {
		o.logger.Printf("warning: %v", err)
		return
	}
	res, err := o.evaluate(ds, fn)
	if err != nil {
		pe := &PairError{Dataset: ds.Name(), Function: fn.Name(), Err: err}
		o.logger.Printf("warning: %v", pe)
		if err := b.Skip(pe); err != nil {
			o.logger.Printf("warning: %v", err)
		}
		return
	}
	if err := b.Add(res); err != nil {
		o.logger.Printf("warning: %v", err)
	}
}

// evaluate hashes every element of ds with fn and derives the metrics. A
// panic escaping the element loop is a pair-level failure.
func (o *Orchestrator) evaluate(ds *Dataset, fn HashFunction) (res TestResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	sum, err := resolve(fn, ds.Kind())
	if err != nil {
		return TestResult{}, err
	}

	codes := make([]Code, ds.Len())
	failures := 0
	start := time.Now()
	for i := range codes {
		c, err := safeSum(sum, ds.At(i))
		if err != nil {
			c = SentinelCode
			failures++
			if failures <= maxElementWarnings {
				o.logger.Printf("warning: %v", &ElementError{Dataset: ds.Name(), Function: fn.Name(), Index: i, Err: err})
			}
		}
		codes[i] = c
	}
	elapsed := time.Since(start)
	if failures > maxElementWarnings {
		o.logger.Printf("warning: %s on %q: %d more element failures not shown", fn.Name(), ds.Name(), failures-maxElementWarnings)
	}

	st := AnalyzeCollisions(codes)
	chi2, p := ChiSquareUniform(st.Table.Counts())
	return TestResult{
		Dataset:       ds.Name(),
		Function:      fn.Name(),
		Size:          st.Size,
		Elapsed:       elapsed,
		Collisions:    st.Collisions,
		CollisionRate: st.Rate,
		UniqueHashes:  st.Unique,
		ChiSquare:     chi2,
		PValue:        p,
		Failures:      failures,
		Frequencies:   st.Table,
	}, nil
}

// resolve picks the algorithm fn uses for elements of kind k.
func resolve(fn HashFunction, k Kind) (func(Element) (Code, error), error) {
	if sl, ok := fn.(ShapeLimiter); ok && !sl.Supports(k) {
		return nil, fmt.Errorf("%s datasets: %w", k, ErrUnsupportedShape)
	}
	if rh, ok := fn.(RowHasher); ok && k == KindRow {
		return func(e Element) (Code, error) { return rh.SumRow(e.Fields()) }, nil
	}
	return func(e Element) (Code, error) { return fn.Sum(e.Text()) }, nil
}

// safeSum turns a panic inside a hash function into an element failure.
func safeSum(sum func(Element) (Code, error), e Element) (c Code, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = SentinelCode, fmt.Errorf("panic: %v", r)
		}
	}()
	return sum(e)
}
