package hashbench

import (
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TestResult holds the metrics of one (dataset, function) pair. It is created
// once and never modified afterwards.
type TestResult struct {
	Dataset  string
	Function string
	Size     int
	Elapsed  time.Duration

	Collisions    int
	CollisionRate float64
	UniqueHashes  int

	ChiSquare float64
	PValue    float64

	// Failures is the number of elements replaced by SentinelCode.
	Failures    int
	Frequencies FrequencyTable
}

func (r *TestResult) clone() TestResult {
	c := *r
	c.Frequencies = maps.Clone(r.Frequencies)
	return c
}

// ResultsBuilder accumulates the results of one run. It is safe for
// concurrent use; a fresh builder is created per run.
//
// Every pair follows PENDING → RUNNING → COMPLETE|SKIPPED: Start moves it to
// RUNNING, Add completes it and Skip ends it. Terminal states are final.
type ResultsBuilder struct {
	mu      sync.Mutex
	runID   string
	rows    map[string]map[string]*TestResult
	skipped []*PairError
	tracker *pairTracker
	pairs   [][2]string
	known   map[string]bool
	built   bool
}

// NewResultsBuilder returns an empty builder with a fresh run ID.
func NewResultsBuilder() *ResultsBuilder {
	return &ResultsBuilder{
		runID:   uuid.NewString(),
		rows:    make(map[string]map[string]*TestResult),
		tracker: &pairTracker{},
		known:   make(map[string]bool),
	}
}

// register remembers a pair so Build reports its final state. Callers hold mu.
func (b *ResultsBuilder) register(dataset, function string) {
	k := pairKey(dataset, function)
	if !b.known[k] {
		b.known[k] = true
		b.pairs = append(b.pairs, [2]string{dataset, function})
	}
}

// expect declares a pair that belongs to the run so that its final state is
// reported even if it never leaves PENDING.
func (b *ResultsBuilder) expect(dataset, function string) {
	b.mu.Lock()
	b.register(dataset, function)
	b.mu.Unlock()
}

// Start moves a pending pair to RUNNING.
func (b *ResultsBuilder) Start(dataset, function string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.built {
		return ErrFrozen
	}
	b.register(dataset, function)
	return b.tracker.advance(dataset, function, Running)
}

// Add completes a running pair with its result. Adding a pair that is not
// RUNNING fails with ErrIllegalTransition, a second result for the same pair
// with ErrDuplicateResult.
func (b *ResultsBuilder) Add(r TestResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.built {
		return ErrFrozen
	}
	if _, dup := b.rows[r.Dataset][r.Function]; dup {
		return fmt.Errorf("%s/%s: %w", r.Dataset, r.Function, ErrDuplicateResult)
	}
	if err := b.tracker.advance(r.Dataset, r.Function, Complete); err != nil {
		return err
	}
	byFn := b.rows[r.Dataset]
	if byFn == nil {
		byFn = make(map[string]*TestResult)
		b.rows[r.Dataset] = byFn
	}
	byFn[r.Function] = &r
	return nil
}

// Skip records a pair-level failure of a pending or running pair.
func (b *ResultsBuilder) Skip(pe *PairError) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.built {
		return ErrFrozen
	}
	if err := b.tracker.advance(pe.Dataset, pe.Function, Skipped); err != nil {
		return err
	}
	b.register(pe.Dataset, pe.Function)
	b.skipped = append(b.skipped, pe)
	return nil
}

// Build freezes the builder and returns the read-only matrix.
func (b *ResultsBuilder) Build() *ResultsMatrix {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.built = true
	states := make(map[string]PairState, len(b.pairs))
	for _, p := range b.pairs {
		states[pairKey(p[0], p[1])] = b.tracker.state(p[0], p[1])
	}
	skipped := make([]*PairError, len(b.skipped))
	copy(skipped, b.skipped)
	sort.Slice(skipped, func(i, j int) bool {
		if skipped[i].Dataset != skipped[j].Dataset {
			return skipped[i].Dataset < skipped[j].Dataset
		}
		return skipped[i].Function < skipped[j].Function
	})
	return &ResultsMatrix{
		RunID:   b.runID,
		rows:    b.rows,
		skipped: skipped,
		states:  states,
	}
}

// ResultsMatrix maps dataset name to function name to TestResult. It is
// read-only and safe for concurrent readers.
type ResultsMatrix struct {
	RunID   string
	rows    map[string]map[string]*TestResult
	skipped []*PairError
	states  map[string]PairState
}

// Get returns the result of a pair, if it completed. The result owns a copy
// of the frequency table, so callers cannot alter the matrix through it.
func (m *ResultsMatrix) Get(dataset, function string) (TestResult, bool) {
	r, ok := m.rows[dataset][function]
	if !ok {
		return TestResult{}, false
	}
	return r.clone(), true
}

// Datasets returns the names of datasets with at least one result, sorted.
func (m *ResultsMatrix) Datasets() []string {
	out := make([]string, 0, len(m.rows))
	for ds := range m.rows {
		out = append(out, ds)
	}
	sort.Strings(out)
	return out
}

// Functions returns the function names with a result for dataset, sorted.
func (m *ResultsMatrix) Functions(dataset string) []string {
	byFn := m.rows[dataset]
	out := make([]string, 0, len(byFn))
	for fn := range byFn {
		out = append(out, fn)
	}
	sort.Strings(out)
	return out
}

// Each calls fn for every result, ordered by dataset then function. Like Get,
// it hands out copies.
func (m *ResultsMatrix) Each(fn func(TestResult)) {
	for _, ds := range m.Datasets() {
		for _, f := range m.Functions(ds) {
			fn(m.rows[ds][f].clone())
		}
	}
}

// Len is the number of completed pairs.
func (m *ResultsMatrix) Len() int {
	n := 0
	for _, byFn := range m.rows {
		n += len(byFn)
	}
	return n
}

// Skipped returns the pair-level failures of the run.
func (m *ResultsMatrix) Skipped() []*PairError {
	out := make([]*PairError, len(m.skipped))
	copy(out, m.skipped)
	return out
}

// State returns the final state of a pair. Pairs unknown to the run report
// PENDING.
func (m *ResultsMatrix) State(dataset, function string) PairState {
	return m.states[pairKey(dataset, function)]
}
