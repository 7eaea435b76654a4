package hashbench

import (
	"fmt"

	"github.com/cornelk/hashmap"
)

// PairState is the lifecycle position of one (dataset, function) pair.
type PairState uint8

const (
	Pending PairState = iota
	Running
	Complete
	Skipped
)

func (s PairState) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Running:
		return "RUNNING"
	case Complete:
		return "COMPLETE"
	case Skipped:
		return "SKIPPED"
	default:
		return fmt.Sprintf("PairState(%d)", uint8(s))
	}
}

// Terminal reports whether no further transition is allowed.
func (s PairState) Terminal() bool { return s == Complete || s == Skipped }

func pairKey(dataset, function string) string {
	return dataset + "\x00" + function
}

// pairTracker holds the state of every pair of a run. Each pair has a single
// writer, the goroutine evaluating it, so a lock-free map suffices.
type pairTracker struct {
	states hashmap.HashMap
}

func (t *pairTracker) state(dataset, function string) PairState {
	v, ok := t.states.Get(pairKey(dataset, function))
	if !ok {
		return Pending
	}
	return v.(PairState)
}

// advance moves a pair to next. Allowed moves are PENDING→RUNNING and
// RUNNING→COMPLETE|SKIPPED, plus PENDING→SKIPPED for pairs rejected before
// they start.
func (t *pairTracker) advance(dataset, function string, next PairState) error {
	cur := t.state(dataset, function)
	ok := false
	switch cur {
	case Pending:
		ok = next == Running || next == Skipped
	case Running:
		ok = next.Terminal()
	}
	if !ok {
		return fmt.Errorf("%s/%s %s→%s: %w", dataset, function, cur, next, ErrIllegalTransition)
	}
	t.states.Set(pairKey(dataset, function), next)
	return nil
}
