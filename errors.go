package hashbench

import (
	"errors"
	"fmt"
)

var (
	ErrUnnamedDataset    = errors.New("dataset has no name")
	ErrMixedShape        = errors.New("dataset mixes scalars and rows")
	ErrArity             = errors.New("row arity differs within dataset")
	ErrDuplicateFunction = errors.New("hash function already registered")
	ErrUnknownFunction   = errors.New("unknown hash function")
	ErrUnsupportedShape  = errors.New("hash function does not support this element shape")
	ErrNotInteger        = errors.New("element is not an integer")
	ErrDuplicateResult   = errors.New("result already recorded for pair")
	ErrFrozen            = errors.New("results already built")
	ErrIllegalTransition = errors.New("illegal pair state transition")
)

// ElementError reports that a single element could not be hashed. The
// orchestrator recovers from it by substituting SentinelCode.
type ElementError struct {
	Dataset  string
	Function string
	Index    int
	Err      error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("hashing element %d of %q with %s: %v", e.Index, e.Dataset, e.Function, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// PairError reports that a whole (dataset, function) pair was skipped.
type PairError struct {
	Dataset  string
	Function string
	Err      error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("skipping %s on %q: %v", e.Function, e.Dataset, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }
