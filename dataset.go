package hashbench

import "fmt"

// Dataset is a named, immutable, ordered sequence of elements of one shape.
type Dataset struct {
	name     string
	kind     Kind
	arity    int
	elements []Element
}

// NewDataset validates the elements and returns a dataset owning a private
// copy of them. All elements must share one kind, and rows must share one
// arity. An empty dataset is valid and reports KindScalar.
func NewDataset(name string, elements []Element) (*Dataset, error) {
	if name == "" {
		return nil, ErrUnnamedDataset
	}
	ds := &Dataset{name: name, kind: KindScalar, arity: 1}
	if len(elements) == 0 {
		return ds, nil
	}
	ds.kind = elements[0].Kind()
	ds.arity = elements[0].Arity()
	for i, e := range elements {
		if e.Kind() != ds.kind {
			return nil, fmt.Errorf("dataset %q element %d is a %s, want %s: %w", name, i, e.Kind(), ds.kind, ErrMixedShape)
		}
		if e.Arity() != ds.arity {
			return nil, fmt.Errorf("dataset %q element %d has %d fields, want %d: %w", name, i, e.Arity(), ds.arity, ErrArity)
		}
	}
	ds.elements = make([]Element, len(elements))
	copy(ds.elements, elements)
	return ds, nil
}

// MustDataset is like NewDataset but panics on invalid input. It is meant for
// fixtures and tests.
func MustDataset(name string, elements ...Element) *Dataset {
	ds, err := NewDataset(name, elements)
	if err != nil {
		panic(err)
	}
	return ds
}

// Strings builds a scalar dataset from plain strings.
func Strings(name string, values ...string) *Dataset {
	elems := make([]Element, len(values))
	for i, v := range values {
		elems[i] = Scalar(v)
	}
	return MustDataset(name, elems...)
}

func (d *Dataset) Name() string { return d.name }
func (d *Dataset) Kind() Kind   { return d.kind }

// Arity is the field count shared by all elements (1 for scalar datasets).
func (d *Dataset) Arity() int { return d.arity }
func (d *Dataset) Len() int   { return len(d.elements) }

// At returns the i-th element.
func (d *Dataset) At(i int) Element { return d.elements[i] }
