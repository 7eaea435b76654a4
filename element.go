package hashbench

import (
	"strconv"
	"strings"
)

// Kind tells whether an element is a single scalar or an ordered row of fields.
type Kind uint8

const (
	KindScalar Kind = iota
	KindRow
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindRow:
		return "row"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Element is one dataset entry. It is either a scalar (stored in its textual
// form) or a fixed-arity row of textual fields. The zero value is the empty
// scalar.
type Element struct {
	kind   Kind
	fields []string
}

// Scalar returns a scalar element with the given text.
func Scalar(text string) Element {
	return Element{kind: KindScalar, fields: []string{text}}
}

// Int returns a scalar element holding the decimal form of v.
func Int(v int64) Element {
	return Scalar(strconv.FormatInt(v, 10))
}

// Float returns a scalar element holding the shortest form of v that
// round-trips.
func Float(v float64) Element {
	return Scalar(strconv.FormatFloat(v, 'g', -1, 64))
}

// Row returns a row element. The fields are copied.
func Row(fields ...string) Element {
	f := make([]string, len(fields))
	copy(f, fields)
	return Element{kind: KindRow, fields: f}
}

func (e Element) Kind() Kind { return e.kind }

// Arity is the number of fields of a row, 1 for scalars.
func (e Element) Arity() int {
	if e.kind == KindScalar {
		return 1
	}
	return len(e.fields)
}

// Fields returns a copy of the row fields. For a scalar it returns a single
// field holding the scalar text.
func (e Element) Fields() []string {
	if e.kind == KindScalar {
		return []string{e.scalar()}
	}
	f := make([]string, len(e.fields))
	copy(f, e.fields)
	return f
}

// Text returns the canonical textual representation of the element: the
// scalar text itself, or ("f1", "f2", ...) for rows with every field quoted
// by strconv.Quote, so distinct rows never share a text. Functions without
// native row support hash this form.
func (e Element) Text() string {
	if e.kind == KindScalar {
		return e.scalar()
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, f := range e.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(f))
	}
	b.WriteByte(')')
	return b.String()
}

func (e Element) String() string { return e.Text() }

func (e Element) scalar() string {
	if len(e.fields) == 0 {
		return ""
	}
	return e.fields[0]
}
