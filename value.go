package lptable

import "slices"

// Kind identifies a Value variant.
type Kind uint8

const (
	KindInt32 Kind = iota + 1
	KindFloat
	KindString
	KindInt32s
	KindFloats
	KindStrings
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindInt32s:
		return "int32s"
	case KindFloats:
		return "floats"
	case KindStrings:
		return "strings"
	}
	return "unknown"
}

// Value is the closed set of values a Table stores. Only the six types in
// this package implement it:
//
//   - Int32
//   - Float
//   - String
//   - Int32s
//   - Floats
//   - Strings
type Value interface {
	Kind() Kind
	sealed()
}

type (
	Int32   int32
	Float   float64
	String  string
	Int32s  []int32
	Floats  []float64
	Strings []string
)

func (Int32) Kind() Kind   { return KindInt32 }
func (Float) Kind() Kind   { return KindFloat }
func (String) Kind() Kind  { return KindString }
func (Int32s) Kind() Kind  { return KindInt32s }
func (Floats) Kind() Kind  { return KindFloats }
func (Strings) Kind() Kind { return KindStrings }

func (Int32) sealed()   {}
func (Float) sealed()   {}
func (String) sealed()  {}
func (Int32s) sealed()  {}
func (Floats) sealed()  {}
func (Strings) sealed() {}

// Equal reports whether a and b are the same variant holding the same data.
// A nil sequence equals an empty one. Floats compare with ==, so NaN never
// equals itself.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Int32:
		bv, ok := b.(Int32)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Int32s:
		bv, ok := b.(Int32s)
		return ok && slices.Equal(av, bv)
	case Floats:
		bv, ok := b.(Floats)
		return ok && slices.Equal(av, bv)
	case Strings:
		bv, ok := b.(Strings)
		return ok && slices.Equal(av, bv)
	}
	return false
}

// cloneValue copies sequence variants so the table never shares backing
// arrays with callers.
func cloneValue(v Value) Value {
	switch x := v.(type) {
	case Int32s:
		return Int32s(slices.Clone(x))
	case Floats:
		return Floats(slices.Clone(x))
	case Strings:
		return Strings(slices.Clone(x))
	}
	return v
}
