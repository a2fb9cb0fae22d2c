package analytics

import (
	"bytes"
	"strconv"
)

// Span is a half-open index range [Start, End).
type Span struct {
	Start int
	End   int
}

// Len returns the number of indices covered.
func (s Span) Len() int {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

// Empty reports whether the span covers nothing.
func (s Span) Empty() bool { return s.Len() == 0 }

// Contains reports whether i lies inside the span.
func (s Span) Contains(i int) bool { return i >= s.Start && i < s.End }

// Intersect returns the overlap of two spans; disjoint spans give an empty span.
func (s Span) Intersect(o Span) Span {
	out := Span{Start: max(s.Start, o.Start), End: min(s.End, o.End)}
	if out.End < out.Start {
		out.End = out.Start
	}
	return out
}

// Shift moves the span by off indices.
func (s Span) Shift(off int) Span {
	return Span{Start: s.Start + off, End: s.End + off}
}

// Line is an indicator aligned 1:1 with its input. Values outside Defined are zero and
// must be treated as absent.
type Line struct {
	Values  []float64
	Defined Span
}

func absentLine(n int) Line {
	return Line{Values: make([]float64, n)}
}

// Len returns the aligned length, equal to the input length.
func (l Line) Len() int { return len(l.Values) }

// At returns the value at i and whether it is defined.
func (l Line) At(i int) (float64, bool) {
	if !l.Defined.Contains(i) {
		return 0, false
	}
	return l.Values[i], true
}

// Ptr returns a pointer to the value at i, or nil when absent.
func (l Line) Ptr(i int) *float64 {
	v, ok := l.At(i)
	if !ok {
		return nil
	}
	return &v
}

// Last returns the final defined value.
func (l Line) Last() (float64, bool) {
	if l.Defined.Empty() {
		return 0, false
	}
	return l.Values[l.Defined.End-1], true
}

// Ptrs renders the line as a nullable slice.
func (l Line) Ptrs() []*float64 {
	out := make([]*float64, len(l.Values))
	for i := range l.Values {
		out[i] = l.Ptr(i)
	}
	return out
}

// MarshalJSON encodes absent positions as null.
func (l Line) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(l.Values) * 8)
	buf.WriteByte('[')
	for i, v := range l.Values {
		if i > 0 {
			buf.WriteByte(',')
		}
		if !l.Defined.Contains(i) {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
