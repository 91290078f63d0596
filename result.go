package arrangements

import "github.com/go-arrangements/arrangements/internal/bignum"

// Number is the public alias for the Small/Big cardinality representation
// returned by Count and exposed through Cursor.Summary: exact float64
// while the value fits, arbitrary precision beyond.
type Number = bignum.Number

// Matrix is the dense row-major result of a Combinatorics call, allocated
// once at its final size. When KeepResult was set, the trailing column of
// every row holds the aggregate value for that row and is not part of the
// enumerated tuple itself.
type Matrix struct {
	Rows, Cols int
	Data       []float64
}

// Row returns the r-th row (0-based) as a slice sharing Data's backing
// array.
func (m Matrix) Row(r int) []float64 {
	return m.Data[r*m.Cols : r*m.Cols+m.Cols]
}
