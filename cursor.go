package arrangements

import (
	"github.com/go-arrangements/arrangements/internal/bignum"
	"github.com/go-arrangements/arrangements/internal/engine"
)

// cursorState tracks where the cursor sits relative to the enumeration:
// one step before the first tuple (the initial state), on a tuple, or one
// step past the last tuple. The two boundary states are idempotent under
// further Next/Prev calls, matching the successor contract.
type cursorState int

const (
	beforeFirst cursorState = iota
	onTuple
	afterLast
)

// Cursor is the stateful iterator facade over a single enumeration
// request: it owns its index tuple, its rank, and a reference to the
// immutable request, and walks the family with Successor/Predecessor,
// re-seeding via Unrank on Jump/Front/Back. Concurrent use by multiple
// goroutines is not supported; callers must synchronise externally.
type Cursor struct {
	req   engine.Request
	v     []float64
	freqs []int // expanded slot->kind list, multiset families only
	total Number

	state cursorState
	rank  bignum.Number // rank of the current tuple, valid only when state == onTuple
	z     []int
}

// NewCursor validates opts and returns a cursor positioned before the
// first tuple, so that the first Next call yields rank 0. Constraint
// options are not supported on cursors; the constrained paths are not
// rank-addressable.
func NewCursor(opts Options) (*Cursor, error) {
	if err := validateOptions(&opts); err != nil {
		return nil, err
	}
	if opts.hasConstraint() {
		return nil, invalidInput("comparison", "cursors do not support aggregate constraints")
	}
	var freqs []int
	if opts.Freqs != nil {
		freqs = expandFreqs(opts.Freqs)
	}
	req, err := buildRequest(opts, opts.V, freqs)
	if err != nil {
		return nil, err
	}
	return &Cursor{
		req:   req,
		v:     append([]float64(nil), opts.V...),
		freqs: freqs,
		total: engine.Count(req),
		state: beforeFirst,
	}, nil
}

// Next advances to the following tuple and returns it, or (nil, false)
// once the enumeration is exhausted. Calling Next again after exhaustion
// keeps returning (nil, false).
func (c *Cursor) Next() ([]float64, bool) {
	switch c.state {
	case beforeFirst:
		if c.total.Cmp(bignum.FromInt64(0)) == 0 {
			c.state = afterLast
			return nil, false
		}
		c.seek(bignum.FromInt64(0))
	case onTuple:
		if !engine.Successor(c.req, c.z) {
			c.state = afterLast
			return nil, false
		}
		c.rank = c.rank.Add(bignum.FromInt64(1))
	case afterLast:
		return nil, false
	}
	return c.row(), true
}

// Prev moves to the preceding tuple and returns it, or (nil, false) when
// the cursor walks off the front. From the past-the-end state it returns
// the last tuple, mirroring Next from the initial state.
func (c *Cursor) Prev() ([]float64, bool) {
	switch c.state {
	case afterLast:
		if c.total.Cmp(bignum.FromInt64(0)) == 0 {
			c.state = beforeFirst
			return nil, false
		}
		c.seek(c.total.Sub(bignum.FromInt64(1)))
	case onTuple:
		if !engine.Predecessor(c.req, c.z) {
			c.state = beforeFirst
			return nil, false
		}
		c.rank = c.rank.Sub(bignum.FromInt64(1))
	case beforeFirst:
		return nil, false
	}
	return c.row(), true
}

// NextK advances up to k steps, returning the visited tuples as a matrix.
// The result has fewer than k rows when the back boundary is hit.
func (c *Cursor) NextK(k int) Matrix {
	return c.page(k, c.Next)
}

// PrevK mirrors NextK in the other direction. Rows appear in visit order,
// i.e. descending rank.
func (c *Cursor) PrevK(k int) Matrix {
	return c.page(k, c.Prev)
}

func (c *Cursor) page(k int, step func() ([]float64, bool)) Matrix {
	m := c.req.M
	data := make([]float64, 0, k*m)
	rows := 0
	for i := 0; i < k; i++ {
		row, ok := step()
		if !ok {
			break
		}
		data = append(data, row...)
		rows++
	}
	return Matrix{Rows: rows, Cols: m, Data: data}
}

// Current returns the tuple the cursor sits on, or (nil, false) when the
// cursor is at either boundary.
func (c *Cursor) Current() ([]float64, bool) {
	if c.state != onTuple {
		return nil, false
	}
	return c.row(), true
}

// Front jumps to rank 0 and returns the first tuple.
func (c *Cursor) Front() ([]float64, bool) {
	return c.jumpTo(bignum.FromInt64(0))
}

// Back jumps to rank N-1 and returns the last tuple.
func (c *Cursor) Back() ([]float64, bool) {
	return c.jumpTo(c.total.Sub(bignum.FromInt64(1)))
}

// Jump repositions the cursor at the given 0-based rank.
func (c *Cursor) Jump(rank int64) ([]float64, error) {
	r := bignum.FromInt64(rank)
	if rank < 0 || r.Cmp(c.total) >= 0 {
		return nil, invalidInput("index", "rank %d out of range [0, %v)", rank, c.total.Float64())
	}
	row, ok := c.jumpTo(r)
	if !ok {
		invariantf("jump to in-range rank %d found no tuple", rank)
	}
	return row, nil
}

func (c *Cursor) jumpTo(rank bignum.Number) ([]float64, bool) {
	if c.total.Cmp(bignum.FromInt64(0)) == 0 || rank.Cmp(bignum.FromInt64(0)) < 0 || rank.Cmp(c.total) >= 0 {
		return nil, false
	}
	c.seek(rank)
	return c.row(), true
}

func (c *Cursor) seek(rank bignum.Number) {
	c.z = engine.Unrank(c.req, rank)
	c.rank = rank
	c.state = onTuple
}

func (c *Cursor) row() []float64 {
	return mapRow(c.req.Family, c.v, c.freqs, c.z)
}

// Summary describes the cursor's position. Rank is the 0-based rank of
// the current tuple; when the cursor sits at a boundary, AtTuple is false
// and Rank is meaningless.
type Summary struct {
	Family  string
	N       int
	M       int
	AtTuple bool
	Rank    Number
	Total   Number
}

func (c *Cursor) Summary() Summary {
	return Summary{
		Family:  c.req.Family.String(),
		N:       c.req.N,
		M:       c.req.M,
		AtTuple: c.state == onTuple,
		Rank:    c.rank,
		Total:   c.total,
	}
}

// SourceVector returns a copy of the base sequence v the cursor enumerates
// over.
func (c *Cursor) SourceVector() []float64 {
	return append([]float64(nil), c.v...)
}
