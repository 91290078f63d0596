package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/go-arrangements/arrangements/internal/bignum"
	"github.com/go-arrangements/arrangements/internal/telemetry"
)

// EnumerateDenseParallel fills the full nRows x m matrix dst by splitting
// the row range into up to nWorkers contiguous stripes and enumerating
// each stripe on its own goroutine. Rows are disjoint slices of the same
// backing array, so no locking is needed and the result is identical
// regardless of worker count.
//
// This generalises the partition-then-fan-out idiom used throughout the
// pack for slice-shaped work (splitting a slice into stripes and handing
// each to a goroutine) to combinatorial row stripes: instead of slicing
// an input slice, each stripe's starting tuple is computed with Unrank,
// so goroutines never need to coordinate or hand off state to each
// other.
//
// start is the rank of the first row in dst; it lets callers enumerate a
// sub-range of a larger space (e.g. a single page of a Cursor) in
// parallel too.
func EnumerateDenseParallel(ctx context.Context, req Request, start bignum.Number, dst []int, nRows, m, nWorkers int) error {
	if nRows == 0 {
		return nil
	}
	if nWorkers < 1 {
		nWorkers = 1
	}
	if nWorkers > nRows {
		nWorkers = nRows
	}
	if nWorkers == 1 {
		z := Unrank(req, start)
		EnumerateDense(req, z, dst, nRows)
		return nil
	}

	telemetry.Log.WithFields(map[string]any{
		"family":   req.Family.String(),
		"rows":     nRows,
		"nWorkers": nWorkers,
	}).Debug("dispatching dense enumeration across workers")

	base := nRows / nWorkers
	extra := nRows % nWorkers

	g, _ := errgroup.WithContext(ctx)
	rowOffset := 0
	for w := 0; w < nWorkers; w++ {
		stripe := base
		if w < extra {
			stripe++
		}
		if stripe == 0 {
			continue
		}
		stripeStart := bignum.FromInt64(int64(rowOffset))
		stripeRank := start.Add(stripeStart)
		dstOff := rowOffset * m
		dstLen := stripe * m

		g.Go(func() error {
			z := Unrank(req, stripeRank)
			EnumerateDense(req, z, dst[dstOff:dstOff+dstLen], stripe)
			return nil
		})

		rowOffset += stripe
	}
	return g.Wait()
}

// DefaultParallelThreshold is the row count below which EnumerateDense is
// run single-threaded: Unrank's cost only pays for itself once each
// worker covers enough rows to amortise it.
const DefaultParallelThreshold = 20000
