// Package kindpart groups a sequence of n items into contiguous blocks by an
// integer "kind" in [0, numClasses), preserving kind order and, within a
// kind, the original relative order of items.
//
// The technique is the counting move used to split a block of a set
// partition into subblocks by class membership: count how many items fall
// in each class, turn the counts into half-open boundary offsets, then
// walk the items once, writing each into its class's next reserved slot
// of a fresh order slice. It is the same move used to build the coarsest refinement
// of a partition under a family of functions, specialised here to a single,
// non-recursive pass with no witness or splitting-tree bookkeeping, since
// callers only need "which indices share a kind", not a lowest-common-
// ancestor or a minimal distinguishing sequence.
package kindpart

// Partition is a grouping of the integers [0, n) into blocks, one per kind,
// ordered by kind.
type Partition struct {
	order  []int // order[i] is the i-th index in block order
	bounds []int // bounds[k] is the first position in order belonging to kind k; bounds[numClasses] == n
}

// GroupByKind partitions [0, n) into numClasses blocks using class(i) to
// assign each index its kind. class must return a value in
// [0, numClasses) for every i in [0, n).
func GroupByKind(n, numClasses int, class func(i int) int) *Partition {
	counts := make([]int, numClasses+1)
	kinds := make([]int, n)
	for i := 0; i < n; i++ {
		k := class(i)
		kinds[i] = k
		counts[k+1]++
	}

	// Turn per-kind counts into boundary offsets (a running prefix sum),
	// then consume a cursor per kind as items are placed.
	bounds := make([]int, numClasses+1)
	for k := 0; k < numClasses; k++ {
		bounds[k+1] = bounds[k] + counts[k+1]
	}

	cursor := make([]int, numClasses)
	copy(cursor, bounds[:numClasses])

	order := make([]int, n)
	for i := 0; i < n; i++ {
		k := kinds[i]
		order[cursor[k]] = i
		cursor[k]++
	}

	return &Partition{order: order, bounds: bounds}
}

// Block returns the indices belonging to kind k, in their original
// relative order.
func (p *Partition) Block(k int) []int {
	if k < 0 || k+1 >= len(p.bounds) {
		return nil
	}
	return p.order[p.bounds[k]:p.bounds[k+1]]
}

// NumBlocks returns the number of kinds the partition was built with,
// including kinds with an empty block.
func (p *Partition) NumBlocks() int {
	return len(p.bounds) - 1
}

// Len returns the total number of items partitioned.
func (p *Partition) Len() int {
	return len(p.order)
}
