package depthsort

const (
	// bucketCount is the number of counting-sort buckets. Depth keys are
	// remapped linearly onto [0, bucketCount).
	bucketCount = 65536

	// depthScale converts a projective depth value to an integer key. The
	// fractional depth resolution below 1/depthScale is deliberately
	// discarded; points that close in depth land in the same bucket and
	// keep their original relative order (the scatter is stable).
	depthScale = 4096
)

// sortIndices produces a permutation of [0, vertexCount) ordered by the
// projective depth of each point, computed as the dot product of the
// view-projection depth row with the point position. The sort is a stable
// counting sort: O(N + bucketCount) time, no comparisons.
//
// StrategyFrontToBack orders by non-decreasing depth, StrategyBackToFront
// by non-increasing depth, StrategyNone short-circuits to the identity
// permutation.
//
// Parameters:
//   - positions: packed xyz float triples, at least vertexCount*3 long
//   - vertexCount: the number of points to order
//   - row: the camera-space depth row of the view-projection matrix
//   - strategy: the ordering strategy
//
// Returns:
//   - []uint32: the permutation; caller owns the returned buffer
func sortIndices(positions []float32, vertexCount int, row [3]float32, strategy Strategy) []uint32 {
	out := make([]uint32, vertexCount)
	if strategy == StrategyNone {
		for i := range out {
			out[i] = uint32(i)
		}
		return out
	}

	// Integer depth key per point, tracking the global range.
	keys := make([]int32, vertexCount)
	minKey := int32(1<<31 - 1)
	maxKey := int32(-1 << 31)
	for i := 0; i < vertexCount; i++ {
		x := positions[i*3]
		y := positions[i*3+1]
		z := positions[i*3+2]
		d := int32((row[0]*x + row[1]*y + row[2]*z) * depthScale)
		keys[i] = d
		if d < minKey {
			minKey = d
		}
		if d > maxKey {
			maxKey = d
		}
	}

	if maxKey == minKey {
		// All points share one depth bucket; any order is a valid ordering.
		for i := range out {
			out[i] = uint32(i)
		}
		return out
	}

	// Remap keys to buckets and tally per-bucket counts.
	counts := make([]uint32, bucketCount)
	scale := float32(bucketCount-1) / float32(maxKey-minKey)
	for i := 0; i < vertexCount; i++ {
		b := int32(float32(keys[i]-minKey) * scale)
		keys[i] = b
		counts[b]++
	}

	// Prefix sums give each bucket's starting write offset: ascending for
	// front-to-back (smallest depth first), descending for back-to-front
	// (largest depth, i.e. farthest, first).
	starts := make([]uint32, bucketCount)
	if strategy == StrategyFrontToBack {
		var offset uint32
		for b := 0; b < bucketCount; b++ {
			starts[b] = offset
			offset += counts[b]
		}
	} else {
		var offset uint32
		for b := bucketCount - 1; b >= 0; b-- {
			starts[b] = offset
			offset += counts[b]
		}
	}

	// Stable scatter: points within a bucket keep their original order.
	for i := 0; i < vertexCount; i++ {
		b := keys[i]
		out[starts[b]] = uint32(i)
		starts[b]++
	}
	return out
}
