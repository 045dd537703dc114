package depthsort

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPositions(t *testing.T, n int, seed int64) []float32 {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	positions := make([]float32, n*3)
	for i := range positions {
		positions[i] = rng.Float32()*200 - 100
	}
	return positions
}

// bucketOf replicates the key/bucket mapping of the sort so ordering tests
// can compare exact bucket values instead of float depths.
func bucketOf(positions []float32, i int, row [3]float32, minKey, maxKey int32) int32 {
	x := positions[i*3]
	y := positions[i*3+1]
	z := positions[i*3+2]
	d := int32((row[0]*x + row[1]*y + row[2]*z) * depthScale)
	scale := float32(bucketCount-1) / float32(maxKey-minKey)
	return int32(float32(d-minKey) * scale)
}

func keyRange(positions []float32, n int, row [3]float32) (minKey, maxKey int32) {
	minKey = int32(1<<31 - 1)
	maxKey = int32(-1 << 31)
	for i := 0; i < n; i++ {
		x := positions[i*3]
		y := positions[i*3+1]
		z := positions[i*3+2]
		d := int32((row[0]*x + row[1]*y + row[2]*z) * depthScale)
		if d < minKey {
			minKey = d
		}
		if d > maxKey {
			maxKey = d
		}
	}
	return minKey, maxKey
}

func TestSortIndices_IsPermutation(t *testing.T) {
	const n = 1000
	positions := randomPositions(t, n, 1)
	row := [3]float32{0.2, -0.7, 1.3}

	for _, strategy := range []Strategy{StrategyNone, StrategyFrontToBack, StrategyBackToFront} {
		out := sortIndices(positions, n, row, strategy)
		require.Len(t, out, n, "strategy %v", strategy)

		seen := make([]bool, n)
		for _, idx := range out {
			require.Less(t, int(idx), n)
			require.False(t, seen[idx], "duplicate index %d under %v", idx, strategy)
			seen[idx] = true
		}
	}
}

func TestSortIndices_FrontToBackIsNonDecreasing(t *testing.T) {
	const n = 500
	positions := randomPositions(t, n, 2)
	row := [3]float32{0, 0, 1}

	out := sortIndices(positions, n, row, StrategyFrontToBack)
	minKey, maxKey := keyRange(positions, n, row)
	for i := 1; i < n; i++ {
		prev := bucketOf(positions, int(out[i-1]), row, minKey, maxKey)
		cur := bucketOf(positions, int(out[i]), row, minKey, maxKey)
		assert.LessOrEqual(t, prev, cur, "position %d", i)
	}
}

func TestSortIndices_BackToFrontIsNonIncreasing(t *testing.T) {
	const n = 500
	positions := randomPositions(t, n, 3)
	row := [3]float32{0.5, 1.5, -0.25}

	out := sortIndices(positions, n, row, StrategyBackToFront)
	minKey, maxKey := keyRange(positions, n, row)
	for i := 1; i < n; i++ {
		prev := bucketOf(positions, int(out[i-1]), row, minKey, maxKey)
		cur := bucketOf(positions, int(out[i]), row, minKey, maxKey)
		assert.GreaterOrEqual(t, prev, cur, "position %d", i)
	}
}

func TestSortIndices_NoneIsIdentity(t *testing.T) {
	const n = 64
	positions := randomPositions(t, n, 4)

	out := sortIndices(positions, n, [3]float32{0, 0, 1}, StrategyNone)
	for i, idx := range out {
		assert.Equal(t, uint32(i), idx)
	}
}

func TestSortIndices_StableWithinBucket(t *testing.T) {
	// Four points at the same depth must keep their original order.
	positions := []float32{
		1, 0, 5,
		2, 0, 5,
		3, 0, 5,
		4, 0, 5,
	}
	out := sortIndices(positions, 4, [3]float32{0, 0, 1}, StrategyBackToFront)
	assert.Equal(t, []uint32{0, 1, 2, 3}, out)
}
