// Copyright (c) 2018 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package tdigest

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testQuantiles = []float64{0.5, 0.95, 0.99}
)

func testTDigestOptions() Options {
	return NewOptions()
}

func TestEmptyTDigest(t *testing.T) {
	d := NewTDigest(testTDigestOptions())
	require.True(t, d.Empty())
	require.Equal(t, 0.0, d.Count())
	require.Equal(t, 0.0, d.Sum())
	require.Equal(t, 0.0, d.Mean())
	for _, q := range testQuantiles {
		require.Equal(t, 0.0, d.Quantile(q))
	}
}

func TestTDigestFromState(t *testing.T) {
	centroids := []Centroid{
		{Mean: 1.0, Weight: 2.0},
		{Mean: 3.0, Weight: 1.0},
	}
	d, err := NewTDigestFromState(centroids, 5.0, 3.0, 3.0, 1.0, testTDigestOptions())
	require.NoError(t, err)
	require.Equal(t, 3.0, d.Count())
	require.Equal(t, 5.0, d.Sum())
	require.Equal(t, 1.0, d.Min())
	require.Equal(t, 3.0, d.Max())
	require.Equal(t, centroids, d.Centroids())
}

func TestTDigestFromStateTooManyCentroids(t *testing.T) {
	centroids := []Centroid{
		{Mean: 1.0, Weight: 1.0},
		{Mean: 2.0, Weight: 1.0},
		{Mean: 3.0, Weight: 1.0},
	}
	opts := testTDigestOptions().SetMaxSize(2)
	_, err := NewTDigestFromState(centroids, 6.0, 3.0, 3.0, 1.0, opts)
	require.Error(t, err)
}

func TestTDigestMergeSortedEmptyBatch(t *testing.T) {
	d := NewTDigest(testTDigestOptions()).MergeSorted([]float64{1.0, 2.0, 3.0})
	merged := d.MergeSorted(nil)
	require.True(t, d == merged)

	merged = d.MergeUnsorted(nil)
	require.True(t, d == merged)
}

func TestTDigestMergeSortedNeverMutatesReceiver(t *testing.T) {
	d := NewTDigest(testTDigestOptions()).MergeSorted([]float64{1.0, 2.0, 3.0})
	count, sum := d.Count(), d.Sum()
	centroids := append([]Centroid(nil), d.Centroids()...)

	d.MergeSorted([]float64{4.0, 5.0, 6.0})
	require.Equal(t, count, d.Count())
	require.Equal(t, sum, d.Sum())
	require.Equal(t, centroids, d.Centroids())
}

func TestTDigestWithOneValue(t *testing.T) {
	d := NewTDigest(testTDigestOptions()).MergeSorted([]float64{100.0})
	require.Equal(t, 1.0, d.Count())
	require.Equal(t, 100.0, d.Sum())
	require.Equal(t, 100.0, d.Min())
	require.Equal(t, 100.0, d.Max())
	for _, q := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		require.Equal(t, 100.0, d.Quantile(q))
	}
}

func TestTDigestMergeSortedLargeOrdered(t *testing.T) {
	numSamples := 1000000
	values := make([]float64, 0, numSamples)
	for i := 1; i <= numSamples; i++ {
		values = append(values, float64(i))
	}

	d := NewTDigest(testTDigestOptions()).MergeSorted(values)
	require.Equal(t, float64(numSamples), d.Count())
	require.Equal(t, 1.0, d.Min())
	require.Equal(t, float64(numSamples), d.Max())

	require.InEpsilon(t, 990000.0, d.Quantile(0.99), 0.01)
	require.InEpsilon(t, 10000.0, d.Quantile(0.01), 0.01)
	require.InEpsilon(t, 500000.0, d.Quantile(0.5), 0.01)
}

func TestTDigestMergeUnsortedRandomBatches(t *testing.T) {
	var (
		numSamples = 100000
		batchSize  = 1000
		rnd        = rand.New(rand.NewSource(100))
		d          = NewTDigest(testTDigestOptions())
		sum        float64
	)
	for i := 0; i < numSamples/batchSize; i++ {
		batch := make([]float64, 0, batchSize)
		for j := 0; j < batchSize; j++ {
			v := rnd.Float64() * 1e6
			sum += v
			batch = append(batch, v)
		}
		d = d.MergeUnsorted(batch)
	}

	require.Equal(t, float64(numSamples), d.Count())
	require.InDelta(t, sum, d.Sum(), math.Abs(sum)*1e-9)
	for _, q := range testQuantiles {
		require.InEpsilon(t, q*1e6, d.Quantile(q), 0.01)
	}
}

func TestTDigestMergeUnsortedDropsNonFinite(t *testing.T) {
	values := []float64{1.0, math.NaN(), 2.0, math.Inf(1), 3.0, math.Inf(-1)}
	d := NewTDigest(testTDigestOptions()).MergeUnsorted(values)
	require.Equal(t, 3.0, d.Count())
	require.Equal(t, 6.0, d.Sum())
	require.Equal(t, 1.0, d.Min())
	require.Equal(t, 3.0, d.Max())
}

func TestTDigestCompressionBound(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(42))
		d   = NewTDigest(testTDigestOptions())
	)
	for i := 0; i < 100; i++ {
		batch := make([]float64, 0, 5000)
		for j := 0; j < 5000; j++ {
			batch = append(batch, rnd.NormFloat64())
		}
		d = d.MergeUnsorted(batch)

		// Merging into a previously-compressed digest stays within the
		// configured bound.
		require.True(t, len(d.Centroids()) <= d.MaxSize())
	}
}

func TestTDigestCentroidInvariants(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(7))
		d   = NewTDigest(testTDigestOptions())
	)
	for i := 0; i < 50; i++ {
		batch := make([]float64, 0, 2000)
		for j := 0; j < 2000; j++ {
			batch = append(batch, rnd.ExpFloat64()*100)
		}
		d = d.MergeUnsorted(batch)

		var weightSum float64
		centroids := d.Centroids()
		for k, c := range centroids {
			weightSum += c.Weight
			if k > 0 {
				require.True(t, centroids[k-1].Mean <= c.Mean)
			}
		}
		require.InDelta(t, d.Count(), weightSum, 1e-6)
	}
}

func TestTDigestQuantileMonotonic(t *testing.T) {
	var (
		rnd    = rand.New(rand.NewSource(11))
		values = make([]float64, 0, 10000)
	)
	for i := 0; i < 10000; i++ {
		values = append(values, rnd.NormFloat64()*1000)
	}
	d := NewTDigest(testTDigestOptions()).MergeUnsorted(values)

	prev := math.Inf(-1)
	for q := 0.0; q <= 1.0; q += 0.001 {
		curr := d.Quantile(q)
		require.True(t, curr >= prev, "quantile decreased at q=%v", q)
		prev = curr
	}
}

func TestTDigestQuantileMonotonicUnevenCentroids(t *testing.T) {
	// Two tightly-spaced centroids flanked by distant neighbors: the
	// interpolation slopes on each side of the shared boundary differ, so
	// the windows must not overlap.
	centroids := []Centroid{
		{Mean: 0.0, Weight: 1.0},
		{Mean: 10.0, Weight: 1.0},
		{Mean: 11.0, Weight: 1.0},
		{Mean: 21.0, Weight: 1.0},
	}
	d, err := NewTDigestFromState(centroids, 42.0, 4.0, 21.0, 0.0, testTDigestOptions())
	require.NoError(t, err)

	prev := math.Inf(-1)
	for q := 0.0; q <= 1.0; q += 0.0001 {
		curr := d.Quantile(q)
		require.True(t, curr >= prev, "quantile decreased at q=%v", q)
		prev = curr
	}

	// The boundary between the inner centroids sits at their midpoint.
	require.InDelta(t, 10.5, d.Quantile(0.5), 1e-9)
}

func TestTDigestQuantileOutOfRange(t *testing.T) {
	d := NewTDigest(testTDigestOptions()).MergeSorted([]float64{1.0, 2.0, 3.0, 4.0})
	require.Equal(t, d.Min(), d.Quantile(-0.5))
	require.Equal(t, d.Min(), d.Quantile(0.0))
	require.Equal(t, d.Max(), d.Quantile(1.0))
	require.Equal(t, d.Max(), d.Quantile(1.5))
}

func TestTDigestMaxSizeZero(t *testing.T) {
	opts := testTDigestOptions().SetMaxSize(0)
	values := make([]float64, 0, 1000)
	for i := 0; i < 1000; i++ {
		values = append(values, float64(i))
	}

	// With no compression slots every merged item keeps its own centroid.
	d := NewTDigest(opts).MergeSorted(values)
	require.Equal(t, 1000, len(d.Centroids()))
	require.Equal(t, 1000.0, d.Count())
	require.InDelta(t, 499.5, d.Quantile(0.5), 1.0)
}

func TestTDigestMean(t *testing.T) {
	d := NewTDigest(testTDigestOptions()).MergeUnsorted([]float64{2.0, 4.0, 6.0, 8.0})
	require.Equal(t, 5.0, d.Mean())
	require.Equal(t, 20.0, d.Sum())
}

func TestTDigestClone(t *testing.T) {
	d := NewTDigest(testTDigestOptions()).MergeUnsorted([]float64{3.0, 1.0, 2.0})
	clone := d.Clone()
	require.Equal(t, d.Count(), clone.Count())
	require.Equal(t, d.Sum(), clone.Sum())
	require.Equal(t, d.Min(), clone.Min())
	require.Equal(t, d.Max(), clone.Max())
	require.Equal(t, d.Centroids(), clone.Centroids())

	// The clone stays queryable after the original is released.
	d.Close()
	require.Equal(t, 3.0, clone.Count())
	require.Equal(t, 1.0, clone.Quantile(0.0))
	require.Equal(t, 3.0, clone.Quantile(1.0))
}

func TestTDigestClose(t *testing.T) {
	d := NewTDigest(testTDigestOptions()).MergeSorted([]float64{1.0, 2.0})
	require.False(t, d.closed)

	d.Close()
	require.True(t, d.closed)
	require.Nil(t, d.centroids)

	// Closing again is a no-op.
	d.Close()
	require.True(t, d.closed)
}
