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
	"sort"

	"github.com/pkg/errors"
)

// TDigest is a compressed sketch of a distribution composed of centroids
// ordered ascending by mean plus global aggregates. Merge operations
// return a new digest and never mutate the receiver.
type TDigest struct {
	centroids []Centroid // centroids ordered ascending by mean
	maxSize   int        // target bound on the number of centroids
	sum       float64    // sum of all merged values
	count     float64    // total number of merged values
	min       float64    // minimum merged value, meaningful iff non-empty
	max       float64    // maximum merged value, meaningful iff non-empty
	opts      Options
	closed    bool
}

// NewTDigest creates a new empty t-digest. A max size of 0 disables
// compression entirely, leaving one centroid per merged item.
func NewTDigest(opts Options) *TDigest {
	return &TDigest{
		maxSize: opts.MaxSize(),
		opts:    opts,
	}
}

// NewTDigestFromState creates a t-digest from previously captured state.
// The centroids must be ordered ascending by mean and may not exceed the
// configured max size.
func NewTDigestFromState(
	centroids []Centroid,
	sum, count, max, min float64,
	opts Options,
) (*TDigest, error) {
	if len(centroids) > opts.MaxSize() {
		return nil, errors.Errorf(
			"invalid digest state: %d centroids exceeds max size %d",
			len(centroids), opts.MaxSize())
	}
	return &TDigest{
		centroids: centroids,
		maxSize:   opts.MaxSize(),
		sum:       sum,
		count:     count,
		min:       min,
		max:       max,
		opts:      opts,
	}, nil
}

// Mean returns the mean of all merged values.
func (d *TDigest) Mean() float64 {
	if d.count > 0 {
		return d.sum / d.count
	}
	return 0.0
}

// Sum returns the sum of all merged values.
func (d *TDigest) Sum() float64 { return d.sum }

// Count returns the number of merged values.
func (d *TDigest) Count() float64 { return d.count }

// Min returns the minimum merged value, or 0 if the digest is empty.
func (d *TDigest) Min() float64 { return d.min }

// Max returns the maximum merged value, or 0 if the digest is empty.
func (d *TDigest) Max() float64 { return d.max }

// MaxSize returns the target bound on the number of centroids.
func (d *TDigest) MaxSize() int { return d.maxSize }

// Empty returns whether the digest holds any merged values.
func (d *TDigest) Empty() bool { return len(d.centroids) == 0 }

// Centroids returns the digest's centroids. The returned slice is shared
// with the digest and must not be mutated.
func (d *TDigest) Centroids() []Centroid { return d.centroids }

// MergeUnsorted merges a batch of values into the digest, returning the
// merged digest as a new value. Non-finite values are dropped.
func (d *TDigest) MergeUnsorted(values []float64) *TDigest {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sorted = append(sorted, v)
	}
	sort.Float64s(sorted)
	return d.MergeSorted(sorted)
}

// MergeSorted merges a batch of values into the digest, returning the
// merged digest as a new value. The batch must be finite and sorted
// ascending; an empty batch returns the receiver unchanged.
func (d *TDigest) MergeSorted(sortedValues []float64) *TDigest {
	if len(sortedValues) == 0 {
		return d
	}

	result := NewTDigest(d.opts)
	result.count = d.count + float64(len(sortedValues))

	batchMin := sortedValues[0]
	batchMax := sortedValues[len(sortedValues)-1]
	if d.count > 0 {
		result.min = math.Min(d.min, batchMin)
		result.max = math.Max(d.max, batchMax)
	} else {
		result.min = batchMin
		result.max = batchMax
	}

	var (
		compressed       = d.opts.CentroidsPool().Get(d.maxSize + 1)
		kLimit           = 1.0
		qLimitTimesCount = kToQ(kLimit, float64(d.maxSize)) * result.count
		centroidIndex    int
		valueIndex       int
	)
	kLimit++

	curr := d.nextPending(&centroidIndex, sortedValues, &valueIndex)
	weightSoFar := curr.Weight

	var sumsToMerge, weightsToMerge float64
	for centroidIndex < len(d.centroids) || valueIndex < len(sortedValues) {
		next := d.nextPending(&centroidIndex, sortedValues, &valueIndex)
		weightSoFar += next.Weight

		if weightSoFar <= qLimitTimesCount {
			sumsToMerge += next.Mean * next.Weight
			weightsToMerge += next.Weight
		} else {
			result.sum += curr.Add(sumsToMerge, weightsToMerge)
			sumsToMerge, weightsToMerge = 0.0, 0.0

			compressed = d.appendCentroid(compressed, curr)
			qLimitTimesCount = kToQ(kLimit, float64(d.maxSize)) * result.count
			kLimit++
			curr = next
		}
	}

	result.sum += curr.Add(sumsToMerge, weightsToMerge)
	compressed = d.appendCentroid(compressed, curr)
	sort.Sort(centroidsByMeanAsc(compressed))

	result.centroids = compressed
	return result
}

// Quantile estimates the value at quantile q. An empty digest yields 0;
// q at or below 0 yields the minimum and q at or above 1 the maximum.
// Estimates are non-decreasing in q.
func (d *TDigest) Quantile(q float64) float64 {
	if len(d.centroids) == 0 {
		return 0.0
	}

	rank := q * d.count

	var (
		pos int
		t   float64
	)
	if q > 0.5 {
		if q >= 1.0 {
			return d.max
		}

		// Scan backward so ties break toward the upper centroid.
		pos = 0
		t = d.count
		for k := len(d.centroids) - 1; k >= 0; k-- {
			t -= d.centroids[k].Weight
			if rank >= t {
				pos = k
				break
			}
		}
	} else {
		if q <= 0.0 {
			return d.min
		}

		// Scan forward so ties break toward the lower centroid.
		pos = len(d.centroids) - 1
		t = 0.0
		for k, c := range d.centroids {
			if rank < t+c.Weight {
				pos = k
				break
			}
			t += c.Weight
		}
	}

	var (
		delta      float64
		lowerBound = d.min
		upperBound = d.max
	)
	// The windows of adjacent centroids meet at the midpoint between their
	// means, so interpolated values cannot invert across a centroid boundary.
	if len(d.centroids) > 1 {
		switch pos {
		case 0:
			delta = d.centroids[pos+1].Mean - d.centroids[pos].Mean
			upperBound = (d.centroids[pos].Mean + d.centroids[pos+1].Mean) / 2.0
		case len(d.centroids) - 1:
			delta = d.centroids[pos].Mean - d.centroids[pos-1].Mean
			lowerBound = (d.centroids[pos-1].Mean + d.centroids[pos].Mean) / 2.0
		default:
			delta = (d.centroids[pos+1].Mean - d.centroids[pos-1].Mean) / 2.0
			lowerBound = (d.centroids[pos-1].Mean + d.centroids[pos].Mean) / 2.0
			upperBound = (d.centroids[pos].Mean + d.centroids[pos+1].Mean) / 2.0
		}
	}

	value := d.centroids[pos].Mean + ((rank-t)/d.centroids[pos].Weight-0.5)*delta
	return clamp(value, lowerBound, upperBound)
}

// Clone returns an independent copy of the digest.
func (d *TDigest) Clone() *TDigest {
	clone := NewTDigest(d.opts)
	clone.sum = d.sum
	clone.count = d.count
	clone.min = d.min
	clone.max = d.max
	if len(d.centroids) > 0 {
		centroids := d.opts.CentroidsPool().Get(len(d.centroids))
		clone.centroids = append(centroids, d.centroids...)
	}
	return clone
}

// Close releases the digest's centroids back to the pool. The digest
// must not be used after it is closed.
func (d *TDigest) Close() {
	if d.closed {
		return
	}
	d.closed = true
	if d.centroids != nil {
		d.opts.CentroidsPool().Put(d.centroids)
		d.centroids = nil
	}
}

// nextPending pops whichever of the next existing centroid or the next
// batch value has the smaller mean, preferring the centroid only when
// its mean is strictly less than the pending value.
func (d *TDigest) nextPending(
	centroidIndex *int,
	sortedValues []float64,
	valueIndex *int,
) Centroid {
	if *centroidIndex < len(d.centroids) &&
		(*valueIndex >= len(sortedValues) ||
			d.centroids[*centroidIndex].Mean < sortedValues[*valueIndex]) {
		next := d.centroids[*centroidIndex]
		*centroidIndex++
		return next
	}
	next := Centroid{Mean: sortedValues[*valueIndex], Weight: 1.0}
	*valueIndex++
	return next
}

func (d *TDigest) appendCentroid(centroids []Centroid, c Centroid) []Centroid {
	if len(centroids) == cap(centroids) {
		newCentroids := d.opts.CentroidsPool().Get(2 * len(centroids))
		newCentroids = append(newCentroids, centroids...)
		d.opts.CentroidsPool().Put(centroids)
		centroids = newCentroids
	}
	return append(centroids, c)
}

// kToQ is the scale function bounding the cumulative weight fraction a
// compressed centroid at slot k out of d may absorb. It keeps centroids
// near the tails small for higher quantile resolution at the extremes.
func kToQ(k, d float64) float64 {
	kDivD := k / d
	if kDivD >= 0.5 {
		base := 1.0 - kDivD
		return 1.0 - 2.0*base*base
	}
	return 2.0 * kDivD * kDivD
}

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}
