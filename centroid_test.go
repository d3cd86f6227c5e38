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
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCentroidAdd(t *testing.T) {
	c := Centroid{Mean: 2.0, Weight: 2.0}

	// The centroid's own mass (2 * 2) joins the incoming weighted sum.
	sum := c.Add(12.0, 2.0)
	require.Equal(t, 16.0, sum)
	require.Equal(t, 4.0, c.Weight)

	// The new mean divides by the post-absorb weight.
	require.Equal(t, 4.0, c.Mean)
}

func TestCentroidAddRunningSum(t *testing.T) {
	c := Centroid{Mean: 10.0, Weight: 1.0}
	sum := c.Add(0.0, 0.0)
	require.Equal(t, 10.0, sum)
	require.Equal(t, 10.0, c.Mean)
	require.Equal(t, 1.0, c.Weight)

	sum = c.Add(30.0, 3.0)
	require.Equal(t, 40.0, sum)
	require.Equal(t, 4.0, c.Weight)
	require.Equal(t, 10.0, c.Mean)
}

func TestCentroidsSortByMeanAsc(t *testing.T) {
	centroids := []Centroid{
		{Mean: 3.0, Weight: 1.0},
		{Mean: 1.0, Weight: 2.0},
		{Mean: 2.0, Weight: 4.0},
	}
	sort.Sort(centroidsByMeanAsc(centroids))

	expected := []Centroid{
		{Mean: 1.0, Weight: 2.0},
		{Mean: 2.0, Weight: 4.0},
		{Mean: 3.0, Weight: 1.0},
	}
	require.Equal(t, expected, centroids)
}
