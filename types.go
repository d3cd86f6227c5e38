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

// Package tdigest implements a compact, mergeable sketch of a stream of
// numeric observations supporting approximate quantile queries with
// bounded error. Merging is a pure transformation: a digest is never
// mutated once built, every merge produces a new digest value.
package tdigest

// CentroidsPool provides a pool for variable-sized centroid slices.
type CentroidsPool interface {
	// Init initializes the pool.
	Init()

	// Get provides a centroid slice from the pool.
	Get(capacity int) []Centroid

	// Put returns a centroid slice to the pool.
	Put(value []Centroid)
}

// Options provides a set of t-digest options.
type Options interface {
	// SetMaxSize sets the maximum number of centroids a compressed
	// digest may hold.
	SetMaxSize(value int) Options

	// MaxSize returns the maximum number of centroids a compressed
	// digest may hold.
	MaxSize() int

	// SetCentroidsPool sets the centroids pool.
	SetCentroidsPool(value CentroidsPool) Options

	// CentroidsPool returns the centroids pool.
	CentroidsPool() CentroidsPool

	// Validate validates the options.
	Validate() error
}
