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
	"github.com/m3db/m3x/pool"
)

// centroidsPool is a bucketized pool of centroid slices, bucketed by the
// slice capacity a merge requires.
type centroidsPool struct {
	buckets pool.BucketizedObjectPool
}

// NewCentroidsPool creates a pool of centroid slices with the given bucket
// sizes. Init must be called before the pool is used.
func NewCentroidsPool(sizes []pool.Bucket, opts pool.ObjectPoolOptions) CentroidsPool {
	return &centroidsPool{buckets: pool.NewBucketizedObjectPool(sizes, opts)}
}

func (p *centroidsPool) Init() {
	alloc := func(capacity int) interface{} {
		return make([]Centroid, 0, capacity)
	}
	p.buckets.Init(alloc)
}

func (p *centroidsPool) Get(capacity int) []Centroid {
	return p.buckets.Get(capacity).([]Centroid)
}

// Put returns a slice to the pool emptied, keyed by its capacity.
func (p *centroidsPool) Put(value []Centroid) {
	p.buckets.Put(value[:0], cap(value))
}
