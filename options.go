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
	"github.com/pkg/errors"
)

const (
	defaultMaxSize = 100
)

var (
	errNegativeMaxSize = errors.New("max size cannot be negative")
	errNoCentroidsPool = errors.New("centroids pool is not set")
)

type options struct {
	maxSize       int
	centroidsPool CentroidsPool
}

// NewOptions creates a new set of options.
func NewOptions() Options {
	centroidsPool := NewCentroidsPool(nil, nil)
	centroidsPool.Init()

	return options{
		maxSize:       defaultMaxSize,
		centroidsPool: centroidsPool,
	}
}

func (o options) SetMaxSize(value int) Options {
	o.maxSize = value
	return o
}

func (o options) MaxSize() int {
	return o.maxSize
}

func (o options) SetCentroidsPool(value CentroidsPool) Options {
	o.centroidsPool = value
	return o
}

func (o options) CentroidsPool() CentroidsPool {
	return o.centroidsPool
}

func (o options) Validate() error {
	if o.maxSize < 0 {
		return errNegativeMaxSize
	}
	if o.centroidsPool == nil {
		return errNoCentroidsPool
	}
	return nil
}
