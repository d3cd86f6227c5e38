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
	"io/ioutil"

	"github.com/m3db/m3x/pool"
	"github.com/pkg/errors"
	validator "gopkg.in/validator.v2"
	yaml "gopkg.in/yaml.v2"
)

// Configuration contains configuration for a t-digest.
type Configuration struct {
	// The maximum number of centroids a compressed digest may hold,
	// defaulting if unset.
	MaxSize int `yaml:"maxSize" validate:"min=0"`

	// The centroids pool configuration.
	Pool BucketizedPoolConfiguration `yaml:"pool"`
}

// NewOptions creates a new set of options from the configuration.
func (c Configuration) NewOptions() (Options, error) {
	if err := validator.Validate(c); err != nil {
		return nil, errors.Wrap(err, "invalid t-digest configuration")
	}

	centroidsPool := NewCentroidsPool(c.Pool.NewBuckets(), pool.NewObjectPoolOptions())
	centroidsPool.Init()

	opts := NewOptions().SetCentroidsPool(centroidsPool)
	if c.MaxSize != 0 {
		opts = opts.SetMaxSize(c.MaxSize)
	}
	return opts, nil
}

// BucketizedPoolConfiguration contains configuration for bucketized pools.
type BucketizedPoolConfiguration struct {
	// The pool bucket configuration.
	Buckets []BucketConfiguration `yaml:"buckets"`
}

// NewBuckets creates a new list of pool buckets.
func (c BucketizedPoolConfiguration) NewBuckets() []pool.Bucket {
	buckets := make([]pool.Bucket, 0, len(c.Buckets))
	for _, bconfig := range c.Buckets {
		buckets = append(buckets, bconfig.NewBucket())
	}
	return buckets
}

// BucketConfiguration contains configuration for a pool bucket.
type BucketConfiguration struct {
	// The count of the items in the bucket.
	Count int `yaml:"count" validate:"min=0"`

	// The capacity of each item in the bucket.
	Capacity int `yaml:"capacity" validate:"min=0"`
}

// NewBucket creates a new pool bucket.
func (c BucketConfiguration) NewBucket() pool.Bucket {
	return pool.Bucket{
		Capacity: c.Capacity,
		Count:    c.Count,
	}
}

// LoadConfiguration loads a configuration from a YAML file.
func LoadConfiguration(fname string) (Configuration, error) {
	var cfg Configuration
	data, err := ioutil.ReadFile(fname)
	if err != nil {
		return cfg, errors.Wrapf(err, "unable to read %s", fname)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "unable to parse %s", fname)
	}
	return cfg, nil
}
