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

package online

import (
	"github.com/m3db/m3x/instrument"

	"github.com/m3db/tdigest"
)

type options struct {
	instrumentOpts instrument.Options
	digestOpts     tdigest.Options
}

// NewOptions creates a new set of options.
func NewOptions() Options {
	return options{
		instrumentOpts: instrument.NewOptions(),
		digestOpts:     tdigest.NewOptions(),
	}
}

func (o options) SetInstrumentOptions(value instrument.Options) Options {
	o.instrumentOpts = value
	return o
}

func (o options) InstrumentOptions() instrument.Options {
	return o.instrumentOpts
}

func (o options) SetDigestOptions(value tdigest.Options) Options {
	o.digestOpts = value
	return o
}

func (o options) DigestOptions() tdigest.Options {
	return o.digestOpts
}
