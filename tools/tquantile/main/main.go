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

// tquantile reads newline-separated float64 samples from files or stdin
// and reports approximate quantiles computed through an online t-digest.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/m3db/tdigest"
	"github.com/m3db/tdigest/online"
)

var (
	configPath   string
	maxSize      int
	workersArg   int
	quantilesArg string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tquantile [files]",
		Short: "report approximate quantiles of newline-separated float64 samples",
		RunE:  run,
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "optional YAML digest configuration")
	rootCmd.Flags().IntVar(&maxSize, "max-size", 0, "digest max size, overriding configuration if set")
	rootCmd.Flags().IntVar(&workersArg, "workers", 4, "number of concurrent observers")
	rootCmd.Flags().StringVarP(&quantilesArg, "quantiles", "q", "0.5,0.95,0.99", "comma-separated quantiles to report")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	quantiles, err := parseQuantiles(quantilesArg)
	if err != nil {
		return err
	}

	digestOpts := tdigest.NewOptions()
	if configPath != "" {
		cfg, err := tdigest.LoadConfiguration(configPath)
		if err != nil {
			return err
		}
		if digestOpts, err = cfg.NewOptions(); err != nil {
			return err
		}
		logger.Info("loaded digest configuration", zap.String("path", configPath))
	}
	if maxSize > 0 {
		digestOpts = digestOpts.SetMaxSize(maxSize)
	}

	recorder := online.NewOnlineTDigest(online.NewOptions().SetDigestOptions(digestOpts))

	var (
		g, ctx = errgroup.WithContext(context.Background())
		lines  = make(chan string, 1024)
	)
	for i := 0; i < workersArg; i++ {
		g.Go(func() error {
			for line := range lines {
				v, err := strconv.ParseFloat(line, 64)
				if err != nil {
					return err
				}
				recorder.Observe(v)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(lines)
		return readLines(ctx, args, lines, logger)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	digest := recorder.Reset()
	if digest.Empty() {
		logger.Warn("no samples read")
		return nil
	}

	fmt.Printf("count\t%v\n", digest.Count())
	fmt.Printf("min\t%v\n", digest.Min())
	fmt.Printf("max\t%v\n", digest.Max())
	fmt.Printf("mean\t%v\n", digest.Mean())
	for _, q := range quantiles {
		fmt.Printf("p%v\t%v\n", q*100, digest.Quantile(q))
	}
	return nil
}

func parseQuantiles(arg string) ([]float64, error) {
	parts := strings.Split(arg, ",")
	quantiles := make([]float64, 0, len(parts))
	for _, part := range parts {
		q, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		if q < 0.0 || q > 1.0 {
			return nil, fmt.Errorf("quantile %v not in [0, 1]", q)
		}
		quantiles = append(quantiles, q)
	}
	return quantiles, nil
}

func readLines(ctx context.Context, paths []string, lines chan<- string, logger *zap.Logger) error {
	if len(paths) == 0 {
		return scanLines(ctx, os.Stdin, lines)
	}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = scanLines(ctx, f, lines)
		f.Close()
		if err != nil {
			return err
		}
		logger.Info("read samples", zap.String("path", path))
	}
	return nil
}

func scanLines(ctx context.Context, r io.Reader, lines chan<- string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return scanner.Err()
}
