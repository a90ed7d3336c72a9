// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CheckResult is the outcome of checking one url.
type CheckResult struct {
	URL    string
	Status int
	Title  string
	Err    error
}

// OK reports whether the link resolved without error.
func (r CheckResult) OK() bool {
	return r.Err == nil
}

// Check fetches every url with at most concurrency requests in flight.
// Results are returned in input order. Failures are recorded per url and
// never abort the other checks.
func Check(ctx context.Context, f Fetcher, urls []string, concurrency int) []CheckResult {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]CheckResult, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			p, err := f.Fetch(gctx, u)
			results[i] = CheckResult{URL: u, Status: p.Status, Title: p.Title, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
