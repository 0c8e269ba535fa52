// Package batch fans a slice of analyze requests out across bounded
// concurrency, mirroring the teacher's database.ConcurrentMapFuncWithError
// (database/concurrent.go) but built on golang.org/x/sync/errgroup, which
// the original already depends on transitively and gives cleaner
// context-cancellation semantics than a hand-rolled worker pool.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/flowscope/flowscope/analyzer"
	"github.com/flowscope/flowscope/model"
)

// Result pairs one request's outcome with its position in the input slice,
// since errgroup's fan-out completes out of order.
type Result struct {
	Index  int
	Result model.AnalyzeResult
}

// AnalyzeAll runs Analyze over every request with at most concurrency
// workers in flight, returning results in input order. concurrency <= 0
// means unbounded (one goroutine per request). A request's own analysis
// never returns a Go error — Analyze reports problems as Issues — so the
// only error this can return is ctx cancellation.
func AnalyzeAll(ctx context.Context, requests []model.AnalyzeRequest, concurrency int) ([]model.AnalyzeResult, error) {
	results := make([]model.AnalyzeResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = analyzer.Analyze(req)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
