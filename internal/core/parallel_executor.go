package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/EmundoT/asset-optimizer/internal/types"
)

// maxCategoryWorkers caps concurrent categories.
const maxCategoryWorkers = 8

// CategoryFunc runs one phase for one category. It reports failures in the
// result instead of returning an error.
type CategoryFunc func(ctx context.Context, category types.Category) types.CategoryResult

// ParallelExecutor runs a phase over several categories. Each category writes
// disjoint artifact files, so categories are independent.
type ParallelExecutor struct {
	maxWorkers int
}

// NewParallelExecutor creates an executor. workers <= 1 runs sequentially.
func NewParallelExecutor(workers int) *ParallelExecutor {
	if workers < 1 {
		workers = 1
	}
	if workers > maxCategoryWorkers {
		workers = maxCategoryWorkers
	}
	return &ParallelExecutor{maxWorkers: workers}
}

// Execute runs fn for every category and returns results in category order,
// whatever order they finished in.
func (p *ParallelExecutor) Execute(ctx context.Context, categories []types.Category, fn CategoryFunc) []types.CategoryResult {
	results := make([]types.CategoryResult, len(categories))
	if len(categories) == 0 {
		return results
	}

	if p.maxWorkers == 1 || len(categories) == 1 {
		for i, c := range categories {
			results[i] = fn(ctx, c)
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(p.maxWorkers, len(categories)))
	for i, c := range categories {
		g.Go(func() error {
			results[i] = fn(gctx, c)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
