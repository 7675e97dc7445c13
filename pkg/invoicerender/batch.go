package invoicerender

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchOptions configures RenderBatch
type BatchOptions struct {
	// Concurrency bounds the number of renders in flight. Zero means one
	// per CPU.
	Concurrency int
}

// RenderBatch renders independent sales concurrently under one schema and
// seller. Results keep the order of sales. The first failure cancels the
// remaining renders and is returned.
func RenderBatch(ctx context.Context, engine *Engine, s *Schema, branch *Branch, sales []*Sale) ([]*Result, error) {
	return RenderBatchWithOptions(ctx, engine, s, branch, sales, BatchOptions{})
}

// RenderBatchWithOptions is RenderBatch with explicit options
func RenderBatchWithOptions(ctx context.Context, engine *Engine, s *Schema, branch *Branch, sales []*Sale, opts BatchOptions) ([]*Result, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]*Result, len(sales))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, sale := range sales {
		i, sale := i, sale // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := engine.RenderInvoice(s, sale, branch)
			if err != nil {
				number := ""
				if sale != nil {
					number = sale.Number
				}
				return fmt.Errorf("sale %d (%s): %w", i, number, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
