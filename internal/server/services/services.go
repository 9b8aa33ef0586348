// Package services holds the survey domain rules: credential handling,
// survey ownership and lifecycle, respondent bookkeeping and response
// submission. Services return common.DomainError values for failures the
// caller should see and wrap everything else.
package services

import (
	"context"
	"math"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"golang.org/x/sync/errgroup"
)

// normalizePage applies the defaults for absent or out-of-range values.
// Limit is capped at MaxPageSize and Page is clamped so the offset fits an int.
func normalizePage(p models.PageRequest) models.PageRequest {
	if p.Page < 1 {
		p.Page = common.DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = common.DefaultPageSize
	}
	if p.Limit > common.MaxPageSize {
		p.Limit = common.MaxPageSize
	}
	if maxPage := math.MaxInt/p.Limit + 1; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

// fetchPage runs the page query and the count query concurrently. Both must
// use the same filter; the count may drift from the page under concurrent
// writes.
func fetchPage[T any](ctx context.Context,
	list func(ctx context.Context) ([]T, error),
	count func(ctx context.Context) (int, error),
) ([]T, int, error) {
	var (
		items []T
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = list(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
