package sources

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/khrees2412/jobscout/pkg/models"
	"go.uber.org/zap"
)

// FetchAll calls every source concurrently, each under its own timeout, and
// merges the results in source order once all have returned. A source that
// fails, times out or panics contributes nothing. IDs in the merged slice are
// unique.
func FetchAll(ctx context.Context, logger *zap.Logger, timeout time.Duration, srcs []Source, q Query) []models.Posting {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	results := make([][]models.Posting, len(srcs))
	var wg sync.WaitGroup
	for i, src := range srcs {
		i, src := i, src
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()

			postings, err := fetchOne(ctx, timeout, src, q)
			if err != nil {
				logger.Warn("source unavailable",
					zap.String("source", src.Name()),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err))
				return
			}
			logger.Debug("source fetched",
				zap.String("source", src.Name()),
				zap.Int("postings", len(postings)),
				zap.Duration("elapsed", time.Since(start)))
			results[i] = postings
		}()
	}
	wg.Wait()

	return merge(results)
}

type fetchResult struct {
	postings []models.Posting
	err      error
}

// fetchOne returns when the source answers or its deadline passes, whichever
// comes first, even if the source ignores ctx.
func fetchOne(ctx context.Context, timeout time.Duration, src Source, q Query) ([]models.Posting, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: fmt.Errorf("%w: panic: %v", ErrSourceUnavailable, r)}
			}
		}()
		postings, err := src.Fetch(ctx, q)
		done <- fetchResult{postings: postings, err: err}
	}()

	select {
	case r := <-done:
		return r.postings, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, ctx.Err())
	}
}

func merge(results [][]models.Posting) []models.Posting {
	seen := make(map[string]struct{})
	merged := []models.Posting{}
	for _, batch := range results {
		for _, p := range batch {
			p = finalize(p)
			if p.ID == "" {
				p.ID = PostingID(p.Source, "")
			}
			id := p.ID
			for n := 1; ; n++ {
				if _, dup := seen[id]; !dup {
					break
				}
				id = fmt.Sprintf("%s#%d", p.ID, n)
			}
			p.ID = id
			seen[id] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}
