// Package watch re-runs saved searches on a cron schedule and reports the
// postings each run has not seen before.
package watch

import (
	"context"
	"fmt"
	"sync"

	"github.com/khrees2412/jobscout/internal/search"
	"github.com/khrees2412/jobscout/internal/signal"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// QueryStore lists the saved searches to run.
type QueryStore interface {
	GetSavedQueries(ctx context.Context) ([]models.SavedQuery, error)
}

// Searcher runs one ranked search.
type Searcher interface {
	RankJobSearch(ctx context.Context, req search.Request) ([]models.RankedPosting, error)
}

// NotifyFunc receives the new postings of a saved search.
type NotifyFunc func(q models.SavedQuery, fresh []models.RankedPosting)

type Options struct {
	Spec      string // cron spec, e.g. "0 8 * * *" or "@every 6h"
	Queries   QueryStore
	Searcher  Searcher
	Candidate func(ctx context.Context) (signal.Input, error)
	Notify    NotifyFunc
	Logger    *zap.Logger
}

// Scheduler wraps robfig/cron and remembers which postings it reported.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	queries   QueryStore
	searcher  Searcher
	candidate func(ctx context.Context) (signal.Input, error)
	notify    NotifyFunc
	logger    *zap.Logger

	mu   sync.Mutex
	seen map[string]map[string]struct{} // query name -> posting URL
}

func New(opts Options) *Scheduler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Notify == nil {
		opts.Notify = func(models.SavedQuery, []models.RankedPosting) {}
	}
	if opts.Candidate == nil {
		opts.Candidate = func(context.Context) (signal.Input, error) { return signal.Input{}, nil }
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cronLogger{opts.Logger.Sugar()})),
		spec:      opts.Spec,
		queries:   opts.Queries,
		searcher:  opts.Searcher,
		candidate: opts.Candidate,
		notify:    opts.Notify,
		logger:    opts.Logger,
		seen:      make(map[string]map[string]struct{}),
	}
}

// Start registers the job and starts the scheduler. One run happens right
// away so results show up without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("watch run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("watch started", zap.String("schedule", s.spec))

	go func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("watch run failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("watch stopped")
}

// RunOnce runs every saved search once. A failing search is logged and the
// rest still run.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	queries, err := s.queries.GetSavedQueries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load saved queries: %w", err)
	}
	if len(queries) == 0 {
		s.logger.Info("no saved queries, nothing to watch")
		return nil
	}

	candidate, err := s.candidate(ctx)
	if err != nil {
		return fmt.Errorf("failed to load candidate: %w", err)
	}

	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return err
		}
		postings, err := s.searcher.RankJobSearch(ctx, search.Request{
			Query:     q.Query,
			Location:  q.Location,
			Filters:   q.Filters,
			Candidate: candidate,
		})
		if err != nil {
			s.logger.Warn("saved query failed", zap.String("query", q.Name), zap.Error(err))
			continue
		}

		fresh := s.unseen(q.Name, postings)
		s.logger.Info("saved query ran",
			zap.String("query", q.Name),
			zap.Int("postings", len(postings)),
			zap.Int("new", len(fresh)))
		if len(fresh) > 0 {
			s.notify(q, fresh)
		}
	}
	return nil
}

// unseen returns the postings not reported for name yet and marks them seen.
func (s *Scheduler) unseen(name string, postings []models.RankedPosting) []models.RankedPosting {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen, ok := s.seen[name]
	if !ok {
		seen = make(map[string]struct{})
		s.seen[name] = seen
	}
	var fresh []models.RankedPosting
	for _, p := range postings {
		key := p.URL
		if key == "" {
			key = p.ID
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, p)
	}
	return fresh
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
