// Package search runs a ranked job search: fan out to the job boards, build
// the candidate signal and rank what comes back.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/khrees2412/jobscout/internal/ranker"
	"github.com/khrees2412/jobscout/internal/signal"
	"github.com/khrees2412/jobscout/internal/sources"
	"github.com/khrees2412/jobscout/internal/textutil"
	"github.com/khrees2412/jobscout/pkg/models"
	"go.uber.org/zap"
)

// RecentJobs is how many saved jobs contribute their titles to the signal.
const RecentJobs = 10

// Request is one search.
type Request struct {
	Query    string
	Location string
	Filters  models.SearchFilters
	// Candidate is the already loaded candidate data. Keywords and Locations
	// from Filters are merged into it.
	Candidate signal.Input
}

// Outcome is the full result of a search, including the ranking trace.
type Outcome struct {
	Postings []models.RankedPosting
	Terms    []string
	Signal   *signal.Signal
	Trace    ranker.Result
	Fetched  int
}

// Options configures a Service.
type Options struct {
	Sources     []sources.Source
	Ranker      *ranker.Ranker
	Timeout     time.Duration
	ExtraTitles []string
	Logger      *zap.Logger
}

// Service runs searches. It holds no per-search state.
type Service struct {
	sources     []sources.Source
	ranker      *ranker.Ranker
	timeout     time.Duration
	extraTitles []string
	logger      *zap.Logger
}

// NewService returns a Service.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Ranker == nil {
		opts.Ranker = ranker.New(ranker.Options{Logger: opts.Logger})
	}
	if opts.Timeout <= 0 {
		opts.Timeout = sources.DefaultTimeout
	}
	return &Service{
		sources:     opts.Sources,
		ranker:      opts.Ranker,
		timeout:     opts.Timeout,
		extraTitles: opts.ExtraTitles,
		logger:      opts.Logger,
	}
}

// Ranker returns the ranker used by the service.
func (s *Service) Ranker() *ranker.Ranker {
	return s.ranker
}

// RankJobSearch returns the ranked postings for req. No postings is an empty
// slice and a nil error.
func (s *Service) RankJobSearch(ctx context.Context, req Request) ([]models.RankedPosting, error) {
	out, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	return out.Postings, nil
}

// Search is RankJobSearch with the ranking trace and the signal it used.
func (s *Service) Search(ctx context.Context, req Request) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := normalizeFilters(req.Filters)
	q := BuildQuery(req.Query, req.Location, f)

	start := time.Now()
	fetched := sources.FetchAll(ctx, s.logger, s.timeout, s.sources, q)
	s.logger.Info("sources settled",
		zap.Int("sources", len(s.sources)),
		zap.Int("postings", len(fetched)),
		zap.Duration("elapsed", time.Since(start)))

	in := req.Candidate
	in.Keywords = append(append([]string{}, in.Keywords...), f.Keywords...)
	in.Locations = append(append([]string{}, in.Locations...), f.Locations...)
	in.ExtraTitles = append(append([]string{}, in.ExtraTitles...), s.extraTitles...)
	if in.LocationText == "" {
		in.LocationText = req.Location
	}
	sig := signal.Build(in)

	res := s.ranker.Rank(fetched, q.Terms, sig, f)

	ranked := make([]models.RankedPosting, len(res.Postings))
	for i, p := range res.Postings {
		ranked[i] = models.RankedPosting{
			ScoredPosting: p,
			Links:         Links(p.Title, p.Company, p.Location),
		}
	}

	s.logger.Info("search ranked",
		zap.String("query", req.Query),
		zap.String("pool", res.Pool),
		zap.Int("selected", len(ranked)),
		zap.Int("backfilled", res.Backfilled))

	return &Outcome{
		Postings: ranked,
		Terms:    q.Terms,
		Signal:   sig,
		Trace:    res,
		Fetched:  len(fetched),
	}, nil
}

// BuildQuery turns the raw query and filters into the adapter query.
func BuildQuery(text, location string, f models.SearchFilters) sources.Query {
	terms := textutil.Keywords(text + " " + strings.Join(f.Keywords, " "))
	if location == "" && len(f.Locations) > 0 {
		location = f.Locations[0]
	}
	return sources.Query{
		Text:     strings.TrimSpace(text),
		Terms:    terms,
		Location: strings.TrimSpace(location),
		Level:    strings.ToLower(strings.TrimSpace(f.Level)),
	}
}

func normalizeFilters(f models.SearchFilters) models.SearchFilters {
	switch f.Relocation = strings.ToLower(strings.TrimSpace(f.Relocation)); f.Relocation {
	case models.RelocationYes, models.RelocationNo:
	default:
		f.Relocation = models.RelocationAny
	}
	if f.MinRelevance < 0 {
		f.MinRelevance = 0
	}
	if f.PostedWithinDays < 0 {
		f.PostedWithinDays = 0
	}
	return f
}

// CandidateFromSnapshot collects the candidate data held in the store.
func CandidateFromSnapshot(snap *models.Snapshot) signal.Input {
	if snap == nil {
		return signal.Input{}
	}
	in := signal.Input{
		Profile:         snap.Profile,
		LinkedInText:    snap.Profile.LinkedInText,
		RecentJobTitles: snap.RecentJobTitles(RecentJobs),
		LocationText:    snap.Profile.Location,
	}
	if r := snap.DefaultResume(); r != nil {
		in.ResumeText = r.ContentText
		in.ResumeName = r.Name
	}
	return in
}
