package search

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/khrees2412/jobscout/internal/ranker"
	"github.com/khrees2412/jobscout/internal/sources"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	name     string
	postings []models.Posting
	err      error
	gotQuery *sources.Query
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context, q sources.Query) ([]models.Posting, error) {
	if f.gotQuery != nil {
		*f.gotQuery = q
	}
	return f.postings, f.err
}

func newTestService(t *testing.T, srcs ...sources.Source) *Service {
	logger := zaptest.NewLogger(t)
	return NewService(Options{
		Sources: srcs,
		Ranker:  ranker.New(ranker.Options{Now: func() time.Time { return fixedNow }, Logger: logger}),
		Timeout: time.Second,
		Logger:  logger,
	})
}

func postings(source string, n int) []models.Posting {
	out := make([]models.Posting, n)
	for i := range out {
		out[i] = models.Posting{
			ID:         fmt.Sprintf("%s:%d", source, i),
			Source:     source,
			Title:      fmt.Sprintf("Go Engineer %d", i),
			Company:    fmt.Sprintf("%s Co %d", source, i),
			Location:   "Remote",
			URL:        fmt.Sprintf("https://example.com/%s/%d", source, i),
			PostedDate: fixedNow.AddDate(0, 0, -1).Format(time.RFC3339),
			Remote:     true,
		}
	}
	return out
}

func TestRankJobSearchEmptyAdapters(t *testing.T) {
	svc := newTestService(t,
		&fakeSource{name: sources.NameRemotive},
		&fakeSource{name: sources.NameRemoteOK},
		&fakeSource{name: sources.NameArbeitnow},
		&fakeSource{name: sources.NameAdzuna},
	)
	got, err := svc.RankJobSearch(context.Background(), Request{Query: "go engineer", Filters: models.DefaultSearchFilters()})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRankJobSearchNoSources(t *testing.T) {
	got, err := newTestService(t).RankJobSearch(context.Background(), Request{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRankJobSearchFailingAdaptersAreEmpty(t *testing.T) {
	boom := fmt.Errorf("%w: bad status: 502", sources.ErrSourceUnavailable)
	svc := newTestService(t,
		&fakeSource{name: sources.NameRemotive, err: boom},
		&fakeSource{name: sources.NameRemoteOK, err: boom},
	)
	got, err := svc.RankJobSearch(context.Background(), Request{Query: "go", Filters: models.DefaultSearchFilters()})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRankJobSearchRanksAndLinks(t *testing.T) {
	var q sources.Query
	a := &fakeSource{name: "a", postings: postings("a", 4), gotQuery: &q}
	b := &fakeSource{name: "b", postings: postings("b", 3), err: nil}
	c := &fakeSource{name: "c", err: errors.New("down")}

	f := models.DefaultSearchFilters()
	f.Keywords = []string{"Kubernetes"}
	f.Level = " Senior "
	out, err := newTestService(t, a, b, c).Search(context.Background(), Request{
		Query:    "Go engineer",
		Location: "Austin, TX",
		Filters:  f,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"engineer", "kubernetes"}, q.Terms)
	assert.Equal(t, "Austin, TX", q.Location)
	assert.Equal(t, "senior", q.Level)

	assert.Equal(t, 7, out.Fetched)
	require.Len(t, out.Postings, 7)
	assert.Contains(t, out.Signal.Keywords, "kubernetes")
	assert.Equal(t, []string{"austin"}, out.Signal.LocationHints)

	first := out.Postings[0]
	assert.NotEmpty(t, first.Links.LinkedIn)
	u, err := url.Parse(first.Links.Indeed)
	require.NoError(t, err)
	assert.Equal(t, first.Title+" "+first.Company, u.Query().Get("q"))
	assert.Equal(t, "Remote", u.Query().Get("l"))
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestService(t).Search(ctx, Request{Query: "go"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildQuery(t *testing.T) {
	f := models.SearchFilters{Keywords: []string{"Rust", "the"}, Locations: []string{"Denver", "Austin"}}
	q := BuildQuery("  Backend developer jobs ", "", f)

	assert.Equal(t, "Backend developer jobs", q.Text)
	assert.Equal(t, []string{"backend", "developer", "rust"}, q.Terms)
	assert.Equal(t, "Denver", q.Location)
	assert.Equal(t, "backend developer rust", q.Keywords())
}

func TestNormalizeFilters(t *testing.T) {
	f := normalizeFilters(models.SearchFilters{Relocation: "YES", MinRelevance: -3, PostedWithinDays: -1})
	assert.Equal(t, models.RelocationYes, f.Relocation)
	assert.Zero(t, f.MinRelevance)
	assert.Zero(t, f.PostedWithinDays)

	assert.Equal(t, models.RelocationAny, normalizeFilters(models.SearchFilters{Relocation: "maybe"}).Relocation)
}

func TestLinks(t *testing.T) {
	l := Links("Go Engineer", "Acme & Co", "New York, NY")

	assert.Equal(t, "https://www.linkedin.com/jobs/search?keywords=Go+Engineer+Acme+%26+Co&location=New+York%2C+NY", l.LinkedIn)
	assert.Equal(t, "https://www.indeed.com/jobs?l=New+York%2C+NY&q=Go+Engineer+Acme+%26+Co", l.Indeed)
	assert.Equal(t, "https://www.glassdoor.com/Job/jobs.htm?keyword=Go+Engineer+Acme+%26+Co&locKeyword=New+York%2C+NY", l.Glassdoor)
	assert.Equal(t, "https://www.google.com/search?q=Go+Engineer+Acme+%26+Co+New+York%2C+NY+jobs", l.Google)

	empty := Links("", "", "")
	assert.Equal(t, linkedInSearchURL, empty.LinkedIn)
	assert.Equal(t, googleSearchURL+"?q=jobs", empty.Google)
}

func TestCandidateFromSnapshot(t *testing.T) {
	assert.Equal(t, "", CandidateFromSnapshot(nil).ResumeText)

	snap := &models.Snapshot{
		Profile: models.Profile{Location: "Austin, TX", LinkedInText: "Platform Engineer"},
		Resumes: []models.Resume{
			{ID: "r1", Name: "Old", ContentText: "old text"},
			{ID: "r2", Name: "Main", ContentText: "main text", IsDefault: true},
		},
		Jobs: []models.Job{{ID: "j1", Title: "SRE"}, {ID: "j2", Title: "Platform Engineer"}},
	}
	in := CandidateFromSnapshot(snap)
	assert.Equal(t, "main text", in.ResumeText)
	assert.Equal(t, "Main", in.ResumeName)
	assert.Equal(t, "Platform Engineer", in.LinkedInText)
	assert.Equal(t, "Austin, TX", in.LocationText)
	assert.Equal(t, []string{"Platform Engineer", "SRE"}, in.RecentJobTitles)
}
