package ranker

import (
	"fmt"
	"testing"
	"time"

	"github.com/khrees2412/jobscout/internal/signal"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestRanker(t *testing.T) *Ranker {
	return New(Options{Now: func() time.Time { return fixedNow }, Logger: zaptest.NewLogger(t)})
}

func posting(id, source, title, location string) models.Posting {
	return models.Posting{
		ID:         source + ":" + id,
		Source:     source,
		Title:      title,
		Company:    "Company " + id,
		Location:   location,
		URL:        "https://example.com/jobs/" + id,
		PostedDate: fixedNow.AddDate(0, 0, -1).Format(time.RFC3339),
	}
}

func batch(n int, source, location string) []models.Posting {
	out := make([]models.Posting, n)
	for i := range out {
		id := fmt.Sprintf("%s%d", source, i)
		out[i] = posting(id, source, "Engineer "+id, location)
	}
	return out
}

func countSource(ps []models.ScoredPosting, source string) int {
	n := 0
	for _, p := range ps {
		if p.Source == source {
			n++
		}
	}
	return n
}

func ids(ps []models.ScoredPosting) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestRankEmpty(t *testing.T) {
	res := newTestRanker(t).Rank(nil, nil, nil, models.DefaultSearchFilters())
	assert.Empty(t, res.Postings)
	assert.Equal(t, "empty", res.Pool)
}

func TestRankIsDeterministic(t *testing.T) {
	var in []models.Posting
	in = append(in, batch(9, "remotive", "Remote")...)
	in = append(in, batch(6, "remoteok", "Austin, TX")...)
	in = append(in, batch(4, "arbeitnow", "Berlin, Germany")...)
	in = append(in, in[0], in[3])

	r := newTestRanker(t)
	sig := signal.Build(signal.Input{Titles: []string{"engineer remoteok3"}})
	f := models.DefaultSearchFilters()

	first := r.Rank(in, []string{"engineer"}, sig, f)
	second := r.Rank(in, []string{"engineer"}, sig, f)
	assert.Equal(t, first, second)

	require.NotEmpty(t, first.Steps)
	assert.Equal(t, Step{Name: "dedup", Initial: 21, Dropped: 2, Left: 19}, first.Steps[0])
}

func TestRankDedupKeepsFirst(t *testing.T) {
	a := posting("1", "remotive", "Go Engineer", "Remote")
	b := a
	b.ID = "remoteok:9"
	b.Source = "remoteok"
	b.Title = "  go engineer "

	res := newTestRanker(t).Rank([]models.Posting{a, b}, nil, nil, models.DefaultSearchFilters())
	assert.Equal(t, []string{"remotive:1"}, ids(res.Postings))
}

func TestRankCapsEachSource(t *testing.T) {
	var in []models.Posting
	in = append(in, batch(12, "a", "Austin, TX")...)
	in = append(in, batch(3, "b", "Austin, TX")...)
	in = append(in, batch(2, "c", "Austin, TX")...)

	res := newTestRanker(t).Rank(in, nil, nil, models.DefaultSearchFilters())

	assert.Len(t, res.Postings, 13)
	assert.Equal(t, DefaultPerSourceCap, countSource(res.Postings, "a"))
	assert.Equal(t, 3, countSource(res.Postings, "b"))
	assert.Equal(t, 2, countSource(res.Postings, "c"))
	assert.Zero(t, res.Backfilled)

	for i := 1; i < len(res.Postings); i++ {
		assert.GreaterOrEqual(t, res.Postings[i-1].Score, res.Postings[i].Score)
	}
}

func TestRankStopsAtTarget(t *testing.T) {
	var in []models.Posting
	for _, src := range []string{"a", "b", "c", "d"} {
		in = append(in, batch(6, src, "Remote")...)
	}
	res := newTestRanker(t).Rank(in, nil, nil, models.DefaultSearchFilters())
	assert.Len(t, res.Postings, DefaultTarget)
}

func remoteOnlyFilters() models.SearchFilters {
	f := models.DefaultSearchFilters()
	f.RemoteOnly = true
	f.USOnly = false
	return f
}

func TestRankBackfillsToTarget(t *testing.T) {
	var in []models.Posting
	in = append(in, batch(4, "r", "Remote")...)
	in = append(in, batch(7, "x", "Austin, TX")...)
	in = append(in, batch(7, "y", "Denver, CO")...)

	res := newTestRanker(t).Rank(in, nil, nil, remoteOnlyFilters())

	assert.Equal(t, "strict", res.Pool)
	assert.Len(t, res.Postings, DefaultTarget)
	assert.Equal(t, 11, res.Backfilled)
	assert.Equal(t, 4, countSource(res.Postings, "r"))
	assert.Equal(t, 7, countSource(res.Postings, "x"))
	assert.Equal(t, 4, countSource(res.Postings, "y"))
}

func TestRankBackfillBoundedByBroadPool(t *testing.T) {
	var in []models.Posting
	in = append(in, batch(4, "r", "Remote")...)
	in = append(in, batch(4, "x", "Austin, TX")...)
	in = append(in, batch(4, "y", "Denver, CO")...)

	res := newTestRanker(t).Rank(in, nil, nil, remoteOnlyFilters())
	assert.Len(t, res.Postings, 12)
}

func TestRankBackfillHonoursSourceCap(t *testing.T) {
	var in []models.Posting
	in = append(in, batch(4, "r", "Remote")...)
	in = append(in, batch(14, "x", "Austin, TX")...)

	res := newTestRanker(t).Rank(in, nil, nil, remoteOnlyFilters())
	assert.Len(t, res.Postings, 12)
	assert.Equal(t, DefaultPerSourceCap, countSource(res.Postings, "x"))
}

func TestRankBackfillReachesFloorPastCap(t *testing.T) {
	r := New(Options{PerSourceCap: 3, Now: func() time.Time { return fixedNow }})
	var in []models.Posting
	in = append(in, batch(1, "r", "Remote")...)
	in = append(in, batch(12, "x", "Austin, TX")...)

	res := r.Rank(in, nil, nil, remoteOnlyFilters())
	assert.Len(t, res.Postings, DefaultFloor)
	assert.Equal(t, 9, res.Backfilled)
}

func TestRankBackfillKeepsCapWhenPoolIsLarge(t *testing.T) {
	var in []models.Posting
	in = append(in, batch(20, "a", "Remote")...)
	in = append(in, batch(1, "b", "Remote")...)

	res := newTestRanker(t).Rank(in, nil, nil, models.DefaultSearchFilters())
	assert.Len(t, res.Postings, DefaultPerSourceCap+1)
	assert.Equal(t, DefaultPerSourceCap, countSource(res.Postings, "a"))
	assert.Equal(t, 1, countSource(res.Postings, "b"))
	assert.Zero(t, res.Backfilled)
}

func TestRankTiesKeepMergeOrder(t *testing.T) {
	in := []models.Posting{
		posting("1", "a", "Go Engineer", "Remote"),
		posting("2", "a", "Go Engineer", "Remote"),
		posting("3", "b", "Go Engineer", "Remote"),
	}

	res := newTestRanker(t).Rank(in, nil, nil, remoteOnlyFilters())
	require.Len(t, res.Postings, 3)
	assert.Equal(t, res.Postings[0].Score, res.Postings[1].Score)
	assert.Equal(t, res.Postings[1].Score, res.Postings[2].Score)
	assert.Equal(t, []string{"a:1", "a:2", "b:3"}, ids(res.Postings))
}

func TestRankNeverReturnsOutOfRegion(t *testing.T) {
	in := []models.Posting{
		posting("1", "arbeitnow", "Go Engineer", "Berlin, Germany"),
		posting("2", "remoteok", "Go Engineer", "Austin, TX"),
		posting("3", "remoteok", "Go Developer", "Remote - US"),
		posting("4", "remotive", "Backend Engineer", "Seattle, WA"),
	}
	f := models.DefaultSearchFilters()
	f.MinRelevance = 0

	res := newTestRanker(t).Rank(in, []string{"go"}, nil, f)
	assert.ElementsMatch(t, []string{"remoteok:2", "remoteok:3", "remotive:4"}, ids(res.Postings))

	f.USOnly = false
	res = newTestRanker(t).Rank(in, []string{"go"}, nil, f)
	assert.Contains(t, ids(res.Postings), "arbeitnow:1")
}

func TestRankPersonaMatchScoresHigher(t *testing.T) {
	a := posting("1", "remotive", "Senior Platform Engineer", "Remote")
	b := posting("2", "remotive", "Senior Widget Engineer", "Remote")
	sig := signal.Build(signal.Input{Titles: []string{"Platform Engineer"}})
	f := models.DefaultSearchFilters()

	r := newTestRanker(t)
	ea := r.Explain(a, nil, sig, f)
	eb := r.Explain(b, nil, sig, f)
	assert.Equal(t, PersonaPoints, ea.Persona)
	assert.Zero(t, eb.Persona)
	assert.Equal(t, PersonaPoints, ea.Total()-eb.Total())

	res := r.Rank([]models.Posting{b, a}, nil, sig, f)
	require.Len(t, res.Postings, 2)
	assert.Equal(t, "remotive:1", res.Postings[0].ID)
}

func TestExplain(t *testing.T) {
	p := models.Posting{
		Title:       "Go Engineer",
		Description: "We use go and kafka. Remote within the United States.",
		Category:    "Software Development",
		URL:         "https://boards.greenhouse.io/acme/jobs/1",
		PostedDate:  fixedNow.AddDate(0, 0, -2).Format("2006-01-02"),
	}
	b := newTestRanker(t).Explain(p, []string{"kafka", "engineer"}, nil, models.DefaultSearchFilters())

	assert.Equal(t, Breakdown{
		Keywords: BodyTermPoints + TitleTermPoints,
		Region:   USPoints,
		Remote:   RemotePoints,
		Recency:  FreshPoints,
		ATS:      ATSPoints,
	}, b)
	assert.Equal(t, 19, b.Total())
}

func TestExplainNonUSPenalty(t *testing.T) {
	p := posting("1", "arbeitnow", "Engineer", "Berlin, Germany")
	r := newTestRanker(t)

	f := models.DefaultSearchFilters()
	assert.Equal(t, NonUSPenalty, r.Explain(p, nil, nil, f).Region)

	f.USOnly = false
	assert.Zero(t, r.Explain(p, nil, nil, f).Region)
}

func TestExplainCapsPools(t *testing.T) {
	p := posting("1", "remotive", "Engineer", "Remote")
	p.Description = "alpha bravo charlie delta echo foxtrot hotel india juliet kilo lima mike"
	sig := signal.Build(signal.Input{
		ResumeText:   p.Description,
		LinkedInText: p.Description,
		Profile:      models.Profile{TargetRole: "alpha bravo charlie delta"},
	})

	b := newTestRanker(t).Explain(p, nil, sig, models.DefaultSearchFilters())
	assert.Equal(t, SkillCap, b.Skills)
	assert.Equal(t, LinkedInCap, b.LinkedIn)
	assert.Equal(t, IntentCap, b.Intent)
}

func TestRankRecencyWindow(t *testing.T) {
	old := posting("old", "remotive", "Engineer old", "Remote")
	old.PostedDate = fixedNow.AddDate(0, 0, -30).Format(time.RFC3339)
	blank := posting("blank", "remotive", "Engineer blank", "Remote")
	blank.PostedDate = ""
	garbage := posting("garbage", "remotive", "Engineer garbage", "Remote")
	garbage.PostedDate = "last tuesday"
	fresh := posting("fresh", "remotive", "Engineer fresh", "Remote")

	f := models.DefaultSearchFilters()
	f.PostedWithinDays = 7
	res := newTestRanker(t).Rank([]models.Posting{old, blank, garbage, fresh}, nil, nil, f)
	assert.ElementsMatch(t, []string{"remotive:blank", "remotive:garbage", "remotive:fresh"}, ids(res.Postings))
}

func TestRankRelevanceFallsBackToAll(t *testing.T) {
	in := batch(3, "remotive", "Remote")
	f := models.DefaultSearchFilters()
	f.MinRelevance = 1000

	res := newTestRanker(t).Rank(in, nil, nil, f)
	assert.Len(t, res.Postings, 3)
}

func TestRankExcludedTerms(t *testing.T) {
	in := batch(3, "remotive", "Remote")
	in[1].Title = "Crypto Exchange Engineer"
	sig := signal.Build(signal.Input{Profile: models.Profile{ExcludedTerms: []string{"CRYPTO"}}})

	res := newTestRanker(t).Rank(in, nil, sig, models.DefaultSearchFilters())
	assert.ElementsMatch(t, []string{in[0].ID, in[2].ID}, ids(res.Postings))
}

func TestRankLocationPreference(t *testing.T) {
	sig := signal.Build(signal.Input{Locations: []string{"Austin"}})
	sources := []string{"a", "b", "c"}

	var in []models.Posting
	for i := 0; i < 12; i++ {
		in = append(in, posting(fmt.Sprintf("aus%d", i), sources[i%3], "Engineer", "Austin, TX"))
	}
	for i := 0; i < 5; i++ {
		in = append(in, posting(fmt.Sprintf("den%d", i), sources[i%3], "Engineer", "Denver, CO"))
	}
	res := newTestRanker(t).Rank(in, nil, sig, models.DefaultSearchFilters())
	assert.Equal(t, "strict", res.Pool)
	assert.Len(t, res.Postings, 12)
	for _, p := range res.Postings {
		assert.Equal(t, "Austin, TX", p.Location)
	}

	f := models.DefaultSearchFilters()
	f.Relocation = models.RelocationYes
	res = newTestRanker(t).Rank(in, nil, sig, f)
	assert.Len(t, res.Postings, DefaultTarget)
}

func TestRankRelaxesLocation(t *testing.T) {
	sig := signal.Build(signal.Input{Locations: []string{"Austin"}})
	sources := []string{"a", "b", "c"}

	var in []models.Posting
	for i := 0; i < 3; i++ {
		in = append(in, posting(fmt.Sprintf("aus%d", i), sources[i%3], "Engineer", "Austin, TX"))
	}
	for i := 0; i < 12; i++ {
		in = append(in, posting(fmt.Sprintf("den%d", i), sources[i%3], "Engineer", "Denver, CO"))
	}
	res := newTestRanker(t).Rank(in, nil, sig, models.DefaultSearchFilters())
	assert.Equal(t, "region", res.Pool)
	assert.Len(t, res.Postings, DefaultTarget)
}

func TestRankRelaxesLevel(t *testing.T) {
	sources := []string{"a", "b", "c", "d"}
	var in []models.Posting
	add := func(n int, prefix string) {
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("%s%d", prefix, i)
			title := "Engineer " + id
			if prefix != "plain" {
				title = prefix + " " + title
			}
			in = append(in, posting(id, sources[len(in)%4], title, "Remote"))
		}
	}
	add(3, "Senior")
	add(8, "plain")
	add(2, "Junior")

	f := models.DefaultSearchFilters()
	f.Level = "senior"
	res := newTestRanker(t).Rank(in, nil, nil, f)

	assert.Equal(t, "relaxed_level", res.Pool)
	assert.Len(t, res.Postings, 11)
	for _, p := range res.Postings {
		assert.NotContains(t, p.Title, "Junior")
	}
}

func TestLevelMatches(t *testing.T) {
	m := newMatcher(DefaultTables())
	tests := []struct {
		title string
		level string
		want  bool
	}{
		{"Sr. Backend Engineer", "senior", true},
		{"Staff Engineer", "lead", true},
		{"Backend Engineer", "senior", false},
		{"Backend Engineer", "", true},
		{"Graduate Developer", "entry", true},
	}
	for _, tt := range tests {
		t.Run(tt.title+"/"+tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, m.levelMatches(models.Posting{Title: tt.title}, tt.level))
		})
	}
}

func TestMatcherRegionAndATS(t *testing.T) {
	m := newMatcher(DefaultTables())

	assert.True(t, m.isUS(models.Posting{Location: "Remote - US"}))
	assert.True(t, m.isUS(models.Posting{Location: "Austin, TX"}))
	assert.True(t, m.isUS(models.Posting{Location: "Anywhere", Description: "Must live in the United States"}))
	assert.False(t, m.isUS(models.Posting{Location: "Toronto, Canada"}))
	assert.False(t, m.isUS(models.Posting{Location: "Berlin, Germany"}))

	for _, loc := range []string{"Berlin, DE", "Vancouver, CA", "Bengaluru, IN", "Medellin, CO", "Panama City, PA"} {
		assert.False(t, m.isUS(models.Posting{Location: loc}), loc)
	}
	for _, loc := range []string{"San Francisco, CA", "Denver, CO", "Indianapolis, IN", "Wilmington, DE", "Seattle, WA"} {
		assert.True(t, m.isUS(models.Posting{Location: loc}), loc)
	}

	assert.True(t, m.isRemote(models.Posting{Location: "Anywhere", Remote: true}))
	assert.True(t, m.isRemote(models.Posting{Description: "We work from home."}))
	assert.False(t, m.isRemote(models.Posting{Location: "Remoteville"}))

	assert.True(t, m.isATS("https://jobs.lever.co/acme/1"))
	assert.True(t, m.isATS("https://greenhouse.io/x"))
	assert.False(t, m.isATS("https://notgreenhouse.io/x"))
	assert.False(t, m.isATS("not a url"))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{
		"2026-10-15",
		"2026-10-15T08:00:00Z",
		"2026-10-15 08:00:00",
		"1760000000",
		"Thu, 15 Oct 2026 10:00:00 +0000",
	} {
		_, ok := parseDate(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"", "soon", "-5"} {
		_, ok := parseDate(s)
		assert.False(t, ok, s)
	}

	p := models.Posting{PostedDate: fixedNow.Add(48 * time.Hour).Format(time.RFC3339)}
	age, ok := ageDays(p, fixedNow)
	assert.True(t, ok)
	assert.Zero(t, age)
}

func TestTablesExtend(t *testing.T) {
	base := DefaultTables()
	ext := base.Extend([]string{" Puerto Rico "}, []string{"Jobs.Example.com", ""})

	assert.Contains(t, ext.USKeywords, "puerto rico")
	assert.Contains(t, ext.ATSDomains, "jobs.example.com")
	assert.NotContains(t, base.USKeywords, "puerto rico")
	assert.Len(t, ext.ATSDomains, len(base.ATSDomains)+1)

	m := newMatcher(ext)
	assert.True(t, m.isUS(models.Posting{Location: "San Juan, Puerto Rico"}))
}
