// Package ranker filters, scores and selects job postings for a candidate.
package ranker

import (
	"sort"
	"strings"
	"time"

	"github.com/khrees2412/jobscout/internal/signal"
	"github.com/khrees2412/jobscout/internal/textutil"
	"github.com/khrees2412/jobscout/pkg/models"
	"go.uber.org/zap"
)

// Selection sizes.
const (
	DefaultTarget       = 15
	DefaultFloor        = 10
	DefaultPerSourceCap = 8
)

// Options configures a Ranker. Zero values fall back to defaults.
type Options struct {
	Tables       Tables
	Target       int
	Floor        int
	PerSourceCap int
	Now          func() time.Time
	Logger       *zap.Logger
}

// Step records how many postings one pipeline stage removed. Dropped is
// negative when a relaxation widened the pool.
type Step struct {
	Name    string `json:"name"`
	Initial int    `json:"initial"`
	Dropped int    `json:"dropped"`
	Left    int    `json:"left"`
}

// Result is the ranked selection plus a trace of the pipeline.
type Result struct {
	Postings   []models.ScoredPosting `json:"postings"`
	Steps      []Step                 `json:"steps"`
	Pool       string                 `json:"pool"`
	Backfilled int                    `json:"backfilled"`
}

// Ranker is safe for concurrent use; Rank keeps no state between calls.
type Ranker struct {
	opts Options
	m    *matcher
}

// New returns a Ranker.
func New(opts Options) *Ranker {
	if opts.Tables.RemoteKeywords == nil && opts.Tables.USKeywords == nil {
		opts.Tables = DefaultTables()
	}
	if opts.Target <= 0 {
		opts.Target = DefaultTarget
	}
	if opts.Floor <= 0 {
		opts.Floor = DefaultFloor
	}
	if opts.Floor > opts.Target {
		opts.Floor = opts.Target
	}
	if opts.PerSourceCap <= 0 {
		opts.PerSourceCap = DefaultPerSourceCap
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Ranker{opts: opts, m: newMatcher(opts.Tables)}
}

type pipeline struct {
	steps []Step
}

func (p *pipeline) record(name string, before, after int) {
	p.steps = append(p.steps, Step{Name: name, Initial: before, Dropped: before - after, Left: after})
}

// Rank runs the full pipeline: dedup, excluded terms, recency, remote, region,
// location and level filters with relaxation, scoring, relevance threshold,
// source-diverse selection and floor backfill. Identical input always gives
// identical output.
func (r *Ranker) Rank(postings []models.Posting, terms []string, sig *signal.Signal, f models.SearchFilters) Result {
	if sig == nil {
		sig = signal.Build(signal.Input{})
	}
	sc := r.newScorer(terms, sig, f)
	var pl pipeline

	deduped := dedupe(postings)
	pl.record("dedup", len(postings), len(deduped))

	pool := deduped
	if len(sig.ExcludedTerms) > 0 {
		pool = filter(pool, func(p models.Posting) bool { return !mentionsAny(p, sig.ExcludedTerms) })
		pl.record("excluded_terms", len(deduped), len(pool))
	}

	recent := filter(pool, func(p models.Posting) bool { return r.withinDays(p, f.PostedWithinDays) })
	pl.record("recency", len(pool), len(recent))

	remote := recent
	if f.RemoteOnly {
		remote = filter(recent, r.m.isRemote)
		pl.record("remote", len(recent), len(remote))
	}

	region := remote
	if f.USOnly {
		region = filter(remote, r.regionAllowed)
		pl.record("region", len(remote), len(region))
	}

	located := region
	if prefs, hints := r.locationPrefs(f, sig); f.Relocation != models.RelocationYes && (len(prefs) > 0 || len(hints) > 0) {
		located = filter(region, func(p models.Posting) bool { return r.locationMatches(p, prefs, hints, f.RemoteOnly) })
		pl.record("location", len(region), len(located))
	}

	strict := filter(located, func(p models.Posting) bool { return r.m.levelMatches(p, f.Level) })
	relaxed := filter(located, func(p models.Posting) bool { return r.m.levelMatches(p, f.Level) || levelOf(p) == "" })
	// the region filter stays authoritative through every relaxation
	widest := remote
	if f.USOnly {
		widest = region
	}
	chosen, poolName := r.relax([]namedPool{
		{"strict", strict},
		{"relaxed_level", relaxed},
		{"region", region},
		{"remote", widest},
	})
	pl.record("level", len(located), len(strict))
	if poolName != "strict" {
		pl.record("relax_"+poolName, len(strict), len(chosen))
	}

	scored := make([]models.ScoredPosting, len(chosen))
	for i, p := range chosen {
		scored[i] = models.ScoredPosting{Posting: p, Score: sc.breakdown(p).Total()}
	}

	relevant := make([]models.ScoredPosting, 0, len(scored))
	for _, s := range scored {
		if s.Score >= f.MinRelevance {
			relevant = append(relevant, s)
		}
	}
	if len(relevant) == 0 {
		relevant = scored
	}
	pl.record("min_relevance", len(scored), len(relevant))

	selected := r.diversify(relevant)
	pl.record("diversity", len(relevant), len(selected))

	backfilled := 0
	if len(selected) < r.opts.Floor {
		broad := recent
		if f.USOnly {
			broad = filter(recent, r.regionAllowed)
		}
		before := len(selected)
		// the cap only gives way when the filters themselves came up short
		selected = r.backfill(selected, broad, sc, len(relevant) < r.opts.Floor)
		backfilled = len(selected) - before
		pl.record("backfill", before, len(selected))
	}

	for _, s := range pl.steps {
		r.opts.Logger.Debug("rank step",
			zap.String("step", s.Name),
			zap.Int("initial", s.Initial),
			zap.Int("dropped", s.Dropped),
			zap.Int("left", s.Left))
	}

	return Result{Postings: selected, Steps: pl.steps, Pool: poolName, Backfilled: backfilled}
}

// Explain returns the score breakdown of one posting.
func (r *Ranker) Explain(p models.Posting, terms []string, sig *signal.Signal, f models.SearchFilters) Breakdown {
	if sig == nil {
		sig = signal.Build(signal.Input{})
	}
	return r.newScorer(terms, sig, f).breakdown(p)
}

func (r *Ranker) newScorer(terms []string, sig *signal.Signal, f models.SearchFilters) *scorer {
	return &scorer{
		m:        r.m,
		terms:    normalizeTerms(append(append([]string{}, terms...), sig.Keywords...)),
		sig:      sig,
		weighted: sig.Weighted(),
		usOnly:   f.USOnly,
		now:      r.opts.Now(),
	}
}

// regionAllowed keeps postings with US or remote evidence.
func (r *Ranker) regionAllowed(p models.Posting) bool {
	return r.m.isUS(p) || r.m.isRemote(p)
}

func (r *Ranker) withinDays(p models.Posting, days int) bool {
	if days <= 0 {
		return true
	}
	age, ok := ageDays(p, r.opts.Now())
	if !ok {
		return true
	}
	return age <= float64(days)
}

func (r *Ranker) locationPrefs(f models.SearchFilters, sig *signal.Signal) (prefs, hints []string) {
	seen := make(map[string]struct{})
	for _, l := range append(append([]string{}, f.Locations...), sig.PreferredLocations...) {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		prefs = append(prefs, l)
	}
	return prefs, sig.LocationHints
}

func (r *Ranker) locationMatches(p models.Posting, prefs, hints []string, remoteOnly bool) bool {
	loc := strings.ToLower(p.Location)
	for _, pref := range prefs {
		if strings.Contains(loc, pref) {
			return true
		}
	}
	if len(hints) > 0 {
		tokens := textutil.TokenSet(p.Location)
		for _, h := range hints {
			if _, ok := tokens[h]; ok {
				return true
			}
		}
	}
	return remoteOnly && r.m.isRemote(p)
}

type namedPool struct {
	name     string
	postings []models.Posting
}

// relax returns the first pool with at least Floor postings. When none is
// large enough it returns the largest non-empty pool, preferring the earlier
// (stricter) one on ties.
func (r *Ranker) relax(pools []namedPool) ([]models.Posting, string) {
	for _, p := range pools {
		if len(p.postings) >= r.opts.Floor {
			return p.postings, p.name
		}
	}
	best := -1
	for i, p := range pools {
		if len(p.postings) > 0 && (best < 0 || len(p.postings) > len(pools[best].postings)) {
			best = i
		}
	}
	if best < 0 {
		return []models.Posting{}, "empty"
	}
	return pools[best].postings, pools[best].name
}

// diversify picks round-robin across sources, best first within each source,
// until Target is reached or every source is exhausted or capped. The result
// is ordered by score, ties keeping the input order.
func (r *Ranker) diversify(scored []models.ScoredPosting) []models.ScoredPosting {
	type entry struct {
		posting models.ScoredPosting
		index   int
	}
	var order []string
	groups := make(map[string][]entry)
	for i, s := range scored {
		if _, ok := groups[s.Source]; !ok {
			order = append(order, s.Source)
		}
		groups[s.Source] = append(groups[s.Source], entry{posting: s, index: i})
	}
	for _, src := range order {
		g := groups[src]
		sort.SliceStable(g, func(i, j int) bool { return g[i].posting.Score > g[j].posting.Score })
	}

	var picked []entry
	next := make(map[string]int)
	for len(picked) < r.opts.Target {
		progress := false
		for _, src := range order {
			if len(picked) == r.opts.Target {
				break
			}
			i := next[src]
			if i >= len(groups[src]) || i >= r.opts.PerSourceCap {
				continue
			}
			picked = append(picked, groups[src][i])
			next[src] = i + 1
			progress = true
		}
		if !progress {
			break
		}
	}

	sort.Slice(picked, func(i, j int) bool {
		if picked[i].posting.Score != picked[j].posting.Score {
			return picked[i].posting.Score > picked[j].posting.Score
		}
		return picked[i].index < picked[j].index
	})
	selected := make([]models.ScoredPosting, len(picked))
	for i, e := range picked {
		selected[i] = e.posting
	}
	return selected
}

// backfill tops up selected from the broad pool by the simple score. The first
// pass honours the per-source cap up to Target. The second ignores it, only to
// reach Floor, and runs only when liftCap is set.
func (r *Ranker) backfill(selected []models.ScoredPosting, broad []models.Posting, sc *scorer, liftCap bool) []models.ScoredPosting {
	taken := make(map[string]struct{}, len(selected))
	perSource := make(map[string]int)
	for _, s := range selected {
		taken[s.ID] = struct{}{}
		perSource[s.Source]++
	}

	type candidate struct {
		posting models.Posting
		simple  int
	}
	var candidates []candidate
	for _, p := range broad {
		if _, ok := taken[p.ID]; ok {
			continue
		}
		candidates = append(candidates, candidate{posting: p, simple: sc.simple(p)})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].simple > candidates[j].simple })

	used := make([]bool, len(candidates))
	add := func(i int) {
		p := candidates[i].posting
		selected = append(selected, models.ScoredPosting{Posting: p, Score: sc.breakdown(p).Total()})
		perSource[p.Source]++
		used[i] = true
	}

	for i, c := range candidates {
		if len(selected) >= r.opts.Target {
			break
		}
		if perSource[c.posting.Source] < r.opts.PerSourceCap {
			add(i)
		}
	}
	for i := range candidates {
		if !liftCap || len(selected) >= r.opts.Floor {
			break
		}
		if !used[i] {
			add(i)
		}
	}
	return selected
}

// dedupe keeps the first posting per title, company and location.
func dedupe(postings []models.Posting) []models.Posting {
	seen := make(map[string]struct{}, len(postings))
	out := make([]models.Posting, 0, len(postings))
	for _, p := range postings {
		key := strings.ToLower(strings.TrimSpace(p.Title) + "|" + strings.TrimSpace(p.Company) + "|" + strings.TrimSpace(p.Location))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func filter(postings []models.Posting, keep func(models.Posting) bool) []models.Posting {
	out := make([]models.Posting, 0, len(postings))
	for _, p := range postings {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func mentionsAny(p models.Posting, terms []string) bool {
	text := strings.ToLower(p.Title + " " + p.Company + " " + p.Description)
	for _, t := range terms {
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func normalizeTerms(terms []string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, t := range terms {
		for _, tok := range textutil.Tokenize(t) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}
