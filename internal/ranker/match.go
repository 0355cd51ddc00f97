package ranker

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/khrees2412/jobscout/internal/sources"
	"github.com/khrees2412/jobscout/pkg/models"
)

// phraseText lowercases s and reduces it to single-space separated words so
// phrases can be matched on word boundaries.
func phraseText(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(words, " ") + " "
}

func containsPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		p = strings.TrimSpace(phraseText(p))
		if p != "" && strings.Contains(text, " "+p+" ") {
			return true
		}
	}
	return false
}

type matcher struct {
	tables  Tables
	stateRe *regexp.Regexp
}

func newMatcher(t Tables) *matcher {
	m := &matcher{tables: t}
	if len(t.USStateCodes) > 0 {
		codes := make([]string, len(t.USStateCodes))
		for i, c := range t.USStateCodes {
			codes[i] = regexp.QuoteMeta(strings.ToUpper(c))
		}
		m.stateRe = regexp.MustCompile(`,\s*(` + strings.Join(codes, "|") + `)\b`)
	}
	return m
}

func (m *matcher) isRemote(p models.Posting) bool {
	if p.Remote {
		return true
	}
	return containsPhrase(phraseText(p.Location+" "+p.Description), m.tables.RemoteKeywords)
}

func (m *matcher) isUS(p models.Posting) bool {
	if containsPhrase(phraseText(p.Location+" "+p.Description), m.tables.USKeywords) {
		return true
	}
	if containsPhrase(phraseText(p.Location), m.tables.USLocationKeywords) {
		return true
	}
	return m.hasStateCode(p.Location)
}

// hasStateCode reports whether location ends a segment with a US state code.
// Codes that double as country codes count only after a city in that state.
func (m *matcher) hasStateCode(location string) bool {
	if m.stateRe == nil {
		return false
	}
	for _, loc := range m.stateRe.FindAllStringSubmatchIndex(location, -1) {
		cities, ambiguous := m.tables.StateCodeCities[location[loc[2]:loc[3]]]
		if !ambiguous || containsPhrase(phraseText(location[:loc[0]]), cities) {
			return true
		}
	}
	return false
}

func (m *matcher) isATS(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, d := range m.tables.ATSDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// levelMatches reports whether the posting satisfies the requested level.
func (m *matcher) levelMatches(p models.Posting, level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return true
	}
	title := strings.ToLower(p.Title)
	detected := levelOf(p)
	if strings.EqualFold(detected, level) || strings.Contains(title, level) {
		return true
	}
	titleWords := phraseText(p.Title)
	for _, syn := range m.tables.LevelSynonyms[level] {
		if strings.EqualFold(detected, syn) || strings.Contains(titleWords, " "+syn+" ") {
			return true
		}
	}
	return false
}

// levelOf returns the adapter-reported level or the one implied by the title.
func levelOf(p models.Posting) string {
	if p.Level != "" {
		return p.Level
	}
	return sources.InferLevel(p.Title)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Jan 2, 2006",
}

// parseDate reads the date formats job boards send. ok is false when the
// value is missing or unrecognised.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0).UTC(), true
	}
	return time.Time{}, false
}

// ageDays returns how many days ago the posting was published.
func ageDays(p models.Posting, now time.Time) (float64, bool) {
	t, ok := parseDate(p.PostedDate)
	if !ok {
		return 0, false
	}
	age := now.Sub(t).Hours() / 24
	if age < 0 {
		age = 0
	}
	return age, true
}
