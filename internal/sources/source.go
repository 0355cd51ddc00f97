// Package sources fetches job postings from public job boards and maps them
// into models.Posting.
package sources

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/jobscout/pkg/models"
	"go.uber.org/zap"
)

// ErrSourceUnavailable wraps every provider failure: transport errors, non-2xx
// responses and undecodable bodies.
var ErrSourceUnavailable = errors.New("source unavailable")

// Source names
const (
	NameRemotive  = "remotive"
	NameRemoteOK  = "remoteok"
	NameArbeitnow = "arbeitnow"
	NameAdzuna    = "adzuna"
)

// DefaultTimeout bounds a single source call inside FetchAll.
const DefaultTimeout = 8 * time.Second

// Query is what every adapter receives for one search.
type Query struct {
	Text     string   // raw query text
	Terms    []string // keyword terms
	Location string   // location hint, may be empty
	Level    string   // level hint, may be empty
}

// Keywords returns the query terms joined by spaces, or the raw text.
func (q Query) Keywords() string {
	if len(q.Terms) > 0 {
		return strings.Join(q.Terms, " ")
	}
	return strings.TrimSpace(q.Text)
}

// Source is a job board adapter.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]models.Posting, error)
}

// Settings selects and configures adapters.
type Settings struct {
	Enabled       []string
	Timeout       time.Duration
	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string
}

// AllNames lists every adapter in merge order.
var AllNames = []string{NameRemotive, NameRemoteOK, NameArbeitnow, NameAdzuna}

// New builds the enabled adapters in AllNames order. An empty Enabled list
// enables all of them.
func New(settings Settings, client *http.Client, logger *zap.Logger) []Source {
	if client == nil {
		client = NewHTTPClient()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	enabled := make(map[string]bool)
	for _, name := range settings.Enabled {
		enabled[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var out []Source
	for _, name := range AllNames {
		if len(enabled) > 0 && !enabled[name] {
			continue
		}
		switch name {
		case NameRemotive:
			out = append(out, NewRemotive(client))
		case NameRemoteOK:
			out = append(out, NewRemoteOK(client))
		case NameArbeitnow:
			out = append(out, NewArbeitnow(client))
		case NameAdzuna:
			out = append(out, NewAdzuna(client, logger, settings.AdzunaAppID, settings.AdzunaAppKey, settings.AdzunaCountry))
		}
	}
	return out
}

// FallbackURL builds a web search URL for postings without a usable link.
func FallbackURL(title, company string) string {
	q := strings.Join(strings.Fields(title+" "+company+" job"), " ")
	return "https://www.google.com/search?q=" + url.QueryEscape(q)
}

// ValidURL reports whether raw is an absolute http(s) URL.
func ValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// PostingID namespaces a provider ID with the source name.
func PostingID(source, providerID string) string {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		providerID = uuid.NewString()
	}
	return source + ":" + providerID
}

// finalize fills the fields every posting must carry.
func finalize(p models.Posting) models.Posting {
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.Location = strings.TrimSpace(p.Location)
	if !ValidURL(p.URL) {
		p.URL = FallbackURL(p.Title, p.Company)
	}
	if p.Level == "" {
		p.Level = InferLevel(p.Title)
	}
	if !p.Remote {
		p.Remote = strings.Contains(strings.ToLower(p.Location), "remote")
	}
	return p
}

// Levels recognised in titles, checked in order.
var levelHints = []struct {
	level string
	words []string
}{
	{"intern", []string{"intern", "internship"}},
	{"junior", []string{"junior", "jr", "entry", "graduate", "associate"}},
	{"manager", []string{"manager", "director", "head"}},
	{"lead", []string{"lead", "principal", "staff"}},
	{"senior", []string{"senior", "sr"}},
	{"mid", []string{"mid", "intermediate"}},
}

// InferLevel guesses a seniority level from a job title. Unknown is "".
func InferLevel(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	for _, hint := range levelHints {
		for _, w := range words {
			for _, h := range hint.words {
				if w == h {
					return hint.level
				}
			}
		}
	}
	return ""
}
