package ranker

import (
	"strings"
	"time"

	"github.com/khrees2412/jobscout/internal/signal"
	"github.com/khrees2412/jobscout/internal/textutil"
	"github.com/khrees2412/jobscout/pkg/models"
)

// Score weights and caps.
const (
	TitleTermPoints    = 4
	BodyTermPoints     = 1
	CategoryTermPoints = 1
	USPoints           = 5
	NonUSPenalty       = -6
	RemotePoints       = 2
	FreshPoints        = 4 // posted within FreshDays
	RecentPoints       = 2 // posted within RecentDays
	ATSPoints          = 3
	PersonaPoints      = 6
	SkillCap           = 8
	ProfileCap         = 4
	LinkedInCap        = 4
	IntentCap          = 12

	FreshDays  = 7
	RecentDays = 30
)

// Breakdown is the per-component score of one posting.
type Breakdown struct {
	Keywords int `json:"keywords"`
	Region   int `json:"region"`
	Remote   int `json:"remote"`
	Recency  int `json:"recency"`
	ATS      int `json:"ats"`
	Persona  int `json:"persona"`
	Skills   int `json:"skills"`
	Profile  int `json:"profile"`
	LinkedIn int `json:"linkedin"`
	Intent   int `json:"intent"`
}

// Total sums all components.
func (b Breakdown) Total() int {
	return b.Keywords + b.Region + b.Remote + b.Recency + b.ATS + b.Persona +
		b.Skills + b.Profile + b.LinkedIn + b.Intent
}

// scorer holds everything derived once per Rank call.
type scorer struct {
	m        *matcher
	terms    []string
	sig      *signal.Signal
	weighted map[string]int
	usOnly   bool
	now      time.Time
}

func (s *scorer) breakdown(p models.Posting) Breakdown {
	var b Breakdown

	title := textutil.TokenSet(p.Title)
	body := textutil.TokenSet(p.Description)
	category := textutil.TokenSet(p.Category)
	for _, term := range s.terms {
		if _, ok := title[term]; ok {
			b.Keywords += TitleTermPoints
		}
		if _, ok := body[term]; ok {
			b.Keywords += BodyTermPoints
		}
		if _, ok := category[term]; ok {
			b.Keywords += CategoryTermPoints
		}
	}

	if s.m.isUS(p) {
		b.Region = USPoints
	} else if s.usOnly {
		b.Region = NonUSPenalty
	}
	if s.m.isRemote(p) {
		b.Remote = RemotePoints
	}
	b.Recency = s.recency(p)
	if s.m.isATS(p.URL) {
		b.ATS = ATSPoints
	}
	b.Persona = s.persona(p)

	all := union(title, body, category)
	b.Skills = min(SkillCap, textutil.Overlap(all, s.sig.SkillPool))
	b.Profile = min(ProfileCap, textutil.Overlap(all, s.sig.ProfilePool))
	b.LinkedIn = min(LinkedInCap, textutil.Overlap(all, s.sig.LinkedInPool))

	intent := 0
	for tok, w := range s.weighted {
		if _, ok := all[tok]; ok {
			intent += w
		}
	}
	b.Intent = min(IntentCap, intent)

	return b
}

// simple is the backfill score: keywords, persona and recency only.
func (s *scorer) simple(p models.Posting) int {
	b := s.breakdown(p)
	return b.Keywords + b.Persona + b.Recency
}

func (s *scorer) recency(p models.Posting) int {
	age, ok := ageDays(p, s.now)
	switch {
	case !ok:
		return 0
	case age <= FreshDays:
		return FreshPoints
	case age <= RecentDays:
		return RecentPoints
	}
	return 0
}

func (s *scorer) persona(p models.Posting) int {
	title := strings.Join(strings.Fields(strings.ToLower(p.Title)), " ")
	for _, t := range s.sig.PersonaTitles {
		if t != "" && strings.Contains(title, t) {
			return PersonaPoints
		}
	}
	return 0
}

func union(sets ...map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range sets {
		for k := range s {
			out[k] = struct{}{}
		}
	}
	return out
}
