// Package signal assembles what is known about the candidate into the term
// pools the ranker scores postings against.
package signal

import (
	"strings"

	"github.com/khrees2412/jobscout/internal/textutil"
	"github.com/khrees2412/jobscout/pkg/models"
)

// Origin tags where a weighted term came from.
type Origin string

const (
	OriginTargetRole Origin = "target_role"
	OriginFocusSkill Origin = "focus_skill"
	OriginPreference Origin = "preference"
	OriginResumeName Origin = "resume_name"
)

// Weights per origin. Weights add up when a token comes from several origins.
var Weights = map[Origin]int{
	OriginTargetRole: 4,
	OriginFocusSkill: 3,
	OriginPreference: 2,
	OriginResumeName: 1,
}

// PoolSize caps the resume and LinkedIn token pools.
const PoolSize = 100

// TitleCatalog lists role names looked for in resume and LinkedIn text.
var TitleCatalog = []string{
	"software engineer",
	"backend engineer",
	"frontend engineer",
	"full stack engineer",
	"data engineer",
	"data scientist",
	"data analyst",
	"machine learning engineer",
	"devops engineer",
	"site reliability engineer",
	"platform engineer",
	"mobile engineer",
	"product manager",
	"product designer",
	"engineering manager",
	"qa engineer",
	"security engineer",
}

// Input is everything the builder reads. Nothing here is fetched.
type Input struct {
	ResumeText      string
	ResumeName      string
	Profile         models.Profile
	LinkedInText    string
	Keywords        []string
	Titles          []string
	RecentJobTitles []string
	Locations       []string
	LocationText    string
	ExtraTitles     []string // appended to TitleCatalog
}

// Signal is the candidate profile as term pools.
type Signal struct {
	// Terms keeps each weighted token set by origin.
	Terms map[Origin][]string
	// Keywords are explicit search keywords, joined to the query terms.
	Keywords []string

	PersonaTitles      []string
	SkillPool          map[string]struct{}
	ProfilePool        map[string]struct{}
	LinkedInPool       map[string]struct{}
	PreferredLocations []string
	LocationHints      []string
	ExcludedTerms      []string
}

// Build merges the input into a Signal.
func Build(in Input) *Signal {
	p := in.Profile
	sig := &Signal{
		Terms: map[Origin][]string{
			OriginTargetRole: textutil.Keywords(p.TargetRole),
			OriginFocusSkill: textutil.Keywords(strings.Join(p.FocusSkills, " ")),
			OriginPreference: textutil.Keywords(p.JobPreferences),
			OriginResumeName: textutil.Keywords(in.ResumeName),
		},
		Keywords:     textutil.Keywords(strings.Join(in.Keywords, " ")),
		SkillPool:    make(map[string]struct{}),
		ProfilePool:  make(map[string]struct{}),
		LinkedInPool: make(map[string]struct{}),
	}

	sig.PersonaTitles = personaTitles(in)

	for _, s := range p.Skills {
		addTokens(sig.SkillPool, s.Name)
	}
	for _, tok := range textutil.TopTokens(in.ResumeText, PoolSize) {
		sig.SkillPool[tok] = struct{}{}
	}

	var profileText []string
	profileText = append(profileText, p.Summary)
	for _, e := range p.Experience {
		profileText = append(profileText, e.Title)
		profileText = append(profileText, e.Bullets...)
	}
	for _, pr := range p.Projects {
		profileText = append(profileText, pr.Name)
		profileText = append(profileText, pr.Bullets...)
	}
	addTokens(sig.ProfilePool, strings.Join(profileText, "\n"))

	linkedIn := in.LinkedInText
	if linkedIn == "" {
		linkedIn = p.LinkedInText
	}
	for _, tok := range textutil.TopTokens(linkedIn, PoolSize) {
		sig.LinkedInPool[tok] = struct{}{}
	}

	sig.PreferredLocations = lowerSet(append(append([]string{}, in.Locations...), p.Locations...))
	sig.LocationHints = textutil.Keywords(in.LocationText + " " + p.Location)
	sig.ExcludedTerms = lowerSet(p.ExcludedTerms)

	return sig
}

// Weighted returns the additive weight of every tagged token.
func (s *Signal) Weighted() map[string]int {
	out := make(map[string]int)
	for origin, toks := range s.Terms {
		for _, tok := range toks {
			out[tok] += Weights[origin]
		}
	}
	return out
}

func personaTitles(in Input) []string {
	var titles []string
	seen := make(map[string]struct{})
	add := func(t string) {
		t = strings.Join(strings.Fields(strings.ToLower(t)), " ")
		if t == "" {
			return
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		titles = append(titles, t)
	}

	add(in.Profile.TargetRole)
	for _, t := range in.Titles {
		add(t)
	}
	for _, e := range in.Profile.Experience {
		add(e.Title)
	}
	for _, t := range in.RecentJobTitles {
		add(t)
	}

	haystack := strings.ToLower(in.ResumeText + "\n" + in.LinkedInText + "\n" + in.Profile.LinkedInText)
	catalog := append(append([]string{}, TitleCatalog...), in.ExtraTitles...)
	for _, t := range catalog {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" && strings.Contains(haystack, t) {
			add(t)
		}
	}
	return titles
}

func addTokens(pool map[string]struct{}, text string) {
	for _, tok := range textutil.Keywords(text) {
		pool[tok] = struct{}{}
	}
}

func lowerSet(values []string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
