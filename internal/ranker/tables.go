package ranker

import "strings"

// Tables holds the keyword lists the filters and score components match
// against. All entries are lower case except state codes.
type Tables struct {
	// USKeywords match anywhere in location or description text.
	USKeywords []string
	// USLocationKeywords match the location field only.
	USLocationKeywords []string
	// USStateCodes match a ", ST" suffix in the location field.
	USStateCodes []string
	// StateCodeCities lists, for state codes that are also country codes,
	// the cities that must precede the code for it to count as US.
	StateCodeCities map[string][]string
	RemoteKeywords  []string
	ATSDomains      []string
	LevelSynonyms   map[string][]string
}

var usStates = []string{
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado",
	"connecticut", "delaware", "florida", "georgia", "hawaii", "idaho",
	"illinois", "indiana", "iowa", "kansas", "kentucky", "louisiana", "maine",
	"maryland", "massachusetts", "michigan", "minnesota", "mississippi",
	"missouri", "montana", "nebraska", "nevada", "new hampshire", "new jersey",
	"new mexico", "new york", "north carolina", "north dakota", "ohio",
	"oklahoma", "oregon", "pennsylvania", "rhode island", "south carolina",
	"south dakota", "tennessee", "texas", "utah", "vermont", "virginia",
	"washington", "west virginia", "wisconsin", "wyoming",
}

var usStateCodes = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI", "ID",
	"IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO",
	"MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA",
	"RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

// stateCodeCities covers the codes shared with ISO country codes: Canada,
// Germany, India, Colombia, Argentina, Panama, Albania, Morocco, Moldova,
// Gabon, Montenegro, Niger and the Seychelles.
var stateCodeCities = map[string][]string{
	"CA": {"los angeles", "san francisco", "san diego", "san jose", "sacramento", "oakland",
		"palo alto", "mountain view", "sunnyvale", "santa clara", "menlo park", "irvine",
		"berkeley", "santa monica", "cupertino", "redwood city", "pasadena", "long beach",
		"fresno", "south san francisco", "san mateo", "emeryville"},
	"DE": {"wilmington", "dover", "newark"},
	"IN": {"indianapolis", "fort wayne", "bloomington", "evansville", "south bend", "carmel"},
	"CO": {"denver", "boulder", "colorado springs", "fort collins", "aurora", "golden", "broomfield"},
	"AR": {"little rock", "fayetteville", "bentonville", "fort smith", "rogers"},
	"PA": {"philadelphia", "pittsburgh", "harrisburg", "allentown", "erie", "king of prussia"},
	"AL": {"birmingham", "huntsville", "montgomery", "mobile", "tuscaloosa"},
	"MA": {"boston", "cambridge", "somerville", "worcester", "waltham", "burlington", "lexington"},
	"MD": {"baltimore", "bethesda", "rockville", "columbia", "annapolis", "silver spring", "gaithersburg"},
	"GA": {"atlanta", "savannah", "augusta", "alpharetta", "athens"},
	"ME": {"portland", "bangor", "augusta"},
	"NE": {"omaha", "lincoln"},
	"SC": {"charleston", "columbia", "greenville"},
}

// DefaultTables returns the built-in tables.
func DefaultTables() Tables {
	us := append([]string{"united states", "usa", "u.s.", "u.s.a.", "us only", "us-based", "us based"}, usStates...)
	return Tables{
		USKeywords:         us,
		USLocationKeywords: []string{"us", "america"},
		USStateCodes:       append([]string{}, usStateCodes...),
		StateCodeCities:    stateCodeCities,
		RemoteKeywords:     []string{"remote", "work from home"},
		ATSDomains: []string{
			"greenhouse.io", "lever.co", "ashbyhq.com", "workable.com",
			"smartrecruiters.com", "myworkdayjobs.com", "bamboohr.com",
			"jobvite.com", "icims.com", "recruitee.com", "breezy.hr",
			"teamtailor.com",
		},
		LevelSynonyms: map[string][]string{
			"intern":  {"intern", "internship"},
			"junior":  {"junior", "jr", "entry", "graduate", "associate"},
			"entry":   {"junior", "jr", "entry", "graduate", "associate"},
			"mid":     {"mid", "intermediate"},
			"senior":  {"senior", "sr"},
			"lead":    {"lead", "staff", "principal"},
			"manager": {"manager", "director", "head"},
		},
	}
}

// Extend returns a copy of t with extra US keywords and ATS domains appended.
func (t Tables) Extend(usKeywords, atsDomains []string) Tables {
	out := t
	out.USKeywords = appendLower(append([]string{}, t.USKeywords...), usKeywords)
	out.ATSDomains = appendLower(append([]string{}, t.ATSDomains...), atsDomains)
	return out
}

func appendLower(dst, extra []string) []string {
	for _, e := range extra {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			dst = append(dst, e)
		}
	}
	return dst
}
