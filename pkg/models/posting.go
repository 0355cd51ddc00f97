package models

// Posting is a job listing fetched from a job board for a single search
type Posting struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Level       string `json:"level"`
	Category    string `json:"category"`
	Source      string `json:"source"`
	PostedDate  string `json:"posted_date"`
	URL         string `json:"url"`
	Remote      bool   `json:"remote"`
}

// ScoredPosting pairs a posting with its relevance score
type ScoredPosting struct {
	Posting
	Score int `json:"score"`
}

// SearchLinks are deep links into third-party job search UIs
type SearchLinks struct {
	LinkedIn  string `json:"linkedin"`
	Indeed    string `json:"indeed"`
	Glassdoor string `json:"glassdoor"`
	Google    string `json:"google"`
}

// RankedPosting is a scored posting ready for display
type RankedPosting struct {
	ScoredPosting
	Links SearchLinks `json:"links"`
}

// Relocation values accepted in SearchFilters
const (
	RelocationAny = "any"
	RelocationYes = "yes"
	RelocationNo  = "no"
)

// SearchFilters narrows and shapes a ranked job search
type SearchFilters struct {
	Locations        []string `json:"locations" mapstructure:"locations"`
	Keywords         []string `json:"keywords" mapstructure:"keywords"`
	RemoteOnly       bool     `json:"remote_only" mapstructure:"remote_only"`
	Relocation       string   `json:"relocation" mapstructure:"relocation"`
	Level            string   `json:"level" mapstructure:"level"`
	MinRelevance     int      `json:"min_relevance" mapstructure:"min_relevance"`
	USOnly           bool     `json:"us_only" mapstructure:"us_only"`
	PostedWithinDays int      `json:"posted_within_days" mapstructure:"posted_within_days"`
}

// DefaultSearchFilters returns the filters used when the caller sets none
func DefaultSearchFilters() SearchFilters {
	return SearchFilters{
		Relocation:   RelocationAny,
		MinRelevance: 1,
		USOnly:       true,
	}
}

// SavedQuery is a search stored for re-runs
type SavedQuery struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Query     string        `json:"query"`
	Location  string        `json:"location"`
	Filters   SearchFilters `json:"filters"`
	CreatedAt string        `json:"created_at"`
}
