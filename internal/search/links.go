package search

import (
	"net/url"
	"strings"

	"github.com/khrees2412/jobscout/pkg/models"
)

const (
	linkedInSearchURL  = "https://www.linkedin.com/jobs/search"
	indeedSearchURL    = "https://www.indeed.com/jobs"
	glassdoorSearchURL = "https://www.glassdoor.com/Job/jobs.htm"
	googleSearchURL    = "https://www.google.com/search"
)

// Links builds the third-party search links for a posting.
func Links(title, company, location string) models.SearchLinks {
	query := strings.TrimSpace(strings.TrimSpace(title) + " " + strings.TrimSpace(company))
	location = strings.TrimSpace(location)
	return models.SearchLinks{
		LinkedIn:  buildSearchURL(linkedInSearchURL, "keywords", query, "location", location),
		Indeed:    buildSearchURL(indeedSearchURL, "q", query, "l", location),
		Glassdoor: buildSearchURL(glassdoorSearchURL, "keyword", query, "locKeyword", location),
		Google:    buildSearchURL(googleSearchURL, "q", strings.TrimSpace(query+" "+location+" jobs"), "", ""),
	}
}

// buildSearchURL appends the non-empty query and location params to base.
func buildSearchURL(base, queryKey, query, locationKey, location string) string {
	params := url.Values{}
	if query != "" {
		params.Set(queryKey, query)
	}
	if locationKey != "" && location != "" {
		params.Set(locationKey, location)
	}
	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}
