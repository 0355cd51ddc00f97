package sources

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/khrees2412/jobscout/pkg/models"
)

const remotiveBaseURL = "https://remotive.com/api/remote-jobs"

// Remotive queries the Remotive remote-jobs API with a keyword search.
type Remotive struct {
	BaseURL string
	Limit   int
	client  *http.Client
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	ID                        int      `json:"id"`
	URL                       string   `json:"url"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	Category                  string   `json:"category"`
	JobType                   string   `json:"job_type"`
	PublicationDate           string   `json:"publication_date"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	Description               string   `json:"description"`
	Tags                      []string `json:"tags"`
}

// NewRemotive returns a Remotive adapter.
func NewRemotive(client *http.Client) *Remotive {
	return &Remotive{BaseURL: remotiveBaseURL, Limit: 100, client: client}
}

func (r *Remotive) Name() string { return NameRemotive }

// Fetch issues a single search request.
func (r *Remotive) Fetch(ctx context.Context, q Query) ([]models.Posting, error) {
	params := url.Values{}
	if kw := q.Keywords(); kw != "" {
		params.Set("search", kw)
	}
	params.Set("limit", strconv.Itoa(r.Limit))

	var resp remotiveResponse
	if err := getJSON(ctx, r.client, r.BaseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	postings := make([]models.Posting, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		if j.Title == "" {
			continue
		}
		location := j.CandidateRequiredLocation
		if location == "" {
			location = "Remote"
		}
		id := ""
		if j.ID != 0 {
			id = strconv.Itoa(j.ID)
		}
		postings = append(postings, finalize(models.Posting{
			ID:          PostingID(NameRemotive, id),
			Title:       j.Title,
			Company:     j.CompanyName,
			Location:    location,
			Description: HTMLToText(j.Description),
			Category:    j.Category,
			Source:      NameRemotive,
			PostedDate:  j.PublicationDate,
			URL:         j.URL,
			Remote:      true,
		}))
	}
	return postings, nil
}
