package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/khrees2412/jobscout/internal/textutil"
	"github.com/khrees2412/jobscout/pkg/models"
	"golang.org/x/sync/errgroup"
)

const (
	arbeitnowBaseURL  = "https://www.arbeitnow.com/api/job-board-api"
	arbeitnowMaxPages = 3
)

// Arbeitnow reads the first pages of the Arbeitnow job board and filters them
// by keyword locally, since the API has no search parameter.
type Arbeitnow struct {
	BaseURL string
	Pages   int
	client  *http.Client
}

type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
}

type arbeitnowJob struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	JobTypes    []string `json:"job_types"`
	Location    string   `json:"location"`
	CreatedAt   int64    `json:"created_at"`
}

// NewArbeitnow returns an Arbeitnow adapter.
func NewArbeitnow(client *http.Client) *Arbeitnow {
	return &Arbeitnow{BaseURL: arbeitnowBaseURL, Pages: arbeitnowMaxPages, client: client}
}

func (a *Arbeitnow) Name() string { return NameArbeitnow }

// Fetch requests all pages concurrently and joins them in page order. It
// fails only when every page fails.
func (a *Arbeitnow) Fetch(ctx context.Context, q Query) ([]models.Posting, error) {
	pages := make([][]arbeitnowJob, a.Pages)

	var g errgroup.Group
	for i := range pages {
		i := i
		g.Go(func() error {
			var resp arbeitnowResponse
			endpoint := fmt.Sprintf("%s?page=%d", a.BaseURL, i+1)
			if err := getJSON(ctx, a.client, endpoint, &resp); err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			pages[i] = resp.Data
			return nil
		})
	}
	err := g.Wait()

	var jobs []arbeitnowJob
	for _, p := range pages {
		jobs = append(jobs, p...)
	}
	if err != nil && len(jobs) == 0 {
		return nil, err
	}

	terms := q.Terms
	if len(terms) == 0 {
		terms = textutil.Keywords(q.Text)
	}

	postings := make([]models.Posting, 0, len(jobs))
	for _, j := range jobs {
		if j.Title == "" {
			continue
		}
		description := HTMLToText(j.Description)
		if !matchesAnyTerm(terms, j.Title, strings.Join(j.Tags, " "), description) {
			continue
		}

		posted := ""
		if j.CreatedAt > 0 {
			posted = time.Unix(j.CreatedAt, 0).UTC().Format(time.RFC3339)
		}

		postings = append(postings, finalize(models.Posting{
			ID:          PostingID(NameArbeitnow, j.Slug),
			Title:       j.Title,
			Company:     j.CompanyName,
			Location:    j.Location,
			Description: description,
			Category:    strings.Join(j.Tags, ", "),
			Source:      NameArbeitnow,
			PostedDate:  posted,
			URL:         j.URL,
			Remote:      j.Remote,
		}))
	}
	return postings, nil
}

// matchesAnyTerm reports whether any term is a token of the given fields.
// No terms matches everything.
func matchesAnyTerm(terms []string, fields ...string) bool {
	if len(terms) == 0 {
		return true
	}
	set := textutil.TokenSet(strings.Join(fields, " "))
	for _, t := range terms {
		if _, ok := set[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}
