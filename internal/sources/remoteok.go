package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/khrees2412/jobscout/internal/textutil"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/mitchellh/mapstructure"
)

const remoteOKBaseURL = "https://remoteok.com/api"

// RemoteOK queries the RemoteOK feed filtered by a single tag.
type RemoteOK struct {
	BaseURL string
	client  *http.Client
}

// remoteOKJob is one element of the feed. Field types vary between items
// (ids arrive as numbers or strings) so items are decoded weakly.
type remoteOKJob struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Date        string   `json:"date"`
	Epoch       int64    `json:"epoch"`
	URL         string   `json:"url"`
	ApplyURL    string   `json:"apply_url"`
}

// NewRemoteOK returns a RemoteOK adapter.
func NewRemoteOK(client *http.Client) *RemoteOK {
	return &RemoteOK{BaseURL: remoteOKBaseURL, client: client}
}

func (r *RemoteOK) Name() string { return NameRemoteOK }

// Fetch requests the feed for the best tag of the query.
func (r *RemoteOK) Fetch(ctx context.Context, q Query) ([]models.Posting, error) {
	endpoint := r.BaseURL
	if tag := bestTag(q); tag != "" {
		endpoint += "?" + url.Values{"tag": {tag}}.Encode()
	}

	var raw []map[string]any
	if err := getJSON(ctx, r.client, endpoint, &raw); err != nil {
		return nil, err
	}

	postings := make([]models.Posting, 0, len(raw))
	for _, item := range raw {
		// the first element is a legal notice, not a job
		if _, ok := item["legal"]; ok {
			continue
		}

		job, err := decodeRemoteOKJob(item)
		if err != nil || job.Position == "" {
			continue
		}

		link := job.URL
		if !ValidURL(link) {
			link = job.ApplyURL
		}
		if !ValidURL(link) && job.Slug != "" {
			link = "https://remoteok.com/remote-jobs/" + job.Slug
		}

		posted := job.Date
		if posted == "" && job.Epoch > 0 {
			posted = time.Unix(job.Epoch, 0).UTC().Format(time.RFC3339)
		}

		location := job.Location
		if location == "" {
			location = "Remote"
		}

		postings = append(postings, finalize(models.Posting{
			ID:          PostingID(NameRemoteOK, job.ID),
			Title:       job.Position,
			Company:     job.Company,
			Location:    location,
			Description: HTMLToText(job.Description),
			Category:    strings.Join(job.Tags, ", "),
			Source:      NameRemoteOK,
			PostedDate:  posted,
			URL:         link,
			Remote:      true,
		}))
	}
	return postings, nil
}

func decodeRemoteOKJob(item map[string]any) (remoteOKJob, error) {
	var job remoteOKJob
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &job,
	})
	if err != nil {
		return job, err
	}
	if err := decoder.Decode(item); err != nil {
		return job, fmt.Errorf("decode remoteok item: %w", err)
	}
	return job, nil
}

// bestTag picks the first non-stop-word term; RemoteOK only filters by one tag.
func bestTag(q Query) string {
	terms := q.Terms
	if len(terms) == 0 {
		terms = textutil.Tokenize(q.Text)
	}
	for _, t := range terms {
		t = strings.ToLower(t)
		if !textutil.IsStopWord(t) && len(t) > 2 {
			return t
		}
	}
	if len(terms) > 0 {
		return strings.ToLower(terms[0])
	}
	return ""
}
