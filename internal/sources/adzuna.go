package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/khrees2412/jobscout/pkg/models"
	"go.uber.org/zap"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
)

// Adzuna queries the Adzuna search API. It needs an app ID, an app key and a
// country code; without all three it stays inert.
type Adzuna struct {
	BaseURL string
	AppID   string
	AppKey  string
	Country string // "us", "gb", "de", ...

	client   *http.Client
	logger   *zap.Logger
	warnOnce sync.Once
}

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

type adzunaResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaLabel    `json:"company"`
	Location    adzunaLabel    `json:"location"`
	Category    adzunaCategory `json:"category"`
	RedirectURL string         `json:"redirect_url"`
	Created     string         `json:"created"`
}

type adzunaLabel struct {
	DisplayName string `json:"display_name"`
}

type adzunaCategory struct {
	Label string `json:"label"`
}

// NewAdzuna returns an Adzuna adapter.
func NewAdzuna(client *http.Client, logger *zap.Logger, appID, appKey, country string) *Adzuna {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adzuna{
		BaseURL: adzunaBaseURL,
		AppID:   strings.TrimSpace(appID),
		AppKey:  strings.TrimSpace(appKey),
		Country: strings.ToLower(strings.TrimSpace(country)),
		client:  client,
		logger:  logger,
	}
}

func (a *Adzuna) Name() string { return NameAdzuna }

// Configured reports whether all credentials are present.
func (a *Adzuna) Configured() bool {
	return a.AppID != "" && a.AppKey != "" && a.Country != ""
}

// Fetch issues a single search request. Missing credentials return (nil, nil).
func (a *Adzuna) Fetch(ctx context.Context, q Query) ([]models.Posting, error) {
	if !a.Configured() {
		a.warnOnce.Do(func() {
			a.logger.Info("adzuna credentials not set, skipping source",
				zap.Bool("app_id", a.AppID != ""),
				zap.Bool("app_key", a.AppKey != ""),
				zap.Bool("country", a.Country != ""))
		})
		return nil, nil
	}

	params := url.Values{}
	params.Set("app_id", a.AppID)
	params.Set("app_key", a.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("content-type", "application/json")
	if kw := q.Keywords(); kw != "" {
		params.Set("what", kw)
	}
	if q.Location != "" {
		params.Set("where", q.Location)
	}
	endpoint := fmt.Sprintf("%s/%s/search/1?%s", a.BaseURL, url.PathEscape(a.Country), params.Encode())

	var resp adzunaResponse
	if err := getJSON(ctx, a.client, endpoint, &resp); err != nil {
		return nil, err
	}

	postings := make([]models.Posting, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Title == "" {
			continue
		}
		description := HTMLToText(r.Description)
		remote := strings.Contains(strings.ToLower(r.Title+" "+r.Location.DisplayName+" "+description), "remote")
		postings = append(postings, finalize(models.Posting{
			ID:          PostingID(NameAdzuna, r.ID),
			Title:       HTMLToText(r.Title),
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			Description: description,
			Category:    r.Category.Label,
			Source:      NameAdzuna,
			PostedDate:  r.Created,
			URL:         r.RedirectURL,
			Remote:      remote,
		}))
	}
	return postings, nil
}
