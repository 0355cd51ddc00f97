package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khrees2412/jobscout/internal/config"
	"github.com/khrees2412/jobscout/internal/database"
	"github.com/khrees2412/jobscout/internal/ranker"
	"github.com/khrees2412/jobscout/internal/search"
	"github.com/khrees2412/jobscout/internal/sources"
	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticSource struct {
	name     string
	postings []models.Posting
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Fetch(context.Context, sources.Query) ([]models.Posting, error) {
	return s.postings, nil
}

func remotePostings(source string, n int) []models.Posting {
	out := make([]models.Posting, n)
	for i := range out {
		out[i] = models.Posting{
			ID:         fmt.Sprintf("%s:%d", source, i),
			Source:     source,
			Title:      fmt.Sprintf("Backend Engineer %d", i),
			Company:    fmt.Sprintf("%s Co %d", source, i),
			Location:   "Remote",
			URL:        fmt.Sprintf("https://example.com/%s/%d", source, i),
			PostedDate: fixedNow.AddDate(0, 0, -1).Format(time.RFC3339),
			Remote:     true,
		}
	}
	return out
}

type testEnv struct {
	router *gin.Engine
	store  *database.Store
}

func newTestEnv(t *testing.T, cfg *config.Config, srcs ...sources.Source) testEnv {
	t.Helper()
	store, err := database.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := zaptest.NewLogger(t)
	svc := search.NewService(search.Options{
		Sources: srcs,
		Ranker:  ranker.New(ranker.Options{Now: func() time.Time { return fixedNow }, Logger: logger}),
		Timeout: time.Second,
		Logger:  logger,
	})
	return testEnv{
		router: NewRouter(Deps{Search: svc, Store: store, Config: cfg, Logger: logger}),
		store:  store,
	}
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	w, resp := do(t, env.router, http.MethodGet, "/v1/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "System operational", resp.Message)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, resp.RequestID, w.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	assert.Contains(t, w.Body.String(), `"request_id":"abc-123"`)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, nil,
		staticSource{name: "a", postings: remotePostings("a", 3)},
		staticSource{name: "b", postings: remotePostings("b", 2)},
	)
	w, resp := do(t, env.router, http.MethodPost, "/v1/jobs/search", map[string]interface{}{
		"query":   "backend engineer",
		"filters": map[string]interface{}{"relocation": "ANY"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, resp.Success)

	var data searchResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 5, data.Fetched)
	assert.Equal(t, 5, data.Count)
	require.Len(t, data.Postings, 5)
	assert.Contains(t, data.Terms, "backend")
	assert.NotEmpty(t, data.Postings[0].Links.Google)
}

func TestSearchEmpty(t *testing.T) {
	env := newTestEnv(t, nil, staticSource{name: "a"})
	w, resp := do(t, env.router, http.MethodPost, "/v1/jobs/search", map[string]string{"query": "go"})
	require.Equal(t, http.StatusOK, w.Code)

	var data searchResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Zero(t, data.Count)
	assert.NotNil(t, data.Postings)
}

func TestSearchRejectsBadRelocation(t *testing.T) {
	env := newTestEnv(t, nil)
	w, resp := do(t, env.router, http.MethodPost, "/v1/jobs/search", map[string]interface{}{
		"query":   "go",
		"filters": map[string]interface{}{"relocation": "maybe"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "relocation")
}

func TestApplyFilters(t *testing.T) {
	base := models.DefaultSearchFilters()
	assert.Equal(t, base, applyFilters(base, nil))

	no := false
	days := 7
	got := applyFilters(base, &filtersRequest{USOnly: &no, PostedWithinDays: &days, Level: "senior"})
	assert.False(t, got.USOnly)
	assert.Equal(t, 7, got.PostedWithinDays)
	assert.Equal(t, "senior", got.Level)
	assert.Equal(t, base.MinRelevance, got.MinRelevance)
}

const sampleResume = `Jane Doe
jane@example.com
Austin, TX

Security Clearance: Active TS/SCI clearance since 2019

Skills
Go, Kubernetes, PostgreSQL
`

func TestParseResume(t *testing.T) {
	env := newTestEnv(t, nil)
	w, resp := do(t, env.router, http.MethodPost, "/v1/resume/parse", map[string]interface{}{
		"text":  sampleResume,
		"merge": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data parseResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "jane@example.com", data.Resume.Contact.Email)
	assert.NotEmpty(t, data.Resume.Skills)

	snap, err := env.store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", snap.Profile.Email)
}

func TestParseResumeRejectsBinary(t *testing.T) {
	env := newTestEnv(t, nil)
	w, resp := do(t, env.router, http.MethodPost, "/v1/resume/parse", map[string]string{"text": "%PDF-1.7 ..."})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
}

func TestParseResumeRequiresText(t *testing.T) {
	env := newTestEnv(t, nil)
	w, _ := do(t, env.router, http.MethodPost, "/v1/resume/parse", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomFields(t *testing.T) {
	env := newTestEnv(t, nil)
	body := map[string]interface{}{"text": sampleResume, "merge": true}

	w, resp := do(t, env.router, http.MethodPost, "/v1/resume/custom-fields", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data customFieldsResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Len(t, data.Fields, 1)
	assert.Equal(t, "Security Clearance", data.Fields[0].Label)
	assert.Equal(t, 1, data.Added)

	// Same label again adds nothing.
	_, resp = do(t, env.router, http.MethodPost, "/v1/resume/custom-fields", body)
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Zero(t, data.Added)
}

func TestPromote(t *testing.T) {
	env := newTestEnv(t, nil)
	body := map[string]interface{}{
		"posting": map[string]interface{}{
			"id":     "remotive:1",
			"title":  "Backend Engineer",
			"url":    "https://example.com/jobs/1",
			"source": "remotive",
			"score":  12,
		},
		"status": "applied",
	}

	w, resp := do(t, env.router, http.MethodPost, "/v1/jobs/promote", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data promoteResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 12, data.Job.MatchScore)
	assert.Equal(t, "applied", data.Application.Status)
	assert.Equal(t, data.Job.ID, data.Application.JobID)

	w, resp = do(t, env.router, http.MethodPost, "/v1/jobs/promote", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, resp.Success)

	w, resp = do(t, env.router, http.MethodGet, "/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(resp.Data), `"applied":1`)
}

func TestPromoteValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing url", map[string]interface{}{"posting": map[string]interface{}{"title": "x"}}},
		{"bad url", map[string]interface{}{"posting": map[string]interface{}{"title": "x", "url": "not a url"}}},
		{"bad status", map[string]interface{}{
			"posting": map[string]interface{}{"title": "x", "url": "https://example.com/x"},
			"status":  "ghosted",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := do(t, env.router, http.MethodPost, "/v1/jobs/promote", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, resp.Success)
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := &config.Config{Filters: models.DefaultSearchFilters()}
	cfg.Server.RateLimit = 1
	cfg.Server.Burst = 1
	env := newTestEnv(t, cfg)

	w, _ := do(t, env.router, http.MethodGet, "/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := do(t, env.router, http.MethodGet, "/v1/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimiterPerClient(t *testing.T) {
	l := NewRateLimiter(1, 2)
	l.now = func() time.Time { return fixedNow }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))

	l.now = func() time.Time { return fixedNow.Add(time.Second) }
	assert.True(t, l.Allow("a"))
}

func TestErrorHandlerMapping(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(zaptest.NewLogger(t)))
	r.GET("/internal", func(c *gin.Context) { c.Error(errors.New("db exploded")) })
	r.GET("/timeout", func(c *gin.Context) { c.Error(fmt.Errorf("search: %w", context.DeadlineExceeded)) })
	r.GET("/missing", func(c *gin.Context) { c.Error(NotFound("no such job")) })

	w, resp := do(t, r, http.MethodGet, "/internal", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, resp.Message, "exploded")

	w, _ = do(t, r, http.MethodGet, "/timeout", nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	w, resp = do(t, r, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no such job", resp.Message)
}
