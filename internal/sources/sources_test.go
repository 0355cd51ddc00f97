package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/khrees2412/jobscout/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serveJSON(t *testing.T, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemotiveFetch(t *testing.T) {
	body := `{"jobs":[
		{"id":101,"url":"https://remotive.com/remote-jobs/software-dev/go-engineer-101","title":"Senior Go Engineer","company_name":"Acme","category":"Software Development","publication_date":"2026-10-10T08:00:00","candidate_required_location":"USA","description":"<p>Build <b>APIs</b></p><ul><li>Go</li><li>Postgres</li></ul>"},
		{"id":102,"url":"","title":"Data Analyst","company_name":"Initech","candidate_required_location":""},
		{"id":103,"title":""}
	]}`
	srv := serveJSON(t, body, func(r *http.Request) {
		assert.Equal(t, "golang backend", r.URL.Query().Get("search"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
	})

	r := NewRemotive(srv.Client())
	r.BaseURL = srv.URL
	postings, err := r.Fetch(context.Background(), Query{Terms: []string{"golang", "backend"}})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	p := postings[0]
	assert.Equal(t, "remotive:101", p.ID)
	assert.Equal(t, "USA", p.Location)
	assert.Equal(t, "Build APIs\nGo\nPostgres", p.Description)
	assert.Equal(t, "senior", p.Level)
	assert.True(t, p.Remote)

	assert.Equal(t, "Remote", postings[1].Location)
	assert.True(t, strings.HasPrefix(postings[1].URL, "https://www.google.com/search?q="))
}

func TestRemoteOKFetchDecodesMixedItems(t *testing.T) {
	body := `[
		{"legal":"API terms"},
		{"id":"9001","slug":"remote-go-dev-9001","position":"Go Developer","company":"Hooli","location":"","tags":["go","backend"],"date":"2026-10-12T00:00:00+00:00","url":"https://remoteok.com/remote-jobs/9001"},
		{"id":9002,"slug":"sre-9002","position":"SRE","company":"Pied Piper","epoch":1760000000,"url":""},
		{"id":9003,"position":""}
	]`
	srv := serveJSON(t, body, func(r *http.Request) {
		assert.Equal(t, "golang", r.URL.Query().Get("tag"))
	})

	ro := NewRemoteOK(srv.Client())
	ro.BaseURL = srv.URL
	postings, err := ro.Fetch(context.Background(), Query{Terms: []string{"the", "golang"}})
	require.NoError(t, err)
	require.Len(t, postings, 2)

	assert.Equal(t, "remoteok:9001", postings[0].ID)
	assert.Equal(t, "go, backend", postings[0].Category)
	assert.Equal(t, "Remote", postings[0].Location)

	assert.Equal(t, "remoteok:9002", postings[1].ID)
	assert.Equal(t, "https://remoteok.com/remote-jobs/sre-9002", postings[1].URL)
	assert.NotEmpty(t, postings[1].PostedDate)
}

func TestArbeitnowFetchJoinsPagesAndFilters(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(`{"data":[{"slug":"go-dev-berlin","company_name":"Zalando","title":"Go Developer","description":"<p>Backend</p>","remote":false,"url":"https://www.arbeitnow.com/jobs/go-dev-berlin","tags":["golang"],"location":"Berlin","created_at":1760000000}]}`))
		case "2":
			_, _ = w.Write([]byte(`{"data":[{"slug":"chef","company_name":"Kitchen","title":"Chef","description":"cooking","location":"Munich"}]}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	a := NewArbeitnow(srv.Client())
	a.BaseURL = srv.URL
	postings, err := a.Fetch(context.Background(), Query{Terms: []string{"golang"}})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Len(t, postings, 1)
	assert.Equal(t, "arbeitnow:go-dev-berlin", postings[0].ID)
	assert.False(t, postings[0].Remote)
	assert.Equal(t, "2025-10-09T08:53:20Z", postings[0].PostedDate)
}

func TestArbeitnowAllPagesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewArbeitnow(srv.Client())
	a.BaseURL = srv.URL
	_, err := a.Fetch(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestAdzunaInertWithoutCredentials(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	for _, creds := range [][3]string{{"", "key", "us"}, {"id", "", "us"}, {"id", "key", ""}} {
		a := NewAdzuna(srv.Client(), nil, creds[0], creds[1], creds[2])
		a.BaseURL = srv.URL
		postings, err := a.Fetch(context.Background(), Query{Text: "go"})
		assert.NoError(t, err)
		assert.Nil(t, postings)
	}
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestAdzunaFetch(t *testing.T) {
	body := `{"count":1,"results":[{"id":"4242","title":"<strong>Backend</strong> Engineer","description":"Remote friendly team","company":{"display_name":"Globex"},"location":{"display_name":"Austin, Texas"},"category":{"label":"IT Jobs"},"redirect_url":"https://www.adzuna.com/land/ad/4242","created":"2026-10-14T12:00:00Z"}]}`
	srv := serveJSON(t, body, func(r *http.Request) {
		assert.Equal(t, "/us/search/1", r.URL.Path)
		assert.Equal(t, "id", r.URL.Query().Get("app_id"))
		assert.Equal(t, "backend", r.URL.Query().Get("what"))
		assert.Equal(t, "Austin", r.URL.Query().Get("where"))
	})

	a := NewAdzuna(srv.Client(), zap.NewNop(), "id", "key", "US")
	a.BaseURL = srv.URL
	postings, err := a.Fetch(context.Background(), Query{Terms: []string{"backend"}, Location: "Austin"})
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, "Backend Engineer", postings[0].Title)
	assert.Equal(t, "IT Jobs", postings[0].Category)
	assert.True(t, postings[0].Remote)
}

func TestBadStatusIsSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := NewRemotive(srv.Client())
	r.BaseURL = srv.URL
	_, err := r.Fetch(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	bad := serveJSON(t, `{"jobs": [`, nil)
	r.BaseURL = bad.URL
	_, err = r.Fetch(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

type stubSource struct {
	name     string
	postings []models.Posting
	err      error
	delay    time.Duration
	panics   bool
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(ctx context.Context, q Query) ([]models.Posting, error) {
	if s.panics {
		panic("boom")
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.postings, s.err
}

func TestFetchAllIsolatesFailures(t *testing.T) {
	ok := stubSource{name: "a", postings: []models.Posting{
		{ID: "a:1", Title: "One", URL: "https://example.com/1", Source: "a"},
		{ID: "a:1", Title: "One again", URL: "https://example.com/2", Source: "a"},
	}}
	slow := stubSource{name: "slow", delay: 2 * time.Second, postings: []models.Posting{{ID: "slow:1", Title: "Late"}}}
	failing := stubSource{name: "down", err: errors.New("connection refused")}
	panicking := stubSource{name: "panics", panics: true}
	other := stubSource{name: "b", postings: []models.Posting{{ID: "b:1", Title: "Two", Source: "b"}}}

	start := time.Now()
	postings := FetchAll(context.Background(), zap.NewNop(), 100*time.Millisecond,
		[]Source{ok, slow, failing, panicking, other}, Query{})
	assert.Less(t, time.Since(start), time.Second)

	require.Len(t, postings, 3)
	assert.Equal(t, "a:1", postings[0].ID)
	assert.Equal(t, "a:1#1", postings[1].ID)
	assert.Equal(t, "b:1", postings[2].ID)
	assert.True(t, ValidURL(postings[2].URL))
}

func TestFetchAllEmpty(t *testing.T) {
	postings := FetchAll(context.Background(), nil, 0, nil, Query{})
	assert.NotNil(t, postings)
	assert.Empty(t, postings)
}

func TestNewHonoursEnabledList(t *testing.T) {
	srcs := New(Settings{Enabled: []string{"adzuna", "Remotive"}}, nil, nil)
	require.Len(t, srcs, 2)
	assert.Equal(t, NameRemotive, srcs[0].Name())
	assert.Equal(t, NameAdzuna, srcs[1].Name())

	assert.Len(t, New(Settings{}, nil, nil), len(AllNames))
}

func TestInferLevel(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Senior Backend Engineer", "senior"},
		{"Sr. Data Engineer", "senior"},
		{"Software Engineering Intern", "intern"},
		{"Junior Frontend Developer", "junior"},
		{"Staff Engineer", "lead"},
		{"Engineering Manager", "manager"},
		{"Backend Engineer", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferLevel(tt.title))
		})
	}
}

func TestFallbackURLAndValidURL(t *testing.T) {
	u := FallbackURL("Go Engineer", "Acme & Co")
	assert.Equal(t, "https://www.google.com/search?q=Go+Engineer+Acme+%26+Co+job", u)
	assert.True(t, ValidURL(u))
	assert.False(t, ValidURL("/jobs/1"))
	assert.False(t, ValidURL("mailto:hr@example.com"))
	assert.False(t, ValidURL(""))
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "Hello World\nline two", HTMLToText("<div>Hello <b>World</b></div><p>line   two</p><script>x()</script>"))
	assert.Equal(t, "plain & simple", HTMLToText("plain &amp; simple"))
	assert.Equal(t, "", HTMLToText(""))
}
