package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/khrees2412/jobscout/internal/search"
	"github.com/khrees2412/jobscout/pkg/models"
)

type filtersRequest struct {
	Locations        []string `json:"locations" binding:"max=20,dive,max=120"`
	Keywords         []string `json:"keywords" binding:"max=50,dive,max=80"`
	RemoteOnly       *bool    `json:"remote_only"`
	Relocation       string   `json:"relocation" binding:"omitempty,relocation"`
	Level            string   `json:"level" binding:"max=40"`
	MinRelevance     *int     `json:"min_relevance" binding:"omitempty,min=0,max=100"`
	USOnly           *bool    `json:"us_only"`
	PostedWithinDays *int     `json:"posted_within_days" binding:"omitempty,min=0,max=365"`
}

type searchRequest struct {
	Query      string          `json:"query" binding:"max=300"`
	Location   string          `json:"location" binding:"max=120"`
	ResumeText string          `json:"resume_text" binding:"max=200000"`
	Filters    *filtersRequest `json:"filters"`
}

type searchResponse struct {
	Count    int                    `json:"count"`
	Fetched  int                    `json:"fetched"`
	Pool     string                 `json:"pool"`
	Terms    []string               `json:"terms"`
	Postings []models.RankedPosting `json:"postings"`
}

type SearchHandler struct {
	deps Deps
}

// NewSearchHandler registers the search routes
func NewSearchHandler(public *gin.RouterGroup, deps Deps) {
	handler := &SearchHandler{deps: deps}

	public.POST("/jobs/search", handler.Search)
}

// Search runs a ranked job search for the stored candidate. resume_text, when
// given, replaces the default resume for this search only.
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(BadRequest(err.Error()))
		return
	}

	ctx := c.Request.Context()
	snap, err := h.deps.Store.Read(ctx)
	if err != nil {
		c.Error(err)
		return
	}
	candidate := search.CandidateFromSnapshot(snap)
	if strings.TrimSpace(req.ResumeText) != "" {
		candidate.ResumeText = req.ResumeText
		candidate.ResumeName = ""
	}

	out, err := h.deps.Search.Search(ctx, search.Request{
		Query:     req.Query,
		Location:  req.Location,
		Filters:   applyFilters(h.deps.filters(), req.Filters),
		Candidate: candidate,
	})
	if err != nil {
		c.Error(err)
		return
	}

	Success(c, http.StatusOK, "Search completed", searchResponse{
		Count:    len(out.Postings),
		Fetched:  out.Fetched,
		Pool:     out.Trace.Pool,
		Terms:    out.Terms,
		Postings: out.Postings,
	})
}

// applyFilters overlays the fields set in req on base.
func applyFilters(base models.SearchFilters, req *filtersRequest) models.SearchFilters {
	if req == nil {
		return base
	}
	if req.Locations != nil {
		base.Locations = req.Locations
	}
	if req.Keywords != nil {
		base.Keywords = req.Keywords
	}
	if req.RemoteOnly != nil {
		base.RemoteOnly = *req.RemoteOnly
	}
	if req.Relocation != "" {
		base.Relocation = req.Relocation
	}
	if req.Level != "" {
		base.Level = req.Level
	}
	if req.MinRelevance != nil {
		base.MinRelevance = *req.MinRelevance
	}
	if req.USOnly != nil {
		base.USOnly = *req.USOnly
	}
	if req.PostedWithinDays != nil {
		base.PostedWithinDays = *req.PostedWithinDays
	}
	return base
}
