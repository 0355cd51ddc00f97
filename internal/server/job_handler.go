package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khrees2412/jobscout/internal/applicator"
	"github.com/khrees2412/jobscout/pkg/models"
)

type postingRequest struct {
	ID          string `json:"id" binding:"max=200"`
	Title       string `json:"title" binding:"required,max=300"`
	Company     string `json:"company" binding:"max=300"`
	Location    string `json:"location" binding:"max=200"`
	Description string `json:"description" binding:"max=100000"`
	Level       string `json:"level" binding:"max=40"`
	Category    string `json:"category" binding:"max=120"`
	Source      string `json:"source" binding:"max=40"`
	PostedDate  string `json:"posted_date" binding:"max=40"`
	URL         string `json:"url" binding:"required,url"`
	Remote      bool   `json:"remote"`
	Score       int    `json:"score" binding:"min=0"`
}

type promoteRequest struct {
	Posting  postingRequest `json:"posting"`
	ResumeID string         `json:"resume_id" binding:"max=64"`
	Status   string         `json:"status" binding:"omitempty,oneof=pending applied interview rejected offer accepted"`
	Notes    string         `json:"notes" binding:"max=2000"`
}

type promoteResponse struct {
	Job         *models.Job         `json:"job"`
	Application *models.Application `json:"application"`
}

type JobHandler struct {
	deps Deps
}

// NewJobHandler registers the pipeline routes
func NewJobHandler(public *gin.RouterGroup, deps Deps) {
	handler := &JobHandler{deps: deps}

	public.POST("/jobs/promote", handler.Promote)
	public.GET("/stats", handler.Stats)
}

// Promote stores a ranked posting as a tracked job and application.
func (h *JobHandler) Promote(c *gin.Context) {
	var req promoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(BadRequest(err.Error()))
		return
	}

	p := req.Posting
	scored := models.ScoredPosting{
		Posting: models.Posting{
			ID:          p.ID,
			Title:       p.Title,
			Company:     p.Company,
			Location:    p.Location,
			Description: p.Description,
			Level:       p.Level,
			Category:    p.Category,
			Source:      p.Source,
			PostedDate:  p.PostedDate,
			URL:         p.URL,
			Remote:      p.Remote,
		},
		Score: p.Score,
	}
	job, application, err := applicator.Promote(c.Request.Context(), h.deps.Store, scored, applicator.PromoteOptions{
		ResumeID: req.ResumeID,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		c.Error(err)
		return
	}

	Success(c, http.StatusCreated, "Posting promoted", promoteResponse{Job: job, Application: application})
}

func (h *JobHandler) Stats(c *gin.Context) {
	snap, err := h.deps.Store.Read(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	Success(c, http.StatusOK, "Pipeline stats", applicator.CalculateStats(snap))
}
