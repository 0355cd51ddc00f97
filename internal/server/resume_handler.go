package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khrees2412/jobscout/internal/applicator"
	"github.com/khrees2412/jobscout/internal/resume"
	"github.com/khrees2412/jobscout/pkg/models"
)

type resumeTextRequest struct {
	Text string `json:"text" binding:"required,max=200000"`
	// Merge stores the result in the profile.
	Merge bool `json:"merge"`
}

type parseResponse struct {
	Resume       models.ParsedResume  `json:"resume"`
	CustomFields []models.CustomField `json:"custom_fields"`
}

type customFieldsResponse struct {
	Fields []models.CustomField `json:"fields"`
	Added  int                  `json:"added"`
}

type ResumeHandler struct {
	deps Deps
}

// NewResumeHandler registers the resume routes
func NewResumeHandler(public *gin.RouterGroup, deps Deps) {
	handler := &ResumeHandler{deps: deps}

	public.POST("/resume/parse", handler.Parse)
	public.POST("/resume/custom-fields", handler.CustomFields)
}

func (h *ResumeHandler) Parse(c *gin.Context) {
	text, ok := bindResumeText(c)
	if !ok {
		return
	}
	parsed := resume.Parse(text.Text)
	fields := resume.InferCustomFields(text.Text)

	if text.Merge {
		err := applicator.UpdateProfile(c.Request.Context(), h.deps.Store, func(p *models.Profile) error {
			applicator.MergeParsedResume(p, parsed, false)
			applicator.MergeCustomFields(p, fields)
			return nil
		})
		if err != nil {
			c.Error(err)
			return
		}
	}

	Success(c, http.StatusOK, "Resume parsed", parseResponse{Resume: parsed, CustomFields: fields})
}

func (h *ResumeHandler) CustomFields(c *gin.Context) {
	text, ok := bindResumeText(c)
	if !ok {
		return
	}
	fields := resume.InferCustomFields(text.Text)

	added := 0
	if text.Merge {
		err := applicator.UpdateProfile(c.Request.Context(), h.deps.Store, func(p *models.Profile) error {
			added = applicator.MergeCustomFields(p, fields)
			return nil
		})
		if err != nil {
			c.Error(err)
			return
		}
	}

	Success(c, http.StatusOK, "Custom fields inferred", customFieldsResponse{Fields: fields, Added: added})
}

// bindResumeText binds the body and sanitizes the text in place.
func bindResumeText(c *gin.Context) (resumeTextRequest, bool) {
	var req resumeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(BadRequest(err.Error()))
		return req, false
	}
	text, err := resume.SanitizeText([]byte(req.Text))
	if err != nil {
		c.Error(err)
		return req, false
	}
	req.Text = text
	return req, true
}
