package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"workchat-intake-backend/internal/service"
)

type ResponseController struct {
	ResponseService   service.ResponseService
	SubmissionService service.SubmissionService
}

func NewResponseController(responseService service.ResponseService, submissionService service.SubmissionService) *ResponseController {
	return &ResponseController{ResponseService: responseService, SubmissionService: submissionService}
}

// bindOptionalJSON binds the body when there is one.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return false
	}
	return true
}

// Start handles POST /api/responses
func (rc *ResponseController) Start(c *gin.Context) {
	var req struct {
		QuestionnaireID string         `json:"questionnaire_id" binding:"required"`
		Metadata        map[string]any `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	meta := map[string]any{
		"ipAddress": c.ClientIP(),
		"userAgent": c.Request.UserAgent(),
		"referrer":  c.Request.Referer(),
	}
	for k, v := range req.Metadata {
		meta[k] = v
	}
	session, err := rc.ResponseService.Start(req.QuestionnaireID, meta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Get handles GET /api/responses/:id
func (rc *ResponseController) Get(c *gin.Context) {
	id := c.Param("id")
	resp, err := rc.ResponseService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	session, err := rc.ResponseService.Current(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": resp, "step": session.Step})
}

// Save handles PUT /api/responses/:id
func (rc *ResponseController) Save(c *gin.Context) {
	var req struct {
		Answers  map[string]any `json:"answers"`
		Metadata map[string]any `json:"metadata"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}
	resp, err := rc.ResponseService.Save(c.Param("id"), req.Answers, req.Metadata)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Answer handles POST /api/responses/:id/answer. An empty body moves past
// the welcome screen.
func (rc *ResponseController) Answer(c *gin.Context) {
	var req struct {
		FieldRef string `json:"field_ref"`
		Value    any    `json:"value"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}
	session, err := rc.ResponseService.Answer(c.Param("id"), req.FieldRef, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Back handles POST /api/responses/:id/back
func (rc *ResponseController) Back(c *gin.Context) {
	session, err := rc.ResponseService.Back(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Submit handles POST /api/responses/:id/submit
func (rc *ResponseController) Submit(c *gin.Context) {
	var req struct {
		Answers map[string]any `json:"answers"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}
	resp, err := rc.ResponseService.Submit(c.Param("id"), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Response submitted successfully", "response": resp})
}

// Summary handles GET /api/responses/:id/summary
func (rc *ResponseController) Summary(c *gin.Context) {
	summary, err := rc.SubmissionService.Summary(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SummaryPDF handles GET /api/responses/:id/summary.pdf
func (rc *ResponseController) SummaryPDF(c *gin.Context) {
	id := c.Param("id")
	pdf, err := rc.SubmissionService.SummaryPDF(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=intake_%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
