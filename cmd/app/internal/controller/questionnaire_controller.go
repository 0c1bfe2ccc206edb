package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workchat-intake-backend/internal/service"
	"workchat-intake-backend/utilities"
)

type QuestionnaireController struct {
	QuestionnaireService service.QuestionnaireService
}

func NewQuestionnaireController(questionnaireService service.QuestionnaireService) *QuestionnaireController {
	return &QuestionnaireController{QuestionnaireService: questionnaireService}
}

// List handles GET /api/questionnaires
func (qc *QuestionnaireController) List(c *gin.Context) {
	list, err := qc.QuestionnaireService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create handles POST /api/questionnaires
func (qc *QuestionnaireController) Create(c *gin.Context) {
	var req service.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	q, err := qc.QuestionnaireService.Import(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":       "Questionnaire created successfully",
		"questionnaire": q,
	})
}

// Get handles GET /api/questionnaires/:id
func (qc *QuestionnaireController) Get(c *gin.Context) {
	q, err := qc.QuestionnaireService.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// BySubdomain handles GET /api/questionnaires/by-subdomain. The tenant comes
// from the request host, or ?subdomain= when served from the bare domain.
func (qc *QuestionnaireController) BySubdomain(c *gin.Context) {
	subdomain := utilities.RequestSubdomain(c)
	if subdomain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subdomain is required"})
		return
	}
	q, err := qc.QuestionnaireService.GetBySubdomain(subdomain)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
