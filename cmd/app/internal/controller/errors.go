package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"workchat-intake-backend/internal/questionnaire"
	"workchat-intake-backend/internal/service"
	"workchat-intake-backend/utilities"
)

// respondError maps service errors to status codes. Anything unknown is
// logged and reported as a 500 without details.
func respondError(c *gin.Context, err error) {
	var verr *questionnaire.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Message, "field_ref": verr.FieldRef})
	case errors.Is(err, service.ErrQuestionnaireNotFound),
		errors.Is(err, service.ErrResponseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSubdomainTaken),
		errors.Is(err, service.ErrResponseCompleted),
		errors.Is(err, service.ErrSessionFinished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidSubdomain),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidConfiguration),
		errors.Is(err, service.ErrWrongField),
		errors.Is(err, service.ErrNoPreviousQuestion),
		errors.Is(err, service.ErrFileType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		utilities.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
