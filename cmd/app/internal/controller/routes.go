package controller

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"workchat-intake-backend/internal/config"
	"workchat-intake-backend/internal/service"
	"workchat-intake-backend/pkg/middleware"
)

func RegisterRoutes(
	r *gin.Engine,
	questionnaireService service.QuestionnaireService,
	responseService service.ResponseService,
	submissionService service.SubmissionService,
	uploadService service.UploadService,
	uploadCfg config.UploadConfig,
	limiter *middleware.IPRateLimiter, // nil disables rate limiting
) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Public endpoints hit by respondents are rate limited per client IP.
	public := []gin.HandlerFunc{}
	if limiter != nil {
		public = append(public, middleware.RateLimitMiddleware(limiter))
	}

	// Questionnaire routes.
	questionnaireCtrl := NewQuestionnaireController(questionnaireService)
	questionnaireRoutes := api.Group("/questionnaires")
	{
		questionnaireRoutes.GET("", questionnaireCtrl.List)
		questionnaireRoutes.POST("", questionnaireCtrl.Create)
		questionnaireRoutes.GET("/by-subdomain", questionnaireCtrl.BySubdomain)
		questionnaireRoutes.GET("/:id", questionnaireCtrl.Get)
	}

	// Response routes.
	responseCtrl := NewResponseController(responseService, submissionService)
	responseRoutes := api.Group("/responses", public...)
	{
		responseRoutes.POST("", responseCtrl.Start)
		responseRoutes.GET("/:id", responseCtrl.Get)
		responseRoutes.PUT("/:id", responseCtrl.Save)
		responseRoutes.POST("/:id/answer", responseCtrl.Answer)
		responseRoutes.POST("/:id/back", responseCtrl.Back)
		responseRoutes.POST("/:id/submit", responseCtrl.Submit)
		responseRoutes.GET("/:id/summary", responseCtrl.Summary)
		responseRoutes.GET("/:id/summary.pdf", responseCtrl.SummaryPDF)
	}

	// Upload routes.
	uploadCtrl := NewUploadController(uploadService, uploadCfg.MaxBytes)
	api.POST("/upload", append(public, uploadCtrl.Upload)...)

	// Static routes.
	staticCtrl := NewStaticController(uploadCfg.Dir)
	r.GET(path.Join("/", uploadCfg.PublicPath, ":filename"), staticCtrl.ServeUpload)
}
