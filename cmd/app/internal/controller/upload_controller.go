package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"workchat-intake-backend/internal/service"
)

// multipartOverhead is allowed on top of the file size for the other form
// parts and boundaries.
const multipartOverhead = 1 << 20

type UploadController struct {
	UploadService service.UploadService
	MaxBytes      int64
}

func NewUploadController(uploadService service.UploadService, maxBytes int64) *UploadController {
	return &UploadController{UploadService: uploadService, MaxBytes: maxBytes}
}

// formValue returns the first non-empty form value of keys.
func formValue(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := c.PostForm(k); v != "" {
			return v
		}
	}
	return ""
}

// Upload handles POST /api/upload (multipart: file, responseId, fieldRef)
func (uc *UploadController) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uc.MaxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, service.ErrFileTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	responseID := formValue(c, "responseId", "response_id")
	fieldRef := formValue(c, "fieldRef", "field_ref")
	if responseID == "" || fieldRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing responseId or fieldRef"})
		return
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	file, err := uc.UploadService.Upload(service.UploadRequest{
		ResponseID:  responseID,
		FieldRef:    fieldRef,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}
