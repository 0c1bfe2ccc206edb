package controller

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

type StaticController struct {
	Dir string
}

func NewStaticController(dir string) *StaticController {
	return &StaticController{Dir: dir}
}

// ServeUpload handles GET <public path>/:filename
func (sc *StaticController) ServeUpload(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || filename == string(filepath.Separator) || strings.HasPrefix(filename, ".") {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", "application/pdf")
	}
	c.FileFromFS(filename, http.Dir(sc.Dir))
}
