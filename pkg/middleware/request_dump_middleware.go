package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"workchat-intake-backend/utilities"
)

const maxDumpedBody = 4 << 10

// RequestDumpMiddleware logs every request at debug level. Multipart bodies
// are not dumped since they carry uploaded files.
func RequestDumpMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		body := "<omitted>"
		if !strings.HasPrefix(c.ContentType(), "multipart/") && c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			if len(bodyBytes) > maxDumpedBody {
				bodyBytes = append(bodyBytes[:maxDumpedBody:maxDumpedBody], "..."...)
			}
			body = string(bodyBytes)
		}

		utilities.Debug(
			"[Request]\n"+
				"\tMethod: %s\n"+
				"\tURL: %s\n"+
				"\tHeaders: %v\n"+
				"\tBody: %s",
			c.Request.Method,
			c.Request.URL.String(),
			redactedHeaders(c.Request.Header),
			body,
		)

		c.Next()
	}
}

func redactedHeaders(h map[string][]string) map[string][]string {
	out := make(map[string][]string, len(h))
	for k, v := range h {
		switch strings.ToLower(k) {
		case "authorization", "cookie":
			out[k] = []string{"[redacted]"}
		default:
			out[k] = v
		}
	}
	return out
}
