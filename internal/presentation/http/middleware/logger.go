package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoggerMiddleware tags each request with an X-Request-ID (the caller's, or
// a new one) and writes one access line per request to the standard logger.
func LoggerMiddleware() gin.HandlerFunc {
	access := gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    log.Writer(),
		Formatter: accessLine,
		SkipPaths: []string{"/health"},
	})

	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		access(c)
	}
}

func accessLine(p gin.LogFormatterParams) string {
	id, _ := p.Keys["request_id"].(string)
	line := fmt.Sprintf("%s [%s] %s | %d | %v | %s | %s\n",
		p.TimeStamp.Format(time.DateTime),
		shortID(id),
		p.Method,
		p.StatusCode,
		p.Latency.Round(time.Microsecond),
		p.ClientIP,
		p.Path,
	)
	if p.ErrorMessage != "" {
		line += fmt.Sprintf("[%s] %s", shortID(id), p.ErrorMessage)
	}
	return line
}

// shortID trims client supplied IDs that may be shorter than a UUID prefix
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
