package middleware

import (
	"time"

	"github.com/erpdesk/erpdesk-api/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	// A local install is usually driven from a browser on the same machine.
	defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	defaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID"}
)

// CORSMiddleware lets a browser front end call the API. Empty lists in cfg
// fall back to the local defaults; the idempotency header is always allowed.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     orDefault(cfg.AllowedOrigins, defaultOrigins),
		AllowMethods:     orDefault(cfg.AllowedMethods, defaultMethods),
		AllowHeaders:     withHeader(orDefault(cfg.AllowedHeaders, defaultHeaders), IdempotencyKeyHeader),
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", replayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func withHeader(headers []string, name string) []string {
	for _, h := range headers {
		if h == name {
			return headers
		}
	}
	out := make([]string, 0, len(headers)+1)
	return append(append(out, headers...), name)
}
