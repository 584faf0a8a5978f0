package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// DefaultCORSOrigins are allowed when no origins are configured
var DefaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// CORS allows the configured origins to call the JSON API with credentials
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = DefaultCORSOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}

// APICORS applies CORS to /api/ paths only. It runs on the engine so that
// preflight requests for unregistered OPTIONS routes are answered.
func APICORS(origins []string) gin.HandlerFunc {
	handler := CORS(origins)
	return func(c *gin.Context) {
		if IsAPI(c) {
			handler(c)
		}
	}
}
