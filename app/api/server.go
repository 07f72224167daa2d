package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/secdigest/secdigest/app/cfg"
)

// NewServer creates the HTTP server with all routes configured.
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS for browser clients reading the digest.
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/digest", handler.GetDigest)

	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)

	// Mutating and upstream-calling endpoints require authentication.
	if apiAccessKey != "" {
		api := r.Group("/api")
		api.Use(authMiddleware(apiAccessKey))
		{
			api.POST("/refresh", handler.APIRefresh)
			api.GET("/summary", handler.APISummary)
		}
		slog.Info("API endpoints enabled with authentication")
	} else {
		slog.Info("API endpoints disabled (API_ACCESS_KEY not set)")
	}

	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"digest": "/digest?category=<vulnerability|intelligence|news>&limit=<n>",
			"health": "/health",
			"stats":  "/stats",
		}

		if apiAccessKey != "" {
			endpoints["refresh"] = "/api/refresh (POST, requires X-API-Key header)"
			endpoints["summary"] = "/api/summary?link=<url> (requires X-API-Key header)"
		}

		c.JSON(200, gin.H{
			"service":     "SecDigest",
			"version":     cfg.GetVersion(),
			"description": "Security news digest aggregating RSS/Atom feeds with CVE deduplication",
			"endpoints":   endpoints,
			"api_status": map[string]interface{}{
				"enabled":       apiAccessKey != "",
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
