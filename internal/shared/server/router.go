package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"claimdesk-backend/internal/documents"
	"claimdesk-backend/internal/folders"
	"claimdesk-backend/internal/intake"
	"claimdesk-backend/internal/qna"
	"claimdesk-backend/internal/reports"
	"claimdesk-backend/internal/shared/config"
	"claimdesk-backend/internal/shared/metrics"
	"claimdesk-backend/internal/shared/server/middleware"
	"claimdesk-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	FolderHandler   *folders.Handler
	DocumentHandler *documents.Handler
	IntakeHandler   *intake.Handler
	ReportHandler   *reports.Handler
	QnAHandler      *qna.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimits()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.IntakeHandler.RegisterRoutes(api)
	deps.FolderHandler.RegisterRoutes(api)
	deps.DocumentHandler.RegisterRoutes(api)
	deps.ReportHandler.RegisterRoutes(api)
	deps.QnAHandler.RegisterRoutes(api)

	return r
}

// Upload and analysis routes carry the OCR and oracle cost, so they get a
// tighter bucket than reads.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 20, Burst: 40},
			"HEAVY":   {Rate: 1, Burst: 5},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method != http.MethodPost {
				return ""
			}
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			switch {
			case strings.HasSuffix(path, "/documents"),
				strings.HasSuffix(path, "/analyze"),
				strings.HasSuffix(path, "/qna"),
				path == "/api/v1/folders":
				return "HEAVY"
			default:
				return ""
			}
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
