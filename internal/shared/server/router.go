package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kyc-backend/internal/documents"
	"kyc-backend/internal/kyc"
	"kyc-backend/internal/services/health"
	"kyc-backend/internal/shared/auth"
	"kyc-backend/internal/shared/config"
	"kyc-backend/internal/shared/metrics"
	"kyc-backend/internal/shared/server/middleware"
	"kyc-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	Verifier        *auth.Verifier
	KYCHandler      *kyc.Handler
	DocumentHandler *documents.Handler
	Health          *health.Service
	// RateLimiter is shared across requests; nil builds a fresh one.
	RateLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	cfg := deps.Config

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !st.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, st)
	})

	authed := api.Group("", middleware.Auth(deps.Verifier, cfg.Env))
	registerMeRoutes(authed)

	farmer := authed.Group("/farmer",
		middleware.RequireRole(auth.RoleFarmer),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				middleware.GroupKYCUpload: {Rate: cfg.KYCUploadRate, Burst: cfg.KYCUploadBurst},
			},
			GroupFor: middleware.KYCUploadGroup,
			Limiter:  deps.RateLimiter,
		}),
	)
	if deps.KYCHandler != nil {
		deps.KYCHandler.RegisterRoutes(farmer)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(farmer)
	}

	return r
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
