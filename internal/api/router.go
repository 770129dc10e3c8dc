package api

import (
	"fmt"
	"net/http"
	"time"

	"verm_airdrop/internal/api/response"
	"verm_airdrop/internal/metrics"
	"verm_airdrop/internal/middleware"
	"verm_airdrop/internal/service"
	"verm_airdrop/pkg/apperrors"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	PingMessage  string
	AllowOrigins []string
	Limits       Limits
}

// NewRouter assembles the engine: recovery, request ids, access logs, CORS, /metrics
// and every /api route.
func NewRouter(svc *service.Service, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Error(c, apperrors.Wrap(fmt.Errorf("panic: %v", recovered)))
	}))
	router.Use(middleware.RequestID(), middleware.AccessLog())
	router.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	a := router.Group("/api")
	NewPingRoutes(a, cfg.PingMessage)
	NewRegistrationRoutes(a, svc.RegistrationService, svc.VerificationService, cfg.Limits)
	NewReferralRoutes(a, svc.ReferralService, cfg.Limits)

	router.NoRoute(response.NotFound)

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodOptions,
	}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"X-RateLimit-Reset",
		"Retry-After",
		middleware.RequestIDHeader,
	}
	config.MaxAge = 12 * time.Hour
	return config
}
