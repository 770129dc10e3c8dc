package middleware

import (
	"strconv"

	"verm_airdrop/internal/api/response"
	"verm_airdrop/internal/metrics"
	"verm_airdrop/internal/ratelimit"
	"verm_airdrop/pkg/apperrors"
	"verm_airdrop/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RateLimit struct {
	limiter *ratelimit.Limiter
}

func NewRateLimit(limiter *ratelimit.Limiter) *RateLimit {
	return &RateLimit{
		limiter: limiter,
	}
}

// Handle counts the request against the client IP. A failing counter store lets the
// request through.
func (r *RateLimit) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		res, err := r.limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			metrics.RecordRateLimitStoreError(r.limiter.Name)
			log.Warn("rate limit store unavailable, allowing request",
				zap.String("limiter", r.limiter.Name),
				zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			metrics.RecordRateLimitRejection(r.limiter.Name)
			log.Info("rate limit exceeded",
				zap.String("limiter", r.limiter.Name),
				zap.String("path", c.FullPath()))
			response.Error(c, apperrors.RateLimited(res.RetryAfter(r.limiter.Now())))
			return
		}

		c.Next()
	}
}
