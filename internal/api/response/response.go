// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"verm_airdrop/pkg/apperrors"
	"verm_airdrop/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const RequestIDKey = "request_id"

var exposeInternal atomic.Bool

// ExposeInternalErrors adds internal error text to 5xx responses. Enabled outside production.
func ExposeInternalErrors(enabled bool) {
	exposeInternal.Store(enabled)
}

func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// OK writes {success:true, ...payload}.
func OK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error writes the failure envelope for err and aborts the chain. Errors outside the
// taxonomy are treated as internal.
func Error(c *gin.Context, err error) {
	appErr := apperrors.As(err)

	body := gin.H{
		"success":   false,
		"error":     appErr.Message,
		"timestamp": Timestamp(),
		"path":      c.Request.URL.Path,
	}
	if len(appErr.Fields) > 0 {
		body["details"] = appErr.Fields
	}
	if appErr.Kind == apperrors.KindRateLimited {
		body["retryAfter"] = appErr.RetryAfter
		c.Header("Retry-After", strconv.Itoa(appErr.RetryAfter))
	}
	for k, v := range appErr.Payload {
		body[k] = v
	}

	if appErr.Internal() {
		logInternal(c, appErr)
		if exposeInternal.Load() && appErr.Err != nil {
			body["debug"] = appErr.Err.Error()
		}
	}

	c.AbortWithStatusJSON(appErr.Kind.HTTPStatus(), body)
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success":   false,
		"error":     "Endpoint not found",
		"message":   "Cannot " + c.Request.Method + " " + c.Request.URL.Path,
		"timestamp": Timestamp(),
	})
}

// routePath is the matched route template, so path parameters stay out of logs.
func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

// logInternal logs a server-side failure with the request context, sensitive values redacted.
func logInternal(c *gin.Context, appErr *apperrors.Error) {
	fields := []zap.Field{
		zap.String("kind", appErr.Kind.String()),
		zap.String("method", c.Request.Method),
		zap.String("path", routePath(c)),
		zap.String("ip", c.ClientIP()),
		zap.String("user_agent", c.Request.UserAgent()),
		zap.Any("query", logger.RedactValues(c.Request.URL.Query())),
		zap.Error(appErr),
	}

	if id := c.GetString(RequestIDKey); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}

	if len(c.Params) > 0 {
		params := make(map[string][]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = []string{p.Value}
		}
		fields = append(fields, zap.Any("params", logger.RedactValues(params)))
	}

	if raw, ok := c.Get(gin.BodyBytesKey); ok {
		if body, ok := raw.([]byte); ok {
			fields = append(fields, zap.Any("body", logger.RedactJSON(body)))
		}
	}

	logger.Logger().Error("Request failed", fields...)
}
