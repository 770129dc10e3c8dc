package api

import (
	stdjson "encoding/json"
	"errors"
	"fmt"

	"verm_airdrop/internal/api/response"
	"verm_airdrop/pkg/apperrors"
	"verm_airdrop/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Limits holds the rate limit middleware for each route class. Nil entries are skipped.
type Limits struct {
	Registration gin.HandlerFunc
	Verification gin.HandlerFunc
	General      gin.HandlerFunc
}

func handlers(limit gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if limit == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{limit, h}
}

// bindJSON decodes the body and keeps the raw bytes in the context for error logging.
// Decoding failures are written to the client and reported as false.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindBodyWith(dst, binding.JSON); err != nil {
		logger.Logger().Debug("failed to bind request", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, bindError(err))
		return false
	}
	return true
}

// bindError turns a decode failure into a validation error, naming the field when a
// value had the wrong JSON type. gin decodes with encoding/json unless built with go_json.
func bindError(err error) *apperrors.Error {
	var field, want string
	var stdErr *stdjson.UnmarshalTypeError
	var goErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &stdErr):
		field, want = stdErr.Field, stdErr.Type.String()
	case errors.As(err, &goErr):
		field, want = goErr.Field, goErr.Type.String()
	default:
		return apperrors.Validation("Invalid request body")
	}

	return apperrors.Validation("Invalid request body", apperrors.FieldError{
		Field:   field,
		Message: fmt.Sprintf("%s must be of type %s", field, want),
		Code:    "type",
	})
}
