// Package validation checks request types at the API boundary and reports every failing field.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"verm_airdrop/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

var (
	walletPattern    = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
	handlePattern    = regexp.MustCompile(`^@?[A-Za-z0-9_]{1,32}$`)
	tweetPathPattern = regexp.MustCompile(`^/[A-Za-z0-9_]{1,32}/status(es)?/\d+`)
)

var tweetHosts = map[string]struct{}{
	"twitter.com":        {},
	"www.twitter.com":    {},
	"mobile.twitter.com": {},
	"x.com":              {},
	"www.x.com":          {},
	"mobile.x.com":       {},
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Tag names are unique, so registration cannot fail.
	_ = v.RegisterValidation("wallet", func(fl validator.FieldLevel) bool {
		return IsWalletAddress(fl.Field().String())
	})
	_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return IsHandle(fl.Field().String())
	})
	_ = v.RegisterValidation("tweeturl", func(fl validator.FieldLevel) bool {
		return IsTweetURL(fl.Field().String())
	})

	return &Validator{v: v}
}

// Struct validates s and returns a KindValidation *apperrors.Error listing every failing field.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validation("Validation failed", apperrors.FieldError{
			Field:   "",
			Message: err.Error(),
			Code:    "invalid",
		})
	}

	fields := make([]apperrors.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
			Code:    fe.Tag(),
		})
	}

	return apperrors.Validation("Validation failed", fields...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "wallet":
		return "Invalid wallet address"
	case "handle":
		return "Handle must be 1-32 letters, digits or underscores, optionally prefixed with @"
	case "tweeturl":
		return "Must be a twitter.com or x.com status URL"
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and digits", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// IsWalletAddress reports whether s looks like a base58 wallet address of 32-44 characters.
func IsWalletAddress(s string) bool {
	return walletPattern.MatchString(s)
}

func IsHandle(s string) bool {
	return handlePattern.MatchString(s)
}

// IsTweetURL accepts http(s) status links on twitter.com or x.com.
func IsTweetURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return false
	}
	if _, ok := tweetHosts[strings.ToLower(u.Hostname())]; !ok {
		return false
	}
	return tweetPathPattern.MatchString(u.Path)
}
