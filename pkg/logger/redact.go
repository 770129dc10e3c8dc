package logger

import (
	"strings"

	"github.com/goccy/go-json"
)

const redacted = "[redacted]"

var sensitiveKeys = map[string]struct{}{
	"email":                   {},
	"twitter":                 {},
	"telegram":                {},
	"tweet_url":               {},
	"wallet_address":          {},
	"referee_wallet_address":  {},
	"referrer_wallet_address": {},
	"wallet":                  {},
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	if _, ok := sensitiveKeys[k]; ok {
		return true
	}
	return strings.Contains(k, "token") || strings.Contains(k, "key") || strings.Contains(k, "secret")
}

// Redact returns a copy of v with sensitive values replaced. Maps and slices are walked recursively.
func Redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if isSensitive(k) {
				out[k] = redacted
				continue
			}
			out[k] = Redact(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Redact(val)
		}
		return out
	default:
		return v
	}
}

// RedactValues redacts url-style values (params, query).
func RedactValues(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if isSensitive(k) {
			out[k] = redacted
			continue
		}
		if len(v) == 1 {
			out[k] = v[0]
		} else {
			out[k] = v
		}
	}
	return out
}

// RedactJSON decodes a raw JSON body and redacts it. Bodies that are not JSON are dropped entirely.
func RedactJSON(body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return redacted
	}

	return Redact(decoded)
}
