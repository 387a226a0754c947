package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveHeaders lists the lowercase header names that carry credentials:
// the revalidation secret shared with the content backend plus the usual
// auth headers. The HTTP middleware's RedactHeaders reads this same set, so
// header redaction stays consistent across both layers.
var SensitiveHeaders = map[string]bool{
	"authorization":       true,
	"x-api-key":           true,
	"x-revalidate-secret": true,
	"cookie":              true,
}

// Value-shaped credentials that can leak through arbitrary string fields,
// typically inside logged error messages from the backends.
var (
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)
	// Segments of 10+ chars keep version strings like "1.2.3" out.
	jwtPattern          = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)
	apiKeyInlinePattern = regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`)
)

// redactAttr builds the masq ReplaceAttr hook installed on every handler.
// Redaction happens by field name for the known credential fields and by
// regex for values that slip past call sites.
func redactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, 8+len(SensitiveHeaders))

	for name := range SensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}
	opts = append(opts,
		masq.WithFieldName("password"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("token"),
		masq.WithFieldPrefix("secret_"),
		masq.WithFieldPrefix("api_key"),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(apiKeyInlinePattern),
	)

	return masq.New(opts...)
}
