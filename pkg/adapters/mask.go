package adapters

import (
	"net/url"
	"strings"

	masker "github.com/goliatone/go-masker"
)

const maskRule = "preserveEnds(2,2)"

func init() {
	for _, field := range []string{"webhook_url", "url", "token"} {
		masker.Default.RegisterMaskField(field, maskRule)
	}
}

// MaskURL hides the secret part of a webhook URL for logging. Scheme and
// host stay readable; path and query are masked.
func MaskURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return maskString(raw)
	}
	secret := strings.TrimPrefix(parsed.Path, "/")
	if parsed.RawQuery != "" {
		secret += "?" + parsed.RawQuery
	}
	prefix := parsed.Scheme + "://" + parsed.Host + "/"
	if secret == "" {
		return prefix
	}
	return prefix + maskString(secret)
}

func maskString(value string) string {
	if value == "" {
		return ""
	}
	if masked, err := masker.Default.String(maskRule, value); err == nil && masked != value {
		return masked
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}
