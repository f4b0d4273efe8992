package render

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-messenger/pkg/domain"
)

// FieldFormatter turns a raw custom field value into display text.
type FieldFormatter interface {
	Format(ctx context.Context, value string, field *domain.CustomField) string
}

// FieldFormatterFunc adapts a function to FieldFormatter.
type FieldFormatterFunc func(ctx context.Context, value string, field *domain.CustomField) string

// Format calls f.
func (f FieldFormatterFunc) Format(ctx context.Context, value string, field *domain.CustomField) string {
	return f(ctx, value, field)
}

// DefaultFormatter handles the common custom field formats and passes
// everything else through unchanged.
type DefaultFormatter struct {
	Labels *Labels
}

var _ FieldFormatter = DefaultFormatter{}

// Format implements FieldFormatter.
func (f DefaultFormatter) Format(_ context.Context, value string, field *domain.CustomField) string {
	if field == nil {
		return value
	}
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(field.Format) {
	case "bool":
		switch trimmed {
		case "1", "true":
			return f.Labels.Label("general_text_Yes")
		case "0", "false":
			return f.Labels.Label("general_text_No")
		}
	case "int":
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return strconv.FormatInt(n, 10)
		}
	case "float":
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return strconv.FormatFloat(n, 'f', 2, 64)
		}
	}
	return value
}
