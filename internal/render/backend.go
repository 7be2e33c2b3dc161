package render

import (
	"context"
	"fmt"
	"strings"

	"docgen/internal/layout"
	"docgen/internal/model"
	"docgen/internal/theme"

	"github.com/shopspring/decimal"
)

// Options carry per-call rendering context. DocumentNumber and TemplateKey
// travel into errors so the caller can correlate failures.
type Options struct {
	Preview        bool
	TemplateKey    string
	DocumentNumber string
}

// Backend turns a composed layout plus a resolved theme into bytes. Both
// strategies honor the A4 millimeter contract of the composer.
type Backend interface {
	Render(ctx context.Context, doc *layout.ComposedDocument, spec theme.Spec, opts Options) (*model.RenderedDocument, error)
}

// BackendError wraps an external renderer failure with the identifiers the
// caller needs for diagnostics. Render failures are never retried here;
// retry policy belongs to the caller.
type BackendError struct {
	TemplateKey    string
	DocumentNumber string
	Err            error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("render failed (template=%s, document=%s): %v", e.TemplateKey, e.DocumentNumber, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendErr(opts Options, err error) *BackendError {
	return &BackendError{TemplateKey: opts.TemplateKey, DocumentNumber: opts.DocumentNumber, Err: err}
}

// FormatAmount renders a money value the Swiss way: apostrophe thousand
// separators and two decimals, e.g. 12'345.60.
func FormatAmount(v decimal.Decimal) string {
	s := v.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]

	var b strings.Builder
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte('\'')
		b.WriteString(intPart[i : i+3])
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
