// Package summary turns one invoice record into a short natural-language
// description using an external text-generation service.
//
// Generator is the only place that talks to a TextClient, and it never
// returns an error: any failure becomes a placeholder string so a batch keeps
// going when a single row fails.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/invoice-summaries/internal/logging"
	"fjacquet/invoice-summaries/internal/models"
)

// PlaceholderPrefix starts every summary produced for a failed generation.
const PlaceholderPrefix = "Error generating description: "

var (
	// ErrNoClient is reported when the generator has no text client.
	ErrNoClient = errors.New("no text-generation client configured")

	// ErrEmptyResponse is reported when the service answers with blank text.
	ErrEmptyResponse = errors.New("text service returned an empty response")
)

// TextClient sends a prompt to a text-generation service and returns its
// raw answer.
type TextClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TextClientFunc adapts a function to TextClient.
type TextClientFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f TextClientFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// BuildPrompt embeds the record's Vendor, Amount and Date verbatim.
func BuildPrompt(rec models.Record) string {
	return fmt.Sprintf(
		"Create a short, human-readable transaction summary for an accounting entry with the following details: Vendor='%s', Amount='%s', Date='%s'.",
		rec.Vendor, rec.Amount, rec.Date,
	)
}

// Placeholder renders err as the summary text of a failed row.
func Placeholder(err error) string {
	return PlaceholderPrefix + err.Error()
}

// IsPlaceholder reports whether s was produced by Placeholder.
func IsPlaceholder(s string) bool {
	return strings.HasPrefix(s, PlaceholderPrefix)
}

// Generator produces one summary per record.
type Generator struct {
	client  TextClient
	logger  logging.Logger
	timeout time.Duration
}

// NewGenerator creates a Generator. A timeout of zero leaves request
// deadlines to the caller's context.
func NewGenerator(client TextClient, logger logging.Logger, timeout time.Duration) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{client: client, logger: logger, timeout: timeout}
}

// Generate returns the trimmed service response for rec, or the error that
// prevented it.
func (g *Generator) Generate(ctx context.Context, rec models.Record) (string, error) {
	if g.client == nil {
		return "", ErrNoClient
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.client.Complete(ctx, BuildPrompt(rec))
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Describe is Generate with failures folded into a placeholder string.
func (g *Generator) Describe(ctx context.Context, rec models.Record) string {
	start := time.Now()
	text, err := g.Generate(ctx, rec)
	if err != nil {
		g.logger.WithError(err).Warn("Summary generation failed",
			logging.F(logging.FieldRow, rec.Index),
			logging.F(logging.FieldVendor, rec.Vendor))
		return Placeholder(err)
	}

	g.logger.Debug("Summary generated",
		logging.F(logging.FieldRow, rec.Index),
		logging.F(logging.FieldVendor, rec.Vendor),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return text
}
