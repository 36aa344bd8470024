package summary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ErrMissingAPIKey is returned when a provider is selected without a key.
var ErrMissingAPIKey = errors.New("API key is not set")

// ClientOptions selects and configures a provider.
type ClientOptions struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

// NewTextClient builds the TextClient for opts.Provider.
func NewTextClient(ctx context.Context, opts ClientOptions) (TextClient, error) {
	switch strings.ToLower(opts.Provider) {
	case ProviderOpenAI, "":
		c, err := NewOpenAIClient(opts.APIKey, opts.Model, opts.BaseURL, opts.MaxTokens)
		if err != nil {
			return nil, fmt.Errorf("openai: %w", err)
		}
		return c, nil
	case ProviderGemini:
		c, err := NewGeminiClient(ctx, opts.APIKey, opts.Model, opts.BaseURL, opts.MaxTokens)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown text provider: %s", opts.Provider)
	}
}

// CloseClient closes c when it holds resources.
func CloseClient(c TextClient) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
