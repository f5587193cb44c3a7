package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// Options configures the Gemini client. Built once at process start from the
// application config; read-only afterwards.
type Options struct {
	APIKey       string
	Model        string
	Timeout      time.Duration
	RetryEnabled bool
	RetryBackoff time.Duration
}

// generator is the narrow slice of the Gemini SDK the client calls. It exists
// so the retry behavior can be exercised without a live API.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient issues one-shot text-generation requests against the Gemini
// API. Transport and provider failures are returned to the caller unmodified
// apart from wrapping; there is no circuit breaking.
type GeminiClient struct {
	models generator
	opts   Options
}

// Ensure GeminiClient implements Client
var _ Client = (*GeminiClient)(nil)

// NewGeminiClient creates a Gemini-backed model client.
func NewGeminiClient(ctx context.Context, opts Options) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("gemini model identifier is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{models: client.Models, opts: opts}, nil
}

// Generate sends the prompt to the model and returns the raw completion text.
// A bounded timeout applies to each attempt; when retries are enabled a
// single retry with fixed backoff is made on provider failure.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := c.generateOnce(ctx, prompt)
	if err == nil {
		return text, nil
	}

	if !c.opts.RetryEnabled || ctx.Err() != nil {
		return "", err
	}

	logrus.Warnf("Model call failed, retrying once after %v: %v", c.opts.RetryBackoff, err)

	select {
	case <-time.After(c.opts.RetryBackoff):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return c.generateOnce(ctx, prompt)
}

func (c *GeminiClient) generateOnce(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	result, err := c.models.GenerateContent(ctx, c.opts.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	return sb.String(), nil
}
