package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// MockGenerator is a mock implementation of the SDK generation surface
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func newTestClient(gen generator, retryEnabled bool) *GeminiClient {
	return &GeminiClient{
		models: gen,
		opts: Options{
			Model:        "gemini-2.0-flash",
			Timeout:      time.Second,
			RetryEnabled: retryEnabled,
			RetryBackoff: 10 * time.Millisecond,
		},
	}
}

func TestGeminiClient_Generate(t *testing.T) {
	t.Run("Success on the first attempt makes a single call", func(t *testing.T) {
		gen := &MockGenerator{}
		gen.On("GenerateContent", mock.Anything, "gemini-2.0-flash", mock.Anything, mock.Anything).
			Return(textResponse("hello"), nil).Once()

		client := newTestClient(gen, true)
		text, err := client.Generate(context.Background(), "say hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", text)
		gen.AssertNumberOfCalls(t, "GenerateContent", 1)
	})

	t.Run("One failure then success retries exactly once", func(t *testing.T) {
		gen := &MockGenerator{}
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("503 overloaded")).Once()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(textResponse("recovered"), nil).Once()

		client := newTestClient(gen, true)
		text, err := client.Generate(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "recovered", text)
		gen.AssertNumberOfCalls(t, "GenerateContent", 2)
	})

	t.Run("Two failures surface the second error with no third attempt", func(t *testing.T) {
		gen := &MockGenerator{}
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("quota exceeded"))

		client := newTestClient(gen, true)
		_, err := client.Generate(context.Background(), "prompt")
		assert.ErrorContains(t, err, "quota exceeded")
		gen.AssertNumberOfCalls(t, "GenerateContent", 2)
	})

	t.Run("Retry disabled fails after a single attempt", func(t *testing.T) {
		gen := &MockGenerator{}
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("timeout"))

		client := newTestClient(gen, false)
		_, err := client.Generate(context.Background(), "prompt")
		assert.Error(t, err)
		gen.AssertNumberOfCalls(t, "GenerateContent", 1)
	})

	t.Run("Canceled context suppresses the retry", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		gen := &MockGenerator{}
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { cancel() }).
			Return(nil, errors.New("connection reset"))

		client := newTestClient(gen, true)
		_, err := client.Generate(ctx, "prompt")
		assert.Error(t, err)
		gen.AssertNumberOfCalls(t, "GenerateContent", 1)
	})

	t.Run("Empty candidate list is an error", func(t *testing.T) {
		gen := &MockGenerator{}
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&genai.GenerateContentResponse{}, nil)

		client := newTestClient(gen, false)
		_, err := client.Generate(context.Background(), "prompt")
		assert.ErrorContains(t, err, "no candidates")
	})

	t.Run("Multi-part responses are concatenated", func(t *testing.T) {
		gen := &MockGenerator{}
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{Content: &genai.Content{Parts: []*genai.Part{{Text: "part one, "}, {Text: "part two"}}}},
				},
			}, nil)

		client := newTestClient(gen, false)
		text, err := client.Generate(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "part one, part two", text)
	})
}
