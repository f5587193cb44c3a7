package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/relayhq/relay-ai/internal/llm"
	"github.com/relayhq/relay-ai/internal/models"
	"github.com/sirupsen/logrus"
)

// Service exposes the AI features of the messaging platform. Each feature is
// a stateless composition: validate input, build the prompt, invoke the model
// once, normalize the response. No feature retries, batches or parallelizes
// model calls; concurrent invocations are independent.
type Service struct {
	client llm.Client
	now    func() time.Time
}

// NewService creates an assistant service backed by the given model client.
func NewService(client llm.Client) *Service {
	return &Service{
		client: client,
		now:    time.Now,
	}
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	raw, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return raw, nil
}

// ParseTask extracts a structured task from a free-text description.
func (s *Service) ParseTask(ctx context.Context, taskDescription string) (*models.ParsedTask, error) {
	if strings.TrimSpace(taskDescription) == "" {
		return nil, fmt.Errorf("%w: task description is required", ErrInvalidInput)
	}

	raw, err := s.generate(ctx, taskPrompt(taskDescription))
	if err != nil {
		return nil, err
	}

	return parseTaskResponse(raw)
}

// ParseTranscript extracts every task mentioned in a meeting transcript. A
// transcript with no identifiable tasks yields an empty slice, not an error.
func (s *Service) ParseTranscript(ctx context.Context, transcript string) ([]models.ParsedTask, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is required", ErrInvalidInput)
	}

	raw, err := s.generate(ctx, transcriptPrompt(transcript))
	if err != nil {
		return nil, err
	}

	return parseTaskListResponse(raw)
}

// AnalyzeTone classifies the sentiment, impact, category and effectiveness
// score of a single outgoing message.
func (s *Service) AnalyzeTone(ctx context.Context, messageContent string) (*models.ToneAnalysis, error) {
	if strings.TrimSpace(messageContent) == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}

	raw, err := s.generate(ctx, tonePrompt(messageContent))
	if err != nil {
		return nil, err
	}

	return parseToneResponse(raw)
}

// QueryOrgBrain answers a workspace-wide question grounded in the assembled
// channel messages and pinned documents. The result is markdown prose; an
// empty answer after trimming is valid, if unhelpful.
func (s *Service) QueryOrgBrain(ctx context.Context, query string, brain models.OrgBrainContext) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: query is required", ErrInvalidInput)
	}

	logrus.Debugf("Querying org brain with %d messages and %d pinned docs (synthetic=%t)",
		brain.TotalMessages(), len(brain.PinnedDocs), brain.Synthetic)

	raw, err := s.generate(ctx, orgBrainPrompt(query, brain))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(raw), nil
}

// GenerateMeetingNotes summarizes a collection of thread or channel messages
// into structured meeting notes. An empty collection is NoContent; there is
// no demo-data fallback on this path, unlike the org brain.
func (s *Service) GenerateMeetingNotes(ctx context.Context, messages []models.ThreadMessage) (*models.MeetingNotes, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: no messages to summarize", ErrNoContent)
	}

	date := s.now().UTC().Format("2006-01-02")
	raw, err := s.generate(ctx, meetingNotesPrompt(messages, date))
	if err != nil {
		return nil, err
	}

	return parseMeetingNotesResponse(raw)
}

// SuggestReply proposes a short plain-text reply to an ordered thread.
func (s *Service) SuggestReply(ctx context.Context, thread []models.ThreadMessage) (string, error) {
	if len(thread) == 0 {
		return "", fmt.Errorf("%w: thread messages are required", ErrInvalidInput)
	}

	raw, err := s.generate(ctx, replyPrompt(thread))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(raw), nil
}
