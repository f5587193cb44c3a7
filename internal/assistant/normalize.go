package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/relayhq/relay-ai/internal/models"
)

// Response normalization: the model is instructed to return bare payloads but
// is known to wrap JSON in markdown fences, omit fields, or return values out
// of range. Each parser strips formatting noise, validates required fields
// and applies the per-field coercion rules. Defaulting vs hard failure is
// deliberately per-field, not uniform.

var validPriorities = map[string]bool{"P1": true, "P2": true, "P3": true, "P4": true}

var validSentiments = map[string]bool{"positive": true, "negative": true, "neutral": true}

var validImpacts = map[string]bool{"high": true, "medium": true, "low": true}

var validCategories = map[string]bool{
	"assertive": true, "aggressive": true, "weak": true, "confusing": true,
	"clear": true, "friendly": true, "professional": true, "casual": true,
	"neutral": true,
}

// stripFences trims surrounding whitespace and removes a leading markdown
// code fence (optionally tagged "json") and a trailing fence if present.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

type taskPayload struct {
	TaskName string  `json:"taskName"`
	Assignee *string `json:"assignee"`
	DueDate  *string `json:"dueDate"`
	Priority string  `json:"priority"`
}

func (p taskPayload) validate() (*models.ParsedTask, error) {
	if strings.TrimSpace(p.TaskName) == "" {
		return nil, fmt.Errorf("%w: missing task name", ErrInvalidModelOutput)
	}

	task := &models.ParsedTask{
		TaskName: p.TaskName,
		Assignee: p.Assignee,
		DueDate:  p.DueDate,
		Priority: p.Priority,
	}

	// Invalid or absent priority is coerced to the default, not an error.
	if !validPriorities[task.Priority] {
		task.Priority = "P3"
	}

	return task, nil
}

// parseTaskResponse parses a single-task JSON object response.
func parseTaskResponse(raw string) (*models.ParsedTask, error) {
	clean := stripFences(raw)

	var payload taskPayload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return payload.validate()
}

// parseTaskListResponse parses a transcript extraction response: a JSON array
// of task objects. An empty array is a valid result.
func parseTaskListResponse(raw string) ([]models.ParsedTask, error) {
	clean := stripFences(raw)

	var payloads []taskPayload
	if err := json.Unmarshal([]byte(clean), &payloads); err != nil {
		if json.Valid([]byte(clean)) {
			return nil, fmt.Errorf("%w: expected a JSON array of tasks", ErrInvalidModelOutput)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	tasks := make([]models.ParsedTask, 0, len(payloads))
	for _, payload := range payloads {
		task, err := payload.validate()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, nil
}

// parseToneResponse parses a tone analysis response. All four classification
// fields must be present; a score outside [0,100] is coerced to 50 and
// unrecognized enum values fall back to the neutral defaults.
func parseToneResponse(raw string) (*models.ToneAnalysis, error) {
	clean := stripFences(raw)

	var payload struct {
		Sentiment string   `json:"sentiment"`
		Impact    string   `json:"impact"`
		Category  string   `json:"category"`
		Score     *float64 `json:"score"`
		Feedback  string   `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if payload.Sentiment == "" || payload.Impact == "" || payload.Category == "" || payload.Score == nil {
		return nil, fmt.Errorf("%w: tone analysis is missing required fields", ErrInvalidModelOutput)
	}

	analysis := &models.ToneAnalysis{
		Sentiment: strings.ToLower(payload.Sentiment),
		Impact:    strings.ToLower(payload.Impact),
		Category:  strings.ToLower(payload.Category),
		Score:     int(*payload.Score),
		Feedback:  payload.Feedback,
	}

	if analysis.Score < 0 || analysis.Score > 100 {
		analysis.Score = 50
	}
	if !validSentiments[analysis.Sentiment] {
		analysis.Sentiment = "neutral"
	}
	if !validImpacts[analysis.Impact] {
		analysis.Impact = "medium"
	}
	if !validCategories[analysis.Category] {
		analysis.Category = "neutral"
	}

	return analysis, nil
}

// parseMeetingNotesResponse parses generated meeting notes. Title, summary
// and a topics array must be present or the whole operation fails; the
// remaining collections are optional and absent ones are treated as empty.
func parseMeetingNotesResponse(raw string) (*models.MeetingNotes, error) {
	clean := stripFences(raw)

	var payload struct {
		Title        string              `json:"title"`
		Date         string              `json:"date"`
		Participants []string            `json:"participants"`
		Summary      string              `json:"summary"`
		Topics       *[]models.Topic     `json:"topics"`
		Decisions    []string            `json:"decisions"`
		ActionItems  []models.ActionItem `json:"actionItems"`
		NextSteps    []string            `json:"nextSteps"`
	}
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if payload.Title == "" || payload.Summary == "" || payload.Topics == nil {
		return nil, fmt.Errorf("%w: meeting notes are missing title, summary or topics", ErrInvalidModelOutput)
	}

	return &models.MeetingNotes{
		Title:        payload.Title,
		Date:         payload.Date,
		Participants: payload.Participants,
		Summary:      payload.Summary,
		Topics:       *payload.Topics,
		Decisions:    payload.Decisions,
		ActionItems:  payload.ActionItems,
		NextSteps:    payload.NextSteps,
	}, nil
}
