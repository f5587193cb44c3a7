package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Plain JSON untouched",
			input:    `{"taskName":"Ship it"}`,
			expected: `{"taskName":"Ship it"}`,
		},
		{
			name:     "Tagged json fence",
			input:    "```json\n{\"taskName\":\"Ship it\"}\n```",
			expected: `{"taskName":"Ship it"}`,
		},
		{
			name:     "Bare fence",
			input:    "```\n{\"taskName\":\"Ship it\"}\n```",
			expected: `{"taskName":"Ship it"}`,
		},
		{
			name:     "Surrounding whitespace",
			input:    "  \n```json\n{}\n```  \n",
			expected: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripFences(tt.input))
		})
	}
}

func TestParseToneResponse(t *testing.T) {
	t.Run("Fenced response parses identically to unwrapped", func(t *testing.T) {
		raw := "```json\n{\"sentiment\":\"positive\",\"impact\":\"high\",\"category\":\"friendly\",\"score\":85,\"feedback\":\"Good\"}\n```"
		bare := `{"sentiment":"positive","impact":"high","category":"friendly","score":85,"feedback":"Good"}`

		fenced, err := parseToneResponse(raw)
		require.NoError(t, err)
		plain, err := parseToneResponse(bare)
		require.NoError(t, err)

		assert.Equal(t, plain, fenced)
		assert.Equal(t, "positive", fenced.Sentiment)
		assert.Equal(t, "high", fenced.Impact)
		assert.Equal(t, "friendly", fenced.Category)
		assert.Equal(t, 85, fenced.Score)
		assert.Equal(t, "Good", fenced.Feedback)
	})

	t.Run("Out-of-range score is coerced to 50", func(t *testing.T) {
		analysis, err := parseToneResponse(`{"sentiment":"positive","impact":"high","category":"clear","score":150,"feedback":"ok"}`)
		require.NoError(t, err)
		assert.Equal(t, 50, analysis.Score)
	})

	t.Run("Negative score is coerced to 50", func(t *testing.T) {
		analysis, err := parseToneResponse(`{"sentiment":"negative","impact":"low","category":"weak","score":-5,"feedback":"ok"}`)
		require.NoError(t, err)
		assert.Equal(t, 50, analysis.Score)
	})

	t.Run("Zero score is valid", func(t *testing.T) {
		analysis, err := parseToneResponse(`{"sentiment":"negative","impact":"low","category":"confusing","score":0,"feedback":"ok"}`)
		require.NoError(t, err)
		assert.Equal(t, 0, analysis.Score)
	})

	t.Run("Missing sentiment fails", func(t *testing.T) {
		_, err := parseToneResponse(`{"impact":"high","category":"clear","score":80,"feedback":"ok"}`)
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})

	t.Run("Missing score fails", func(t *testing.T) {
		_, err := parseToneResponse(`{"sentiment":"neutral","impact":"high","category":"clear","feedback":"ok"}`)
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})

	t.Run("Unrecognized enum values fall back to defaults", func(t *testing.T) {
		analysis, err := parseToneResponse(`{"sentiment":"ecstatic","impact":"enormous","category":"sarcastic","score":70,"feedback":"ok"}`)
		require.NoError(t, err)
		assert.Equal(t, "neutral", analysis.Sentiment)
		assert.Equal(t, "medium", analysis.Impact)
		assert.Equal(t, "neutral", analysis.Category)
	})

	t.Run("Invalid JSON fails as malformed", func(t *testing.T) {
		_, err := parseToneResponse("the tone is friendly")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestParseTaskResponse(t *testing.T) {
	t.Run("Valid task with nulls", func(t *testing.T) {
		task, err := parseTaskResponse(`{"taskName":"Write the Q3 report","assignee":null,"dueDate":null,"priority":"P2"}`)
		require.NoError(t, err)
		assert.Equal(t, "Write the Q3 report", task.TaskName)
		assert.Nil(t, task.Assignee)
		assert.Nil(t, task.DueDate)
		assert.Equal(t, "P2", task.Priority)
	})

	t.Run("Missing task name fails", func(t *testing.T) {
		_, err := parseTaskResponse(`{"assignee":"Dana","priority":"P1"}`)
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})

	t.Run("Invalid priority is coerced to P3", func(t *testing.T) {
		task, err := parseTaskResponse(`{"taskName":"Fix the build","priority":"urgent"}`)
		require.NoError(t, err)
		assert.Equal(t, "P3", task.Priority)
	})

	t.Run("Absent priority defaults to P3", func(t *testing.T) {
		task, err := parseTaskResponse(`{"taskName":"Fix the build"}`)
		require.NoError(t, err)
		assert.Equal(t, "P3", task.Priority)
	})

	t.Run("Invalid JSON fails as malformed", func(t *testing.T) {
		_, err := parseTaskResponse(`{"taskName": "Fix`)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestParseTaskListResponse(t *testing.T) {
	t.Run("Array of tasks", func(t *testing.T) {
		tasks, err := parseTaskListResponse("```json\n[{\"taskName\":\"A\",\"priority\":\"P1\"},{\"taskName\":\"B\"}]\n```")
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "P1", tasks[0].Priority)
		assert.Equal(t, "P3", tasks[1].Priority)
	})

	t.Run("Empty array means no tasks, not an error", func(t *testing.T) {
		tasks, err := parseTaskListResponse("[]")
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("Object instead of array fails", func(t *testing.T) {
		_, err := parseTaskListResponse(`{"taskName":"A"}`)
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})

	t.Run("Invalid JSON fails as malformed", func(t *testing.T) {
		_, err := parseTaskListResponse("no tasks were found")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("Element without task name fails", func(t *testing.T) {
		_, err := parseTaskListResponse(`[{"taskName":"A"},{"assignee":"Dana"}]`)
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})
}

func TestParseMeetingNotesResponse(t *testing.T) {
	full := `{
		"title": "Meeting Notes: Auth Rollout",
		"date": "2026-09-01",
		"participants": ["Alice", "Bob"],
		"summary": "The team agreed on the rollout plan.",
		"topics": [{"topic": "Authentication", "keyPoints": ["JWT chosen"]}],
		"decisions": ["Use JWT"],
		"actionItems": [{"task": "Implement backend", "assignee": "Alice"}],
		"nextSteps": ["Review on Friday"]
	}`

	t.Run("Full response", func(t *testing.T) {
		notes, err := parseMeetingNotesResponse(full)
		require.NoError(t, err)
		assert.Equal(t, "Meeting Notes: Auth Rollout", notes.Title)
		assert.Equal(t, []string{"Alice", "Bob"}, notes.Participants)
		require.Len(t, notes.Topics, 1)
		assert.Equal(t, "Authentication", notes.Topics[0].Topic)
		require.Len(t, notes.ActionItems, 1)
		assert.Equal(t, "Alice", notes.ActionItems[0].Assignee)
	})

	t.Run("Missing summary fails", func(t *testing.T) {
		_, err := parseMeetingNotesResponse(`{"title":"Notes","topics":[]}`)
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})

	t.Run("Missing topics fails", func(t *testing.T) {
		_, err := parseMeetingNotesResponse(`{"title":"Notes","summary":"Short"}`)
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})

	t.Run("Empty topics array is valid", func(t *testing.T) {
		notes, err := parseMeetingNotesResponse(`{"title":"Notes","summary":"Short","topics":[]}`)
		require.NoError(t, err)
		assert.Empty(t, notes.Topics)
	})

	t.Run("Optional collections may be absent", func(t *testing.T) {
		notes, err := parseMeetingNotesResponse(`{"title":"Notes","summary":"Short","topics":[{"topic":"A","keyPoints":[]}]}`)
		require.NoError(t, err)
		assert.Empty(t, notes.Decisions)
		assert.Empty(t, notes.ActionItems)
		assert.Empty(t, notes.NextSteps)
	})
}
