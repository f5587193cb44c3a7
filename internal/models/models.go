package models

import "time"

// Sender identifies the author of a message.
type Sender struct {
	ID       string `json:"id,omitempty"`
	FullName string `json:"fullName"`
}

// ThreadMessage is a single message supplied to the AI layer. Sender and
// content may be missing on caller input and are normalized to placeholders.
type ThreadMessage struct {
	ID        string    `json:"id,omitempty"`
	Content   string    `json:"content"`
	Sender    *Sender   `json:"sender,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	IsPinned  bool      `json:"isPinned,omitempty"`
}

// SenderName returns the display name of the message author, or "Unknown"
// when the sender was not populated.
func (m ThreadMessage) SenderName() string {
	if m.Sender == nil || m.Sender.FullName == "" {
		return "Unknown"
	}
	return m.Sender.FullName
}

// Channel is a workspace channel as seen by the context assembler.
type Channel struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspaceId"`
	Name        string `json:"name"`
	IsPrivate   bool   `json:"isPrivate"`
}

// ChannelContext groups the recent messages of one channel for prompting.
type ChannelContext struct {
	Name     string          `json:"channelName"`
	Messages []ThreadMessage `json:"messages"`
}

// PinnedDocument is the prompt-facing view of a pinned message.
type PinnedDocument struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	ChannelName string `json:"channelName"`
}

// OrgBrainContext is the assembled workspace data handed to the org-brain
// feature. Synthetic is set when the assembler substituted the demo dataset
// because the workspace held no messages or pinned documents at all.
type OrgBrainContext struct {
	Channels   []ChannelContext `json:"channels"`
	PinnedDocs []PinnedDocument `json:"pinnedDocuments"`
	Synthetic  bool             `json:"-"`
}

// TotalMessages counts the messages across all channels in the context.
func (c OrgBrainContext) TotalMessages() int {
	n := 0
	for _, ch := range c.Channels {
		n += len(ch.Messages)
	}
	return n
}

// ToneAnalysis is the classification produced for a single message.
// After normalization Score is always within [0,100].
type ToneAnalysis struct {
	Sentiment string `json:"sentiment"` // "positive", "negative", "neutral"
	Impact    string `json:"impact"`    // "high", "medium", "low"
	Category  string `json:"category"`
	Score     int    `json:"score"`
	Feedback  string `json:"feedback"`
}

// ParsedTask is a task extracted from a description or meeting transcript.
type ParsedTask struct {
	TaskName string  `json:"taskName"`
	Assignee *string `json:"assignee"`
	DueDate  *string `json:"dueDate"`
	Priority string  `json:"priority"` // "P1".."P4", defaults to "P3"
}

// Topic is one discussion topic inside generated meeting notes.
type Topic struct {
	Topic     string   `json:"topic"`
	KeyPoints []string `json:"keyPoints"`
}

// ActionItem is a follow-up task extracted into meeting notes.
type ActionItem struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee,omitempty"`
	DueDate  string `json:"dueDate,omitempty"`
}

// MeetingNotes is the structured summary of a thread or channel conversation.
// Title, Summary and Topics are required after normalization; the remaining
// collections may be empty.
type MeetingNotes struct {
	Title        string       `json:"title"`
	Date         string       `json:"date"`
	Participants []string     `json:"participants"`
	Summary      string       `json:"summary"`
	Topics       []Topic      `json:"topics"`
	Decisions    []string     `json:"decisions"`
	ActionItems  []ActionItem `json:"actionItems"`
	NextSteps    []string     `json:"nextSteps"`
}

// ChannelDigest is one channel's generated notes inside a digest run.
type ChannelDigest struct {
	ChannelID   string        `json:"channel_id"`
	ChannelName string        `json:"channel_name"`
	Notes       *MeetingNotes `json:"notes"`
}

// DigestReport is a scheduled digest across the workspace's channels.
type DigestReport struct {
	ID          string          `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Period      string          `json:"period"` // "daily" or "weekly"
	Channels    []ChannelDigest `json:"channels"`
	Skipped     int             `json:"skipped"` // channels with no content
}
