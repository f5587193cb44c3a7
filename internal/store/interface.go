package store

import (
	"context"

	"github.com/relayhq/relay-ai/internal/models"
)

// MessageStore defines the read access the AI layer needs over the messaging
// data, plus the single write the platform performs after tone analysis.
type MessageStore interface {
	// AccessibleChannels returns the public channels of the workspace along
	// with any private channels the user is a member of.
	AccessibleChannels(ctx context.Context, workspaceID, userID string) ([]models.Channel, error)

	// PublicChannels returns every public channel across all workspaces.
	// Used by the scheduled digest.
	PublicChannels(ctx context.Context) ([]models.Channel, error)

	// RecentTopLevelMessages returns at most limit non-reply messages of a
	// channel, most recent first.
	RecentTopLevelMessages(ctx context.Context, channelID string, limit int) ([]models.ThreadMessage, error)

	// PinnedMessages returns all pinned messages of a channel regardless of
	// recency.
	PinnedMessages(ctx context.Context, channelID string) ([]models.ThreadMessage, error)

	// ThreadMessages returns the root message plus every reply whose parent
	// is the given thread id, oldest first.
	ThreadMessages(ctx context.Context, channelID, threadID string) ([]models.ThreadMessage, error)

	// UpdateMessageTone attaches a tone analysis to a stored message.
	UpdateMessageTone(ctx context.Context, messageID string, tone *models.ToneAnalysis) error
}
