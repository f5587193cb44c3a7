// Package workspace assembles bounded, relevance-filtered workspace context
// for the AI features that need it.
package workspace

import (
	"context"
	"fmt"

	"github.com/relayhq/relay-ai/internal/assistant"
	"github.com/relayhq/relay-ai/internal/models"
	"github.com/relayhq/relay-ai/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	// maxRecentPerChannel bounds the top-level messages fetched per channel
	// for the org brain.
	maxRecentPerChannel = 50

	// maxChannelMessages bounds the messages summarized when meeting notes
	// are generated for a whole channel.
	maxChannelMessages = 100
)

// Assembler collects and bounds the workspace data handed to the prompt
// builders. It holds no cross-request state.
type Assembler struct {
	store store.MessageStore
}

// NewAssembler creates a context assembler over the given message store.
func NewAssembler(st store.MessageStore) *Assembler {
	return &Assembler{store: st}
}

// OrgBrainContext gathers, per accessible channel, the most recent top-level
// messages plus all pinned messages. Pinned messages are also surfaced as
// derived pinned documents. When the workspace holds no messages and no
// pinned documents at all, a clearly-labeled synthetic dataset is substituted
// so the feature stays demonstrable; real data always wins when any exists.
func (a *Assembler) OrgBrainContext(ctx context.Context, workspaceID, userID string) (models.OrgBrainContext, error) {
	channels, err := a.store.AccessibleChannels(ctx, workspaceID, userID)
	if err != nil {
		return models.OrgBrainContext{}, fmt.Errorf("list accessible channels: %w", err)
	}

	var brain models.OrgBrainContext
	for _, channel := range channels {
		messages, err := a.store.RecentTopLevelMessages(ctx, channel.ID, maxRecentPerChannel)
		if err != nil {
			logrus.Errorf("Failed to fetch messages for channel %s: %v", channel.Name, err)
			continue
		}

		pinned, err := a.store.PinnedMessages(ctx, channel.ID)
		if err != nil {
			logrus.Errorf("Failed to fetch pinned messages for channel %s: %v", channel.Name, err)
			continue
		}

		brain.Channels = append(brain.Channels, models.ChannelContext{
			Name:     channel.Name,
			Messages: messages,
		})

		for _, msg := range pinned {
			brain.PinnedDocs = append(brain.PinnedDocs, models.PinnedDocument{
				Title:       fmt.Sprintf("Pinned message by %s", msg.SenderName()),
				Content:     msg.Content,
				ChannelName: channel.Name,
			})
		}
	}

	if brain.TotalMessages() == 0 && len(brain.PinnedDocs) == 0 {
		logrus.Info("Workspace has no messages or pinned documents, using demo dataset for org brain")
		return demoOrgBrainContext(), nil
	}

	return brain, nil
}

// MeetingThread collects the messages to summarize. With a thread id it
// returns that message plus all of its replies; otherwise the most recent
// top-level messages of the channel. An empty result is NoContent — this
// path has no demo-data fallback.
func (a *Assembler) MeetingThread(ctx context.Context, channelID, threadID string) ([]models.ThreadMessage, error) {
	var (
		messages []models.ThreadMessage
		err      error
	)

	if threadID != "" {
		messages, err = a.store.ThreadMessages(ctx, channelID, threadID)
	} else {
		messages, err = a.store.RecentTopLevelMessages(ctx, channelID, maxChannelMessages)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: no messages found for the specified thread or channel", assistant.ErrNoContent)
	}

	return messages, nil
}
