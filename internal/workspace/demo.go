package workspace

import (
	"time"

	"github.com/google/uuid"
	"github.com/relayhq/relay-ai/internal/models"
)

// demoOrgBrainContext returns the illustrative sample workspace used when a
// workspace is completely empty. The prompt builder labels this data as
// sample data so the model does not present it as real.
func demoOrgBrainContext() models.OrgBrainContext {
	now := time.Now()

	atlasStatus := "Project Atlas status update: We are currently at 75% completion. " +
		"The data visualization module is taking longer than expected due to performance issues."
	hrPolicy := "The new HR policy documents have been uploaded to the shared drive. Please review them by Friday."

	return models.OrgBrainContext{
		Synthetic: true,
		Channels: []models.ChannelContext{
			{
				Name: "project-atlas",
				Messages: []models.ThreadMessage{
					{
						ID:        uuid.NewString(),
						Content:   "Team, we need to finalize the UI designs for Project Atlas by the end of the week.",
						Sender:    &models.Sender{FullName: "Sarah Johnson"},
						CreatedAt: now.Add(-3 * 24 * time.Hour),
					},
					{
						ID:        uuid.NewString(),
						Content:   "I have completed the backend API integration for the user dashboard component of Project Atlas.",
						Sender:    &models.Sender{FullName: "Michael Chen"},
						CreatedAt: now.Add(-2 * 24 * time.Hour),
					},
					{
						ID:        uuid.NewString(),
						Content:   atlasStatus,
						Sender:    &models.Sender{FullName: "Alex Rodriguez"},
						CreatedAt: now.Add(-24 * time.Hour),
						IsPinned:  true,
					},
				},
			},
			{
				Name: "general",
				Messages: []models.ThreadMessage{
					{
						ID:        uuid.NewString(),
						Content:   "Good morning everyone! Do not forget we have the company all-hands meeting at 2pm today.",
						Sender:    &models.Sender{FullName: "Emily Watson"},
						CreatedAt: now.Add(-8 * time.Hour),
					},
					{
						ID:        uuid.NewString(),
						Content:   hrPolicy,
						Sender:    &models.Sender{FullName: "David Kim"},
						CreatedAt: now.Add(-4 * time.Hour),
						IsPinned:  true,
					},
				},
			},
		},
		PinnedDocs: []models.PinnedDocument{
			{
				Title:       "Pinned message by Alex Rodriguez",
				Content:     atlasStatus,
				ChannelName: "project-atlas",
			},
			{
				Title:       "Pinned message by David Kim",
				Content:     hrPolicy,
				ChannelName: "general",
			},
			{
				Title: "Pinned message by Sarah Johnson",
				Content: "Project Atlas deadline: June 15th. Key deliverables include UI redesign, " +
					"backend API integration, and user dashboard implementation.",
				ChannelName: "project-atlas",
			},
		},
	}
}
