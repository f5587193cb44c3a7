// Package digest runs the scheduled channel digest: meeting notes generated
// per public channel, archived, and delivered via the notification channels.
package digest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/relayhq/relay-ai/internal/archive"
	"github.com/relayhq/relay-ai/internal/assistant"
	"github.com/relayhq/relay-ai/internal/config"
	"github.com/relayhq/relay-ai/internal/models"
	"github.com/relayhq/relay-ai/internal/notifications"
	"github.com/relayhq/relay-ai/internal/store"
	"github.com/relayhq/relay-ai/internal/workspace"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// runTimeout bounds a whole digest run across all channels.
const runTimeout = 15 * time.Minute

// Service generates and delivers scheduled channel digests.
type Service struct {
	config    *config.Config
	store     store.MessageStore
	assembler *workspace.Assembler
	assistant *assistant.Service
	archive   archive.ArchiveInterface
	notifier  notifications.NotificationInterface
	cron      *cron.Cron
}

// NewService creates a digest service.
func NewService(
	cfg *config.Config,
	st store.MessageStore,
	assembler *workspace.Assembler,
	as *assistant.Service,
	ar archive.ArchiveInterface,
	notifier notifications.NotificationInterface,
) *Service {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logrus.Warnf("Unknown timezone %q, scheduling digests in UTC", cfg.TimeZone)
		location = time.UTC
	}

	return &Service{
		config:    cfg,
		store:     st,
		assembler: assembler,
		assistant: as,
		archive:   ar,
		notifier:  notifier,
		cron:      cron.New(cron.WithSeconds(), cron.WithLocation(location)),
	}
}

// Start begins the scheduled digest runs.
func (s *Service) Start() error {
	var cronExpression string

	switch s.config.DigestSchedule {
	case "daily":
		// Run daily at 7 AM in the configured timezone
		cronExpression = "0 0 7 * * *"
	case "weekly":
		// Run weekly on Monday at 7 AM in the configured timezone
		cronExpression = "0 0 7 * * MON"
	default:
		return fmt.Errorf("unsupported digest schedule %q", s.config.DigestSchedule)
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		logrus.Info("Starting scheduled digest run")
		if err := s.Run(); err != nil {
			logrus.Errorf("Scheduled digest run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Digest scheduler started with %s schedule", s.config.DigestSchedule)
	return nil
}

// Stop stops the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Digest scheduler stopped")
	}
}

// Run performs one digest pass over every public channel. Channels without
// recent activity are skipped; per-channel failures are logged and do not
// abort the run.
func (s *Service) Run() error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	channels, err := s.store.PublicChannels(ctx)
	if err != nil {
		return fmt.Errorf("list public channels: %w", err)
	}

	report := &models.DigestReport{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Period:      s.config.DigestSchedule,
	}

	for _, channel := range channels {
		messages, err := s.assembler.MeetingThread(ctx, channel.ID, "")
		if errors.Is(err, assistant.ErrNoContent) {
			logrus.Debugf("Skipping channel %s: no recent messages", channel.Name)
			report.Skipped++
			continue
		}
		if err != nil {
			logrus.Errorf("Failed to collect messages for channel %s: %v", channel.Name, err)
			continue
		}

		notes, err := s.assistant.GenerateMeetingNotes(ctx, messages)
		if err != nil {
			logrus.Errorf("Failed to generate notes for channel %s: %v", channel.Name, err)
			continue
		}

		report.Channels = append(report.Channels, models.ChannelDigest{
			ChannelID:   channel.ID,
			ChannelName: channel.Name,
			Notes:       notes,
		})
	}

	if len(report.Channels) == 0 {
		logrus.Info("Digest run produced no channel notes, nothing to deliver")
		return nil
	}

	if err := s.archiveReport(report); err != nil {
		logrus.Errorf("Failed to archive digest: %v", err)
		return err
	}

	if err := s.notifier.SendDigest(report); err != nil {
		logrus.Errorf("Failed to deliver digest: %v", err)
		return err
	}

	logrus.Infof("Digest run completed in %v: %d channels, %d skipped",
		time.Since(start), len(report.Channels), report.Skipped)
	return nil
}

func (s *Service) archiveReport(report *models.DigestReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal digest report: %w", err)
	}

	filename := fmt.Sprintf("digest-%s-%s.json", report.GeneratedAt.Format("2006-01-02"), report.ID)
	return s.archive.Store(filename, data)
}
