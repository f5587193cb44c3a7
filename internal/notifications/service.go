package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/relayhq/relay-ai/internal/config"
	"github.com/relayhq/relay-ai/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service delivers digest reports via the configured channels.
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message card
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle string `json:"activityTitle,omitempty"`
	ActivityText  string `json:"activityText,omitempty"`
	Markdown      bool   `json:"markdown,omitempty"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendDigest sends a digest report via every configured channel.
func (s *Service) SendDigest(report *models.DigestReport) error {
	var errs []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(report); err != nil {
			logrus.Errorf("Failed to send Teams digest: %v", err)
			errs = append(errs, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent digest to Teams")
		}
	}

	if s.config.DigestEmail != "" {
		if err := s.sendEmail(report); err != nil {
			logrus.Errorf("Failed to send digest email: %v", err)
			errs = append(errs, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent digest via email")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(report *models.DigestReport) error {
	message := s.buildTeamsMessage(report)

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildTeamsMessage(report *models.DigestReport) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Channel Digest - %s", report.GeneratedAt.Format("January 2, 2006")),
		Text:    fmt.Sprintf("Generated notes for %d channels (%d skipped with no activity)", len(report.Channels), report.Skipped),
	}

	for _, channel := range report.Channels {
		notes := channel.Notes
		var lines []string
		lines = append(lines, notes.Summary)
		if len(notes.Decisions) > 0 {
			lines = append(lines, fmt.Sprintf("**Decisions:** %s", strings.Join(notes.Decisions, "; ")))
		}
		if len(notes.ActionItems) > 0 {
			var items []string
			for _, item := range notes.ActionItems {
				items = append(items, item.Task)
			}
			lines = append(lines, fmt.Sprintf("**Action items:** %s", strings.Join(items, "; ")))
		}

		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: fmt.Sprintf("#%s — %s", channel.ChannelName, notes.Title),
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) sendEmail(report *models.DigestReport) error {
	subject := fmt.Sprintf("Channel Digest - %s (%d channels)",
		report.GeneratedAt.Format("Jan 2, 2006"), len(report.Channels))

	htmlBody, err := s.buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.DigestEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", s.buildEmailText(report))
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *Service) buildEmailHTML(report *models.DigestReport) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Channel Digest</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #4a154b; color: white; padding: 20px; border-radius: 5px; }
        .channel { border-left: 4px solid #4a154b; padding: 10px; margin: 15px 0; background-color: #fafafa; }
        .channel-title { font-weight: bold; margin-bottom: 5px; }
        .meta { color: #666; font-size: 0.9em; }
        ul { margin: 5px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Channel Digest</h1>
        <p>Generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    {{range .Channels}}
    <div class="channel">
        <div class="channel-title">#{{.ChannelName}} — {{.Notes.Title}}</div>
        <div class="meta">Participants: {{join .Notes.Participants ", "}}</div>
        <p>{{.Notes.Summary}}</p>
        {{if .Notes.Decisions}}
        <strong>Decisions</strong>
        <ul>{{range .Notes.Decisions}}<li>{{.}}</li>{{end}}</ul>
        {{end}}
        {{if .Notes.ActionItems}}
        <strong>Action Items</strong>
        <ul>{{range .Notes.ActionItems}}<li>{{.Task}}{{if .Assignee}} ({{.Assignee}}){{end}}</li>{{end}}</ul>
        {{end}}
    </div>
    {{end}}

    <hr>
    <p><small>This digest was generated automatically from channel activity.</small></p>
</body>
</html>
`

	t := template.New("digest").Funcs(template.FuncMap{
		"join": strings.Join,
	})

	t, err := t.Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, report); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Service) buildEmailText(report *models.DigestReport) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Channel Digest - %s\n", report.GeneratedAt.Format("2006-01-02")))
	text.WriteString(fmt.Sprintf("Channels: %d (skipped %d with no activity)\n\n", len(report.Channels), report.Skipped))

	for _, channel := range report.Channels {
		notes := channel.Notes
		text.WriteString(fmt.Sprintf("#%s — %s\n", channel.ChannelName, notes.Title))
		text.WriteString(fmt.Sprintf("Participants: %s\n", strings.Join(notes.Participants, ", ")))
		text.WriteString(notes.Summary + "\n")

		if len(notes.Decisions) > 0 {
			text.WriteString("Decisions:\n")
			for _, decision := range notes.Decisions {
				text.WriteString(fmt.Sprintf("  - %s\n", decision))
			}
		}
		if len(notes.ActionItems) > 0 {
			text.WriteString("Action items:\n")
			for _, item := range notes.ActionItems {
				line := item.Task
				if item.Assignee != "" {
					line += fmt.Sprintf(" (%s)", item.Assignee)
				}
				text.WriteString(fmt.Sprintf("  - %s\n", line))
			}
		}
		text.WriteString("\n")
	}

	return text.String()
}
