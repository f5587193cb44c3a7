package notifications

import "github.com/relayhq/relay-ai/internal/models"

// NotificationInterface defines the contract for delivering digest reports.
type NotificationInterface interface {
	SendDigest(report *models.DigestReport) error
}
