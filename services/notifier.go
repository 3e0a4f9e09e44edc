package services

import (
	"github.com/umt-lostfound/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationInput describes the notification a transition wants to emit.
type NotificationInput struct {
	Title     string
	Message   string
	Type      string
	Priority  string
	ItemID    *uint
	ClaimID   *uint
	DisputeID *uint
}

// Notifier persists notification rows inside the transaction of the state
// transition that emits them. Downstream delivery (email/push) is handled
// by an external collaborator and its failures never reach this code path.
type Notifier struct{}

// Notify writes one notification for the recipient, keyed by the id of the
// triggering transition. A second call with the same (eventID, recipient)
// pair is a no-op, so retried transitions do not duplicate notifications.
func (n *Notifier) Notify(tx *gorm.DB, recipientID uint, eventID string, in NotificationInput) error {
	priority := in.Priority
	if priority == "" {
		priority = models.UrgencyMedium
	}
	notification := models.Notification{
		RecipientID: recipientID,
		EventID:     eventID,
		Title:       in.Title,
		Message:     in.Message,
		Type:        in.Type,
		Priority:    priority,
		ItemID:      in.ItemID,
		ClaimID:     in.ClaimID,
		DisputeID:   in.DisputeID,
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&notification).Error
}
