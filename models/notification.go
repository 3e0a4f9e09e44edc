package models

import (
	"time"
)

const (
	NotificationItemApproved    = "item_approved"
	NotificationItemRejected    = "item_rejected"
	NotificationItemArchived    = "item_archived"
	NotificationItemClaimed     = "item_claimed"
	NotificationClaimApproved   = "claim_approved"
	NotificationClaimRejected   = "claim_rejected"
	NotificationClaimSuperseded = "claim_superseded"
	NotificationDisputeOpened   = "dispute_opened"
	NotificationDisputeResolved = "dispute_resolved"
)

// Notification rows are written inside the transaction of the state
// transition that triggered them. The (event_id, recipient_id) unique index
// makes dispatch idempotent per transition.
type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	RecipientID uint   `gorm:"not null;index;uniqueIndex:idx_notifications_event_recipient" json:"recipient_id"`
	Recipient   User   `gorm:"foreignKey:RecipientID" json:"recipient"`
	EventID     string `gorm:"not null;type:varchar(36);uniqueIndex:idx_notifications_event_recipient" json:"event_id"`

	Title    string `gorm:"not null" json:"title"`
	Message  string `gorm:"not null;type:text" json:"message"`
	Type     string `gorm:"not null;type:varchar(30)" json:"type"`
	Priority string `gorm:"type:varchar(10);default:'medium'" json:"priority"`

	ItemID    *uint `json:"item_id"`
	ClaimID   *uint `json:"claim_id"`
	DisputeID *uint `json:"dispute_id"`

	Read      bool       `gorm:"default:false" json:"read"`
	ExpiresAt *time.Time `json:"expires_at"`
}
