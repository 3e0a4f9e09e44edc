package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

const (
	ItemStatusActive   = "active"
	ItemStatusClaimed  = "claimed"
	ItemStatusResolved = "resolved"
	ItemStatusArchived = "archived"
	ItemStatusRemoved  = "removed"
)

const (
	ModerationPending     = "pending"
	ModerationApproved    = "approved"
	ModerationRejected    = "rejected"
	ModerationFlagged     = "flagged"
	ModerationUnderReview = "under_review"
)

const (
	VerificationUnverified = "unverified"
	VerificationVerified   = "verified"
	VerificationDisputed   = "disputed"
)

const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

type Item struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user"`
	Type        string         `gorm:"not null;type:varchar(10)" json:"type"` // "lost" or "found"
	Category    string         `gorm:"type:varchar(20)" json:"category"`
	Title       string         `gorm:"not null;type:varchar(200)" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Location    string         `gorm:"type:varchar(100)" json:"location"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	Reward      int            `gorm:"not null;default:0" json:"reward"`
	Urgency     string         `gorm:"type:varchar(10);default:'medium'" json:"urgency"`
	DateLost    *time.Time     `json:"date_lost"`

	Status             string     `gorm:"type:varchar(20);default:'active';index" json:"status"`
	ModerationStatus   string     `gorm:"type:varchar(20);default:'pending';index" json:"moderation_status"`
	Flagged            bool       `gorm:"default:false;index" json:"flagged"`
	FlagReason         string     `json:"flag_reason"`
	VerificationStatus string     `gorm:"type:varchar(20);default:'unverified'" json:"verification_status"`
	ViewCount          int        `gorm:"default:0" json:"view_count"`
	ModeratedBy        *uint      `json:"moderated_by"`
	ModeratedAt        *time.Time `json:"moderated_at"`
	ModerationNotes    string     `json:"moderation_notes"`

	Claims []Claim `gorm:"foreignKey:ItemID" json:"claims"`
}
