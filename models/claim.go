package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	ClaimStatusPending   = "pending"
	ClaimStatusApproved  = "approved"
	ClaimStatusRejected  = "rejected"
	ClaimStatusCompleted = "completed"
)

const (
	ClaimPriorityLow    = "low"
	ClaimPriorityMedium = "medium"
	ClaimPriorityHigh   = "high"
)

type Claim struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	ItemID    uint `gorm:"not null;uniqueIndex:idx_claims_item_claimer" json:"item_id"`
	Item      Item `gorm:"foreignKey:ItemID" json:"item"`
	ClaimerID uint `gorm:"not null;uniqueIndex:idx_claims_item_claimer" json:"claimer_id"`
	Claimer   User `gorm:"foreignKey:ClaimerID" json:"claimer"`

	Message  string         `gorm:"not null;type:text" json:"message"`
	Evidence pq.StringArray `gorm:"type:text[]" json:"evidence"`
	Status   string         `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Priority string         `gorm:"type:varchar(10);default:'low'" json:"priority"`

	ProcessedBy *uint      `json:"processed_by"`
	ProcessedAt *time.Time `json:"processed_at"`
	AdminNotes  string     `json:"admin_notes"`
}
