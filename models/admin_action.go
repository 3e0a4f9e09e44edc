package models

import (
	"time"
)

const (
	ContentTypeItem    = "item"
	ContentTypeClaim   = "claim"
	ContentTypeDispute = "dispute"
	ContentTypeUser    = "user"
)

// AdminAction is an append-only audit record. Rows are never updated or
// deleted, so there is no UpdatedAt or DeletedAt column.
type AdminAction struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	AdminID      uint   `gorm:"not null;index" json:"admin_id"`
	Admin        User   `gorm:"foreignKey:AdminID" json:"admin"`
	Action       string `gorm:"not null;type:varchar(50)" json:"action"`
	ContentType  string `gorm:"not null;type:varchar(20)" json:"content_type"`
	ContentID    uint   `gorm:"not null;index" json:"content_id"`
	TargetUserID *uint  `json:"target_user_id"`
	Notes        string `gorm:"type:text" json:"notes"`
	Metadata     string `gorm:"type:text" json:"metadata"` // JSON before/after snapshot
}
