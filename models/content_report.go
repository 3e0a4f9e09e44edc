package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReportStatusOpen      = "open"
	ReportStatusReviewed  = "reviewed"
	ReportStatusDismissed = "dismissed"
)

type ContentReport struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	ReporterID uint   `gorm:"not null;uniqueIndex:idx_reports_item_reporter" json:"reporter_id"`
	Reporter   User   `gorm:"foreignKey:ReporterID" json:"reporter"`
	ItemID     uint   `gorm:"not null;uniqueIndex:idx_reports_item_reporter;index" json:"item_id"`
	Item       Item   `gorm:"foreignKey:ItemID" json:"item"`
	Reason     string `gorm:"not null" json:"reason"`
	Details    string `gorm:"type:text" json:"details"`
	Status     string `gorm:"not null;type:varchar(20);default:'open'" json:"status"`
}
