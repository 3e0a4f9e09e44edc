package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Email         string         `gorm:"unique;not null" json:"email"`
	FullName      string         `json:"full_name"`
	AvatarURL     string         `json:"avatar_url"`
	AccountStatus string         `gorm:"type:varchar(20);default:'active'" json:"account_status"`
	Role          Role           `json:"role" gorm:"foreignKey:RoleID"`
	RoleID        uint           `json:"role_id"`
	Items         []Item         `json:"items" gorm:"foreignKey:UserID"`
	Claims        []Claim        `json:"claims" gorm:"foreignKey:ClaimerID"`
}
