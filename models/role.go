package models

import (
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type Role struct {
	gorm.Model
	Name string `gorm:"unique;not null;type:varchar(20)" json:"name"`
}
