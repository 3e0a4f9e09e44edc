package services

import (
	"github.com/umt-lostfound/api-go/models"
	"gorm.io/gorm"
)

// RoleLookup resolves whether a user currently holds a privileged role.
// The state machine never trusts an is_admin flag cached in a profile or
// embedded in a token; every privileged transition asks the lookup.
type RoleLookup interface {
	IsAdmin(userID uint) (bool, error)
}

type dbRoleLookup struct {
	db *gorm.DB
}

func NewRoleLookup(db *gorm.DB) RoleLookup {
	return &dbRoleLookup{db: db}
}

func (l *dbRoleLookup) IsAdmin(userID uint) (bool, error) {
	var count int64
	err := l.db.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("users.id = ? AND roles.name IN ?", userID, []string{models.RoleAdmin, models.RoleModerator}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
