package services

import (
	"github.com/umt-lostfound/api-go/models"
	"gorm.io/gorm"
)

// UserService owns admin-side user management. Role assignment is the
// only way a user gains or loses privileges: admin-ness is resolved from
// the roles table per call, so a change here takes effect on the next
// privileged operation without any token or cache invalidation.
type UserService struct {
	DB    *gorm.DB
	Roles RoleLookup
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db, Roles: NewRoleLookup(db)}
}

// AssignRole moves a user onto another role and audits the change with
// the before/after role names.
func (s *UserService) AssignRole(userID uint, roleName string, adminID uint) (*models.User, error) {
	switch roleName {
	case models.RoleUser, models.RoleModerator, models.RoleAdmin:
	default:
		return nil, validation("unknown role %q", roleName)
	}

	isAdmin, err := s.Roles.IsAdmin(adminID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, forbidden("admin access required")
	}

	var user models.User
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Role").First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("user %d not found", userID)
			}
			return err
		}

		var role models.Role
		if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
			return err
		}
		if user.RoleID == role.ID {
			return conflict("user already holds role %q", roleName)
		}
		before := user.Role.Name

		if err := tx.Model(&user).Update("role_id", role.ID).Error; err != nil {
			return err
		}

		_, err := recordAdminAction(tx, adminID, AuditEntry{
			Action:       "user_role_update",
			ContentType:  models.ContentTypeUser,
			ContentID:    user.ID,
			TargetUserID: &user.ID,
			Metadata: map[string]string{
				"before": before,
				"after":  roleName,
			},
		})
		if err != nil {
			return err
		}

		return tx.Preload("Role").First(&user, user.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
