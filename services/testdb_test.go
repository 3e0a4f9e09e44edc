package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/umt-lostfound/api-go/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// newTestDB opens an isolated in-memory database migrated with the full
// schema and the three seeded roles.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared",
		atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Role{}, &models.Item{}, &models.Claim{},
		&models.Dispute{}, &models.DisputeParty{}, &models.Notification{},
		&models.AdminAction{}, &models.ContentReport{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	for _, name := range []string{models.RoleUser, models.RoleModerator, models.RoleAdmin} {
		if err := db.Create(&models.Role{Name: name}).Error; err != nil {
			t.Fatalf("failed to seed role %s: %v", name, err)
		}
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, roleName string) models.User {
	t.Helper()

	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		t.Fatalf("failed to look up role %s: %v", roleName, err)
	}

	user := models.User{
		Email:         email,
		FullName:      "Test User",
		AccountStatus: "active",
		RoleID:        role.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createTestItem(t *testing.T, db *gorm.DB, owner models.User, mutate func(*models.Item)) models.Item {
	t.Helper()

	item := models.Item{
		UserID:             owner.ID,
		Type:               models.ItemTypeLost,
		Title:              "Black backpack",
		Description:        "Lost near the library, contains textbooks.",
		Category:           "bags",
		Location:           "Main Library",
		Reward:             0,
		Urgency:            models.UrgencyMedium,
		Status:             models.ItemStatusActive,
		ModerationStatus:   models.ModerationPending,
		VerificationStatus: models.VerificationUnverified,
	}
	if mutate != nil {
		mutate(&item)
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	return item
}

func countNotifications(t *testing.T, db *gorm.DB, recipientID uint, notificationType string) int64 {
	t.Helper()

	var count int64
	err := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", recipientID, notificationType).
		Count(&count).Error
	if err != nil {
		t.Fatalf("failed to count notifications: %v", err)
	}
	return count
}

func lastAdminAction(t *testing.T, db *gorm.DB) models.AdminAction {
	t.Helper()

	var action models.AdminAction
	if err := db.Order("id DESC").First(&action).Error; err != nil {
		t.Fatalf("failed to load admin action: %v", err)
	}
	return action
}
