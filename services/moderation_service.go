package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/umt-lostfound/api-go/models"
	"gorm.io/gorm"
)

const (
	ModerateApprove = "approve"
	ModerateReject  = "reject"
	ModerateFlag    = "flag"
	ModerateArchive = "archive"
)

// ModerationService owns the Item moderation state machine. Every
// operation runs in a single transaction covering the item mutation, the
// audit append and any notifications.
type ModerationService struct {
	DB       *gorm.DB
	Roles    RoleLookup
	Notifier *Notifier
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{
		DB:       db,
		Roles:    NewRoleLookup(db),
		Notifier: &Notifier{},
	}
}

// ModerationResult is the outcome of a successful ModerateItem call.
type ModerationResult struct {
	Item     models.Item `json:"item"`
	ActionID uint        `json:"action_id"`
	EventID  string      `json:"event_id"`
}

type itemStateSnapshot struct {
	ModerationStatus string `json:"moderation_status"`
	Status           string `json:"status"`
}

// approve and reject are terminal on the moderation axis; only archive
// (which acts on status, not moderation_status) may follow them.
var moderationSources = map[string][]string{
	ModerateApprove: {models.ModerationPending, models.ModerationFlagged, models.ModerationUnderReview},
	ModerateReject:  {models.ModerationPending, models.ModerationFlagged, models.ModerationUnderReview},
	ModerateFlag:    {models.ModerationPending},
}

// ModerateItem applies an admin decision to an item. The acting user must
// resolve to an admin through the role lookup; the decision, the audit
// entry and the owner notification commit or roll back together.
func (s *ModerationService) ModerateItem(itemID uint, action string, adminID uint, notes string) (*ModerationResult, error) {
	switch action {
	case ModerateApprove, ModerateReject, ModerateFlag, ModerateArchive:
	default:
		return nil, validation("unknown moderation action %q", action)
	}

	isAdmin, err := s.Roles.IsAdmin(adminID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, forbidden("admin access required")
	}

	var result ModerationResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("item %d not found", itemID)
			}
			return err
		}

		if allowed, ok := moderationSources[action]; ok && !contains(allowed, item.ModerationStatus) {
			return invalidState("cannot %s item in moderation state %q", action, item.ModerationStatus)
		}

		before := itemStateSnapshot{ModerationStatus: item.ModerationStatus, Status: item.Status}
		eventID := uuid.New().String()
		now := time.Now()

		updates := map[string]interface{}{
			"moderated_by":     adminID,
			"moderated_at":     now,
			"moderation_notes": notes,
		}

		var notification *NotificationInput
		switch action {
		case ModerateApprove:
			updates["moderation_status"] = models.ModerationApproved
			updates["flagged"] = false
			updates["flag_reason"] = ""
			if item.Status == models.ItemStatusRemoved {
				updates["status"] = models.ItemStatusActive
			}
			notification = &NotificationInput{
				Title:   "Item Approved",
				Message: "Your item has been approved and is now visible to other users.",
				Type:    models.NotificationItemApproved,
			}
		case ModerateReject:
			updates["moderation_status"] = models.ModerationRejected
			updates["status"] = models.ItemStatusRemoved
			// The flag is the "needs review" marker; a rejection is the
			// review outcome. flag_reason stays as the record of why the
			// item was flagged.
			updates["flagged"] = false
			message := "Your item submission has been rejected. Please review community guidelines."
			if notes != "" {
				message = "Your item submission has been rejected: " + notes
			}
			notification = &NotificationInput{
				Title:   "Item Rejected",
				Message: message,
				Type:    models.NotificationItemRejected,
			}
		case ModerateFlag:
			updates["moderation_status"] = models.ModerationFlagged
			updates["flagged"] = true
			updates["flag_reason"] = notes
			// Flagging stays internal: the owner is not notified until an
			// admin approves or rejects.
		case ModerateArchive:
			updates["status"] = models.ItemStatusArchived
			notification = &NotificationInput{
				Title:   "Item Archived",
				Message: "Your item has been archived by an administrator.",
				Type:    models.NotificationItemArchived,
			}
		}

		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&item, item.ID).Error; err != nil {
			return err
		}

		after := itemStateSnapshot{ModerationStatus: item.ModerationStatus, Status: item.Status}
		adminAction, err := recordAdminAction(tx, adminID, AuditEntry{
			Action:       "item_" + action,
			ContentType:  models.ContentTypeItem,
			ContentID:    item.ID,
			TargetUserID: &item.UserID,
			Notes:        notes,
			Metadata:     map[string]itemStateSnapshot{"before": before, "after": after},
		})
		if err != nil {
			return err
		}

		if notification != nil {
			notification.ItemID = &item.ID
			if err := s.Notifier.Notify(tx, item.UserID, eventID, *notification); err != nil {
				return err
			}
		}

		result = ModerationResult{Item: item, ActionID: adminAction.ID, EventID: eventID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListFlaggedItems returns items awaiting moderation attention, newest
// first. Status filters on moderation_status; an empty filter matches both
// flagged and under_review items.
func (s *ModerationService) ListFlaggedItems(filter ListFilter) ([]models.Item, int64, error) {
	filter = filter.normalized()

	query := s.DB.Model(&models.Item{}).Where("flagged = ?", true)
	if filter.Status != "" {
		query = query.Where("moderation_status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("urgency = ?", filter.Priority)
	}
	query = applyDateRange(query, "items.created_at", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Item
	err := applyPaging(query.Preload("User").Order("items.created_at DESC"), filter).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
