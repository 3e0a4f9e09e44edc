package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umt-lostfound/api-go/models"
	"gorm.io/gorm"
)

const (
	DisputeResolve  = "resolve"
	DisputeReview   = "review"
	DisputeEscalate = "escalate"
	DisputeClose    = "close"
)

// DisputeService owns the Dispute state machine. Disputes are opened by
// the claim flow (multiple competing claims) or manually; only admins move
// them forward.
type DisputeService struct {
	DB       *gorm.DB
	Roles    RoleLookup
	Notifier *Notifier
}

func NewDisputeService(db *gorm.DB) *DisputeService {
	return &DisputeService{
		DB:       db,
		Roles:    NewRoleLookup(db),
		Notifier: &Notifier{},
	}
}

// DisputeResult is the outcome of a successful ResolveDispute call.
type DisputeResult struct {
	Dispute  models.Dispute `json:"dispute"`
	ActionID uint           `json:"action_id"`
	EventID  string         `json:"event_id"`
}

// OpenDispute files a dispute manually, for conflicts the claim flow does
// not detect on its own (false claims, verification issues). At most one
// open dispute may exist per item.
func (s *DisputeService) OpenDispute(itemID, reporterID uint, disputeType, reason string) (*models.Dispute, error) {
	switch disputeType {
	case models.DisputeTypeOwnership, models.DisputeTypeFalseClaim,
		models.DisputeTypeMultipleClaims, models.DisputeTypeVerificationIssue:
	default:
		return nil, validation("unknown dispute type %q", disputeType)
	}

	var dispute models.Dispute
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("item %d not found", itemID)
			}
			return err
		}

		var open int64
		err := tx.Model(&models.Dispute{}).
			Where("item_id = ? AND status NOT IN ?", item.ID,
				[]string{models.DisputeStatusResolved, models.DisputeStatusClosed}).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return conflict("a dispute is already open for this item")
		}

		dispute = models.Dispute{
			ItemID:       item.ID,
			OwnerID:      item.UserID,
			Type:         disputeType,
			Status:       models.DisputeStatusInvestigating,
			Priority:     models.UrgencyMedium,
			Resolution:   "",
			LastActivity: time.Now(),
			Parties: []models.DisputeParty{
				{UserID: reporterID, Role: models.PartyRoleReporter},
			},
		}
		if err := tx.Create(&dispute).Error; err != nil {
			return err
		}

		eventID := uuid.New().String()
		return s.Notifier.Notify(tx, item.UserID, eventID, NotificationInput{
			Title:     "Dispute Opened",
			Message:   fmt.Sprintf("A dispute was opened for your item %q: %s", item.Title, reason),
			Type:      models.NotificationDisputeOpened,
			ItemID:    &item.ID,
			DisputeID: &dispute.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &dispute, nil
}

// ResolveDispute applies an admin action to an open dispute. Resolving
// records the outcome without touching claims or the item; the admin acts
// on the underlying claims separately through ResolveClaim, so evidence
// review and the ownership decision stay independently audited. Closing
// requires every claim on the item to be settled first.
func (s *DisputeService) ResolveDispute(disputeID uint, action string, adminID uint, resolutionText string) (*DisputeResult, error) {
	switch action {
	case DisputeResolve, DisputeReview, DisputeEscalate, DisputeClose:
	default:
		return nil, validation("unknown dispute action %q", action)
	}

	isAdmin, err := s.Roles.IsAdmin(adminID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, forbidden("admin access required")
	}

	var result DisputeResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var dispute models.Dispute
		if err := tx.First(&dispute, disputeID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("dispute %d not found", disputeID)
			}
			return err
		}
		if !dispute.Open() {
			return invalidState("dispute is already %s", dispute.Status)
		}

		eventID := uuid.New().String()
		now := time.Now()
		before := dispute.Status
		updates := map[string]interface{}{
			"last_activity": now,
		}

		var notification *NotificationInput
		switch action {
		case DisputeResolve:
			updates["status"] = models.DisputeStatusResolved
			updates["resolution"] = resolutionText
			updates["resolved_by"] = adminID
			updates["resolved_at"] = now
			notification = &NotificationInput{
				Title:   "Dispute Resolved",
				Message: "The dispute regarding your item has been resolved by an administrator.",
				Type:    models.NotificationDisputeResolved,
			}
		case DisputeReview:
			updates["status"] = models.DisputeStatusPendingReview
			updates["assigned_to"] = adminID
		case DisputeEscalate:
			updates["status"] = models.DisputeStatusEscalated
			updates["priority"] = escalatePriority(dispute.Priority)
			updates["assigned_to"] = adminID
		case DisputeClose:
			var pending int64
			err := tx.Model(&models.Claim{}).
				Where("item_id = ? AND status = ?", dispute.ItemID, models.ClaimStatusPending).
				Count(&pending).Error
			if err != nil {
				return err
			}
			if pending > 0 {
				return invalidState("cannot close dispute with %d unresolved claims", pending)
			}
			updates["status"] = models.DisputeStatusClosed
		}

		if err := tx.Model(&dispute).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&dispute, dispute.ID).Error; err != nil {
			return err
		}

		adminAction, err := recordAdminAction(tx, adminID, AuditEntry{
			Action:       "dispute_" + action,
			ContentType:  models.ContentTypeDispute,
			ContentID:    dispute.ID,
			TargetUserID: &dispute.OwnerID,
			Notes:        resolutionText,
			Metadata: map[string]string{
				"before": before,
				"after":  dispute.Status,
			},
		})
		if err != nil {
			return err
		}

		if notification != nil {
			notification.ItemID = &dispute.ItemID
			notification.DisputeID = &dispute.ID
			if err := s.Notifier.Notify(tx, dispute.OwnerID, eventID, *notification); err != nil {
				return err
			}
		}

		result = DisputeResult{Dispute: dispute, ActionID: adminAction.ID, EventID: eventID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListOpenDisputes returns disputes still needing admin attention, highest
// priority and oldest first.
func (s *DisputeService) ListOpenDisputes(filter ListFilter) ([]models.Dispute, int64, error) {
	filter = filter.normalized()

	query := s.DB.Model(&models.Dispute{})
	if filter.Status != "" {
		query = query.Where("disputes.status = ?", filter.Status)
	} else {
		query = query.Where("disputes.status NOT IN ?",
			[]string{models.DisputeStatusResolved, models.DisputeStatusClosed})
	}
	if filter.Priority != "" {
		query = query.Where("disputes.priority = ?", filter.Priority)
	}
	query = applyDateRange(query, "disputes.created_at", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var disputes []models.Dispute
	err := applyPaging(query.Preload("Item").Preload("Owner").Preload("Parties").
		Order("CASE disputes.priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, disputes.created_at ASC"), filter).
		Find(&disputes).Error
	if err != nil {
		return nil, 0, err
	}
	return disputes, total, nil
}

// DisputesInvolving looks up disputes a user participates in through the
// parties index rather than an owned collection on the user.
func (s *DisputeService) DisputesInvolving(userID uint) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := s.DB.
		Joins("JOIN dispute_parties ON dispute_parties.dispute_id = disputes.id").
		Where("dispute_parties.user_id = ?", userID).
		Preload("Parties").
		Find(&disputes).Error
	if err != nil {
		return nil, err
	}
	return disputes, nil
}

func escalatePriority(priority string) string {
	switch priority {
	case models.UrgencyLow:
		return models.UrgencyMedium
	case models.UrgencyMedium:
		return models.UrgencyHigh
	default:
		return models.UrgencyHigh
	}
}
