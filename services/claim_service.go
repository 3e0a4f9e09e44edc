package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umt-lostfound/api-go/models"
	"gorm.io/gorm"
)

const minClaimMessageLength = 10

// ClaimService owns the Claim lifecycle: submission by a non-owner and
// resolution by the item owner or an admin, including the cascade that
// rejects competing claims and settles an open dispute.
type ClaimService struct {
	DB       *gorm.DB
	Roles    RoleLookup
	Notifier *Notifier
}

func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{
		DB:       db,
		Roles:    NewRoleLookup(db),
		Notifier: &Notifier{},
	}
}

// ClaimPriorityForReward derives a claim's review priority from the reward
// attached to the item being claimed.
func ClaimPriorityForReward(reward int) string {
	switch {
	case reward >= 100:
		return models.ClaimPriorityHigh
	case reward >= 25:
		return models.ClaimPriorityMedium
	default:
		return models.ClaimPriorityLow
	}
}

// SubmitClaim files a claim against an item. Duplicate submission for the
// same (item, claimer) pair is rejected by the unique index, never by
// application-level locking, so concurrent duplicates resolve to exactly
// one winner. A second concurrent claim on an item automatically opens a
// multiple_claims dispute when none is open yet.
func (s *ClaimService) SubmitClaim(itemID, claimerID uint, message string, evidence []string) (*models.Claim, error) {
	if len(message) < minClaimMessageLength {
		return nil, validation("claim message must be at least %d characters", minClaimMessageLength)
	}

	var claim models.Claim
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("item %d not found", itemID)
			}
			return err
		}

		if item.UserID == claimerID {
			return forbidden("cannot claim your own item")
		}
		if item.Status != models.ItemStatusActive && item.Status != models.ItemStatusClaimed {
			return invalidState("item is not available for claiming")
		}

		claim = models.Claim{
			ItemID:    item.ID,
			ClaimerID: claimerID,
			Message:   message,
			Evidence:  evidence,
			Status:    models.ClaimStatusPending,
			Priority:  ClaimPriorityForReward(item.Reward),
		}
		if err := tx.Create(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("you have already claimed this item")
			}
			return err
		}

		eventID := uuid.New().String()
		err := s.Notifier.Notify(tx, item.UserID, eventID, NotificationInput{
			Title:    "New Claim Request",
			Message:  fmt.Sprintf("Someone wants to claim your %s item: %s", item.Type, item.Title),
			Type:     models.NotificationItemClaimed,
			Priority: claim.Priority,
			ItemID:   &item.ID,
			ClaimID:  &claim.ID,
		})
		if err != nil {
			return err
		}

		return s.maybeOpenDispute(tx, &item)
	})
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// maybeOpenDispute opens a multiple_claims dispute once an item carries
// two or more non-rejected claims and no dispute is open for it yet. The
// claimants of the competing claims become the dispute's parties.
func (s *ClaimService) maybeOpenDispute(tx *gorm.DB, item *models.Item) error {
	var competing []models.Claim
	err := tx.Where("item_id = ? AND status <> ?", item.ID, models.ClaimStatusRejected).
		Find(&competing).Error
	if err != nil {
		return err
	}
	if len(competing) < 2 {
		return nil
	}

	var open int64
	err = tx.Model(&models.Dispute{}).
		Where("item_id = ? AND status NOT IN ?", item.ID,
			[]string{models.DisputeStatusResolved, models.DisputeStatusClosed}).
		Count(&open).Error
	if err != nil {
		return err
	}
	if open > 0 {
		return nil
	}

	dispute := models.Dispute{
		ItemID:       item.ID,
		OwnerID:      item.UserID,
		Type:         models.DisputeTypeMultipleClaims,
		Status:       models.DisputeStatusInvestigating,
		Priority:     ClaimPriorityForReward(item.Reward),
		LastActivity: time.Now(),
	}
	for _, c := range competing {
		dispute.Parties = append(dispute.Parties, models.DisputeParty{
			UserID: c.ClaimerID,
			Role:   models.PartyRoleClaimant,
		})
	}
	if err := tx.Create(&dispute).Error; err != nil {
		return err
	}

	// The dispute opening is its own transition: the owner already got a
	// claim notification under the submit event id, so reusing it here
	// would collide on the (event_id, recipient_id) index and drop this
	// notification.
	eventID := uuid.New().String()
	return s.Notifier.Notify(tx, item.UserID, eventID, NotificationInput{
		Title:     "Dispute Opened",
		Message:   fmt.Sprintf("Multiple claims were filed for your item %q. An administrator will review them.", item.Title),
		Type:      models.NotificationDisputeOpened,
		Priority:  dispute.Priority,
		ItemID:    &item.ID,
		DisputeID: &dispute.ID,
	})
}

// ClaimResolution is the outcome of a successful ResolveClaim call.
type ClaimResolution struct {
	Claim        models.Claim `json:"claim"`
	AutoRejected []uint       `json:"auto_rejected"`
	ActionID     uint         `json:"action_id"`
	EventID      string       `json:"event_id"`
}

// ResolveClaim approves or rejects a pending claim. Approval moves the
// item from active to claimed through a guarded update, so two concurrent
// approvals of different claims serialize: the loser observes
// InvalidState. All sibling pending claims are auto-rejected and an open
// dispute on the item is marked resolved in the same transaction.
func (s *ClaimService) ResolveClaim(claimID uint, decision string, actorID uint, notes string) (*ClaimResolution, error) {
	if decision != models.ClaimStatusApproved && decision != models.ClaimStatusRejected {
		return nil, validation("unknown claim decision %q", decision)
	}

	var result ClaimResolution
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var claim models.Claim
		if err := tx.First(&claim, claimID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFound("claim %d not found", claimID)
			}
			return err
		}

		var item models.Item
		if err := tx.First(&item, claim.ItemID).Error; err != nil {
			return err
		}

		if item.UserID != actorID {
			isAdmin, err := s.Roles.IsAdmin(actorID)
			if err != nil {
				return err
			}
			if !isAdmin {
				return forbidden("only the item owner or an admin can resolve this claim")
			}
		}

		if claim.Status != models.ClaimStatusPending {
			return invalidState("claim is already %s", claim.Status)
		}

		eventID := uuid.New().String()
		now := time.Now()
		before := claim.Status

		claimUpdates := map[string]interface{}{
			"status":       decision,
			"processed_by": actorID,
			"processed_at": now,
			"admin_notes":  notes,
		}

		if decision == models.ClaimStatusApproved {
			// Guarded update: only one approval may take the item from
			// active to claimed.
			res := tx.Model(&models.Item{}).
				Where("id = ? AND status = ?", item.ID, models.ItemStatusActive).
				Update("status", models.ItemStatusClaimed)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return invalidState("item is no longer available; reload and retry")
			}

			if err := updatePendingClaim(tx, claim.ID, claimUpdates); err != nil {
				return err
			}

			var siblings []models.Claim
			err := tx.Where("item_id = ? AND id <> ? AND status = ?",
				item.ID, claim.ID, models.ClaimStatusPending).Find(&siblings).Error
			if err != nil {
				return err
			}
			for i := range siblings {
				sibling := &siblings[i]
				err := tx.Model(sibling).Updates(map[string]interface{}{
					"status":       models.ClaimStatusRejected,
					"processed_by": actorID,
					"processed_at": now,
					"admin_notes":  "superseded by another approved claim",
				}).Error
				if err != nil {
					return err
				}
				result.AutoRejected = append(result.AutoRejected, sibling.ID)

				err = s.Notifier.Notify(tx, sibling.ClaimerID, eventID, NotificationInput{
					Title:   "Claim Rejected",
					Message: fmt.Sprintf("Your claim for %q was superseded by another approved claim.", item.Title),
					Type:    models.NotificationClaimSuperseded,
					ItemID:  &item.ID,
					ClaimID: &sibling.ID,
				})
				if err != nil {
					return err
				}
			}

			err = s.Notifier.Notify(tx, claim.ClaimerID, eventID, NotificationInput{
				Title:    "Claim Approved",
				Message:  fmt.Sprintf("Your claim for %q has been approved.", item.Title),
				Type:     models.NotificationClaimApproved,
				Priority: claim.Priority,
				ItemID:   &item.ID,
				ClaimID:  &claim.ID,
			})
			if err != nil {
				return err
			}

			if err := s.resolveOpenDispute(tx, &item, actorID, notes, eventID, now); err != nil {
				return err
			}
		} else {
			if err := updatePendingClaim(tx, claim.ID, claimUpdates); err != nil {
				return err
			}
			err := s.Notifier.Notify(tx, claim.ClaimerID, eventID, NotificationInput{
				Title:   "Claim Rejected",
				Message: fmt.Sprintf("Your claim for %q has been rejected.", item.Title),
				Type:    models.NotificationClaimRejected,
				ItemID:  &item.ID,
				ClaimID: &claim.ID,
			})
			if err != nil {
				return err
			}
		}

		adminAction, err := recordAdminAction(tx, actorID, AuditEntry{
			Action:       "claim_" + decision,
			ContentType:  models.ContentTypeClaim,
			ContentID:    claim.ID,
			TargetUserID: &claim.ClaimerID,
			Notes:        notes,
			Metadata: map[string]interface{}{
				"before":        before,
				"after":         decision,
				"auto_rejected": result.AutoRejected,
			},
		})
		if err != nil {
			return err
		}

		if err := tx.First(&claim, claim.ID).Error; err != nil {
			return err
		}
		result.Claim = claim
		result.ActionID = adminAction.ID
		result.EventID = eventID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// updatePendingClaim transitions a claim out of pending with a guarded
// update, so a concurrent resolution of the same claim loses cleanly.
func updatePendingClaim(tx *gorm.DB, claimID uint, updates map[string]interface{}) error {
	res := tx.Model(&models.Claim{}).
		Where("id = ? AND status = ?", claimID, models.ClaimStatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return invalidState("claim was resolved concurrently; reload and retry")
	}
	return nil
}

// resolveOpenDispute marks the item's open dispute resolved after a claim
// approval settles the ownership question. The dispute is resolved rather
// than closed: explicit closure stays an admin decision.
func (s *ClaimService) resolveOpenDispute(tx *gorm.DB, item *models.Item, actorID uint, notes, eventID string, now time.Time) error {
	var dispute models.Dispute
	err := tx.Where("item_id = ? AND status NOT IN ?", item.ID,
		[]string{models.DisputeStatusResolved, models.DisputeStatusClosed}).
		First(&dispute).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	resolution := "resolved by claim approval"
	if notes != "" {
		resolution = "resolved by claim approval: " + notes
	}
	err = tx.Model(&dispute).Updates(map[string]interface{}{
		"status":        models.DisputeStatusResolved,
		"resolution":    resolution,
		"resolved_by":   actorID,
		"resolved_at":   now,
		"last_activity": now,
	}).Error
	if err != nil {
		return err
	}

	return s.Notifier.Notify(tx, dispute.OwnerID, eventID, NotificationInput{
		Title:     "Dispute Resolved",
		Message:   fmt.Sprintf("The dispute regarding your item %q has been resolved.", item.Title),
		Type:      models.NotificationDisputeResolved,
		ItemID:    &item.ID,
		DisputeID: &dispute.ID,
	})
}

// ListPendingClaims returns claims awaiting a decision, oldest first so
// the queue drains fairly.
func (s *ClaimService) ListPendingClaims(filter ListFilter) ([]models.Claim, int64, error) {
	filter = filter.normalized()

	status := filter.Status
	if status == "" {
		status = models.ClaimStatusPending
	}
	query := s.DB.Model(&models.Claim{}).Where("claims.status = ?", status)
	if filter.Priority != "" {
		query = query.Where("claims.priority = ?", filter.Priority)
	}
	query = applyDateRange(query, "claims.created_at", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var claims []models.Claim
	err := applyPaging(query.Preload("Item").Preload("Claimer").Order("claims.created_at ASC"), filter).
		Find(&claims).Error
	if err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}
