package services

import (
	"encoding/json"

	"github.com/umt-lostfound/api-go/models"
	"gorm.io/gorm"
)

// AuditEntry describes one privileged transition for the audit trail.
type AuditEntry struct {
	Action       string
	ContentType  string
	ContentID    uint
	TargetUserID *uint
	Notes        string
	Metadata     interface{}
}

// recordAdminAction appends an immutable audit row inside the transition's
// transaction. A failed append aborts the whole transition: the audit trail
// must never be missing an entry for a transition that committed.
func recordAdminAction(tx *gorm.DB, adminID uint, entry AuditEntry) (*models.AdminAction, error) {
	metadata := ""
	if entry.Metadata != nil {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = string(raw)
	}

	action := models.AdminAction{
		AdminID:      adminID,
		Action:       entry.Action,
		ContentType:  entry.ContentType,
		ContentID:    entry.ContentID,
		TargetUserID: entry.TargetUserID,
		Notes:        entry.Notes,
		Metadata:     metadata,
	}
	if err := tx.Create(&action).Error; err != nil {
		return nil, err
	}
	return &action, nil
}
