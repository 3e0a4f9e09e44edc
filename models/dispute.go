package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DisputeTypeOwnership         = "ownership_dispute"
	DisputeTypeFalseClaim        = "false_claim"
	DisputeTypeMultipleClaims    = "multiple_claims"
	DisputeTypeVerificationIssue = "verification_issue"
)

const (
	DisputeStatusInvestigating = "investigating"
	DisputeStatusPendingReview = "pending_review"
	DisputeStatusEscalated     = "escalated"
	DisputeStatusResolved      = "resolved"
	DisputeStatusClosed        = "closed"
)

const (
	PartyRoleClaimant = "claimant"
	PartyRoleWitness  = "witness"
	PartyRoleReporter = "reporter"
)

type Dispute struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	ItemID  uint `gorm:"not null;index" json:"item_id"`
	Item    Item `gorm:"foreignKey:ItemID" json:"item"`
	OwnerID uint `gorm:"not null" json:"owner_id"`
	Owner   User `gorm:"foreignKey:OwnerID" json:"owner"`

	Type     string `gorm:"not null;type:varchar(30)" json:"type"`
	Status   string `gorm:"type:varchar(20);default:'investigating';index" json:"status"`
	Priority string `gorm:"type:varchar(10);default:'medium'" json:"priority"`

	AssignedTo   *uint      `json:"assigned_to"`
	Resolution   string     `json:"resolution"`
	ResolvedBy   *uint      `json:"resolved_by"`
	ResolvedAt   *time.Time `json:"resolved_at"`
	LastActivity time.Time  `json:"last_activity"`

	Parties []DisputeParty `gorm:"foreignKey:DisputeID" json:"parties"`
}

// DisputeParty is a value record owned by the Dispute; users hold no
// back-pointer to the disputes they are involved in.
type DisputeParty struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	DisputeID uint      `gorm:"not null;uniqueIndex:idx_dispute_parties" json:"dispute_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_dispute_parties;index" json:"user_id"`
	Role      string    `gorm:"not null;type:varchar(20)" json:"role"` // claimant, witness or reporter
}

// Open reports whether the dispute still needs admin attention.
func (d *Dispute) Open() bool {
	return d.Status != DisputeStatusResolved && d.Status != DisputeStatusClosed
}
