package services

import (
	"testing"

	"github.com/umt-lostfound/api-go/models"
)

func TestClaimPriorityForReward(t *testing.T) {
	tests := []struct {
		reward int
		want   string
	}{
		{0, models.ClaimPriorityLow},
		{24, models.ClaimPriorityLow},
		{25, models.ClaimPriorityMedium},
		{99, models.ClaimPriorityMedium},
		{100, models.ClaimPriorityHigh},
		{500, models.ClaimPriorityHigh},
	}
	for _, tt := range tests {
		if got := ClaimPriorityForReward(tt.reward); got != tt.want {
			t.Errorf("ClaimPriorityForReward(%d) = %q, want %q", tt.reward, got, tt.want)
		}
	}
}

func TestSubmitClaim(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)
	owner := createTestUser(t, db, "owner@umt.edu", models.RoleUser)
	claimer := createTestUser(t, db, "claimer@umt.edu", models.RoleUser)
	item := createTestItem(t, db, owner, func(i *models.Item) {
		i.Reward = 120
	})

	claim, err := svc.SubmitClaim(item.ID, claimer.ID, "That is my backpack, it has my initials inside.", []string{"https://img.example/receipt.jpg"})
	if err != nil {
		t.Fatalf("SubmitClaim: %v", err)
	}

	if claim.Status != models.ClaimStatusPending {
		t.Errorf("status = %q, want pending", claim.Status)
	}
	if claim.Priority != models.ClaimPriorityHigh {
		t.Errorf("priority = %q, want high for reward 120", claim.Priority)
	}
	if got := countNotifications(t, db, owner.ID, models.NotificationItemClaimed); got != 1 {
		t.Errorf("owner claim notifications = %d, want 1", got)
	}

	// A single claim never opens a dispute.
	var disputes int64
	db.Model(&models.Dispute{}).Count(&disputes)
	if disputes != 0 {
		t.Errorf("one claim opened %d disputes", disputes)
	}
}

func TestSubmitClaimErrors(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)
	owner := createTestUser(t, db, "owner@umt.edu", models.RoleUser)
	claimer := createTestUser(t, db, "claimer@umt.edu", models.RoleUser)
	item := createTestItem(t, db, owner, nil)
	archived := createTestItem(t, db, owner, func(i *models.Item) {
		i.Title = "Old archived item"
		i.Status = models.ItemStatusArchived
	})

	if _, err := svc.SubmitClaim(item.ID, claimer.ID, "short", nil); KindOf(err) != KindValidation {
		t.Errorf("short message: kind = %q, want validation (err: %v)", KindOf(err), err)
	}
	if _, err := svc.SubmitClaim(99999, claimer.ID, "long enough message here", nil); KindOf(err) != KindNotFound {
		t.Errorf("missing item: kind = %q, want not_found", KindOf(err))
	}
	if _, err := svc.SubmitClaim(item.ID, owner.ID, "this one is actually mine", nil); KindOf(err) != KindForbidden {
		t.Errorf("own item: kind = %q, want forbidden", KindOf(err))
	}
	if _, err := svc.SubmitClaim(archived.ID, claimer.ID, "claiming an archived item", nil); KindOf(err) != KindInvalidState {
		t.Errorf("archived item: kind = %q, want invalid_state", KindOf(err))
	}

	if _, err := svc.SubmitClaim(item.ID, claimer.ID, "first claim on this item", nil); err != nil {
		t.Fatalf("SubmitClaim: %v", err)
	}
	if _, err := svc.SubmitClaim(item.ID, claimer.ID, "second claim by same user", nil); KindOf(err) != KindConflict {
		t.Errorf("duplicate claim: kind = %q, want conflict", KindOf(err))
	}
}

func TestSecondClaimOpensDispute(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)
	owner := createTestUser(t, db, "owner@umt.edu", models.RoleUser)
	first := createTestUser(t, db, "first@umt.edu", models.RoleUser)
	second := createTestUser(t, db, "second@umt.edu", models.RoleUser)
	third := createTestUser(t, db, "third@umt.edu", models.RoleUser)
	item := createTestItem(t, db, owner, func(i *models.Item) {
		i.Reward = 50
	})

	if _, err := svc.SubmitClaim(item.ID, first.ID, "I lost this exact backpack last week.", nil); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, err := svc.SubmitClaim(item.ID, second.ID, "No, that backpack belongs to me.", nil); err != nil {
		t.Fatalf("second claim: %v", err)
	}

	var dispute models.Dispute
	if err := db.Preload("Parties").First(&dispute).Error; err != nil {
		t.Fatalf("no dispute opened: %v", err)
	}
	if dispute.Type != models.DisputeTypeMultipleClaims {
		t.Errorf("dispute type = %q, want multiple_claims", dispute.Type)
	}
	if dispute.Status != models.DisputeStatusInvestigating {
		t.Errorf("dispute status = %q, want investigating", dispute.Status)
	}
	if dispute.ItemID != item.ID || dispute.OwnerID != owner.ID {
		t.Errorf("dispute references item %d owner %d", dispute.ItemID, dispute.OwnerID)
	}
	if len(dispute.Parties) != 2 {
		t.Fatalf("dispute has %d parties, want 2", len(dispute.Parties))
	}
	for _, party := range dispute.Parties {
		if party.Role != models.PartyRoleClaimant {
			t.Errorf("party role = %q, want claimant", party.Role)
		}
	}
	// The dispute notification must survive next to the claim notification
	// from the same submission; both target the owner.
	if got := countNotifications(t, db, owner.ID, models.NotificationDisputeOpened); got != 1 {
		t.Errorf("owner dispute notifications = %d, want 1", got)
	}
	if got := countNotifications(t, db, owner.ID, models.NotificationItemClaimed); got != 2 {
		t.Errorf("owner claim notifications = %d, want 2", got)
	}

	// A third claim joins the existing dispute instead of opening another.
	if _, err := svc.SubmitClaim(item.ID, third.ID, "I can describe everything inside it.", nil); err != nil {
		t.Fatalf("third claim: %v", err)
	}
	var disputes int64
	db.Model(&models.Dispute{}).Count(&disputes)
	if disputes != 1 {
		t.Errorf("three claims produced %d disputes, want 1", disputes)
	}
}

func TestResolveClaimApproveCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)
	owner := createTestUser(t, db, "owner@umt.edu", models.RoleUser)
	winner := createTestUser(t, db, "winner@umt.edu", models.RoleUser)
	loserA := createTestUser(t, db, "losera@umt.edu", models.RoleUser)
	loserB := createTestUser(t, db, "loserb@umt.edu", models.RoleUser)
	item := createTestItem(t, db, owner, nil)

	winning, err := svc.SubmitClaim(item.ID, winner.ID, "It has my name written on the inner pocket.", nil)
	if err != nil {
		t.Fatalf("winning claim: %v", err)
	}
	if _, err := svc.SubmitClaim(item.ID, loserA.ID, "I am quite sure this backpack is mine.", nil); err != nil {
		t.Fatalf("loserA claim: %v", err)
	}
	if _, err := svc.SubmitClaim(item.ID, loserB.ID, "Pretty certain that is my backpack too.", nil); err != nil {
		t.Fatalf("loserB claim: %v", err)
	}

	result, err := svc.ResolveClaim(winning.ID, models.ClaimStatusApproved, owner.ID, "verified description")
	if err != nil {
		t.Fatalf("ResolveClaim: %v", err)
	}

	if result.Claim.Status != models.ClaimStatusApproved {
		t.Errorf("claim status = %q, want approved", result.Claim.Status)
	}
	if len(result.AutoRejected) != 2 {
		t.Errorf("auto-rejected %d claims, want 2", len(result.AutoRejected))
	}

	var item2 models.Item
	db.First(&item2, item.ID)
	if item2.Status != models.ItemStatusClaimed {
		t.Errorf("item status = %q, want claimed", item2.Status)
	}

	var approved, rejected int64
	db.Model(&models.Claim{}).Where("item_id = ? AND status = ?", item.ID, models.ClaimStatusApproved).Count(&approved)
	db.Model(&models.Claim{}).Where("item_id = ? AND status = ?", item.ID, models.ClaimStatusRejected).Count(&rejected)
	if approved != 1 || rejected != 2 {
		t.Errorf("claims approved/rejected = %d/%d, want 1/2", approved, rejected)
	}

	if got := countNotifications(t, db, winner.ID, models.NotificationClaimApproved); got != 1 {
		t.Errorf("winner notifications = %d, want 1", got)
	}
	for _, loser := range []models.User{loserA, loserB} {
		if got := countNotifications(t, db, loser.ID, models.NotificationClaimSuperseded); got != 1 {
			t.Errorf("loser %d superseded notifications = %d, want 1", loser.ID, got)
		}
	}

	// The multiple_claims dispute opened by the competing claims is
	// resolved, not closed.
	var dispute models.Dispute
	if err := db.First(&dispute).Error; err != nil {
		t.Fatalf("loading dispute: %v", err)
	}
	if dispute.Status != models.DisputeStatusResolved {
		t.Errorf("dispute status = %q, want resolved", dispute.Status)
	}
	if dispute.ResolvedBy == nil || *dispute.ResolvedBy != owner.ID {
		t.Error("dispute resolved_by not set")
	}

	action := lastAdminAction(t, db)
	if action.Action != "claim_approved" {
		t.Errorf("audit action = %q, want claim_approved", action.Action)
	}
}

func TestResolveClaimReject(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)
	owner := createTestUser(t, db, "owner@umt.edu", models.RoleUser)
	claimer := createTestUser(t, db, "claimer@umt.edu", models.RoleUser)
	item := createTestItem(t, db, owner, nil)

	claim, err := svc.SubmitClaim(item.ID, claimer.ID, "That looks a lot like my backpack.", nil)
	if err != nil {
		t.Fatalf("SubmitClaim: %v", err)
	}

	result, err := svc.ResolveClaim(claim.ID, models.ClaimStatusRejected, owner.ID, "description did not match")
	if err != nil {
		t.Fatalf("ResolveClaim: %v", err)
	}
	if result.Claim.Status != models.ClaimStatusRejected {
		t.Errorf("claim status = %q, want rejected", result.Claim.Status)
	}

	var item2 models.Item
	db.First(&item2, item.ID)
	if item2.Status != models.ItemStatusActive {
		t.Errorf("item status = %q, want active after rejection", item2.Status)
	}
	if got := countNotifications(t, db, claimer.ID, models.NotificationClaimRejected); got != 1 {
		t.Errorf("claimer rejection notifications = %d, want 1", got)
	}
}

func TestResolveClaimErrors(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)
	owner := createTestUser(t, db, "owner@umt.edu", models.RoleUser)
	claimer := createTestUser(t, db, "claimer@umt.edu", models.RoleUser)
	bystander := createTestUser(t, db, "bystander@umt.edu", models.RoleUser)
	admin := createTestUser(t, db, "admin@umt.edu", models.RoleAdmin)
	item := createTestItem(t, db, owner, nil)

	claim, err := svc.SubmitClaim(item.ID, claimer.ID, "It is mine, I can prove it easily.", nil)
	if err != nil {
		t.Fatalf("SubmitClaim: %v", err)
	}

	if _, err := svc.ResolveClaim(claim.ID, "maybe", owner.ID, ""); KindOf(err) != KindValidation {
		t.Errorf("bad decision: kind = %q, want validation", KindOf(err))
	}
	if _, err := svc.ResolveClaim(99999, models.ClaimStatusApproved, owner.ID, ""); KindOf(err) != KindNotFound {
		t.Errorf("missing claim: kind = %q, want not_found", KindOf(err))
	}
	if _, err := svc.ResolveClaim(claim.ID, models.ClaimStatusApproved, bystander.ID, ""); KindOf(err) != KindForbidden {
		t.Errorf("bystander actor: kind = %q, want forbidden", KindOf(err))
	}

	// Admins may resolve claims on items they do not own.
	if _, err := svc.ResolveClaim(claim.ID, models.ClaimStatusRejected, admin.ID, "could not verify"); err != nil {
		t.Fatalf("admin resolve: %v", err)
	}
	// And a decided claim never moves again.
	if _, err := svc.ResolveClaim(claim.ID, models.ClaimStatusApproved, owner.ID, ""); KindOf(err) != KindInvalidState {
		t.Errorf("re-resolve: kind = %q, want invalid_state", KindOf(err))
	}
}

func TestResolveClaimSerializesOnItemStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)
	owner := createTestUser(t, db, "owner@umt.edu", models.RoleUser)
	first := createTestUser(t, db, "first@umt.edu", models.RoleUser)
	second := createTestUser(t, db, "second@umt.edu", models.RoleUser)
	item := createTestItem(t, db, owner, nil)

	claimA, err := svc.SubmitClaim(item.ID, first.ID, "I am the original owner of this.", nil)
	if err != nil {
		t.Fatalf("claimA: %v", err)
	}
	claimB, err := svc.SubmitClaim(item.ID, second.ID, "This item clearly belongs to me.", nil)
	if err != nil {
		t.Fatalf("claimB: %v", err)
	}

	// Simulate the race: claim B is still pending while another approval
	// already moved the item out of active.
	if err := db.Model(&models.Claim{}).Where("id = ?", claimB.ID).
		Update("status", models.ClaimStatusPending).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ResolveClaim(claimA.ID, models.ClaimStatusApproved, owner.ID, ""); err != nil {
		t.Fatalf("approve A: %v", err)
	}
	if err := db.Model(&models.Claim{}).Where("id = ?", claimB.ID).
		Update("status", models.ClaimStatusPending).Error; err != nil {
		t.Fatal(err)
	}

	_, err = svc.ResolveClaim(claimB.ID, models.ClaimStatusApproved, owner.ID, "")
	if KindOf(err) != KindInvalidState {
		t.Errorf("second approval: kind = %q, want invalid_state (err: %v)", KindOf(err), err)
	}
}

func TestListPendingClaims(t *testing.T) {
	db := newTestDB(t)
	svc := NewClaimService(db)
	owner := createTestUser(t, db, "owner@umt.edu", models.RoleUser)
	claimer := createTestUser(t, db, "claimer@umt.edu", models.RoleUser)
	other := createTestUser(t, db, "other@umt.edu", models.RoleUser)
	cheap := createTestItem(t, db, owner, nil)
	pricey := createTestItem(t, db, owner, func(i *models.Item) {
		i.Title = "Lost laptop"
		i.Reward = 200
	})

	if _, err := svc.SubmitClaim(cheap.ID, claimer.ID, "That bag belongs to me for sure.", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitClaim(pricey.ID, other.ID, "That laptop is mine, serial matches.", nil); err != nil {
		t.Fatal(err)
	}

	claims, total, err := svc.ListPendingClaims(ListFilter{})
	if err != nil {
		t.Fatalf("ListPendingClaims: %v", err)
	}
	if total != 2 || len(claims) != 2 {
		t.Fatalf("total = %d, len = %d, want 2/2", total, len(claims))
	}

	claims, total, err = svc.ListPendingClaims(ListFilter{Priority: models.ClaimPriorityHigh})
	if err != nil {
		t.Fatalf("ListPendingClaims: %v", err)
	}
	if total != 1 || claims[0].ItemID != pricey.ID {
		t.Errorf("priority filter: total = %d", total)
	}

	claims, _, err = svc.ListPendingClaims(ListFilter{PerPage: 1})
	if err != nil {
		t.Fatalf("ListPendingClaims: %v", err)
	}
	if len(claims) != 1 {
		t.Errorf("per_page=1 returned %d claims", len(claims))
	}
}
