package services

import (
	"testing"

	"github.com/umt-lostfound/api-go/models"
)

func TestNotifyIsIdempotentPerEventAndRecipient(t *testing.T) {
	db := newTestDB(t)
	notifier := &Notifier{}
	alice := createTestUser(t, db, "alice@umt.edu", models.RoleUser)
	bob := createTestUser(t, db, "bob@umt.edu", models.RoleUser)

	in := NotificationInput{
		Title:   "Item Approved",
		Message: "Your item has been approved.",
		Type:    models.NotificationItemApproved,
	}

	// A retried transition replays the same event id.
	for i := 0; i < 3; i++ {
		if err := notifier.Notify(db, alice.ID, "event-1", in); err != nil {
			t.Fatalf("Notify attempt %d: %v", i, err)
		}
	}
	var count int64
	db.Model(&models.Notification{}).Where("recipient_id = ?", alice.ID).Count(&count)
	if count != 1 {
		t.Errorf("replayed event produced %d notifications, want 1", count)
	}

	// Same event, different recipient is a distinct delivery.
	if err := notifier.Notify(db, bob.ID, "event-1", in); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	db.Model(&models.Notification{}).Where("event_id = ?", "event-1").Count(&count)
	if count != 2 {
		t.Errorf("event-1 has %d rows across recipients, want 2", count)
	}

	// Same recipient, new event is a distinct delivery too.
	if err := notifier.Notify(db, alice.ID, "event-2", in); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	db.Model(&models.Notification{}).Where("recipient_id = ?", alice.ID).Count(&count)
	if count != 2 {
		t.Errorf("alice has %d notifications, want 2", count)
	}
}

func TestNotifyDefaultsPriority(t *testing.T) {
	db := newTestDB(t)
	notifier := &Notifier{}
	alice := createTestUser(t, db, "alice@umt.edu", models.RoleUser)

	err := notifier.Notify(db, alice.ID, "event-3", NotificationInput{
		Title:   "Heads up",
		Message: "Something happened.",
		Type:    models.NotificationItemApproved,
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	var notification models.Notification
	if err := db.Where("event_id = ?", "event-3").First(&notification).Error; err != nil {
		t.Fatalf("loading notification: %v", err)
	}
	if notification.Priority != models.UrgencyMedium {
		t.Errorf("priority = %q, want medium default", notification.Priority)
	}
}
