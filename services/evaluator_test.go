package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/umt-lostfound/api-go/models"
)

func TestEvaluateNewItem(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	policy := DefaultFlagPolicy()

	tests := []struct {
		name       string
		draft      ItemDraft
		history    []Submission
		wantFlag   bool
		wantReason string
		wantStatus string
	}{
		{
			name:       "high value electronics with large reward",
			draft:      ItemDraft{Type: models.ItemTypeFound, Title: "Found iPhone 14 Pro", Reward: 150},
			wantFlag:   true,
			wantReason: FlagReasonHighValueElectronics,
			wantStatus: models.ModerationFlagged,
		},
		{
			name:       "reward at threshold is not flagged",
			draft:      ItemDraft{Type: models.ItemTypeFound, Title: "Found iPhone 14 Pro", Reward: 100},
			wantFlag:   false,
			wantStatus: models.ModerationPending,
		},
		{
			name:       "lost electronics are not the electronics rule's business",
			draft:      ItemDraft{Type: models.ItemTypeLost, Title: "Lost MacBook Air", Reward: 200},
			wantFlag:   false,
			wantStatus: models.ModerationPending,
		},
		{
			name:       "electronics keyword matching is case insensitive",
			draft:      ItemDraft{Type: models.ItemTypeFound, Title: "found AIRPODS pro case", Reward: 120},
			wantFlag:   true,
			wantReason: FlagReasonHighValueElectronics,
			wantStatus: models.ModerationFlagged,
		},
		{
			name:  "third high value item in ten minutes",
			draft: ItemDraft{Type: models.ItemTypeLost, Title: "Lost wallet", Reward: 60},
			history: []Submission{
				{Reward: 60, CreatedAt: now.Add(-10 * time.Minute)},
				{Reward: 60, CreatedAt: now.Add(-5 * time.Minute)},
			},
			wantFlag:   true,
			wantReason: FlagReasonRepeatHighValue,
			wantStatus: models.ModerationFlagged,
		},
		{
			name:  "low reward item after a burst is not flagged",
			draft: ItemDraft{Type: models.ItemTypeLost, Title: "Lost umbrella", Reward: 10},
			history: []Submission{
				{Reward: 60, CreatedAt: now.Add(-10 * time.Minute)},
				{Reward: 60, CreatedAt: now.Add(-5 * time.Minute)},
				{Reward: 60, CreatedAt: now.Add(-2 * time.Minute)},
			},
			wantFlag:   false,
			wantStatus: models.ModerationPending,
		},
		{
			name:  "history outside the window does not count",
			draft: ItemDraft{Type: models.ItemTypeLost, Title: "Lost wallet", Reward: 60},
			history: []Submission{
				{Reward: 60, CreatedAt: now.Add(-25 * time.Hour)},
				{Reward: 60, CreatedAt: now.Add(-26 * time.Hour)},
			},
			wantFlag:   false,
			wantStatus: models.ModerationPending,
		},
		{
			name:  "both rules push the item to under_review",
			draft: ItemDraft{Type: models.ItemTypeFound, Title: "Found Samsung Galaxy S24", Reward: 150},
			history: []Submission{
				{Reward: 80, CreatedAt: now.Add(-1 * time.Hour)},
				{Reward: 90, CreatedAt: now.Add(-2 * time.Hour)},
			},
			wantFlag:   true,
			wantReason: FlagReasonHighValueElectronics,
			wantStatus: models.ModerationUnderReview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateNewItem(tt.draft, tt.history, now, policy)
			if got.Flagged != tt.wantFlag {
				t.Errorf("Flagged = %v, want %v", got.Flagged, tt.wantFlag)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.ModerationStatus != tt.wantStatus {
				t.Errorf("ModerationStatus = %q, want %q", got.ModerationStatus, tt.wantStatus)
			}
		})
	}
}

// Whatever the inputs, a flagged decision must land in a reviewable
// moderation state and an unflagged one must stay pending without a reason.
func TestEvaluateNewItemInvariant(t *testing.T) {
	now := time.Now()
	policy := DefaultFlagPolicy()
	rng := rand.New(rand.NewSource(42))

	types := []string{models.ItemTypeLost, models.ItemTypeFound}
	titles := []string{
		"Found iPhone 14 Pro", "Lost blue scarf", "Found MacBook charger",
		"Lost student ID card", "Found Samsung tablet", "Lost keys with red keychain",
	}

	for i := 0; i < 500; i++ {
		draft := ItemDraft{
			Type:   types[rng.Intn(len(types))],
			Title:  titles[rng.Intn(len(titles))],
			Reward: rng.Intn(300),
		}
		var history []Submission
		for j := rng.Intn(5); j > 0; j-- {
			history = append(history, Submission{
				Reward:    rng.Intn(200),
				CreatedAt: now.Add(-time.Duration(rng.Intn(48)) * time.Hour),
			})
		}

		got := EvaluateNewItem(draft, history, now, policy)
		if got.Flagged {
			if got.ModerationStatus != models.ModerationFlagged && got.ModerationStatus != models.ModerationUnderReview {
				t.Fatalf("flagged item has moderation status %q", got.ModerationStatus)
			}
			if got.Reason == "" {
				t.Fatal("flagged item carries no reason")
			}
		} else {
			if got.ModerationStatus != models.ModerationPending {
				t.Fatalf("unflagged item has moderation status %q", got.ModerationStatus)
			}
			if got.Reason != "" {
				t.Fatalf("unflagged item carries reason %q", got.Reason)
			}
		}
	}
}
