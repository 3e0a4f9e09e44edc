package services

import (
	"strings"
	"time"

	"github.com/umt-lostfound/api-go/models"
)

const (
	FlagReasonHighValueElectronics = "high-value electronics with large reward"
	FlagReasonRepeatHighValue      = "multiple high-value items in short timeframe"
)

// FlagPolicy holds the tunable knobs of the auto-flag rules.
type FlagPolicy struct {
	// HighRewardThreshold is the reward above which a found electronics
	// item is flagged.
	HighRewardThreshold int
	// RepeatRewardThreshold is the reward above which a submission counts
	// towards the repeat-submission rule.
	RepeatRewardThreshold int
	// RepeatCount is how many qualifying submissions (including the new
	// one) trip the repeat rule.
	RepeatCount int
	// RepeatWindow is the trailing window the repeat rule looks at.
	RepeatWindow time.Duration
	// ElectronicsKeywords are matched case-insensitively against the title.
	ElectronicsKeywords []string
}

func DefaultFlagPolicy() FlagPolicy {
	return FlagPolicy{
		HighRewardThreshold:   100,
		RepeatRewardThreshold: 50,
		RepeatCount:           3,
		RepeatWindow:          24 * time.Hour,
		ElectronicsKeywords: []string{
			"iphone", "ipad", "macbook", "airpods", "laptop", "samsung",
			"galaxy", "pixel", "camera", "drone", "kindle", "smartwatch",
			"headphones", "earbuds", "playstation", "nintendo", "xbox",
		},
	}
}

// ItemDraft is the subset of a new item the evaluator inspects.
type ItemDraft struct {
	Type   string
	Title  string
	Reward int
}

// Submission is one entry of the submitting user's recent posting history.
type Submission struct {
	Reward    int
	CreatedAt time.Time
}

// FlagDecision is the evaluator's verdict. It only describes fields to set
// on the new item; the evaluator itself has no side effects.
type FlagDecision struct {
	Flagged          bool
	Reason           string
	ModerationStatus string
}

// EvaluateNewItem runs the auto-flag rules against a newly submitted item.
// Rules apply in order and the first match supplies the reason; when both
// rules match the item additionally goes to under_review instead of
// flagged. The function is pure: it emits no notifications and writes no
// audit entries, since it runs at creation time before any admin is
// involved.
func EvaluateNewItem(draft ItemDraft, history []Submission, now time.Time, policy FlagPolicy) FlagDecision {
	highValueElectronics := draft.Type == models.ItemTypeFound &&
		draft.Reward > policy.HighRewardThreshold &&
		matchesKeyword(draft.Title, policy.ElectronicsKeywords)

	repeatOffender := false
	if draft.Reward > policy.RepeatRewardThreshold {
		qualifying := 1 // the new submission itself
		cutoff := now.Add(-policy.RepeatWindow)
		for _, s := range history {
			if s.Reward > policy.RepeatRewardThreshold && s.CreatedAt.After(cutoff) {
				qualifying++
			}
		}
		repeatOffender = qualifying >= policy.RepeatCount
	}

	switch {
	case highValueElectronics && repeatOffender:
		return FlagDecision{Flagged: true, Reason: FlagReasonHighValueElectronics, ModerationStatus: models.ModerationUnderReview}
	case highValueElectronics:
		return FlagDecision{Flagged: true, Reason: FlagReasonHighValueElectronics, ModerationStatus: models.ModerationFlagged}
	case repeatOffender:
		return FlagDecision{Flagged: true, Reason: FlagReasonRepeatHighValue, ModerationStatus: models.ModerationFlagged}
	default:
		return FlagDecision{ModerationStatus: models.ModerationPending}
	}
}

func matchesKeyword(title string, keywords []string) bool {
	lowered := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
