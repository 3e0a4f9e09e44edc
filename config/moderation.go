package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/umt-lostfound/api-go/services"
)

// GetFlagPolicy builds the auto-flag policy from the environment, falling
// back to the defaults for anything unset.
func GetFlagPolicy() services.FlagPolicy {
	policy := services.DefaultFlagPolicy()

	if v := envInt("FLAG_HIGH_REWARD_THRESHOLD"); v > 0 {
		policy.HighRewardThreshold = v
	}
	if v := envInt("FLAG_REPEAT_REWARD_THRESHOLD"); v > 0 {
		policy.RepeatRewardThreshold = v
	}
	if v := envInt("FLAG_REPEAT_COUNT"); v > 0 {
		policy.RepeatCount = v
	}
	if v := envInt("FLAG_REPEAT_WINDOW_HOURS"); v > 0 {
		policy.RepeatWindow = time.Duration(v) * time.Hour
	}
	if raw := os.Getenv("FLAG_ELECTRONICS_KEYWORDS"); raw != "" {
		var keywords []string
		for _, kw := range strings.Split(raw, ",") {
			kw = strings.TrimSpace(strings.ToLower(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) > 0 {
			policy.ElectronicsKeywords = keywords
		}
	}

	return policy
}

func envInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
