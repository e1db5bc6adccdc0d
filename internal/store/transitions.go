package store

import "github.com/Christian-Regnante/second-smartq/internal/models"

// Items never leave done or skipped. call_next both closes the serving
// item (complete) and promotes the oldest waiting one (call).
var transitionMap = map[string][]string{
	"call":     {models.StatusWaiting},
	"complete": {models.StatusWaiting, models.StatusServing},
	"skip":     {models.StatusWaiting, models.StatusServing},
}

// AllowedFrom lists the statuses an action may move an item out of.
func AllowedFrom(action string) []string {
	return transitionMap[action]
}

func ValidTransition(action, fromStatus string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}
