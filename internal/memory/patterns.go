package memory

import (
	"sort"

	"github.com/wwexlabs/freightagent/internal/models"
)

// maxCommonActions caps how many action frequencies a pattern summary carries.
const maxCommonActions = 5

// MinePatterns computes success patterns from a set of episodes sharing an
// intent: overall success rate, the actions most common in successful
// episodes, and the average resolution time of successful episodes.
func MinePatterns(intent models.Intent, episodes []models.Episode) *models.SuccessPatterns {
	patterns := &models.SuccessPatterns{
		Intent:        intent,
		TotalEpisodes: len(episodes),
	}
	if len(episodes) == 0 {
		return patterns
	}

	actionCounts := make(map[models.Action]int)
	successes := 0
	var totalMinutes float64

	for _, ep := range episodes {
		if !ep.Successful {
			continue
		}
		successes++
		totalMinutes += ep.ResolutionMinutes
		for _, a := range ep.ActionsTaken {
			actionCounts[a]++
		}
	}

	patterns.SuccessRate = float64(successes) / float64(len(episodes))
	if successes > 0 {
		patterns.AvgResolutionMinutes = totalMinutes / float64(successes)
	}

	for action, count := range actionCounts {
		patterns.CommonActions = append(patterns.CommonActions, models.ActionCount{
			Action: action,
			Count:  count,
		})
	}
	sort.Slice(patterns.CommonActions, func(i, j int) bool {
		if patterns.CommonActions[i].Count != patterns.CommonActions[j].Count {
			return patterns.CommonActions[i].Count > patterns.CommonActions[j].Count
		}
		return patterns.CommonActions[i].Action < patterns.CommonActions[j].Action
	})
	if len(patterns.CommonActions) > maxCommonActions {
		patterns.CommonActions = patterns.CommonActions[:maxCommonActions]
	}

	return patterns
}

// SuggestActions returns the actions most likely to resolve an intent, from
// mined patterns when available, falling back to intent defaults.
func SuggestActions(intent models.Intent, patterns *models.SuccessPatterns) []models.Action {
	if patterns != nil && len(patterns.CommonActions) > 0 {
		actions := make([]models.Action, 0, len(patterns.CommonActions))
		for _, ac := range patterns.CommonActions {
			actions = append(actions, ac.Action)
		}
		return actions
	}

	switch intent {
	case models.IntentTrackShipment:
		return []models.Action{models.ActionSearchByPro, models.ActionProvideStatus}
	case models.IntentShipmentDelay, models.IntentMissingShipment:
		return []models.Action{models.ActionSearchByPro, models.ActionContactCarrier}
	case models.IntentProvideFeedback:
		return []models.Action{models.ActionEscalate}
	default:
		return []models.Action{models.ActionProvideStatus}
	}
}
