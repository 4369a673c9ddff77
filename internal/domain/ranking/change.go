package ranking

import "github.com/pokeleague/backend/internal/model"

// CalculateRankChanges compares two orderings of trainers. For each trainer present in both, it
// returns the old position minus the new one, so a positive value means the trainer moved up.
func CalculateRankChanges(oldRanking, newRanking []model.RankedTrainer) map[string]int {
	oldPositions := make(map[string]int, len(oldRanking))
	for i, t := range oldRanking {
		oldPositions[t.ID] = i + 1
	}

	changes := map[string]int{}
	for i, t := range newRanking {
		if oldPosition, ok := oldPositions[t.ID]; ok {
			changes[t.ID] = oldPosition - (i + 1)
		}
	}

	return changes
}
