package ranking

import "fmt"

const generationKey = "ranking:generation"

func fullRankingKey(generation int64) string {
	return fmt.Sprintf("ranking:%d:full", generation)
}

func topTrainersKey(count int) func(int64) string {
	return func(generation int64) string {
		return fmt.Sprintf("ranking:%d:top:%d", generation, count)
	}
}

func monthlyStatsKey(month string) func(int64) string {
	return func(generation int64) string {
		return fmt.Sprintf("ranking:%d:monthly:%s", generation, month)
	}
}
