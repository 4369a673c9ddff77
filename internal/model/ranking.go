package model

type GetFullRankingRequest struct{}

type GetFullRankingResponse struct {
	Trainers []RankedTrainer `json:"trainers"`
}

type GetTopTrainersRequest struct {
	Count int `json:"count"`
}

type GetTopTrainersResponse struct {
	Trainers []RankedTrainer `json:"trainers"`
}

type GetTrainerRankRequest struct {
	TrainerID string `json:"trainer_id"`
}

type GetTrainerRankResponse struct {
	Trainer RankedTrainer `json:"trainer"`
	Rank    int64         `json:"rank"`
}

type GetSimilarTrainersRequest struct {
	TrainerID string `json:"trainer_id"`
	Range     int64  `json:"range"`
}

type GetSimilarTrainersResponse struct {
	Trainers []RankedTrainer `json:"trainers"`
}

type UpdateTrainerPointsRequest struct {
	TrainerID string `json:"trainer_id"`
	Delta     int64  `json:"delta"`
}

type UpdateTrainerPointsResponse struct {
	Trainer RankedTrainer `json:"trainer"`
}

type GetMonthlyStatsRequest struct{}

type GetMonthlyStatsResponse MonthlyStats

type CalculateRankChangesRequest struct {
	OldRanking []RankedTrainer `json:"old_ranking"`
	NewRanking []RankedTrainer `json:"new_ranking"`
}

type CalculateRankChangesResponse struct {
	// Changes maps a trainer id to its old position minus its new one. Positive values mean the
	// trainer moved up.
	Changes map[string]int `json:"changes"`
}
