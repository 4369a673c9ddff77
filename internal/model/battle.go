package model

import "time"

type CreateBattleRequest struct {
	Trainer1ID string `json:"trainer1_id"`
	Trainer2ID string `json:"trainer2_id"`

	// Date defaults to the current time.
	Date time.Time `json:"date"`
}

type CreateBattleResponse struct {
	Battle       Battle  `json:"battle"`
	PointsChange int64   `json:"points_change"`
	Strength1    float64 `json:"trainer1_strength"`
	Strength2    float64 `json:"trainer2_strength"`
}

type DeleteBattleRequest struct {
	ID string `json:"id"`
}

type DeleteBattleResponse struct{}

type SimulateBattleRequest struct {
	Trainer1ID string `json:"trainer1_id"`
	Trainer2ID string `json:"trainer2_id"`
}

// SimulateBattleResponse reports strengths after the random bonus, which are the values compared
// to pick the winner.
type SimulateBattleResponse struct {
	Winner       ShortTrainer `json:"winner"`
	Loser        ShortTrainer `json:"loser"`
	PointsChange int64        `json:"points_change"`
	Strength1    float64      `json:"trainer1_strength"`
	Strength2    float64      `json:"trainer2_strength"`
}

type GetBattleRequest struct {
	ID string `json:"id"`
}

type GetBattleResponse struct {
	Battle Battle `json:"battle"`
}

type GetBattlesRequest struct {
	Limit int `json:"limit"`
}

type GetBattlesResponse struct {
	Battles []Battle `json:"battles"`
}

type GetRecentBattlesRequest struct {
	// TrainerID is optional.
	TrainerID string `json:"trainer_id"`
	Limit     int    `json:"limit"`
}

type GetRecentBattlesResponse struct {
	Battles []Battle `json:"battles"`
}

const (
	BattleEventCreated = "battle.created"
	BattleEventDeleted = "battle.deleted"
)

// BattleEvent is published after a battle creation or deletion is committed.
type BattleEvent struct {
	Type         string `json:"type"`
	Battle       Battle `json:"battle"`
	PointsChange int64  `json:"points_change"`
}
