package model

import "encoding/json"

type Trainer struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Points    int64     `json:"points"`
	Pokemons  []Pokemon `json:"pokemons,omitempty"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

type ShortTrainer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RankedTrainer is the shape of a trainer inside cached ranking views.
type RankedTrainer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int64  `json:"points"`
}

type Pokemon struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Level     int             `json:"level"`
	Stats     json.RawMessage `json:"stats"`
	TrainerID string          `json:"trainer_id,omitempty"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type Battle struct {
	ID       string        `json:"id"`
	Trainer1 ShortTrainer  `json:"trainer1"`
	Trainer2 ShortTrainer  `json:"trainer2"`
	Winner   *ShortTrainer `json:"winner"`
	Date     string        `json:"date"`
}

type TrainerBattleStatistic struct {
	Trainer ShortTrainer `json:"trainer"`
	Total   int64        `json:"total"`
}

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type MonthlyStats struct {
	Period     Period                   `json:"period"`
	MostActive []TrainerBattleStatistic `json:"most_active"`
	MostWins   []TrainerBattleStatistic `json:"most_wins"`
}
