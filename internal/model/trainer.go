package model

type CreateTrainerRequest struct {
	Name   string `json:"name"`
	Points int64  `json:"points"`
}

type CreateTrainerResponse struct {
	Trainer Trainer `json:"trainer"`
}

type RegisterTrainerRequest struct {
	Name string `json:"name"`
}

type RegisterTrainerResponse struct {
	Trainer Trainer `json:"trainer"`
}

type GetTrainerRequest struct {
	ID string `json:"id"`
}

type GetTrainerResponse struct {
	Trainer Trainer `json:"trainer"`
	Rank    int64   `json:"rank"`
}

type GetTrainersRequest struct{}

type GetTrainersResponse struct {
	Trainers []Trainer `json:"trainers"`
}

type UpdateTrainerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UpdateTrainerResponse struct {
	Trainer Trainer `json:"trainer"`
}

type DeleteTrainerRequest struct {
	ID string `json:"id"`
}

type DeleteTrainerResponse struct{}
