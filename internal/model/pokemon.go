package model

import "encoding/json"

type CreatePokemonRequest struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Level int             `json:"level"`
	Stats json.RawMessage `json:"stats"`

	// TrainerID creates the pokemon already owned by this trainer. It is optional.
	TrainerID string `json:"trainer_id"`
}

type CreatePokemonResponse struct {
	Pokemon Pokemon `json:"pokemon"`
}

type GetPokemonRequest struct {
	ID string `json:"id"`
}

type GetPokemonResponse struct {
	Pokemon  Pokemon `json:"pokemon"`
	Strength float64 `json:"strength"`
}

type GetPokemonsRequest struct{}

type GetPokemonsResponse struct {
	Pokemons []Pokemon `json:"pokemons"`
}

type UpdatePokemonRequest struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Level int             `json:"level"`
	Stats json.RawMessage `json:"stats"`
}

type UpdatePokemonResponse struct {
	Pokemon Pokemon `json:"pokemon"`
}

type DeletePokemonRequest struct {
	ID string `json:"id"`
}

type DeletePokemonResponse struct{}
