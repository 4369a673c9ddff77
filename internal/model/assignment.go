package model

type AssignPokemonRequest struct {
	PokemonID string `json:"pokemon_id"`
	TrainerID string `json:"trainer_id"`
}

type AssignPokemonResponse struct {
	Pokemon Pokemon `json:"pokemon"`
}

type ReleasePokemonRequest struct {
	PokemonID string `json:"pokemon_id"`
}

type ReleasePokemonResponse struct {
	Pokemon Pokemon `json:"pokemon"`
}

type TransferPokemonRequest struct {
	PokemonID   string `json:"pokemon_id"`
	ToTrainerID string `json:"to_trainer_id"`
}

type TransferPokemonResponse struct {
	Pokemon Pokemon `json:"pokemon"`
}

type GetAvailablePokemonsRequest struct{}

type GetAvailablePokemonsResponse struct {
	Pokemons []Pokemon `json:"pokemons"`
}

type GetTrainerPokemonsRequest struct {
	TrainerID string `json:"trainer_id"`
}

type GetTrainerPokemonsResponse struct {
	Pokemons []Pokemon `json:"pokemons"`
}
