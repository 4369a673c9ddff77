package model

import (
	"encoding/json"
	"time"

	"github.com/pokeleague/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano
const DefaultDateLayout string = "2006-01-02"

// UnknownTrainerName is displayed in statistics for trainers which were deleted in the meantime.
const UnknownTrainerName = "Unknown"

func ConvertShortTrainer(trainer *entity.Trainer) ShortTrainer {
	if trainer == nil {
		return ShortTrainer{}
	}

	return ShortTrainer{ID: trainer.ID, Name: trainer.Name}
}

func ConvertTrainer(trainer *entity.Trainer) Trainer {
	if trainer == nil {
		return Trainer{}
	}

	pokemons := []Pokemon{}
	for i := range trainer.Pokemons {
		pokemons = append(pokemons, ConvertPokemon(&trainer.Pokemons[i]))
	}

	return Trainer{
		ID:        trainer.ID,
		UserID:    trainer.UserID.String,
		Name:      trainer.Name,
		Points:    trainer.Points,
		Pokemons:  pokemons,
		CreatedAt: trainer.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt: trainer.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertRankedTrainers(trainers []entity.Trainer) []RankedTrainer {
	result := []RankedTrainer{}
	for _, t := range trainers {
		result = append(result, RankedTrainer{ID: t.ID, Name: t.Name, Points: t.Points})
	}

	return result
}

func ConvertPokemon(pokemon *entity.Pokemon) Pokemon {
	if pokemon == nil {
		return Pokemon{}
	}

	stats := json.RawMessage(pokemon.Stats)
	if len(stats) == 0 {
		stats = json.RawMessage("{}")
	}

	return Pokemon{
		ID:        pokemon.ID,
		Name:      pokemon.Name,
		Type:      pokemon.Type,
		Level:     pokemon.Level,
		Stats:     stats,
		TrainerID: pokemon.TrainerID.String,
		CreatedAt: pokemon.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt: pokemon.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertPokemons(pokemons []entity.Pokemon) []Pokemon {
	result := []Pokemon{}
	for i := range pokemons {
		result = append(result, ConvertPokemon(&pokemons[i]))
	}

	return result
}

// ConvertBattle requires both participants to be loaded.
func ConvertBattle(battle *entity.Battle) Battle {
	if battle == nil {
		return Battle{}
	}

	result := Battle{
		ID:       battle.ID,
		Trainer1: ConvertShortTrainer(&battle.Trainer1),
		Trainer2: ConvertShortTrainer(&battle.Trainer2),
		Date:     battle.Date.Format(DefaultTimeLayout),
	}

	if winner := battle.WinnerTrainer(); winner != nil {
		short := ConvertShortTrainer(winner)
		result.Winner = &short
	}

	return result
}

func ConvertBattles(battles []entity.Battle) []Battle {
	result := []Battle{}
	for i := range battles {
		result = append(result, ConvertBattle(&battles[i]))
	}

	return result
}

// ConvertTrainerBattleStatistics resolves trainer names from trainers. A trainer which is not
// found is named UnknownTrainerName.
func ConvertTrainerBattleStatistics(
	statistics []entity.TrainerBattleStatistic,
	trainers map[string]entity.Trainer,
) []TrainerBattleStatistic {
	result := []TrainerBattleStatistic{}
	for _, s := range statistics {
		name := UnknownTrainerName
		if t, ok := trainers[s.TrainerID]; ok {
			name = t.Name
		}

		result = append(result, TrainerBattleStatistic{
			Trainer: ShortTrainer{ID: s.TrainerID, Name: name},
			Total:   s.Total,
		})
	}

	return result
}
