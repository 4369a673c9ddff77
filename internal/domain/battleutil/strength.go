package battleutil

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mitchellh/mapstructure"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/datatypes"
)

var ErrInvalidStats = errors.New("stats must be a json object")

// StatsSum adds up every stat value which can be read as a number. Numeric strings and booleans
// are accepted, other values are ignored.
func StatsSum(raw datatypes.JSON) (float64, error) {
	if len(raw) == 0 {
		return 0, nil
	}

	// Stats stored as a JSON string holding the object are decoded once more.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = datatypes.JSON(encoded)
	}

	var stats map[string]any
	if err := json.Unmarshal(raw, &stats); err != nil {
		return 0, errors.Join(ErrInvalidStats, err)
	}

	if stats == nil {
		return 0, ErrInvalidStats
	}

	sum := 0.0
	for _, v := range stats {
		var f float64
		if err := mapstructure.WeakDecode(v, &f); err != nil {
			continue
		}

		sum += f
	}

	return sum, nil
}

// PokemonStrength returns sum(stats) * level / 10. A pokemon whose stats cannot be read has no
// strength.
func PokemonStrength(ctx context.Context, pokemon *entity.Pokemon) float64 {
	sum, err := StatsSum(pokemon.Stats)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot read stats of pokemon %s: %v", pokemon.ID, err)
		return 0
	}

	return sum * float64(pokemon.Level) / 10
}

func TrainerStrength(ctx context.Context, pokemons []entity.Pokemon) float64 {
	strength := 0.0
	for i := range pokemons {
		strength += PokemonStrength(ctx, &pokemons[i])
	}

	return strength
}
