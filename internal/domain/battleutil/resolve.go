package battleutil

import (
	"context"

	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/pkg/xcontext"
)

type Contender struct {
	Trainer  *entity.Trainer
	Pokemons []entity.Pokemon
}

type Result struct {
	Winner *entity.Trainer
	Loser  *entity.Trainer

	// Strengths include the random bonus.
	Strength1 float64
	Strength2 float64
}

func (r *Result) Trainer1Won() bool {
	return r.Strength1 >= r.Strength2
}

// Resolve draws one random bonus per contender and picks the stronger one. Trainer1 wins ties.
func Resolve(ctx context.Context, random RandomSource, c1, c2 Contender) Result {
	cfg := xcontext.Configs(ctx).Battle

	result := Result{
		Strength1: TrainerStrength(ctx, c1.Pokemons) + float64(random.IntBetween(cfg.RandomMin, cfg.RandomMax)),
		Strength2: TrainerStrength(ctx, c2.Pokemons) + float64(random.IntBetween(cfg.RandomMin, cfg.RandomMax)),
	}

	if result.Trainer1Won() {
		result.Winner, result.Loser = c1.Trainer, c2.Trainer
	} else {
		result.Winner, result.Loser = c2.Trainer, c1.Trainer
	}

	return result
}
