package domain

import (
	"context"
	"errors"

	"github.com/pokeleague/backend/internal/common"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/internal/repository"
	"github.com/pokeleague/backend/pkg/errorx"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/gorm"
)

func getTrainer(ctx context.Context, trainerRepo repository.TrainerRepository, id string) (*entity.Trainer, error) {
	if id == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty trainer id")
	}

	trainer, err := trainerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found trainer").WithSubject(id)
		}

		xcontext.Logger(ctx).Errorf("Cannot get trainer %s: %v", id, err)
		return nil, errorx.Unknown
	}

	return trainer, nil
}

func getPokemon(ctx context.Context, pokemonRepo repository.PokemonRepository, id string) (*entity.Pokemon, error) {
	if id == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty pokemon id")
	}

	pokemon, err := pokemonRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pokemon").WithSubject(id)
		}

		xcontext.Logger(ctx).Errorf("Cannot get pokemon %s: %v", id, err)
		return nil, errorx.Unknown
	}

	return pokemon, nil
}

// checkCapacity fails with TrainerAtCapacity if the trainer cannot own one more pokemon.
func checkCapacity(
	ctx context.Context, pokemonRepo repository.PokemonRepository, trainer *entity.Trainer,
) error {
	pokemons, err := pokemonRepo.GetByTrainerID(ctx, trainer.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pokemons of trainer %s: %v", trainer.ID, err)
		return errorx.Unknown
	}

	trainer.Pokemons = pokemons
	maxPokemons := xcontext.Configs(ctx).Trainer.MaxPokemons
	if !trainer.CanAddMorePokemons(maxPokemons) {
		return errorx.New(errorx.TrainerAtCapacity,
			"Trainer already has the maximum of %d pokemons", maxPokemons).WithSubject(trainer.ID)
	}

	return nil
}

func verifyError(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrUnauthenticated) {
		return errorx.New(errorx.Unauthenticated, "Need to login")
	}

	xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
	return errorx.New(errorx.PermissionDenied, "Permission denied")
}

func commitError(ctx context.Context, err error) error {
	xcontext.Logger(ctx).Errorf("Cannot commit the transaction: %v", err)
	return errorx.Unknown
}

// wrapInfraError keeps caller-correctable errors as they are and wraps anything else into code.
func wrapInfraError(err error, code errorx.Code, action string) error {
	var domainErr errorx.Error
	if errors.As(err, &domainErr) && domainErr.Code != errorx.Unknown.Code {
		return err
	}

	return errorx.Wrap(err, code, "Failed to %s: %v", action, err)
}
