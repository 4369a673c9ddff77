package domain

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pokeleague/backend/internal/common"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/internal/model"
	"github.com/pokeleague/backend/internal/repository"
	"github.com/pokeleague/backend/pkg/errorx"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AssignmentDomain interface {
	Assign(context.Context, *model.AssignPokemonRequest) (*model.AssignPokemonResponse, error)
	Release(context.Context, *model.ReleasePokemonRequest) (*model.ReleasePokemonResponse, error)
	Transfer(context.Context, *model.TransferPokemonRequest) (*model.TransferPokemonResponse, error)
	GetAvailable(context.Context, *model.GetAvailablePokemonsRequest) (*model.GetAvailablePokemonsResponse, error)
	GetTrainerPokemons(context.Context, *model.GetTrainerPokemonsRequest) (*model.GetTrainerPokemonsResponse, error)
}

type assignmentDomain struct {
	trainerRepo  repository.TrainerRepository
	pokemonRepo  repository.PokemonRepository
	roleVerifier *common.RoleVerifier
}

func NewAssignmentDomain(
	trainerRepo repository.TrainerRepository,
	pokemonRepo repository.PokemonRepository,
	roleVerifier *common.RoleVerifier,
) *assignmentDomain {
	return &assignmentDomain{
		trainerRepo:  trainerRepo,
		pokemonRepo:  pokemonRepo,
		roleVerifier: roleVerifier,
	}
}

func (d *assignmentDomain) Assign(
	ctx context.Context, req *model.AssignPokemonRequest,
) (*model.AssignPokemonResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	trainer, err := getTrainer(ctx, d.trainerRepo, req.TrainerID)
	if err != nil {
		return nil, err
	}

	if err := d.roleVerifier.VerifyTrainer(ctx, trainer); err != nil {
		return nil, verifyError(ctx, err)
	}

	pokemon, err := getPokemon(ctx, d.pokemonRepo, req.PokemonID)
	if err != nil {
		return nil, err
	}

	if err := checkCapacity(ctx, d.pokemonRepo, trainer); err != nil {
		return nil, err
	}

	from := pokemon.TrainerID
	if err := pokemon.SetOwner(trainer.ID); err != nil {
		return nil, errorx.New(errorx.AlreadyAssigned, "Pokemon is already assigned to a trainer").
			WithSubject(pokemon.ID)
	}

	if err := d.changeOwner(ctx, pokemon, from); err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, commitError(ctx, err)
	}

	return &model.AssignPokemonResponse{Pokemon: model.ConvertPokemon(pokemon)}, nil
}

func (d *assignmentDomain) Release(
	ctx context.Context, req *model.ReleasePokemonRequest,
) (*model.ReleasePokemonResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	pokemon, err := getPokemon(ctx, d.pokemonRepo, req.PokemonID)
	if err != nil {
		return nil, err
	}

	if !pokemon.IsOwned() {
		return nil, errorx.New(errorx.NotAssigned, "Pokemon is not assigned to any trainer").
			WithSubject(pokemon.ID)
	}

	if err := d.verifyOwner(ctx, pokemon); err != nil {
		return nil, err
	}

	from := pokemon.TrainerID
	if err := pokemon.ClearOwner(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clear owner of pokemon %s: %v", pokemon.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.changeOwner(ctx, pokemon, from); err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, commitError(ctx, err)
	}

	return &model.ReleasePokemonResponse{Pokemon: model.ConvertPokemon(pokemon)}, nil
}

// Transfer moves an owned pokemon to another trainer in one transaction. The capacity of the
// new trainer is checked before the current owner link is touched.
func (d *assignmentDomain) Transfer(
	ctx context.Context, req *model.TransferPokemonRequest,
) (*model.TransferPokemonResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	pokemon, err := getPokemon(ctx, d.pokemonRepo, req.PokemonID)
	if err != nil {
		return nil, err
	}

	if !pokemon.IsOwned() {
		return nil, errorx.New(errorx.NotAssigned, "Pokemon is not assigned to any trainer").
			WithSubject(pokemon.ID)
	}

	if err := d.verifyOwner(ctx, pokemon); err != nil {
		return nil, err
	}

	newTrainer, err := getTrainer(ctx, d.trainerRepo, req.ToTrainerID)
	if err != nil {
		return nil, err
	}

	if pokemon.IsOwnedBy(newTrainer.ID) {
		return nil, errorx.New(errorx.AlreadyAssigned, "Pokemon already belongs to this trainer").
			WithSubject(pokemon.ID)
	}

	if err := checkCapacity(ctx, d.pokemonRepo, newTrainer); err != nil {
		return nil, err
	}

	from := pokemon.TrainerID
	if err := pokemon.ClearOwner(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clear owner of pokemon %s: %v", pokemon.ID, err)
		return nil, errorx.Unknown
	}

	if err := pokemon.SetOwner(newTrainer.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set owner of pokemon %s: %v", pokemon.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.changeOwner(ctx, pokemon, from); err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, commitError(ctx, err)
	}

	return &model.TransferPokemonResponse{Pokemon: model.ConvertPokemon(pokemon)}, nil
}

func (d *assignmentDomain) GetAvailable(
	ctx context.Context, req *model.GetAvailablePokemonsRequest,
) (*model.GetAvailablePokemonsResponse, error) {
	pokemons, err := d.pokemonRepo.GetAvailable(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get available pokemons: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetAvailablePokemonsResponse{Pokemons: model.ConvertPokemons(pokemons)}, nil
}

func (d *assignmentDomain) GetTrainerPokemons(
	ctx context.Context, req *model.GetTrainerPokemonsRequest,
) (*model.GetTrainerPokemonsResponse, error) {
	trainer, err := getTrainer(ctx, d.trainerRepo, req.TrainerID)
	if err != nil {
		return nil, err
	}

	pokemons, err := d.pokemonRepo.GetByTrainerID(ctx, trainer.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pokemons of trainer %s: %v", trainer.ID, err)
		return nil, errorx.Unknown
	}

	return &model.GetTrainerPokemonsResponse{Pokemons: model.ConvertPokemons(pokemons)}, nil
}

// verifyOwner lets the caller act on a pokemon only if it manages the current owner.
func (d *assignmentDomain) verifyOwner(ctx context.Context, pokemon *entity.Pokemon) error {
	owner, err := d.trainerRepo.GetByID(ctx, pokemon.TrainerID.String)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get owner of pokemon %s: %v", pokemon.ID, err)
		return errorx.Unknown
	}

	if err := d.roleVerifier.VerifyTrainer(ctx, owner); err != nil {
		return verifyError(ctx, err)
	}

	return nil
}

// changeOwner persists the owner of pokemon, expecting the stored owner to still be from.
func (d *assignmentDomain) changeOwner(ctx context.Context, pokemon *entity.Pokemon, from sql.NullString) error {
	err := d.pokemonRepo.UpdateOwner(ctx, pokemon.ID, from, pokemon.TrainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.AlreadyAssigned, "Pokemon owner was changed by another request").
				WithSubject(pokemon.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot update owner of pokemon %s: %v", pokemon.ID, err)
		return errorx.Unknown
	}

	return nil
}
