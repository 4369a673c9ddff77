package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pokeleague/backend/internal/common"
	"github.com/pokeleague/backend/internal/domain/battleutil"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/internal/model"
	"github.com/pokeleague/backend/internal/repository"
	"github.com/pokeleague/backend/pkg/errorx"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PokemonDomain interface {
	Create(context.Context, *model.CreatePokemonRequest) (*model.CreatePokemonResponse, error)
	Get(context.Context, *model.GetPokemonRequest) (*model.GetPokemonResponse, error)
	GetList(context.Context, *model.GetPokemonsRequest) (*model.GetPokemonsResponse, error)
	Update(context.Context, *model.UpdatePokemonRequest) (*model.UpdatePokemonResponse, error)
	Delete(context.Context, *model.DeletePokemonRequest) (*model.DeletePokemonResponse, error)
}

type pokemonDomain struct {
	trainerRepo  repository.TrainerRepository
	pokemonRepo  repository.PokemonRepository
	roleVerifier *common.RoleVerifier
}

func NewPokemonDomain(
	trainerRepo repository.TrainerRepository,
	pokemonRepo repository.PokemonRepository,
	roleVerifier *common.RoleVerifier,
) *pokemonDomain {
	return &pokemonDomain{
		trainerRepo:  trainerRepo,
		pokemonRepo:  pokemonRepo,
		roleVerifier: roleVerifier,
	}
}

// Create adds a pokemon, unowned or already owned by req.TrainerID.
func (d *pokemonDomain) Create(
	ctx context.Context, req *model.CreatePokemonRequest,
) (*model.CreatePokemonResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.RoleAdmin); err != nil {
		return nil, verifyError(ctx, err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty pokemon name")
	}

	if !entity.ValidPokemonLevel(req.Level) {
		return nil, errorx.New(errorx.BadRequest, "Level must be between %d and %d",
			entity.MinPokemonLevel, entity.MaxPokemonLevel)
	}

	stats, err := checkStats(req.Stats)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = datatypes.JSON("{}")
	}

	now := xcontext.Clock(ctx).Now()
	pokemon := &entity.Pokemon{
		Base:  entity.Base{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		Name:  name,
		Type:  strings.TrimSpace(req.Type),
		Level: req.Level,
		Stats: stats,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if req.TrainerID != "" {
		trainer, err := getTrainer(ctx, d.trainerRepo, req.TrainerID)
		if err != nil {
			return nil, err
		}

		if err := checkCapacity(ctx, d.pokemonRepo, trainer); err != nil {
			return nil, err
		}

		pokemon.TrainerID = sql.NullString{String: trainer.ID, Valid: true}
	}

	if err := d.pokemonRepo.Create(ctx, pokemon); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create pokemon: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, commitError(ctx, err)
	}

	return &model.CreatePokemonResponse{Pokemon: model.ConvertPokemon(pokemon)}, nil
}

func (d *pokemonDomain) Get(
	ctx context.Context, req *model.GetPokemonRequest,
) (*model.GetPokemonResponse, error) {
	pokemon, err := getPokemon(ctx, d.pokemonRepo, req.ID)
	if err != nil {
		return nil, err
	}

	return &model.GetPokemonResponse{
		Pokemon:  model.ConvertPokemon(pokemon),
		Strength: battleutil.PokemonStrength(ctx, pokemon),
	}, nil
}

func (d *pokemonDomain) GetList(
	ctx context.Context, req *model.GetPokemonsRequest,
) (*model.GetPokemonsResponse, error) {
	pokemons, err := d.pokemonRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pokemons: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPokemonsResponse{Pokemons: model.ConvertPokemons(pokemons)}, nil
}

// Update changes the non-zero fields of req. The owner is changed by the assignment domain only.
func (d *pokemonDomain) Update(
	ctx context.Context, req *model.UpdatePokemonRequest,
) (*model.UpdatePokemonResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.RoleAdmin); err != nil {
		return nil, verifyError(ctx, err)
	}

	if req.Level != 0 && !entity.ValidPokemonLevel(req.Level) {
		return nil, errorx.New(errorx.BadRequest, "Level must be between %d and %d",
			entity.MinPokemonLevel, entity.MaxPokemonLevel)
	}

	stats, err := checkStats(req.Stats)
	if err != nil {
		return nil, err
	}

	pokemon, err := getPokemon(ctx, d.pokemonRepo, req.ID)
	if err != nil {
		return nil, err
	}

	err = d.pokemonRepo.UpdateByID(ctx, pokemon.ID, &entity.Pokemon{
		Name:  strings.TrimSpace(req.Name),
		Type:  strings.TrimSpace(req.Type),
		Level: req.Level,
		Stats: stats,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update pokemon %s: %v", pokemon.ID, err)
		return nil, errorx.Unknown
	}

	pokemon, err = getPokemon(ctx, d.pokemonRepo, pokemon.ID)
	if err != nil {
		return nil, err
	}

	return &model.UpdatePokemonResponse{Pokemon: model.ConvertPokemon(pokemon)}, nil
}

func (d *pokemonDomain) Delete(
	ctx context.Context, req *model.DeletePokemonRequest,
) (*model.DeletePokemonResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.RoleAdmin); err != nil {
		return nil, verifyError(ctx, err)
	}

	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty pokemon id")
	}

	if err := d.pokemonRepo.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pokemon").WithSubject(req.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot delete pokemon %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	return &model.DeletePokemonResponse{}, nil
}

// checkStats accepts an empty payload or a json object. It returns nil for an empty payload.
func checkStats(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	stats := datatypes.JSON(raw)
	if _, err := battleutil.StatsSum(stats); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Stats must be a json object")
	}

	return stats, nil
}
