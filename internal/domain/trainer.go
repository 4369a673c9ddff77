package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pokeleague/backend/internal/common"
	"github.com/pokeleague/backend/internal/domain/ranking"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/internal/model"
	"github.com/pokeleague/backend/internal/repository"
	"github.com/pokeleague/backend/pkg/errorx"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const maxTrainerNameLength = 64

type TrainerDomain interface {
	Create(context.Context, *model.CreateTrainerRequest) (*model.CreateTrainerResponse, error)
	Register(context.Context, *model.RegisterTrainerRequest) (*model.RegisterTrainerResponse, error)
	Get(context.Context, *model.GetTrainerRequest) (*model.GetTrainerResponse, error)
	GetList(context.Context, *model.GetTrainersRequest) (*model.GetTrainersResponse, error)
	Update(context.Context, *model.UpdateTrainerRequest) (*model.UpdateTrainerResponse, error)
	Delete(context.Context, *model.DeleteTrainerRequest) (*model.DeleteTrainerResponse, error)
}

type trainerDomain struct {
	trainerRepo  repository.TrainerRepository
	pokemonRepo  repository.PokemonRepository
	battleRepo   repository.BattleRepository
	rankingCache *ranking.Cache
	roleVerifier *common.RoleVerifier
}

func NewTrainerDomain(
	trainerRepo repository.TrainerRepository,
	pokemonRepo repository.PokemonRepository,
	battleRepo repository.BattleRepository,
	rankingCache *ranking.Cache,
	roleVerifier *common.RoleVerifier,
) *trainerDomain {
	return &trainerDomain{
		trainerRepo:  trainerRepo,
		pokemonRepo:  pokemonRepo,
		battleRepo:   battleRepo,
		rankingCache: rankingCache,
		roleVerifier: roleVerifier,
	}
}

func (d *trainerDomain) Create(
	ctx context.Context, req *model.CreateTrainerRequest,
) (*model.CreateTrainerResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.RoleAdmin); err != nil {
		return nil, verifyError(ctx, err)
	}

	trainer := &entity.Trainer{
		Base:   entity.Base{ID: uuid.NewString()},
		Name:   strings.TrimSpace(req.Name),
		Points: req.Points,
	}

	if err := d.create(ctx, trainer); err != nil {
		return nil, err
	}

	return &model.CreateTrainerResponse{Trainer: model.ConvertTrainer(trainer)}, nil
}

// Register creates the trainer of the requesting user. A user has at most one trainer.
func (d *trainerDomain) Register(
	ctx context.Context, req *model.RegisterTrainerRequest,
) (*model.RegisterTrainerResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Need to login")
	}

	_, err := d.trainerRepo.GetByUserID(ctx, userID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "User already has a trainer")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get trainer of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	trainer := &entity.Trainer{
		Base:   entity.Base{ID: uuid.NewString()},
		UserID: sql.NullString{String: userID, Valid: true},
		Name:   strings.TrimSpace(req.Name),
	}

	if err := d.create(ctx, trainer); err != nil {
		return nil, err
	}

	return &model.RegisterTrainerResponse{Trainer: model.ConvertTrainer(trainer)}, nil
}

func (d *trainerDomain) Get(
	ctx context.Context, req *model.GetTrainerRequest,
) (*model.GetTrainerResponse, error) {
	trainer, err := getTrainer(ctx, d.trainerRepo, req.ID)
	if err != nil {
		return nil, err
	}

	trainer.Pokemons, err = d.pokemonRepo.GetByTrainerID(ctx, trainer.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pokemons of trainer %s: %v", trainer.ID, err)
		return nil, errorx.Unknown
	}

	rank, err := trainerRank(ctx, d.trainerRepo, trainer)
	if err != nil {
		return nil, err
	}

	return &model.GetTrainerResponse{Trainer: model.ConvertTrainer(trainer), Rank: rank}, nil
}

func (d *trainerDomain) GetList(
	ctx context.Context, req *model.GetTrainersRequest,
) (*model.GetTrainersResponse, error) {
	trainers, err := d.trainerRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get trainers: %v", err)
		return nil, errorx.Unknown
	}

	pokemons, err := d.pokemonRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pokemons: %v", err)
		return nil, errorx.Unknown
	}

	pokemonMap := map[string][]entity.Pokemon{}
	for _, p := range pokemons {
		if p.IsOwned() {
			pokemonMap[p.TrainerID.String] = append(pokemonMap[p.TrainerID.String], p)
		}
	}

	clientTrainers := []model.Trainer{}
	for i := range trainers {
		trainers[i].Pokemons = pokemonMap[trainers[i].ID]
		clientTrainers = append(clientTrainers, model.ConvertTrainer(&trainers[i]))
	}

	return &model.GetTrainersResponse{Trainers: clientTrainers}, nil
}

// Update only renames the trainer, points change through battles and the ranking domain.
func (d *trainerDomain) Update(
	ctx context.Context, req *model.UpdateTrainerRequest,
) (*model.UpdateTrainerResponse, error) {
	trainer, err := getTrainer(ctx, d.trainerRepo, req.ID)
	if err != nil {
		return nil, err
	}

	if err := d.roleVerifier.VerifyTrainer(ctx, trainer); err != nil {
		return nil, verifyError(ctx, err)
	}

	name := strings.TrimSpace(req.Name)
	if err := checkTrainerName(name); err != nil {
		return nil, err
	}

	if err := d.trainerRepo.UpdateByID(ctx, trainer.ID, &entity.Trainer{Name: name}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update trainer %s: %v", trainer.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.rankingCache.Invalidate(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot invalidate ranking cache: %v", err)
	}

	trainer.Name = name
	return &model.UpdateTrainerResponse{Trainer: model.ConvertTrainer(trainer)}, nil
}

// Delete releases the pokemons of the trainer and removes every battle it took part in. Points
// of the other participants are kept.
func (d *trainerDomain) Delete(
	ctx context.Context, req *model.DeleteTrainerRequest,
) (*model.DeleteTrainerResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.RoleAdmin); err != nil {
		return nil, verifyError(ctx, err)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	trainer, err := getTrainer(ctx, d.trainerRepo, req.ID)
	if err != nil {
		return nil, err
	}

	if err := d.pokemonRepo.ReleaseByTrainerID(ctx, trainer.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot release pokemons of trainer %s: %v", trainer.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.battleRepo.DeleteByTrainerID(ctx, trainer.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete battles of trainer %s: %v", trainer.ID, err)
		return nil, errorx.Unknown
	}

	if err := d.trainerRepo.Delete(ctx, trainer.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete trainer %s: %v", trainer.ID, err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, commitError(ctx, err)
	}

	if err := d.rankingCache.Invalidate(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot invalidate ranking cache: %v", err)
	}

	return &model.DeleteTrainerResponse{}, nil
}

func (d *trainerDomain) create(ctx context.Context, trainer *entity.Trainer) error {
	if err := checkTrainerName(trainer.Name); err != nil {
		return err
	}

	trainer.CreatedAt = xcontext.Clock(ctx).Now()
	trainer.UpdatedAt = trainer.CreatedAt
	if err := d.trainerRepo.Create(ctx, trainer); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create trainer: %v", err)
		return errorx.Unknown
	}

	if err := d.rankingCache.Invalidate(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot invalidate ranking cache: %v", err)
	}

	return nil
}

func checkTrainerName(name string) error {
	if name == "" {
		return errorx.New(errorx.BadRequest, "Not allow empty trainer name")
	}

	if len(name) > maxTrainerNameLength {
		return errorx.New(errorx.BadRequest, "Trainer name too long (at most %d characters)", maxTrainerNameLength)
	}

	return nil
}
