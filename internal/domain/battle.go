package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/pokeleague/backend/internal/common"
	"github.com/pokeleague/backend/internal/domain/battleutil"
	"github.com/pokeleague/backend/internal/domain/ranking"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/internal/model"
	"github.com/pokeleague/backend/internal/repository"
	"github.com/pokeleague/backend/pkg/errorx"
	"github.com/pokeleague/backend/pkg/pubsub"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const maxBattlesLimit = 50

type BattleDomain interface {
	Create(context.Context, *model.CreateBattleRequest) (*model.CreateBattleResponse, error)
	Delete(context.Context, *model.DeleteBattleRequest) (*model.DeleteBattleResponse, error)
	Simulate(context.Context, *model.SimulateBattleRequest) (*model.SimulateBattleResponse, error)
	Get(context.Context, *model.GetBattleRequest) (*model.GetBattleResponse, error)
	GetList(context.Context, *model.GetBattlesRequest) (*model.GetBattlesResponse, error)
	GetRecentBattles(context.Context, *model.GetRecentBattlesRequest) (*model.GetRecentBattlesResponse, error)
}

type battleDomain struct {
	trainerRepo  repository.TrainerRepository
	pokemonRepo  repository.PokemonRepository
	battleRepo   repository.BattleRepository
	rankingCache *ranking.Cache
	random       battleutil.RandomSource
	publisher    pubsub.Publisher
	roleVerifier *common.RoleVerifier
}

func NewBattleDomain(
	trainerRepo repository.TrainerRepository,
	pokemonRepo repository.PokemonRepository,
	battleRepo repository.BattleRepository,
	rankingCache *ranking.Cache,
	random battleutil.RandomSource,
	publisher pubsub.Publisher,
	roleVerifier *common.RoleVerifier,
) *battleDomain {
	return &battleDomain{
		trainerRepo:  trainerRepo,
		pokemonRepo:  pokemonRepo,
		battleRepo:   battleRepo,
		rankingCache: rankingCache,
		random:       random,
		publisher:    publisher,
		roleVerifier: roleVerifier,
	}
}

func (d *battleDomain) Create(
	ctx context.Context, req *model.CreateBattleRequest,
) (*model.CreateBattleResponse, error) {
	if req.Trainer1ID == req.Trainer2ID {
		return nil, errorx.New(errorx.SameTrainer, "A trainer cannot battle against themselves").
			WithSubject(req.Trainer1ID)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	trainer1, err := getTrainer(ctx, d.trainerRepo, req.Trainer1ID)
	if err != nil {
		return nil, wrapInfraError(err, errorx.CreationFailed, "create battle")
	}

	// The caller must act for trainer1 before anything else about the battle is revealed.
	if err := d.roleVerifier.VerifyTrainer(ctx, trainer1); err != nil {
		return nil, verifyError(ctx, err)
	}

	c1, err := d.newContender(ctx, trainer1)
	if err != nil {
		return nil, wrapInfraError(err, errorx.CreationFailed, "create battle")
	}

	c2, err := d.loadContender(ctx, req.Trainer2ID)
	if err != nil {
		return nil, wrapInfraError(err, errorx.CreationFailed, "create battle")
	}

	date := req.Date
	if date.IsZero() {
		date = xcontext.Clock(ctx).Now()
	}

	result := battleutil.Resolve(ctx, d.random, c1, c2)
	battle := &entity.Battle{
		Base:       entity.Base{ID: uuid.NewString()},
		Trainer1ID: c1.Trainer.ID,
		Trainer2ID: c2.Trainer.ID,
		WinnerID:   sql.NullString{String: result.Winner.ID, Valid: true},
		Date:       date.UTC(),
	}

	if err := battle.Validate(); err != nil {
		xcontext.Logger(ctx).Errorf("Resolved an invalid battle: %v", err)
		return nil, errorx.Wrap(err, errorx.CreationFailed, "Failed to create battle: %v", err)
	}

	if err := d.battleRepo.Create(ctx, battle); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create battle: %v", err)
		return nil, errorx.Wrap(err, errorx.CreationFailed, "Failed to create battle: %v", err)
	}

	points := xcontext.Configs(ctx).Battle.PointsAwarded
	if err := d.trainerRepo.IncreasePoints(ctx, result.Winner.ID, points); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot award points to trainer %s: %v", result.Winner.ID, err)
		return nil, errorx.Wrap(err, errorx.CreationFailed, "Failed to create battle: %v", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit battle creation: %v", err)
		return nil, errorx.Wrap(err, errorx.CreationFailed, "Failed to create battle: %v", err)
	}

	result.Winner.Points += points
	d.invalidateRanking(ctx)

	battle.Trainer1 = *c1.Trainer
	battle.Trainer2 = *c2.Trainer
	resp := &model.CreateBattleResponse{
		Battle:       model.ConvertBattle(battle),
		PointsChange: points,
		Strength1:    result.Strength1,
		Strength2:    result.Strength2,
	}

	d.publish(ctx, model.BattleEvent{
		Type:         model.BattleEventCreated,
		Battle:       resp.Battle,
		PointsChange: points,
	})

	return resp, nil
}

// Delete removes the battle and takes back the points awarded to its winner.
func (d *battleDomain) Delete(
	ctx context.Context, req *model.DeleteBattleRequest,
) (*model.DeleteBattleResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.RoleAdmin); err != nil {
		return nil, verifyError(ctx, err)
	}

	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty battle id")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	battle, err := d.battleRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found battle").WithSubject(req.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get battle: %v", err)
		return nil, errorx.Wrap(err, errorx.DeletionFailed, "Failed to delete battle: %v", err)
	}

	var points int64
	if !battle.IsDraw() {
		points = xcontext.Configs(ctx).Battle.PointsAwarded
		if err := d.trainerRepo.IncreasePoints(ctx, battle.WinnerID.String, -points); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot take back points of trainer %s: %v", battle.WinnerID.String, err)
			return nil, errorx.Wrap(err, errorx.DeletionFailed, "Failed to delete battle: %v", err)
		}
	}

	if err := d.battleRepo.Delete(ctx, battle.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete battle: %v", err)
		return nil, errorx.Wrap(err, errorx.DeletionFailed, "Failed to delete battle: %v", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit battle deletion: %v", err)
		return nil, errorx.Wrap(err, errorx.DeletionFailed, "Failed to delete battle: %v", err)
	}

	d.invalidateRanking(ctx)
	d.publish(ctx, model.BattleEvent{
		Type:         model.BattleEventDeleted,
		Battle:       model.ConvertBattle(battle),
		PointsChange: -points,
	})

	return &model.DeleteBattleResponse{}, nil
}

// Simulate resolves a battle like Create does, without writing anything.
func (d *battleDomain) Simulate(
	ctx context.Context, req *model.SimulateBattleRequest,
) (*model.SimulateBattleResponse, error) {
	if req.Trainer1ID == req.Trainer2ID {
		return nil, errorx.New(errorx.SameTrainer, "A trainer cannot battle against themselves").
			WithSubject(req.Trainer1ID)
	}

	c1, c2, err := d.loadContenders(ctx, req.Trainer1ID, req.Trainer2ID)
	if err != nil {
		return nil, err
	}

	result := battleutil.Resolve(ctx, d.random, c1, c2)
	return &model.SimulateBattleResponse{
		Winner:       model.ConvertShortTrainer(result.Winner),
		Loser:        model.ConvertShortTrainer(result.Loser),
		PointsChange: xcontext.Configs(ctx).Battle.PointsAwarded,
		Strength1:    result.Strength1,
		Strength2:    result.Strength2,
	}, nil
}

func (d *battleDomain) Get(
	ctx context.Context, req *model.GetBattleRequest,
) (*model.GetBattleResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty battle id")
	}

	battle, err := d.battleRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found battle").WithSubject(req.ID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get battle: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetBattleResponse{Battle: model.ConvertBattle(battle)}, nil
}

func (d *battleDomain) GetList(
	ctx context.Context, req *model.GetBattlesRequest,
) (*model.GetBattlesResponse, error) {
	if req.Limit < 0 || req.Limit > maxBattlesLimit {
		return nil, errorx.New(errorx.BadRequest, "Limit must be between 0 and %d", maxBattlesLimit)
	}

	battles, err := d.battleRepo.GetList(ctx, repository.BattleFilter{Limit: req.Limit})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get battles: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetBattlesResponse{Battles: model.ConvertBattles(battles)}, nil
}

// GetRecentBattles returns the latest battles, optionally only those the trainer took part in.
func (d *battleDomain) GetRecentBattles(
	ctx context.Context, req *model.GetRecentBattlesRequest,
) (*model.GetRecentBattlesResponse, error) {
	if req.Limit < 0 || req.Limit > maxBattlesLimit {
		return nil, errorx.New(errorx.BadRequest, "Limit must be between 0 and %d", maxBattlesLimit)
	}

	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).Battle.RecentLimit
	}

	if req.TrainerID != "" {
		if _, err := getTrainer(ctx, d.trainerRepo, req.TrainerID); err != nil {
			return nil, err
		}
	}

	battles, err := d.battleRepo.GetList(ctx, repository.BattleFilter{
		TrainerID: req.TrainerID,
		Limit:     req.Limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get recent battles: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetRecentBattlesResponse{Battles: model.ConvertBattles(battles)}, nil
}

func (d *battleDomain) loadContenders(
	ctx context.Context, trainer1ID, trainer2ID string,
) (battleutil.Contender, battleutil.Contender, error) {
	c1, err := d.loadContender(ctx, trainer1ID)
	if err != nil {
		return battleutil.Contender{}, battleutil.Contender{}, err
	}

	c2, err := d.loadContender(ctx, trainer2ID)
	if err != nil {
		return battleutil.Contender{}, battleutil.Contender{}, err
	}

	return c1, c2, nil
}

func (d *battleDomain) loadContender(ctx context.Context, trainerID string) (battleutil.Contender, error) {
	trainer, err := getTrainer(ctx, d.trainerRepo, trainerID)
	if err != nil {
		return battleutil.Contender{}, err
	}

	return d.newContender(ctx, trainer)
}

func (d *battleDomain) newContender(ctx context.Context, trainer *entity.Trainer) (battleutil.Contender, error) {
	var err error
	trainer.Pokemons, err = d.pokemonRepo.GetByTrainerID(ctx, trainer.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pokemons of trainer %s: %v", trainer.ID, err)
		return battleutil.Contender{}, errorx.Unknown
	}

	if !trainer.HasPokemons() {
		return battleutil.Contender{}, errorx.New(errorx.NoPokemons,
			"Trainer %s has no pokemons", trainer.Name).WithSubject(trainer.ID)
	}

	return battleutil.Contender{Trainer: trainer, Pokemons: trainer.Pokemons}, nil
}

// invalidateRanking runs after the points are committed. A failure only leaves stale views
// until their TTL.
func (d *battleDomain) invalidateRanking(ctx context.Context) {
	if err := d.rankingCache.Invalidate(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot invalidate ranking cache: %v", err)
	}
}

func (d *battleDomain) publish(ctx context.Context, event model.BattleEvent) {
	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal battle event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.BattleTopic
	err = d.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(event.Battle.ID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish %s event of battle %s: %v", event.Type, event.Battle.ID, err)
	}
}
