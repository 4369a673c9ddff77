package domain

import (
	"context"
	"errors"
	"time"

	"github.com/pokeleague/backend/internal/common"
	"github.com/pokeleague/backend/internal/domain/ranking"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/internal/model"
	"github.com/pokeleague/backend/internal/repository"
	"github.com/pokeleague/backend/pkg/dateutil"
	"github.com/pokeleague/backend/pkg/errorx"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RankingDomain interface {
	GetFullRanking(context.Context, *model.GetFullRankingRequest) (*model.GetFullRankingResponse, error)
	GetTopTrainers(context.Context, *model.GetTopTrainersRequest) (*model.GetTopTrainersResponse, error)
	GetTrainerRank(context.Context, *model.GetTrainerRankRequest) (*model.GetTrainerRankResponse, error)
	GetSimilarTrainers(context.Context, *model.GetSimilarTrainersRequest) (*model.GetSimilarTrainersResponse, error)
	UpdateTrainerPoints(context.Context, *model.UpdateTrainerPointsRequest) (*model.UpdateTrainerPointsResponse, error)
	GetMonthlyStats(context.Context, *model.GetMonthlyStatsRequest) (*model.GetMonthlyStatsResponse, error)
	CalculateRankChanges(context.Context, *model.CalculateRankChangesRequest) (*model.CalculateRankChangesResponse, error)
}

type rankingDomain struct {
	trainerRepo  repository.TrainerRepository
	battleRepo   repository.BattleRepository
	rankingCache *ranking.Cache
	roleVerifier *common.RoleVerifier
}

func NewRankingDomain(
	trainerRepo repository.TrainerRepository,
	battleRepo repository.BattleRepository,
	rankingCache *ranking.Cache,
	roleVerifier *common.RoleVerifier,
) *rankingDomain {
	return &rankingDomain{
		trainerRepo:  trainerRepo,
		battleRepo:   battleRepo,
		rankingCache: rankingCache,
		roleVerifier: roleVerifier,
	}
}

func (d *rankingDomain) GetFullRanking(
	ctx context.Context, req *model.GetFullRankingRequest,
) (*model.GetFullRankingResponse, error) {
	trainers, err := d.rankingCache.FullRanking(ctx, d.rankingLoader(0))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get full ranking: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetFullRankingResponse{Trainers: trainers}, nil
}

// GetTopTrainers doesn't clamp the count, callers do.
func (d *rankingDomain) GetTopTrainers(
	ctx context.Context, req *model.GetTopTrainersRequest,
) (*model.GetTopTrainersResponse, error) {
	if req.Count < 1 {
		return nil, errorx.New(errorx.BadRequest, "Count must be positive")
	}

	trainers, err := d.rankingCache.TopTrainers(ctx, req.Count, d.rankingLoader(req.Count))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get top %d trainers: %v", req.Count, err)
		return nil, errorx.Unknown
	}

	return &model.GetTopTrainersResponse{Trainers: trainers}, nil
}

func (d *rankingDomain) GetTrainerRank(
	ctx context.Context, req *model.GetTrainerRankRequest,
) (*model.GetTrainerRankResponse, error) {
	trainer, err := getTrainer(ctx, d.trainerRepo, req.TrainerID)
	if err != nil {
		return nil, err
	}

	rank, err := trainerRank(ctx, d.trainerRepo, trainer)
	if err != nil {
		return nil, err
	}

	return &model.GetTrainerRankResponse{
		Trainer: model.RankedTrainer{ID: trainer.ID, Name: trainer.Name, Points: trainer.Points},
		Rank:    rank,
	}, nil
}

// GetSimilarTrainers returns the other trainers whose points are within req.Range of the
// trainer's, bounds included.
func (d *rankingDomain) GetSimilarTrainers(
	ctx context.Context, req *model.GetSimilarTrainersRequest,
) (*model.GetSimilarTrainersResponse, error) {
	if req.Range < 0 {
		return nil, errorx.New(errorx.BadRequest, "Range must not be negative")
	}

	trainer, err := getTrainer(ctx, d.trainerRepo, req.TrainerID)
	if err != nil {
		return nil, err
	}

	trainers, err := d.trainerRepo.GetListByPointsRange(
		ctx, trainer.ID, trainer.Points-req.Range, trainer.Points+req.Range)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get trainers with similar points: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetSimilarTrainersResponse{Trainers: model.ConvertRankedTrainers(trainers)}, nil
}

func (d *rankingDomain) UpdateTrainerPoints(
	ctx context.Context, req *model.UpdateTrainerPointsRequest,
) (*model.UpdateTrainerPointsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.RoleAdmin); err != nil {
		return nil, verifyError(ctx, err)
	}

	if req.TrainerID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty trainer id")
	}

	if err := d.trainerRepo.IncreasePoints(ctx, req.TrainerID, req.Delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found trainer").WithSubject(req.TrainerID)
		}

		xcontext.Logger(ctx).Errorf("Cannot update points of trainer %s: %v", req.TrainerID, err)
		return nil, errorx.Wrap(err, errorx.UpdatePointsFailed,
			"Failed to update points of trainer %s", req.TrainerID).WithSubject(req.TrainerID)
	}

	if err := d.rankingCache.Invalidate(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot invalidate ranking cache: %v", err)
	}

	trainer, err := getTrainer(ctx, d.trainerRepo, req.TrainerID)
	if err != nil {
		return nil, err
	}

	return &model.UpdateTrainerPointsResponse{
		Trainer: model.RankedTrainer{ID: trainer.ID, Name: trainer.Name, Points: trainer.Points},
	}, nil
}

// GetMonthlyStats aggregates battles of the current calendar month.
func (d *rankingDomain) GetMonthlyStats(
	ctx context.Context, req *model.GetMonthlyStatsRequest,
) (*model.GetMonthlyStatsResponse, error) {
	now := xcontext.Clock(ctx).Now()
	start, end := dateutil.MonthRange(now)

	stats, err := d.rankingCache.MonthlyStats(ctx, dateutil.MonthValue(now),
		func(ctx context.Context) (model.MonthlyStats, error) {
			return d.loadMonthlyStats(ctx, start, end)
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get monthly stats: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetMonthlyStatsResponse(stats)
	return &resp, nil
}

func (d *rankingDomain) CalculateRankChanges(
	ctx context.Context, req *model.CalculateRankChangesRequest,
) (*model.CalculateRankChangesResponse, error) {
	return &model.CalculateRankChangesResponse{
		Changes: ranking.CalculateRankChanges(req.OldRanking, req.NewRanking),
	}, nil
}

func (d *rankingDomain) rankingLoader(limit int) func(context.Context) ([]model.RankedTrainer, error) {
	return func(ctx context.Context) ([]model.RankedTrainer, error) {
		trainers, err := d.trainerRepo.GetRanking(ctx, limit)
		if err != nil {
			return nil, err
		}

		return model.ConvertRankedTrainers(trainers), nil
	}
}

func (d *rankingDomain) loadMonthlyStats(ctx context.Context, start, end time.Time) (model.MonthlyStats, error) {
	topN := xcontext.Configs(ctx).Ranking.MonthlyTopN

	participation, err := d.battleRepo.StatisticParticipation(ctx, start, end, topN)
	if err != nil {
		return model.MonthlyStats{}, err
	}

	wins, err := d.battleRepo.StatisticWins(ctx, start, end, topN)
	if err != nil {
		return model.MonthlyStats{}, err
	}

	ids := []string{}
	for _, s := range participation {
		ids = append(ids, s.TrainerID)
	}

	for _, s := range wins {
		ids = append(ids, s.TrainerID)
	}

	trainers, err := d.trainerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return model.MonthlyStats{}, err
	}

	trainerMap := map[string]entity.Trainer{}
	for _, t := range trainers {
		trainerMap[t.ID] = t
	}

	return model.MonthlyStats{
		Period: model.Period{
			Start: start.Format(model.DefaultDateLayout),
			End:   dateutil.LastDayOfMonth(start).Format(model.DefaultDateLayout),
		},
		MostActive: model.ConvertTrainerBattleStatistics(participation, trainerMap),
		MostWins:   model.ConvertTrainerBattleStatistics(wins, trainerMap),
	}, nil
}

func trainerRank(ctx context.Context, trainerRepo repository.TrainerRepository, trainer *entity.Trainer) (int64, error) {
	count, err := trainerRepo.CountWithPointsGreaterThan(ctx, trainer.Points)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count trainers above %s: %v", trainer.ID, err)
		return 0, errorx.Unknown
	}

	return count + 1, nil
}
