package repository

import (
	"context"
	"time"

	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BattleFilter struct {
	// TrainerID keeps only battles where the trainer is either participant.
	TrainerID string
	Limit     int
}

type BattleRepository interface {
	Create(ctx context.Context, data *entity.Battle) error
	GetByID(ctx context.Context, id string) (*entity.Battle, error)
	GetList(ctx context.Context, filter BattleFilter) ([]entity.Battle, error)
	Delete(ctx context.Context, id string) error
	DeleteByTrainerID(ctx context.Context, trainerID string) error

	// StatisticParticipation counts battles per participant in [from, to).
	StatisticParticipation(ctx context.Context, from, to time.Time, limit int) ([]entity.TrainerBattleStatistic, error)
	// StatisticWins counts won battles per winner in [from, to). Draws are ignored.
	StatisticWins(ctx context.Context, from, to time.Time, limit int) ([]entity.TrainerBattleStatistic, error)
}

type battleRepository struct{}

func NewBattleRepository() *battleRepository {
	return &battleRepository{}
}

func (r *battleRepository) Create(ctx context.Context, data *entity.Battle) error {
	return xcontext.DB(ctx).Omit(clause.Associations).Create(data).Error
}

func (r *battleRepository) GetByID(ctx context.Context, id string) (*entity.Battle, error) {
	var result entity.Battle
	err := xcontext.DB(ctx).
		Preload("Trainer1").
		Preload("Trainer2").
		Where("id=?", id).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *battleRepository) GetList(ctx context.Context, filter BattleFilter) ([]entity.Battle, error) {
	tx := xcontext.DB(ctx).
		Preload("Trainer1").
		Preload("Trainer2").
		Order("date DESC").
		Order("id ASC")

	if filter.TrainerID != "" {
		tx = tx.Where("trainer1_id=? OR trainer2_id=?", filter.TrainerID, filter.TrainerID)
	}

	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	var result []entity.Battle
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *battleRepository) Delete(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Where("id=?", id).Delete(&entity.Battle{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *battleRepository) DeleteByTrainerID(ctx context.Context, trainerID string) error {
	return xcontext.DB(ctx).
		Where("trainer1_id=? OR trainer2_id=?", trainerID, trainerID).
		Delete(&entity.Battle{}).Error
}

func (r *battleRepository) StatisticParticipation(
	ctx context.Context, from, to time.Time, limit int,
) ([]entity.TrainerBattleStatistic, error) {
	var result []entity.TrainerBattleStatistic
	err := xcontext.DB(ctx).Raw(`
		SELECT trainer_id, COUNT(*) AS total FROM (
			SELECT trainer1_id AS trainer_id FROM battles WHERE date >= ? AND date < ?
			UNION ALL
			SELECT trainer2_id AS trainer_id FROM battles WHERE date >= ? AND date < ?
		) AS participants
		GROUP BY trainer_id
		ORDER BY total DESC, trainer_id ASC
		LIMIT ?`,
		from, to, from, to, limit,
	).Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *battleRepository) StatisticWins(
	ctx context.Context, from, to time.Time, limit int,
) ([]entity.TrainerBattleStatistic, error) {
	var result []entity.TrainerBattleStatistic
	err := xcontext.DB(ctx).Model(&entity.Battle{}).
		Select("winner_id AS trainer_id, COUNT(*) AS total").
		Where("winner_id IS NOT NULL").
		Where("date >= ? AND date < ?", from, to).
		Group("winner_id").
		Order("total DESC").
		Order("winner_id ASC").
		Limit(limit).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
