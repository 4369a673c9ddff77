package repository

import (
	"context"
	"errors"

	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TrainerRepository interface {
	Create(ctx context.Context, data *entity.Trainer) error
	GetByID(ctx context.Context, id string) (*entity.Trainer, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Trainer, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Trainer, error)
	GetList(ctx context.Context) ([]entity.Trainer, error)
	UpdateByID(ctx context.Context, id string, data *entity.Trainer) error
	IncreasePoints(ctx context.Context, id string, delta int64) error
	Delete(ctx context.Context, id string) error

	// GetRanking returns trainers ordered by points descending, ties keep creation order. A
	// non-positive limit returns every trainer.
	GetRanking(ctx context.Context, limit int) ([]entity.Trainer, error)
	CountWithPointsGreaterThan(ctx context.Context, points int64) (int64, error)
	GetListByPointsRange(ctx context.Context, excludedID string, min, max int64) ([]entity.Trainer, error)
}

type trainerRepository struct{}

func NewTrainerRepository() *trainerRepository {
	return &trainerRepository{}
}

func (r *trainerRepository) Create(ctx context.Context, data *entity.Trainer) error {
	return xcontext.DB(ctx).Omit("Pokemons").Create(data).Error
}

func (r *trainerRepository) GetByID(ctx context.Context, id string) (*entity.Trainer, error) {
	var result entity.Trainer
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *trainerRepository) GetByUserID(ctx context.Context, userID string) (*entity.Trainer, error) {
	var result entity.Trainer
	if err := xcontext.DB(ctx).Where("user_id=?", userID).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *trainerRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Trainer, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.Trainer
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *trainerRepository) GetList(ctx context.Context) ([]entity.Trainer, error) {
	var result []entity.Trainer
	if err := xcontext.DB(ctx).Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *trainerRepository) UpdateByID(ctx context.Context, id string, data *entity.Trainer) error {
	updateMap := map[string]any{}
	if data.Name != "" {
		updateMap["name"] = data.Name
	}

	if len(updateMap) == 0 {
		return nil
	}

	tx := xcontext.DB(ctx).Model(&entity.Trainer{}).Where("id=?", id).Updates(updateMap)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *trainerRepository) IncreasePoints(ctx context.Context, id string, delta int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Trainer{}).
		Where("id=?", id).
		Update("points", gorm.Expr("points+?", delta))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *trainerRepository) Delete(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Where("id=?", id).Delete(&entity.Trainer{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *trainerRepository) GetRanking(ctx context.Context, limit int) ([]entity.Trainer, error) {
	tx := xcontext.DB(ctx).Model(&entity.Trainer{}).
		Select("id", "name", "points", "created_at").
		Order("points DESC").
		Order("created_at ASC")

	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var result []entity.Trainer
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *trainerRepository) CountWithPointsGreaterThan(ctx context.Context, points int64) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Trainer{}).Where("points > ?", points).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *trainerRepository) GetListByPointsRange(
	ctx context.Context, excludedID string, min, max int64,
) ([]entity.Trainer, error) {
	var result []entity.Trainer
	err := xcontext.DB(ctx).Model(&entity.Trainer{}).
		Select("id", "name", "points", "created_at").
		Where("id <> ?", excludedID).
		Where("points BETWEEN ? AND ?", min, max).
		Order("points DESC").
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
