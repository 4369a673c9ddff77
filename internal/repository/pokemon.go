package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PokemonRepository interface {
	Create(ctx context.Context, data *entity.Pokemon) error
	GetByID(ctx context.Context, id string) (*entity.Pokemon, error)
	GetList(ctx context.Context) ([]entity.Pokemon, error)
	GetAvailable(ctx context.Context) ([]entity.Pokemon, error)
	GetByTrainerID(ctx context.Context, trainerID string) ([]entity.Pokemon, error)
	CountByTrainerID(ctx context.Context, trainerID string) (int64, error)
	UpdateByID(ctx context.Context, id string, data *entity.Pokemon) error

	// UpdateOwner moves the pokemon from owner `from` to owner `to`. It fails with
	// gorm.ErrRecordNotFound if the pokemon's current owner is not `from`, so a concurrent owner
	// change is never silently overwritten.
	UpdateOwner(ctx context.Context, id string, from, to sql.NullString) error
	ReleaseByTrainerID(ctx context.Context, trainerID string) error
	Delete(ctx context.Context, id string) error
}

type pokemonRepository struct{}

func NewPokemonRepository() *pokemonRepository {
	return &pokemonRepository{}
}

func (r *pokemonRepository) Create(ctx context.Context, data *entity.Pokemon) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *pokemonRepository) GetByID(ctx context.Context, id string) (*entity.Pokemon, error) {
	var result entity.Pokemon
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *pokemonRepository) GetList(ctx context.Context) ([]entity.Pokemon, error) {
	var result []entity.Pokemon
	if err := xcontext.DB(ctx).Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pokemonRepository) GetAvailable(ctx context.Context) ([]entity.Pokemon, error) {
	var result []entity.Pokemon
	err := xcontext.DB(ctx).
		Where("trainer_id IS NULL").
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pokemonRepository) GetByTrainerID(ctx context.Context, trainerID string) ([]entity.Pokemon, error) {
	var result []entity.Pokemon
	err := xcontext.DB(ctx).
		Where("trainer_id=?", trainerID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *pokemonRepository) CountByTrainerID(ctx context.Context, trainerID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Pokemon{}).Where("trainer_id=?", trainerID).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *pokemonRepository) UpdateByID(ctx context.Context, id string, data *entity.Pokemon) error {
	updateMap := map[string]any{}
	if data.Name != "" {
		updateMap["name"] = data.Name
	}

	if data.Type != "" {
		updateMap["type"] = data.Type
	}

	if data.Level != 0 {
		updateMap["level"] = data.Level
	}

	if data.Stats != nil {
		updateMap["stats"] = data.Stats
	}

	if len(updateMap) == 0 {
		return nil
	}

	tx := xcontext.DB(ctx).Model(&entity.Pokemon{}).Where("id=?", id).Updates(updateMap)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *pokemonRepository) UpdateOwner(ctx context.Context, id string, from, to sql.NullString) error {
	tx := xcontext.DB(ctx).Model(&entity.Pokemon{}).Where("id=?", id)
	if from.Valid {
		tx = tx.Where("trainer_id=?", from.String)
	} else {
		tx = tx.Where("trainer_id IS NULL")
	}

	tx = tx.Update("trainer_id", to)
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

func (r *pokemonRepository) ReleaseByTrainerID(ctx context.Context, trainerID string) error {
	return xcontext.DB(ctx).
		Model(&entity.Pokemon{}).
		Where("trainer_id=?", trainerID).
		Update("trainer_id", nil).Error
}

func (r *pokemonRepository) Delete(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Where("id=?", id).Delete(&entity.Pokemon{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
