package testutil

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/datatypes"
)

// SampleTrainer creates a new trainer in database with a random id and name. The sample trainer
// can be overwritten by non-zero fields of init.
//
// This function returns the sample trainer.
func SampleTrainer(ctx context.Context, init *entity.Trainer) entity.Trainer {
	sample := &entity.Trainer{
		Base: entity.Base{ID: uuid.NewString(), CreatedAt: xcontext.Clock(ctx).Now()},
		Name: uuid.NewString(),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := xcontext.DB(ctx).Omit("Pokemons").Create(sample).Error; err != nil {
		panic(err)
	}

	return *sample
}

// SamplePokemon creates a new level 10 pokemon in database. The sample pokemon can be overwritten
// by non-zero fields of init.
func SamplePokemon(ctx context.Context, init *entity.Pokemon) entity.Pokemon {
	sample := &entity.Pokemon{
		Base:  entity.Base{ID: uuid.NewString(), CreatedAt: xcontext.Clock(ctx).Now()},
		Name:  uuid.NewString(),
		Type:  "normal",
		Level: 10,
		Stats: datatypes.JSON(`{"hp":10,"attack":10}`),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := xcontext.DB(ctx).Create(sample).Error; err != nil {
		panic(err)
	}

	return *sample
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
