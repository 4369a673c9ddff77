package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/pkg/xcontext"
	"gorm.io/datatypes"
)

var (
	// Trainer1 owns Pokemon1, whose strength is 75.
	Trainer1 = entity.Trainer{
		Base:   entity.Base{ID: "trainer1", CreatedAt: Now.Add(-3 * time.Hour)},
		UserID: sql.NullString{String: "user1", Valid: true},
		Name:   "Ash",
	}

	// Trainer2 owns Pokemon2, whose strength is 54.
	Trainer2 = entity.Trainer{
		Base:   entity.Base{ID: "trainer2", CreatedAt: Now.Add(-2 * time.Hour)},
		UserID: sql.NullString{String: "user2", Valid: true},
		Name:   "Misty",
	}

	// Trainer3 has no pokemon.
	Trainer3 = entity.Trainer{
		Base:   entity.Base{ID: "trainer3", CreatedAt: Now.Add(-time.Hour)},
		Name:   "Brock",
		Points: 10,
	}

	Trainers = []*entity.Trainer{&Trainer1, &Trainer2, &Trainer3}

	Pokemon1 = entity.Pokemon{
		Base:      entity.Base{ID: "pokemon1", CreatedAt: Now.Add(-6 * time.Hour)},
		Name:      "Pikachu",
		Type:      "electric",
		Level:     5,
		Stats:     datatypes.JSON(`{"attack":50,"defense":40,"speed":60}`),
		TrainerID: sql.NullString{String: Trainer1.ID, Valid: true},
	}

	Pokemon2 = entity.Pokemon{
		Base:      entity.Base{ID: "pokemon2", CreatedAt: Now.Add(-5 * time.Hour)},
		Name:      "Staryu",
		Type:      "water",
		Level:     4,
		Stats:     datatypes.JSON(`{"attack":45,"defense":35,"speed":55}`),
		TrainerID: sql.NullString{String: Trainer2.ID, Valid: true},
	}

	Pokemon3 = entity.Pokemon{
		Base:  entity.Base{ID: "pokemon3", CreatedAt: Now.Add(-4 * time.Hour)},
		Name:  "Bulbasaur",
		Type:  "grass",
		Level: 10,
		Stats: datatypes.JSON(`{"hp":45,"attack":49}`),
	}

	Pokemon4 = entity.Pokemon{
		Base:  entity.Base{ID: "pokemon4", CreatedAt: Now.Add(-3 * time.Hour)},
		Name:  "Charmander",
		Type:  "fire",
		Level: 10,
		Stats: datatypes.JSON(`{"hp":39,"attack":52}`),
	}

	Pokemon5 = entity.Pokemon{
		Base:  entity.Base{ID: "pokemon5", CreatedAt: Now.Add(-2 * time.Hour)},
		Name:  "Squirtle",
		Type:  "water",
		Level: 10,
		Stats: datatypes.JSON(`{"hp":44,"attack":48}`),
	}

	Pokemon6 = entity.Pokemon{
		Base:  entity.Base{ID: "pokemon6", CreatedAt: Now.Add(-time.Hour)},
		Name:  "Eevee",
		Type:  "normal",
		Level: 10,
		Stats: datatypes.JSON(`{"hp":55,"attack":55}`),
	}

	Pokemons = []*entity.Pokemon{&Pokemon1, &Pokemon2, &Pokemon3, &Pokemon4, &Pokemon5, &Pokemon6}
)

// CreateFixtureDb inserts copies of the fixtures, so tests may freely modify what they read back.
func CreateFixtureDb(ctx context.Context) {
	InsertTrainers(ctx)
	InsertPokemons(ctx)
}

func InsertTrainers(ctx context.Context) {
	for _, trainer := range Trainers {
		t := *trainer
		t.UpdatedAt = t.CreatedAt
		if err := xcontext.DB(ctx).Omit("Pokemons").Create(&t).Error; err != nil {
			panic(err)
		}
	}
}

func InsertPokemons(ctx context.Context) {
	for _, pokemon := range Pokemons {
		p := *pokemon
		p.UpdatedAt = p.CreatedAt
		if err := xcontext.DB(ctx).Create(&p).Error; err != nil {
			panic(err)
		}
	}
}
