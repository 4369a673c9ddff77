package entity

import (
	"database/sql"
)

const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
)

type Trainer struct {
	Base

	// UserID links the trainer to the account which registered it. A user owns at most one
	// trainer, and admin-created trainers may have none.
	UserID sql.NullString `gorm:"unique"`

	Name   string
	Points int64 `gorm:"index"`

	Pokemons []Pokemon `gorm:"foreignKey:TrainerID;constraint:OnDelete:SET NULL"`
}

// CanAddMorePokemons reports whether the trainer has room for one more pokemon. Pokemons must be
// loaded.
func (t *Trainer) CanAddMorePokemons(maxPokemons int) bool {
	return len(t.Pokemons) < maxPokemons
}

func (t *Trainer) HasPokemons() bool {
	return len(t.Pokemons) > 0
}
