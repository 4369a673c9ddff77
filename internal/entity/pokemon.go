package entity

import (
	"database/sql"
	"errors"

	"gorm.io/datatypes"
)

const (
	MinPokemonLevel = 1
	MaxPokemonLevel = 100
)

var (
	ErrPokemonAlreadyOwned = errors.New("pokemon is already assigned to a trainer")
	ErrPokemonNotOwned     = errors.New("pokemon doesn't belong to a trainer")
)

type Pokemon struct {
	Base
	Name  string
	Type  string
	Level int

	// Stats holds named numeric attributes such as hp or attack. Keys are not fixed.
	Stats datatypes.JSON

	TrainerID sql.NullString `gorm:"index"`
}

func (p *Pokemon) IsOwned() bool {
	return p.TrainerID.Valid
}

func (p *Pokemon) IsOwnedBy(trainerID string) bool {
	return p.TrainerID.Valid && p.TrainerID.String == trainerID
}

// SetOwner links the pokemon to trainerID. A pokemon which already has an owner must be released
// first.
func (p *Pokemon) SetOwner(trainerID string) error {
	if p.IsOwned() {
		return ErrPokemonAlreadyOwned
	}

	p.TrainerID = sql.NullString{String: trainerID, Valid: true}
	return nil
}

func (p *Pokemon) ClearOwner() error {
	if !p.IsOwned() {
		return ErrPokemonNotOwned
	}

	p.TrainerID = sql.NullString{}
	return nil
}

func ValidPokemonLevel(level int) bool {
	return level >= MinPokemonLevel && level <= MaxPokemonLevel
}
