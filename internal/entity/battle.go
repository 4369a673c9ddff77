package entity

import (
	"database/sql"
	"errors"
	"time"
)

var (
	ErrBattleSameTrainer   = errors.New("a trainer cannot battle against themselves")
	ErrBattleInvalidWinner = errors.New("the winner must be one of the battle participants")
)

type Battle struct {
	Base

	Trainer1ID string  `gorm:"index"`
	Trainer1   Trainer `gorm:"foreignKey:Trainer1ID;constraint:OnDelete:CASCADE"`
	Trainer2ID string  `gorm:"index"`
	Trainer2   Trainer `gorm:"foreignKey:Trainer2ID;constraint:OnDelete:CASCADE"`

	// WinnerID is null for a draw. Otherwise it is one of the participants, so deleting the
	// winner cascades through Trainer1 or Trainer2.
	WinnerID sql.NullString `gorm:"index"`

	Date time.Time `gorm:"index"`
}

func (b *Battle) Validate() error {
	if b.Trainer1ID == b.Trainer2ID {
		return ErrBattleSameTrainer
	}

	if b.WinnerID.Valid && !b.Participates(b.WinnerID.String) {
		return ErrBattleInvalidWinner
	}

	return nil
}

func (b *Battle) Participates(trainerID string) bool {
	return b.Trainer1ID == trainerID || b.Trainer2ID == trainerID
}

func (b *Battle) IsDraw() bool {
	return !b.WinnerID.Valid
}

// WinnerTrainer returns the loaded participant which won the battle, or nil for a draw.
func (b *Battle) WinnerTrainer() *Trainer {
	if !b.WinnerID.Valid {
		return nil
	}

	if b.WinnerID.String == b.Trainer1ID {
		return &b.Trainer1
	}

	return &b.Trainer2
}

// TrainerBattleStatistic is an aggregated row, not a table.
type TrainerBattleStatistic struct {
	TrainerID string
	Total     int64
}
