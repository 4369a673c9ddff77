package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_battleRepository_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewBattleRepository()

	for i, b := range []struct{ id, t1, t2 string }{
		{"battle1", testutil.Trainer1.ID, testutil.Trainer2.ID},
		{"battle2", testutil.Trainer2.ID, testutil.Trainer3.ID},
		{"battle3", testutil.Trainer3.ID, testutil.Trainer1.ID},
	} {
		require.NoError(t, repo.Create(ctx, &entity.Battle{
			Base:       entity.Base{ID: b.id},
			Trainer1ID: b.t1,
			Trainer2ID: b.t2,
			WinnerID:   sql.NullString{String: b.t1, Valid: true},
			Date:       testutil.Now.Add(time.Duration(i) * time.Minute),
		}))
	}

	battles, err := repo.GetList(ctx, BattleFilter{})
	require.NoError(t, err)
	require.Len(t, battles, 3)
	require.Equal(t, "battle3", battles[0].ID)
	require.Equal(t, testutil.Trainer3.Name, battles[0].Trainer1.Name)
	require.Equal(t, testutil.Trainer3.Name, battles[0].WinnerTrainer().Name)

	battles, err = repo.GetList(ctx, BattleFilter{TrainerID: testutil.Trainer1.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, battles, 1)
	require.Equal(t, "battle3", battles[0].ID)

	battles, err = repo.GetList(ctx, BattleFilter{TrainerID: testutil.Trainer2.ID})
	require.NoError(t, err)
	require.Len(t, battles, 2)
	require.Equal(t, "battle2", battles[0].ID)
	require.Equal(t, "battle1", battles[1].ID)

	require.NoError(t, repo.DeleteByTrainerID(ctx, testutil.Trainer2.ID))
	battles, err = repo.GetList(ctx, BattleFilter{})
	require.NoError(t, err)
	require.Len(t, battles, 1)

	require.NoError(t, repo.Delete(ctx, "battle3"))
	require.ErrorIs(t, repo.Delete(ctx, "battle3"), gorm.ErrRecordNotFound)
}

func Test_battleRepository_Statistic(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := NewBattleRepository()

	from := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	for _, b := range []struct {
		id, t1, t2, winner string
		date               time.Time
	}{
		{"battle1", testutil.Trainer1.ID, testutil.Trainer2.ID, testutil.Trainer1.ID, from},
		{"battle2", testutil.Trainer1.ID, testutil.Trainer3.ID, testutil.Trainer1.ID, from.Add(time.Hour)},
		{"battle3", testutil.Trainer2.ID, testutil.Trainer3.ID, testutil.Trainer3.ID, from.Add(2 * time.Hour)},
		{"battle4", testutil.Trainer2.ID, testutil.Trainer1.ID, "", from.Add(3 * time.Hour)},
		// Out of range.
		{"battle5", testutil.Trainer3.ID, testutil.Trainer2.ID, testutil.Trainer3.ID, to},
	} {
		battle := &entity.Battle{
			Base:       entity.Base{ID: b.id},
			Trainer1ID: b.t1,
			Trainer2ID: b.t2,
			Date:       b.date,
		}
		if b.winner != "" {
			battle.WinnerID = sql.NullString{String: b.winner, Valid: true}
		}
		require.NoError(t, repo.Create(ctx, battle))
	}

	participation, err := repo.StatisticParticipation(ctx, from, to, 5)
	require.NoError(t, err)
	require.Equal(t, []entity.TrainerBattleStatistic{
		{TrainerID: testutil.Trainer1.ID, Total: 3},
		{TrainerID: testutil.Trainer2.ID, Total: 3},
		{TrainerID: testutil.Trainer3.ID, Total: 2},
	}, participation)

	wins, err := repo.StatisticWins(ctx, from, to, 1)
	require.NoError(t, err)
	require.Equal(t, []entity.TrainerBattleStatistic{
		{TrainerID: testutil.Trainer1.ID, Total: 2},
	}, wins)
}
