package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pokeleague/backend/internal/common"
	"github.com/pokeleague/backend/internal/domain/battleutil"
	"github.com/pokeleague/backend/internal/domain/ranking"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/internal/model"
	"github.com/pokeleague/backend/internal/repository"
	"github.com/pokeleague/backend/pkg/errorx"
	"github.com/pokeleague/backend/pkg/pubsub"
	"github.com/pokeleague/backend/pkg/testutil"
	"github.com/pokeleague/backend/pkg/xcache"
	"github.com/pokeleague/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type failingTrainerRepository struct {
	repository.TrainerRepository
}

func (r *failingTrainerRepository) IncreasePoints(ctx context.Context, id string, delta int64) error {
	return errors.New("deadlock found when trying to get lock")
}

type failingBattleRepository struct {
	repository.BattleRepository
}

func (r *failingBattleRepository) Delete(ctx context.Context, id string) error {
	return errors.New("lock wait timeout exceeded")
}

func newTestRankingCache(ctx context.Context) *ranking.Cache {
	return ranking.NewCache(xcache.NewMemoryCache(xcontext.Clock(ctx)))
}

func newTestBattleDomain(
	ctx context.Context, random battleutil.RandomSource, publisher *testutil.MockPublisher,
) *battleDomain {
	return NewBattleDomain(
		repository.NewTrainerRepository(),
		repository.NewPokemonRepository(),
		repository.NewBattleRepository(),
		newTestRankingCache(ctx),
		random,
		publisher,
		common.NewRoleVerifier(),
	)
}

func requirePoints(t *testing.T, ctx context.Context, trainerID string, points int64) {
	trainer, err := repository.NewTrainerRepository().GetByID(ctx, trainerID)
	require.NoError(t, err)
	require.Equal(t, points, trainer.Points, "points of %s", trainerID)
}

func requireBattleCount(t *testing.T, ctx context.Context, count int) {
	battles, err := repository.NewBattleRepository().GetList(ctx, repository.BattleFilter{})
	require.NoError(t, err)
	require.Len(t, battles, count)
}

func Test_battleDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	publisher := &testutil.MockPublisher{}

	// 75+1 against 54+20.
	domain := newTestBattleDomain(ctx, &testutil.FixedRandom{Values: []int{1, 20}}, publisher)
	resp, err := domain.Create(testutil.MockAdminContext(ctx), &model.CreateBattleRequest{
		Trainer1ID: testutil.Trainer1.ID,
		Trainer2ID: testutil.Trainer2.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 76.0, resp.Strength1)
	require.Equal(t, 74.0, resp.Strength2)
	require.Equal(t, int64(3), resp.PointsChange)
	require.Equal(t, &model.ShortTrainer{ID: testutil.Trainer1.ID, Name: testutil.Trainer1.Name}, resp.Battle.Winner)
	require.Equal(t, testutil.Now.Format(model.DefaultTimeLayout), resp.Battle.Date)

	requirePoints(t, ctx, testutil.Trainer1.ID, 3)
	requirePoints(t, ctx, testutil.Trainer2.ID, 0)
	requireBattleCount(t, ctx, 1)

	published := publisher.Published()
	require.Len(t, published, 1)
	require.Equal(t, xcontext.Configs(ctx).Kafka.BattleTopic, published[0].Topic)
	require.Equal(t, resp.Battle.ID, string(published[0].Pack.Key))

	var event model.BattleEvent
	require.NoError(t, json.Unmarshal(published[0].Pack.Msg, &event))
	require.Equal(t, model.BattleEventCreated, event.Type)
	require.Equal(t, resp.Battle, event.Battle)
}

func Test_battleDomain_Create_AnyOutcome(t *testing.T) {
	random, err := battleutil.NewRandomSource()
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		ctx := testutil.MockContext()
		testutil.CreateFixtureDb(ctx)

		resp, err := newTestBattleDomain(ctx, random, &testutil.MockPublisher{}).Create(
			testutil.MockAdminContext(ctx),
			&model.CreateBattleRequest{Trainer1ID: testutil.Trainer1.ID, Trainer2ID: testutil.Trainer2.ID},
		)
		require.NoError(t, err)
		require.NotNil(t, resp.Battle.Winner)

		winner, loser := testutil.Trainer1.ID, testutil.Trainer2.ID
		if resp.Battle.Winner.ID == testutil.Trainer2.ID {
			winner, loser = loser, winner
		}
		require.Equal(t, winner, resp.Battle.Winner.ID)
		require.Equal(t, resp.Strength1 >= resp.Strength2, winner == testutil.Trainer1.ID)

		requirePoints(t, ctx, winner, 3)
		requirePoints(t, ctx, loser, 0)
	}
}

func Test_battleDomain_Create_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		req         *model.CreateBattleRequest
		wantCode    errorx.Code
		wantSubject string
	}{
		{
			name:        "same trainer",
			req:         &model.CreateBattleRequest{Trainer1ID: testutil.Trainer1.ID, Trainer2ID: testutil.Trainer1.ID},
			wantCode:    errorx.SameTrainer,
			wantSubject: testutil.Trainer1.ID,
		},
		{
			name:        "first trainer has no pokemons",
			req:         &model.CreateBattleRequest{Trainer1ID: testutil.Trainer3.ID, Trainer2ID: testutil.Trainer1.ID},
			wantCode:    errorx.NoPokemons,
			wantSubject: testutil.Trainer3.ID,
		},
		{
			name:        "second trainer has no pokemons",
			req:         &model.CreateBattleRequest{Trainer1ID: testutil.Trainer1.ID, Trainer2ID: testutil.Trainer3.ID},
			wantCode:    errorx.NoPokemons,
			wantSubject: testutil.Trainer3.ID,
		},
		{
			name:        "unknown trainer",
			req:         &model.CreateBattleRequest{Trainer1ID: testutil.Trainer1.ID, Trainer2ID: "unknown"},
			wantCode:    errorx.NotFound,
			wantSubject: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixtureDb(ctx)
			publisher := &testutil.MockPublisher{}

			_, err := newTestBattleDomain(ctx, &testutil.FixedRandom{}, publisher).
				Create(testutil.MockAdminContext(ctx), tt.req)

			var domainErr errorx.Error
			require.ErrorAs(t, err, &domainErr)
			require.Equal(t, tt.wantCode, domainErr.Code)
			require.Equal(t, tt.wantSubject, domainErr.Subject)

			requireBattleCount(t, ctx, 0)
			for _, trainer := range testutil.Trainers {
				requirePoints(t, ctx, trainer.ID, trainer.Points)
			}
			require.Empty(t, publisher.Published())
		})
	}
}

func Test_battleDomain_Create_PermissionDenied(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestBattleDomain(ctx, &testutil.FixedRandom{}, &testutil.MockPublisher{})

	req := &model.CreateBattleRequest{Trainer1ID: testutil.Trainer1.ID, Trainer2ID: testutil.Trainer2.ID}

	// Only the user of the challenging trainer can start the battle.
	user2Ctx := testutil.MockContextWithCaller(ctx, testutil.Trainer2.UserID.String)
	_, err := domain.Create(user2Ctx, req)
	require.True(t, errorx.Is(err, errorx.PermissionDenied), "got %v", err)
	requireBattleCount(t, ctx, 0)

	// The permission is checked before the contenders are validated.
	_, err = domain.Create(user2Ctx, &model.CreateBattleRequest{
		Trainer1ID: testutil.Trainer3.ID,
		Trainer2ID: testutil.Trainer2.ID,
	})
	require.True(t, errorx.Is(err, errorx.PermissionDenied), "got %v", err)

	_, err = domain.Create(user2Ctx, &model.CreateBattleRequest{
		Trainer1ID: testutil.Trainer1.ID,
		Trainer2ID: "unknown",
	})
	require.True(t, errorx.Is(err, errorx.PermissionDenied), "got %v", err)
	requireBattleCount(t, ctx, 0)

	_, err = domain.Create(testutil.MockContextWithCaller(ctx, testutil.Trainer1.UserID.String), req)
	require.NoError(t, err)
	requireBattleCount(t, ctx, 1)
}

func Test_battleDomain_Create_Rollback(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	domain := NewBattleDomain(
		&failingTrainerRepository{TrainerRepository: repository.NewTrainerRepository()},
		repository.NewPokemonRepository(),
		repository.NewBattleRepository(),
		newTestRankingCache(ctx),
		&testutil.FixedRandom{},
		&testutil.MockPublisher{},
		common.NewRoleVerifier(),
	)

	_, err := domain.Create(testutil.MockAdminContext(ctx), &model.CreateBattleRequest{
		Trainer1ID: testutil.Trainer1.ID,
		Trainer2ID: testutil.Trainer2.ID,
	})
	require.True(t, errorx.Is(err, errorx.CreationFailed), "got %v", err)
	require.Contains(t, err.Error(), "deadlock found")

	// The battle row written before the failure is rolled back.
	requireBattleCount(t, ctx, 0)
	requirePoints(t, ctx, testutil.Trainer1.ID, 0)
}

func Test_battleDomain_Create_Date(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockAdminContext(ctx)
	domain := newTestBattleDomain(ctx, &testutil.FixedRandom{}, &testutil.MockPublisher{})

	september := time.Date(2026, time.September, 15, 18, 30, 0, 0, time.UTC)
	resp, err := domain.Create(adminCtx, &model.CreateBattleRequest{
		Trainer1ID: testutil.Trainer1.ID,
		Trainer2ID: testutil.Trainer2.ID,
		Date:       september,
	})
	require.NoError(t, err)

	battle, err := repository.NewBattleRepository().GetByID(ctx, resp.Battle.ID)
	require.NoError(t, err)
	require.True(t, september.Equal(battle.Date), "date is %v", battle.Date)

	// Without a date the battle happens now.
	resp, err = domain.Create(adminCtx, &model.CreateBattleRequest{
		Trainer1ID: testutil.Trainer1.ID,
		Trainer2ID: testutil.Trainer2.ID,
	})
	require.NoError(t, err)

	battle, err = repository.NewBattleRepository().GetByID(ctx, resp.Battle.ID)
	require.NoError(t, err)
	require.True(t, testutil.Now.Equal(battle.Date), "date is %v", battle.Date)

	rankingDomain := newTestRankingDomain(ctx)
	for _, tt := range []struct {
		now       time.Time
		wantStart string
	}{
		{now: testutil.Now, wantStart: "2026-10-01"},
		{now: september, wantStart: "2026-09-01"},
	} {
		monthCtx := xcontext.WithClock(ctx, clockwork.NewFakeClockAt(tt.now))
		stats, err := rankingDomain.GetMonthlyStats(monthCtx, &model.GetMonthlyStatsRequest{})
		require.NoError(t, err)
		require.Equal(t, tt.wantStart, stats.Period.Start)
		require.Len(t, stats.MostActive, 2)
		for _, s := range stats.MostActive {
			require.Equal(t, int64(1), s.Total, "month of %v", tt.now)
		}
	}
}

func Test_battleDomain_Delete(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockAdminContext(ctx)
	publisher := &testutil.MockPublisher{}

	// Trainer1 wins 75+20 against 54+1.
	domain := newTestBattleDomain(ctx, &testutil.FixedRandom{Values: []int{1, 20}}, publisher)
	resp, err := domain.Create(adminCtx, &model.CreateBattleRequest{
		Trainer1ID: testutil.Trainer2.ID,
		Trainer2ID: testutil.Trainer1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, testutil.Trainer1.ID, resp.Battle.Winner.ID)
	requirePoints(t, ctx, testutil.Trainer1.ID, 3)

	generation, err := domain.rankingCache.Generation(ctx)
	require.NoError(t, err)

	userCtx := testutil.MockContextWithCaller(ctx, testutil.Trainer1.UserID.String, entity.RoleTrainer)
	_, err = domain.Delete(userCtx, &model.DeleteBattleRequest{ID: resp.Battle.ID})
	require.True(t, errorx.Is(err, errorx.PermissionDenied), "got %v", err)

	_, err = domain.Delete(adminCtx, &model.DeleteBattleRequest{ID: resp.Battle.ID})
	require.NoError(t, err)

	// Points are restored exactly.
	requirePoints(t, ctx, testutil.Trainer1.ID, 0)
	requirePoints(t, ctx, testutil.Trainer2.ID, 0)
	requireBattleCount(t, ctx, 0)

	newGeneration, err := domain.rankingCache.Generation(ctx)
	require.NoError(t, err)
	require.Equal(t, generation+1, newGeneration)

	published := publisher.Published()
	require.Len(t, published, 2)
	var event model.BattleEvent
	require.NoError(t, json.Unmarshal(published[1].Pack.Msg, &event))
	require.Equal(t, model.BattleEventDeleted, event.Type)
	require.Equal(t, int64(-3), event.PointsChange)

	_, err = domain.Delete(adminCtx, &model.DeleteBattleRequest{ID: resp.Battle.ID})
	require.True(t, errorx.Is(err, errorx.NotFound), "got %v", err)
}

func Test_battleDomain_Delete_Rollback(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockAdminContext(ctx)

	resp, err := newTestBattleDomain(ctx, &testutil.FixedRandom{}, &testutil.MockPublisher{}).
		Create(adminCtx, &model.CreateBattleRequest{
			Trainer1ID: testutil.Trainer1.ID,
			Trainer2ID: testutil.Trainer2.ID,
		})
	require.NoError(t, err)
	winnerID := resp.Battle.Winner.ID
	requirePoints(t, ctx, winnerID, 3)

	publisher := &testutil.MockPublisher{}
	domain := NewBattleDomain(
		repository.NewTrainerRepository(),
		repository.NewPokemonRepository(),
		&failingBattleRepository{BattleRepository: repository.NewBattleRepository()},
		newTestRankingCache(ctx),
		&testutil.FixedRandom{},
		publisher,
		common.NewRoleVerifier(),
	)

	_, err = domain.Delete(adminCtx, &model.DeleteBattleRequest{ID: resp.Battle.ID})
	require.True(t, errorx.Is(err, errorx.DeletionFailed), "got %v", err)
	require.Contains(t, err.Error(), "lock wait timeout")

	// The points taken back before the failure are restored with the battle.
	requirePoints(t, ctx, winnerID, 3)
	requireBattleCount(t, ctx, 1)
	require.Empty(t, publisher.Published())
}

func Test_battleDomain_Delete_Draw(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	require.NoError(t, repository.NewBattleRepository().Create(ctx, &entity.Battle{
		Base:       entity.Base{ID: "draw"},
		Trainer1ID: testutil.Trainer1.ID,
		Trainer2ID: testutil.Trainer3.ID,
		Date:       testutil.Now,
	}))

	domain := newTestBattleDomain(ctx, &testutil.FixedRandom{}, &testutil.MockPublisher{})
	_, err := domain.Delete(testutil.MockAdminContext(ctx), &model.DeleteBattleRequest{ID: "draw"})
	require.NoError(t, err)

	requirePoints(t, ctx, testutil.Trainer1.ID, 0)
	requirePoints(t, ctx, testutil.Trainer3.ID, 10)
	requireBattleCount(t, ctx, 0)
}

func Test_battleDomain_Delete_PublishFailure(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockAdminContext(ctx)

	publisher := &testutil.MockPublisher{
		PublishFunc: func(context.Context, string, *pubsub.Pack) error {
			return errors.New("broker is down")
		},
	}
	domain := newTestBattleDomain(ctx, &testutil.FixedRandom{}, publisher)

	resp, err := domain.Create(adminCtx, &model.CreateBattleRequest{
		Trainer1ID: testutil.Trainer1.ID,
		Trainer2ID: testutil.Trainer2.ID,
	})
	require.NoError(t, err)

	_, err = domain.Delete(adminCtx, &model.DeleteBattleRequest{ID: resp.Battle.ID})
	require.NoError(t, err)
	require.Len(t, publisher.Published(), 2)
}

func Test_battleDomain_Simulate(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	publisher := &testutil.MockPublisher{}

	// 54+18 against 75+1.
	domain := newTestBattleDomain(ctx, &testutil.FixedRandom{Values: []int{18, 1}}, publisher)
	resp, err := domain.Simulate(ctx, &model.SimulateBattleRequest{
		Trainer1ID: testutil.Trainer2.ID,
		Trainer2ID: testutil.Trainer1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, &model.SimulateBattleResponse{
		Winner:       model.ShortTrainer{ID: testutil.Trainer1.ID, Name: testutil.Trainer1.Name},
		Loser:        model.ShortTrainer{ID: testutil.Trainer2.ID, Name: testutil.Trainer2.Name},
		PointsChange: 3,
		Strength1:    72,
		Strength2:    76,
	}, resp)

	// Nothing is written.
	requireBattleCount(t, ctx, 0)
	requirePoints(t, ctx, testutil.Trainer1.ID, 0)
	require.Empty(t, publisher.Published())

	_, err = domain.Simulate(ctx, &model.SimulateBattleRequest{
		Trainer1ID: testutil.Trainer2.ID,
		Trainer2ID: testutil.Trainer2.ID,
	})
	require.True(t, errorx.Is(err, errorx.SameTrainer), "got %v", err)

	_, err = domain.Simulate(ctx, &model.SimulateBattleRequest{
		Trainer1ID: testutil.Trainer2.ID,
		Trainer2ID: testutil.Trainer3.ID,
	})
	require.True(t, errorx.Is(err, errorx.NoPokemons), "got %v", err)
}

func Test_battleDomain_GetRecentBattles(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockAdminContext(ctx)
	clock := testutil.FakeClock(ctx)
	testutil.SamplePokemon(ctx, &entity.Pokemon{TrainerID: sql.NullString{String: testutil.Trainer3.ID, Valid: true}})

	domain := newTestBattleDomain(ctx, &testutil.FixedRandom{}, &testutil.MockPublisher{})
	ids := []string{}
	for _, pair := range [][2]string{
		{testutil.Trainer1.ID, testutil.Trainer2.ID},
		{testutil.Trainer2.ID, testutil.Trainer3.ID},
		{testutil.Trainer3.ID, testutil.Trainer1.ID},
	} {
		resp, err := domain.Create(adminCtx, &model.CreateBattleRequest{Trainer1ID: pair[0], Trainer2ID: pair[1]})
		require.NoError(t, err)
		ids = append(ids, resp.Battle.ID)
		clock.Advance(time.Minute)
	}

	resp, err := domain.GetRecentBattles(ctx, &model.GetRecentBattlesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Battles, 3)
	require.Equal(t, ids[2], resp.Battles[0].ID)

	resp, err = domain.GetRecentBattles(ctx, &model.GetRecentBattlesRequest{TrainerID: testutil.Trainer1.ID})
	require.NoError(t, err)
	require.Len(t, resp.Battles, 2)
	require.Equal(t, ids[2], resp.Battles[0].ID)
	require.Equal(t, ids[0], resp.Battles[1].ID)

	resp, err = domain.GetRecentBattles(ctx, &model.GetRecentBattlesRequest{TrainerID: testutil.Trainer2.ID, Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Battles, 1)
	require.Equal(t, ids[1], resp.Battles[0].ID)

	_, err = domain.GetRecentBattles(ctx, &model.GetRecentBattlesRequest{TrainerID: "unknown"})
	require.True(t, errorx.Is(err, errorx.NotFound), "got %v", err)

	_, err = domain.GetRecentBattles(ctx, &model.GetRecentBattlesRequest{Limit: 51})
	require.True(t, errorx.Is(err, errorx.BadRequest), "got %v", err)

	battle, err := domain.Get(ctx, &model.GetBattleRequest{ID: ids[1]})
	require.NoError(t, err)
	require.Equal(t, testutil.Trainer2.Name, battle.Battle.Trainer1.Name)
	require.Equal(t, testutil.Trainer3.Name, battle.Battle.Trainer2.Name)

	all, err := domain.GetList(ctx, &model.GetBattlesRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, all.Battles, 2)
}
