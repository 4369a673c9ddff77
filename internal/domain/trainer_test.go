package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/pokeleague/backend/internal/common"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/internal/model"
	"github.com/pokeleague/backend/internal/repository"
	"github.com/pokeleague/backend/pkg/errorx"
	"github.com/pokeleague/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestTrainerDomain(ctx context.Context) *trainerDomain {
	return NewTrainerDomain(
		repository.NewTrainerRepository(),
		repository.NewPokemonRepository(),
		repository.NewBattleRepository(),
		newTestRankingCache(ctx),
		common.NewRoleVerifier(),
	)
}

func Test_trainerDomain_Create(t *testing.T) {
	tests := []struct {
		name     string
		ctx      func(context.Context) context.Context
		req      *model.CreateTrainerRequest
		wantCode errorx.Code
	}{
		{
			name: "happy case",
			ctx:  testutil.MockAdminContext,
			req:  &model.CreateTrainerRequest{Name: " Gary ", Points: 7},
		},
		{
			name: "not admin",
			ctx: func(ctx context.Context) context.Context {
				return testutil.MockContextWithCaller(ctx, "user1", entity.RoleTrainer)
			},
			req:      &model.CreateTrainerRequest{Name: "Gary"},
			wantCode: errorx.PermissionDenied,
		},
		{
			name:     "empty name",
			ctx:      testutil.MockAdminContext,
			req:      &model.CreateTrainerRequest{Name: "  "},
			wantCode: errorx.BadRequest,
		},
		{
			name:     "name too long",
			ctx:      testutil.MockAdminContext,
			req:      &model.CreateTrainerRequest{Name: strings.Repeat("a", 65)},
			wantCode: errorx.BadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			domain := newTestTrainerDomain(ctx)

			resp, err := domain.Create(tt.ctx(ctx), tt.req)
			if tt.wantCode != 0 {
				require.True(t, errorx.Is(err, tt.wantCode), "got %v", err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "Gary", resp.Trainer.Name)
			require.Equal(t, int64(7), resp.Trainer.Points)
			require.Empty(t, resp.Trainer.UserID)
			requirePoints(t, ctx, resp.Trainer.ID, 7)
		})
	}
}

func Test_trainerDomain_Register(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestTrainerDomain(ctx)

	_, err := domain.Register(ctx, &model.RegisterTrainerRequest{Name: "Gary"})
	require.True(t, errorx.Is(err, errorx.Unauthenticated), "got %v", err)

	// user1 already has Trainer1.
	_, err = domain.Register(testutil.MockContextWithCaller(ctx, "user1"), &model.RegisterTrainerRequest{Name: "Gary"})
	require.True(t, errorx.Is(err, errorx.AlreadyExists), "got %v", err)

	userCtx := testutil.MockContextWithCaller(ctx, "user9")
	resp, err := domain.Register(userCtx, &model.RegisterTrainerRequest{Name: "Gary"})
	require.NoError(t, err)
	require.Equal(t, "user9", resp.Trainer.UserID)
	require.Equal(t, int64(0), resp.Trainer.Points)

	_, err = domain.Register(userCtx, &model.RegisterTrainerRequest{Name: "Gary"})
	require.True(t, errorx.Is(err, errorx.AlreadyExists), "got %v", err)
}

func Test_trainerDomain_Get(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestTrainerDomain(ctx)

	resp, err := domain.Get(ctx, &model.GetTrainerRequest{ID: testutil.Trainer1.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.Trainer1.Name, resp.Trainer.Name)
	require.Equal(t, int64(2), resp.Rank)
	require.Len(t, resp.Trainer.Pokemons, 1)
	require.Equal(t, testutil.Pokemon1.ID, resp.Trainer.Pokemons[0].ID)

	list, err := domain.GetList(ctx, &model.GetTrainersRequest{})
	require.NoError(t, err)
	require.Len(t, list.Trainers, 3)
	require.Equal(t, testutil.Trainer1.ID, list.Trainers[0].ID)
	require.Len(t, list.Trainers[1].Pokemons, 1)
	require.Empty(t, list.Trainers[2].Pokemons)

	_, err = domain.Get(ctx, &model.GetTrainerRequest{ID: "unknown"})
	require.True(t, errorx.Is(err, errorx.NotFound), "got %v", err)
}

func Test_trainerDomain_Update(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestTrainerDomain(ctx)

	ownerCtx := testutil.MockContextWithCaller(ctx, testutil.Trainer1.UserID.String, entity.RoleTrainer)
	resp, err := domain.Update(ownerCtx, &model.UpdateTrainerRequest{ID: testutil.Trainer1.ID, Name: "Red"})
	require.NoError(t, err)
	require.Equal(t, "Red", resp.Trainer.Name)

	otherCtx := testutil.MockContextWithCaller(ctx, testutil.Trainer2.UserID.String, entity.RoleTrainer)
	_, err = domain.Update(otherCtx, &model.UpdateTrainerRequest{ID: testutil.Trainer1.ID, Name: "Blue"})
	require.True(t, errorx.Is(err, errorx.PermissionDenied), "got %v", err)

	_, err = domain.Update(ownerCtx, &model.UpdateTrainerRequest{ID: testutil.Trainer1.ID})
	require.True(t, errorx.Is(err, errorx.BadRequest), "got %v", err)

	trainer, err := repository.NewTrainerRepository().GetByID(ctx, testutil.Trainer1.ID)
	require.NoError(t, err)
	require.Equal(t, "Red", trainer.Name)
}

func Test_trainerDomain_Delete(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockAdminContext(ctx)

	battleDomain := newTestBattleDomain(ctx, &testutil.FixedRandom{}, &testutil.MockPublisher{})
	_, err := battleDomain.Create(adminCtx, &model.CreateBattleRequest{
		Trainer1ID: testutil.Trainer1.ID,
		Trainer2ID: testutil.Trainer2.ID,
	})
	require.NoError(t, err)

	domain := newTestTrainerDomain(ctx)
	_, err = domain.Delete(testutil.MockContextWithCaller(ctx, "user1", entity.RoleTrainer),
		&model.DeleteTrainerRequest{ID: testutil.Trainer1.ID})
	require.True(t, errorx.Is(err, errorx.PermissionDenied), "got %v", err)

	_, err = domain.Delete(adminCtx, &model.DeleteTrainerRequest{ID: testutil.Trainer1.ID})
	require.NoError(t, err)

	_, err = repository.NewTrainerRepository().GetByID(ctx, testutil.Trainer1.ID)
	require.Error(t, err)

	// Its pokemon is released, its battles are gone and the others keep their points.
	requireOwner(t, ctx, testutil.Pokemon1.ID, "")
	requireBattleCount(t, ctx, 0)
	requirePoints(t, ctx, testutil.Trainer2.ID, 0)

	_, err = domain.Delete(adminCtx, &model.DeleteTrainerRequest{ID: testutil.Trainer1.ID})
	require.True(t, errorx.Is(err, errorx.NotFound), "got %v", err)
}
