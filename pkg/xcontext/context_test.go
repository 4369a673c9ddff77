package xcontext_test

import (
	"context"
	"testing"

	"github.com/pokeleague/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type counter struct {
	ID    string `gorm:"primarykey"`
	Value int
}

func newTestContext(t *testing.T) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&counter{}))
	return xcontext.WithDB(context.Background(), db)
}

func countRows(t *testing.T, ctx context.Context) int64 {
	var n int64
	require.NoError(t, xcontext.DB(ctx).Model(&counter{}).Count(&n).Error)
	return n
}

func TestTransaction_Commit(t *testing.T) {
	ctx := newTestContext(t)

	txCtx := xcontext.WithDBTransaction(ctx)
	require.True(t, xcontext.InTransaction(txCtx))
	require.NoError(t, xcontext.DB(txCtx).Create(&counter{ID: "a"}).Error)
	require.NoError(t, xcontext.WithCommitDBTransaction(txCtx))

	// Rollback after commit is a no-op.
	xcontext.WithRollbackDBTransaction(txCtx)
	require.False(t, xcontext.InTransaction(txCtx))
	require.Equal(t, int64(1), countRows(t, ctx))
}

func TestTransaction_Rollback(t *testing.T) {
	ctx := newTestContext(t)

	txCtx := xcontext.WithDBTransaction(ctx)
	require.NoError(t, xcontext.DB(txCtx).Create(&counter{ID: "a"}).Error)
	xcontext.WithRollbackDBTransaction(txCtx)

	require.Equal(t, int64(0), countRows(t, ctx))
}

func TestTransaction_Nested(t *testing.T) {
	ctx := newTestContext(t)

	outer := xcontext.WithDBTransaction(ctx)
	inner := xcontext.WithDBTransaction(outer)
	require.NoError(t, xcontext.DB(inner).Create(&counter{ID: "a"}).Error)

	// Committing the nested scope does not commit the outer transaction.
	require.NoError(t, xcontext.WithCommitDBTransaction(inner))
	require.True(t, xcontext.InTransaction(inner))
	require.NoError(t, xcontext.DB(inner).Create(&counter{ID: "b"}).Error)

	require.NoError(t, xcontext.WithCommitDBTransaction(outer))
	require.Equal(t, int64(2), countRows(t, ctx))
}

func TestTransaction_NestedRollbackAbortsOuter(t *testing.T) {
	ctx := newTestContext(t)

	outer := xcontext.WithDBTransaction(ctx)
	require.NoError(t, xcontext.DB(outer).Create(&counter{ID: "a"}).Error)

	inner := xcontext.WithDBTransaction(outer)
	xcontext.WithRollbackDBTransaction(inner)

	err := xcontext.WithCommitDBTransaction(outer)
	require.ErrorIs(t, err, xcontext.ErrTransactionAborted)
	require.Equal(t, int64(0), countRows(t, ctx))
}

func TestRequestCaller(t *testing.T) {
	ctx := context.Background()
	require.Empty(t, xcontext.RequestUserID(ctx))
	require.Empty(t, xcontext.RequestRoles(ctx))

	ctx = xcontext.WithRequestUserID(ctx, "user1")
	ctx = xcontext.WithRequestRoles(ctx, "admin")
	require.Equal(t, "user1", xcontext.RequestUserID(ctx))
	require.Equal(t, []string{"admin"}, xcontext.RequestRoles(ctx))
}
