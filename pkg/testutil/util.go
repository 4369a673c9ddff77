package testutil

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pokeleague/backend/config"
	"github.com/pokeleague/backend/internal/entity"
	"github.com/pokeleague/backend/pkg/logger"
	"github.com/pokeleague/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Now is the time the fake clock of MockContext starts at.
var Now = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to :memory: opens a different database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, config.Default())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithClock(ctx, clockwork.NewFakeClockAt(Now))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

// MockContextWithCaller returns a child of ctx whose request is made by userID with the given
// roles. The database is shared with ctx.
func MockContextWithCaller(ctx context.Context, userID string, roles ...string) context.Context {
	ctx = xcontext.WithRequestUserID(ctx, userID)
	return xcontext.WithRequestRoles(ctx, roles...)
}

func MockAdminContext(ctx context.Context) context.Context {
	return MockContextWithCaller(ctx, "admin", entity.RoleAdmin)
}

// FakeClock returns the clock of a context built by MockContext.
func FakeClock(ctx context.Context) *clockwork.FakeClock {
	return xcontext.Clock(ctx).(*clockwork.FakeClock)
}
