package xcontext

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"
	"github.com/pokeleague/backend/config"
	"github.com/pokeleague/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTransactionKey struct{}
	clockKey         struct{}
	requestUserIDKey struct{}
	requestRolesKey  struct{}
)

// ErrTransactionAborted is returned when committing a transaction which a nested scope has
// already rolled back.
var ErrTransactionAborted = errors.New("transaction was rolled back by a nested scope")

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Default()
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.INFO)
	}

	return l
}

func WithClock(ctx context.Context, clock clockwork.Clock) context.Context {
	return context.WithValue(ctx, clockKey{}, clock)
}

func Clock(ctx context.Context) clockwork.Clock {
	clock, ok := ctx.Value(clockKey{}).(clockwork.Clock)
	if !ok {
		return clockwork.NewRealClock()
	}

	return clock
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, _ := ctx.Value(requestUserIDKey{}).(string)
	return id
}

// WithRequestRoles attaches the roles resolved for the caller of this request. Domains verify
// them instead of looking up permissions on their own.
func WithRequestRoles(ctx context.Context, roles ...string) context.Context {
	return context.WithValue(ctx, requestRolesKey{}, roles)
}

func RequestRoles(ctx context.Context) []string {
	roles, _ := ctx.Value(requestRolesKey{}).([]string)
	return roles
}

type dbTransaction struct {
	tx       *gorm.DB
	parent   *dbTransaction
	finished bool

	// rollbackOnly is set on the outermost transaction when a nested scope rolls back.
	rollbackOnly bool
}

func (t *dbTransaction) root() *dbTransaction {
	if t.parent != nil {
		return t.parent.root()
	}

	return t
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction of ctx if there is one, otherwise the plain database.
func DB(ctx context.Context) *gorm.DB {
	if t := currentTransaction(ctx); t != nil {
		return t.tx
	}

	db, _ := ctx.Value(dbKey{}).(*gorm.DB)
	return db
}

// InTransaction reports whether DB(ctx) currently returns a transaction.
func InTransaction(ctx context.Context) bool {
	return currentTransaction(ctx) != nil
}

func currentTransaction(ctx context.Context) *dbTransaction {
	t, _ := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	for t != nil && t.finished {
		t = t.parent
	}

	if t == nil || t.root().finished {
		return nil
	}

	return t
}

// WithDBTransaction begins a transaction and returns a context whose DB() is that transaction.
// When ctx already carries a running transaction, the returned scope joins it: committing the
// nested scope is a no-op and rolling it back marks the outer transaction as rollback-only.
func WithDBTransaction(ctx context.Context) context.Context {
	if parent := currentTransaction(ctx); parent != nil {
		return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: parent.tx, parent: parent})
	}

	tx := DB(ctx).Begin()
	return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: tx})
}

// WithCommitDBTransaction commits the transaction started by WithDBTransaction.
func WithCommitDBTransaction(ctx context.Context) error {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok || t.finished {
		return nil
	}

	t.finished = true
	if t.parent != nil {
		return nil
	}

	if t.rollbackOnly {
		t.tx.Rollback()
		return ErrTransactionAborted
	}

	return t.tx.Commit().Error
}

// WithRollbackDBTransaction rollbacks the transaction if it has not been committed yet. It is
// safe to defer it right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) {
	t, ok := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	if !ok || t.finished {
		return
	}

	t.finished = true
	if t.parent != nil {
		t.root().rollbackOnly = true
		return
	}

	t.tx.Rollback()
}
