package entity

import (
	"context"

	"github.com/pokeleague/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Trainer{},
		&Pokemon{},
		&Battle{},
	)
}
