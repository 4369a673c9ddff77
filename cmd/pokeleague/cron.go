package main

import (
	"os/signal"
	"syscall"

	"github.com/pokeleague/backend/internal/domain/cron"
	"github.com/pokeleague/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronJobManager := cron.NewCronJobManager(xcontext.Clock(ctx))
	cronJobManager.Register(cron.NewRankingWarmupCronJob(
		s.rankingDomain,
		xcontext.Configs(ctx).Cron.RankingWarmupInterval,
	))

	return cronJobManager.Start(ctx)
}
