package cron

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/pokeleague/backend/internal/domain"
	"github.com/pokeleague/backend/internal/model"
	"github.com/pokeleague/backend/pkg/xcontext"
)

// RankingWarmupCronJob fills the ranking views which are read the most, so the first reader after
// an invalidation or an expiration doesn't pay for the query.
type RankingWarmupCronJob struct {
	rankingDomain domain.RankingDomain
	interval      time.Duration
}

func NewRankingWarmupCronJob(rankingDomain domain.RankingDomain, interval time.Duration) *RankingWarmupCronJob {
	return &RankingWarmupCronJob{
		rankingDomain: rankingDomain,
		interval:      interval,
	}
}

func (job *RankingWarmupCronJob) Do(ctx context.Context) {
	if _, err := job.rankingDomain.GetFullRanking(ctx, &model.GetFullRankingRequest{}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot warm up full ranking: %v", err)
	}

	for _, count := range xcontext.Configs(ctx).Cron.WarmupTopCounts {
		_, err := job.rankingDomain.GetTopTrainers(ctx, &model.GetTopTrainersRequest{Count: count})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot warm up top %d trainers: %v", count, err)
		}
	}

	if _, err := job.rankingDomain.GetMonthlyStats(ctx, &model.GetMonthlyStatsRequest{}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot warm up monthly stats: %v", err)
	}
}

func (job *RankingWarmupCronJob) RunNow() bool {
	return true
}

func (job *RankingWarmupCronJob) Definition() gocron.JobDefinition {
	return gocron.DurationJob(job.interval)
}
