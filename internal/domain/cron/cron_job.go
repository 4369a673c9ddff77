package cron

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/pokeleague/backend/pkg/xcontext"
)

type CronJob interface {
	Do(context.Context)
	RunNow() bool
	Definition() gocron.JobDefinition
}

type CronJobManager struct {
	clock clockwork.Clock
	jobs  []CronJob
}

func NewCronJobManager(clock clockwork.Clock) *CronJobManager {
	return &CronJobManager{clock: clock}
}

func (m *CronJobManager) Register(job CronJob) {
	m.jobs = append(m.jobs, job)
}

// Start schedules every registered job and blocks until ctx is done. A job never overlaps with
// its own previous run.
func (m *CronJobManager) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler(
		gocron.WithClock(m.clock),
		gocron.WithLogger(&schedulerLogger{ctx: ctx}),
	)
	if err != nil {
		return err
	}

	for _, job := range m.jobs {
		options := []gocron.JobOption{
			gocron.WithName(fmt.Sprintf("%T", job)),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		}

		if job.RunNow() {
			options = append(options, gocron.WithStartAt(gocron.WithStartImmediately()))
		}

		_, err := scheduler.NewJob(job.Definition(), gocron.NewTask(func() { m.run(ctx, job) }), options...)
		if err != nil {
			return fmt.Errorf("cannot schedule %T: %w", job, err)
		}
	}

	xcontext.Logger(ctx).Infof("Cron job manager started")
	scheduler.Start()

	<-ctx.Done()
	if err := scheduler.Shutdown(); err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof("Cron job manager stopped")
	return nil
}

func (m *CronJobManager) run(ctx context.Context, job CronJob) {
	xcontext.Logger(ctx).Infof("%T is running...", job)
	job.Do(ctx)
	xcontext.Logger(ctx).Infof("%T ok", job)
}

// schedulerLogger forwards the scheduler logs to the logger of the context.
type schedulerLogger struct {
	ctx context.Context
}

func (l *schedulerLogger) Debug(msg string, args ...any) {
	xcontext.Logger(l.ctx).Debugf("%s %v", msg, args)
}

func (l *schedulerLogger) Info(msg string, args ...any) {
	xcontext.Logger(l.ctx).Infof("%s %v", msg, args)
}

func (l *schedulerLogger) Warn(msg string, args ...any) {
	xcontext.Logger(l.ctx).Warnf("%s %v", msg, args)
}

func (l *schedulerLogger) Error(msg string, args ...any) {
	xcontext.Logger(l.ctx).Errorf("%s %v", msg, args)
}
