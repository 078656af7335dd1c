package cron

import (
	"context"
	"fmt"
	"time"

	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	// leaseTTL is shorter than any sweep interval, so only the tick is claimed.
	leaseTTL     = 50 * time.Second
	sweepTimeout = 2 * time.Minute
)

// Sweeper is a periodic job. Sweep reports how many items it handled.
type Sweeper interface {
	Name() string
	Sweep(ctx context.Context) (int, error)
}

// Scheduler fires sweeps on cron specs in the gym's timezone.
type Scheduler struct {
	cron   *robfig.Cron
	lease  Lease
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(loc *time.Location, lease Lease, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: robfig.New(
			robfig.WithLocation(loc),
			robfig.WithLogger(cl),
			robfig.WithChain(robfig.Recover(cl), robfig.SkipIfStillRunning(cl)),
		),
		lease:  lease,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register schedules job on spec ("@every 5m", "0 9 * * *", ...).
func (s *Scheduler) Register(spec string, job Sweeper) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(job) }); err != nil {
		return fmt.Errorf("schedule %s on %q: %w", job.Name(), spec, err)
	}
	s.logger.Info("sweep scheduled", zap.String("job", job.Name()), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop stops firing new sweeps and waits for running ones, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.cancel()
		<-done.Done()
	}
	s.cancel()
}

func (s *Scheduler) run(job Sweeper) {
	ctx, cancel := context.WithTimeout(s.ctx, sweepTimeout)
	defer cancel()

	ok, err := s.lease.Acquire(ctx, job.Name(), leaseTTL)
	if err != nil {
		s.logger.Warn("sweep lease unavailable, skipping tick", zap.String("job", job.Name()), zap.Error(err))
		return
	}
	if !ok {
		s.logger.Debug("sweep tick claimed elsewhere", zap.String("job", job.Name()))
		return
	}

	n, err := job.Sweep(ctx)
	if err != nil {
		s.logger.Error("sweep failed", zap.String("job", job.Name()), zap.Int("processed", n), zap.Error(err))
		return
	}
	s.logger.Debug("sweep done", zap.String("job", job.Name()), zap.Int("processed", n))
}

// cronLogger routes robfig/cron's logging into zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
