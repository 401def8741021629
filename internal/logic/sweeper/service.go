package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mateiidavid/linkerd-sweep/internal/infra/metrics"
)

// resyncScheduler computes cron occurrences for the scheduled deep resync.
// Implemented by infra/cronparser.
type resyncScheduler interface {
	NextAfter(spec, tz string, after time.Time) (time.Time, error)
}

// Options carries the tunables for the orchestrator.
type Options struct {
	RescanInterval      time.Duration
	SweptRecordTTL      time.Duration
	MaxConcurrentSweeps int
	// ResyncSchedule is an optional cron spec; when set, failed records are
	// reset to pending at each occurrence. Empty disables the deep resync.
	ResyncSchedule string
	ResyncTZ       string
}

// Service is the reconciliation orchestrator. A single dispatch goroutine
// consumes watch events so same-pod events are applied in arrival order;
// eligible pods are claimed (pending -> in-progress) before the shutdown call
// is handed to a bounded worker pool, so at most one shutdown is in flight
// per pod no matter how many duplicate events arrive.
type Service struct {
	logger  *slog.Logger
	source  WatchSource
	proxy   ProxyClient
	tracker *Tracker
	opts    Options
	cron    resyncScheduler

	sem        chan struct{}
	wg         sync.WaitGroup
	ready      chan struct{}
	doneCh     chan struct{}
	inShutdown atomic.Bool

	mu                sync.RWMutex
	lastRescanEndTime time.Time
}

// New creates a new sweeper service.
func New(
	logger *slog.Logger,
	source WatchSource,
	proxy ProxyClient,
	tracker *Tracker,
	cron resyncScheduler,
	opts Options,
) *Service {
	if opts.MaxConcurrentSweeps < 1 {
		opts.MaxConcurrentSweeps = 1
	}

	return &Service{
		logger:  logger,
		source:  source,
		proxy:   proxy,
		tracker: tracker,
		opts:    opts,
		cron:    cron,
		sem:     make(chan struct{}, opts.MaxConcurrentSweeps),
		ready:   make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Name returns the name of the sweeper component.
func (s *Service) Name() string {
	return "sweeper"
}

// Start launches the dispatch loop in a goroutine.
func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "sweeper is shutting down, skipping start")

		return nil
	}

	go s.RunCommand(ctx)

	return nil
}

// Ready returns a channel that is closed once the dispatch loop is running.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Ping reports loop liveness: an error before the loop started, or when the
// periodic re-scan has not completed for two intervals.
func (s *Service) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
		age := s.getLastRescanAge()
		if age > 2*s.opts.RescanInterval {
			return fmt.Errorf("last re-scan was too long ago: %s", age.Round(time.Second).String())
		}

		return nil
	default:
		return fmt.Errorf("sweeper is not ready")
	}
}

// Shutdown waits for the dispatch loop and all in-flight sweeps to finish.
// Cancelled sweeps revert their pod to pending, so a restarted controller
// retries cleanly.
func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "sweeper is already shutting down, skipping shutdown")

		return nil
	}

	defer func() {
		s.logger.InfoContext(ctx, "sweeper shut downed")
	}()

	s.logger.InfoContext(ctx, "shutting down sweeper")

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before sweeper loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "sweeper loop exited")
	}

	s.wg.Wait()

	return nil
}

// RunCommand runs the dispatch loop until the context is cancelled or the
// event stream closes.
func (s *Service) RunCommand(ctx context.Context) {
	defer close(s.doneCh)

	logger := s.logger.With("sweeper", "RunCommand")

	ticker := time.NewTicker(s.opts.RescanInterval)
	defer ticker.Stop()

	resyncTimer, resyncC := s.scheduleResync(ctx, logger, nil)
	if resyncTimer != nil {
		defer resyncTimer.Stop()
	}

	events := s.source.Events()

	s.setLastRescanEndTime()
	close(s.ready)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				logger.ErrorContext(ctx, "event stream closed, terminating", "reason", ErrWatchClosed)

				return
			}

			s.handleEvent(ctx, logger, ev)
		case <-ticker.C:
			s.rescanCommand(ctx, logger)
		case <-resyncC:
			reset := s.tracker.ResetFailed()
			logger.InfoContext(ctx, "deep resync: failed records reset to pending", "count", reset)
			s.rescanCommand(ctx, logger)

			resyncTimer, resyncC = s.scheduleResync(ctx, logger, resyncTimer)
		case <-ctx.Done():
			logger.InfoContext(ctx, "terminating sweeper loop")

			return
		}
	}
}

// scheduleResync arms the deep-resync timer for the next cron occurrence.
// Returns a nil channel (blocks forever in select) when no schedule is set.
func (s *Service) scheduleResync(
	ctx context.Context,
	logger *slog.Logger,
	timer *time.Timer,
) (*time.Timer, <-chan time.Time) {
	if s.opts.ResyncSchedule == "" || s.cron == nil {
		return nil, nil
	}

	next, err := s.cron.NextAfter(s.opts.ResyncSchedule, s.opts.ResyncTZ, time.Now())
	if err != nil {
		logger.ErrorContext(ctx, "parse resync schedule, deep resync disabled",
			"schedule", s.opts.ResyncSchedule,
			"reason", err,
		)

		return nil, nil
	}

	wait := time.Until(next)

	if timer == nil {
		timer = time.NewTimer(wait)
	} else {
		timer.Reset(wait)
	}

	logger.DebugContext(ctx, "deep resync scheduled", "at", next)

	return timer, timer.C
}

func (s *Service) handleEvent(ctx context.Context, logger *slog.Logger, ev Event) {
	metrics.RecordWatchEvent(string(ev.Type))

	rec, changed := s.tracker.Apply(ev)
	if !changed {
		return
	}

	s.reconcilePod(ctx, logger, rec)
}

// rescanCommand re-evaluates all pending records. This covers pods whose
// eligible state will never produce another watch event (e.g. a shutdown
// attempt that came back unreachable), and expires stale swept records.
func (s *Service) rescanCommand(ctx context.Context, logger *slog.Logger) {
	defer s.setLastRescanEndTime()

	pending := s.tracker.Pending()

	for i := range pending {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.reconcilePod(ctx, logger, pending[i])
	}

	expired := s.tracker.ExpireSwept(s.opts.SweptRecordTTL)
	if expired > 0 {
		logger.DebugContext(ctx, "expired swept records", "count", expired)
	}
}

// reconcilePod evaluates one record and, if eligible, claims it and hands the
// shutdown call to the worker pool.
func (s *Service) reconcilePod(ctx context.Context, logger *slog.Logger, rec PodRecord) {
	decision := Evaluate(rec)
	if decision != DecisionEligible {
		logger.DebugContext(ctx, "pod not eligible for sweep",
			"pod", rec.ID.Name,
			"namespace", rec.ID.Namespace,
			"decision", string(decision),
		)

		return
	}

	if !s.tracker.Claim(rec.ID) {
		// Lost the race to a concurrent duplicate event.
		return
	}

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		s.tracker.Release(rec.ID)

		return
	}

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer func() { <-s.sem }()

		s.sweepPodCommand(ctx, logger, rec)
	}()
}

// sweepPodCommand issues the admin shutdown call and records the outcome.
func (s *Service) sweepPodCommand(ctx context.Context, logger *slog.Logger, rec PodRecord) {
	logger = logger.With(
		"pod", rec.ID.Name,
		"namespace", rec.ID.Namespace,
		"ip", rec.IP,
	)

	logger.InfoContext(ctx, "sweeping pod: shutting down proxy")

	err := s.proxy.Shutdown(ctx, rec.ID, rec.IP)

	switch {
	case err == nil:
		s.tracker.MarkSwept(rec.ID)
		metrics.RecordSweep(rec.ID.Namespace, metrics.SweepResultSwept)
		logger.InfoContext(ctx, "pod swept")
	case isAlreadyStopped(err):
		s.tracker.MarkSwept(rec.ID)
		metrics.RecordSweep(rec.ID.Namespace, metrics.SweepResultAlreadyStopped)
		logger.InfoContext(ctx, "proxy already stopped, pod swept")
	case errors.Is(err, context.Canceled):
		// Controller shutdown mid-call; revert so a restart retries.
		s.tracker.Release(rec.ID)
		logger.InfoContext(ctx, "sweep cancelled, pod reverted to pending")
	case isRejected(err):
		s.tracker.MarkFailed(rec.ID, err.Error())
		metrics.RecordSweep(rec.ID.Namespace, metrics.SweepResultRejected)
		logger.ErrorContext(ctx, "proxy rejected shutdown, not retrying",
			"reason", err,
		)
	default:
		// Unreachable and anything unclassified: transient, retry later.
		s.tracker.Release(rec.ID)
		metrics.RecordSweep(rec.ID.Namespace, metrics.SweepResultUnreachable)
		logger.WarnContext(ctx, "proxy unreachable, will retry",
			"reason", err,
		)
	}
}

func isAlreadyStopped(err error) bool {
	var target alreadyStopped

	return errors.As(err, &target)
}

func isRejected(err error) bool {
	var target rejected

	return errors.As(err, &target)
}

func (s *Service) getLastRescanAge() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return time.Since(s.lastRescanEndTime)
}

func (s *Service) setLastRescanEndTime() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastRescanEndTime = time.Now()
}
