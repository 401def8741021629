package pinger

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mateiidavid/linkerd-sweep/internal/infra/shutdown"
)

// defaultPingTimeout is the default timeout for ping operations
const defaultPingTimeout = 1 * time.Second

// Optional interface types for type assertions
type readyCriticalPinger interface {
	PingerReadyCritical() bool
}

type healthCriticalPinger interface {
	PingerCritical() bool
}

type timeoutPinger interface {
	PingerTimeout() time.Duration
}

// pingerInfo holds pinger instance and its configuration
type pingerInfo struct {
	pinger         Pinger
	readyCritical  bool
	healthCritical bool
	timeout        time.Duration
}

// Statistics is a point-in-time view of one component's ping results.
type Statistics struct {
	IsReady      bool
	IsHealthy    bool
	LastRun      time.Time
	LastLatency  time.Duration
	LastError    error
	SuccessCount uint64
	ErrorCount   uint64
}

// stats is the mutable counterpart of Statistics.
type stats struct {
	mu           sync.Mutex
	lastRun      time.Time
	lastLatency  time.Duration
	lastError    error
	successCount uint64
	errorCount   uint64
}

// Service periodically pings registered components and tracks their results,
// feeding the health and readiness endpoints.
type Service struct {
	logger     *slog.Logger
	interval   time.Duration
	pingers    map[string]*pingerInfo
	stats      map[string]*stats
	mu         sync.RWMutex
	ready      chan struct{}
	doneCh     chan struct{}
	inShutdown atomic.Bool
	wg         sync.WaitGroup
}

// New creates a new pinger service with the specified interval
func New(logger *slog.Logger, interval time.Duration) *Service {
	return &Service{
		logger:   logger,
		interval: interval,
		pingers:  make(map[string]*pingerInfo),
		stats:    make(map[string]*stats),
		ready:    make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

var _ shutdown.Shutdowner = (*Service)(nil)

// Name returns the name of the pinger service component
func (s *Service) Name() string {
	return "pinger-service"
}

// Register registers a component for periodic pinging. Criticality and
// timeout come from the optional interfaces; both criticalities default to
// true.
func (s *Service) Register(pinger Pinger) error {
	if pinger == nil {
		return fmt.Errorf("register pinger: pinger cannot be nil")
	}

	name := pinger.Name()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pingers[name]; exists {
		return fmt.Errorf("register pinger %s: %w", name, ErrPingerAlreadyRegistered)
	}

	info := &pingerInfo{
		pinger:         pinger,
		readyCritical:  true,
		healthCritical: true,
		timeout:        defaultPingTimeout,
	}

	if rc, ok := pinger.(readyCriticalPinger); ok {
		info.readyCritical = rc.PingerReadyCritical()
	}

	if hc, ok := pinger.(healthCriticalPinger); ok {
		info.healthCritical = hc.PingerCritical()
	}

	if tp, ok := pinger.(timeoutPinger); ok && tp.PingerTimeout() > 0 {
		info.timeout = tp.PingerTimeout()
	}

	s.pingers[name] = info
	s.stats[name] = &stats{}

	s.logger.Info("pinger registered", "name", name, "timeout", info.timeout)

	return nil
}

// Start starts the pinger service in a goroutine
func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "pinger service is shutting down, skipping start")

		return nil
	}

	go s.run(ctx)

	return nil
}

// Ready returns a channel that is closed when the pinger service is ready
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Shutdown gracefully shuts down the pinger service
func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		s.logger.ErrorContext(ctx, "pinger service is already shutting down, skipping shutdown")

		return nil
	}

	defer func() {
		s.logger.InfoContext(ctx, "pinger service shut downed")
	}()

	s.logger.InfoContext(ctx, "shutting down pinger service")

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before pinger loop exited: %w", ctx.Err())
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "pinger loop exited")
	}

	s.wg.Wait()

	return nil
}

// GetAllStats returns a snapshot of all component ping statistics.
func (s *Service) GetAllStats() map[string]*Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*Statistics, len(s.stats))

	for name, st := range s.stats {
		info := s.pingers[name]

		st.mu.Lock()
		result[name] = &Statistics{
			IsReady:      !info.readyCritical || st.lastError == nil,
			IsHealthy:    !info.healthCritical || st.lastError == nil,
			LastRun:      st.lastRun,
			LastLatency:  st.lastLatency,
			LastError:    st.lastError,
			SuccessCount: st.successCount,
			ErrorCount:   st.errorCount,
		}
		st.mu.Unlock()
	}

	return result
}

// run is the main goroutine that runs pingers at intervals
func (s *Service) run(ctx context.Context) {
	defer close(s.doneCh)

	logger := s.logger.With("component", "pinger-run")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runPingers(ctx, logger)

	close(s.ready)

	for {
		select {
		case <-ticker.C:
			s.runPingers(ctx, logger)
		case <-ctx.Done():
			logger.InfoContext(ctx, "terminating pinger loop")

			return
		}
	}
}

// runPingers executes all registered pingers in parallel
func (s *Service) runPingers(ctx context.Context, logger *slog.Logger) {
	s.mu.RLock()
	pingers := make(map[string]*pingerInfo, len(s.pingers))
	maps.Copy(pingers, s.pingers)
	s.mu.RUnlock()

	for name, info := range pingers {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.wg.Add(1)

		go func(n string, i *pingerInfo) {
			defer s.wg.Done()

			pingCtx, cancel := context.WithTimeout(ctx, i.timeout)
			defer cancel()

			start := time.Now()
			err := i.pinger.Ping(pingCtx)
			latency := time.Since(start)

			s.updateStats(n, latency, err)

			if err != nil {
				logger.DebugContext(ctx, "pinger error",
					"name", n,
					"latency", latency,
					"reason", err,
				)
			}
		}(name, info)
	}
}

// updateStats updates statistics for a pinger in a thread-safe manner
func (s *Service) updateStats(name string, latency time.Duration, err error) {
	s.mu.RLock()
	st, exists := s.stats[name]
	s.mu.RUnlock()

	if !exists {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.lastRun = time.Now()
	st.lastLatency = latency
	st.lastError = err

	if err != nil {
		st.errorCount++
	} else {
		st.successCount++
	}
}
