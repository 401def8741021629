package appstate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mateiidavid/linkerd-sweep/internal/infra/pinger"
	"github.com/mateiidavid/linkerd-sweep/internal/infra/shutdown"
)

// State represents the application state
type State string

const (
	// StateInit is the initial state when the application is created
	StateInit State = "init"

	// StateStarting is the state when the application is starting up
	StateStarting State = "starting"

	// StateRunning is the state when the application is running normally
	StateRunning State = "running"

	// StateTerminating is the state when the application is shutting down
	StateTerminating State = "terminating"

	// StateTerminated is the final state when the application has terminated
	StateTerminated State = "terminated"
)

const defaultShutdownersCount = 8

// AppState manages the application state with thread-safe operations
type AppState struct {
	mu            sync.RWMutex
	logger        *slog.Logger
	startedAt     time.Time
	readyAt       *time.Time
	terminatingAt *time.Time
	state         State
	quit          <-chan os.Signal
	pinger        pingerServer
	shutdowners   []shutdown.Shutdowner
}

// New creates a new AppState with the given start time
func New(
	logger *slog.Logger,
	appStart time.Time,
	quit <-chan os.Signal,
	pinger pingerServer,
) *AppState {
	return &AppState{
		logger:      logger,
		startedAt:   appStart,
		state:       StateInit,
		quit:        quit,
		pinger:      pinger,
		shutdowners: make([]shutdown.Shutdowner, 0, defaultShutdownersCount),
	}
}

// RegisterPinger registers a component with the health ping service.
func (s *AppState) RegisterPinger(pinger pinger.Pinger) error {
	return s.pinger.Register(pinger)
}

// RegisterShutdowner appends a component to the graceful shutdown order.
func (s *AppState) RegisterShutdowner(shutdowner shutdown.Shutdowner) error {
	s.shutdowners = append(s.shutdowners, shutdowner)

	return nil
}

// GetAllStats returns ping statistics for all registered components.
func (s *AppState) GetAllStats() map[string]*pinger.Statistics {
	return s.pinger.GetAllStats()
}

// SetStarting transitions the state from Init to Starting
func (s *AppState) SetStarting(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInit {
		return fmt.Errorf("set starting: %w", ErrInvalidStateTransition)
	}

	return s.setState(StateStarting)
}

// SetRunning transitions the state from Starting to Running
func (s *AppState) SetRunning(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStarting {
		return fmt.Errorf("set running: %w", ErrInvalidStateTransition)
	}

	now := time.Now()
	s.readyAt = &now

	return s.setState(StateRunning)
}

// SetTerminating transitions the state to Terminating
func (s *AppState) SetTerminating(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminated {
		return fmt.Errorf("set terminating: %w", ErrAlreadyTerminated)
	}

	now := time.Now()
	s.terminatingAt = &now

	return s.setState(StateTerminating)
}

// setState is an internal method to set the state
func (s *AppState) setState(newState State) error {
	if s.state == StateTerminated {
		return fmt.Errorf("set state: %w", ErrAlreadyTerminated)
	}

	s.state = newState

	return nil
}

// GetState returns the current application state
func (s *AppState) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// GetStartTime returns the time when the application started
func (s *AppState) GetStartTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.startedAt
}

// GetUptime returns the duration since the application started
func (s *AppState) GetUptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return time.Since(s.startedAt)
}

// IsHealthy returns true if the application is running and no health-critical
// component ping is failing.
func (s *AppState) IsHealthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateRunning {
		return false
	}

	for _, stats := range s.pinger.GetAllStats() {
		if !stats.IsHealthy {
			return false
		}
	}

	return true
}

// IsReady returns true if the application is running and no ready-critical
// component ping is failing.
func (s *AppState) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateRunning || s.readyAt == nil {
		return false
	}

	for _, stats := range s.pinger.GetAllStats() {
		if !stats.IsReady {
			return false
		}
	}

	return true
}

// Quit returns the channel that will receive the signal when shutdown is requested
func (s *AppState) Quit() <-chan os.Signal {
	return s.quit
}

// Shutdown transitions to Terminating, shuts down all registered components
// in reverse order, and ends in the Terminated state.
func (s *AppState) Shutdown(ctx context.Context) error {
	if err := s.SetTerminating(ctx); err != nil {
		return fmt.Errorf("set terminating application state: %w", err)
	}

	err := shutdown.GracefulShutdown(ctx, s.logger, s.shutdowners)

	s.mu.Lock()
	s.state = StateTerminated
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
