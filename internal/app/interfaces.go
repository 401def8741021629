package app

import (
	"context"
	"os"
	"time"

	"github.com/mateiidavid/linkerd-sweep/internal/infra/appstate"
	"github.com/mateiidavid/linkerd-sweep/internal/infra/pinger"
	"github.com/mateiidavid/linkerd-sweep/internal/infra/shutdown"
)

// appstater defines the interface for application state management
type appstater interface {
	RegisterPinger(pinger pinger.Pinger) error
	RegisterShutdowner(shutdowner shutdown.Shutdowner) error
	Quit() <-chan os.Signal
	SetStarting(ctx context.Context) error
	SetRunning(ctx context.Context) error
	Shutdown(ctx context.Context) error
	GetState() appstate.State
	IsHealthy() bool
	IsReady() bool
	GetUptime() time.Duration
	GetStartTime() time.Time
	GetAllStats() map[string]*pinger.Statistics
}

// appServer is the contract for the pinger service component.
type appServer interface {
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	shutdown.Shutdowner
}
