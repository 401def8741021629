package httpserver

import (
	"time"

	"github.com/mateiidavid/linkerd-sweep/internal/infra/appstate"
	"github.com/mateiidavid/linkerd-sweep/internal/infra/pinger"
)

// appstater is an internal interface for application state management
type appstater interface {
	GetState() appstate.State
	IsHealthy() bool
	IsReady() bool
	GetUptime() time.Duration
	GetStartTime() time.Time
	GetAllStats() map[string]*pinger.Statistics
}

// recordCounter exposes the size of the sweeper's pod record table for the
// status endpoint. Implemented by the sweeper tracker.
type recordCounter interface {
	Len() int
}
