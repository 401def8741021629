package appstate

import (
	"context"

	"github.com/mateiidavid/linkerd-sweep/internal/infra/pinger"
	"github.com/mateiidavid/linkerd-sweep/internal/infra/shutdown"
)

// pingerServer is an internal interface for pinger management
type pingerServer interface {
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	shutdown.Shutdowner
	Register(pinger pinger.Pinger) error
	GetAllStats() map[string]*pinger.Statistics
}
