package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/mateiidavid/linkerd-sweep/internal/adapters/outbound/k8s"
	"github.com/mateiidavid/linkerd-sweep/internal/adapters/outbound/proxyadmin"
	"github.com/mateiidavid/linkerd-sweep/internal/config"
	"github.com/mateiidavid/linkerd-sweep/internal/httpserver"
	"github.com/mateiidavid/linkerd-sweep/internal/infra/cronparser"
	"github.com/mateiidavid/linkerd-sweep/internal/infra/pinger"
	"github.com/mateiidavid/linkerd-sweep/internal/infra/shutdown"
	"github.com/mateiidavid/linkerd-sweep/internal/logic/sweeper"
)

const startupReadyTimeout = 30 * time.Second

type App struct {
	logger   *slog.Logger
	appState appstater

	metricsServer *httpserver.MetricsServer
	httpServer    *httpserver.Server
	watcher       *k8s.Watcher
	sweeper       *sweeper.Service
	pingers       appServer
}

// New creates a new application instance with all dependencies wired.
func New(
	logger *slog.Logger,
	cfg *config.Config,
	appState appstater,
	pingers appServer,
) (*App, error) {
	// BuildConfigFromFlags falls back to in-cluster config when both the
	// master URL and the kubeconfig path are empty.
	kubeConfig, err := clientcmd.BuildConfigFromFlags(cfg.KubeMaster, cfg.KubeConfig)
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	watcher := k8s.NewWatcher(
		logger,
		clientset,
		cfg.PodLabelSelector,
		cfg.WatchResyncInterval,
	)

	proxyClient := proxyadmin.New(logger, proxyadmin.Options{
		AdminPort:      cfg.ProxyAdminPort,
		AdminPath:      cfg.ProxyAdminPath,
		AttemptTimeout: cfg.ShutdownTimeout,
		RetryMax:       cfg.ShutdownRetryMax,
		RetryWaitMin:   cfg.ShutdownRetryWaitMin,
		RetryWaitMax:   cfg.ShutdownRetryWaitMax,
	})

	cronParser := cronparser.New()
	if cfg.ResyncSchedule != "" {
		if err := cronParser.Validate(cfg.ResyncSchedule, cfg.ResyncTZ); err != nil {
			return nil, fmt.Errorf("validate resync schedule: %w", err)
		}
	}

	tracker := sweeper.NewTracker(logger, cfg.ProxyContainerName)

	sweepService := sweeper.New(
		logger,
		watcher,
		proxyClient,
		tracker,
		cronParser,
		sweeper.Options{
			RescanInterval:      cfg.RescanInterval,
			SweptRecordTTL:      cfg.SweptRecordTTL,
			MaxConcurrentSweeps: cfg.MaxConcurrentSweeps,
			ResyncSchedule:      cfg.ResyncSchedule,
			ResyncTZ:            cfg.ResyncTZ,
		},
	)

	app := &App{
		logger:        logger,
		appState:      appState,
		metricsServer: httpserver.NewMetricsServer(logger, cfg.MetricsPort),
		httpServer:    httpserver.New(logger, appState, tracker, cfg.HTTPPort),
		watcher:       watcher,
		sweeper:       sweepService,
		pingers:       pingers,
	}

	if err := app.register(); err != nil {
		return nil, err
	}

	return app, nil
}

// register wires components into the app state in start order; shutdown runs
// in reverse, so the sweeper stops issuing calls before the watcher and the
// HTTP surfaces go last.
func (a *App) register() error {
	shutdowners := []shutdown.Shutdowner{
		a.metricsServer,
		a.httpServer,
		a.pingers,
		a.watcher,
		a.sweeper,
	}

	for _, component := range shutdowners {
		if err := a.appState.RegisterShutdowner(component); err != nil {
			return fmt.Errorf("register shutdowner %s: %w", component.Name(), err)
		}
	}

	pingables := []pinger.Pinger{
		a.metricsServer,
		a.httpServer,
		a.watcher,
		a.sweeper,
	}

	for _, component := range pingables {
		if err := a.appState.RegisterPinger(component); err != nil {
			return fmt.Errorf("register pinger %s: %w", component.Name(), err)
		}
	}

	return nil
}

// Run starts all components and blocks until a termination signal or context
// cancellation, then shuts everything down gracefully.
func (a *App) Run(originCtx context.Context) error {
	ctx, cancel := context.WithCancel(originCtx)
	defer cancel()

	if err := a.appState.SetStarting(ctx); err != nil {
		return fmt.Errorf("set starting application state: %w", err)
	}

	if err := a.metricsServer.Start(ctx); err != nil {
		return fmt.Errorf("start metrics server: %w", err)
	}

	if err := a.httpServer.Start(ctx); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	if err := a.pingers.Start(ctx); err != nil {
		return fmt.Errorf("start pinger service: %w", err)
	}

	if err := a.watcher.Start(ctx); err != nil {
		return fmt.Errorf("start pod watcher: %w", err)
	}

	if err := a.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}

	select {
	case <-a.sweeper.Ready():
	case <-time.After(startupReadyTimeout):
		return fmt.Errorf("sweeper did not become ready within %s", startupReadyTimeout)
	case <-ctx.Done():
		return fmt.Errorf("context done during startup: %w", ctx.Err())
	}

	if err := a.appState.SetRunning(ctx); err != nil {
		return fmt.Errorf("set running application state: %w", err)
	}

	a.logger.InfoContext(ctx, "controller running")

	select {
	case <-a.appState.Quit():
		a.logger.InfoContext(ctx, "received termination signal, terminating")
	case <-ctx.Done():
		a.logger.InfoContext(ctx, "context done, terminating")
	}

	cancel()

	return a.appState.Shutdown(originCtx)
}
