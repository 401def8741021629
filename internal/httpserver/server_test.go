package httpserver_test

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mateiidavid/linkerd-sweep/internal/httpserver"
	"github.com/mateiidavid/linkerd-sweep/internal/infra/appstate"
	"github.com/mateiidavid/linkerd-sweep/internal/infra/pinger"
	"github.com/mateiidavid/linkerd-sweep/internal/logic/sweeper"
)

func newTestAppState(logger *slog.Logger, quit chan os.Signal) *appstate.AppState {
	pingerSvc := pinger.New(logger, time.Second)

	return appstate.New(logger, time.Now(), quit, pingerSvc)
}

func newTestTracker(logger *slog.Logger) *sweeper.Tracker {
	return sweeper.NewTracker(logger, sweeper.DefaultProxyContainerName)
}

func TestNew(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	quit := make(chan os.Signal, 1)

	quit <- syscall.SIGTERM

	close(quit)

	appState := newTestAppState(logger, quit)
	tracker := newTestTracker(logger)

	t.Run("empty port uses default", func(t *testing.T) {
		t.Parallel()

		srv := httpserver.New(logger, appState, tracker, "")
		require.NotNil(t, srv)
	})

	t.Run("non-empty port is used", func(t *testing.T) {
		t.Parallel()

		srv := httpserver.New(logger, appState, tracker, "9090")
		require.NotNil(t, srv)
	})
}

func TestServer_Name(t *testing.T) {
	t.Parallel()

	logger := slog.Default()
	quit := make(chan os.Signal, 1)
	appState := newTestAppState(logger, quit)
	srv := httpserver.New(logger, appState, newTestTracker(logger), "")

	require.Equal(t, "http-server", srv.Name())
}

func TestServer_Ping(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("before ready returns error", func(t *testing.T) {
		t.Parallel()

		quit := make(chan os.Signal, 1)
		appState := newTestAppState(logger, quit)
		srv := httpserver.New(logger, appState, newTestTracker(logger), "")

		err := srv.Ping(t.Context())
		require.Error(t, err)
	})

	t.Run("after ready returns nil", func(t *testing.T) {
		t.Parallel()

		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		appState := newTestAppState(logger, quit)
		require.NoError(t, appState.SetStarting(t.Context()))
		require.NoError(t, appState.SetRunning(t.Context()))

		srv := httpserver.New(logger, appState, newTestTracker(logger), "0")

		ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)

		defer cancel()

		require.NoError(t, srv.Start(ctx))

		select {
		case <-srv.Ready():
		case <-time.After(1 * time.Second):
			t.Fatal("server did not become ready")
		}

		require.NoError(t, srv.Ping(t.Context()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer shutdownCancel()

		_ = srv.Shutdown(shutdownCtx)
	})
}
