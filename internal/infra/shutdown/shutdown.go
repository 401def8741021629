package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 10 * time.Second

// Notify returns a channel that will receive SIGTERM and SIGINT signals.
// This should be called as the first thing in main() before any other initialization.
func Notify() <-chan os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	return signals
}

// GracefulShutdown shuts down the components in reverse registration order
// with a shared timeout, so dependencies stop after their dependents. The
// timeout context is detached from originCtx: shutdown proceeds even when
// the run context is already cancelled.
func GracefulShutdown(
	originCtx context.Context,
	logger *slog.Logger,
	shutdowners []Shutdowner,
) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(originCtx), defaultShutdownTimeout)
	defer cancel()

	var errs error

	for i := len(shutdowners) - 1; i >= 0; i-- {
		shutdowner := shutdowners[i]
		start := time.Now()

		if err := shutdowner.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "component shutdown failed",
				"component", shutdowner.Name(),
				"duration", time.Since(start),
				"reason", err,
			)

			errs = errors.Join(errs, err)

			continue
		}

		logger.InfoContext(ctx, "component shutdown completed",
			"component", shutdowner.Name(),
			"duration", time.Since(start),
		)
	}

	return errs
}
