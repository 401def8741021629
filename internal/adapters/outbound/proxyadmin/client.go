package proxyadmin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/mateiidavid/linkerd-sweep/internal/infra/metrics"
	"github.com/mateiidavid/linkerd-sweep/internal/logic/sweeper"
)

// Options carries the shutdown call tunables.
type Options struct {
	// AdminPort is the proxy admin port on the pod IP.
	AdminPort int
	// AdminPath is the shutdown endpoint path.
	AdminPath string
	// AttemptTimeout bounds each individual HTTP attempt.
	AttemptTimeout time.Duration
	// RetryMax is the number of retries after the first attempt.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client issues the administrative shutdown call to a pod's proxy sidecar.
// Transient failures (refused, timeout) are retried with exponential backoff;
// any HTTP response settles the call without further retries.
type Client struct {
	logger *slog.Logger
	opts   Options
}

// New creates a new proxy admin client.
func New(logger *slog.Logger, opts Options) *Client {
	return &Client{
		logger: logger,
		opts:   opts,
	}
}

var _ sweeper.ProxyClient = (*Client)(nil)

// Shutdown POSTs to the pod's proxy admin shutdown endpoint.
// Returned errors classify as AlreadyStoppedError (idempotent success),
// UnreachableError (transient, retry later), or RejectedError (permanent).
func (c *Client) Shutdown(ctx context.Context, id sweeper.PodID, podIP string) error {
	if podIP == "" {
		return &UnreachableError{Reason: errors.New("pod has no IP")}
	}

	url := "http://" + net.JoinHostPort(podIP, strconv.Itoa(c.opts.AdminPort)) + c.opts.AdminPath

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("build shutdown request: %w", err)
	}

	resp, err := c.newRetryClient(id).Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("shutdown %s: %w", id, ctx.Err())
		}

		// A connection torn down mid-exchange means the proxy exited while
		// (or just before) handling our request.
		if isConnClosed(err) {
			return &AlreadyStoppedError{}
		}

		return &UnreachableError{Reason: err}
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusGone:
		return &AlreadyStoppedError{}
	default:
		return &RejectedError{Status: resp.StatusCode}
	}
}

// newRetryClient builds a retryablehttp client for one shutdown call. The
// per-call closure lets the request hook label attempt metrics by namespace.
func (c *Client) newRetryClient(id sweeper.PodID) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{Timeout: c.opts.AttemptTimeout}
	client.RetryMax = c.opts.RetryMax
	client.RetryWaitMin = c.opts.RetryWaitMin
	client.RetryWaitMax = c.opts.RetryWaitMax
	client.Logger = &leveledLogger{logger: c.logger}
	client.CheckRetry = checkRetry
	client.RequestLogHook = func(_ retryablehttp.Logger, _ *http.Request, attempt int) {
		metrics.RecordShutdownRequest(id.Namespace)

		if attempt > 0 {
			c.logger.Debug("retrying proxy shutdown request",
				"pod", id.Name,
				"namespace", id.Namespace,
				"attempt", attempt,
			)
		}
	}

	return client
}

// checkRetry retries connection-level failures only. Any HTTP response is
// final: the admin endpoint was reached and its answer stands. A connection
// closed mid-exchange is final too, since it means the proxy just exited.
func checkRetry(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		if isConnClosed(err) {
			return false, err
		}

		return true, nil
	}

	return false, nil
}

func isConnClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET)
}

// leveledLogger adapts slog to retryablehttp's LeveledLogger interface.
type leveledLogger struct {
	logger *slog.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}
