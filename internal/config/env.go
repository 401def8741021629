package config

import "time"

// Env key constants. All controller configuration env vars use the SWEEP_
// prefix; duration values support explicit units (e.g. 5m, 40s, 2h).

// Path to kubeconfig file. If unset, KUBECONFIG is used as fallback.
const envKeyKubeConfig = "SWEEP_KUBECONFIG"

// Kubernetes API server URL. If unset, KUBERNETES_MASTER is used as fallback.
const envKeyKubeMaster = "SWEEP_KUBE_MASTER"

// Log level: debug, info, warn, error.
const envKeyLogLevel = "SWEEP_LOG_LEVEL"

// Log format: json or text.
const envKeyLogFormat = "SWEEP_LOG_FORMAT"

// Port for health/readiness HTTP server.
const envKeyHTTPPort = "SWEEP_HTTP_PORT"

// Port for Prometheus metrics (GET /metrics).
const envKeyMetricsPort = "SWEEP_METRICS_PORT"

// Label selector for sweep-eligible pods (e.g. linkerd.io/sweep-proxy=true).
const envKeyPodLabelSelector = "SWEEP_POD_LABEL_SELECTOR"

// Name of the injected proxy sidecar container.
const envKeyProxyContainerName = "SWEEP_PROXY_CONTAINER_NAME"

// Port of the proxy admin endpoint on the pod IP.
const envKeyProxyAdminPort = "SWEEP_PROXY_ADMIN_PORT"

// Path of the proxy admin shutdown endpoint.
const envKeyProxyAdminPath = "SWEEP_PROXY_ADMIN_PATH"

// Timeout for a single shutdown HTTP attempt. Units: s, m (e.g. 3s).
const (
	envKeyShutdownTimeout = "SWEEP_SHUTDOWN_TIMEOUT"
	envMinShutdownTimeout = 100 * time.Millisecond
)

// Number of retries after the first shutdown attempt.
const envKeyShutdownRetryMax = "SWEEP_SHUTDOWN_RETRY_MAX"

// Bounds for the exponential backoff between shutdown retries.
const (
	envKeyShutdownRetryWaitMin = "SWEEP_SHUTDOWN_RETRY_WAIT_MIN"
	envKeyShutdownRetryWaitMax = "SWEEP_SHUTDOWN_RETRY_WAIT_MAX"
	envMinShutdownRetryWait    = 10 * time.Millisecond
)

// Interval between re-scans of pending pods. Units: s, m (e.g. 30s).
const (
	envKeyRescanInterval = "SWEEP_RESCAN_INTERVAL"
	envMinRescanInterval = 5 * time.Second
)

// How long swept records are kept before being dropped. Units: s, m, h.
const (
	envKeySweptRecordTTL = "SWEEP_SWEPT_RECORD_TTL"
	envMinSweptRecordTTL = time.Minute
)

// Maximum number of concurrent sidecar shutdown calls.
const envKeyMaxConcurrentSweeps = "SWEEP_MAX_CONCURRENT_SWEEPS"

// Informer resync period (full state re-delivery). Units: m, h (e.g. 5m).
const (
	envKeyWatchResyncInterval = "SWEEP_WATCH_RESYNC_INTERVAL"
	envMinWatchResyncInterval = 30 * time.Second
)

// Pinger check interval. Units: s, m, h (e.g. 10s, 1m).
const (
	envKeyPingerInterval = "SWEEP_PINGER_INTERVAL"
	envMinPingerInterval = time.Second
)

// Optional cron spec for the deep resync that resets failed pods to pending
// (e.g. "0 3 * * *"). Empty disables it.
const envKeyResyncSchedule = "SWEEP_RESYNC_SCHEDULE"

// Timezone for the resync schedule (IANA, e.g. America/New_York).
const envKeyResyncTZ = "SWEEP_RESYNC_TZ"

// Standard k8s env keys used as fallback when SWEEP_* are unset.
const (
	envKeyKubeConfigFallback = "KUBECONFIG"
	envKeyKubeMasterFallback = "KUBERNETES_MASTER"
)
