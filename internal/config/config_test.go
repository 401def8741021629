package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mateiidavid/linkerd-sweep/internal/config"
	"github.com/mateiidavid/linkerd-sweep/internal/logic/sweeper"
)

type loadCase struct {
	name    string
	giveEnv map[string]string
	wantErr bool
	wantCfg *config.Config
}

func assertConfigFields(t *testing.T, got, want *config.Config) {
	t.Helper()

	if want == nil {
		return
	}

	if want.KubeConfig != "" {
		require.Equal(t, want.KubeConfig, got.KubeConfig)
	}

	if want.LogLevel != "" {
		require.Equal(t, want.LogLevel, got.LogLevel)
	}

	if want.LogFormat != "" {
		require.Equal(t, want.LogFormat, got.LogFormat)
	}

	if want.HTTPPort != "" {
		require.Equal(t, want.HTTPPort, got.HTTPPort)
	}

	if want.MetricsPort != "" {
		require.Equal(t, want.MetricsPort, got.MetricsPort)
	}

	if want.PodLabelSelector != "" {
		require.Equal(t, want.PodLabelSelector, got.PodLabelSelector)
	}

	if want.ProxyContainerName != "" {
		require.Equal(t, want.ProxyContainerName, got.ProxyContainerName)
	}

	if want.ProxyAdminPort != 0 {
		require.Equal(t, want.ProxyAdminPort, got.ProxyAdminPort)
	}

	if want.ProxyAdminPath != "" {
		require.Equal(t, want.ProxyAdminPath, got.ProxyAdminPath)
	}

	if want.ShutdownTimeout != 0 {
		require.Equal(t, want.ShutdownTimeout, got.ShutdownTimeout)
	}

	if want.ShutdownRetryWaitMin != 0 {
		require.Equal(t, want.ShutdownRetryWaitMin, got.ShutdownRetryWaitMin)
	}

	if want.ShutdownRetryWaitMax != 0 {
		require.Equal(t, want.ShutdownRetryWaitMax, got.ShutdownRetryWaitMax)
	}

	if want.RescanInterval != 0 {
		require.Equal(t, want.RescanInterval, got.RescanInterval)
	}

	if want.SweptRecordTTL != 0 {
		require.Equal(t, want.SweptRecordTTL, got.SweptRecordTTL)
	}

	if want.MaxConcurrentSweeps != 0 {
		require.Equal(t, want.MaxConcurrentSweeps, got.MaxConcurrentSweeps)
	}

	if want.WatchResyncInterval != 0 {
		require.Equal(t, want.WatchResyncInterval, got.WatchResyncInterval)
	}

	if want.PingerInterval != 0 {
		require.Equal(t, want.PingerInterval, got.PingerInterval)
	}

	if want.ResyncSchedule != "" {
		require.Equal(t, want.ResyncSchedule, got.ResyncSchedule)
	}
}

func TestLoad(t *testing.T) {
	tests := []loadCase{
		{
			name:    "all defaults",
			giveEnv: map[string]string{},
			wantErr: false,
			wantCfg: &config.Config{
				LogLevel:             "info",
				LogFormat:            "json",
				HTTPPort:             "8080",
				MetricsPort:          "9090",
				PodLabelSelector:     sweeper.DefaultPodLabelSelector,
				ProxyContainerName:   sweeper.DefaultProxyContainerName,
				ProxyAdminPort:       sweeper.DefaultProxyAdminPort,
				ProxyAdminPath:       sweeper.DefaultProxyAdminPath,
				ShutdownTimeout:      3 * time.Second,
				ShutdownRetryWaitMin: 250 * time.Millisecond,
				ShutdownRetryWaitMax: 2 * time.Second,
				RescanInterval:       30 * time.Second,
				SweptRecordTTL:       10 * time.Minute,
				MaxConcurrentSweeps:  8,
				WatchResyncInterval:  5 * time.Minute,
				PingerInterval:       10 * time.Second,
			},
		},
		{
			name: "override ports and selector",
			giveEnv: map[string]string{
				"SWEEP_HTTP_PORT":          "8081",
				"SWEEP_METRICS_PORT":       "9091",
				"SWEEP_POD_LABEL_SELECTOR": "sweep=yes",
			},
			wantErr: false,
			wantCfg: &config.Config{
				HTTPPort:         "8081",
				MetricsPort:      "9091",
				PodLabelSelector: "sweep=yes",
			},
		},
		{
			name: "override proxy endpoint",
			giveEnv: map[string]string{
				"SWEEP_PROXY_CONTAINER_NAME": "istio-proxy",
				"SWEEP_PROXY_ADMIN_PORT":     "15000",
				"SWEEP_PROXY_ADMIN_PATH":     "/quitquitquit",
			},
			wantErr: false,
			wantCfg: &config.Config{
				ProxyContainerName: "istio-proxy",
				ProxyAdminPort:     15000,
				ProxyAdminPath:     "/quitquitquit",
			},
		},
		{
			name: "duration with minutes",
			giveEnv: map[string]string{
				"SWEEP_RESCAN_INTERVAL": "2m",
			},
			wantErr: false,
			wantCfg: &config.Config{
				RescanInterval: 2 * time.Minute,
			},
		},
		{
			name: "kubeconfig falls back to KUBECONFIG",
			giveEnv: map[string]string{
				"KUBECONFIG": "/tmp/kubeconfig",
			},
			wantErr: false,
			wantCfg: &config.Config{
				KubeConfig: "/tmp/kubeconfig",
			},
		},
		{
			name: "SWEEP_KUBECONFIG wins over fallback",
			giveEnv: map[string]string{
				"SWEEP_KUBECONFIG": "/etc/sweep/kubeconfig",
				"KUBECONFIG":       "/tmp/kubeconfig",
			},
			wantErr: false,
			wantCfg: &config.Config{
				KubeConfig: "/etc/sweep/kubeconfig",
			},
		},
		{
			name: "resync schedule passthrough",
			giveEnv: map[string]string{
				"SWEEP_RESYNC_SCHEDULE": "0 3 * * *",
			},
			wantErr: false,
			wantCfg: &config.Config{
				ResyncSchedule: "0 3 * * *",
			},
		},
		{
			name: "invalid SWEEP_RESCAN_INTERVAL",
			giveEnv: map[string]string{
				"SWEEP_RESCAN_INTERVAL": "x",
			},
			wantErr: true,
		},
		{
			name: "SWEEP_RESCAN_INTERVAL below minimum",
			giveEnv: map[string]string{
				"SWEEP_RESCAN_INTERVAL": "1s",
			},
			wantErr: true,
		},
		{
			name: "invalid SWEEP_PROXY_ADMIN_PORT",
			giveEnv: map[string]string{
				"SWEEP_PROXY_ADMIN_PORT": "not-a-port",
			},
			wantErr: true,
		},
		{
			name: "negative SWEEP_SHUTDOWN_RETRY_MAX",
			giveEnv: map[string]string{
				"SWEEP_SHUTDOWN_RETRY_MAX": "-1",
			},
			wantErr: true,
		},
		{
			name: "retry wait max below min",
			giveEnv: map[string]string{
				"SWEEP_SHUTDOWN_RETRY_WAIT_MIN": "2s",
				"SWEEP_SHUTDOWN_RETRY_WAIT_MAX": "1s",
			},
			wantErr: true,
		},
		{
			name: "invalid SWEEP_SWEPT_RECORD_TTL",
			giveEnv: map[string]string{
				"SWEEP_SWEPT_RECORD_TTL": "soon",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Keep the ambient environment out of the fallback lookups.
			t.Setenv("KUBECONFIG", "")
			t.Setenv("KUBERNETES_MASTER", "")

			for k, v := range tt.giveEnv {
				t.Setenv(k, v)
			}

			got, err := config.Load()
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			assertConfigFields(t, got, tt.wantCfg)
		})
	}
}
