package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mateiidavid/linkerd-sweep/internal/logic/sweeper"
)

type Config struct {
	KubeConfig string
	KubeMaster string
	LogLevel   string
	LogFormat  string

	HTTPPort    string
	MetricsPort string

	PodLabelSelector   string
	ProxyContainerName string
	ProxyAdminPort     int
	ProxyAdminPath     string

	ShutdownTimeout      time.Duration
	ShutdownRetryMax     int
	ShutdownRetryWaitMin time.Duration
	ShutdownRetryWaitMax time.Duration

	RescanInterval      time.Duration
	SweptRecordTTL      time.Duration
	MaxConcurrentSweeps int
	WatchResyncInterval time.Duration

	PingerInterval time.Duration

	ResyncSchedule string
	ResyncTZ       string
}

// Load reads configuration from the environment, applying defaults and
// minimum clamps for durations.
func Load() (*Config, error) {
	cfg := &Config{
		KubeConfig: getEnvWithFallback(envKeyKubeConfig, envKeyKubeConfigFallback),
		KubeMaster: getEnvWithFallback(envKeyKubeMaster, envKeyKubeMasterFallback),
		LogLevel:   getEnvOrDefault(envKeyLogLevel, "info"),
		LogFormat:  getEnvOrDefault(envKeyLogFormat, "json"),

		HTTPPort:    getEnvOrDefault(envKeyHTTPPort, "8080"),
		MetricsPort: getEnvOrDefault(envKeyMetricsPort, "9090"),

		PodLabelSelector:   getEnvOrDefault(envKeyPodLabelSelector, sweeper.DefaultPodLabelSelector),
		ProxyContainerName: getEnvOrDefault(envKeyProxyContainerName, sweeper.DefaultProxyContainerName),
		ProxyAdminPath:     getEnvOrDefault(envKeyProxyAdminPath, sweeper.DefaultProxyAdminPath),

		ResyncSchedule: os.Getenv(envKeyResyncSchedule),
		ResyncTZ:       os.Getenv(envKeyResyncTZ),
	}

	var err error

	cfg.ProxyAdminPort, err = getIntEnv(envKeyProxyAdminPort, sweeper.DefaultProxyAdminPort, 1)
	if err != nil {
		return nil, err
	}

	cfg.ShutdownRetryMax, err = getIntEnv(envKeyShutdownRetryMax, 2, 0)
	if err != nil {
		return nil, err
	}

	cfg.MaxConcurrentSweeps, err = getIntEnv(envKeyMaxConcurrentSweeps, 8, 1)
	if err != nil {
		return nil, err
	}

	durations := []struct {
		key string
		def time.Duration
		min time.Duration
		dst *time.Duration
	}{
		{envKeyShutdownTimeout, 3 * time.Second, envMinShutdownTimeout, &cfg.ShutdownTimeout},
		{envKeyShutdownRetryWaitMin, 250 * time.Millisecond, envMinShutdownRetryWait, &cfg.ShutdownRetryWaitMin},
		{envKeyShutdownRetryWaitMax, 2 * time.Second, envMinShutdownRetryWait, &cfg.ShutdownRetryWaitMax},
		{envKeyRescanInterval, 30 * time.Second, envMinRescanInterval, &cfg.RescanInterval},
		{envKeySweptRecordTTL, 10 * time.Minute, envMinSweptRecordTTL, &cfg.SweptRecordTTL},
		{envKeyWatchResyncInterval, 5 * time.Minute, envMinWatchResyncInterval, &cfg.WatchResyncInterval},
		{envKeyPingerInterval, 10 * time.Second, envMinPingerInterval, &cfg.PingerInterval},
	}

	for _, d := range durations {
		*d.dst, err = getDurationEnv(d.key, d.def, d.min)
		if err != nil {
			return nil, err
		}
	}

	if cfg.ShutdownRetryWaitMax < cfg.ShutdownRetryWaitMin {
		return nil, fmt.Errorf(
			"%s (%s) must not be below %s (%s)",
			envKeyShutdownRetryWaitMax, cfg.ShutdownRetryWaitMax,
			envKeyShutdownRetryWaitMin, cfg.ShutdownRetryWaitMin,
		)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

func getEnvWithFallback(key, fallbackKey string) string {
	value := os.Getenv(key)
	if value == "" {
		return os.Getenv(fallbackKey)
	}

	return value
}

func getIntEnv(key string, defaultValue, minValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	if value < minValue {
		return 0, fmt.Errorf("%s: %d is below minimum %d", key, value, minValue)
	}

	return value, nil
}

func getDurationEnv(key string, defaultValue, minValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	if value < minValue {
		return 0, fmt.Errorf("%s: %s is below minimum %s", key, value, minValue)
	}

	return value, nil
}
