package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "transferproc"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "transferproc"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Dispatch defaults
	if cfg.Dispatch.Timeout == 0 {
		cfg.Dispatch.Timeout = 30 * time.Second
	}
	if cfg.Dispatch.RateLimit.Requests == 0 {
		cfg.Dispatch.RateLimit.Requests = 10
	}
	if cfg.Dispatch.RateLimit.Burst == 0 {
		cfg.Dispatch.RateLimit.Burst = 20
	}
	if cfg.Dispatch.Retry.MaxAttempts == 0 {
		cfg.Dispatch.Retry.MaxAttempts = 5
	}
	if cfg.Dispatch.Retry.BackoffBase == 0 {
		cfg.Dispatch.Retry.BackoffBase = 1 * time.Second
	}

	// Scheduler defaults
	if cfg.Scheduler.Address == "" {
		cfg.Scheduler.Address = "localhost:50052"
	}
	if cfg.Scheduler.SocketPath == "" {
		cfg.Scheduler.SocketPath = "/tmp/transferproc.sock"
	}
	if cfg.Scheduler.PIDFile == "" {
		cfg.Scheduler.PIDFile = "/tmp/transferproc.pid"
	}
	if cfg.Scheduler.BatchSize == 0 {
		cfg.Scheduler.BatchSize = 50
	}
	if cfg.Scheduler.PollInterval == 0 {
		cfg.Scheduler.PollInterval = 1 * time.Second
	}
	if cfg.Scheduler.ShutdownTimeout == 0 {
		cfg.Scheduler.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Scheduler.Recovery.Timeout == 0 {
		cfg.Scheduler.Recovery.Timeout = 5 * time.Minute
	}
	if cfg.Scheduler.Recovery.MaxAttempts == 0 {
		cfg.Scheduler.Recovery.MaxAttempts = 3
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Logging.Rotation.MaxSize == 0 {
		cfg.Logging.Rotation.MaxSize = 100 // MB
	}
	if cfg.Logging.Rotation.MaxBackups == 0 {
		cfg.Logging.Rotation.MaxBackups = 3
	}
	if cfg.Logging.Rotation.MaxAge == 0 {
		cfg.Logging.Rotation.MaxAge = 28 // days
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
