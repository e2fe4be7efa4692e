package config

import "time"

// SchedulerConfig holds configuration for the transfer process manager daemon.
type SchedulerConfig struct {
	// gRPC server address for the remote dispatcher (host:port)
	Address string `mapstructure:"address" validate:"required"`

	// Unix socket path for local consumer/provider pairing
	SocketPath string `mapstructure:"socket_path"`

	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// Maximum number of processes fetched per state on a single tick
	BatchSize int `mapstructure:"batch_size" validate:"min=1"`

	// Base interval the scheduler sleeps when a tick is unproductive
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required"`

	// Stuck-state detection and recovery
	Recovery RecoveryPolicyConfig `mapstructure:"recovery"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

// RecoveryPolicyConfig configures the RecoveryManager's stuck-process sweep.
type RecoveryPolicyConfig struct {
	// Enable stuck-state detection and recovery
	Enabled bool `mapstructure:"enabled"`

	// How long a process may sit in a non-terminal state before it is
	// considered stuck
	Timeout time.Duration `mapstructure:"timeout"`

	// Maximum re-drive attempts before a stuck process is forced to ERROR
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`
}
