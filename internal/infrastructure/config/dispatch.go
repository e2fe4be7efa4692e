package config

import "time"

// DispatchConfig holds configuration for the RemoteMessageDispatcherRegistry
// adapters (gRPC and in-process), covering the rate limiting and retry
// behavior the teacher's API client applied to outbound calls.
type DispatchConfig struct {
	// Timeout applied to a single dispatch call
	Timeout time.Duration `mapstructure:"timeout"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Retry     RetryConfig     `mapstructure:"retry"`
}

// RateLimitConfig bounds outbound dispatch calls per second.
type RateLimitConfig struct {
	Requests float64 `mapstructure:"requests" validate:"min=0"`
	Burst    int     `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds the exponential-backoff settings for failed dispatch
// calls. The default WaitStrategy does not read it; transferd builds that
// backoff from Scheduler.PollInterval.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=0"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}
