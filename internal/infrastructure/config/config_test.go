package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/transferproc/internal/infrastructure/config"
)

func TestSetDefaults_FillsEveryZeroValueField(t *testing.T) {
	cfg := &config.Config{}

	config.SetDefaults(cfg)

	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.Pool.MaxOpen)
	assert.Equal(t, 30*time.Second, cfg.Dispatch.Timeout)
	assert.Equal(t, float64(10), cfg.Dispatch.RateLimit.Requests)
	assert.Equal(t, "localhost:50052", cfg.Scheduler.Address)
	assert.Equal(t, 50, cfg.Scheduler.BatchSize)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.Recovery.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestSetDefaults_DoesNotOverrideExplicitValues(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Scheduler.BatchSize = 5

	config.SetDefaults(cfg)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 5, cfg.Scheduler.BatchSize)
}

func validConfig() *config.Config {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	return cfg
}

func TestValidateConfig_AcceptsDefaultedConfig(t *testing.T) {
	err := config.ValidateConfig(validConfig())

	assert.NoError(t, err)
}

func TestValidateConfig_RejectsUnknownDatabaseType(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Type = "oracle"

	err := config.ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Type")
}

func TestValidateConfig_RejectsZeroBatchSize(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.BatchSize = 0

	err := config.ValidateConfig(cfg)

	assert.Error(t, err)
}

func TestValidateConfig_RejectsMissingSchedulerAddress(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.Address = ""

	err := config.ValidateConfig(cfg)

	assert.Error(t, err)
}

func TestLoadConfigOrDefault_ReturnsDefaultsWhenFileMissing(t *testing.T) {
	cfg := config.LoadConfigOrDefault("/nonexistent/path/to/config.yaml")

	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "localhost:50052", cfg.Scheduler.Address)
}
