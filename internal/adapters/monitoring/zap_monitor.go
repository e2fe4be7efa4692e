package monitoring

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andrescamacho/transferproc/internal/application/common"
	"github.com/andrescamacho/transferproc/internal/infrastructure/config"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

var (
	_ transfer.Monitor = (*ZapMonitor)(nil)
	_ common.Monitor   = (*ZapMonitor)(nil)
)

// ZapMonitor is the reference transfer.Monitor and application/common.Monitor
// implementation, backed by go.uber.org/zap. The teacher's own
// ContainerLogger left logging's concrete backend unspecified; zap is the
// structured logger the rest of the example corpus reaches for.
type ZapMonitor struct {
	logger *zap.Logger
}

// NewZapMonitor builds a ZapMonitor from cfg.
func NewZapMonitor(cfg config.LoggingConfig) (*ZapMonitor, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("monitoring: invalid log level %q: %w", cfg.Level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "text" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	writer, err := outputSink(cfg)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, writer, level)
	opts := []zap.Option{}
	if cfg.IncludeCaller {
		opts = append(opts, zap.AddCaller())
	}
	if cfg.IncludeStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return &ZapMonitor{logger: zap.New(core, opts...)}, nil
}

func outputSink(cfg config.LoggingConfig) (zapcore.WriteSyncer, error) {
	switch cfg.Output {
	case "stderr":
		return zapcore.Lock(zapcore.AddSync(zapOsStderr)), nil
	case "file":
		f, err := zapOpenFile(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("monitoring: opening log file: %w", err)
		}
		return zapcore.Lock(zapcore.AddSync(f)), nil
	default:
		return zapcore.Lock(zapcore.AddSync(zapOsStdout)), nil
	}
}

// Log implements transfer.Monitor and application/common.Monitor.
func (m *ZapMonitor) Log(level, message string, metadata map[string]interface{}) {
	fields := make([]zap.Field, 0, len(metadata))
	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}

	switch level {
	case "debug":
		m.logger.Debug(message, fields...)
	case "warn":
		m.logger.Warn(message, fields...)
	case "error":
		m.logger.Error(message, fields...)
	default:
		m.logger.Info(message, fields...)
	}
}

// Sync flushes any buffered log entries.
func (m *ZapMonitor) Sync() error {
	return m.logger.Sync()
}
