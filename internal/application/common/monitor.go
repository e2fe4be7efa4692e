package common

import "context"

// Monitor receives structured log lines from handlers and the scheduler.
// It is deliberately narrower than a full logging facade: callers pass a
// level, a message and free-form metadata, and an adapter decides how to
// render or ship it (stdout, file, or onward to the Observable fan-out).
type Monitor interface {
	Log(level, message string, metadata map[string]interface{})
}

type contextKey int

const monitorKey contextKey = iota

// WithMonitor attaches a Monitor to ctx for handlers lower in the call chain.
func WithMonitor(ctx context.Context, monitor Monitor) context.Context {
	return context.WithValue(ctx, monitorKey, monitor)
}

// MonitorFromContext extracts the Monitor from ctx, falling back to a no-op.
func MonitorFromContext(ctx context.Context) Monitor {
	if monitor, ok := ctx.Value(monitorKey).(Monitor); ok {
		return monitor
	}
	return &noOpMonitor{}
}

type noOpMonitor struct{}

func (n *noOpMonitor) Log(level, message string, metadata map[string]interface{}) {}
