package dispatch

import (
	"context"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// HandlerFunc receives a dispatched DataRequest and reports the result
// synchronously; LocalDispatcher wraps it to satisfy the asynchronous
// RemoteMessageDispatcherRegistry contract.
type HandlerFunc func(ctx context.Context, message transfer.DataRequest) transfer.DispatchResult

// LocalDispatcher is the in-process RemoteMessageDispatcherRegistry: it
// pairs a consumer and provider running in the same binary (or a test's
// fake peer) without a wire protocol.
type LocalDispatcher struct {
	handler HandlerFunc
}

// NewLocalDispatcher wraps handler as a RemoteMessageDispatcherRegistry.
func NewLocalDispatcher(handler HandlerFunc) *LocalDispatcher {
	return &LocalDispatcher{handler: handler}
}

var _ transfer.RemoteMessageDispatcherRegistry = (*LocalDispatcher)(nil)

// Send runs handler on its own goroutine and reports the result via
// onComplete, preserving the async contract every dispatcher must honor
// even when the underlying work is actually synchronous.
func (d *LocalDispatcher) Send(ctx context.Context, process *transfer.Process, message transfer.DataRequest, onComplete func(transfer.DispatchResult)) {
	go func() {
		onComplete(d.handler(ctx, message))
	}()
}
