package dispatch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// GRPCClient is the cross-process RemoteMessageDispatcherRegistry
// adapter. It calls the Dispatch service's Send RPC through conn.Invoke
// directly, without a generated client stub — the same escape hatch
// protoc-gen-go-grpc's own stubs use internally.
type GRPCClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
	limiter *rate.Limiter
}

// NewGRPCClient wraps an already-dialed connection. limiter throttles
// outbound Send calls; pass nil for no throttling.
func NewGRPCClient(conn *grpc.ClientConn, timeout time.Duration, limiter *rate.Limiter) *GRPCClient {
	return &GRPCClient{conn: conn, timeout: timeout, limiter: limiter}
}

var _ transfer.RemoteMessageDispatcherRegistry = (*GRPCClient)(nil)

// Send marshals message to the wire Struct and invokes the remote Send RPC
// on its own goroutine, reporting the result via onComplete.
func (c *GRPCClient) Send(ctx context.Context, process *transfer.Process, message transfer.DataRequest, onComplete func(transfer.DispatchResult)) {
	go func() {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				onComplete(transfer.DispatchResult{Err: err})
				return
			}
		}

		req, err := requestToStruct(process, message)
		if err != nil {
			onComplete(transfer.DispatchResult{Err: err})
			return
		}

		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp := new(structpb.Struct)
		if err := c.conn.Invoke(cctx, methodSend, req, resp); err != nil {
			onComplete(transfer.DispatchResult{Err: err})
			return
		}
		onComplete(ackFromStruct(resp))
	}()
}
