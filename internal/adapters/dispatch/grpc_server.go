package dispatch

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCServer implements ServerHandler, decoding the wire Struct and
// forwarding to a local HandlerFunc-shaped callback before re-encoding the
// acknowledgment.
type GRPCServer struct {
	onReceive func(ctx context.Context, processID, transferID string, managedResources, isFinite bool) bool
}

// NewGRPCServer wraps onReceive, which decides whether to acknowledge a
// dispatched request (e.g. by handing it to the local consumer process).
func NewGRPCServer(onReceive func(ctx context.Context, processID, transferID string, managedResources, isFinite bool) bool) *GRPCServer {
	return &GRPCServer{onReceive: onReceive}
}

var _ ServerHandler = (*GRPCServer)(nil)

// Send implements the Dispatch service's only RPC.
func (s *GRPCServer) Send(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	processID := fields["processId"].GetStringValue()
	transferID := fields["transferId"].GetStringValue()
	managedResources := fields["managedResources"].GetBoolValue()
	isFinite := fields["isFinite"].GetBoolValue()

	acknowledged := s.onReceive(ctx, processID, transferID, managedResources, isFinite)
	return ackToStruct(acknowledged)
}
