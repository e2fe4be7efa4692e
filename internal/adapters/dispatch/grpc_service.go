package dispatch

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// serviceName and the fully-qualified send method mirror what
// protoc-gen-go-grpc would emit from a one-RPC dispatch.proto; there is no
// .proto file here, so the descriptor below is assembled by hand against
// the same grpc.ServiceDesc shape the generator produces.
const (
	serviceName  = "transferproc.Dispatch"
	methodSend   = "/transferproc.Dispatch/Send"
	sendRPCLabel = "Send"
)

// ServerHandler is implemented by whatever serves the Dispatch service —
// here, GRPCServer.
type ServerHandler interface {
	Send(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func sendHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ServerHandler).Send(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: methodSend,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ServerHandler).Send(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is registered with a *grpc.Server via RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ServerHandler)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: sendRPCLabel,
			Handler:    sendHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "transferproc/dispatch",
}
