package dispatch

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// requestToStruct encodes a DataRequest into the structpb.Struct used as
// the wire message — the core never mandates a wire format (spec §6), and
// structpb.Struct lets this adapter avoid a generated message type while
// still sending a real proto.Message over the wire.
func requestToStruct(process *transfer.Process, message transfer.DataRequest) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"processId":        process.ID,
		"transferId":       message.ID,
		"destinationType":  message.DestinationType,
		"isFinite":         message.TransferType.IsFinite,
		"managedResources": message.ManagedResources,
	})
}

func ackFromStruct(s *structpb.Struct) transfer.DispatchResult {
	if s == nil {
		return transfer.DispatchResult{Acknowledged: false}
	}
	return transfer.DispatchResult{
		Acknowledged: s.Fields["acknowledged"].GetBoolValue(),
	}
}

func ackToStruct(acknowledged bool) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"acknowledged": acknowledged,
	})
}
