package parser

import (
	"github.com/bytedance/sonic"
	"github.com/penwyp/go-winscope/internal/core/model"
)

type payloadDecoder func(line []byte) (model.Payload, error)

// decoders is the closed mapping from trace type to payload variant
var decoders = map[model.TraceType]payloadDecoder{
	model.TraceSurfaceFlinger: func(line []byte) (model.Payload, error) {
		var entry model.LayerTraceEntry
		err := sonic.Unmarshal(line, &entry)
		return entry, err
	},
	model.TraceWindowManager: func(line []byte) (model.Payload, error) {
		var state model.WindowManagerState
		err := sonic.Unmarshal(line, &state)
		return state, err
	},
	model.TraceTransactions: func(line []byte) (model.Payload, error) {
		var entry model.TransactionsEntry
		err := sonic.Unmarshal(line, &entry)
		return entry, err
	},
	model.TraceScreenRecording: func(line []byte) (model.Payload, error) {
		var frame model.ScreenRecordingFrame
		err := sonic.Unmarshal(line, &frame)
		return frame, err
	},
}

func decodePayload(traceType model.TraceType, line []byte) (model.Payload, error) {
	decode, ok := decoders[traceType]
	if !ok {
		return nil, model.ErrUnknownTraceType
	}
	return decode(line)
}
