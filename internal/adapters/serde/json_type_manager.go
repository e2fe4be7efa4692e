package serde

import (
	"encoding/json"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// JSONTypeManager is the reference TypeManager: dispatchers use it to
// round-trip DataRequest and response payloads. The core never interprets
// the bytes it produces (spec §6), so a plain encoding/json wrapper is
// sufficient — no ObjectMapper-equivalent third-party library appears
// anywhere in the example corpus for this concern.
type JSONTypeManager struct{}

// NewJSONTypeManager constructs a JSONTypeManager.
func NewJSONTypeManager() *JSONTypeManager {
	return &JSONTypeManager{}
}

var _ transfer.TypeManager = (*JSONTypeManager)(nil)

// Marshal encodes v as JSON.
func (JSONTypeManager) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (JSONTypeManager) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
