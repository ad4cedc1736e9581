package serviceutil

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec lets connect handlers exchange plain Go structs as json instead
// of generated protobuf messages. It is registered under the name "json" so
// it replaces connect's protojson codec for `application/json` requests.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string {
	return "json"
}

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		// connect sends an empty body for messages without fields
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSONCodec is the handler/client option that installs JSONCodec.
func WithJSONCodec() connect.Option {
	return connect.WithCodec(JSONCodec{})
}
