package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// The credit service carries JSON on the wire instead of protobuf; the
// message structs next to the service descriptor are plain JSON-tagged
// types, so a codec named "json" is all the transport needs.
func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}
