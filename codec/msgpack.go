package codec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

const MediaTypeMsgpack = "application/x-msgpack"

// Msgpack serializes values using vmihailenco/msgpack/v5.
// The zero value is ready to use.
//
// Map keys are sorted so map-valued fields stay deterministic. Records that
// want positional encoding declare a `_msgpack struct{}` field tagged
// `msgpack:",as_array"`.
type Msgpack struct{}

var _ Codec = Msgpack{}

func (Msgpack) Name() string      { return "msgpack" }
func (Msgpack) MediaType() string { return MediaTypeMsgpack }

func (Msgpack) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Msgpack) Unmarshal(b []byte, v any) error {
	return msgpack.Unmarshal(b, v)
}
