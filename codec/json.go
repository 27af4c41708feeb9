package codec

import "encoding/json"

const MediaTypeJSON = "application/json"

// JSON is the descriptive format. Struct fields are emitted in declaration
// order, which keeps the output byte-stable for a given value.
type JSON struct{}

var _ Codec = JSON{}

func (JSON) Name() string                    { return "json" }
func (JSON) MediaType() string               { return MediaTypeJSON }
func (JSON) Marshal(v any) ([]byte, error)   { return json.Marshal(v) }
func (JSON) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }
