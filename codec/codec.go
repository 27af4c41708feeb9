// Package codec holds the wire formats repcache encodes records into and the
// API decodes request bodies from.
package codec

import "fmt"

// Codec marshals values to and from one wire format.
// Implementations must be deterministic: equal values produce equal bytes.
type Codec interface {
	// Name is the short config name, e.g. "json" or "msgpack".
	Name() string
	// MediaType is the Content-Type label of the produced bytes.
	MediaType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte, v any) error
}

// Decode unmarshals b into a fresh V.
func Decode[V any](c Codec, b []byte) (V, error) {
	var v V
	err := c.Unmarshal(b, &v)
	return v, err
}

// Compact returns the compact codec registered under name.
func Compact(name string) (Codec, error) {
	switch name {
	case "", "msgpack":
		return Msgpack{}, nil
	case "cbor":
		return NewCBOR(true)
	default:
		return nil, fmt.Errorf("codec: unknown compact format %q", name)
	}
}
