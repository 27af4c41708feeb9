package codec

import (
	"errors"
	"fmt"
)

var ErrTooLarge = errors.New("codec: payload too large")

// Limit wraps another codec to enforce a maximum payload size at Unmarshal
// time. Marshal is forwarded to Inner unchanged.
// If MaxDecode <= 0, size limiting is disabled.
//
// The API wraps request-body codecs with it.
type Limit struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec
	// MaxDecode is the maximum permitted length of the incoming payload.
	MaxDecode int
}

var _ Codec = Limit{}

func (c Limit) Name() string                  { return c.Inner.Name() }
func (c Limit) MediaType() string             { return c.Inner.MediaType() }
func (c Limit) Marshal(v any) ([]byte, error) { return c.Inner.Marshal(v) }

func (c Limit) Unmarshal(b []byte, v any) error {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Unmarshal(b, v)
}
