package repcache

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/unkn0wn-root/repcache/codec"
)

// Token is the content-derived version of an encoded payload.
// Equal payloads always produce equal tokens.
type Token uint64

// TokenOf hashes payload with xxhash64.
func TokenOf(payload []byte) Token { return Token(xxhash.Sum64(payload)) }

// ETag renders t as a strong entity tag, quotes included.
func (t Token) ETag() string {
	return `"` + t.Hex() + `"`
}

// Hex is the 16 digit lowercase form of t without quotes.
func (t Token) Hex() string {
	s := strconv.FormatUint(uint64(t), 16)
	if len(s) < 16 {
		s = "0000000000000000"[len(s):] + s
	}
	return s
}

// DomainChecker is implemented by records whose compact form is narrower
// than their Go fields. CheckDomain reports values that do not fit kind.
type DomainChecker interface {
	CheckDomain(kind RepresentationKind) error
}

// Encoder turns records into payload bytes for a representation kind.
// It is pure and safe for concurrent use.
type Encoder struct {
	descriptive codec.Codec
	compact     codec.Codec
}

// NewEncoder builds an Encoder. Nil codecs default to codec.JSON and
// codec.Msgpack.
func NewEncoder(descriptive, compact codec.Codec) *Encoder {
	if descriptive == nil {
		descriptive = codec.JSON{}
	}
	if compact == nil {
		compact = codec.Msgpack{}
	}
	return &Encoder{descriptive: descriptive, compact: compact}
}

// Codec returns the codec used for kind, or nil for an unknown kind.
func (e *Encoder) Codec(kind RepresentationKind) codec.Codec {
	switch kind {
	case Descriptive:
		return e.descriptive
	case Compact:
		return e.compact
	default:
		return nil
	}
}

// ContentType is the media type of payloads encoded as kind.
func (e *Encoder) ContentType(kind RepresentationKind) string {
	if c := e.Codec(kind); c != nil {
		return c.MediaType()
	}
	return ""
}

// Encode serializes record as kind and returns the payload with its token.
// Failures are *EncodingError.
func (e *Encoder) Encode(record any, kind RepresentationKind) ([]byte, Token, error) {
	c := e.Codec(kind)
	if c == nil {
		return nil, 0, &EncodingError{Kind: kind, Err: fmt.Errorf("unknown representation kind")}
	}
	if dc, ok := record.(DomainChecker); ok {
		if err := dc.CheckDomain(kind); err != nil {
			return nil, 0, &EncodingError{Kind: kind, Err: err}
		}
	}
	payload, err := c.Marshal(record)
	if err != nil {
		return nil, 0, &EncodingError{Kind: kind, Err: err}
	}
	return payload, TokenOf(payload), nil
}
