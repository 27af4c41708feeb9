package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/unkn0wn-root/repcache"
	"github.com/unkn0wn-root/repcache/codec"
)

const mediaOctetStream = "application/octet-stream"

var (
	errUnsupportedMedia = errors.New("unsupported content type")
	errBadBody          = errors.New("malformed request body")
)

// representation picks compact when Accept names octet-stream or the
// compact codec's media type with a non-zero quality; anything else is
// descriptive.
func (s *Server) representation(r *http.Request) repcache.RepresentationKind {
	compact := s.cache.Encoder().ContentType(repcache.Compact)
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil || refused(params) {
			continue
		}
		if mt == mediaOctetStream || mt == compact {
			return repcache.Compact
		}
	}
	return repcache.Descriptive
}

// refused reports an explicit q=0, which excludes the media range.
func refused(params map[string]string) bool {
	q, ok := params["q"]
	if !ok {
		return false
	}
	v, err := strconv.ParseFloat(q, 64)
	return err == nil && v == 0
}

// bodyCodec picks the request codec from Content-Type. A missing header
// means JSON.
func (s *Server) bodyCodec(r *http.Request) (codec.Codec, error) {
	enc := s.cache.Encoder()
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return codec.Limit{Inner: enc.Codec(repcache.Descriptive), MaxDecode: s.maxBody}, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errUnsupportedMedia, ct)
	}
	switch mt {
	case enc.ContentType(repcache.Descriptive):
		return codec.Limit{Inner: enc.Codec(repcache.Descriptive), MaxDecode: s.maxBody}, nil
	case mediaOctetStream, enc.ContentType(repcache.Compact):
		return codec.Limit{Inner: enc.Codec(repcache.Compact), MaxDecode: s.maxBody}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedMedia, mt)
	}
}

func decodeBody[V any](s *Server, r *http.Request) (V, error) {
	var zero V
	c, err := s.bodyCodec(r)
	if err != nil {
		return zero, err
	}
	// one byte past the limit lets codec.Limit report the overflow
	b, err := io.ReadAll(io.LimitReader(r.Body, int64(s.maxBody)+1))
	if err != nil {
		return zero, fmt.Errorf("%w: %v", errBadBody, err)
	}
	v, err := codec.Decode[V](c, b)
	if err != nil {
		if errors.Is(err, codec.ErrTooLarge) {
			return zero, err
		}
		return zero, fmt.Errorf("%w: %v", errBadBody, err)
	}
	return v, nil
}
