package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"
)

const version byte = 1

var (
	ErrCorrupt     = errors.New("repcache: corrupt entry")
	ErrContentType = errors.New("repcache: content type longer than 255 bytes")
	magic4         = [...]byte{'R', 'P', 'C', '1'}
)

// Frame is the decoded form of a stored entry.
type Frame struct {
	Gen         uint64
	Token       uint64
	CreatedAt   time.Time
	ContentType string
	Payload     []byte
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Encode lays out a frame as:
//
//	magic(4) | ver(1) | gen(u64 be) | token(u64 be) | created(i64 be, unix nanos) |
//	clen(u8) | ctype(clen) | vlen(u32 be) | payload(vlen)
func Encode(f Frame) ([]byte, error) {
	if len(f.ContentType) > 0xFF {
		return nil, ErrContentType
	}
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 8 + 8 + 8 + 1 + len(f.ContentType) + 4 + len(f.Payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], f.Gen)
	buf.Write(u8[:])

	binary.BigEndian.PutUint64(u8[:], f.Token)
	buf.Write(u8[:])

	binary.BigEndian.PutUint64(u8[:], uint64(f.CreatedAt.UnixNano()))
	buf.Write(u8[:])

	buf.WriteByte(byte(len(f.ContentType)))
	buf.WriteString(f.ContentType)

	binary.BigEndian.PutUint32(u4[:], uint32(len(f.Payload)))
	buf.Write(u4[:])

	buf.Write(f.Payload)
	return buf.Bytes(), nil
}

// Decode parses a frame produced by Encode. The returned payload aliases b.
func Decode(b []byte) (Frame, error) {
	const hdr = 4 + 1 + 8 + 8 + 8 + 1
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return Frame{}, ErrCorrupt
	}

	off := 5
	var f Frame

	f.Gen = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	f.Token = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	f.CreatedAt = time.Unix(0, int64(binary.BigEndian.Uint64(b[off:off+8])))
	off += 8

	clen := int(b[off])
	off++
	if clen > len(b)-off {
		return Frame{}, ErrCorrupt
	}
	f.ContentType = string(b[off : off+clen])
	off += clen

	if off+4 > len(b) {
		return Frame{}, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// exact length: trailing bytes mean a foreign or torn write
	if vlen < 0 || vlen != len(b)-off {
		return Frame{}, ErrCorrupt
	}

	f.Payload = b[off : off+vlen]
	return f, nil
}
