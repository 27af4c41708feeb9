package codec

import (
	"bytes"
	"errors"
	"testing"
)

type rec struct {
	_msgpack struct{} `msgpack:",as_array"`
	_        struct{} `cbor:",toarray"`

	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Price int32  `json:"price"`
}

func allCodecs() []Codec {
	return []Codec{JSON{}, Msgpack{}, MustCBOR(true)}
}

func TestRoundTripAndDeterminism(t *testing.T) {
	in := rec{ID: 7, Name: "Iron Dagger", Price: 12}
	for _, c := range allCodecs() {
		b1, err := c.Marshal(in)
		if err != nil {
			t.Fatalf("%s: marshal: %v", c.Name(), err)
		}
		b2, err := c.Marshal(in)
		if err != nil {
			t.Fatalf("%s: marshal: %v", c.Name(), err)
		}
		if !bytes.Equal(b1, b2) {
			t.Fatalf("%s: non-deterministic output %x vs %x", c.Name(), b1, b2)
		}
		out, err := Decode[rec](c, b1)
		if err != nil {
			t.Fatalf("%s: decode: %v", c.Name(), err)
		}
		if out.ID != in.ID || out.Name != in.Name || out.Price != in.Price {
			t.Fatalf("%s: got %+v want %+v", c.Name(), out, in)
		}
	}
}

func TestCompactFormsArePositional(t *testing.T) {
	in := rec{ID: 1, Name: "x", Price: 2}
	js, _ := JSON{}.Marshal(in)
	mp, _ := Msgpack{}.Marshal(in)
	cb, _ := MustCBOR(true).Marshal(in)
	if bytes.Contains(mp, []byte("Name")) || bytes.Contains(cb, []byte("Name")) {
		t.Fatalf("compact forms should not carry field names")
	}
	if len(mp) >= len(js) || len(cb) >= len(js) {
		t.Fatalf("compact forms should be smaller than JSON: json=%d msgpack=%d cbor=%d", len(js), len(mp), len(cb))
	}
}

func TestMsgpackSortsMapKeys(t *testing.T) {
	m := map[string]int{"z": 1, "a": 2, "m": 3, "b": 4, "y": 5}
	first, err := Msgpack{}.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		b, _ := Msgpack{}.Marshal(m)
		if !bytes.Equal(first, b) {
			t.Fatalf("map encoding not stable")
		}
	}
}

func TestCompactByName(t *testing.T) {
	cases := []struct {
		name, want string
		err        bool
	}{
		{"", "msgpack", false},
		{"msgpack", "msgpack", false},
		{"cbor", "cbor", false},
		{"bincode", "", true},
	}
	for _, tc := range cases {
		c, err := Compact(tc.name)
		if tc.err {
			if err == nil {
				t.Fatalf("%q: expected error", tc.name)
			}
			continue
		}
		if err != nil || c.Name() != tc.want {
			t.Fatalf("%q: got %v/%v want %s", tc.name, c, err, tc.want)
		}
	}
}

func TestLimitRejectsOversized(t *testing.T) {
	c := Limit{Inner: JSON{}, MaxDecode: 8}
	var v map[string]any
	err := c.Unmarshal([]byte(`{"name":"too long"}`), &v)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if err := c.Unmarshal([]byte(`{"a":1}`), &v); err != nil {
		t.Fatalf("small payload should decode: %v", err)
	}
	if c.MediaType() != MediaTypeJSON {
		t.Fatalf("media type not forwarded")
	}

	off := Limit{Inner: JSON{}}
	if err := off.Unmarshal([]byte(`{"name":"no limit applies here"}`), &v); err != nil {
		t.Fatalf("MaxDecode=0 should disable limit: %v", err)
	}
}
