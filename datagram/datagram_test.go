package datagram

import (
	"bytes"
	"testing"
)

func TestNew(t *testing.T) {
	var tests = []struct {
		kind Kind
		size int
		fill byte
	}{
		{Data, 1024, 0x00},
		{Stop, 1024, 0xFF},
		{Data, 1, 0x00},
		{Stop, 16, 0xFF},
		{Stop, 0, 0xFF},
	}

	for _, test := range tests {
		b := New(test.kind, test.size)

		if len(b) != test.size {
			t.Errorf("New(%v, %d): length %d", test.kind, test.size, len(b))
		}
		if !bytes.Equal(b, bytes.Repeat([]byte{test.fill}, test.size)) {
			t.Errorf("New(%v, %d): payload is not all %#02x", test.kind, test.size, test.fill)
		}
	}
}

func TestNewUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("New(Unknown) did not panic")
		}
	}()

	New(Unknown, 8)
}

func TestClassify(t *testing.T) {
	var tests = []struct {
		buf  []byte
		kind Kind
	}{
		{New(Data, 1024), Data},
		{New(Stop, 1024), Stop},
		{[]byte{0x00}, Data},
		{[]byte{0xFF}, Stop},
		{nil, Unknown},
		{[]byte{}, Unknown},
		{[]byte{0x00, 0xFF}, Unknown},
		{[]byte{0xFF, 0xFF, 0xFE}, Unknown},
		{[]byte("test"), Unknown},
	}

	for _, test := range tests {
		if k := Classify(test.buf); k != test.kind {
			t.Errorf("Classify(% x): got %v, want %v", test.buf, k, test.kind)
		}
	}
}

func TestKindString(t *testing.T) {
	for k, s := range map[Kind]string{Data: "data", Stop: "stop", Unknown: "unknown", Kind(42): "unknown"} {
		if k.String() != s {
			t.Errorf("Kind(%d).String(): got %q, want %q", int(k), k.String(), s)
		}
	}
}
