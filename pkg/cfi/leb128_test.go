package cfi

import "testing"

func TestULEB128RoundTrip(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
	}
	for _, tc := range cases {
		got, n, ok := uleb128(tc.bytes, 0)
		if !ok {
			t.Fatalf("uleb128(%v) failed to decode", tc.bytes)
		}
		if got != tc.want || n != len(tc.bytes) {
			t.Errorf("uleb128(%v) = (%d, %d), want (%d, %d)", tc.bytes, got, n, tc.want, len(tc.bytes))
		}
	}
}

func TestSLEB128RoundTrip(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, -1},
		{[]byte{0x3f}, 63},
		{[]byte{0x40}, -64},
		{[]byte{0x9b, 0xf1, 0x59}, -624485},
	}
	for _, tc := range cases {
		got, n, ok := sleb128(tc.bytes, 0)
		if !ok {
			t.Fatalf("sleb128(%v) failed to decode", tc.bytes)
		}
		if got != tc.want || n != len(tc.bytes) {
			t.Errorf("sleb128(%v) = (%d, %d), want (%d, %d)", tc.bytes, got, n, tc.want, len(tc.bytes))
		}
	}
}

func TestULEB128Truncated(t *testing.T) {
	if _, _, ok := uleb128([]byte{0x80}, 0); ok {
		t.Fatal("expected truncated uleb128 to fail")
	}
}
