// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package encoding

import (
	"bytes"
	"math"
	"testing"

	"golang.org/x/text/transform"

	"github.com/SAP/go-hdb-protocol/driver/unicode/cesu8"
)

func newEncoder(buf *bytes.Buffer) *Encoder {
	return NewEncoder(buf, func() transform.Transformer { return cesu8.Utf8ToCesu8Transformer })
}

func newDecoder(buf *bytes.Buffer) *Decoder {
	return NewDecoder(buf, func() transform.Transformer { return cesu8.Cesu8ToUtf8Transformer })
}

func testRoundtripInt8(t *testing.T) {
	for _, v := range []int8{0, 1, -1, math.MaxInt8, math.MinInt8} {
		buf := new(bytes.Buffer)
		newEncoder(buf).Int8(v)
		if got := newDecoder(buf).Int8(); got != v {
			t.Fatalf("Int8 roundtrip %d - got %d", v, got)
		}
	}
}

func testRoundtripInt16(t *testing.T) {
	for _, v := range []int16{0, 1, -1, math.MaxInt16, math.MinInt16} {
		buf := new(bytes.Buffer)
		newEncoder(buf).Int16(v)
		if got := newDecoder(buf).Int16(); got != v {
			t.Fatalf("Int16 roundtrip %d - got %d", v, got)
		}
	}
}

func testRoundtripUint16(t *testing.T) {
	for _, v := range []uint16{0, 1, math.MaxUint16} {
		buf := new(bytes.Buffer)
		newEncoder(buf).Uint16(v)
		if got := newDecoder(buf).Uint16(); got != v {
			t.Fatalf("Uint16 roundtrip %d - got %d", v, got)
		}
	}
}

func testRoundtripInt32(t *testing.T) {
	for _, v := range []int32{0, 1, -1, math.MaxInt32, math.MinInt32} {
		buf := new(bytes.Buffer)
		newEncoder(buf).Int32(v)
		if got := newDecoder(buf).Int32(); got != v {
			t.Fatalf("Int32 roundtrip %d - got %d", v, got)
		}
	}
}

func testRoundtripUint32(t *testing.T) {
	for _, v := range []uint32{0, 1, math.MaxUint32} {
		buf := new(bytes.Buffer)
		newEncoder(buf).Uint32(v)
		if got := newDecoder(buf).Uint32(); got != v {
			t.Fatalf("Uint32 roundtrip %d - got %d", v, got)
		}
	}
}

func testRoundtripInt64(t *testing.T) {
	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		buf := new(bytes.Buffer)
		newEncoder(buf).Int64(v)
		if got := newDecoder(buf).Int64(); got != v {
			t.Fatalf("Int64 roundtrip %d - got %d", v, got)
		}
	}
}

func testRoundtripUint64(t *testing.T) {
	for _, v := range []uint64{0, 1, math.MaxUint64} {
		buf := new(bytes.Buffer)
		newEncoder(buf).Uint64(v)
		if got := newDecoder(buf).Uint64(); got != v {
			t.Fatalf("Uint64 roundtrip %d - got %d", v, got)
		}
	}
}

func testRoundtripFloat32(t *testing.T) {
	// the all-1-bits pattern is the REAL null sentinel at the value layer
	// (protocol.realNullBits); here it just has to survive the wire
	// roundtrip like any other bit pattern, and be distinguishable from
	// +Inf's own (different) bit pattern.
	for _, v := range []float32{0, 1, -1, math.MaxFloat32, float32(math.Inf(1)), float32(math.Inf(-1)), math.Float32frombits(0xFFFFFFFF)} {
		buf := new(bytes.Buffer)
		newEncoder(buf).Float32(v)
		got := newDecoder(buf).Float32()
		if math.Float32bits(got) != math.Float32bits(v) {
			t.Fatalf("Float32 roundtrip %v - got %v", v, got)
		}
	}
	if math.Float32bits(float32(math.Inf(1))) == 0xFFFFFFFF {
		t.Fatal("+Inf must not collide with the 0xFFFFFFFF null sentinel")
	}
}

func testRoundtripFloat64(t *testing.T) {
	for _, v := range []float64{0, 1, -1, math.MaxFloat64, math.Inf(1), math.Inf(-1)} {
		buf := new(bytes.Buffer)
		newEncoder(buf).Float64(v)
		got := newDecoder(buf).Float64()
		if math.Float64bits(got) != math.Float64bits(v) {
			t.Fatalf("Float64 roundtrip %v - got %v", v, got)
		}
	}
	if math.Float64bits(math.Inf(1)) == 0xFFFFFFFFFFFFFFFF {
		t.Fatal("+Inf must not collide with the 0xFFFFFFFFFFFFFFFF null sentinel")
	}
}

func testZeroesWritesZeroBytes(t *testing.T) {
	buf := new(bytes.Buffer)
	newEncoder(buf).Byte(0xFF)
	buf.Reset()
	e := newEncoder(buf)
	e.Zeroes(5)
	if buf.Len() != 5 {
		t.Fatalf("Zeroes(5) wrote %d bytes, want 5", buf.Len())
	}
	for i, b := range buf.Bytes() {
		if b != 0 {
			t.Fatalf("Zeroes(5) byte %d = %#x, want 0", i, b)
		}
	}
}

func testCesu8Roundtrip(t *testing.T) {
	for _, s := range []string{"", "hello", "héllo wörld", "日本語", "😀emoji😀"} {
		buf := new(bytes.Buffer)
		e := newEncoder(buf)
		n := e.CESU8String(s)
		if n != buf.Len() {
			t.Fatalf("CESU8String(%q) returned %d, wrote %d bytes", s, n, buf.Len())
		}
		d := newDecoder(buf)
		got, err := d.CESU8Bytes(n)
		if err != nil {
			t.Fatalf("CESU8Bytes(%q): %v", s, err)
		}
		if string(got) != s {
			t.Fatalf("CESU8 roundtrip %q - got %q", s, got)
		}
	}
}

func testBoolRoundtrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		buf := new(bytes.Buffer)
		newEncoder(buf).Bool(v)
		if got := newDecoder(buf).Bool(); got != v {
			t.Fatalf("Bool roundtrip %v - got %v", v, got)
		}
	}
}

func TestEncoding(t *testing.T) {
	tests := []struct {
		name string
		fct  func(t *testing.T)
	}{
		{"roundtripBool", testBoolRoundtrip},
		{"roundtripInt8", testRoundtripInt8},
		{"roundtripInt16", testRoundtripInt16},
		{"roundtripUint16", testRoundtripUint16},
		{"roundtripInt32", testRoundtripInt32},
		{"roundtripUint32", testRoundtripUint32},
		{"roundtripInt64", testRoundtripInt64},
		{"roundtripUint64", testRoundtripUint64},
		{"roundtripFloat32", testRoundtripFloat32},
		{"roundtripFloat64", testRoundtripFloat64},
		{"zeroesWritesZeroBytes", testZeroesWritesZeroBytes},
		{"cesu8Roundtrip", testCesu8Roundtrip},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.fct(t)
		})
	}
}
