// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
	"github.com/SAP/go-hdb-protocol/driver/unicode/cesu8"
	"golang.org/x/text/transform"
)

func valueCodec(buf *bytes.Buffer) (*encoding.Encoder, *encoding.Decoder) {
	enc := encoding.NewEncoder(buf, func() transform.Transformer { return cesu8.Utf8ToCesu8Transformer })
	dec := encoding.NewDecoder(buf, func() transform.Transformer { return cesu8.Cesu8ToUtf8Transformer })
	return enc, dec
}

// decodeTestParameter is the test-only mirror of EncodeParameter's wire
// layout (leading type code, OR 0x80/dedicated sentinel for NULL), used to
// verify the encode side round trips. The real driver never reads back its
// own input parameters; the server does.
func decodeTestParameter(dec *encoding.Decoder, tc TypeCode, scale int) (any, error) {
	if tc == tcBoolean {
		dec.Byte() // type code byte, always tcBoolean verbatim
		switch dec.Byte() {
		case 0:
			return false, nil
		case 2:
			return true, nil
		default: // 1 == null
			return nil, nil
		}
	}

	b := TypeCode(dec.Byte())
	if tc == tcSecondtime {
		if b == tcSecondtimeNull {
			return nil, nil
		}
	} else if b&0x80 != 0 {
		return nil, nil
	}

	switch tc {
	case tcTinyint:
		dec.Bool()
		return int64(dec.Byte()), nil
	case tcSmallint:
		dec.Bool()
		return int64(dec.Int16()), nil
	case tcInteger:
		dec.Bool()
		return int64(dec.Int32()), nil
	case tcBigint:
		dec.Bool()
		return dec.Int64(), nil
	case tcReal:
		return dec.Float32(), nil
	case tcDouble:
		return dec.Float64(), nil
	case tcDaydate:
		return dayDateToTime(dec.Int32()), nil
	case tcSecondtime:
		return secondTimeToTime(dec.Int32()), nil
	case tcSeconddate:
		return secondDateToTime(dec.Int64()), nil
	case tcLongdate:
		return longDateToTime(dec.Int64()), nil
	case tcDecimal, tcSmalldecimal:
		m, exp, err := dec.Decimal()
		if err != nil {
			return nil, err
		}
		return &Decimal{Mantissa: m, Exp: exp}, nil
	case tcFixed8, tcFixed12, tcFixed16:
		dec.Bool()
		return &Decimal{Mantissa: dec.Fixed(fixedSize(tc)), Exp: -scale}, nil
	case tcChar, tcVarchar, tcString, tcBinary, tcVarbinary, tcBstring, tcAlphanum, tcStPoint, tcStGeometry:
		return decodeLengthFramedBytes(dec)
	case tcNchar, tcNvarchar, tcNstring, tcShorttext:
		s, err := decodeLengthFramedCesu8(dec)
		if err != nil || s == nil {
			return nil, err
		}
		return string(s), nil
	default:
		return nil, fmt.Errorf("decodeTestParameter: unsupported type code %s", tc)
	}
}

// TestEncodeParameterRoundtrip exercises property 1 (parse(emit(v)) == v)
// for EncodeParameter across the input-parameter wire format, including a
// NULL variant for every nullable type.
func TestEncodeParameterRoundtrip(t *testing.T) {
	testData := []Value{
		{TypeCode: tcBoolean, V: true},
		{TypeCode: tcBoolean, V: false},
		{TypeCode: tcBoolean, V: nil},
		{TypeCode: tcTinyint, V: int64(42)},
		{TypeCode: tcTinyint, V: nil},
		{TypeCode: tcSmallint, V: int64(-1234)},
		{TypeCode: tcSmallint, V: nil},
		{TypeCode: tcInteger, V: int64(123456789)},
		{TypeCode: tcInteger, V: nil},
		{TypeCode: tcBigint, V: int64(-123456789012345)},
		{TypeCode: tcBigint, V: nil},
		{TypeCode: tcReal, V: float32(3.5)},
		{TypeCode: tcReal, V: float32(0)},
		{TypeCode: tcReal, V: float32(math.Inf(1))},
		{TypeCode: tcReal, V: nil},
		{TypeCode: tcDouble, V: float64(-2.25)},
		{TypeCode: tcDouble, V: math.Inf(-1)},
		{TypeCode: tcDouble, V: nil},
		{TypeCode: tcDaydate, V: time.Date(2022, time.March, 4, 0, 0, 0, 0, time.UTC)},
		{TypeCode: tcDaydate, V: nil},
		{TypeCode: tcSecondtime, V: time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)},
		{TypeCode: tcSecondtime, V: time.Date(1, 1, 1, 13, 14, 15, 0, time.UTC)},
		{TypeCode: tcSecondtime, V: nil},
		{TypeCode: tcSeconddate, V: time.Date(2022, time.March, 4, 13, 14, 15, 0, time.UTC)},
		{TypeCode: tcSeconddate, V: nil},
		{TypeCode: tcLongdate, V: time.Date(2022, time.March, 4, 13, 14, 15, 123400000, time.UTC)},
		{TypeCode: tcLongdate, V: nil},
		{TypeCode: tcDecimal, V: &Decimal{Mantissa: big.NewInt(0), Exp: 0}},
		{TypeCode: tcDecimal, V: &Decimal{Mantissa: big.NewInt(1), Exp: 0}},
		{TypeCode: tcDecimal, V: &Decimal{Mantissa: big.NewInt(-1), Exp: 0}},
		{TypeCode: tcDecimal, V: &Decimal{Mantissa: big.NewInt(-12345), Exp: 3}},
		{TypeCode: tcDecimal, V: nil},
		{TypeCode: tcSmalldecimal, V: &Decimal{Mantissa: big.NewInt(7), Exp: -2}},
		{TypeCode: tcSmalldecimal, V: nil},
		{TypeCode: tcFixed8, Scale: 2, V: &Decimal{Mantissa: big.NewInt(12345), Exp: -2}},
		{TypeCode: tcFixed8, Scale: 2, V: nil},
		{TypeCode: tcFixed12, Scale: 0, V: &Decimal{Mantissa: big.NewInt(-9), Exp: 0}},
		{TypeCode: tcFixed12, Scale: 0, V: nil},
		{TypeCode: tcFixed16, Scale: 4, V: &Decimal{Mantissa: big.NewInt(1), Exp: -4}},
		{TypeCode: tcFixed16, Scale: 4, V: nil},
		{TypeCode: tcChar, V: []byte("hello")},
		{TypeCode: tcChar, V: nil},
		{TypeCode: tcVarchar, V: []byte("world")},
		{TypeCode: tcVarchar, V: nil},
		{TypeCode: tcBinary, V: []byte{0x01, 0x02, 0x03}},
		{TypeCode: tcVarbinary, V: []byte{0xFF, 0x00}},
		{TypeCode: tcBstring, V: []byte("bstr")},
		{TypeCode: tcString, V: []byte("string-tc")},
		{TypeCode: tcAlphanum, V: []byte("ALNUM1")},
		{TypeCode: tcStPoint, V: []byte{0xDE, 0xAD}},
		{TypeCode: tcStGeometry, V: []byte{0xBE, 0xEF}},
		{TypeCode: tcNchar, V: "héllo"},
		{TypeCode: tcNchar, V: nil},
		{TypeCode: tcNvarchar, V: "wörld"},
		{TypeCode: tcNstring, V: "日本語"},
		{TypeCode: tcShorttext, V: "short"},
	}

	for i, want := range testData {
		buf := new(bytes.Buffer)
		enc, dec := valueCodec(buf)
		if err := EncodeParameter(enc, want); err != nil {
			t.Fatalf("case %d (%s): EncodeParameter: %v", i, want.TypeCode, err)
		}

		got, err := decodeTestParameter(dec, want.TypeCode, want.Scale)
		if err != nil {
			t.Fatalf("case %d (%s): decode: %v", i, want.TypeCode, err)
		}
		if !valuesEqual(got, want.V) {
			t.Fatalf("case %d (%s): roundtrip = %#v, want %#v", i, want.TypeCode, got, want.V)
		}
	}
}

func valuesEqual(got, want any) bool {
	if want == nil || got == nil {
		return got == nil && want == nil
	}
	switch w := want.(type) {
	case []byte:
		g, ok := got.([]byte)
		return ok && bytes.Equal(g, w)
	case *Decimal:
		g, ok := got.(*Decimal)
		return ok && g.Mantissa.Cmp(w.Mantissa) == 0 && g.Exp == w.Exp
	case time.Time:
		g, ok := got.(time.Time)
		return ok && g.Equal(w)
	case float32:
		g, ok := got.(float32)
		if !ok {
			return false
		}
		if math.IsInf(float64(w), 0) {
			return math.IsInf(float64(g), int(math.Copysign(1, float64(w))))
		}
		return g == w
	case float64:
		g, ok := got.(float64)
		if !ok {
			return false
		}
		if math.IsInf(w, 0) {
			return math.IsInf(g, int(math.Copysign(1, w)))
		}
		return g == w
	default:
		return got == want
	}
}

// DecodeResult decodes the ResultSet/OutputParameters wire format, which is
// distinct from EncodeParameter's (no leading type code byte; NULL is
// either a dedicated in-band bool presence flag or a sentinel value).
// TestDecodeResultWireFormat builds that wire format by hand, the way a
// server reply would, and checks DecodeResult against it for property 1.
func TestDecodeResultWireFormat(t *testing.T) {
	type testCase struct {
		tc    TypeCode
		scale int
		write func(enc *encoding.Encoder)
		want  any
	}
	testData := []testCase{
		{tcBoolean, 0, func(enc *encoding.Encoder) { enc.Byte(2) }, true},
		{tcBoolean, 0, func(enc *encoding.Encoder) { enc.Byte(0) }, false},
		{tcBoolean, 0, func(enc *encoding.Encoder) { enc.Byte(1) }, nil},
		{tcTinyint, 0, func(enc *encoding.Encoder) { enc.Bool(true); enc.Byte(200) }, int64(200)},
		{tcTinyint, 0, func(enc *encoding.Encoder) { enc.Bool(false) }, nil},
		{tcSmallint, 0, func(enc *encoding.Encoder) { enc.Bool(true); enc.Int16(-7) }, int64(-7)},
		{tcSmallint, 0, func(enc *encoding.Encoder) { enc.Bool(false) }, nil},
		{tcInteger, 0, func(enc *encoding.Encoder) { enc.Bool(true); enc.Int32(99999) }, int64(99999)},
		{tcInteger, 0, func(enc *encoding.Encoder) { enc.Bool(false) }, nil},
		{tcBigint, 0, func(enc *encoding.Encoder) { enc.Bool(true); enc.Int64(-1) }, int64(-1)},
		{tcBigint, 0, func(enc *encoding.Encoder) { enc.Bool(false) }, nil},
		{tcReal, 0, func(enc *encoding.Encoder) { enc.Float32(1.5) }, float32(1.5)},
		{tcReal, 0, func(enc *encoding.Encoder) { enc.Uint32(realNullBits) }, nil},
		{tcDouble, 0, func(enc *encoding.Encoder) { enc.Float64(-9.5) }, float64(-9.5)},
		{tcDouble, 0, func(enc *encoding.Encoder) { enc.Uint64(doubleNullBits) }, nil},
		{tcDaydate, 0, func(enc *encoding.Encoder) { enc.Int32(timeToDayDate(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC))) }, time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)},
		{tcDaydate, 0, func(enc *encoding.Encoder) { enc.Int32(daydateNull) }, nil},
		{tcSeconddate, 0, func(enc *encoding.Encoder) { enc.Int64(timeToSecondDate(time.Date(2020, 6, 1, 10, 0, 0, 0, time.UTC))) }, time.Date(2020, 6, 1, 10, 0, 0, 0, time.UTC)},
		{tcSeconddate, 0, func(enc *encoding.Encoder) { enc.Int64(seconddateNull) }, nil},
		{tcLongdate, 0, func(enc *encoding.Encoder) { enc.Int64(timeToLongDate(time.Date(2020, 6, 1, 10, 0, 0, 123400000, time.UTC))) }, time.Date(2020, 6, 1, 10, 0, 0, 123400000, time.UTC)},
		{tcLongdate, 0, func(enc *encoding.Encoder) { enc.Int64(longdateNull) }, nil},
		{tcDecimal, 0, func(enc *encoding.Encoder) { enc.Decimal(big.NewInt(-5), 2) }, &Decimal{Mantissa: big.NewInt(-5), Exp: 2}},
		{tcDecimal, 0, func(enc *encoding.Encoder) { enc.Bytes(bytes.Repeat([]byte{0xFF}, 16)) }, nil},
		{tcFixed8, 2, func(enc *encoding.Encoder) { enc.Bool(true); enc.Fixed(big.NewInt(555), 8) }, &Decimal{Mantissa: big.NewInt(555), Exp: -2}},
		{tcFixed8, 2, func(enc *encoding.Encoder) { enc.Bool(false) }, nil},
		{tcChar, 0, func(enc *encoding.Encoder) { encodeLengthFramedBytes(enc, []byte("abc")) }, []byte("abc")},
		{tcChar, 0, func(enc *encoding.Encoder) { encodeLengthFramedBytes(enc, nil) }, nil},
		{tcNvarchar, 0, func(enc *encoding.Encoder) { encodeLengthFramedCesu8(enc, "日本") }, "日本"},
	}

	for i, d := range testData {
		buf := new(bytes.Buffer)
		enc, dec := valueCodec(buf)
		d.write(enc)

		got, err := DecodeResult(dec, d.tc, d.scale)
		if err != nil {
			t.Fatalf("case %d (%s): DecodeResult: %v", i, d.tc, err)
		}
		if !valuesEqual(got.V, d.want) {
			t.Fatalf("case %d (%s): got %#v, want %#v", i, d.tc, got.V, d.want)
		}
	}
}

// SECONDTIME boundary behavior (§8): 0 and 1 both decode to 00:00:00,
// 86401 is the last in-range second (23:59:59), 86402 is NULL.
func TestSecondTimeBoundaries(t *testing.T) {
	midnight := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)

	testData := []struct {
		name   string
		raw    int32
		isNull bool
		want   time.Time
	}{
		{"zero", 0, false, midnight},
		{"one", 1, false, midnight},
		{"lastInRange", 86401, false, midnight.Add(86399 * time.Second)},
		{"null", 86402, true, time.Time{}},
	}

	for _, d := range testData {
		t.Run(d.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			enc, dec := valueCodec(buf)
			enc.Int32(d.raw)

			got, err := DecodeResult(dec, tcSecondtime, 0)
			if err != nil {
				t.Fatalf("DecodeResult: %v", err)
			}
			if d.isNull {
				if !got.IsNull() {
					t.Fatalf("raw %d: got %v, want NULL", d.raw, got.V)
				}
				return
			}
			if got.IsNull() {
				t.Fatalf("raw %d: got NULL, want %v", d.raw, d.want)
			}
			if !got.V.(time.Time).Equal(d.want) {
				t.Fatalf("raw %d: got %v, want %v", d.raw, got.V, d.want)
			}
		})
	}
}

// REAL/DOUBLE NULL must be distinguishable from +/-Inf: the null sentinel
// is a dedicated all-ones bit pattern, while IEEE 754 infinity has a
// distinct (non-all-ones mantissa) bit pattern (§8).
func TestRealDoubleNullVsInfinity(t *testing.T) {
	posInf32 := math.Float32bits(float32(math.Inf(1)))
	negInf32 := math.Float32bits(float32(math.Inf(-1)))
	if posInf32 == realNullBits || negInf32 == realNullBits {
		t.Fatalf("float32 infinity bit pattern collides with the REAL null sentinel")
	}

	posInf64 := math.Float64bits(math.Inf(1))
	negInf64 := math.Float64bits(math.Inf(-1))
	if posInf64 == doubleNullBits || negInf64 == doubleNullBits {
		t.Fatalf("float64 infinity bit pattern collides with the DOUBLE null sentinel")
	}

	buf := new(bytes.Buffer)
	enc, dec := valueCodec(buf)
	enc.Float32(float32(math.Inf(1)))
	got, err := DecodeResult(dec, tcReal, 0)
	if err != nil {
		t.Fatalf("DecodeResult(REAL +Inf): %v", err)
	}
	if got.IsNull() {
		t.Fatal("REAL +Inf decoded as NULL")
	}
	if f := got.V.(float32); !math.IsInf(float64(f), 1) {
		t.Fatalf("REAL +Inf decoded as %v", f)
	}

	buf.Reset()
	enc.Float64(math.Inf(-1))
	got, err = DecodeResult(dec, tcDouble, 0)
	if err != nil {
		t.Fatalf("DecodeResult(DOUBLE -Inf): %v", err)
	}
	if got.IsNull() {
		t.Fatal("DOUBLE -Inf decoded as NULL")
	}
	if f := got.V.(float64); !math.IsInf(f, -1) {
		t.Fatalf("DOUBLE -Inf decoded as %v", f)
	}
}

func TestDecimalAllOnesIsNullValue(t *testing.T) {
	raw := bytes.Repeat([]byte{0xFF}, 16)
	buf := bytes.NewBuffer(raw)
	dec := encoding.NewDecoder(buf, func() transform.Transformer { return cesu8.Cesu8ToUtf8Transformer })

	got, err := DecodeResult(dec, tcDecimal, 0)
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if !got.IsNull() {
		t.Fatalf("all-0xFF DECIMAL = %v, want NULL", got.V)
	}
}
