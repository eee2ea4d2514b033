// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Value implements C4, the typed value model (§4.4, §9). Per the
// re-architecture note in §9, nullability is collapsed into the Go field
// V (nil == SQL NULL) rather than a separate "N_T" sibling variant per
// type — the dual type-ids (plain / +128) only resurface at the wire
// boundary, in EncodeParameter/DecodeResult below.
package protocol

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
)

// Value is one HdbValue: a wire type code plus its decoded Go payload.
// V is nil for SQL NULL. Concrete payload types per TypeCode:
//
//	BOOLEAN                      bool
//	TINYINT/SMALLINT/INTEGER/BIGINT int64
//	REAL                          float32
//	DOUBLE                        float64
//	DECIMAL/SMALLDECIMAL/FIXED8/12/16  *Decimal
//	DATE/TIME/TIMESTAMP/LONGDATE/
//	  SECONDDATE/DAYDATE/SECONDTIME time.Time
//	CHAR/VARCHAR/STRING/BINARY/
//	  VARBINARY/BSTRING/ALPHANUM/
//	  ST_POINT/ST_GEOMETRY         []byte
//	NCHAR/NVARCHAR/NSTRING/
//	  SHORTTEXT                   string (CESU-8 source, returned as UTF-8)
//	CLOB/NCLOB/BLOB/TEXT/BINTEXT/
//	  LOCATOR/NLOCATOR             *LobDescr
type Value struct {
	TypeCode TypeCode // always the non-null (<0x80, != tcSecondtimeNull) type code
	Scale    int      // decimal/fixed fraction digits, informational
	V        any
}

// IsNull reports whether the value is SQL NULL.
func (v Value) IsNull() bool { return v.V == nil }

// Decimal is the payload of DECIMAL/SMALLDECIMAL/FIXED8/FIXED12/FIXED16
// values: an arbitrary precision mantissa and its base-10 exponent, i.e.
// the represented number is Mantissa * 10^Exp.
type Decimal struct {
	Mantissa *big.Int
	Exp      int
}

func (d *Decimal) String() string {
	if d == nil {
		return "<nil>"
	}
	f := new(big.Float).SetInt(d.Mantissa)
	scale := new(big.Float).SetFloat64(1)
	ten := big.NewFloat(10)
	for i := 0; i < d.Exp; i++ {
		scale.Mul(scale, ten)
	}
	for i := 0; i > d.Exp; i-- {
		scale.Quo(scale, ten)
	}
	f.Mul(f, scale)
	return f.Text('f', -1)
}

// null sentinels for types whose NULL is encoded in-band rather than via
// the high-bit type code (§4.4).
const (
	realNullBits   uint32 = 0xFFFFFFFF
	doubleNullBits uint64 = 0xFFFFFFFFFFFFFFFF

	daydateNull    int32 = 0
	secondtimeNull int32 = 86_402
	seconddateNull int64 = 315_538_070_401
	longdateNull   int64 = 3_155_380_704_000_000_001
)

const julianHdb = 1721423 // Julian day number epoch used by DAYDATE/LONGDATE/SECONDDATE

// DecodeResult decodes one value of the given (non-null) type code and
// scale from a ResultSet/OutputParameters stream, where the type code is
// already known from column/parameter metadata and not repeated on the
// wire (§4.3 "ResultSet(rows): parsed only").
func DecodeResult(dec *encoding.Decoder, tc TypeCode, scale int) (Value, error) {
	v := Value{TypeCode: tc, Scale: scale}
	switch tc {
	case tcBoolean:
		switch dec.Byte() {
		case 0:
			v.V = false
		case 2:
			v.V = true
		default: // 1 == null
		}
	case tcTinyint:
		if dec.Bool() {
			v.V = int64(dec.Byte())
		}
	case tcSmallint:
		if dec.Bool() {
			v.V = int64(dec.Int16())
		}
	case tcInteger:
		if dec.Bool() {
			v.V = int64(dec.Int32())
		}
	case tcBigint:
		if dec.Bool() {
			v.V = dec.Int64()
		}
	case tcReal:
		bits := dec.Uint32()
		if bits != realNullBits {
			v.V = math.Float32frombits(bits)
		}
	case tcDouble:
		bits := dec.Uint64()
		if bits != doubleNullBits {
			v.V = math.Float64frombits(bits)
		}
	case tcDaydate:
		i := dec.Int32()
		if i != daydateNull {
			v.V = dayDateToTime(i)
		}
	case tcSecondtime:
		i := dec.Int32()
		if i != secondtimeNull {
			v.V = secondTimeToTime(i)
		}
	case tcSeconddate:
		i := dec.Int64()
		if i != seconddateNull {
			v.V = secondDateToTime(i)
		}
	case tcLongdate:
		i := dec.Int64()
		if i != longdateNull {
			v.V = longDateToTime(i)
		}
	case tcDecimal, tcSmalldecimal:
		m, exp, err := dec.Decimal()
		if err != nil {
			return v, err
		}
		if m != nil {
			v.V = &Decimal{Mantissa: m, Exp: exp}
		}
	case tcFixed8, tcFixed12, tcFixed16:
		d, err := decodeFixed(dec, tc, scale)
		if err != nil {
			return v, err
		}
		v.V = d
	case tcChar, tcVarchar, tcString, tcBinary, tcVarbinary, tcBstring:
		b, err := decodeLengthFramedBytes(dec)
		if err != nil {
			return v, err
		}
		if b != nil {
			v.V = b
		}
	case tcAlphanum, tcStPoint, tcStGeometry:
		b, err := decodeLengthFramedBytes(dec)
		if err != nil {
			return v, err
		}
		if b != nil {
			v.V = b
		}
	case tcNchar, tcNvarchar, tcNstring, tcShorttext:
		s, err := decodeLengthFramedCesu8(dec)
		if err != nil {
			return v, err
		}
		if s != nil {
			v.V = string(s)
		}
	case tcClob, tcNclob, tcBlob, tcText, tcBintext, tcLocator, tcNlocator:
		ld, err := decodeLobDescr(dec, tc)
		if err != nil {
			return v, err
		}
		if ld != nil {
			v.V = ld
		}
	default:
		return v, fmt.Errorf("protocol: unsupported result type code %s", tc)
	}
	return v, dec.Error()
}

// EncodeParameter encodes one value as an input parameter: a leading type
// code byte (OR 0x80 for null) followed by the payload, if any (§4.4).
func EncodeParameter(enc *encoding.Encoder, v Value) error {
	tc := v.TypeCode
	if v.IsNull() {
		if !tc.supportNullValue() && tc != tcBoolean {
			return fmt.Errorf("protocol: type %s does not support NULL", tc)
		}
		if tc == tcBoolean {
			enc.Byte(byte(tc))
			enc.Byte(1) // null encoded in-band for BOOLEAN
			return nil
		}
		enc.Byte(byte(tc.nullValue()))
		return nil
	}

	enc.Byte(byte(tc.encTc()))
	switch tc {
	case tcBoolean:
		if v.V.(bool) {
			enc.Byte(2)
		} else {
			enc.Byte(0)
		}
	case tcTinyint:
		enc.Bool(true)
		enc.Byte(byte(v.V.(int64)))
	case tcSmallint:
		enc.Bool(true)
		enc.Int16(int16(v.V.(int64)))
	case tcInteger:
		enc.Bool(true)
		enc.Int32(int32(v.V.(int64)))
	case tcBigint:
		enc.Bool(true)
		enc.Int64(v.V.(int64))
	case tcReal:
		enc.Float32(v.V.(float32))
	case tcDouble:
		enc.Float64(v.V.(float64))
	case tcDaydate:
		enc.Int32(timeToDayDate(v.V.(time.Time)))
	case tcSecondtime:
		enc.Int32(timeToSecondTime(v.V.(time.Time)))
	case tcSeconddate:
		enc.Int64(timeToSecondDate(v.V.(time.Time)))
	case tcLongdate:
		enc.Int64(timeToLongDate(v.V.(time.Time)))
	case tcDecimal, tcSmalldecimal:
		d := v.V.(*Decimal)
		enc.Decimal(d.Mantissa, d.Exp)
	case tcFixed8, tcFixed12, tcFixed16:
		d := v.V.(*Decimal)
		encodeFixed(enc, tc, d, v.Scale)
	case tcChar, tcVarchar, tcString, tcBinary, tcVarbinary, tcBstring, tcAlphanum, tcStPoint, tcStGeometry:
		encodeLengthFramedBytes(enc, v.V.([]byte))
	case tcNchar, tcNvarchar, tcNstring, tcShorttext:
		encodeLengthFramedCesu8(enc, v.V.(string))
	default:
		return fmt.Errorf("protocol: unsupported parameter type code %s", tc)
	}
	return nil
}

// dayDateToTime/timeToDayDate, etc. convert between the HANA Julian-based
// epoch integers (§4.4) and time.Time (UTC, date/time-of-day only).

func dayDateToTime(days int32) time.Time {
	return julianToTime(int64(days) + julianHdb - 1)
}

func timeToDayDate(t time.Time) int32 {
	return int32(timeToJulian(t) - julianHdb + 1)
}

func secondTimeToTime(v int32) time.Time {
	// 0 and 1 both mean 00:00:00 (§8 boundary behavior); 86_401 is 23:59:59.
	secs := int64(v) - 1
	if secs < 0 {
		secs = 0
	}
	if secs > 86_399 {
		secs = 86_399
	}
	return time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(secs) * time.Second)
}

func timeToSecondTime(t time.Time) int32 {
	h, m, s := t.Clock()
	return int32(h*3600+m*60+s) + 1
}

func secondDateToTime(v int64) time.Time {
	days := v / 86400
	secs := v % 86400
	d := julianToTime(days + julianHdb - 1)
	return d.Add(time.Duration(secs) * time.Second)
}

func timeToSecondDate(t time.Time) int64 {
	days := timeToJulian(t) - julianHdb + 1
	h, m, s := t.Clock()
	return days*86400 + int64(h*3600+m*60+s)
}

func longDateToTime(v int64) time.Time {
	ticks := v - 1 // 100ns ticks since epoch
	days := ticks / (86400 * 10000000)
	rem := ticks % (86400 * 10000000)
	d := julianToTime(days + julianHdb - 1)
	return d.Add(time.Duration(rem*100) * time.Nanosecond)
}

func timeToLongDate(t time.Time) int64 {
	days := timeToJulian(t)
	d0 := julianToTime(days)
	nanos := t.Sub(d0).Nanoseconds()
	return (days-julianHdb+1)*86400*10000000 + nanos/100 + 1
}

func julianToTime(jd int64) time.Time {
	// civil-from-days algorithm (proleptic Gregorian), Howard Hinnant's
	// days_from_civil inverse.
	z := jd + 719468
	era := z
	if z < 0 {
		era = z - 146096
	}
	era /= 146097
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if mp >= 10 {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return time.Date(int(y), time.Month(m), int(d), 0, 0, 0, 0, time.UTC)
}

func timeToJulian(t time.Time) int64 {
	y, m, d := t.Date()
	yy := int64(y)
	mm := int64(m)
	if mm <= 2 {
		yy--
	}
	era := yy
	if yy < 0 {
		era = yy - 399
	}
	era /= 400
	yoe := yy - era*400
	mp := mm - 3
	if mm < 3 {
		mp = mm + 9
	}
	doy := (153*mp+2)/5 + int64(d) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}
