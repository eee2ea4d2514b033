// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"
	"math"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
	"github.com/SAP/go-hdb-protocol/driver/unicode/cesu8"
)

// length-indicator byte values for the variable-length field framing used
// by CHAR/VARCHAR/BINARY/... and their N-prefixed CESU-8 counterparts
// (§4.4 "STRING/BINARY family").
const (
	lenIndNull   = 255
	lenIndBig    = 247 // followed by a 4 byte length
	lenIndMedium = 246 // followed by a 2 byte length
	lenIndMax    = 245 // greater lengths use one of the indicators above
)

func decodeLengthFramedBytes(dec *encoding.Decoder) ([]byte, error) {
	ind := dec.Byte()
	var n int
	switch {
	case ind == lenIndNull:
		return nil, dec.Error()
	case ind == lenIndMedium:
		n = int(dec.Int16())
	case ind == lenIndBig:
		n = int(dec.Int32())
	case ind <= lenIndMax:
		n = int(ind)
	default:
		return nil, fmt.Errorf("protocol: invalid length indicator %d", ind)
	}
	b := make([]byte, n)
	dec.Bytes(b)
	return b, dec.Error()
}

func encodeLengthFramedBytes(enc *encoding.Encoder, b []byte) {
	if b == nil {
		enc.Byte(lenIndNull)
		return
	}
	n := len(b)
	switch {
	case n <= lenIndMax:
		enc.Byte(byte(n))
	case n <= math.MaxInt16:
		enc.Byte(lenIndMedium)
		enc.Int16(int16(n))
	default:
		enc.Byte(lenIndBig)
		enc.Int32(int32(n))
	}
	enc.Bytes(b)
}

func decodeLengthFramedCesu8(dec *encoding.Decoder) ([]byte, error) {
	ind := dec.Byte()
	var n int
	switch {
	case ind == lenIndNull:
		return nil, dec.Error()
	case ind == lenIndMedium:
		n = int(dec.Int16())
	case ind == lenIndBig:
		n = int(dec.Int32())
	case ind <= lenIndMax:
		n = int(ind)
	default:
		return nil, fmt.Errorf("protocol: invalid length indicator %d", ind)
	}
	b, err := dec.CESU8Bytes(n)
	if err != nil {
		return nil, err
	}
	return b, dec.Error()
}

func encodeLengthFramedCesu8(enc *encoding.Encoder, s string) {
	n := cesu8.StringSize(s)
	switch {
	case n <= lenIndMax:
		enc.Byte(byte(n))
	case n <= math.MaxInt16:
		enc.Byte(lenIndMedium)
		enc.Int16(int16(n))
	default:
		enc.Byte(lenIndBig)
		enc.Int32(int32(n))
	}
	enc.CESU8String(s)
}

func fixedSize(tc TypeCode) int {
	switch tc {
	case tcFixed8:
		return 8
	case tcFixed12:
		return 12
	default: // tcFixed16, tcDecimal-as-fixed fallback
		return 16
	}
}

// decodeFixed decodes a FIXED8/FIXED12/FIXED16 value. Unlike DECIMAL these
// types are not in the in-band NULL sentinel list of §4.4, so a leading
// null-indicator byte precedes the mantissa, mirroring the integer types.
func decodeFixed(dec *encoding.Decoder, tc TypeCode, scale int) (*Decimal, error) {
	if !dec.Bool() {
		return nil, dec.Error()
	}
	m := dec.Fixed(fixedSize(tc))
	return &Decimal{Mantissa: m, Exp: -scale}, dec.Error()
}

func encodeFixed(enc *encoding.Encoder, tc TypeCode, d *Decimal, scale int) {
	enc.Bool(true)
	enc.Fixed(d.Mantissa, fixedSize(tc))
}
