// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// TypeCode identifies the wire type of a value (GLOSSARY; §4.4 C4). The
// null-value indicator is the high bit, except for SECONDTIME which has a
// dedicated sentinel code (see nullValue below).
type TypeCode byte

const (
	tcNull         TypeCode = 0x00
	tcTinyint      TypeCode = 0x01
	tcSmallint     TypeCode = 0x02
	tcInteger      TypeCode = 0x03
	tcBigint       TypeCode = 0x04
	tcDecimal      TypeCode = 0x05
	tcReal         TypeCode = 0x06
	tcDouble       TypeCode = 0x07
	tcChar         TypeCode = 0x08
	tcVarchar      TypeCode = 0x09
	tcNchar        TypeCode = 0x0A
	tcNvarchar     TypeCode = 0x0B
	tcBinary       TypeCode = 0x0C
	tcVarbinary    TypeCode = 0x0D
	tcDate         TypeCode = 0x0E
	tcTime         TypeCode = 0x0F
	tcTimestamp    TypeCode = 0x10
	tcClob         TypeCode = 0x19
	tcNclob        TypeCode = 0x1A
	tcBlob         TypeCode = 0x1B
	tcBoolean      TypeCode = 0x1C
	tcString       TypeCode = 0x1D
	tcNstring      TypeCode = 0x1E
	tcLocator      TypeCode = 0x1F
	tcNlocator     TypeCode = 0x20
	tcBstring      TypeCode = 0x21
	tcText         TypeCode = 0x33
	tcShorttext    TypeCode = 0x34
	tcBintext      TypeCode = 0x35
	tcAlphanum     TypeCode = 0x37
	tcLongdate     TypeCode = 0x3D
	tcSeconddate   TypeCode = 0x3E
	tcDaydate      TypeCode = 0x3F
	tcSecondtime   TypeCode = 0x40
	tcStGeometry   TypeCode = 0x4A
	tcStPoint      TypeCode = 0x4B
	tcFixed16      TypeCode = 0x4C
	tcFixed8       TypeCode = 0x51
	tcFixed12      TypeCode = 0x52
	tcSmalldecimal TypeCode = 0x2F
	tcCiphertext   TypeCode = 0x5A

	// tcSecondtimeNull is the dedicated null sentinel for SECONDTIME; a
	// documented HDB quirk means it cannot use the usual high-bit scheme.
	tcSecondtimeNull TypeCode = 0xB0

	// TcTableRef and TcTableRows are internal pseudo type codes used by the
	// reply dispatcher (C8) to carry stored-procedure table results; they
	// never appear on the wire as a value's own type byte.
	TcTableRef  TypeCode = 0x7e
	TcTableRows TypeCode = 0x7f
)

var typeCodeText = map[TypeCode]string{
	tcNull: "NULL", tcTinyint: "TINYINT", tcSmallint: "SMALLINT", tcInteger: "INTEGER",
	tcBigint: "BIGINT", tcDecimal: "DECIMAL", tcReal: "REAL", tcDouble: "DOUBLE",
	tcChar: "CHAR", tcVarchar: "VARCHAR", tcNchar: "NCHAR", tcNvarchar: "NVARCHAR",
	tcBinary: "BINARY", tcVarbinary: "VARBINARY", tcDate: "DATE", tcTime: "TIME",
	tcTimestamp: "TIMESTAMP", tcClob: "CLOB", tcNclob: "NCLOB", tcBlob: "BLOB",
	tcBoolean: "BOOLEAN", tcString: "STRING", tcNstring: "NSTRING", tcLocator: "LOCATOR",
	tcNlocator: "NLOCATOR", tcBstring: "BSTRING", tcText: "TEXT", tcShorttext: "SHORTTEXT",
	tcBintext: "BINTEXT", tcAlphanum: "ALPHANUM", tcLongdate: "LONGDATE",
	tcSeconddate: "SECONDDATE", tcDaydate: "DAYDATE", tcSecondtime: "SECONDTIME",
	tcStGeometry: "ST_GEOMETRY", tcStPoint: "ST_POINT", tcFixed16: "FIXED16",
	tcFixed8: "FIXED8", tcFixed12: "FIXED12", tcSmalldecimal: "SMALLDECIMAL",
	tcCiphertext: "CIPHERTEXT",
}

func (tc TypeCode) String() string {
	if s, ok := typeCodeText[tc&0x7F]; ok {
		return s
	}
	return fmt.Sprintf("TypeCode(%#x)", byte(tc))
}

// typeName returns the database type name; like String, it ignores the NULL bit.
func (tc TypeCode) typeName() string { return strings.ToUpper(tc.String()) }

// IsLob reports whether tc denotes a CLOB/NCLOB/BLOB family value.
func (tc TypeCode) IsLob() bool {
	switch tc & 0x7F {
	case tcClob, tcNclob, tcBlob, tcText, tcBintext, tcLocator, tcNlocator:
		return true
	default:
		return false
	}
}

func (tc TypeCode) isVariableLength() bool {
	switch tc & 0x7F {
	case tcChar, tcNchar, tcVarchar, tcNvarchar, tcBinary, tcVarbinary, tcShorttext, tcAlphanum, tcString, tcNstring, tcBstring:
		return true
	default:
		return false
	}
}

func (tc TypeCode) isDecimalType() bool {
	switch tc & 0x7F {
	case tcSmalldecimal, tcDecimal, tcFixed8, tcFixed12, tcFixed16:
		return true
	default:
		return false
	}
}

// supportNullValue reports whether tc encodes NULL via the normal
// high-bit-set type code. BOOLEAN is the one exception: false=0, null=1,
// true=2, encoded entirely in-band in the payload byte.
func (tc TypeCode) supportNullValue() bool { return tc != tcBoolean }

// nullValue returns the wire type code to emit for a NULL value of this
// type (§4.4: "type-id OR 128 if the value is a null nullable").
func (tc TypeCode) nullValue() TypeCode {
	if tc == tcSecondtime {
		return tcSecondtimeNull
	}
	return tc | 0x80
}

// encTc maps a parsed-only type code to the code actually used when
// re-emitting (input parameter encoding never needs to produce these).
func (tc TypeCode) encTc() TypeCode {
	switch tc {
	case tcText, tcBintext, tcLocator:
		return tcNclob
	default:
		return tc
	}
}

func (tc TypeCode) dataType() DataType {
	switch tc & 0x7F {
	case tcBoolean:
		return DtBoolean
	case tcTinyint:
		return DtTinyint
	case tcSmallint:
		return DtSmallint
	case tcInteger:
		return DtInteger
	case tcBigint:
		return DtBigint
	case tcReal:
		return DtReal
	case tcDouble:
		return DtDouble
	case tcDate, tcTime, tcTimestamp, tcLongdate, tcSeconddate, tcDaydate, tcSecondtime:
		return DtTime
	case tcDecimal, tcFixed8, tcFixed12, tcFixed16, tcSmalldecimal:
		return DtDecimal
	case tcNchar, tcNvarchar, tcNstring, tcShorttext:
		return DtString
	case tcChar, tcVarchar, tcString, tcAlphanum, tcStPoint, tcStGeometry, tcBinary, tcVarbinary, tcBstring:
		return DtBytes
	case tcBlob, tcClob, tcNclob, tcText, tcBintext, tcLocator, tcNlocator:
		return DtLob
	default:
		return DtUnknown
	}
}

// DataType is a coarse scan-type classification of a TypeCode, used by the
// row/value deserialization collaborator (§6.3).
type DataType byte

const (
	DtUnknown DataType = iota
	DtBoolean
	DtTinyint
	DtSmallint
	DtInteger
	DtBigint
	DtReal
	DtDouble
	DtDecimal
	DtTime
	DtString
	DtBytes
	DtLob
)

var (
	scanTypeBool    = reflect.TypeOf(false)
	scanTypeInt64   = reflect.TypeOf(int64(0))
	scanTypeFloat32 = reflect.TypeOf(float32(0))
	scanTypeFloat64 = reflect.TypeOf(float64(0))
	scanTypeDecimal = reflect.TypeOf((*Decimal)(nil))
	scanTypeTime    = reflect.TypeOf(time.Time{})
	scanTypeString  = reflect.TypeOf("")
	scanTypeBytes   = reflect.TypeOf([]byte(nil))
	scanTypeLob     = reflect.TypeOf((*LobDescr)(nil))
)

// ScanType returns the Go type a decoded value of this classification has.
func (dt DataType) ScanType() reflect.Type {
	switch dt {
	case DtBoolean:
		return scanTypeBool
	case DtTinyint, DtSmallint, DtInteger, DtBigint:
		return scanTypeInt64
	case DtReal:
		return scanTypeFloat32
	case DtDouble:
		return scanTypeFloat64
	case DtDecimal:
		return scanTypeDecimal
	case DtTime:
		return scanTypeTime
	case DtString:
		return scanTypeString
	case DtBytes:
		return scanTypeBytes
	case DtLob:
		return scanTypeLob
	default:
		return nil
	}
}
