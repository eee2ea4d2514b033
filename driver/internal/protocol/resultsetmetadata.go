// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"
	"reflect"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
)

type columnOptions int8

const (
	coMandatory columnOptions = 0x01
	coOptional  columnOptions = 0x02
)

func (o columnOptions) String() string {
	switch {
	case o&coOptional != 0:
		return "optional"
	case o&coMandatory != 0:
		return "mandatory"
	default:
		return "unknown"
	}
}

// ResultField describes one column of a ResultSet (§4.10 C10).
type ResultField struct {
	tableName         string
	schemaName        string
	columnName        string
	columnDisplayName string
	tc                TypeCode
	fraction          int16
	length            int16
	columnOptions     columnOptions

	tableNameOffset         uint32
	schemaNameOffset        uint32
	columnNameOffset        uint32
	columnDisplayNameOffset uint32
}

func (f *ResultField) String() string {
	return fmt.Sprintf("columnOptions %s typeCode %s fraction %d length %d column %s",
		f.columnOptions, f.tc, f.fraction, f.length, f.columnDisplayName)
}

// TypeName returns the database type name of the field.
func (f *ResultField) TypeName() string { return f.tc.typeName() }

// ScanType returns the Go type the decoded value will have.
func (f *ResultField) ScanType() reflect.Type { return f.tc.dataType().ScanType() }

// TypeLength returns the declared length for variable-length types.
func (f *ResultField) TypeLength() (int64, bool) {
	if f.tc.isVariableLength() {
		return int64(f.length), true
	}
	return 0, false
}

// TypePrecisionScale returns precision/scale for decimal types.
func (f *ResultField) TypePrecisionScale() (int64, int64, bool) {
	if f.tc.isDecimalType() {
		return int64(f.length), int64(f.fraction), true
	}
	return 0, 0, false
}

// Nullable reports whether the column may contain SQL NULL.
func (f *ResultField) Nullable() bool { return f.columnOptions&coOptional != 0 }

// Name returns the column display name.
func (f *ResultField) Name() string { return f.columnDisplayName }

func (f *ResultField) decode(dec *encoding.Decoder) {
	f.columnOptions = columnOptions(dec.Int8())
	f.tc = TypeCode(dec.Int8())
	f.fraction = dec.Int16()
	f.length = dec.Int16()
	dec.Skip(2) // filler
	f.tableNameOffset = dec.Uint32()
	f.schemaNameOffset = dec.Uint32()
	f.columnNameOffset = dec.Uint32()
	f.columnDisplayNameOffset = dec.Uint32()
}

// decodeResult decodes one field value against this column's type/scale.
func (f *ResultField) decodeResult(dec *encoding.Decoder) (Value, error) {
	return DecodeResult(dec, f.tc, int(f.fraction))
}

// ResultSetMetadata is the pkResultSetMetadata part: one ResultField per
// column, plus the trailing name blob resolved via fieldNames (§4.10 C10).
type ResultSetMetadata struct {
	ResultFields []*ResultField
}

func (m *ResultSetMetadata) String() string { return fmt.Sprintf("result fields %v", m.ResultFields) }

func (m *ResultSetMetadata) decode(dec *encoding.Decoder, ph *partHeader) error {
	m.ResultFields = make([]*ResultField, ph.numArg())

	names := fieldNames{}
	for i := range m.ResultFields {
		f := new(ResultField)
		f.decode(dec)
		m.ResultFields[i] = f
		names.insert(f.tableNameOffset)
		names.insert(f.schemaNameOffset)
		names.insert(f.columnNameOffset)
		names.insert(f.columnDisplayNameOffset)
	}
	if err := names.decode(dec); err != nil {
		return err
	}
	for _, f := range m.ResultFields {
		f.tableName = names.name(f.tableNameOffset)
		f.schemaName = names.name(f.schemaNameOffset)
		f.columnName = names.name(f.columnNameOffset)
		f.columnDisplayName = names.name(f.columnDisplayNameOffset)
	}
	return dec.Error()
}
