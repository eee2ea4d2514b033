// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
)

type parameterOptions int8

const (
	poMandatory parameterOptions = 0x01
	poOptional  parameterOptions = 0x02
	poDefault   parameterOptions = 0x04
)

type parameterMode int8

const (
	pmIn    parameterMode = 0x01
	pmInout parameterMode = 0x02
	pmOut   parameterMode = 0x04
)

func (m parameterMode) String() string {
	switch {
	case m&pmInout != 0:
		return "inout"
	case m&pmIn != 0:
		return "in"
	case m&pmOut != 0:
		return "out"
	default:
		return "unknown"
	}
}

// ParameterField describes one bind parameter of a prepared statement
// (§4.9 C9): its wire type, its mode (IN/OUT/INOUT), and its name, resolved
// via the same trailing name blob ResultSetMetadata uses.
type ParameterField struct {
	fieldName        string
	tc               TypeCode
	mode             parameterMode
	parameterOptions parameterOptions
	offset           uint32
	length           int16
	fraction         int16
}

func (f *ParameterField) String() string {
	return fmt.Sprintf("parameterOptions %d typeCode %s mode %s fraction %d length %d name %s",
		f.parameterOptions, f.tc, f.mode, f.fraction, f.length, f.fieldName)
}

// Name returns the parameter name.
func (f *ParameterField) Name() string { return f.fieldName }

// In reports whether the parameter carries a caller-supplied input value.
func (f *ParameterField) In() bool { return f.mode&(pmIn|pmInout) != 0 }

// Out reports whether the parameter carries a server-produced output value.
func (f *ParameterField) Out() bool { return f.mode&(pmOut|pmInout) != 0 }

// Nullable reports whether the parameter accepts SQL NULL.
func (f *ParameterField) Nullable() bool { return f.parameterOptions&poOptional != 0 }

func (f *ParameterField) decode(dec *encoding.Decoder) {
	f.parameterOptions = parameterOptions(dec.Int8())
	f.tc = TypeCode(dec.Int8())
	f.mode = parameterMode(dec.Int8())
	dec.Skip(1) // filler
	f.offset = dec.Uint32()
	f.length = dec.Int16()
	f.fraction = dec.Int16()
	dec.Skip(4) // filler
}

// encodeParameter writes one input value against this field's type.
func (f *ParameterField) encodeParameter(enc *encoding.Encoder, v any) error {
	return EncodeParameter(enc, Value{TypeCode: f.tc, Scale: int(f.fraction), V: v})
}

// decodeResult reads one output value against this field's type.
func (f *ParameterField) decodeResult(dec *encoding.Decoder) (Value, error) {
	return DecodeResult(dec, f.tc, int(f.fraction))
}

// ParameterMetadata is the pkParameterMetadata part: one ParameterField per
// bind position, resolved against the PrepareStatement's command text at
// prepare time and reused for every subsequent EXECUTE (§4 supplemented
// features, "PreparedStatement input-descriptor precomputation").
type ParameterMetadata struct {
	ParameterFields []*ParameterField
}

func (m *ParameterMetadata) String() string { return fmt.Sprintf("parameter %v", m.ParameterFields) }

func (m *ParameterMetadata) decode(dec *encoding.Decoder, ph *partHeader) error {
	m.ParameterFields = make([]*ParameterField, ph.numArg())

	names := fieldNames{}
	for i := range m.ParameterFields {
		f := new(ParameterField)
		f.decode(dec)
		m.ParameterFields[i] = f
		names.insert(f.offset)
	}
	if err := names.decode(dec); err != nil {
		return err
	}
	for _, f := range m.ParameterFields {
		f.fieldName = names.name(f.offset)
	}
	return dec.Error()
}

// InputFields returns the subset of fields that accept a caller-supplied
// value (IN and INOUT parameters), in wire order.
func (m *ParameterMetadata) InputFields() []*ParameterField {
	fields := make([]*ParameterField, 0, len(m.ParameterFields))
	for _, f := range m.ParameterFields {
		if f.In() {
			fields = append(fields, f)
		}
	}
	return fields
}

// OutputFields returns the subset of fields the server populates (OUT and
// INOUT parameters), in wire order.
func (m *ParameterMetadata) OutputFields() []*ParameterField {
	fields := make([]*ParameterField, 0, len(m.ParameterFields))
	for _, f := range m.ParameterFields {
		if f.Out() {
			fields = append(fields, f)
		}
	}
	return fields
}
