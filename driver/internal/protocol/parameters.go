// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// parameters implements the pkParameters (request) and pkOutputParameters
// (reply) parts: one row of bind values encoded/decoded against the
// ParameterMetadata resolved at prepare time (§4.9 C9).
package protocol

import (
	"fmt"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
	"github.com/SAP/go-hdb-protocol/driver/unicode/cesu8"
)

// parameterValueSize returns the number of bytes EncodeParameter will write
// for v against field f, used to precompute a request part's bufferLength
// before the writer has a live byte-counting encoder available.
func parameterValueSize(f *ParameterField, v any) (int, error) {
	const typeCodeSize = 1
	if v == nil {
		if f.tc == tcBoolean {
			return typeCodeSize + 1, nil // NULL is the in-band payload byte 1
		}
		return typeCodeSize, nil
	}
	switch f.tc {
	case tcBoolean:
		return typeCodeSize + 1, nil
	case tcTinyint:
		return typeCodeSize + 1 + 1, nil
	case tcSmallint:
		return typeCodeSize + 1 + 2, nil
	case tcInteger:
		return typeCodeSize + 1 + 4, nil
	case tcBigint:
		return typeCodeSize + 1 + 8, nil
	case tcReal:
		return typeCodeSize + 4, nil
	case tcDouble:
		return typeCodeSize + 8, nil
	case tcDaydate, tcSecondtime:
		return typeCodeSize + 4, nil
	case tcSeconddate, tcLongdate:
		return typeCodeSize + 8, nil
	case tcDecimal, tcSmalldecimal:
		return typeCodeSize + 16, nil
	case tcFixed8:
		return typeCodeSize + 1 + 8, nil
	case tcFixed12:
		return typeCodeSize + 1 + 12, nil
	case tcFixed16:
		return typeCodeSize + 1 + 16, nil
	case tcChar, tcVarchar, tcString, tcBinary, tcVarbinary, tcBstring, tcAlphanum, tcStPoint, tcStGeometry:
		b, ok := v.([]byte)
		if !ok {
			return 0, fmt.Errorf("protocol: parameter %s expects []byte, got %T", f.tc, v)
		}
		return typeCodeSize + varBytesSize(len(b)), nil
	case tcNchar, tcNvarchar, tcNstring, tcShorttext:
		s, ok := v.(string)
		if !ok {
			return 0, fmt.Errorf("protocol: parameter %s expects string, got %T", f.tc, v)
		}
		return typeCodeSize + varBytesSize(cesu8.StringSize(s)), nil
	default:
		return 0, fmt.Errorf("protocol: unsupported parameter type code %s", f.tc)
	}
}

// InputParameters is the pkParameters part: one row of IN/INOUT bind
// values, encoded in ParameterMetadata.InputFields order.
type InputParameters struct {
	Fields []*ParameterField
	Args   []any
}

func (p *InputParameters) String() string {
	return fmt.Sprintf("input parameters %v", p.Args)
}

func (p *InputParameters) numArg() int { return 1 }

func (p *InputParameters) size() int {
	size := 0
	for i, f := range p.Fields {
		n, err := parameterValueSize(f, p.Args[i])
		if err != nil {
			continue // surfaced again, fatally, by encode
		}
		size += n
	}
	return size
}

func (p *InputParameters) encode(enc *encoding.Encoder) error {
	for i, f := range p.Fields {
		if err := f.encodeParameter(enc, p.Args[i]); err != nil {
			return err
		}
	}
	return nil
}

// OutputParameters is the pkOutputParameters part: one row of OUT/INOUT
// values the server produced, decoded against ParameterMetadata.OutputFields.
type OutputParameters struct {
	Fields []*ParameterField
	Values []Value
}

func (p *OutputParameters) String() string {
	return fmt.Sprintf("output parameters %v", p.Values)
}

func (p *OutputParameters) decode(dec *encoding.Decoder, ph *partHeader) error {
	p.Values = make([]Value, len(p.Fields))
	for i, f := range p.Fields {
		v, err := f.decodeResult(dec)
		if err != nil {
			return err
		}
		p.Values[i] = v
	}
	return dec.Error()
}
