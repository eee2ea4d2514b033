// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// resultset is the pkResultSet part (§4.10 C10): the row data belonging to
// a ResultSetMetadata, fetched lazily one chunk at a time as attributes
// paLastPacket/paResultsetClosed dictate (§4 "lazy fetch" state machine).
package protocol

import (
	"fmt"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
)

// DecodeError records a single value that failed to decode without aborting
// the rest of the row; the caller sees it surfaced alongside the row data
// rather than as a fatal read error (§8 "partial row decode").
type DecodeError struct {
	Row       int
	FieldName string
	Err       string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("row %d field %s: %s", e.Row, e.FieldName, e.Err)
}

// DecodeErrors is the collected set of per-value decode failures for one
// fetch chunk.
type DecodeErrors []*DecodeError

func (e DecodeErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Error()
}

// ResultSet is one fetched chunk of row data: FieldValues is row-major,
// len(ResultFields) columns wide.
type ResultSet struct {
	ResultFields []*ResultField
	FieldValues  []Value
	DecodeErrors DecodeErrors
}

func (r *ResultSet) String() string {
	return fmt.Sprintf("result fields %v field values %v", r.ResultFields, r.FieldValues)
}

func (r *ResultSet) decode(dec *encoding.Decoder, ph *partHeader) error {
	numArg := ph.numArg()
	cols := len(r.ResultFields)
	r.FieldValues = resizeSlice(r.FieldValues, numArg*cols)
	r.DecodeErrors = nil

	for i := 0; i < numArg; i++ {
		for j, f := range r.ResultFields {
			v, err := f.decodeResult(dec)
			if err != nil {
				r.DecodeErrors = append(r.DecodeErrors, &DecodeError{Row: i, FieldName: f.Name(), Err: err.Error()})
				continue
			}
			r.FieldValues[i*cols+j] = v
		}
	}
	return dec.Error()
}

// NumRow returns the number of rows decoded into FieldValues.
func (r *ResultSet) NumRow() int {
	if len(r.ResultFields) == 0 {
		return 0
	}
	return len(r.FieldValues) / len(r.ResultFields)
}

// Row returns the values of row i.
func (r *ResultSet) Row(i int) []Value {
	cols := len(r.ResultFields)
	return r.FieldValues[i*cols : (i+1)*cols]
}
