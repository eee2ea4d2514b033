// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
)

// rows-affected sentinel values (§6.2 AffectedRows outcome).
const (
	raSuccessNoInfo   int32 = -2
	raExecutionFailed int32 = -3
)

// AffectedRows is the parsed pkRowsAffected part: one int32 per statement
// in a batch, carrying either an affected row count or one of the
// sentinels above.
type AffectedRows struct {
	rows []int32
}

func (r AffectedRows) String() string { return fmt.Sprintf("%v", r.rows) }

// Rows returns the per-statement affected-row counts (and sentinels).
func (r AffectedRows) Rows() []int32 { return r.rows }

func (r *AffectedRows) decode(dec *encoding.Decoder, ph *partHeader) error {
	r.rows = resizeSlice(r.rows, ph.numArg())
	for i := range r.rows {
		r.rows[i] = dec.Int32()
	}
	return dec.Error()
}

// Total sums the successful counts, ignoring raSuccessNoInfo/raExecutionFailed entries.
func (r AffectedRows) Total() int64 {
	var total int64
	for _, n := range r.rows {
		if n > 0 {
			total += int64(n)
		}
	}
	return total
}
