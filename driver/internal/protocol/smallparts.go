// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
)

// statementID identifies a prepared statement (pkStatementID); returned by
// PREPARE, echoed back on every subsequent EXECUTE/DROP (§4.9 C9).
type statementID uint64

func (id statementID) String() string { return fmt.Sprintf("%d", uint64(id)) }
func (id statementID) numArg() int    { return 1 }
func (id statementID) size() int      { return 8 }
func (id *statementID) decode(dec *encoding.Decoder, ph *partHeader) error {
	*id = statementID(dec.Uint64())
	return dec.Error()
}
func (id statementID) encode(enc *encoding.Encoder) error { enc.Uint64(uint64(id)); return nil }

// resultSetID identifies an open result set (pkResultSetID); echoed back on
// FETCH NEXT / CLOSE RESULTSET requests (§4.10 C10).
type resultSetID uint64

func (id resultSetID) String() string { return fmt.Sprintf("%d", uint64(id)) }
func (id resultSetID) numArg() int    { return 1 }
func (id resultSetID) size() int      { return 8 }
func (id *resultSetID) decode(dec *encoding.Decoder, ph *partHeader) error {
	*id = resultSetID(dec.Uint64())
	return dec.Error()
}
func (id resultSetID) encode(enc *encoding.Encoder) error { enc.Uint64(uint64(id)); return nil }

// fetchSize is the pkFetchSize request part (§4.10): the number of rows
// requested on a FETCH NEXT.
type fetchSize int32

func (f fetchSize) String() string { return fmt.Sprintf("%d", int32(f)) }
func (f fetchSize) numArg() int    { return 1 }
func (f fetchSize) size() int      { return 4 }
func (f fetchSize) encode(enc *encoding.Encoder) error { enc.Int32(int32(f)); return nil }
