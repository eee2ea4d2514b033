// SPDX-FileCopyrightText: 2014-2021 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"
	"math"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
)

// partKind identifies the argument variant carried by a part (C2/C3).
type partKind int8

const (
	pkCommand               partKind = 3
	pkClientID              partKind = 4
	pkResultSet             partKind = 5
	pkError                 partKind = 6
	pkStatementID            partKind = 10
	pkTransactionFlags       partKind = 11
	pkRowsAffected           partKind = 12
	pkResultSetID            partKind = 13
	pkTopologyInformation    partKind = 15
	pkTableLocation          partKind = 16
	pkReadLobRequest         partKind = 17
	pkReadLobReply           partKind = 18
	pkCommandInfo            partKind = 27
	pkWriteLobRequest        partKind = 28
	pkClientContext          partKind = 29
	pkWriteLobReply          partKind = 30
	pkParameters             partKind = 32
	pkAuthentication         partKind = 33
	pkSessionContext         partKind = 34
	pkPartitionInformation   partKind = 39
	pkOutputParameters       partKind = 41
	pkConnectOptions         partKind = 42
	pkCommitOptions          partKind = 43
	pkFetchOptions           partKind = 44
	pkFetchSize              partKind = 45
	pkParameterMetadata      partKind = 47
	pkResultSetMetadata      partKind = 48
	pkFindLobRequest         partKind = 49
	pkFindLobReply           partKind = 50
	pkClientInfo             partKind = 52
	pkStatementContext       partKind = 56
	pkDBConnectInfo          partKind = 57
	pkLobFlags               partKind = 58
	pkXatOptions             partKind = 77
)

func (k partKind) String() string {
	if s, ok := partKindText[k]; ok {
		return s
	}
	return fmt.Sprintf("partKind(%d)", int8(k))
}

var partKindText = map[partKind]string{
	pkCommand:             "Command",
	pkClientID:            "ClientID",
	pkResultSet:           "ResultSet",
	pkError:               "Error",
	pkStatementID:         "StatementID",
	pkTransactionFlags:    "TransactionFlags",
	pkRowsAffected:        "RowsAffected",
	pkResultSetID:         "ResultSetID",
	pkTopologyInformation: "TopologyInformation",
	pkTableLocation:       "TableLocation",
	pkReadLobRequest:      "ReadLobRequest",
	pkReadLobReply:        "ReadLobReply",
	pkCommandInfo:         "CommandInfo",
	pkWriteLobRequest:     "WriteLobRequest",
	pkClientContext:       "ClientContext",
	pkWriteLobReply:       "WriteLobReply",
	pkParameters:          "Parameters",
	pkAuthentication:      "Authentication",
	pkSessionContext:      "SessionContext",
	pkPartitionInformation: "PartitionInformation",
	pkOutputParameters:    "OutputParameters",
	pkConnectOptions:      "ConnectOptions",
	pkCommitOptions:       "CommitOptions",
	pkFetchOptions:        "FetchOptions",
	pkFetchSize:           "FetchSize",
	pkParameterMetadata:   "ParameterMetadata",
	pkResultSetMetadata:   "ResultSetMetadata",
	pkFindLobRequest:      "FindLobRequest",
	pkFindLobReply:        "FindLobReply",
	pkClientInfo:          "ClientInfo",
	pkStatementContext:    "StatementContext",
	pkDBConnectInfo:       "DBConnectInfo",
	pkLobFlags:            "LobFlags",
	pkXatOptions:          "XatOptions",
}

// partAttributes is the one-byte bitset carried by every part header (§3).
type partAttributes int8

const (
	paLastPacket      partAttributes = 0x01
	paNextPacket      partAttributes = 0x02
	paFirstPacket     partAttributes = 0x04
	paRowNotFound     partAttributes = 0x08
	paResultsetClosed partAttributes = 0x10
)

func (a partAttributes) ResultsetClosed() bool { return a&paResultsetClosed != 0 }
func (a partAttributes) LastPacket() bool      { return a&paLastPacket != 0 }
func (a partAttributes) NoRows() bool          { return a&paRowNotFound != 0 }

func (a partAttributes) String() string {
	t := make([]string, 0, 5)
	if a&paLastPacket != 0 {
		t = append(t, "lastPacket")
	}
	if a&paNextPacket != 0 {
		t = append(t, "nextPacket")
	}
	if a&paFirstPacket != 0 {
		t = append(t, "firstPacket")
	}
	if a&paRowNotFound != 0 {
		t = append(t, "rowNotFound")
	}
	if a&paResultsetClosed != 0 {
		t = append(t, "resultsetClosed")
	}
	return fmt.Sprintf("%v", t)
}

// bigArgCountIndicator is the escape value of the 16-bit argument count field that
// signals the real count lives in the separate 32-bit field (§3, "argument
// count escape").
const bigArgCountIndicator = -1

// partHeader is the fixed 16 byte on-wire part header (kind + attributes +
// counts + lengths); GLOSSARY "Part".
type partHeader struct {
	partKind          partKind
	partAttributes    partAttributes
	argumentCount     int16
	bigArgumentCount  int32
	bufferLength      int32
	bufferSize        int32
}

func (h *partHeader) setNumArg(numArg int) error {
	switch {
	case numArg <= math.MaxInt16:
		h.argumentCount = int16(numArg)
		h.bigArgumentCount = 0
	case int64(numArg) <= math.MaxInt32:
		h.argumentCount = bigArgCountIndicator
		h.bigArgumentCount = int32(numArg)
	default:
		return fmt.Errorf("part: argument count %d exceeds maximum %d", numArg, math.MaxInt32)
	}
	return nil
}

func (h *partHeader) numArg() int {
	if h.argumentCount == bigArgCountIndicator {
		return int(h.bigArgumentCount)
	}
	return int(h.argumentCount)
}

const partHeaderSize = 16

func (h *partHeader) decode(dec *encoding.Decoder) error {
	h.partKind = partKind(dec.Int8())
	h.partAttributes = partAttributes(dec.Int8())
	h.argumentCount = dec.Int16()
	h.bigArgumentCount = dec.Int32()
	h.bufferLength = dec.Int32()
	h.bufferSize = dec.Int32()
	return dec.Error()
}

func (h *partHeader) encode(enc *encoding.Encoder) error {
	enc.Int8(int8(h.partKind))
	enc.Int8(int8(h.partAttributes))
	enc.Int16(h.argumentCount)
	enc.Int32(h.bigArgumentCount)
	enc.Int32(h.bufferLength)
	enc.Int32(h.bufferSize)
	return nil
}

// Kind returns the part's argument-variant kind, for code outside this
// package driving IterateParts (the reply dispatcher, C8) to classify a
// part without decoding it generically.
func (h *partHeader) Kind() PartKind { return h.partKind }

// Attributes returns the part's attribute bitset (lastPacket/
// resultsetClosed/rowNotFound), needed by the reply dispatcher and the
// result-set state machine (§4.8, §4.10).
func (h *partHeader) Attributes() PartAttributes { return h.partAttributes }

// NumArg returns the part's argument count.
func (h *partHeader) NumArg() int { return h.numArg() }

// PartKind, PartAttributes and PartHeader alias the wire-level types above
// so that code outside this package (the reply dispatcher, C8, which
// drives IterateParts from package driver) can name them; they are the
// exact same types, not copies, so the accessor methods above and
// PartAttributes.LastPacket/ResultsetClosed/NoRows/String remain usable.
type (
	PartKind       = partKind
	PartAttributes = partAttributes
	PartHeader     = partHeader
)

// Exported part-kind values the reply dispatcher (C8) and result-set state
// machine (C10) need to recognize from outside this package.
const (
	PkResultSet         = pkResultSet
	PkResultSetMetadata = pkResultSetMetadata
	PkResultSetID       = pkResultSetID
	PkStatementID       = pkStatementID
	PkRowsAffected      = pkRowsAffected
	PkOutputParameters  = pkOutputParameters
	PkParameterMetadata = pkParameterMetadata
	PkStatementContext  = pkStatementContext
	PkTransactionFlags  = pkTransactionFlags
	PkError             = pkError
	PkWriteLobReply     = pkWriteLobReply
	PkReadLobReply      = pkReadLobReply
)

// pad implements the padding law of §4.1 / §8 property 4:
// pad(n) = 0 if n == 0 else 7 - (n-1) mod 8.
func padBytes(n int) int {
	if n == 0 {
		return 0
	}
	return 7 - ((n - 1) % 8)
}
