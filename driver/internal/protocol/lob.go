// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Lob implements the locator-based LOB streaming protocol (§4.4 "LOB
// on-wire", §4.11 C11). A LobDescr is what DecodeResult produces for a
// CLOB/NCLOB/BLOB/TEXT/BINTEXT/LOCATOR/NLOCATOR column: the first chunk of
// data plus a locator id the caller streams the remainder through via
// ReadLobRequest/ReadLobReply.
package protocol

import (
	"fmt"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
)

// LOB descriptor option bits (§4.4).
const (
	loOptionIsNull   byte = 0x01
	loOptionLastData byte = 0x04
)

// LobDescr is the parsed inbound LOB descriptor: the locator the caller
// uses for subsequent ReadLobRequests, plus whatever data arrived inline
// in the first chunk.
type LobDescr struct {
	TypeCode   TypeCode
	LastData   bool
	CharLength int64 // NCLOB/CLOB: length in characters; BLOB: 0
	ByteLength int64 // length in bytes
	LocatorID  uint64
	Data       []byte
}

// lobReadPos tracks how much of a LOB a reader (C11) has consumed so far,
// in the unit appropriate to the LOB's type: characters for CLOB/NCLOB,
// bytes for BLOB.
type lobReadPos struct {
	pos   int64
	total int64
}

func (p *lobReadPos) done() bool { return p.total >= 0 && p.pos >= p.total }

func decodeLobDescr(dec *encoding.Decoder, tc TypeCode) (*LobDescr, error) {
	dec.Skip(1) // LOB sub-type byte, not needed once tc is known
	opt := dec.Byte()
	if opt&loOptionIsNull != 0 {
		return nil, dec.Error()
	}
	ld := &LobDescr{TypeCode: tc, LastData: opt&loOptionLastData != 0}
	ld.CharLength = dec.Int64()
	ld.ByteLength = dec.Int64()
	ld.LocatorID = dec.Uint64()
	chunkLen := dec.Int32()
	if chunkLen < 0 {
		return nil, fmt.Errorf("protocol: invalid lob chunk length %d", chunkLen)
	}
	ld.Data = make([]byte, chunkLen)
	dec.Bytes(ld.Data)
	return ld, dec.Error()
}

// ReadLobRequest is the Part payload (pkReadLobRequest) asking the server
// for the next chunk of a LOB identified by its locator (§4.11).
type ReadLobRequest struct {
	LocatorID uint64
	Offset    int64 // 1-based position of the first unit requested
	Length    int32 // requested chunk length, capped by the session's configured LOB read length
}

func (r *ReadLobRequest) size() int { return 24 }

func (r *ReadLobRequest) encode(enc *encoding.Encoder) error {
	enc.Uint64(r.LocatorID)
	enc.Int64(r.Offset)
	enc.Int32(r.Length)
	enc.Zeroes(4) // filler, makes the part a multiple of 8 bytes
	return nil
}

// ReadLobReply is the Part payload (pkReadLobReply) answering a
// ReadLobRequest: the locator echoed back, an options byte, and the chunk.
type ReadLobReply struct {
	LocatorID uint64
	LastData  bool
	Data      []byte
}

func (r *ReadLobReply) decode(dec *encoding.Decoder, numArg int) error {
	r.LocatorID = dec.Uint64()
	opt := dec.Byte()
	r.LastData = opt&loOptionLastData != 0
	chunkLen := dec.Int32()
	r.Data = make([]byte, chunkLen)
	dec.Bytes(r.Data)
	return dec.Error()
}

// WriteLobRequest/WriteLobReply model the server's ask-for-more-input-data
// handshake during an INSERT/UPDATE of a LOB parameter streamed from the
// client. This driver never streams LOB input lazily — input LOB values
// are always materialized up front by the caller before EncodeParameter —
// so these are parsed only, to recognize and reject (rather than hang on)
// a server that asks for more data than it was given.
type WriteLobRequest struct {
	LocatorID uint64
	Offset    int64
	Length    int32
}

func (r *WriteLobRequest) decode(dec *encoding.Decoder) error {
	r.LocatorID = dec.Uint64()
	r.Offset = dec.Int64()
	r.Length = dec.Int32()
	return dec.Error()
}

type WriteLobReply struct {
	LocatorIDs []uint64
}

func (r *WriteLobReply) decode(dec *encoding.Decoder, numArg int) error {
	r.LocatorIDs = make([]uint64, numArg)
	for i := range r.LocatorIDs {
		r.LocatorIDs[i] = dec.Uint64()
	}
	return dec.Error()
}
