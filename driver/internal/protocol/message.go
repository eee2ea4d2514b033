// SPDX-FileCopyrightText: 2014-2021 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
)

// CommandOptions is the request-segment bitset; the one flag in live use
// is HOLD_CURSORS_OVER_COMMIT (§4.7).
type CommandOptions int8

const (
	// CoHoldCursorsOverCommit keeps open cursors alive across a commit.
	CoHoldCursorsOverCommit CommandOptions = 0x08
)

const (
	messageHeaderSize      = 32
	segmentHeaderSize      = 24
	requestSegmentKindSize = 11 // messageType, commit, commandOptions + 8 reserved
	replySegmentKindSize   = 11 // reserved(1), functionCode(2) + 8 reserved
)

// messageHeader is the 32 byte outermost frame (§3 "Message"; §4.5 C5).
type messageHeader struct {
	sessionID      int64
	packetCount    int32
	varPartLength  uint32
	varPartSize    uint32
	noOfSegm       int16
}

func (h *messageHeader) decode(dec *encoding.Decoder) error {
	h.sessionID = dec.Int64()
	h.packetCount = dec.Int32()
	h.varPartLength = dec.Uint32()
	h.varPartSize = dec.Uint32()
	h.noOfSegm = dec.Int16()
	dec.Skip(10) // reserved
	return dec.Error()
}

func (h *messageHeader) encode(enc *encoding.Encoder) error {
	enc.Int64(h.sessionID)
	enc.Int32(h.packetCount)
	enc.Uint32(h.varPartLength)
	enc.Uint32(h.varPartSize)
	enc.Int16(h.noOfSegm)
	enc.Zeroes(10)
	return nil
}

// segmentHeader is the 24 byte per-segment frame (§3 "Segment"). Exactly
// one segment is ever emitted or accepted per message (§1 Non-goals).
type segmentHeader struct {
	segmentLength  int32
	segmentOfs     int32
	noOfParts      int16
	segmentNo      int16
	segmentKind    segmentKind
	messageType    messageType  // request only
	commit         bool         // request only
	commandOptions CommandOptions // request only
	functionCode   FunctionCode // reply/error only
}

func (h *segmentHeader) decode(dec *encoding.Decoder) error {
	h.segmentLength = dec.Int32()
	h.segmentOfs = dec.Int32()
	h.noOfParts = dec.Int16()
	h.segmentNo = dec.Int16()
	h.segmentKind = segmentKind(dec.Int8())

	switch h.segmentKind {
	case skRequest:
		h.messageType = messageType(dec.Int8())
		h.commit = dec.Bool()
		h.commandOptions = CommandOptions(dec.Int8())
		dec.Skip(8) // reserved
	case skReply, skError:
		dec.Skip(1) // reserved
		h.functionCode = FunctionCode(dec.Int16())
		dec.Skip(8) // reserved
	default:
		return fmt.Errorf("protocol: invalid segment kind %d", h.segmentKind)
	}
	return dec.Error()
}

func (h *segmentHeader) encode(enc *encoding.Encoder) error {
	enc.Int32(h.segmentLength)
	enc.Int32(h.segmentOfs)
	enc.Int16(h.noOfParts)
	enc.Int16(h.segmentNo)
	enc.Int8(int8(h.segmentKind))

	switch h.segmentKind {
	case skRequest:
		enc.Int8(int8(h.messageType))
		enc.Bool(h.commit)
		enc.Int8(int8(h.commandOptions))
		enc.Zeroes(8)
	default:
		return fmt.Errorf("protocol: cannot encode segment kind %d", h.segmentKind)
	}
	return nil
}
