// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// writer implements the C5 message loop's write side: one request message,
// exactly one segment, N parts, each individually padded to a multiple of
// 8 bytes (§4.1 property 4, "varpart_size(r) + 32 == total_bytes_written(r)").
package protocol

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
	"golang.org/x/text/transform"
)

// Writer drives the write side of the message loop over an already
// connected transport.
type Writer struct {
	logger *slog.Logger

	wr  *bufio.Writer
	enc *encoding.Encoder

	sv     clientInfo // session client info, sent once lazily (§4 supplemented features)
	svSent bool

	mh messageHeader
	sh segmentHeader
	ph partHeader
}

// NewWriter returns a Writer encoding to wr, using encoder to transcode
// CESU-8 wire text. sv is the session's client info (may be empty); it is
// not sent on CONNECT but prepended once to the first PREPARE/EXECUTE/
// EXECUTEDIRECT request, mirroring the teacher's writer.sv/svSent gate.
func NewWriter(wr *bufio.Writer, encoder func() transform.Transformer, sv ClientInfo, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger, wr: wr, enc: encoding.NewEncoder(wr, encoder), sv: sv}
}

// Write encodes one request message carrying parts, in order, as a single
// segment against sessionID, and flushes the underlying buffer.
func (w *Writer) Write(ctx context.Context, sessionID int64, packetCount int32, mt messageType, commit bool, opts CommandOptions, parts ...writableArgument) error {
	if len(w.sv) != 0 && !w.svSent && mt.clientInfoSupported() {
		parts = append([]writableArgument{w.sv}, parts...)
		w.svSent = true
	}

	n := len(parts)
	partSizes := make([]int, n)
	size := int64(segmentHeaderSize + n*partHeaderSize)

	for i, p := range parts {
		s := p.size()
		size += int64(s + padBytes(s))
		partSizes[i] = s
	}
	if size > math.MaxUint32 {
		return fmt.Errorf("protocol: message size %d exceeds maximum %d", size, uint32(math.MaxUint32))
	}

	w.mh.sessionID = sessionID
	w.mh.packetCount = packetCount
	w.mh.varPartLength = uint32(size)
	w.mh.varPartSize = uint32(size)
	w.mh.noOfSegm = 1
	if err := w.mh.encode(w.enc); err != nil {
		return err
	}

	w.sh.messageType = mt
	w.sh.commit = commit
	w.sh.commandOptions = opts
	w.sh.segmentKind = skRequest
	w.sh.segmentLength = int32(size)
	w.sh.segmentOfs = 0
	w.sh.noOfParts = int16(n)
	w.sh.segmentNo = 1
	if err := w.sh.encode(w.enc); err != nil {
		return err
	}

	bufferSize := size - segmentHeaderSize

	for i, p := range parts {
		s := partSizes[i]
		pad := padBytes(s)

		w.ph.partKind = p.kind()
		if err := w.ph.setNumArg(p.numArg()); err != nil {
			return err
		}
		w.ph.bufferLength = int32(s)
		w.ph.bufferSize = int32(bufferSize)
		if err := w.ph.encode(w.enc); err != nil {
			return err
		}

		if err := p.encode(w.enc); err != nil {
			return err
		}
		w.enc.Zeroes(pad)

		w.logger.Debug("protocol part written", "kind", w.ph.partKind.String(), "value", p.String())

		bufferSize -= int64(partHeaderSize + s + pad)
	}
	return w.wr.Flush()
}

// WriteAuthStep encodes a single request-only part not covered by
// writableArgument (authInitReq/authFinalReq, whose shape depends on the
// authentication method negotiated so far, §6.1).
func (w *Writer) WriteAuthStep(ctx context.Context, sessionID int64, packetCount int32, mt messageType, step partReadWriter) error {
	return w.Write(ctx, sessionID, packetCount, mt, false, 0, authStepWritable{step})
}

// authStepWritable adapts a partReadWriter to writableArgument for the one
// auth-step part in a message.
type authStepWritable struct{ step partReadWriter }

func (a authStepWritable) String() string            { return a.step.String() }
func (a authStepWritable) kind() partKind             { return pkAuthentication }
func (a authStepWritable) numArg() int                { return 1 }
func (a authStepWritable) size() int                  { return a.step.size() }
func (a authStepWritable) encode(enc *encoding.Encoder) error { return a.step.encode(enc) }
