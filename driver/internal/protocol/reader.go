// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// reader implements the C5 message loop's read side: one message carries
// exactly one segment (§1 Non-goals), which carries N parts; IterateParts
// walks the part headers one at a time and hands each to a caller-supplied
// callback, which decides whether to decode it now (via Read) or let it be
// skipped.
package protocol

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
	"golang.org/x/text/transform"
)

// partReadWriter is the interface the authentication step machine's
// request/reply shapes satisfy: unlike the generic argument family, a
// given auth part is only ever decoded or only ever encoded, but declares
// both (the unused half panics, matching the teacher's own authInitReq/
// authInitRep split).
type partReadWriter interface {
	fmt.Stringer
	size() int
	decode(dec *encoding.Decoder, ph *partHeader) error
	encode(enc *encoding.Encoder) error
}

// Reader drives the read side of the message loop over an already
// connected transport (socket/TLS setup is out of scope, §1).
type Reader struct {
	logger *slog.Logger

	dec *encoding.Decoder

	mh messageHeader
	sh segmentHeader
	ph partHeader

	numPart   int
	cntPart   int
	readBytes int64

	lastErrors       *HdbErrors
	lastAffectedRows *AffectedRows
}

// NewReader returns a Reader decoding from rd, using decoder to transcode
// CESU-8 wire text (the transform.Transformer collaborator, spec §1).
func NewReader(rd io.Reader, decoder func() transform.Transformer, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger, dec: encoding.NewDecoder(rd, decoder)}
}

// SessionID returns the session identifier of the last message read.
func (r *Reader) SessionID() int64 { return r.mh.sessionID }

// FunctionCode returns the reply/error function code of the last segment read.
func (r *Reader) FunctionCode() FunctionCode { return r.sh.functionCode }

// lastError folds a collected HdbErrors into the function's return value,
// linking it to the AffectedRows part that preceded it when the reply
// carries both (§7 "errors mid-batch" taxonomy).
func (r *Reader) lastError() error {
	defer func() {
		r.lastErrors = nil
		r.lastAffectedRows = nil
	}()

	if r.lastErrors == nil {
		return nil
	}
	if r.lastAffectedRows != nil {
		j := 0
		for i, n := range r.lastAffectedRows.rows {
			if n == raExecutionFailed {
				r.lastErrors.SetStmtNo(j, i)
				j++
			}
		}
	}
	return r.lastErrors
}

// IterateParts reads one message's worth of segment+part headers, invoking
// partFn for each. partFn returns the argument to decode the part into, or
// nil to skip it. Parts of kind pkError/pkRowsAffected are always tracked
// internally (even when skipped) so they can be folded into the returned
// error via lastError.
func (r *Reader) IterateParts(ctx context.Context, partFn func(ph *PartHeader) Argument) error {
	if err := r.mh.decode(r.dec); err != nil {
		return err
	}
	r.readBytes = 0

	for i := 0; i < int(r.mh.noOfSegm); i++ {
		if err := r.sh.decode(r.dec); err != nil {
			return err
		}
		r.readBytes += segmentHeaderSize

		r.numPart = int(r.sh.noOfParts)
		r.cntPart = 0

		for j := 0; j < int(r.sh.noOfParts); j++ {
			if err := r.ph.decode(r.dec); err != nil {
				return err
			}
			r.readBytes += partHeaderSize
			r.cntPart++

			var a argument
			if partFn != nil {
				a = partFn(&r.ph)
			}
			if a == nil {
				a = newArgument(r.ph.partKind)
			}
			if a == nil {
				r.skipPart(ctx)
				continue
			}
			if err := r.readPart(ctx, a); err != nil {
				return err
			}
			switch a := a.(type) {
			case *HdbErrors:
				r.lastErrors = a
			case *AffectedRows:
				r.lastAffectedRows = a
			}
		}
	}
	return r.lastError()
}

func (r *Reader) readPart(ctx context.Context, a argument) error {
	r.dec.ResetCnt()

	var err error
	switch a := a.(type) {
	case phArgument:
		err = a.decode(r.dec, &r.ph)
	case numArgArgument:
		err = a.decode(r.dec, r.ph.numArg())
	case fixArgument:
		err = a.decode(r.dec)
	default:
		return fmt.Errorf("protocol: part kind %s has no decodable shape", r.ph.partKind)
	}

	cnt := r.dec.Cnt()
	bufLen := int(r.ph.bufferLength)
	switch {
	case cnt < bufLen:
		r.dec.Skip(bufLen - cnt)
	case cnt > bufLen:
		return fmt.Errorf("protocol: read %d bytes > part buffer length %d", cnt, bufLen)
	}

	r.logger.Debug("protocol part read", "kind", r.ph.partKind.String(), "value", a.String())

	r.readBytes += int64(r.dec.Cnt())
	r.readBytes += r.skipPadding()
	return err
}

func (r *Reader) skipPart(ctx context.Context) {
	r.dec.ResetCnt()
	r.dec.Skip(int(r.ph.bufferLength))
	r.logger.Debug("protocol part skipped", "kind", r.ph.partKind.String())
	r.readBytes += int64(r.dec.Cnt())
	r.readBytes += r.skipPadding()
}

func (r *Reader) skipPadding() int64 {
	if r.cntPart != r.numPart {
		pad := padBytes(int(r.ph.bufferLength))
		r.dec.Skip(pad)
		return int64(pad)
	}
	pad := int64(r.mh.varPartLength) - r.readBytes
	if pad > 0 {
		r.dec.Skip(int(pad))
	}
	return pad
}

// ReadAuthStep decodes exactly one reply part against a live auth step
// shape (authInitRep/authFinalRep), bypassing the generic argument
// dispatch that newArgument provides (the shape depends on which
// authentication method the server selected, §6.1).
func (r *Reader) ReadAuthStep(ctx context.Context, step partReadWriter) error {
	return r.IterateParts(ctx, func(ph *partHeader) argument {
		if ph.partKind != pkAuthentication {
			return nil
		}
		return authStepArgument{step}
	})
}

// authStepArgument adapts a partReadWriter (which decodes against
// (dec, ph)) to the argument/phArgument interfaces the reader dispatches
// on, and reports its own kind as pkAuthentication.
type authStepArgument struct{ step partReadWriter }

func (a authStepArgument) String() string { return a.step.String() }
func (a authStepArgument) kind() partKind { return pkAuthentication }
func (a authStepArgument) decode(dec *encoding.Decoder, ph *partHeader) error {
	return a.step.decode(dec, ph)
}
