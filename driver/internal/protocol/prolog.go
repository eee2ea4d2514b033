// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// prolog implements the one-time, unframed 14-byte initialization
// exchange that precedes every Message/Segment/Part frame on a fresh
// connection (§6.1): the client probes a product/protocol version, the
// server replies with the version it accepted.
package protocol

import "github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"

const (
	productVersionMajor  = 4
	protocolVersionMajor = 4
	initRequestSize      = 14
)

type endianess int8

const littleEndian endianess = 1

// initRequest is the client's 14-byte version probe.
type initRequest struct {
	productMajor  int8
	productMinor  int16
	protocolMajor int8
	protocolMinor int16
}

func (r *initRequest) encode(enc *encoding.Encoder) error {
	enc.Zeroes(4) // fixed marker preceding the probe
	enc.Int8(r.productMajor)
	enc.Int16(r.productMinor)
	enc.Int8(r.protocolMajor)
	enc.Int16(r.protocolMinor)
	enc.Zeroes(1) // reserved
	enc.Int8(1)   // numOptions
	enc.Int8(1)   // option id: endianness
	enc.Int8(int8(littleEndian))
	return nil
}

// initReply is the server's reply: the protocol version it accepted.
type initReply struct {
	productMajor  int8
	productMinor  int16
	protocolMajor int8
	protocolMinor int16
}

func (r *initReply) decode(dec *encoding.Decoder) error {
	dec.Skip(4)
	r.productMajor = dec.Int8()
	r.productMinor = dec.Int16()
	r.protocolMajor = dec.Int8()
	r.protocolMinor = dec.Int16()
	dec.Skip(3)
	return dec.Error()
}

// WriteProlog sends the client's version probe and flushes it; callers
// must do this exactly once, before any Write call.
func (w *Writer) WriteProlog() error {
	req := &initRequest{productMajor: productVersionMajor, protocolMajor: protocolVersionMajor}
	if err := req.encode(w.enc); err != nil {
		return err
	}
	w.logger.Debug("protocol prolog written")
	return w.wr.Flush()
}

// ReadProlog reads the server's version reply; callers must do this
// exactly once, before any IterateParts call.
func (r *Reader) ReadProlog() error {
	rep := &initReply{}
	if err := rep.decode(r.dec); err != nil {
		return err
	}
	r.logger.Debug("protocol prolog read", "protocolMajor", rep.protocolMajor, "protocolMinor", rep.protocolMinor)
	return nil
}
