// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
	"github.com/SAP/go-hdb-protocol/driver/unicode/cesu8"
)

// command is the SQL text carried by a pkCommand part, CESU-8 encoded on
// the wire (§4.1 C1).
type command []byte

func (c command) String() string { return string(c) }
func (c command) numArg() int    { return 1 }
func (c *command) resize(size int) {
	if c == nil || size > cap(*c) {
		*c = make([]byte, size)
	} else {
		*c = (*c)[:size]
	}
}
func (c command) size() int { return cesu8.Size(c) }
func (c *command) decode(dec *encoding.Decoder, ph *partHeader) error {
	c.resize(int(ph.bufferLength))
	var err error
	if *c, err = dec.CESU8Bytes(len(*c)); err != nil {
		return err
	}
	return dec.Error()
}
func (c command) encode(enc *encoding.Encoder) error { enc.CESU8Bytes(c); return nil }
