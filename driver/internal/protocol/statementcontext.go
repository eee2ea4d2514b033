// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import "github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"

// StatementContext is the pkStatementContext option bag. The server may
// attach a StatementSequenceInfo (SSI) token to a reply; the SSI echo law
// (§4.6 C7) requires the connection core inject it back as the next
// outgoing request's StatementContext before any other request part.
type StatementContext struct{ Options[statementContextType] }

func (o *StatementContext) decode(dec *encoding.Decoder, ph *partHeader) error {
	return (&o.Options).decode(dec, ph)
}
func (o StatementContext) encode(enc *encoding.Encoder) error { return o.Options.encode(enc) }
func (o StatementContext) size() int                          { return o.Options.size() }
func (o StatementContext) numArg() int                         { return o.Options.numArg() }
func (o StatementContext) String() string                      { return o.Options.String() }

// StatementSequenceInfo returns the opaque SSI token, if the server sent
// one in this reply.
func (o StatementContext) StatementSequenceInfo() ([]byte, bool) {
	v, ok := o.Options[scStatementSequenceInfo]
	if !ok {
		return nil, false
	}
	b, _ := v.([]byte)
	return b, true
}

// ServerProcessingTime returns the server-reported execution time in
// microseconds, if present.
func (o StatementContext) ServerProcessingTime() (int64, bool) {
	v, ok := o.Options[scServerExecutionTime]
	if !ok {
		return 0, false
	}
	t, _ := v.(int64)
	return t, true
}

// withSSI returns a StatementContext carrying only the SSI echo, ready to
// be injected into the next outgoing request (§4.6 C7).
func withSSI(ssi []byte) *StatementContext {
	return &StatementContext{Options: Options[statementContextType]{scStatementSequenceInfo: ssi}}
}
