// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import "github.com/SAP/go-hdb-protocol/driver/internal/protocol"

// Request is the request builder (§4.7 C7): request-type, auto-commit,
// command-options and the caller-supplied parts. buildParts prepends a
// StatementContext carrying the connection's held statement-sequence-info,
// if any, before any other part.
type Request struct {
	MessageType    protocol.MessageType
	AutoCommit     bool
	CommandOptions protocol.CommandOptions
	Parts          []protocol.WritableArgument
}

func (req *Request) buildParts(c *Connection) []protocol.WritableArgument {
	ssi := c.ssiToken()
	if ssi == nil {
		return req.Parts
	}
	parts := make([]protocol.WritableArgument, 0, len(req.Parts)+1)
	parts = append(parts, protocol.NewSSI(ssi))
	parts = append(parts, req.Parts...)
	return parts
}
