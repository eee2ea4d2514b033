// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"golang.org/x/text/transform"

	"github.com/SAP/go-hdb-protocol/driver/unicode/cesu8"
)

// DriverVersion and ClientType identify this driver to the server on
// CONNECT (§4.9 C6), grounded on the teacher's own DriverVersion/
// ClientType constants in session.go.
const (
	DriverVersion = "1.0.0"
	ClientType    = "https://github.com/SAP/go-hdb-protocol"
)

const (
	// DefaultFetchSize is the number of rows requested per FETCH NEXT
	// when the caller does not configure one (§4.10 C10).
	DefaultFetchSize = 128
	// DefaultLobChunkSize caps the bytes/characters requested per
	// ReadLobRequest when the caller does not configure one (§4.11 C11).
	DefaultLobChunkSize = 8192
	// DefaultBulkSize is the BulkSize setDefaults fills in when the caller
	// does not configure one. No request path reads BulkSize: ExecuteBatch
	// sends one Execute request per batched row (§4.9 C9 "batch").
	DefaultBulkSize = 1000
	// dataFormatVersion2 is the data-format version this driver
	// advertises on CONNECT; it selects the value-encoding rules
	// DecodeResult/EncodeParameter implement (§4.4 C4).
	dataFormatVersion2 = 8
)

// SessionConfig carries everything the connection core (C6) needs that
// isn't itself wire-level: locale, fetch/bulk/LOB sizing, the session
// variables (sent once as a ClientInfo part with the first PREPARE/
// EXECUTE/EXECUTEDIRECT request, not on CONNECT), and the CESU-8 transcoding
// collaborator (§1 Non-goals, "delegated to a text-encoding
// collaborator"). Grounded on the teacher's sessionconfig.go; the
// teacher's SessionVariables type (internal/container/vermap.VerMap)
// isn't part of this module's retrieved dependency surface, so it is
// carried here as a plain map (see DESIGN.md).
type SessionConfig struct {
	Username, Password string
	ApplicationName    string
	Locale             string

	SessionVariables map[string]string

	FetchSize     int
	LobChunkSize  int
	BulkSize      int
	HoldCursorsOverCommit bool

	CESU8Decoder func() transform.Transformer
	CESU8Encoder func() transform.Transformer
}

// setDefaults fills in zero-valued fields with their documented defaults;
// called once by Connect before the connection core is constructed.
func (c *SessionConfig) setDefaults() {
	if c.FetchSize <= 0 {
		c.FetchSize = DefaultFetchSize
	}
	if c.LobChunkSize <= 0 {
		c.LobChunkSize = DefaultLobChunkSize
	}
	if c.BulkSize <= 0 {
		c.BulkSize = DefaultBulkSize
	}
	if c.CESU8Decoder == nil {
		c.CESU8Decoder = func() transform.Transformer { return cesu8.Cesu8ToUtf8Transformer }
	}
	if c.CESU8Encoder == nil {
		c.CESU8Encoder = func() transform.Transformer { return cesu8.Utf8ToCesu8Transformer }
	}
}
