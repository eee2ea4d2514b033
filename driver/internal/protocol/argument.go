// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"
)

// argument is one part's payload (C2/C3). Every concrete type the reader
// or writer deals with implements it; the more specific sub-interfaces
// below capture the three decode calling conventions the wire format
// actually needs (fixed size, full part header, or bare argument count).
type argument interface {
	fmt.Stringer
	kind() partKind
}

// phArgument decodes against the full part header (numArg, bufferLength).
type phArgument interface {
	argument
	decode(dec *encoding.Decoder, ph *partHeader) error
}

// numArgArgument decodes knowing only the argument count.
type numArgArgument interface {
	argument
	decode(dec *encoding.Decoder, numArg int) error
}

// fixArgument decodes a single fixed-size argument with no count at all.
type fixArgument interface {
	argument
	decode(dec *encoding.Decoder) error
}

// writableArgument is an argument the connection can send as a request part.
type writableArgument interface {
	argument
	numArg() int
	size() int
	encode(enc *encoding.Encoder) error
}

// Argument and WritableArgument alias the interfaces above so the reply
// dispatcher and request builder (package driver, C7/C8) can name the
// values IterateParts/Write exchange — ResultSet, OutputParameters,
// InputParameters and the other part types already satisfy them from
// inside this package; nothing outside this package ever needs to
// implement them, only hold and pass them along.
type (
	Argument         = argument
	WritableArgument = writableArgument
)

func (*HdbErrors) kind() partKind        { return pkError }
func (*authInitReq) kind() partKind      { return pkAuthentication }
func (*authInitRep) kind() partKind      { return pkAuthentication }
func (*authFinalReq) kind() partKind     { return pkAuthentication }
func (*authFinalRep) kind() partKind     { return pkAuthentication }
func (*clientID) kind() partKind         { return pkClientID }
func (clientInfo) kind() partKind        { return pkClientInfo }
func (*partitionInformation) kind() partKind { return pkPartitionInformation }
func (command) kind() partKind           { return pkCommand }
func (*AffectedRows) kind() partKind     { return pkRowsAffected }
func (*statementID) kind() partKind      { return pkStatementID }
func (*ParameterMetadata) kind() partKind { return pkParameterMetadata }
func (*InputParameters) kind() partKind  { return pkParameters }
func (*OutputParameters) kind() partKind { return pkOutputParameters }
func (*ResultSetMetadata) kind() partKind { return pkResultSetMetadata }
func (*resultSetID) kind() partKind      { return pkResultSetID }
func (*ResultSet) kind() partKind        { return pkResultSet }
func (*fetchSize) kind() partKind        { return pkFetchSize }
func (*ReadLobRequest) kind() partKind   { return pkReadLobRequest }
func (*ReadLobReply) kind() partKind     { return pkReadLobReply }
func (*WriteLobRequest) kind() partKind  { return pkWriteLobRequest }
func (*WriteLobReply) kind() partKind    { return pkWriteLobReply }
func (*ClientContext) kind() partKind    { return pkClientContext }
func (*ConnectOptions) kind() partKind   { return pkConnectOptions }
func (*CommitOptions) kind() partKind    { return pkCommitOptions }
func (*FetchOptions) kind() partKind     { return pkFetchOptions }
func (*LobFlags) kind() partKind         { return pkLobFlags }
func (*SessionContext) kind() partKind   { return pkSessionContext }
func (*XatOptions) kind() partKind       { return pkXatOptions }
func (*DBConnectInfo) kind() partKind    { return pkDBConnectInfo }
func (*StatementContext) kind() partKind { return pkStatementContext }
func (*TransactionFlags) kind() partKind { return pkTransactionFlags }

// newArgument returns a zero-value instance for reply part kinds the reader
// (C3) can decode generically, or nil if the kind must be handled specially
// (authentication, whose shape depends on the auth step in progress, and
// parts that need externally supplied metadata such as ResultSet/
// OutputParameters/ParameterMetadata-bound result rows).
func newArgument(pk partKind) argument {
	switch pk {
	case pkError:
		return &HdbErrors{}
	case pkClientID:
		return &clientID{}
	case pkClientInfo:
		return &clientInfo{}
	case pkPartitionInformation:
		return &partitionInformation{}
	case pkRowsAffected:
		return &AffectedRows{}
	case pkStatementID:
		return &statementID{}
	case pkParameterMetadata:
		return &ParameterMetadata{}
	case pkResultSetMetadata:
		return &ResultSetMetadata{}
	case pkResultSetID:
		return &resultSetID{}
	case pkReadLobReply:
		return &ReadLobReply{}
	case pkWriteLobReply:
		return &WriteLobReply{}
	case pkConnectOptions:
		return &ConnectOptions{}
	case pkCommitOptions:
		return &CommitOptions{}
	case pkFetchOptions:
		return &FetchOptions{}
	case pkLobFlags:
		return &LobFlags{}
	case pkSessionContext:
		return &SessionContext{}
	case pkXatOptions:
		return &XatOptions{}
	case pkDBConnectInfo:
		return &DBConnectInfo{}
	case pkStatementContext:
		return &StatementContext{}
	case pkTransactionFlags:
		return &TransactionFlags{}
	default:
		return nil
	}
}
