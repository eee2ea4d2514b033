// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

// This file gathers the small exported surface the connection core,
// request builder and reply dispatcher (package driver, C6-C8) need to
// drive the message loop from outside this package: a type alias plus a
// constructor/accessor for every wire-level value whose underlying Go type
// is otherwise unexported (§4.6-§4.8). Nothing here changes wire
// behavior - it only lets package driver name and build these values.

// MessageType aliases the request-segment kind selector (§4.1 C1 header).
type MessageType = messageType

// Message types package driver issues requests with.
const (
	MtExecuteDirect   = mtExecuteDirect
	MtPrepare         = mtPrepare
	MtExecute         = mtExecute
	MtReadLob         = mtReadLob
	MtAuthenticate    = mtAuthenticate
	MtConnect         = mtConnect
	MtCommit          = mtCommit
	MtRollback        = mtRollback
	MtCloseResultset  = mtCloseResultset
	MtDropStatementID = mtDropStatementID
	MtFetchNext       = mtFetchNext
	MtDisconnect      = mtDisconnect
	MtDBConnectInfo   = mtDBConnectInfo
)

// Rows-affected sentinels (§6.2 AffectedRows outcome).
const (
	RaSuccessNoInfo   = raSuccessNoInfo
	RaExecutionFailed = raExecutionFailed
)

// Function codes package driver classifies replies by (§4.8 C8).
const (
	FcSelect                    = fcSelect
	FcSelectForUpdate           = fcSelectForUpdate
	FcInsert                    = fcInsert
	FcUpdate                    = fcUpdate
	FcDelete                    = fcDelete
	FcDDL                       = fcDDL
	FcCommit                    = fcCommit
	FcRollback                  = fcRollback
	FcDBProcedureCall           = fcDBProcedureCall
	FcDBProcedureCallWithResult = fcDBProcedureCallWithResult
)

// IsResultSet reports whether fc's reply carries a queryable result set.
func (fc FunctionCode) IsResultSet() bool { return fc.isResultSet() }

// IsRowsAffected reports whether fc's reply carries an affected-rows outcome.
func (fc FunctionCode) IsRowsAffected() bool { return fc.isRowsAffected() }

// IsSuccess reports whether fc's reply is a bare success outcome.
func (fc FunctionCode) IsSuccess() bool { return fc.isSuccess() }

// IsCall reports whether fc is a stored-procedure call reply.
func (fc FunctionCode) IsCall() bool { return fc.isCall() }

// StatementID aliases the prepared-statement handle (§4.9 C9).
type StatementID = statementID

// NewStatementID wraps a server-assigned statement id for use as a
// request part (DROP STATEMENT ID / EXECUTE).
func NewStatementID(id uint64) *StatementID { s := StatementID(id); return &s }

// Uint64 returns the raw statement id.
func (id StatementID) Uint64() uint64 { return uint64(id) }

// ResultSetID aliases the open-cursor handle (§4.10 C10).
type ResultSetID = resultSetID

// NewResultSetID wraps a server-assigned result set id for use as a
// request part (FETCH NEXT / CLOSE RESULTSET).
func NewResultSetID(id uint64) *ResultSetID { r := ResultSetID(id); return &r }

// Uint64 returns the raw result set id.
func (id ResultSetID) Uint64() uint64 { return uint64(id) }

// FetchSize aliases the FETCH NEXT row-count request part.
type FetchSize = fetchSize

// NewFetchSize builds a FetchSize request part.
func NewFetchSize(n int32) *FetchSize { f := FetchSize(n); return &f }

// Command aliases the CESU-8 SQL text request part (§4.1 C1).
type Command = command

// NewCommand builds a Command request part from a UTF-8 SQL string.
func NewCommand(sql string) Command { return Command(sql) }

// ClientInfo aliases the flat string-keyed client-info part (§4 supplemented features).
type ClientInfo = clientInfo

// NewClientInfo builds a ClientInfo part from application/user attributes.
func NewClientInfo(kv map[string]string) ClientInfo { return ClientInfo(kv) }

// NewSSI builds the StatementContext that echoes an opaque statement
// sequence info token back to the server (§4.6 C7).
func NewSSI(ssi []byte) *StatementContext { return withSSI(ssi) }

// NewTransactionFlags builds a synthetic TransactionFlags, for tests that
// exercise Connection.evaluateTaFlags without a live server reply.
func NewTransactionFlags(committed, rolledBack, writeStarted, readOnly bool) *TransactionFlags {
	tf := &TransactionFlags{Options: Options[transactionFlagType]{}}
	if committed {
		tf.Options[tfCommited] = true
	}
	if rolledBack {
		tf.Options[tfRolledback] = true
	}
	if writeStarted {
		tf.Options[tfWriteTransactionStarted] = true
	}
	if readOnly {
		tf.Options[tfReadOnlyMode] = true
	}
	return tf
}

// Character-LOB type codes a LOB reader (§4.11 C11) needs to recognize to
// interpret ReadLobRequest/Offset units as characters rather than bytes.
const (
	TcClob  = tcClob
	TcNclob = tcNclob
)

// NewDBConnectInfoRequest builds the DBConnectInfo request part sent on
// mtDBConnectInfo to ask a system database which host/port actually serves
// databaseName (§4 supplemented features, multi-tenant routing).
func NewDBConnectInfoRequest(databaseName string) *DBConnectInfo {
	return &DBConnectInfo{Options: Options[DBConnectInfoType]{CiDatabaseName: databaseName}}
}
