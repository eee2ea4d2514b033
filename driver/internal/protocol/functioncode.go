// SPDX-FileCopyrightText: 2014-2021 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

// FunctionCode is the server-assigned "reply-type" (GLOSSARY) carried in
// every reply/error segment header. The dispatcher (C8) classifies a
// parsed reply into the caller-visible outcome union (§6.2) based on it.
type FunctionCode int16

const (
	fcNil                     FunctionCode = 0
	fcDDL                     FunctionCode = 1
	fcInsert                  FunctionCode = 2
	fcUpdate                  FunctionCode = 3
	fcDelete                  FunctionCode = 4
	fcSelect                  FunctionCode = 5
	fcSelectForUpdate         FunctionCode = 6
	fcExplain                 FunctionCode = 7
	fcDBProcedureCall         FunctionCode = 8
	fcDBProcedureCallWithResult FunctionCode = 9
	fcFetch                   FunctionCode = 10
	fcCommit                  FunctionCode = 11
	fcRollback                FunctionCode = 12
	fcSavepoint               FunctionCode = 13
	fcConnect                 FunctionCode = 14
	fcWriteLob                FunctionCode = 15
	fcReadLob                 FunctionCode = 16
	fcPing                    FunctionCode = 17
	fcDisconnect              FunctionCode = 18
	fcCloseCursor             FunctionCode = 19
	fcFindLob                 FunctionCode = 20
	fcAuthenticate            FunctionCode = 21
	fcBatchPrepare            FunctionCode = 22
	fcDBConnectInfo           FunctionCode = 23
	fcXAStart                 FunctionCode = 24
	fcXAJoin                  FunctionCode = 25
)

var functionCodeText = map[FunctionCode]string{
	fcNil:                       "Nil",
	fcDDL:                       "Ddl",
	fcInsert:                    "Insert",
	fcUpdate:                    "Update",
	fcDelete:                    "Delete",
	fcSelect:                    "Select",
	fcSelectForUpdate:           "SelectForUpdate",
	fcExplain:                   "Explain",
	fcDBProcedureCall:           "DbProcedureCall",
	fcDBProcedureCallWithResult: "DbProcedureCallWithResult",
	fcFetch:                     "Fetch",
	fcCommit:                    "Commit",
	fcRollback:                  "Rollback",
	fcSavepoint:                 "Savepoint",
	fcConnect:                   "Connect",
	fcWriteLob:                  "WriteLob",
	fcReadLob:                   "ReadLob",
	fcPing:                      "Ping",
	fcDisconnect:                "Disconnect",
	fcCloseCursor:               "CloseCursor",
	fcFindLob:                   "FindLob",
	fcAuthenticate:              "Authenticate",
	fcBatchPrepare:              "BatchPrepare",
	fcDBConnectInfo:             "DBConnectInfo",
	fcXAStart:                   "XAStart",
	fcXAJoin:                    "XAJoin",
}

func (fc FunctionCode) String() string {
	if s, ok := functionCodeText[fc]; ok {
		return s
	}
	return "unknown"
}

// isResultSet reports whether fc's reply carries a queryable result set
// (spec §4.8 outcome classification: Select, SelectForUpdate).
func (fc FunctionCode) isResultSet() bool {
	return fc == fcSelect || fc == fcSelectForUpdate
}

// isRowsAffected reports whether fc's reply carries an ExecutionResult
// outcome (Insert, Update, Delete).
func (fc FunctionCode) isRowsAffected() bool {
	return fc == fcInsert || fc == fcUpdate || fc == fcDelete
}

// isSuccess reports whether fc's reply is a bare success outcome
// (Ddl, Commit, Rollback).
func (fc FunctionCode) isSuccess() bool {
	return fc == fcDDL || fc == fcCommit || fc == fcRollback
}

// isCall reports whether fc is a stored-procedure call, which yields the
// MultipleReturnValues outcome.
func (fc FunctionCode) isCall() bool {
	return fc == fcDBProcedureCall || fc == fcDBProcedureCallWithResult
}
