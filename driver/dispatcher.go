// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"context"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol"
)

// Reply is a request's parsed, stripped response: the parts the dispatcher
// (§4.8 C8) recognized, folded into one place. Connection.send/fullSend
// have already absorbed statementContext/transactionFlags into the
// connection's own state by the time a caller sees a Reply.
type Reply struct {
	functionCode protocol.FunctionCode

	statementContext *protocol.StatementContext
	transactionFlags *protocol.TransactionFlags

	affectedRows []int32

	statementID       *protocol.StatementID
	parameterMetadata *protocol.ParameterMetadata
	resultSetID       *protocol.ResultSetID
	resultSetMetadata *protocol.ResultSetMetadata
	firstChunk        *protocol.ResultSet
	resultSetAttrs    protocol.PartAttributes

	outputParameters *protocol.OutputParameters
}

// dispatch reads one reply message and classifies its parts (§4.8 C8).
// rsMD/parMD, when supplied, are the prepared statement's own metadata -
// an EXECUTE reply carries no ResultSetMetadata/ParameterMetadata of its
// own, so the dispatcher must be told how to decode ResultSet/
// OutputParameters parts against the statement's PREPARE-time shapes.
func dispatch(ctx context.Context, r *protocol.Reader, rsMD *protocol.ResultSetMetadata, parMD *protocol.ParameterMetadata) (*Reply, error) {
	reply := &Reply{}
	var affected *protocol.AffectedRows
	var rsID *protocol.ResultSetID
	var rs *protocol.ResultSet

	err := r.IterateParts(ctx, func(ph *protocol.PartHeader) protocol.Argument {
		switch ph.Kind() {
		case protocol.PkStatementContext:
			reply.statementContext = &protocol.StatementContext{}
			return reply.statementContext
		case protocol.PkTransactionFlags:
			reply.transactionFlags = &protocol.TransactionFlags{}
			return reply.transactionFlags
		case protocol.PkRowsAffected:
			affected = &protocol.AffectedRows{}
			return affected
		case protocol.PkStatementID:
			reply.statementID = &protocol.StatementID{}
			return reply.statementID
		case protocol.PkParameterMetadata:
			reply.parameterMetadata = &protocol.ParameterMetadata{}
			return reply.parameterMetadata
		case protocol.PkResultSetMetadata:
			if rsMD == nil {
				rsMD = &protocol.ResultSetMetadata{}
			}
			return rsMD
		case protocol.PkResultSetID:
			rsID = &protocol.ResultSetID{}
			return rsID
		case protocol.PkResultSet:
			var fields []*protocol.ResultField
			if rsMD != nil {
				fields = rsMD.ResultFields
			}
			rs = &protocol.ResultSet{ResultFields: fields}
			reply.resultSetAttrs = ph.Attributes()
			return rs
		case protocol.PkOutputParameters:
			var fields []*protocol.ParameterField
			if parMD != nil {
				fields = parMD.OutputFields()
			}
			reply.outputParameters = &protocol.OutputParameters{Fields: fields}
			return reply.outputParameters
		default:
			return nil
		}
	})
	if err != nil {
		if hdbErrs, ok := err.(*protocol.HdbErrors); ok {
			return nil, dbMessageError(hdbErrs)
		}
		return nil, err // raw transport error; caller decides how to poison
	}

	reply.functionCode = r.FunctionCode()
	if affected != nil {
		reply.affectedRows = affected.Rows()
	}
	reply.resultSetID = rsID
	reply.resultSetMetadata = rsMD
	reply.firstChunk = rs
	return reply, nil
}

// OutcomeKind discriminates the caller-visible outcome union (§6.2).
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeAffectedRows
	OutcomeResultSet
	OutcomeOutputParameters
	OutcomeMultipleReturnValues
)

// Outcome is the caller-visible result of one high-level call (§6.2): every
// operation produces exactly one, or an error.
type Outcome struct {
	Kind             OutcomeKind
	AffectedRows     []int32
	ResultSet        *ResultSet
	OutputParameters *protocol.OutputParameters
	ReturnValues     []*Outcome // populated only for OutcomeMultipleReturnValues
}

// outcome classifies reply per its function code (§4.8 "outcome
// classification") and, for ResultSet outcomes, synthesizes the
// driver-level ResultSet state machine (C10) bound to conn.
func (reply *Reply) outcome(conn *Connection) (*Outcome, error) {
	fc := reply.functionCode
	switch {
	case fc.IsResultSet():
		rs, err := newResultSet(conn, reply)
		if err != nil {
			return nil, err
		}
		return &Outcome{Kind: OutcomeResultSet, ResultSet: rs}, nil
	case fc.IsRowsAffected():
		return &Outcome{Kind: OutcomeAffectedRows, AffectedRows: reply.affectedRows}, nil
	case fc.IsSuccess():
		return &Outcome{Kind: OutcomeSuccess}, nil
	case fc.IsCall():
		values := make([]*Outcome, 0, 2)
		if reply.resultSetMetadata != nil && reply.resultSetID != nil {
			rs, err := newResultSet(conn, reply)
			if err != nil {
				return nil, err
			}
			values = append(values, &Outcome{Kind: OutcomeResultSet, ResultSet: rs})
		}
		if reply.outputParameters != nil {
			values = append(values, &Outcome{Kind: OutcomeOutputParameters, OutputParameters: reply.outputParameters})
		}
		if len(values) == 0 && len(reply.affectedRows) > 0 {
			values = append(values, &Outcome{Kind: OutcomeAffectedRows, AffectedRows: reply.affectedRows})
		}
		return &Outcome{Kind: OutcomeMultipleReturnValues, ReturnValues: values}, nil
	default:
		conn.logger.Warn("reply carried an unexpected function code for this call", "functionCode", fc.String())
		return nil, protocolError("unexpected function code %s for this request", fc)
	}
}
