// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"context"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol"
)

// PreparedStatement is the prepared-statement state machine (§4.9 C9):
// the connection it belongs to, its server-assigned id, the parameter and
// (if it is a query) result-set shapes resolved at PREPARE time, and a
// pending batch of input rows.
type PreparedStatement struct {
	conn *Connection
	id   protocol.StatementID

	functionCode protocol.FunctionCode
	parMD        *protocol.ParameterMetadata
	inputFields  []*protocol.ParameterField
	rsMD         *protocol.ResultSetMetadata

	batch [][]any
}

// Prepare parses sqlText on the server and returns a PreparedStatement
// bound to conn (§4.9 C9).
func Prepare(ctx context.Context, conn *Connection, sqlText string) (*PreparedStatement, error) {
	req := &Request{
		MessageType: protocol.MtPrepare,
		Parts:       []protocol.WritableArgument{protocol.NewCommand(sqlText)},
	}
	reply, err := conn.fullSend(ctx, req, nil, nil)
	if err != nil {
		return nil, err
	}
	if reply.statementID == nil {
		return nil, protocolError("prepare reply did not carry a StatementId")
	}
	stmt := &PreparedStatement{
		conn:         conn,
		id:           *reply.statementID,
		functionCode: reply.functionCode,
		parMD:        reply.parameterMetadata,
		rsMD:         reply.resultSetMetadata,
	}
	if stmt.parMD != nil {
		stmt.inputFields = stmt.parMD.InputFields()
	}
	return stmt, nil
}

// ParameterMetadata returns the statement's bind-parameter shapes, or nil
// if it takes none.
func (stmt *PreparedStatement) ParameterMetadata() *protocol.ParameterMetadata { return stmt.parMD }

// Execute converts args against the statement's input parameter shapes
// and runs it once, returning the caller-visible outcome (§4.9 "execute").
func (stmt *PreparedStatement) Execute(ctx context.Context, args []any) (*Outcome, error) {
	return stmt.execute(ctx, args)
}

func (stmt *PreparedStatement) execute(ctx context.Context, args []any) (*Outcome, error) {
	if len(args) != len(stmt.inputFields) {
		return nil, usageError("statement expects %d parameters, got %d", len(stmt.inputFields), len(args))
	}
	parts := make([]protocol.WritableArgument, 0, 2)
	parts = append(parts, protocol.NewStatementID(stmt.id.Uint64()))
	if len(stmt.inputFields) > 0 {
		parts = append(parts, &protocol.InputParameters{Fields: stmt.inputFields, Args: args})
	}
	req := &Request{
		MessageType: protocol.MtExecute,
		AutoCommit:  !stmt.conn.tx.inTransaction,
		Parts:       parts,
	}
	reply, err := stmt.conn.fullSend(ctx, req, stmt.rsMD, stmt.parMD)
	if err != nil {
		return nil, err
	}
	return reply.outcome(stmt.conn)
}

// AddBatch appends one row of converted input values to the pending batch
// (§4.9 "add_batch").
func (stmt *PreparedStatement) AddBatch(args []any) error {
	if len(args) != len(stmt.inputFields) {
		return usageError("statement expects %d parameters, got %d", len(stmt.inputFields), len(args))
	}
	stmt.batch = append(stmt.batch, args)
	return nil
}

// AddRowToBatch appends one pre-built row of values to the pending batch
// (§4.9 "add_row_to_batch").
func (stmt *PreparedStatement) AddRowToBatch(row []protocol.Value) error {
	args := make([]any, len(row))
	for i, v := range row {
		args[i] = v.V
	}
	return stmt.AddBatch(args)
}

// ExecuteBatch runs every row queued by AddBatch/AddRowToBatch and clears
// the batch; an empty batch is a usage error (§4.9 "execute_batch"). Each
// row is executed as its own request - the wire layer this driver speaks
// carries one parameter row per Parameters part, so a batch does not
// become a single array-execute request the way some HANA clients send it.
func (stmt *PreparedStatement) ExecuteBatch(ctx context.Context) (*Outcome, error) {
	if len(stmt.batch) == 0 {
		return nil, usageError("cannot execute an empty batch")
	}
	batch := stmt.batch
	stmt.batch = nil

	rows := make([]int32, 0, len(batch))
	for _, args := range batch {
		outcome, err := stmt.execute(ctx, args)
		if err != nil {
			return nil, err
		}
		if outcome.Kind == OutcomeAffectedRows {
			rows = append(rows, outcome.AffectedRows...)
		} else {
			rows = append(rows, protocol.RaSuccessNoInfo)
		}
	}
	return &Outcome{Kind: OutcomeAffectedRows, AffectedRows: rows}, nil
}

// Close sends DropStatementId (§4.9 "dropping the statement").
func (stmt *PreparedStatement) Close(ctx context.Context) error {
	req := &Request{
		MessageType: protocol.MtDropStatementID,
		Parts:       []protocol.WritableArgument{protocol.NewStatementID(stmt.id.Uint64())},
	}
	_, err := stmt.conn.fullSend(ctx, req, nil, nil)
	return err
}

// closeBestEffort drops the statement, swallowing failures - the
// connection may already be broken (§4.9).
func (stmt *PreparedStatement) closeBestEffort(ctx context.Context) {
	_ = stmt.Close(ctx)
}
