// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"context"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol"
)

// ExecuteDirect runs sqlText without preparing it first (§4.9 surrounding
// context: the common case of a statement with no bind parameters and no
// reuse).
func (c *Connection) ExecuteDirect(ctx context.Context, sqlText string) (*Outcome, error) {
	req := &Request{
		MessageType: protocol.MtExecuteDirect,
		AutoCommit:  !c.tx.inTransaction,
		Parts:       []protocol.WritableArgument{protocol.NewCommand(sqlText)},
	}
	reply, err := c.fullSend(ctx, req, nil, nil)
	if err != nil {
		return nil, err
	}
	return reply.outcome(c)
}

// Commit commits the current transaction (§6.2 "Success" outcome for
// Commit/Rollback/Ddl).
func (c *Connection) Commit(ctx context.Context) error {
	reply, err := c.fullSend(ctx, &Request{MessageType: protocol.MtCommit}, nil, nil)
	if err != nil {
		return err
	}
	if !reply.functionCode.IsSuccess() {
		return protocolError("unexpected function code %s for Commit", reply.functionCode)
	}
	return nil
}

// Rollback rolls back the current transaction.
func (c *Connection) Rollback(ctx context.Context) error {
	reply, err := c.fullSend(ctx, &Request{MessageType: protocol.MtRollback}, nil, nil)
	if err != nil {
		return err
	}
	if !reply.functionCode.IsSuccess() {
		return protocolError("unexpected function code %s for Rollback", reply.functionCode)
	}
	return nil
}
