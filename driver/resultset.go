// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"context"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol"
)

// rsState is the result set's lazy-fetch state machine (§4.10 C10).
type rsState int

const (
	rsOpenEmpty rsState = iota
	rsOpenBuffered
	rsOpenDrained
	rsClosed
)

// ResultSet is the lazily-fetched cursor a Select/SelectForUpdate/
// DbProcedureCall outcome carries (§4.10 C10). It holds an owning
// reference to its Connection; every method serializes on the
// connection's lock.
type ResultSet struct {
	conn   *Connection
	id     protocol.ResultSetID
	fields []*protocol.ResultField

	rows *protocol.ResultSet
	pos  int

	state      rsState
	lastPacket bool
}

// newResultSet builds the initial ResultSet state from a reply that
// carried ResultSetMetadata+ResultSetId, optionally with the first chunk
// of rows already inline (§4.10 "Open-Empty"/"Open-Buffered").
func newResultSet(conn *Connection, reply *Reply) (*ResultSet, error) {
	if reply.resultSetMetadata == nil || reply.resultSetID == nil {
		return nil, protocolError("result set outcome missing ResultSetMetadata or ResultSetId")
	}
	rs := &ResultSet{
		conn:       conn,
		id:         *reply.resultSetID,
		fields:     reply.resultSetMetadata.ResultFields,
		lastPacket: reply.resultSetAttrs.LastPacket(),
	}
	if reply.firstChunk == nil || reply.firstChunk.NumRow() == 0 {
		if rs.lastPacket {
			rs.state = rsClosed
		} else {
			rs.state = rsOpenEmpty
		}
		return rs, nil
	}
	rs.rows = reply.firstChunk
	rs.state = rsOpenBuffered
	return rs, nil
}

// Fields returns the result set's column metadata.
func (rs *ResultSet) Fields() []*protocol.ResultField { return rs.fields }

// NextRow returns the next row's values, or (nil, nil) once the result set
// is exhausted (§4.10 "next_row"). It transparently issues a FetchNext
// request when the buffered chunk is drained and the server has not yet
// reported the last packet.
func (rs *ResultSet) NextRow(ctx context.Context) ([]protocol.Value, error) {
	for {
		switch rs.state {
		case rsClosed:
			return nil, nil
		case rsOpenBuffered:
			row := rs.rows.Row(rs.pos)
			decodeErr := rowDecodeError(rs.rows.DecodeErrors, rs.pos)
			rs.pos++
			if rs.pos >= rs.rows.NumRow() {
				if rs.lastPacket {
					rs.state = rsClosed
				} else {
					rs.state = rsOpenDrained
				}
			}
			if decodeErr != nil {
				return row, deserializationError(decodeErr)
			}
			return row, nil
		case rsOpenEmpty, rsOpenDrained:
			if err := rs.fetchNext(ctx); err != nil {
				return nil, err
			}
		default:
			return nil, implError("result set in unrecognized state %d", rs.state)
		}
	}
}

// fetchNext issues FetchNext and folds the reply into the result set's
// buffer (§4.10 C10).
func (rs *ResultSet) fetchNext(ctx context.Context) error {
	req := &Request{
		MessageType: protocol.MtFetchNext,
		Parts: []protocol.WritableArgument{
			protocol.NewResultSetID(rs.id.Uint64()),
			protocol.NewFetchSize(int32(rs.conn.cfg.FetchSize)),
		},
	}
	rsMD := &protocol.ResultSetMetadata{ResultFields: rs.fields}
	reply, err := rs.conn.fullSend(ctx, req, rsMD, nil)
	if err != nil {
		return err
	}
	rs.lastPacket = reply.resultSetAttrs.LastPacket()
	if reply.firstChunk == nil || reply.firstChunk.NumRow() == 0 {
		rs.rows = nil
		rs.pos = 0
		if rs.lastPacket {
			rs.state = rsClosed
		} else {
			rs.state = rsOpenDrained
		}
		return nil
	}
	rs.rows = reply.firstChunk
	rs.pos = 0
	rs.state = rsOpenBuffered
	return nil
}

// Close sends CloseResultSet if the result set has not already transitioned
// to Closed on its own (§4.10 "explicit close").
func (rs *ResultSet) Close(ctx context.Context) error {
	if rs.state == rsClosed {
		return nil
	}
	rs.state = rsClosed
	req := &Request{
		MessageType: protocol.MtCloseResultset,
		Parts:       []protocol.WritableArgument{protocol.NewResultSetID(rs.id.Uint64())},
	}
	_, err := rs.conn.fullSend(ctx, req, nil, nil)
	return err
}

// rowDecodeError returns the decode failure recorded against chunk-relative
// row i, if any (§8 "partial row decode" surfaced to the caller alongside
// the row's still-valid fields rather than discarded).
func rowDecodeError(errs protocol.DecodeErrors, i int) *protocol.DecodeError {
	for _, e := range errs {
		if e.Row == i {
			return e
		}
	}
	return nil
}

// closeBestEffort is called when a ResultSet is dropped without an
// explicit Close; failures are swallowed (§4.10 "resource leak, not a
// correctness bug").
func (rs *ResultSet) closeBestEffort(ctx context.Context) {
	_ = rs.Close(ctx)
}
