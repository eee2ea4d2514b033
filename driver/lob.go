// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"context"
	"io"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol"
	"github.com/SAP/go-hdb-protocol/driver/unicode/cesu8"
)

// Lob streams one LOB column's value (§4.11 C11): the first chunk arrives
// buffered inline with the row; Read hands that out first, then issues
// ReadLobRequests capped by the connection's configured chunk size as the
// buffer drains, until the server reports last-data.
type Lob struct {
	conn      *Connection
	typeCode  protocol.TypeCode
	locatorID uint64

	buf  []byte
	done bool // true once the server has reported last-data; buf may still hold unread bytes

	pos int64 // units received so far, inline chunk included: characters for CLOB/NCLOB, bytes otherwise
}

// NewLob wraps a decoded LOB descriptor (Value.V for a CLOB/NCLOB/BLOB
// column, per DecodeResult) for streaming (§4.11). pos starts past the
// units already delivered inline, so the first ReadLobRequest asks for
// data immediately following the buffered chunk.
func NewLob(conn *Connection, ld *protocol.LobDescr) *Lob {
	return &Lob{
		conn:      conn,
		typeCode:  ld.TypeCode,
		locatorID: ld.LocatorID,
		buf:       ld.Data,
		done:      ld.LastData,
		pos:       lobUnitLength(ld.TypeCode, ld.Data),
	}
}

// Read implements io.Reader, streaming the LOB's bytes on the wire
// (CESU-8 for character LOBs; the caller transcodes if it wants UTF-8).
func (l *Lob) Read(p []byte) (int, error) { return l.ReadContext(context.Background(), p) }

// ReadContext is Read with an explicit context, for callers that need one
// propagated into the ReadLobRequest round trip.
func (l *Lob) ReadContext(ctx context.Context, p []byte) (int, error) {
	if len(l.buf) == 0 {
		if l.done {
			return 0, io.EOF
		}
		if err := l.fetchMore(ctx); err != nil {
			return 0, err
		}
		if len(l.buf) == 0 {
			return 0, io.EOF
		}
	}
	n := copy(p, l.buf)
	l.buf = l.buf[n:]
	return n, nil
}

// fetchMore issues one ReadLobRequest and appends the returned chunk,
// capped by the connection's configured LOB chunk size (§4.11).
func (l *Lob) fetchMore(ctx context.Context) error {
	length := int32(l.conn.cfg.LobChunkSize)
	req := &Request{
		MessageType: protocol.MtReadLob,
		Parts: []protocol.WritableArgument{
			&protocol.ReadLobRequest{LocatorID: l.locatorID, Offset: l.pos + 1, Length: length},
		},
	}
	reply, err := l.conn.sendReadLob(ctx, req)
	if err != nil {
		return err
	}
	l.pos += lobUnitLength(l.typeCode, reply.Data)
	l.buf = append(l.buf, reply.Data...)
	l.done = reply.LastData
	return nil
}

// lobUnitLength returns how far Offset should advance for one chunk: the
// CESU-8 rune count for character LOBs, the byte count otherwise.
func lobUnitLength(tc protocol.TypeCode, data []byte) int64 {
	if tc != protocol.TcClob && tc != protocol.TcNclob {
		return int64(len(data))
	}
	var n int64
	for i := 0; i < len(data); {
		_, size := cesu8.DecodeRune(data[i:])
		i += size
		n++
	}
	return n
}

// sendReadLob issues one ReadLobRequest and decodes the server's reply,
// folding any StatementContext/TransactionFlags the reply carried into the
// connection's state (§4.11, handled outside the general C8 dispatcher).
func (c *Connection) sendReadLob(ctx context.Context, req *Request) (*protocol.ReadLobReply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkPoisoned(); err != nil {
		return nil, err
	}

	parts := req.buildParts(c)
	if err := c.w.Write(ctx, c.sessionID, c.nextSeqNumber(), req.MessageType, false, 0, parts...); err != nil {
		return nil, c.poison(err)
	}

	var sc *protocol.StatementContext
	var tf *protocol.TransactionFlags
	reply := &protocol.ReadLobReply{}
	err := c.r.IterateParts(ctx, func(ph *protocol.PartHeader) protocol.Argument {
		switch ph.Kind() {
		case protocol.PkStatementContext:
			sc = &protocol.StatementContext{}
			return sc
		case protocol.PkTransactionFlags:
			tf = &protocol.TransactionFlags{}
			return tf
		case protocol.PkReadLobReply:
			return reply
		default:
			return nil
		}
	})
	if err != nil {
		if hdbErrs, ok := err.(*protocol.HdbErrors); ok {
			return nil, dbMessageError(hdbErrs)
		}
		return nil, c.poison(err)
	}
	c.evaluateStatementContext(sc)
	c.evaluateTaFlags(tf)
	return reply, nil
}
