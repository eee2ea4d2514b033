// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol"
)

// transactionState tracks the transaction the server last reported via a
// TransactionFlags part (§4.6 C6 evaluate_ta_flags).
type transactionState struct {
	inTransaction bool
	readOnly      bool
}

// Connection is the connection core (§4.6 C6): it owns the one stream a
// Session negotiated, and all per-connection mutable state the rest of
// this package's types (PreparedStatement, ResultSet, Lob) act through.
// Every public method that touches the stream acquires mu for the
// duration of one full request/reply cycle (§5); the lock is
// non-reentrant, so nothing below ever calls another exported Connection
// method while already holding it.
type Connection struct {
	cfg    *SessionConfig
	logger *slog.Logger

	w *protocol.Writer
	r *protocol.Reader

	mu sync.Mutex

	sessionID int64
	seq       int32
	ssi       []byte // last statement-sequence-info echoed by the server, or nil
	tx        transactionState
	serverProcessingTime int64
	callCount int64

	serverOpts *protocol.ConnectOptions

	poisoned error // set once any I/O on the stream fails; sticky for the life of the connection
}

// Connect performs the one-time 14-byte version handshake followed by
// authentication over rw (an already-connected, already-TLS-if-needed
// stream - socket/TLS setup is out of this package's scope), and returns
// a ready-to-use Connection (§4.6, §6.1).
func Connect(ctx context.Context, rw io.ReadWriter, cfg *SessionConfig, authCfg *protocol.AuthConfig) (*Connection, error) {
	cfg.setDefaults()
	logger := loggerOrDefault(nil)

	w := protocol.NewWriter(bufio.NewWriter(rw), cfg.CESU8Encoder, protocol.NewClientInfo(cfg.SessionVariables), logger)
	r := protocol.NewReader(rw, cfg.CESU8Decoder, logger)

	if err := w.WriteProlog(); err != nil {
		return nil, ioError(err)
	}
	if err := r.ReadProlog(); err != nil {
		return nil, ioError(err)
	}

	c := &Connection{cfg: cfg, logger: logger, w: w, r: r}

	id := protocol.ClientIdentity{
		DriverVersion:   DriverVersion,
		ClientType:      ClientType,
		ApplicationName: cfg.ApplicationName,
	}
	clientOpts := protocol.NewClientConnectOptions(cfg.Locale, dataFormatVersion2)
	sessionID, serverOpts, err := protocol.Authenticate(ctx, r, w, c.nextSeqNumber, id, authCfg, clientOpts)
	if err != nil {
		return nil, ioError(err)
	}
	c.sessionID = sessionID
	c.serverOpts = serverOpts
	return c, nil
}

// LookupDBConnectInfo performs the one-time 14-byte version handshake over
// rw and asks the system database listening there which host/port actually
// serves databaseName, without authenticating or establishing a session
// (§4 supplemented features, multi-tenant routing). Callers use the
// returned routing info to dial the tenant host directly and run Connect
// there; rw is not reused afterwards.
func LookupDBConnectInfo(ctx context.Context, rw io.ReadWriter, cfg *SessionConfig, databaseName string) (*protocol.DBConnectInfo, error) {
	cfg.setDefaults()
	logger := loggerOrDefault(nil)

	w := protocol.NewWriter(bufio.NewWriter(rw), cfg.CESU8Encoder, protocol.ClientInfo{}, logger)
	r := protocol.NewReader(rw, cfg.CESU8Decoder, logger)

	if err := w.WriteProlog(); err != nil {
		return nil, ioError(err)
	}
	if err := r.ReadProlog(); err != nil {
		return nil, ioError(err)
	}

	var seq int32
	next := func() int32 { seq++; return seq }

	info, err := protocol.LookupDBConnectInfo(ctx, r, w, next, databaseName)
	if err != nil {
		return nil, ioError(err)
	}
	return info, nil
}

// SessionID returns the session identifier the server assigned on CONNECT.
func (c *Connection) SessionID() int64 { return c.sessionID }

// nextSeqNumber increments and returns the connection's packet sequence
// number (§4.6 "next_seq_number"). Callers must already hold mu, except
// during the pre-authentication handshake where no concurrent access is
// possible yet.
func (c *Connection) nextSeqNumber() int32 {
	c.seq++
	return c.seq
}

// ssiToken returns the statement-sequence-info the server last echoed, if any.
func (c *Connection) ssiToken() []byte { return c.ssi }

// evaluateStatementContext absorbs a reply's StatementContext part: it
// records the echoed statement-sequence-info (for the next outgoing
// request, §4.7 C7) and the server-reported processing time (§4.6 C6).
func (c *Connection) evaluateStatementContext(sc *protocol.StatementContext) {
	if sc == nil {
		return
	}
	if ssi, ok := sc.StatementSequenceInfo(); ok {
		c.ssi = ssi
	}
	if t, ok := sc.ServerProcessingTime(); ok {
		c.serverProcessingTime = t
	}
}

// evaluateTaFlags applies a reply's TransactionFlags to the connection's
// transaction state (§4.6 C6).
func (c *Connection) evaluateTaFlags(tf *protocol.TransactionFlags) {
	if tf == nil {
		return
	}
	if tf.Committed() || tf.RolledBack() {
		c.tx.inTransaction = false
	}
	if tf.WriteTransactionStarted() {
		c.tx.inTransaction = true
	}
	c.tx.readOnly = tf.ReadOnlyMode()
}

// poison marks the connection unusable after a failed read/write (§5:
// "the core must tolerate a failed read by poisoning the connection so
// subsequent operations fail fast").
func (c *Connection) poison(err error) error {
	if err == nil {
		return nil
	}
	if c.poisoned == nil {
		c.poisoned = err
	}
	return ioError(err)
}

func (c *Connection) checkPoisoned() error {
	if c.poisoned != nil {
		return ioError(c.poisoned)
	}
	return nil
}

// send serializes req, writes it, parses the reply and folds statement-
// context/transaction-flags/errors into the connection's state, returning
// the stripped Reply (§4.6 C6 "send").
func (c *Connection) send(ctx context.Context, req *Request) (*Reply, error) {
	return c.fullSend(ctx, req, nil, nil)
}

// fullSend is send, but threads result-set/parameter metadata into the
// reply dispatcher so a prepared statement's ResultSet/OutputParameters
// parts decode correctly (§4.6 C6 "full_send").
func (c *Connection) fullSend(ctx context.Context, req *Request, rsMD *protocol.ResultSetMetadata, parMD *protocol.ParameterMetadata) (*Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkPoisoned(); err != nil {
		return nil, err
	}

	parts := req.buildParts(c)
	if err := c.w.Write(ctx, c.sessionID, c.nextSeqNumber(), req.MessageType, req.AutoCommit, req.CommandOptions, parts...); err != nil {
		return nil, c.poison(err)
	}
	c.callCount++

	reply, err := dispatch(ctx, c.r, rsMD, parMD)
	if err != nil {
		if dErr, ok := err.(*Error); ok && dErr.Kind == KindDbMessage {
			return nil, err
		}
		return nil, c.poison(err)
	}
	c.evaluateStatementContext(reply.statementContext)
	c.evaluateTaFlags(reply.transactionFlags)
	return reply, nil
}

// Close sends Disconnect and returns the error of that round trip, if any.
// It does not close the underlying stream: rw is owned by the caller that
// constructed it, and this package never dials or closes sockets (§1).
func (c *Connection) Close(ctx context.Context) error {
	_, err := c.send(ctx, &Request{MessageType: protocol.MtDisconnect})
	return err
}
