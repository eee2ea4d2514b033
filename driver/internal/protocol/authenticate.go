// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// authenticate wires the four-message handshake driven by the auth step
// machine (auth.go) to the Reader/Writer (§6.1, §4.9 C6). It is the one
// exported entry point into that machine: authStepper/authMethod/
// authInitReq and friends all decode/encode against the unexported
// partReadWriter shape, so the handshake itself must live in this
// package; the connection core (package driver) only ever sees the
// result.
package protocol

import (
	"context"
	"fmt"
	"os"
)

// defaultSessionID is the placeholder session id carried by the two
// requests that precede the server assigning a real one (§4.9 C6).
const defaultSessionID = -1

func newClientID() clientID {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return clientID(fmt.Sprintf("%d@%s", os.Getpid(), host))
}

// ClientIdentity is the information the driver advertises to the server on
// CONNECT (§4.9 C6 "client identity"), grounded on the teacher's
// ClientType/DriverVersion constants and Session.authenticate's
// clientContext construction.
type ClientIdentity struct {
	DriverVersion   string
	ClientType      string
	ApplicationName string
}

func (id ClientIdentity) clientContext() *ClientContext {
	return &ClientContext{Options: Options[ClientContextOption]{
		CcoClientVersion:            id.DriverVersion,
		CcoClientType:               id.ClientType,
		CcoClientApplicationProgram: id.ApplicationName,
	}}
}

// Authenticate drives the authentication handshake over an already
// connected transport: ClientContext + first auth step on mtAuthenticate,
// the server's chosen-method reply, the final auth step + client id +
// client connect options on mtConnect, and the server's ConnectOptions
// reply carrying the session id (§6.1). next yields the monotonically
// increasing packet sequence number the connection core (C6) is
// responsible for.
func Authenticate(ctx context.Context, r *Reader, w *Writer, next func() int32, id ClientIdentity, authCfg *AuthConfig, clientOpts *ConnectOptions) (int64, *ConnectOptions, error) {
	stepper := newAuth(authCfg)
	clientContext := id.clientContext()

	step, err := stepper.next()
	if err != nil {
		return 0, nil, err
	}
	if err := w.Write(ctx, defaultSessionID, next(), mtAuthenticate, false, 0, clientContext, authStepWritable{step}); err != nil {
		return 0, nil, err
	}

	if step, err = stepper.next(); err != nil {
		return 0, nil, err
	}
	if err := r.ReadAuthStep(ctx, step); err != nil {
		return 0, nil, err
	}

	if step, err = stepper.next(); err != nil {
		return 0, nil, err
	}
	cid := newClientID()
	if err := w.Write(ctx, defaultSessionID, next(), mtConnect, false, 0, authStepWritable{step}, cid, clientOpts); err != nil {
		return 0, nil, err
	}

	if step, err = stepper.next(); err != nil {
		return 0, nil, err
	}
	serverOpts := &ConnectOptions{}
	if err := r.IterateParts(ctx, func(ph *PartHeader) Argument {
		switch ph.Kind() {
		case pkAuthentication:
			return authStepArgument{step}
		case pkConnectOptions:
			return serverOpts
		default:
			return nil
		}
	}); err != nil {
		return 0, nil, err
	}

	sessionID := r.SessionID()
	if sessionID <= 0 {
		return 0, nil, fmt.Errorf("protocol: server returned invalid session id %d", sessionID)
	}
	return sessionID, serverOpts, nil
}

// LookupDBConnectInfo asks an already-connected, already-prolog'd system
// database which host/port actually serves databaseName, ahead of dialing
// and authenticating against the tenant directly (§4 supplemented
// features, multi-tenant routing). It runs over the unauthenticated
// mtDBConnectInfo exchange, before any session id has been assigned.
func LookupDBConnectInfo(ctx context.Context, r *Reader, w *Writer, next func() int32, databaseName string) (*DBConnectInfo, error) {
	req := NewDBConnectInfoRequest(databaseName)
	if err := w.Write(ctx, defaultSessionID, next(), mtDBConnectInfo, false, 0, req); err != nil {
		return nil, err
	}

	info := &DBConnectInfo{}
	if err := r.IterateParts(ctx, func(ph *PartHeader) Argument {
		if ph.Kind() != pkDBConnectInfo {
			return nil
		}
		return info
	}); err != nil {
		return nil, err
	}
	return info, nil
}
