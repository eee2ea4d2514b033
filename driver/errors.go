// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"errors"
	"fmt"

	"github.com/SAP/go-hdb-protocol/driver/internal/protocol"
)

// Kind classifies every error this driver can return (§7): exactly one
// Kind is attached to each returned error, so callers can branch on it
// with errors.Is/errors.As instead of string matching.
type Kind int

const (
	// KindImpl reports a bug in this driver - an invariant it should
	// have enforced itself didn't hold.
	KindImpl Kind = iota
	// KindIO reports a transport failure (read/write/flush error). The
	// connection is no longer usable once one of these occurs (§5).
	KindIO
	// KindProtocol reports a well-formed but unexpected wire message -
	// an unknown part kind arrived, or a reply carried parts the
	// dispatcher could not reconcile with the request that produced it.
	KindProtocol
	// KindDbMessage wraps one or more server-reported SQL errors
	// (protocol.HdbErrors).
	KindDbMessage
	// KindSerialization reports a failure encoding a caller-supplied
	// parameter value onto the wire.
	KindSerialization
	// KindUsage reports a caller mistake: an empty batch executed, or an
	// argument count that does not match the statement's input parameters.
	KindUsage
	// KindDeserialization reports a failure decoding a wire value into
	// the type the caller asked for.
	KindDeserialization
)

func (k Kind) String() string {
	switch k {
	case KindImpl:
		return "impl"
	case KindIO:
		return "io"
	case KindProtocol:
		return "protocol"
	case KindDbMessage:
		return "db message"
	case KindSerialization:
		return "serialization"
	case KindUsage:
		return "usage"
	case KindDeserialization:
		return "deserialization"
	default:
		return "unknown"
	}
}

// Error is the taxonomy wrapper every error value returned across this
// package's exported API carries (§7). Use errors.Is(err, driver.KindUsage)
// is not valid Go - instead compare via a *Error: var dErr *driver.Error;
// errors.As(err, &dErr); dErr.Kind == driver.KindUsage.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

func implError(format string, a ...any) error {
	return newError(KindImpl, fmt.Errorf(format, a...))
}

func ioError(err error) error { return newError(KindIO, err) }

func protocolError(format string, a ...any) error {
	return newError(KindProtocol, fmt.Errorf(format, a...))
}

func usageError(format string, a ...any) error {
	return newError(KindUsage, fmt.Errorf(format, a...))
}

func serializationError(err error) error { return newError(KindSerialization, err) }

func deserializationError(err error) error { return newError(KindDeserialization, err) }

// dbMessageError wraps the server-reported errors collected for one reply
// (§4.8 dispatcher, §7 "reply-internal errors are always converted to
// DbMessage before further processing"). errs is usually a
// *protocol.HdbErrors, which already implements error with Unwrap() []error.
func dbMessageError(errs error) error { return newError(KindDbMessage, errs) }

// DBErrors returns the server-reported errors wrapped by err, if err (or
// something it wraps) is a DbMessage-kind Error.
func DBErrors(err error) (*protocol.HdbErrors, bool) {
	var dErr *Error
	if !errors.As(err, &dErr) || dErr.Kind != KindDbMessage {
		return nil, false
	}
	hdbErrs, ok := dErr.Err.(*protocol.HdbErrors)
	return hdbErrs, ok
}
