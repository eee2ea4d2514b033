// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import "github.com/SAP/go-hdb-protocol/driver/internal/protocol/encoding"

// TransactionFlags is the pkTransactionFlags option bag a reply may carry,
// reporting transaction-state transitions. The connection core (§4.6 C6)
// folds committed/rolled-back, a just-started write transaction and
// read-only mode into its session state; the other flags are decoded but
// not read.
type TransactionFlags struct{ Options[transactionFlagType] }

func (o *TransactionFlags) decode(dec *encoding.Decoder, ph *partHeader) error {
	return (&o.Options).decode(dec, ph)
}
func (o TransactionFlags) encode(enc *encoding.Encoder) error { return o.Options.encode(enc) }
func (o TransactionFlags) size() int                          { return o.Options.size() }
func (o TransactionFlags) numArg() int                         { return o.Options.numArg() }
func (o TransactionFlags) String() string                      { return o.Options.String() }

func (o TransactionFlags) flag(k transactionFlagType) bool {
	v, ok := o.Options[k]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Committed reports whether the transaction committed.
func (o TransactionFlags) Committed() bool { return o.flag(tfCommited) }

// RolledBack reports whether the transaction rolled back.
func (o TransactionFlags) RolledBack() bool { return o.flag(tfRolledback) }

// WriteTransactionStarted reports whether a new write transaction began.
func (o TransactionFlags) WriteTransactionStarted() bool { return o.flag(tfWriteTransactionStarted) }

// ReadOnlyMode reports whether the session is currently read-only.
func (o TransactionFlags) ReadOnlyMode() bool { return o.flag(tfReadOnlyMode) }
