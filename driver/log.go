// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package driver

import "log/slog"

// logPrefix names this package's slog.Logger so callers using slog.Default
// with a handler that groups by component can distinguish driver output
// from application logs, the way the teacher's "hdb.driver" log prefix did.
const logPrefix = "hdb.driver"

// defaultLogger is used whenever a connection is configured without an
// explicit *slog.Logger.
var defaultLogger = slog.Default().With("component", logPrefix)

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return defaultLogger
	}
	return logger
}
