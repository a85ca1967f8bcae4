// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package database

import (
	"database/sql"
	"errors"
	"io"
	"strings"

	"github.com/tomtom215/murmur/internal/logging"
)

// closeQuietly closes a resource in an error path where the Close error is
// not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// rollbackQuietly rolls back tx, logging anything other than an
// already-finished transaction.
func rollbackQuietly(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Warn().Err(err).Msg("Failed to roll back transaction")
	}
}

// isTransactionConflict reports whether err is a DuckDB MVCC write conflict.
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction conflict") ||
		strings.Contains(msg, "write-write conflict") ||
		strings.Contains(msg, "Conflict on update") ||
		strings.Contains(msg, "Conflict on tuple deletion")
}

// isUpsertRace reports whether an ON CONFLICT upsert lost a race with a
// concurrent writer of the same key. A racing first insert surfaces as a
// duplicate key rather than a conflict.
func isUpsertRace(err error) bool {
	return isTransactionConflict(err) ||
		(err != nil && strings.Contains(err.Error(), "duplicate key"))
}
