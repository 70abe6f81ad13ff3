package pg

import (
	"database/sql"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx"
	"github.com/pkg/errors"
)

// CheckNoRows returns notFound in place of sql.ErrNoRows, and any other error
// unchanged
func CheckNoRows(err, notFound error) error {
	if IsNoRows(err) {
		return notFound
	}
	return err
}

func IsNoRows(err error) bool {
	return err != nil && errors.Is(err, sql.ErrNoRows)
}

// IsSerializationFailure returns whether err was caused by a conflicting
// concurrent transaction, which can be retried as a whole
func IsSerializationFailure(err error) bool {
	switch errorCode(err) {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return true
	}
	return false
}

// errorCode returns the SQLSTATE code reported by postgres, if any. Both the
// nrpgx driver error and the pgconn error used by the pgx/v4 stdlib driver are
// understood.
func errorCode(err error) string {
	if err == nil {
		return ""
	}

	var connErr *pgconn.PgError
	if errors.As(err, &connErr) {
		return connErr.Code
	}

	var driverErr pgx.PgError
	if errors.As(err, &driverErr) {
		return driverErr.Code
	}

	return ""
}
