package sqlite

import (
	"database/sql"
	"lockngo/shared/timezone"
	"time"
)

// NullTime stores t as unix nanoseconds. The zero time is stored as NULL.
func NullTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

// Time reads a NullTime column back in the application timezone.
func Time(n sql.NullInt64) time.Time {
	if !n.Valid {
		return time.Time{}
	}

	return time.Unix(0, n.Int64).In(timezone.GetLocation())
}
