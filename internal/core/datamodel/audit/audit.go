package audit

import (
	"database/sql"
	"time"
)

// Entry is one row of the append-only audit_log table. UserID and Username are NULL
// when the action happened without a session.
type Entry struct {
	ID        int64          `db:"id"`
	Timestamp time.Time      `db:"timestamp"`
	UserID    sql.NullInt64  `db:"user_id"`
	Username  sql.NullString `db:"username"`
	Action    string         `db:"action"`
	Details   string         `db:"details"`
}
