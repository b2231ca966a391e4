package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-call
// LogCall writes a call entry to the call_log table.
func LogCall(db *sql.DB, entry CallEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO call_log (run_id, policy_type, transport, outcome, status, duration_ms, error_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.RunID),
		entry.PolicyType,
		entry.Transport,
		entry.Outcome,
		nullIfZero(entry.Status),
		entry.Duration.Milliseconds(),
		nullIfEmpty(entry.Error),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log call: %w", err)
	}
	return nil
}

// #endregion log-call

// #region recent-calls
// RecentCalls returns up to limit entries, newest first.
func RecentCalls(db *sql.DB, limit int) ([]CallEntry, error) {
	rows, err := db.Query(
		`SELECT run_id, policy_type, transport, outcome, status, duration_ms, error_text, created_at
		 FROM call_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent calls: %w", err)
	}
	defer rows.Close()

	var entries []CallEntry
	for rows.Next() {
		var e CallEntry
		var runID, errText sql.NullString
		var status sql.NullInt64
		var durationMS int64
		var createdStr string

		if err := rows.Scan(&runID, &e.PolicyType, &e.Transport, &e.Outcome, &status, &durationMS, &errText, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.RunID = runID.String
		e.Error = errText.String
		e.Status = int(status.Int64)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion recent-calls

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

// #endregion helpers
