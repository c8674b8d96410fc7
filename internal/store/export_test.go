package store

import "time"

// SetClock overrides the timestamp source used for new SQLite rows.
func (s *SQLiteStore) SetClock(now func() time.Time) { s.now = now }
