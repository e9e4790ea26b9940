package store

import "time"

// Session is one completed focus session.
type Session struct {
	ID          int64
	UID         string
	Label       string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    int64 // seconds
	CreatedAt   time.Time
}

type Setting struct {
	Key   string
	Value string
}

// SessionFilter is used to filter sessions in queries. From/To bound
// completed_at as a half-open interval.
type SessionFilter struct {
	Label *string
	From  *time.Time
	To    *time.Time
	Limit int
}
