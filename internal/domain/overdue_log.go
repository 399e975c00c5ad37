package domain

import "time"

// OverdueNotificationLog records that staff were alerted about a stale
// request. At most one row exists per request; a new overdue episode
// (the row was touched after the last alert) refreshes NotifiedAt.
type OverdueNotificationLog struct {
	ID          int64
	RequestID   int64
	RequestType RequestType
	NotifiedAt  time.Time
}
