package domain

import "time"

// Category is a lookup value for one request kind: complaint categories,
// service types, inquiry categories and emergency types all live in one
// table keyed by (request_type, name).
type Category struct {
	ID          int64
	RequestType RequestType
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
