package domain

import "time"

// User is an account holder. Staff members triage requests through the
// dashboard and can be assigned tickets; everyone can submit.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Phone        *string
	IsStaff      bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
