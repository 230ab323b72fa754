package domain

import "time"

// User is an account row. The username is the primary key; there is no
// surrogate id.
type User struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
