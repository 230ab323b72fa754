package domain

import "time"

// Entry is a journal note. Username is the owning account; every access is
// gated on it matching the authenticated principal.
type Entry struct {
	ID        int64
	Title     string
	Content   string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is the index projection: no content, no owner (the index is always
// scoped to one account already).
type Summary struct {
	ID        int64
	Title     string
	UpdatedAt time.Time
}
