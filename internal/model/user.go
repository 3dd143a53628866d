package model

import "time"

type UserID string // externally assigned operator id, supplied by the browser extension

type RegisterUserParams struct {
	UserID     string   `json:"userId"`
	ChannelIDs []string `json:"channelIds"`
}

// User is the reconciled identity record. Rows are insert-only: the
// reconciler creates exactly one per UserID and nothing updates or
// deletes them.
type User struct {
	UserID    UserID    `db:"UserID" json:"userId"`
	CreatedAt time.Time `db:"CreatedAt" json:"-"`
	Name      string    `db:"Name" json:"name"`
	IsAdmin   bool      `db:"IsAdmin" json:"isAdmin"`
}
