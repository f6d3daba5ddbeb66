package model

import "time"

// User is a registered account. PasswordHash is the bcrypt hash of the
// user's password; the `json:"-"` tag keeps it out of every API
// response no matter which handler serializes the struct.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
