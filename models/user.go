package models

import (
	"strconv"
	"time"
)

// User is an authenticated person that log items are attributed to
type User struct {
	ID         int64     `json:"id" db:"id"`
	Subject    string    `json:"subject" db:"subject"`
	Email      string    `json:"email" db:"email"`
	Name       string    `json:"name" db:"name"`
	DateJoined time.Time `json:"date_joined" db:"date_joined"`
}

// AbsoluteURL returns the page listing the user's actions
func (u *User) AbsoluteURL() string {
	return "/users/" + strconv.FormatInt(u.ID, 10)
}

// String returns the best available display name
func (u *User) String() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return u.Subject
	}
}
