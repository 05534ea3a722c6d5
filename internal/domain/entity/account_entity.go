package entity

import (
	"time"
)

// Account is the authentication principal of the directory.
// Password holds a bcrypt hash; Avatar and RefreshToken are nil until set.
type Account struct {
	ID           string
	Username     string
	Email        string
	Password     string
	Avatar       *string
	RefreshToken *string
	Confirmed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AvatarURL returns the avatar or an empty string.
func (a *Account) AvatarURL() string {
	if a == nil || a.Avatar == nil {
		return ""
	}
	return *a.Avatar
}
