package models

import "time"

// User is the profile row for an account. Rows are created by the identity
// provider path, never by a request handler.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential holds the password hash for the local identity provider.
// It shares its ID with the User row.
type Credential struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	Email        string    `gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"` // No json tag for security
	CreatedAt    time.Time
}

// UserSummary is the user shape returned by the auth endpoints.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Summary returns the public subset of the profile.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}
