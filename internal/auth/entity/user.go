package entity

import "time"

// User represents an account row in the `users` table.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// PublicView is the subset of User returned to clients after login.
// The password hash never leaves the service layer.
type PublicView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public projects a User to its client-visible fields.
func (u *User) Public() PublicView {
	return PublicView{ID: u.ID, Username: u.Username, Email: u.Email}
}
