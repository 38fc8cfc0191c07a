package models

import "time"

// MoodleUser is an imported Moodle account, read-only here.
type MoodleUser struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	FirstName string `db:"firstname" json:"firstName"`
	LastName  string `db:"lastname" json:"lastName"`
	Email     string `db:"email" json:"email"`
}

// PanelUser is an account allowed to sign in to the reporting panel.
// Unrelated to MoodleUser: panel operators are not Moodle users.
type PanelUser struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Active       bool       `db:"active" json:"active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
}
