package models

import "github.com/uptrace/bun"

// Admin is a back-office user with a bcrypt-hashed password. Admins
// enter schedules, reference data and race results; players never
// have passwords.
type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	AdminID  int    `bun:"admin_id,pk,autoincrement" json:"adminID"`
	Username string `bun:"username,notnull,unique" json:"username"`
	Password string `bun:"password,notnull" json:"-"`
}
