package models

import "github.com/uptrace/bun"

// User is a player account created on first Twitter sign-in. The
// primary key is the numeric Twitter ID, not an autoincrement.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	UserID     int64  `bun:"user_id,pk" json:"userID,string"`
	Username   string `bun:"username,notnull,unique" json:"username"`
	Name       string `bun:"name,notnull" json:"name"`
	ProfileImg string `bun:"profile_img,notnull,default:''" json:"profileImg"`
}
