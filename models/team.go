package models

import "github.com/uptrace/bun"

// Team is a race team referenced by its drivers.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	TeamID int    `bun:"team_id,pk,autoincrement" json:"teamID"`
	Name   string `bun:"name,notnull,unique" json:"name"`
}
