package models

import (
	"fmt"

	"github.com/uptrace/bun"
)

// Driver is reference data for one race driver. Only active drivers
// are eligible for random pick assignment.
type Driver struct {
	bun.BaseModel `bun:"table:drivers,alias:d"`

	DriverID      int    `bun:"driver_id,pk,autoincrement" json:"driverID"`
	FirstName     string `bun:"first_name,notnull" json:"firstName"`
	LastName      string `bun:"last_name,notnull" json:"lastName"`
	DefaultNumber int    `bun:"default_number,notnull" json:"defaultNumber"`
	DefaultTeamID int    `bun:"default_team_id,notnull" json:"defaultTeamID"`
	// No default: tag here. bun substitutes the SQL DEFAULT for
	// zero-value fields on insert, which would silently flip an
	// explicitly inactive driver back to active.
	IsActive bool `bun:"is_active,notnull" json:"isActive"`

	DefaultTeam *Team `bun:"rel:belongs-to,join:default_team_id=team_id" json:"-"`
}

// Name returns the driver's full display name.
func (d *Driver) Name() string {
	return fmt.Sprintf("%s %s", d.FirstName, d.LastName)
}
