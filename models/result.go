package models

import "github.com/uptrace/bun"

// Result is the real-world outcome for one driver in one race. Two
// drivers can share neither a race entry nor a finishing position.
type Result struct {
	bun.BaseModel `bun:"table:results,alias:r"`

	ResultID int `bun:"result_id,pk,autoincrement" json:"resultID"`
	RaceID   int `bun:"race_id,notnull" json:"raceID"`
	DriverID int `bun:"driver_id,notnull" json:"driverID"`
	Position int `bun:"position,notnull" json:"position"`
	Points   int `bun:"points,notnull" json:"points"`

	Race   *Race   `bun:"rel:belongs-to,join:race_id=race_id" json:"-"`
	Driver *Driver `bun:"rel:belongs-to,join:driver_id=driver_id" json:"-"`
}
