package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Race is a single event on a schedule. Dates are stored as ISO
// yyyy-mm-dd strings so they compare correctly in both PostgreSQL and
// the sqlite test database.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:rc"`

	RaceID     int       `bun:"race_id,pk,autoincrement" json:"raceID"`
	ScheduleID int       `bun:"schedule_id,notnull" json:"scheduleID"`
	Track      string    `bun:"track,notnull" json:"track"`
	Date       string    `bun:"date,notnull,type:date" json:"date"`
	SubmitBy   time.Time `bun:"submit_by,notnull" json:"submitBy"`

	Schedule *Schedule `bun:"rel:belongs-to,join:schedule_id=schedule_id" json:"-"`
}

// Year returns the race date's year, 0 if the date is malformed.
func (r *Race) Year() int {
	t, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return 0
	}
	return t.Year()
}
