package models

import "github.com/uptrace/bun"

// Schedule is one season of racing, identified by its year.
type Schedule struct {
	bun.BaseModel `bun:"table:schedules,alias:s"`

	ScheduleID int `bun:"schedule_id,pk,autoincrement" json:"scheduleID"`
	Year       int `bun:"year,notnull,unique" json:"year"`
}
