package models

import "github.com/uptrace/bun"

// Pick is one user's randomly assigned driver for one race. A pick is
// created exactly once per (user, race) and only its result reference
// changes afterwards, once the race has been scored.
type Pick struct {
	bun.BaseModel `bun:"table:picks,alias:p"`

	PickID   int    `bun:"pick_id,pk,autoincrement" json:"pickID"`
	UserID   int64  `bun:"user_id,notnull" json:"userID,string"`
	RaceID   int    `bun:"race_id,notnull" json:"raceID"`
	DriverID int    `bun:"driver_id,notnull" json:"driverID"`
	TweetID  string `bun:"tweet_id,notnull" json:"tweetID"`
	ResultID *int   `bun:"result_id" json:"resultID,omitempty"`

	User   *User   `bun:"rel:belongs-to,join:user_id=user_id" json:"-"`
	Race   *Race   `bun:"rel:belongs-to,join:race_id=race_id" json:"-"`
	Driver *Driver `bun:"rel:belongs-to,join:driver_id=driver_id" json:"-"`
	Result *Result `bun:"rel:belongs-to,join:result_id=result_id" json:"-"`
}
