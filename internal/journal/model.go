package journal

import (
	"time"

	"gorm.io/datatypes"
)

// Match is one recorded run.
type Match struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Title    string `gorm:"size:64"`
	Scenario string `gorm:"size:64;index"`
	Seed     int64
	Cols     int
	Rows     int

	EndedAt   *time.Time
	FinalBeat int64
	Outcome   string `gorm:"size:32;index"`
	Events    int64
	Summary   datatypes.JSON
}

// EventRecord is one published gameplay event.
type EventRecord struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time

	MatchID uint   `gorm:"index"`
	Beat    int64  `gorm:"index"`
	Type    string `gorm:"size:32;index"`
	Actor   string `gorm:"size:32"`
	Team    string `gorm:"size:16"`
	Payload datatypes.JSON
}

// Models lists the tables a SQL backend migrates.
var Models = []any{&Match{}, &EventRecord{}}
