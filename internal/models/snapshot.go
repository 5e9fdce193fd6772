package models

import "time"

// Snapshot is one persisted document row.
type Snapshot struct {
	ScopeKey  string    `gorm:"primaryKey;size:255" json:"scope_key"`
	Data      string    `gorm:"type:text;not null" json:"data"`
	Version   int64     `gorm:"not null" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Snapshot) TableName() string {
	return "interview_snapshots"
}
