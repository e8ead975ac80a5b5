package model

import "time"

type Handoff struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID       string    `gorm:"size:36;not null;index" json:"task_id"`
	FromTeamID   string    `gorm:"size:36;not null" json:"from_team_id"`
	ToTeamID     string    `gorm:"size:36;not null;index" json:"to_team_id"`
	ToColumnID   string    `gorm:"size:64;not null" json:"to_column_id"`
	Notes        string    `json:"notes,omitempty"`
	Requirements []string  `gorm:"serializer:json" json:"requirements,omitempty"`
	CreatedBy    string    `gorm:"size:64" json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
