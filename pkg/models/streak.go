package model

import "time"

// TeamStreak is derived data, recomputed from task completion timestamps.
type TeamStreak struct {
	TeamID           string    `gorm:"primaryKey;size:36" json:"team_id"`
	CurrentStreak    int       `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak    int       `gorm:"not null;default:0" json:"longest_streak"`
	LastActivityDate string    `gorm:"size:10" json:"last_activity_date,omitempty"`
	TotalCompleted   int       `gorm:"not null;default:0" json:"total_completed"`
	Version          uint      `gorm:"not null;default:1" json:"version"`
	UpdatedAt        time.Time `json:"updated_at"`
}
