package model

// Column is one stage of a team's board template. Ids are unique per team only.
type Column struct {
	ID              string `gorm:"primaryKey;size:64" json:"id"`
	TeamID          string `gorm:"primaryKey;size:36" json:"team_id"`
	Name            string `gorm:"not null" json:"name"`
	Position        int    `gorm:"not null" json:"position"`
	Color           string `json:"color,omitempty"`
	IsHandoffTarget bool   `json:"is_handoff_target"`
	IsDone          bool   `json:"is_done"`
}
