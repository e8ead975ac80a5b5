package model

import (
	"time"

	"taskflow.com/taskflow/pkg/constants"
)

type Team struct {
	ID        string             `gorm:"primaryKey;size:36" json:"id"`
	Name      string             `gorm:"not null" json:"name"`
	Type      constants.TeamType `gorm:"type:varchar(20);not null" json:"type"`
	Color     string             `json:"color"`
	Position  *int               `json:"position,omitempty"`
	Columns   []Column           `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"columns"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Column returns the column of the board template with the given id.
func (t *Team) Column(id string) (Column, bool) {
	for _, c := range t.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}
