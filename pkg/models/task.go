package model

import (
	"strings"
	"time"

	"taskflow.com/taskflow/pkg/constants"
)

type Task struct {
	ID          string             `gorm:"primaryKey;size:36" json:"id"`
	Title       string             `gorm:"not null" json:"title"`
	Description string             `json:"description,omitempty"`
	Priority    constants.Priority `gorm:"type:varchar(10);not null;default:medium" json:"priority"`
	ColumnID    string             `gorm:"size:64;not null;index" json:"column_id"`
	TeamID      string             `gorm:"size:36;not null;index" json:"team_id"`
	Tags        []string           `gorm:"serializer:json" json:"tags"`
	DueAt       *time.Time         `json:"due_at,omitempty"`
	AssigneeID  *string            `gorm:"size:64" json:"assignee_id,omitempty"`
	Assignee    *User              `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	StatusLabel string             `json:"status_label"`
	StatusColor string             `json:"status_color,omitempty"`

	HandoffFromTeamID   *string                 `gorm:"size:36" json:"handoff_from_team_id,omitempty"`
	HandoffStatus       constants.HandoffStatus `gorm:"type:varchar(20)" json:"handoff_status,omitempty"`
	HandoffNotes        string                  `json:"handoff_notes,omitempty"`
	HandoffRequirements []string                `gorm:"serializer:json" json:"handoff_requirements,omitempty"`
	HandedOffAt         *time.Time              `json:"handed_off_at,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Version     uint       `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsHandedOff reports whether the task arrived through a handoff.
func (t *Task) IsHandedOff() bool {
	return t.HandoffStatus != constants.HandoffNone
}

// IsLocal reports whether the id was generated client side and has no remote row.
func (t *Task) IsLocal() bool {
	return IsLocalID(t.ID)
}

func IsLocalID(id string) bool {
	return strings.HasPrefix(id, constants.SampleIDPrefix) || strings.HasPrefix(id, constants.LocalIDPrefix)
}
