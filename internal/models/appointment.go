package models

import (
	"time"
)

// Priority represents the display classification of an appointment.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid checks whether the priority is one of the known values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Appointment represents a scheduled appointment. StartTime and EndTime hold
// naive local wall-clock values: the wire format carries a vestigial Z suffix
// that is never interpreted as a real UTC offset, and the server stores the
// literal fields unchanged.
type Appointment struct {
	BaseModel
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartTime   time.Time `gorm:"index" json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Priority    Priority  `gorm:"size:20;default:'low'" json:"priority"`
}
