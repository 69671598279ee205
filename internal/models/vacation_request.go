package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VacationRequest struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"request_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Username     string    `gorm:"not null;index" json:"username"`
	StartDate    time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null" json:"end_date"`
	Status       Status    `gorm:"not null;default:0;index" json:"status"`
	Comment      string    `json:"comment"`
	NumberOfDays int       `gorm:"not null;default:0" json:"number_of_days"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (VacationRequest) TableName() string {
	return "vacation_requests"
}

func (r *VacationRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Overlaps reports whether the request intersects [start, end].
func (r *VacationRequest) Overlaps(start, end time.Time) bool {
	return !r.EndDate.Before(start) && !r.StartDate.After(end)
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of days from start to end (end exclusive).
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}
