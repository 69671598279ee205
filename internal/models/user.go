package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

const DefaultVacationDaysPerYear = 25

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName        string    `gorm:"not null" json:"first_name"`
	LastName         string    `json:"last_name"`
	Username         string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash     string    `json:"-"`
	CountryCode      string    `gorm:"type:varchar(2);not null" json:"country_code"`
	Role             string    `gorm:"type:varchar(10);default:'User'" json:"role"`
	StartWorkingHour int       `json:"start_working_hour"`
	EndWorkingHour   int       `json:"end_working_hour"`
	ChatID           *int64    `gorm:"uniqueIndex" json:"chat_id,omitempty"`

	// Flat allowance, not scoped to a calendar year.
	AvailableVacationDaysPerYear int `gorm:"not null;default:25" json:"available_vacation_days_per_year"`

	VacationRequests []VacationRequest `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"vacation_requests,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the identifier on first save.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.AvailableVacationDaysPerYear == 0 {
		u.AvailableVacationDaysPerYear = DefaultVacationDaysPerYear
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FindRequest returns the request with the given id from the user's list.
func (u *User) FindRequest(id uuid.UUID) *VacationRequest {
	for i := range u.VacationRequests {
		if u.VacationRequests[i].ID == id {
			return &u.VacationRequests[i]
		}
	}
	return nil
}

// RemoveRequest drops the request from the user's list and reports whether it was there.
func (u *User) RemoveRequest(id uuid.UUID) bool {
	for i := range u.VacationRequests {
		if u.VacationRequests[i].ID == id {
			u.VacationRequests = append(u.VacationRequests[:i], u.VacationRequests[i+1:]...)
			return true
		}
	}
	return false
}
