package models

import "time"

type NationalHoliday struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	CountryCode string    `gorm:"type:varchar(2);not null;index:idx_holiday_country_year" json:"country_code"`
	Year        int       `gorm:"not null;index:idx_holiday_country_year" json:"-"`
	Date        time.Time `gorm:"type:date;not null" json:"date"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"-"`
}

func (NationalHoliday) TableName() string {
	return "national_holidays"
}

// InRange reports whether the holiday date falls in [start, end].
func (h NationalHoliday) InRange(start, end time.Time) bool {
	d := DateOnly(h.Date)
	return !d.Before(DateOnly(start)) && !d.After(DateOnly(end))
}
