package repository

import (
	"context"
	"strings"

	"vacation-planner/internal/models"

	"gorm.io/gorm"
)

type HolidayRepository interface {
	GetByCountryYear(ctx context.Context, countryCode string, year int) ([]models.NationalHoliday, error)
	ReplaceCountryYear(ctx context.Context, countryCode string, year int, holidays []models.NationalHoliday) error
}

type GormHolidayRepository struct {
	db *gorm.DB
}

func NewGormHolidayRepository(db *gorm.DB) (*GormHolidayRepository, error) {
	if err := db.AutoMigrate(&models.NationalHoliday{}); err != nil {
		return nil, err
	}
	return &GormHolidayRepository{db: db}, nil
}

func (r *GormHolidayRepository) GetByCountryYear(ctx context.Context, countryCode string, year int) ([]models.NationalHoliday, error) {
	var holidays []models.NationalHoliday
	err := r.db.WithContext(ctx).
		Where("country_code = ? AND year = ?", strings.ToUpper(countryCode), year).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

// ReplaceCountryYear swaps the stored calendar of a country and year in one transaction.
func (r *GormHolidayRepository) ReplaceCountryYear(ctx context.Context, countryCode string, year int, holidays []models.NationalHoliday) error {
	countryCode = strings.ToUpper(countryCode)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("country_code = ? AND year = ?", countryCode, year).
			Delete(&models.NationalHoliday{}).Error; err != nil {
			return err
		}
		if len(holidays) == 0 {
			return nil
		}

		rows := make([]models.NationalHoliday, len(holidays))
		for i, h := range holidays {
			h.ID = 0
			h.CountryCode = countryCode
			h.Year = year
			h.Date = models.DateOnly(h.Date)
			rows[i] = h
		}
		return tx.Create(&rows).Error
	})
}
