package holiday

import (
	"context"
	"fmt"
	"strings"

	"vacation-planner/internal/models"
	"vacation-planner/pkg/calendarific"
	"vacation-planner/pkg/weekends"

	"github.com/sirupsen/logrus"
)

// Source returns the national holidays of a country for a year.
type Source interface {
	GetHolidays(ctx context.Context, year int, countryCode string) ([]models.NationalHoliday, error)
}

type CalendarificSource struct {
	client *calendarific.Client
}

func NewCalendarificSource(client *calendarific.Client) *CalendarificSource {
	return &CalendarificSource{client: client}
}

func (s *CalendarificSource) GetHolidays(ctx context.Context, year int, countryCode string) ([]models.NationalHoliday, error) {
	remote, err := s.client.GetHolidays(ctx, year, countryCode)
	if err != nil {
		return nil, err
	}

	holidays := make([]models.NationalHoliday, 0, len(remote))
	for _, h := range remote {
		cc := h.CountryCode
		if cc == "" {
			cc = countryCode
		}
		holidays = append(holidays, models.NationalHoliday{
			CountryCode: strings.ToUpper(cc),
			Year:        year,
			Date:        models.DateOnly(h.Date),
			Name:        h.Name,
			Description: h.Description,
		})
	}
	return holidays, nil
}

// FileSource serves holidays from production calendar files on disk.
type FileSource struct {
	files *weekends.FileSource
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{files: weekends.NewFileSource(dir)}
}

func (s *FileSource) GetHolidays(ctx context.Context, year int, countryCode string) ([]models.NationalHoliday, error) {
	days, err := s.files.GetHolidays(ctx, year, countryCode)
	if err != nil {
		return nil, err
	}

	holidays := make([]models.NationalHoliday, 0, len(days))
	for _, d := range days {
		holidays = append(holidays, models.NationalHoliday{
			CountryCode: strings.ToUpper(countryCode),
			Year:        year,
			Date:        d.Date,
			Name:        d.Name,
			Description: d.Description,
		})
	}
	return holidays, nil
}

// FallbackSource asks primary first and secondary when primary fails.
type FallbackSource struct {
	primary   Source
	secondary Source
	log       logrus.FieldLogger
}

func NewFallbackSource(primary, secondary Source, log logrus.FieldLogger) *FallbackSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FallbackSource{primary: primary, secondary: secondary, log: log}
}

func (s *FallbackSource) GetHolidays(ctx context.Context, year int, countryCode string) ([]models.NationalHoliday, error) {
	holidays, err := s.primary.GetHolidays(ctx, year, countryCode)
	if err == nil {
		return holidays, nil
	}

	s.log.WithError(err).WithFields(logrus.Fields{
		"country": countryCode,
		"year":    year,
	}).Warn("Primary holiday source failed, using fallback")

	holidays, fallbackErr := s.secondary.GetHolidays(ctx, year, countryCode)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary: %v; fallback: %w", err, fallbackErr)
	}
	return holidays, nil
}
