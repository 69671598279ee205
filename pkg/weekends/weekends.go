package weekends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CalendarJSON is the production calendar file layout: one file per country and year.
type CalendarJSON struct {
	Year     int             `json:"year"`
	Country  string          `json:"country"`
	Months   []MonthHolidays `json:"months"`
	Holidays []NamedHoliday  `json:"holidays"`
}

// MonthHolidays lists day numbers of a month, comma separated.
// "*" marks a shortened working day and "+" a transferred day off.
type MonthHolidays struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

type NamedHoliday struct {
	Date        string `json:"date"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Holiday struct {
	Date        time.Time
	Name        string
	Description string
}

var ErrCalendarNotFound = errors.New("holiday calendar not found")

// ParseCalendarJSON reads a calendar file and returns its days off.
func ParseCalendarJSON(filePath string) (int, []Holiday, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil, fmt.Errorf("%w: %s", ErrCalendarNotFound, filePath)
		}
		return 0, nil, fmt.Errorf("failed to read JSON file: %w", err)
	}

	var calendar CalendarJSON
	if err := json.Unmarshal(data, &calendar); err != nil {
		return 0, nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	holidays := []Holiday{}
	seen := map[time.Time]bool{}

	for _, named := range calendar.Holidays {
		date, err := time.Parse("2006-01-02", named.Date)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to parse holiday date '%s': %w", named.Date, err)
		}
		seen[date] = true
		holidays = append(holidays, Holiday{Date: date, Name: named.Name, Description: named.Description})
	}

	for _, monthData := range calendar.Months {
		for _, dayStr := range strings.Split(monthData.Days, ",") {
			dayStr = strings.TrimSpace(dayStr)
			if dayStr == "" || strings.HasSuffix(dayStr, "*") {
				continue
			}
			dayStr = strings.TrimSuffix(dayStr, "+")

			day, err := strconv.Atoi(dayStr)
			if err != nil {
				return 0, nil, fmt.Errorf("failed to parse day '%s' in month %d: %w",
					dayStr, monthData.Month, err)
			}

			date := time.Date(calendar.Year, time.Month(monthData.Month), day, 0, 0, 0, 0, time.UTC)
			if seen[date] || IsWeekend(date) {
				continue
			}
			seen[date] = true
			holidays = append(holidays, Holiday{Date: date, Name: "Day off"})
		}
	}

	return calendar.Year, holidays, nil
}

// FileSource serves holidays from <dir>/<COUNTRY>/<year>.json.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) Path(year int, countryCode string) string {
	return filepath.Join(s.dir, strings.ToUpper(countryCode), fmt.Sprintf("%d.json", year))
}

func (s *FileSource) GetHolidays(_ context.Context, year int, countryCode string) ([]Holiday, error) {
	fileYear, holidays, err := ParseCalendarJSON(s.Path(year, countryCode))
	if err != nil {
		return nil, err
	}
	if fileYear != 0 && fileYear != year {
		return nil, fmt.Errorf("calendar %s is for year %d, not %d", s.Path(year, countryCode), fileYear, year)
	}
	return holidays, nil
}

func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// CountWeekendDays counts Saturdays and Sundays in [start, end].
func CountWeekendDays(start, end time.Time) int {
	count := 0
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if IsWeekend(date) {
			count++
		}
	}
	return count
}
