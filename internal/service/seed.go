package service

import (
	"context"
	"time"

	"vacation-planner/internal/models"
)

type seedRequest struct {
	start, end time.Time
	comment    string
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// SeedDemoData fills an empty database with demo users and requests.
// It does nothing when any user exists.
func (s *UserService) SeedDemoData(ctx context.Context, engine *VacationRequestService) error {
	total, _, err := s.repo.GetStats(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	users := []RegisterUserInput{
		{FirstName: "John", LastName: "Doe", Username: "johndoe", Password: "password", CountryCode: "US", Role: models.RoleUser, StartWorkingHour: 9, EndWorkingHour: 17},
		{FirstName: "Jane", LastName: "Doe", Username: "janedoe", Password: "password", CountryCode: "US", Role: models.RoleUser, StartWorkingHour: 9, EndWorkingHour: 17},
		{FirstName: "Madalin", LastName: "Frincu", Username: "madalinfr", Password: "password", CountryCode: "RO", Role: models.RoleAdmin, StartWorkingHour: 9, EndWorkingHour: 17},
	}
	for _, in := range users {
		if _, err := s.CreateUser(ctx, in); err != nil {
			return err
		}
	}

	requests := map[string][]seedRequest{
		"johndoe": {
			{start: day(2022, 1, 15), end: day(2022, 1, 20)},
			{start: day(2022, 4, 11), end: day(2022, 4, 13)},
			{start: day(2022, 8, 5), end: day(2022, 8, 13), comment: "Summer holiday vacation"},
		},
		"janedoe": {
			{start: day(2023, 3, 25), end: day(2023, 4, 1), comment: "Going on a camping trip with friends"},
			{start: day(2023, 5, 10), end: day(2023, 5, 14), comment: "Taking a mental health break"},
		},
	}
	for _, username := range []string{"johndoe", "janedoe"} {
		for _, r := range requests[username] {
			if _, err := engine.CreateVacationRequest(ctx, username, r.start, r.end, r.comment); err != nil {
				return err
			}
		}
	}

	s.logger.Info("Demo data seeded")
	return nil
}
