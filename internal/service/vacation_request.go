package service

import (
	"context"
	"time"

	"vacation-planner/internal/metrics"
	"vacation-planner/internal/models"
	"vacation-planner/pkg/weekends"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserDirectory loads and persists users together with their requests.
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, user *models.User) error
}

type HolidaySource interface {
	GetHolidays(ctx context.Context, year int, countryCode string) ([]models.NationalHoliday, error)
}

type RequestStore interface {
	Save(ctx context.Context, request *models.VacationRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.VacationRequest, error)
	GetAll(ctx context.Context) ([]models.VacationRequest, error)
	GetByUsername(ctx context.Context, username string) ([]models.VacationRequest, error)
	GetPending(ctx context.Context) ([]models.VacationRequest, error)
}

// VacationRequestService does the vacation day accounting and owns the request lifecycle.
type VacationRequestService struct {
	users    UserDirectory
	holidays HolidaySource
	requests RequestStore
	locks    *userLocks
	logger   logrus.FieldLogger
}

func NewVacationRequestService(
	users UserDirectory,
	holidays HolidaySource,
	requests RequestStore,
	logger logrus.FieldLogger,
) *VacationRequestService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &VacationRequestService{
		users:    users,
		holidays: holidays,
		requests: requests,
		locks:    newUserLocks(),
		logger:   logger,
	}
}

// CalculateWeekendDaysCount counts Saturdays and Sundays in [start, end].
func (s *VacationRequestService) CalculateWeekendDaysCount(start, end time.Time) int {
	return weekends.CountWeekendDays(models.DateOnly(start), models.DateOnly(end))
}

// CalculateTotalVacationDaysUsed sums the inclusive overlap of the user's approved
// requests with [start, end]. Only requests starting in start's year or ending in
// end's year are considered.
func (s *VacationRequestService) CalculateTotalVacationDaysUsed(user *models.User, start, end time.Time) int {
	start, end = models.DateOnly(start), models.DateOnly(end)

	used := 0
	for _, r := range user.VacationRequests {
		rStart, rEnd := models.DateOnly(r.StartDate), models.DateOnly(r.EndDate)

		if rStart.Year() != start.Year() && rEnd.Year() != end.Year() {
			continue
		}
		if rEnd.Before(start) || rStart.After(end) {
			continue
		}
		if r.Status != models.StatusApproved {
			continue
		}

		overlapStart := rStart
		if start.After(overlapStart) {
			overlapStart = start
		}
		overlapEnd := rEnd
		if end.Before(overlapEnd) {
			overlapEnd = end
		}
		used += models.DaysBetween(overlapStart, overlapEnd) + 1
	}
	return used
}

// CalculateAvailableVacationDaysInDateRange returns the user's budget left after
// approved usage and the working days of [start, end]. Any failure yields 0.
func (s *VacationRequestService) CalculateAvailableVacationDaysInDateRange(ctx context.Context, username string, start, end time.Time) int {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.logger.WithError(err).WithField("username", username).Error("Failed to load user")
		return 0
	}
	if user == nil {
		s.logger.WithField("username", username).Warn("User not found")
		return 0
	}
	return s.availableOrZero(ctx, user, start, end)
}

func (s *VacationRequestService) availableOrZero(ctx context.Context, user *models.User, start, end time.Time) int {
	available, err := s.availableVacationDays(ctx, user, start, end)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"username": user.Username,
			"start":    start.Format("2006-01-02"),
			"end":      end.Format("2006-01-02"),
		}).Error("Failed to calculate available vacation days")
		return 0
	}
	return available
}

func (s *VacationRequestService) availableVacationDays(ctx context.Context, user *models.User, start, end time.Time) (int, error) {
	start, end = models.DateOnly(start), models.DateOnly(end)

	used := s.CalculateTotalVacationDaysUsed(user, start, end)

	holidays, err := s.holidays.GetHolidays(ctx, start.Year(), user.CountryCode)
	if err != nil {
		return 0, err
	}
	holidaysInRange := 0
	for _, h := range holidays {
		if h.InRange(start, end) {
			holidaysInRange++
		}
	}

	weekendDays := s.CalculateWeekendDaysCount(start, end)
	span := models.DaysBetween(start, end) + 1

	return user.AvailableVacationDaysPerYear - used - (span - weekendDays - holidaysInRange), nil
}

// clip shortens the requested range when it exceeds the available days.
func clip(start, end time.Time, requestedDays, available int) (time.Time, int, bool) {
	if requestedDays > available || available < 0 {
		requestedDays += available
		return start.AddDate(0, 0, requestedDays), requestedDays, true
	}
	return end, requestedDays, false
}

// CreateVacationRequest adds a pending request and returns its id. uuid.Nil means
// the user does not exist or the range is empty. The stored end date may be
// earlier than requested when the budget is exceeded.
func (s *VacationRequestService) CreateVacationRequest(ctx context.Context, username string, start, end time.Time, comment string) (uuid.UUID, error) {
	unlock := s.locks.lock(username)
	defer unlock()

	logger := s.logger.WithField("username", username)
	start, end = models.DateOnly(start), models.DateOnly(end)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return uuid.Nil, err
	}
	if user == nil {
		logger.Warn("Cannot create vacation request: user not found")
		return uuid.Nil, nil
	}

	available := s.availableOrZero(ctx, user, start, end)

	requestedDays := models.DaysBetween(start, end)
	if requestedDays == 0 {
		logger.Warn("Cannot create vacation request: start and end dates are the same")
		return uuid.Nil, nil
	}

	requestedEnd := end
	end, requestedDays, clipped := clip(start, end, requestedDays, available)
	if clipped {
		metrics.IncrementClipped()
		logger.WithFields(logrus.Fields{
			"available":     available,
			"requested_end": requestedEnd.Format("2006-01-02"),
			"granted_end":   end.Format("2006-01-02"),
		}).Info("Vacation request adjusted to available days")
	}

	user.VacationRequests = append(user.VacationRequests, models.VacationRequest{
		UserID:       user.ID,
		Username:     user.Username,
		StartDate:    start,
		EndDate:      end,
		Status:       models.StatusPending,
		Comment:      comment,
		NumberOfDays: requestedDays,
	})

	if err := s.users.Save(ctx, user); err != nil {
		return uuid.Nil, err
	}
	created := &user.VacationRequests[len(user.VacationRequests)-1]
	if err := s.requests.Save(ctx, created); err != nil {
		return uuid.Nil, err
	}

	metrics.IncrementCreated()
	logger.WithFields(logrus.Fields{
		"request_id": created.ID,
		"days":       created.NumberOfDays,
	}).Info("Vacation request created")

	return created.ID, nil
}

// ModifyVacationRequest rewrites an existing request with the same budget rules as creation.
func (s *VacationRequestService) ModifyVacationRequest(
	ctx context.Context,
	username string,
	id uuid.UUID,
	start, end time.Time,
	status models.Status,
	comment string,
) (bool, error) {
	unlock := s.locks.lock(username)
	defer unlock()

	logger := s.logger.WithFields(logrus.Fields{"username": username, "request_id": id})
	start, end = models.DateOnly(start), models.DateOnly(end)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if user == nil {
		logger.Warn("Cannot modify vacation request: user not found")
		return false, nil
	}
	request := user.FindRequest(id)
	if request == nil {
		logger.Warn("Cannot modify vacation request: request not found")
		return false, nil
	}

	available := s.availableOrZero(ctx, user, start, end)

	requestedDays := models.DaysBetween(start, end)
	if requestedDays == 0 {
		logger.Warn("Cannot modify vacation request: start and end dates are the same")
		return false, nil
	}

	end, requestedDays, clipped := clip(start, end, requestedDays, available)
	if clipped {
		metrics.IncrementClipped()
		logger.WithField("available", available).Info("Vacation request adjusted to available days")
	}

	request.StartDate = start
	request.EndDate = end
	request.Status = status
	request.Comment = comment
	request.NumberOfDays = requestedDays

	if err := s.users.Save(ctx, user); err != nil {
		return false, err
	}

	logger.Info("Vacation request modified")
	return true, nil
}

func (s *VacationRequestService) ChangeVacationRequestStatus(ctx context.Context, username string, id uuid.UUID, status models.Status) (bool, error) {
	unlock := s.locks.lock(username)
	defer unlock()

	logger := s.logger.WithFields(logrus.Fields{"username": username, "request_id": id})

	if !status.IsValid() {
		logger.Warnf("Cannot change vacation request status: unknown status %d", int(status))
		return false, nil
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if user == nil {
		logger.Warn("Cannot change vacation request status: user not found")
		return false, nil
	}
	request := user.FindRequest(id)
	if request == nil {
		logger.Warn("Cannot change vacation request status: request not found")
		return false, nil
	}

	request.Status = status
	if err := s.users.Save(ctx, user); err != nil {
		return false, err
	}

	metrics.ObserveStatusChange(status.String())
	logger.WithField("status", status.String()).Info("Vacation request status changed")
	return true, nil
}

func (s *VacationRequestService) DeleteVacationRequest(ctx context.Context, username string, id uuid.UUID) (bool, error) {
	unlock := s.locks.lock(username)
	defer unlock()

	logger := s.logger.WithFields(logrus.Fields{"username": username, "request_id": id})

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if user == nil {
		logger.Warn("Cannot delete vacation request: user not found")
		return false, nil
	}
	if !user.RemoveRequest(id) {
		logger.Warn("Cannot delete vacation request: request not found")
		return false, nil
	}

	if err := s.users.Save(ctx, user); err != nil {
		return false, err
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		return false, err
	}

	logger.Info("Vacation request deleted")
	return true, nil
}

// GetByID returns nil when no request has the id.
func (s *VacationRequestService) GetByID(ctx context.Context, id uuid.UUID) (*models.VacationRequest, error) {
	return s.requests.GetByID(ctx, id)
}

// GetAll returns every request ordered by start date.
func (s *VacationRequestService) GetAll(ctx context.Context) ([]models.VacationRequest, error) {
	return s.requests.GetAll(ctx)
}

// GetByUsername returns the user's requests in creation order, or nil when the user is absent.
func (s *VacationRequestService) GetByUsername(ctx context.Context, username string) ([]models.VacationRequest, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}
	return user.VacationRequests, nil
}

// GetVacationRequests is GetByUsername with an empty list for unknown users.
func (s *VacationRequestService) GetVacationRequests(ctx context.Context, username string) ([]models.VacationRequest, error) {
	requests, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.VacationRequest{}
	}
	return requests, nil
}

func (s *VacationRequestService) GetPending(ctx context.Context) ([]models.VacationRequest, error) {
	return s.requests.GetPending(ctx)
}

// AvailableVacationDaysForYear returns the budget left after approved days of the
// calendar year, never below zero. ok is false when the user does not exist.
func (s *VacationRequestService) AvailableVacationDaysForYear(ctx context.Context, username string, year int) (int, bool, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, false, err
	}
	if user == nil {
		return 0, false, nil
	}

	used := s.CalculateTotalVacationDaysUsed(user,
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))

	return max(0, user.AvailableVacationDaysPerYear-used), true, nil
}

// Holidays returns the national holidays of the user's country for a year.
func (s *VacationRequestService) Holidays(ctx context.Context, username string, year int) ([]models.NationalHoliday, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.holidays.GetHolidays(ctx, year, user.CountryCode)
}
