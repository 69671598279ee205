package api

import (
	"fmt"
	"time"

	"vacation-planner/internal/models"
)

const dateLayout = "2006-01-02"

type registerRequest struct {
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name"`
	Username         string `json:"username" binding:"required"`
	Password         string `json:"password" binding:"required,min=6"`
	CountryCode      string `json:"country_code" binding:"required,len=2"`
	StartWorkingHour int    `json:"start_working_hour" binding:"min=0,max=23"`
	EndWorkingHour   int    `json:"end_working_hour" binding:"min=0,max=23"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type vacationRequestInput struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Comment   string `json:"comment"`
}

func (in vacationRequestInput) dates() (time.Time, time.Time, error) {
	return parseRange(in.StartDate, in.EndDate)
}

func parseRange(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startValue)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endValue)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date must be YYYY-MM-DD")
	}
	return start, end, nil
}

type vacationRequestResponse struct {
	ID           string `json:"request_id"`
	Username     string `json:"username"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Status       string `json:"status"`
	Comment      string `json:"comment"`
	NumberOfDays int    `json:"number_of_days"`
}

func toVacationRequestResponse(r models.VacationRequest) vacationRequestResponse {
	return vacationRequestResponse{
		ID:           r.ID.String(),
		Username:     r.Username,
		StartDate:    r.StartDate.Format(dateLayout),
		EndDate:      r.EndDate.Format(dateLayout),
		Status:       r.Status.String(),
		Comment:      r.Comment,
		NumberOfDays: r.NumberOfDays,
	}
}

func toVacationRequestResponses(requests []models.VacationRequest) []vacationRequestResponse {
	out := make([]vacationRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, toVacationRequestResponse(r))
	}
	return out
}

type userResponse struct {
	ID                           string                    `json:"id"`
	FirstName                    string                    `json:"first_name"`
	LastName                     string                    `json:"last_name"`
	Username                     string                    `json:"username"`
	CountryCode                  string                    `json:"country_code"`
	Role                         string                    `json:"role"`
	StartWorkingHour             int                       `json:"start_working_hour"`
	EndWorkingHour               int                       `json:"end_working_hour"`
	AvailableVacationDaysPerYear int                       `json:"available_vacation_days_per_year"`
	VacationRequests             []vacationRequestResponse `json:"vacation_requests"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:                           u.ID.String(),
		FirstName:                    u.FirstName,
		LastName:                     u.LastName,
		Username:                     u.Username,
		CountryCode:                  u.CountryCode,
		Role:                         u.Role,
		StartWorkingHour:             u.StartWorkingHour,
		EndWorkingHour:               u.EndWorkingHour,
		AvailableVacationDaysPerYear: u.AvailableVacationDaysPerYear,
		VacationRequests:             toVacationRequestResponses(u.VacationRequests),
	}
}

type holidayResponse struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
	CountryCode string `json:"country_code"`
}
