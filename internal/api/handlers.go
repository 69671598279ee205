package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"vacation-planner/internal/models"
	"vacation-planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidUserInput):
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		failure(c, http.StatusConflict, "USERNAME_TAKEN", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		failure(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		failure(c, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		failure(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), service.RegisterUserInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Username:         req.Username,
		Password:         req.Password,
		CountryCode:      req.CountryCode,
		Role:             models.RoleUser,
		StartWorkingHour: req.StartWorkingHour,
		EndWorkingHour:   req.EndWorkingHour,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	success(c, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	token, err := h.tokens.GenerateToken(user.ID.String(), user.Username, user.Role)
	if err != nil {
		h.handleError(c, err)
		return
	}
	success(c, http.StatusOK, loginResponse{Token: token, Username: user.Username, Role: user.Role})
}

func (h *Handler) check(c *gin.Context) {
	claims := currentClaims(c)
	success(c, http.StatusOK, gin.H{
		"user_id":  claims.UserID,
		"username": claims.Username,
		"role":     claims.Role,
	})
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.GetAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	success(c, http.StatusOK, out)
}

// pathUser resolves :username for the caller, writing the failure response itself.
func (h *Handler) pathUser(c *gin.Context) (*models.User, bool) {
	username := c.Param("username")
	if !canAccess(c, username) {
		failure(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this user")
		return nil, false
	}

	user, err := h.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		h.handleError(c, err)
		return nil, false
	}
	if user == nil {
		failure(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return nil, false
	}
	return user, true
}

func (h *Handler) getUser(c *gin.Context) {
	user, ok := h.pathUser(c)
	if !ok {
		return
	}
	success(c, http.StatusOK, toUserResponse(user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	username := c.Param("username")
	if currentClaims(c).Username != username {
		failure(c, http.StatusForbidden, "FORBIDDEN", "Only the account owner can delete it")
		return
	}
	if err := h.users.DeleteWithPassword(c.Request.Context(), username, c.Query("password")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) userVacationRequests(c *gin.Context) {
	user, ok := h.pathUser(c)
	if !ok {
		return
	}
	requests, err := h.vacations.GetByUsername(c.Request.Context(), user.Username)
	if err != nil {
		h.handleError(c, err)
		return
	}
	success(c, http.StatusOK, toVacationRequestResponses(requests))
}

func (h *Handler) userVacationDays(c *gin.Context) {
	user, ok := h.pathUser(c)
	if !ok {
		return
	}
	year, ok := queryYear(c)
	if !ok {
		return
	}

	days, found, err := h.vacations.AvailableVacationDaysForYear(c.Request.Context(), user.Username, year)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !found {
		failure(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	success(c, http.StatusOK, gin.H{"username": user.Username, "year": year, "available_days": days})
}

func (h *Handler) userAvailableDays(c *gin.Context) {
	user, ok := h.pathUser(c)
	if !ok {
		return
	}
	start, end, err := parseRange(c.Query("start"), c.Query("end"))
	if err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	days := h.vacations.CalculateAvailableVacationDaysInDateRange(c.Request.Context(), user.Username, start, end)
	success(c, http.StatusOK, gin.H{
		"username":       user.Username,
		"start_date":     start.Format(dateLayout),
		"end_date":       end.Format(dateLayout),
		"available_days": days,
	})
}

func queryYear(c *gin.Context) (int, bool) {
	value := c.Query("year")
	if value == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(value)
	if err != nil || year < 1900 || year > 9999 {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", "year must be a four digit number")
		return 0, false
	}
	return year, true
}

func (h *Handler) holidays(c *gin.Context) {
	year, ok := queryYear(c)
	if !ok {
		return
	}

	holidays, err := h.vacations.Holidays(c.Request.Context(), currentClaims(c).Username, year)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.handleError(c, err)
			return
		}
		h.logger.WithError(err).Warn("Holiday lookup failed")
		failure(c, http.StatusBadGateway, "HOLIDAYS_UNAVAILABLE", "Holiday calendar is unavailable")
		return
	}

	out := make([]holidayResponse, 0, len(holidays))
	for _, hd := range holidays {
		out = append(out, holidayResponse{
			Name:        hd.Name,
			Date:        hd.Date.Format(dateLayout),
			Description: hd.Description,
			CountryCode: hd.CountryCode,
		})
	}
	success(c, http.StatusOK, out)
}

func (h *Handler) listVacationRequests(c *gin.Context) {
	requests, err := h.vacations.GetAll(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	success(c, http.StatusOK, toVacationRequestResponses(requests))
}

// pathRequest resolves :id for the caller, writing the failure response itself.
func (h *Handler) pathRequest(c *gin.Context) (*models.VacationRequest, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", "invalid request id")
		return nil, false
	}

	request, err := h.vacations.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return nil, false
	}
	if request == nil || !canAccess(c, request.Username) {
		failure(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Vacation request not found")
		return nil, false
	}
	return request, true
}

func (h *Handler) respondWithRequest(c *gin.Context, status int, id uuid.UUID) {
	request, err := h.vacations.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if request == nil {
		failure(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Vacation request not found")
		return
	}
	success(c, status, toVacationRequestResponse(*request))
}

func (h *Handler) createVacationRequest(c *gin.Context) {
	var req vacationRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	start, end, err := req.dates()
	if err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	id, err := h.vacations.CreateVacationRequest(c.Request.Context(), currentClaims(c).Username, start, end, req.Comment)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if id == uuid.Nil {
		failure(c, http.StatusUnprocessableEntity, "REQUEST_REJECTED", "Vacation request could not be created")
		return
	}
	h.respondWithRequest(c, http.StatusCreated, id)
}

func (h *Handler) getVacationRequest(c *gin.Context) {
	request, ok := h.pathRequest(c)
	if !ok {
		return
	}
	success(c, http.StatusOK, toVacationRequestResponse(*request))
}

func (h *Handler) updateVacationRequest(c *gin.Context) {
	request, ok := h.pathRequest(c)
	if !ok {
		return
	}
	if request.Username != currentClaims(c).Username {
		failure(c, http.StatusForbidden, "FORBIDDEN", "Only the owner can edit a vacation request")
		return
	}

	var req vacationRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	start, end, err := req.dates()
	if err != nil {
		failure(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	// Edited requests go back to review.
	modified, err := h.vacations.ModifyVacationRequest(c.Request.Context(), request.Username, request.ID,
		start, end, models.StatusPending, req.Comment)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !modified {
		failure(c, http.StatusUnprocessableEntity, "REQUEST_REJECTED", "Vacation request could not be modified")
		return
	}
	h.respondWithRequest(c, http.StatusOK, request.ID)
}

func (h *Handler) setStatus(status models.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		request, ok := h.pathRequest(c)
		if !ok {
			return
		}

		changed, err := h.vacations.ChangeVacationRequestStatus(c.Request.Context(), request.Username, request.ID, status)
		if err != nil {
			h.handleError(c, err)
			return
		}
		if !changed {
			failure(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Vacation request not found")
			return
		}
		h.respondWithRequest(c, http.StatusOK, request.ID)
	}
}

func (h *Handler) deleteVacationRequest(c *gin.Context) {
	request, ok := h.pathRequest(c)
	if !ok {
		return
	}

	deleted, err := h.vacations.DeleteVacationRequest(c.Request.Context(), request.Username, request.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !deleted {
		failure(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Vacation request not found")
		return
	}
	c.Status(http.StatusNoContent)
}
