package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vacation-planner/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

const displayDate = "02.01.2006"

var dateLayouts = []string{"02.01.2006", "2006-01-02", "02-01-2006"}

// parseDate accepts DD.MM.YYYY, YYYY-MM-DD, DD-MM-YYYY and DD.MM (current year).
func parseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse("02.01", value); err == nil {
		return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use DD.MM.YYYY", value)
}

// parseRange reads "start end [rest...]" from command arguments.
func parseRange(args string) (time.Time, time.Time, string, error) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		return time.Time{}, time.Time{}, "", fmt.Errorf("start and end dates are required")
	}
	now := time.Now()
	start, err := parseDate(parts[0], now)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	end, err := parseDate(parts[1], now)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, "", fmt.Errorf("end date is before start date")
	}
	return start, end, strings.Join(parts[2:], " "), nil
}

func statusEmoji(status models.Status) string {
	switch status {
	case models.StatusApproved:
		return "✅"
	case models.StatusRejected:
		return "❌"
	default:
		return "⏳"
	}
}

func formatRequest(r models.VacationRequest, withOwner bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s - %s (%d days) %s",
		statusEmoji(r.Status),
		r.StartDate.Format(displayDate),
		r.EndDate.Format(displayDate),
		r.NumberOfDays,
		r.Status)
	if withOwner {
		fmt.Fprintf(&sb, "\n   👤 @%s", r.Username)
	}
	if r.Comment != "" {
		fmt.Fprintf(&sb, "\n   💬 %s", r.Comment)
	}
	fmt.Fprintf(&sb, "\n   🆔 %s", r.ID)
	return sb.String()
}

func formatRequests(title string, requests []models.VacationRequest, withOwner bool) string {
	lines := []string{title, ""}
	for _, r := range requests {
		lines = append(lines, formatRequest(r, withOwner), "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (h *Handler) showHolidays(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return
	}

	year := time.Now().Year()
	if args = strings.TrimSpace(args); args != "" {
		parsed, err := strconv.Atoi(args)
		if err != nil || parsed < 1900 || parsed > 2200 {
			h.send(chatID, "❌ Usage: /holidays [year]")
			return
		}
		year = parsed
	}

	holidays, err := h.vacationService.Holidays(ctx, user.Username, year)
	if err != nil {
		h.logger.WithError(err).WithField("country", user.CountryCode).Error("Failed to load holidays")
		h.send(chatID, "❌ Holidays are not available right now, please try again later.")
		return
	}
	if len(holidays) == 0 {
		h.send(chatID, fmt.Sprintf("📭 No holidays found for %s in %d.", user.CountryCode, year))
		return
	}

	lines := []string{fmt.Sprintf("🎉 Holidays in %s, %d:", user.CountryCode, year), ""}
	for _, holiday := range holidays {
		lines = append(lines, fmt.Sprintf("📅 %s - %s", holiday.Date.Format(displayDate), holiday.Name))
	}
	h.send(chatID, strings.Join(lines, "\n"))
}

func (h *Handler) showAvailableDays(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return
	}

	if strings.TrimSpace(args) == "" {
		year := time.Now().Year()
		days, _, err := h.vacationService.AvailableVacationDaysForYear(ctx, user.Username, year)
		if err != nil {
			h.send(chatID, "❌ Failed to calculate available days.")
			return
		}
		h.send(chatID, fmt.Sprintf("🏖 You have %d of %d vacation days left in %d.",
			days, user.AvailableVacationDaysPerYear, year))
		return
	}

	start, end, _, err := parseRange(args)
	if err != nil {
		h.send(chatID, "❌ "+err.Error()+"\nUsage: /available 01.07.2026 14.07.2026")
		return
	}

	days := h.vacationService.CalculateAvailableVacationDaysInDateRange(ctx, user.Username, start, end)
	h.send(chatID, fmt.Sprintf("📊 Taking %s - %s off leaves you %d vacation days.",
		start.Format(displayDate), end.Format(displayDate), days))
}

func (h *Handler) addVacation(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return
	}

	start, end, comment, err := parseRange(args)
	if err != nil {
		h.send(chatID, "❌ "+err.Error()+"\nUsage: /vacation 01.07.2026 14.07.2026 [comment]")
		return
	}

	id, err := h.vacationService.CreateVacationRequest(ctx, user.Username, start, end, comment)
	if err != nil {
		h.logger.WithError(err).WithField("username", user.Username).Error("Failed to create vacation request")
		h.send(chatID, "❌ Failed to create the request, please try again later.")
		return
	}
	if id == uuid.Nil {
		h.send(chatID, "❌ The request was not created. Start and end dates must differ.")
		return
	}

	created, err := h.vacationService.GetByID(ctx, id)
	if err != nil || created == nil {
		h.send(chatID, "✅ Vacation request created.\n🆔 "+id.String())
		return
	}

	text := "✅ Vacation request created and waiting for approval:\n\n" + formatRequest(*created, false)
	if !created.EndDate.Equal(end) {
		text += fmt.Sprintf("\n\n⚠️ The end date was adjusted from %s to match your available days.",
			end.Format(displayDate))
	}
	h.send(chatID, text)
	h.notifyAdmins(ctx, fmt.Sprintf("🆕 New vacation request from %s:\n\n%s",
		displayName(user), formatRequest(*created, false)))
}

func (h *Handler) showMyVacations(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return
	}

	requests, err := h.vacationService.GetVacationRequests(ctx, user.Username)
	if err != nil {
		h.send(chatID, "❌ Failed to load your requests.")
		return
	}
	if len(requests) == 0 {
		h.send(chatID, "📭 You have no vacation requests. Create one with /vacation.")
		return
	}
	h.send(chatID, formatRequests("🏖 Your vacation requests:", requests, false))
}

// ownRequest parses a request id and checks that the user owns it.
func (h *Handler) ownRequest(chatID int64, user *models.User, value string) *models.VacationRequest {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		h.send(chatID, "❌ Invalid request id.")
		return nil
	}
	request := user.FindRequest(id)
	if request == nil {
		h.send(chatID, "❌ Request not found.")
		return nil
	}
	return request
}

func (h *Handler) editVacation(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return
	}

	idArg, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	if idArg == "" {
		h.send(chatID, "❌ Usage: /editvacation id start end [comment]")
		return
	}
	request := h.ownRequest(chatID, user, idArg)
	if request == nil {
		return
	}

	start, end, comment, err := parseRange(rest)
	if err != nil {
		h.send(chatID, "❌ "+err.Error()+"\nUsage: /editvacation id start end [comment]")
		return
	}

	ok, err := h.vacationService.ModifyVacationRequest(ctx, user.Username, request.ID, start, end, models.StatusPending, comment)
	if err != nil {
		h.logger.WithError(err).Error("Failed to modify vacation request")
		h.send(chatID, "❌ Failed to change the request, please try again later.")
		return
	}
	if !ok {
		h.send(chatID, "❌ The request was not changed. Start and end dates must differ.")
		return
	}

	updated, err := h.vacationService.GetByID(ctx, request.ID)
	if err != nil || updated == nil {
		h.send(chatID, "✅ Vacation request updated.")
		return
	}
	h.send(chatID, "✅ Vacation request updated and sent for approval again:\n\n"+formatRequest(*updated, false))
}

func (h *Handler) cancelVacation(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return
	}
	if strings.TrimSpace(args) == "" {
		h.send(chatID, "❌ Usage: /cancelvacation id")
		return
	}
	request := h.ownRequest(chatID, user, args)
	if request == nil {
		return
	}

	ok, err := h.vacationService.DeleteVacationRequest(ctx, user.Username, request.ID)
	if err != nil || !ok {
		h.send(chatID, "❌ Failed to delete the request.")
		return
	}
	h.send(chatID, "🗑 Vacation request deleted.")
}
