package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vacation-planner/internal/models"
	"vacation-planner/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

const (
	callbackApprove = "approve:"
	callbackReject  = "reject:"
)

func (h *Handler) showPending(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(ctx, chatID) {
		return
	}

	pending, err := h.vacationService.GetPending(ctx)
	if err != nil {
		h.send(chatID, "❌ Failed to load pending requests.")
		return
	}
	if len(pending) == 0 {
		h.send(chatID, "✅ No requests waiting for review.")
		return
	}

	h.send(chatID, fmt.Sprintf("⏳ Requests waiting for review: %d", len(pending)))
	for _, r := range pending {
		msg := tgbotapi.NewMessage(chatID, formatRequest(r, true))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Approve", callbackApprove+r.ID.String()),
				tgbotapi.NewInlineKeyboardButtonData("❌ Reject", callbackReject+r.ID.String()),
			),
		)
		h.sendMessage(msg)
	}
}

func (h *Handler) showAllRequests(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(ctx, chatID) {
		return
	}

	requests, err := h.vacationService.GetAll(ctx)
	if err != nil {
		h.send(chatID, "❌ Failed to load requests.")
		return
	}
	if len(requests) == 0 {
		h.send(chatID, "📭 No vacation requests yet.")
		return
	}
	h.send(chatID, formatRequests("📋 All vacation requests:", requests, true))
}

func (h *Handler) approveRequest(ctx context.Context, message *tgbotapi.Message, args string) {
	h.setRequestStatus(ctx, message.Chat.ID, args, models.StatusApproved)
}

func (h *Handler) rejectRequest(ctx context.Context, message *tgbotapi.Message, args string) {
	h.setRequestStatus(ctx, message.Chat.ID, args, models.StatusRejected)
}

func (h *Handler) setRequestStatus(ctx context.Context, chatID int64, value string, status models.Status) {
	if !h.requireAdmin(ctx, chatID) {
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		h.send(chatID, "❌ Invalid request id.")
		return
	}
	request, err := h.vacationService.GetByID(ctx, id)
	if err != nil {
		h.send(chatID, "❌ Failed to load the request.")
		return
	}
	if request == nil {
		h.send(chatID, "❌ Request not found.")
		return
	}

	ok, err := h.vacationService.ChangeVacationRequestStatus(ctx, request.Username, id, status)
	if err != nil || !ok {
		h.send(chatID, "❌ Failed to update the request.")
		return
	}
	request.Status = status

	h.send(chatID, fmt.Sprintf("%s Request of @%s is now %s.", statusEmoji(status), request.Username, status))
	h.notifyOwner(ctx, request)
}

func (h *Handler) notifyOwner(ctx context.Context, request *models.VacationRequest) {
	owner, err := h.userService.GetByUsername(ctx, request.Username)
	if err != nil || owner == nil || owner.ChatID == nil {
		return
	}
	h.send(*owner.ChatID, "📬 Your vacation request was updated:\n\n"+formatRequest(*request, false))
}

func (h *Handler) notifyAdmins(ctx context.Context, text string) {
	admins, err := h.userService.GetAdmins(ctx)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load administrators")
		return
	}
	for _, admin := range admins {
		if admin.ChatID != nil {
			h.send(*admin.ChatID, text)
		}
	}
}

func (h *Handler) showAllUsers(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(ctx, chatID) {
		return
	}

	text, err := h.userService.FormatAllUsers(ctx)
	if err != nil {
		h.send(chatID, "❌ Failed to load users: "+err.Error())
		return
	}
	h.send(chatID, text)
}

func (h *Handler) showAdmins(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(ctx, chatID) {
		return
	}

	admins, err := h.userService.GetAdmins(ctx)
	if err != nil {
		h.send(chatID, "❌ Failed to load administrators: "+err.Error())
		return
	}

	lines := []string{"👑 Administrators:", ""}
	for i, admin := range admins {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, displayName(admin)))
	}
	h.send(chatID, strings.Join(lines, "\n"))
}

func (h *Handler) showStats(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !h.requireAdmin(ctx, chatID) {
		return
	}

	total, admins, err := h.userService.GetStats(ctx)
	if err != nil {
		h.send(chatID, "❌ Failed to load statistics: "+err.Error())
		return
	}
	pending, err := h.vacationService.GetPending(ctx)
	if err != nil {
		h.send(chatID, "❌ Failed to load statistics: "+err.Error())
		return
	}

	h.send(chatID, fmt.Sprintf("📊 Statistics:\n\n👥 Users: %d\n👑 Administrators: %d\n👤 Regular users: %d\n⏳ Pending requests: %d",
		total, admins, total-admins, len(pending)))
}

func (h *Handler) promoteToAdmin(ctx context.Context, message *tgbotapi.Message, args string) {
	h.changeRole(ctx, message.Chat.ID, args, models.RoleAdmin)
}

func (h *Handler) demoteToUser(ctx context.Context, message *tgbotapi.Message, args string) {
	h.changeRole(ctx, message.Chat.ID, args, models.RoleUser)
}

func (h *Handler) changeRole(ctx context.Context, chatID int64, args, role string) {
	if !h.requireAdmin(ctx, chatID) {
		return
	}

	username := strings.TrimPrefix(strings.TrimSpace(args), "@")
	if username == "" {
		h.send(chatID, "❌ Please specify a username.")
		return
	}

	if err := h.userService.SetRole(ctx, username, role); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.send(chatID, "❌ User @"+username+" not found.")
			return
		}
		h.send(chatID, "❌ Failed to change the role: "+err.Error())
		return
	}
	h.send(chatID, fmt.Sprintf("✅ @%s is now %s.", username, role))
}
