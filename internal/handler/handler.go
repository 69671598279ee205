package handler

import (
	"context"
	"strings"

	"vacation-planner/internal/models"
	"vacation-planner/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender is the part of the bot API the handler talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot             Sender
	userService     *service.UserService
	vacationService *service.VacationRequestService
	registrations   map[int64]*registrationDraft
	logger          logrus.FieldLogger
}

func NewHandler(
	bot Sender,
	userService *service.UserService,
	vacationService *service.VacationRequestService,
	logger logrus.FieldLogger,
) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		bot:             bot,
		userService:     userService,
		vacationService: vacationService,
		registrations:   make(map[int64]*registrationDraft),
		logger:          logger,
	}
}

// HandleUpdates processes updates one by one until the channel closes or ctx is done.
func (h *Handler) HandleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.CallbackQuery != nil {
				h.handleCallbackQuery(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *Handler) send(chatID int64, text string) {
	h.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (h *Handler) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.WithError(err).WithField("chat_id", msg.ChatID).Warn("Failed to send message")
	}
}

func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.WithError(err).Warn("Telegram request failed")
	}
}

func (h *Handler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Buttons are single use.
	h.request(tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}))

	switch {
	case strings.HasPrefix(data, callbackApprove):
		h.setRequestStatus(ctx, chatID, strings.TrimPrefix(data, callbackApprove), models.StatusApproved)
	case strings.HasPrefix(data, callbackReject):
		h.setRequestStatus(ctx, chatID, strings.TrimPrefix(data, callbackReject), models.StatusRejected)
	case data == callbackConfirmDelete:
		h.confirmDeleteProfile(ctx, chatID)
	case data == callbackCancelDelete:
		h.send(chatID, "❌ Profile deletion cancelled.")
	}

	h.request(tgbotapi.NewCallback(callback.ID, ""))
}

func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	h.logger.WithField("telegram_user", username).Debugf("Message: %s", redact(message.Text))

	chatID := message.Chat.ID

	if draft, ok := h.registrations[chatID]; ok && !message.IsCommand() {
		h.handleRegistrationStep(ctx, message, draft)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	h.send(chatID, "🤖 Use /help to see what I can do.")
}

// redact hides arguments of commands that carry a password.
func redact(text string) string {
	if strings.HasPrefix(text, "/link") {
		return "/link ***"
	}
	return text
}

// currentUser returns the account linked to the chat or tells the chat how to link one.
func (h *Handler) currentUser(ctx context.Context, chatID int64) *models.User {
	user, err := h.userService.GetByChatID(ctx, chatID)
	if err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to load user")
		h.send(chatID, "❌ Something went wrong, please try again later.")
		return nil
	}
	if user == nil {
		h.send(chatID, "❌ This chat is not linked to an account.\nUse /link username password or /register.")
		return nil
	}
	return user
}

func (h *Handler) requireAdmin(ctx context.Context, chatID int64) bool {
	isAdmin, err := h.userService.IsAdmin(ctx, chatID)
	if err != nil {
		h.send(chatID, "❌ Failed to check permissions: "+err.Error())
		return false
	}
	if !isAdmin {
		h.send(chatID, "❌ Access denied. This command is for administrators only.")
		return false
	}
	return true
}
