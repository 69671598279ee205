package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"vacation-planner/internal/models"
	"vacation-planner/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackConfirmDelete = "confirm_delete"
	callbackCancelDelete  = "cancel_delete"
)

type registrationStep int

const (
	stepUsername registrationStep = iota
	stepPassword
	stepFirstName
	stepLastName
	stepCountry
	stepVacationDays
)

type registrationDraft struct {
	step  registrationStep
	input service.RegisterUserInput
}

func (h *Handler) startRegistration(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	user, err := h.userService.GetByChatID(ctx, chatID)
	if err != nil {
		h.send(chatID, "❌ Something went wrong, please try again later.")
		return
	}
	if user != nil {
		h.send(chatID, "ℹ️ This chat is already linked to @"+user.Username+". Use /unlink first.")
		return
	}

	draft := &registrationDraft{
		step: stepUsername,
		input: service.RegisterUserInput{
			StartWorkingHour: 9,
			EndWorkingHour:   17,
		},
	}
	if message.From != nil {
		draft.input.Username = message.From.UserName
		draft.input.FirstName = message.From.FirstName
		draft.input.LastName = message.From.LastName
	}
	h.registrations[chatID] = draft

	prompt := "📝 Registration. Send /cancel at any time to stop.\n\n👤 Choose a username:"
	if draft.input.Username != "" {
		prompt += "\n(send - to use @" + draft.input.Username + ")"
	}
	h.send(chatID, prompt)
}

func (h *Handler) cancelRegistration(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if _, ok := h.registrations[chatID]; !ok {
		h.send(chatID, "ℹ️ Nothing to cancel.")
		return
	}
	delete(h.registrations, chatID)
	h.send(chatID, "❌ Registration cancelled.")
}

func (h *Handler) handleRegistrationStep(ctx context.Context, message *tgbotapi.Message, draft *registrationDraft) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)
	keep := text == "-"

	switch draft.step {
	case stepUsername:
		if !keep {
			draft.input.Username = strings.TrimPrefix(text, "@")
		}
		if draft.input.Username == "" {
			h.send(chatID, "❌ Username cannot be empty. Try again:")
			return
		}
		draft.step = stepPassword
		h.send(chatID, "🔑 Choose a password (the message will be deleted):")

	case stepPassword:
		h.request(tgbotapi.NewDeleteMessage(chatID, message.MessageID))
		if len(text) < 6 {
			h.send(chatID, "❌ The password must have at least 6 characters. Try again:")
			return
		}
		draft.input.Password = text
		draft.step = stepFirstName
		h.send(chatID, h.promptWithDefault("📛 Your first name:", draft.input.FirstName))

	case stepFirstName:
		if !keep {
			draft.input.FirstName = text
		}
		if draft.input.FirstName == "" {
			h.send(chatID, "❌ First name cannot be empty. Try again:")
			return
		}
		draft.step = stepLastName
		h.send(chatID, h.promptWithDefault("📛 Your last name:", draft.input.LastName))

	case stepLastName:
		if !keep {
			draft.input.LastName = text
		}
		draft.step = stepCountry
		h.send(chatID, "🌍 Your country code, two letters (for example US, RO, DE):")

	case stepCountry:
		if len(text) != 2 {
			h.send(chatID, "❌ Please send a two letter country code:")
			return
		}
		draft.input.CountryCode = strings.ToUpper(text)
		draft.step = stepVacationDays
		h.send(chatID, "🏖 How many vacation days do you have? (send - for the default of 25)")

	case stepVacationDays:
		if !keep {
			days, err := strconv.Atoi(text)
			if err != nil || days < 0 {
				h.send(chatID, "❌ Please send a non-negative number or -:")
				return
			}
			draft.input.AvailableVacationDaysPerYear = days
		}
		h.completeRegistration(ctx, chatID, draft)
	}
}

func (h *Handler) promptWithDefault(prompt, current string) string {
	if current == "" {
		return prompt
	}
	return prompt + "\n(send - to keep \"" + current + "\")"
}

func (h *Handler) completeRegistration(ctx context.Context, chatID int64, draft *registrationDraft) {
	delete(h.registrations, chatID)

	if _, err := h.userService.CreateUser(ctx, draft.input); err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			h.send(chatID, "❌ The username "+draft.input.Username+" is already taken. Start again with /register.")
		case errors.Is(err, service.ErrInvalidUserInput):
			h.send(chatID, "❌ "+err.Error()+"\nStart again with /register.")
		default:
			h.logger.WithError(err).Error("Registration failed")
			h.send(chatID, "❌ Registration failed, please try again later.")
		}
		return
	}

	user, err := h.userService.LinkChat(ctx, draft.input.Username, draft.input.Password, chatID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to link new account")
		h.send(chatID, "✅ Account created, but linking failed. Use /link "+draft.input.Username+" password.")
		return
	}

	h.send(chatID, "✅ Registration complete!\n\n"+h.userService.FormatUserInfo(user))
}

func (h *Handler) linkAccount(ctx context.Context, message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID
	// The password never stays in the chat history.
	h.request(tgbotapi.NewDeleteMessage(chatID, message.MessageID))

	parts := strings.Fields(args)
	if len(parts) != 2 {
		h.send(chatID, "❌ Usage: /link username password")
		return
	}

	user, err := h.userService.LinkChat(ctx, parts[0], parts[1], chatID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.send(chatID, "❌ Wrong username or password.")
			return
		}
		h.logger.WithError(err).Error("Failed to link chat")
		h.send(chatID, "❌ Failed to link the account.")
		return
	}
	h.send(chatID, "✅ Chat linked to @"+user.Username+".")
}

func (h *Handler) unlinkAccount(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if err := h.userService.UnlinkChat(ctx, chatID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.send(chatID, "ℹ️ This chat is not linked to an account.")
			return
		}
		h.send(chatID, "❌ Failed to unlink: "+err.Error())
		return
	}
	h.send(chatID, "✅ Chat unlinked.")
}

func (h *Handler) showProfile(ctx context.Context, message *tgbotapi.Message) {
	user := h.currentUser(ctx, message.Chat.ID)
	if user == nil {
		return
	}
	h.send(message.Chat.ID, h.userService.FormatUserInfo(user))
}

func (h *Handler) deleteProfile(ctx context.Context, message *tgbotapi.Message) {
	user := h.currentUser(ctx, message.Chat.ID)
	if user == nil {
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID,
		"⚠️ Delete account @"+user.Username+" and all of its vacation requests?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, delete", callbackConfirmDelete),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", callbackCancelDelete),
		),
	)
	h.sendMessage(msg)
}

func (h *Handler) confirmDeleteProfile(ctx context.Context, chatID int64) {
	user := h.currentUser(ctx, chatID)
	if user == nil {
		return
	}
	if err := h.userService.Delete(ctx, user); err != nil {
		h.logger.WithError(err).WithField("username", user.Username).Error("Failed to delete user")
		h.send(chatID, "❌ Failed to delete the account.")
		return
	}
	h.send(chatID, "✅ Account @"+user.Username+" deleted.")
}

func displayName(user *models.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return "@" + user.Username
	}
	return name + " (@" + user.Username + ")"
}
