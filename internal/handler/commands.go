package handler

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	args := message.CommandArguments()

	switch message.Command() {
	case "start":
		h.sendStartMessage(message)
	case "help":
		h.sendHelpMessage(message)
	case "helpadmin":
		h.sendAdminHelpMessage(message)

	case "register":
		h.startRegistration(ctx, message)
	case "cancel":
		h.cancelRegistration(message)
	case "link":
		h.linkAccount(ctx, message, args)
	case "unlink":
		h.unlinkAccount(ctx, message)
	case "myprofile":
		h.showProfile(ctx, message)
	case "deleteprofile":
		h.deleteProfile(ctx, message)

	case "holidays":
		h.showHolidays(ctx, message, args)
	case "available":
		h.showAvailableDays(ctx, message, args)
	case "vacation":
		h.addVacation(ctx, message, args)
	case "myvacations":
		h.showMyVacations(ctx, message)
	case "editvacation":
		h.editVacation(ctx, message, args)
	case "cancelvacation":
		h.cancelVacation(ctx, message, args)

	case "pending":
		h.showPending(ctx, message)
	case "allrequests":
		h.showAllRequests(ctx, message)
	case "approve":
		h.approveRequest(ctx, message, args)
	case "reject":
		h.rejectRequest(ctx, message, args)
	case "allusers":
		h.showAllUsers(ctx, message)
	case "admins":
		h.showAdmins(ctx, message)
	case "stats":
		h.showStats(ctx, message)
	case "promote":
		h.promoteToAdmin(ctx, message, args)
	case "demote":
		h.demoteToUser(ctx, message, args)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.send(message.Chat.ID, "❌ Unknown command. Use /help to see the list of commands.")
}

const helpText = `📋 Available commands:

👤 Account:
/register - Create an account step by step
/link username password - Link this chat to an existing account
/unlink - Unlink this chat
/myprofile - Show my profile
/deleteprofile - Delete my account

🏖️ Vacations:
/holidays [year] - National holidays of my country
/available start end - Days available in a range
    Example: /available 01.07.2026 14.07.2026
/vacation start end [comment] - Request a vacation
    Example: /vacation 01.07.2026 14.07.2026 Summer trip
/myvacations - My vacation requests
/editvacation id start end [comment] - Change a request (goes back to review)
/cancelvacation id - Delete a request

💡 Dates: DD.MM.YYYY or YYYY-MM-DD.
If a request exceeds your available days, its end date is moved earlier.`

const adminHelpText = `👑 Administrator commands:

/pending - Requests waiting for review, with approve/reject buttons
/allrequests - All requests by start date
/approve id - Approve a request
/reject id - Reject a request
/allusers - All users
/admins - All administrators
/stats - User statistics
/promote username - Make a user an administrator
/demote username - Make an administrator a regular user`

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	h.send(message.Chat.ID, "👋 Welcome to the vacation planner bot!\n\n"+helpText)
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	h.send(message.Chat.ID, helpText)
}

func (h *Handler) sendAdminHelpMessage(message *tgbotapi.Message) {
	h.send(message.Chat.ID, adminHelpText)
}
