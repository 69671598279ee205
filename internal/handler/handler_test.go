package handler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"vacation-planner/internal/database"
	"vacation-planner/internal/models"
	"vacation-planner/internal/repository"
	"vacation-planner/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminChat int64 = 100
	userChat  int64 = 200
)

type fakeSender struct {
	mu       sync.Mutex
	messages []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.messages = append(f.messages, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// textsFor returns the texts sent to a chat and forgets them.
func (f *fakeSender) textsFor(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	var rest []tgbotapi.MessageConfig
	for _, m := range f.messages {
		if m.ChatID == chatID {
			texts = append(texts, m.Text)
		} else {
			rest = append(rest, m)
		}
	}
	f.messages = rest
	return texts
}

func (f *fakeSender) last(chatID int64) string {
	texts := f.textsFor(chatID)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type staticHolidays []models.NationalHoliday

func (s staticHolidays) GetHolidays(_ context.Context, year int, _ string) ([]models.NationalHoliday, error) {
	var out []models.NationalHoliday
	for _, h := range s {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

type testBot struct {
	t        *testing.T
	handler  *Handler
	sender   *fakeSender
	users    *service.UserService
	vacation *service.VacationRequestService
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	ctx := context.Background()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	userRepo, err := repository.NewGormUserRepository(db)
	require.NoError(t, err)
	requestRepo, err := repository.NewGormVacationRequestRepository(db)
	require.NoError(t, err)

	holidays := staticHolidays{{CountryCode: "US", Date: time.Date(2022, 1, 17, 0, 0, 0, 0, time.UTC), Name: "MLK Day"}}
	users := service.NewUserService(userRepo, nil)
	vacation := service.NewVacationRequestService(userRepo, holidays, requestRepo, nil)

	_, err = users.CreateUser(ctx, service.RegisterUserInput{
		FirstName: "Madalin", Username: "admin", Password: "adminpass", CountryCode: "RO", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	_, err = users.LinkChat(ctx, "admin", "adminpass", adminChat)
	require.NoError(t, err)

	sender := &fakeSender{}
	return &testBot{
		t:        t,
		handler:  NewHandler(sender, users, vacation, nil),
		sender:   sender,
		users:    users,
		vacation: vacation,
	}
}

func (b *testBot) addUser(username string, days int, chatID int64) {
	b.t.Helper()
	ctx := context.Background()
	_, err := b.users.CreateUser(ctx, service.RegisterUserInput{
		FirstName: "John", LastName: "Doe", Username: username, Password: "password",
		CountryCode: "US", StartWorkingHour: 9, EndWorkingHour: 17, AvailableVacationDaysPerYear: days,
	})
	require.NoError(b.t, err)
	if chatID != 0 {
		_, err = b.users.LinkChat(ctx, username, "password", chatID)
		require.NoError(b.t, err)
	}
}

func textMessage(chatID int64, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: chatID, UserName: "tg_user", FirstName: "Tele"},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		command, _, _ := strings.Cut(text, " ")
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}}
	}
	return msg
}

func (b *testBot) say(chatID int64, text string) {
	b.handler.handleMessage(context.Background(), textMessage(chatID, text))
}

func (b *testBot) press(chatID int64, data string) {
	b.handler.handleCallbackQuery(context.Background(), &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: chatID}},
	})
}

func TestHandleUpdates_DispatchesUntilClosed(t *testing.T) {
	b := newTestBot(t)

	updates := make(chan tgbotapi.Update, 3)
	updates <- tgbotapi.Update{Message: textMessage(userChat, "/start")}
	updates <- tgbotapi.Update{}
	updates <- tgbotapi.Update{Message: textMessage(userChat, "/nope")}
	close(updates)

	b.handler.HandleUpdates(context.Background(), updates)

	texts := b.sender.textsFor(userChat)
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Welcome")
	assert.Contains(t, texts[1], "Unknown command")
}

func TestHandleUpdates_StopsOnContextCancel(t *testing.T) {
	b := newTestBot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		b.handler.HandleUpdates(ctx, make(chan tgbotapi.Update))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("HandleUpdates did not return after cancel")
	}
}

func TestRegistrationFlow(t *testing.T) {
	b := newTestBot(t)

	b.say(userChat, "/register")
	assert.Contains(t, b.sender.last(userChat), "@tg_user")

	b.say(userChat, "johndoe")
	b.say(userChat, "123")
	assert.Contains(t, b.sender.last(userChat), "at least 6")
	b.say(userChat, "secret1")
	b.say(userChat, "-")
	b.say(userChat, "Doe")
	b.say(userChat, "usa")
	assert.Contains(t, b.sender.last(userChat), "two letter")
	b.say(userChat, "us")
	b.say(userChat, "-")

	assert.Contains(t, b.sender.last(userChat), "Registration complete")
	assert.NotContains(t, b.handler.registrations, userChat)

	user, err := b.users.GetByChatID(context.Background(), userChat)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "johndoe", user.Username)
	assert.Equal(t, "Tele", user.FirstName)
	assert.Equal(t, "US", user.CountryCode)
	assert.Equal(t, models.DefaultVacationDaysPerYear, user.AvailableVacationDaysPerYear)

	// The password message is deleted.
	var deleted bool
	for _, r := range b.sender.requests {
		if _, ok := r.(tgbotapi.DeleteMessageConfig); ok {
			deleted = true
		}
	}
	assert.True(t, deleted)
}

func TestRegistration_Cancel(t *testing.T) {
	b := newTestBot(t)

	b.say(userChat, "/register")
	b.say(userChat, "/cancel")
	assert.Contains(t, b.sender.last(userChat), "cancelled")

	b.say(userChat, "hello")
	assert.Contains(t, b.sender.last(userChat), "/help")
}

func TestRegistration_UsernameTaken(t *testing.T) {
	b := newTestBot(t)

	b.say(userChat, "/register")
	for _, answer := range []string{"admin", "secret1", "-", "-", "RO", "10"} {
		b.say(userChat, answer)
	}
	assert.Contains(t, b.sender.last(userChat), "already taken")
}

func TestLinkAndProfile(t *testing.T) {
	b := newTestBot(t)
	b.addUser("johndoe", 25, 0)

	b.say(userChat, "/myprofile")
	assert.Contains(t, b.sender.last(userChat), "not linked")

	b.say(userChat, "/link johndoe wrong")
	assert.Contains(t, b.sender.last(userChat), "Wrong username or password")

	b.say(userChat, "/link johndoe password")
	assert.Contains(t, b.sender.last(userChat), "linked to @johndoe")

	b.say(userChat, "/myprofile")
	assert.Contains(t, b.sender.last(userChat), "Username: johndoe")

	b.say(userChat, "/unlink")
	assert.Contains(t, b.sender.last(userChat), "unlinked")
	b.say(userChat, "/unlink")
	assert.Contains(t, b.sender.last(userChat), "not linked")
}

func TestVacationApprovalFlow(t *testing.T) {
	b := newTestBot(t)
	b.addUser("johndoe", 25, userChat)
	ctx := context.Background()

	b.say(userChat, "/vacation 03.01.2022 07.01.2022 Team trip")
	created := b.sender.last(userChat)
	assert.Contains(t, created, "waiting for approval")
	assert.Contains(t, created, "07.01.2022")
	assert.NotContains(t, created, "adjusted")
	assert.Contains(t, b.sender.last(adminChat), "New vacation request")

	requests, err := b.vacation.GetVacationRequests(ctx, "johndoe")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	id := requests[0].ID

	b.say(userChat, "/pending")
	assert.Contains(t, b.sender.last(userChat), "Access denied")

	b.say(adminChat, "/pending")
	b.sender.mu.Lock()
	var buttons *tgbotapi.InlineKeyboardMarkup
	for _, m := range b.sender.messages {
		if markup, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); ok && m.ChatID == adminChat {
			buttons = &markup
		}
	}
	b.sender.mu.Unlock()
	require.NotNil(t, buttons)
	require.NotNil(t, buttons.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, callbackApprove+id.String(), *buttons.InlineKeyboard[0][0].CallbackData)
	b.sender.textsFor(adminChat)

	b.press(adminChat, callbackApprove+id.String())
	assert.Contains(t, b.sender.last(adminChat), "Approved")
	assert.Contains(t, b.sender.last(userChat), "was updated")

	request, err := b.vacation.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, request.Status)

	b.say(adminChat, "/reject "+id.String())
	request, err = b.vacation.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, request.Status)
}

func TestVacation_Adjusted(t *testing.T) {
	b := newTestBot(t)
	b.addUser("johndoe", 5, userChat)

	b.say(userChat, "/vacation 03.01.2022 14.01.2022")
	text := b.sender.last(userChat)
	assert.Contains(t, text, "09.01.2022")
	assert.Contains(t, text, "adjusted from 14.01.2022")
}

func TestVacation_Rejected(t *testing.T) {
	b := newTestBot(t)
	b.addUser("johndoe", 25, userChat)

	b.say(userChat, "/vacation 03.01.2022 03.01.2022")
	assert.Contains(t, b.sender.last(userChat), "must differ")

	b.say(userChat, "/vacation 10.01.2022 03.01.2022")
	assert.Contains(t, b.sender.last(userChat), "before start")

	b.say(userChat, "/vacation tomorrow")
	assert.Contains(t, b.sender.last(userChat), "Usage")
}

func TestEditAndCancelVacation(t *testing.T) {
	b := newTestBot(t)
	b.addUser("johndoe", 25, userChat)
	b.addUser("janedoe", 25, 300)
	ctx := context.Background()

	id, err := b.vacation.CreateVacationRequest(ctx, "johndoe", time.Date(2023, 3, 6, 0, 0, 0, 0, time.UTC), time.Date(2023, 3, 8, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	b.say(300, "/cancelvacation "+id.String())
	assert.Contains(t, b.sender.last(300), "not found")

	b.say(userChat, "/editvacation "+id.String()+" 2023-04-03 2023-04-06 moved")
	assert.Contains(t, b.sender.last(userChat), "updated")

	request, err := b.vacation.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 4, 6, 0, 0, 0, 0, time.UTC), request.EndDate.UTC())
	assert.Equal(t, "moved", request.Comment)
	assert.Equal(t, models.StatusPending, request.Status)

	b.say(userChat, "/myvacations")
	assert.Contains(t, b.sender.last(userChat), "03.04.2023 - 06.04.2023")

	b.say(userChat, "/cancelvacation "+id.String())
	assert.Contains(t, b.sender.last(userChat), "deleted")

	b.say(userChat, "/myvacations")
	assert.Contains(t, b.sender.last(userChat), "no vacation requests")
}

func TestHolidaysAndAvailable(t *testing.T) {
	b := newTestBot(t)
	b.addUser("johndoe", 25, userChat)

	b.say(userChat, "/holidays 2022")
	assert.Contains(t, b.sender.last(userChat), "17.01.2022 - MLK Day")

	b.say(userChat, "/holidays 2021")
	assert.Contains(t, b.sender.last(userChat), "No holidays")

	b.say(userChat, "/holidays soon")
	assert.Contains(t, b.sender.last(userChat), "Usage")

	// 10 days, 2 weekend days, MLK day: 25 - 7.
	b.say(userChat, "/available 10.01.2022 19.01.2022")
	assert.Contains(t, b.sender.last(userChat), "leaves you 18 vacation days")

	b.say(userChat, "/available")
	assert.Contains(t, b.sender.last(userChat), "25 of 25")
}

func TestAdminCommands(t *testing.T) {
	b := newTestBot(t)
	b.addUser("johndoe", 25, userChat)

	b.say(adminChat, "/stats")
	stats := b.sender.last(adminChat)
	assert.Contains(t, stats, "Users: 2")
	assert.Contains(t, stats, "Administrators: 1")

	b.say(adminChat, "/promote @johndoe")
	assert.Contains(t, b.sender.last(adminChat), "now Admin")

	b.say(adminChat, "/admins")
	assert.Contains(t, b.sender.last(adminChat), "@johndoe")

	b.say(userChat, "/demote admin")
	assert.Contains(t, b.sender.last(userChat), "now User")

	b.say(adminChat, "/allusers")
	assert.Contains(t, b.sender.last(adminChat), "Access denied")

	b.say(userChat, "/promote ghost")
	assert.Contains(t, b.sender.last(userChat), "not found")
}

func TestDeleteProfile(t *testing.T) {
	b := newTestBot(t)
	b.addUser("johndoe", 25, userChat)

	b.say(userChat, "/deleteprofile")
	assert.Contains(t, b.sender.last(userChat), "Delete account @johndoe")

	b.press(userChat, callbackCancelDelete)
	assert.Contains(t, b.sender.last(userChat), "cancelled")

	b.press(userChat, callbackConfirmDelete)
	assert.Contains(t, b.sender.last(userChat), "deleted")

	user, err := b.users.GetByUsername(context.Background(), "johndoe")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	want := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{"14.07.2026", "2026-07-14", "14-07-2026", "14.07"} {
		got, err := parseDate(value, now)
		require.NoError(t, err, value)
		assert.True(t, want.Equal(got), value)
	}

	_, err := parseDate("July 14", now)
	assert.Error(t, err)
}
