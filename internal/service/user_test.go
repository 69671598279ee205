package service

import (
	"context"
	"testing"

	"vacation-planner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput(username string) RegisterUserInput {
	return RegisterUserInput{
		FirstName:        "John",
		LastName:         "Doe",
		Username:         username,
		Password:         "password",
		CountryCode:      "us",
		StartWorkingHour: 9,
		EndWorkingHour:   17,
	}
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), nil)

	user, err := svc.CreateUser(ctx, registerInput("johndoe"))
	require.NoError(t, err)
	assert.Equal(t, "US", user.CountryCode)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "password", user.PasswordHash)

	_, err = svc.CreateUser(ctx, registerInput("johndoe"))
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserService_CreateUser_Validation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)

	tests := []struct {
		name   string
		mutate func(*RegisterUserInput)
	}{
		{"empty username", func(in *RegisterUserInput) { in.Username = " " }},
		{"empty password", func(in *RegisterUserInput) { in.Password = "" }},
		{"long country", func(in *RegisterUserInput) { in.CountryCode = "USA" }},
		{"bad role", func(in *RegisterUserInput) { in.Role = "Root" }},
		{"bad hours", func(in *RegisterUserInput) { in.EndWorkingHour = 24 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := registerInput("johndoe")
			tt.mutate(&in)
			_, err := svc.CreateUser(context.Background(), in)
			assert.ErrorIs(t, err, ErrInvalidUserInput)
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), nil)
	_, err := svc.CreateUser(ctx, registerInput("johndoe"))
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "johndoe", "password")
	require.NoError(t, err)
	assert.Equal(t, "johndoe", user.Username)

	_, err = svc.Authenticate(ctx, "johndoe", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "ghost", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_DeleteWithPassword(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	_, err := svc.CreateUser(ctx, registerInput("johndoe"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteWithPassword(ctx, "johndoe", "nope"), ErrInvalidCredentials)
	require.NoError(t, svc.DeleteWithPassword(ctx, "johndoe", "password"))

	user, err := svc.GetByUsername(ctx, "johndoe")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserService_LinkChat(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), nil)
	_, err := svc.CreateUser(ctx, registerInput("johndoe"))
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, registerInput("janedoe"))
	require.NoError(t, err)

	_, err = svc.LinkChat(ctx, "johndoe", "password", 100)
	require.NoError(t, err)

	// Relinking the chat moves it to the other account.
	_, err = svc.LinkChat(ctx, "janedoe", "password", 100)
	require.NoError(t, err)

	linked, err := svc.GetByChatID(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, linked)
	assert.Equal(t, "janedoe", linked.Username)

	john, err := svc.GetByUsername(ctx, "johndoe")
	require.NoError(t, err)
	assert.Nil(t, john.ChatID)

	require.NoError(t, svc.UnlinkChat(ctx, 100))
	assert.ErrorIs(t, svc.UnlinkChat(ctx, 100), ErrUserNotFound)
}

func TestUserService_InitializeAdmin(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), nil)

	require.NoError(t, svc.InitializeAdmin(ctx, 0))
	total, _, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, svc.InitializeAdmin(ctx, 555))
	isAdmin, err := svc.IsAdmin(ctx, 555)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	require.NoError(t, svc.InitializeAdmin(ctx, 555))
	total, admins, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, admins)
}

func TestUserService_SetRole(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), nil)
	_, err := svc.CreateUser(ctx, registerInput("johndoe"))
	require.NoError(t, err)

	require.NoError(t, svc.SetRole(ctx, "johndoe", models.RoleAdmin))
	user, err := svc.GetByUsername(ctx, "johndoe")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	assert.ErrorIs(t, svc.SetRole(ctx, "johndoe", "Owner"), ErrInvalidUserInput)
	assert.ErrorIs(t, svc.SetRole(ctx, "ghost", models.RoleUser), ErrUserNotFound)
}

func TestUserService_Format(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), nil)

	empty, err := svc.FormatAllUsers(ctx)
	require.NoError(t, err)
	assert.Contains(t, empty, "No users")

	user, err := svc.CreateUser(ctx, registerInput("johndoe"))
	require.NoError(t, err)

	info := svc.FormatUserInfo(user)
	assert.Contains(t, info, "johndoe")
	assert.Contains(t, info, "09:00-17:00")

	all, err := svc.FormatAllUsers(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, "1. 👤 John Doe (@johndoe) US")
	assert.Contains(t, all, "Total users: 1")
}

func TestSeedDemoData(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)
	engine, store := newEngine(repo, &fakeHolidays{})

	require.NoError(t, svc.SeedDemoData(ctx, engine))

	total, admins, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, admins)
	assert.Len(t, store.requests, 5)

	john, err := engine.GetByUsername(ctx, "johndoe")
	require.NoError(t, err)
	require.Len(t, john, 3)
	assert.Equal(t, "Summer holiday vacation", john[2].Comment)

	require.NoError(t, svc.SeedDemoData(ctx, engine))
	assert.Len(t, store.requests, 5)
}
