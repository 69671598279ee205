package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vacation-planner/internal/auth"
	"vacation-planner/internal/models"
	"vacation-planner/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type RegisterUserInput struct {
	FirstName                    string
	LastName                     string
	Username                     string
	Password                     string
	CountryCode                  string
	Role                         string
	StartWorkingHour             int
	EndWorkingHour               int
	AvailableVacationDaysPerYear int
}

func (in RegisterUserInput) validate() error {
	var problems []string
	if strings.TrimSpace(in.Username) == "" {
		problems = append(problems, "username is required")
	}
	if in.Password == "" {
		problems = append(problems, "password is required")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		problems = append(problems, "first name is required")
	}
	if len(in.CountryCode) != 2 {
		problems = append(problems, "country code must have two letters")
	}
	if in.Role != "" && in.Role != models.RoleUser && in.Role != models.RoleAdmin {
		problems = append(problems, fmt.Sprintf("unknown role %q", in.Role))
	}
	if in.StartWorkingHour < 0 || in.StartWorkingHour > 23 || in.EndWorkingHour < 0 || in.EndWorkingHour > 23 {
		problems = append(problems, "working hours must be between 0 and 23")
	}
	if in.AvailableVacationDaysPerYear < 0 {
		problems = append(problems, "vacation days cannot be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidUserInput, strings.Join(problems, "; "))
	}
	return nil
}

type UserService struct {
	repo   repository.UserRepository
	logger logrus.FieldLogger
}

func NewUserService(repo repository.UserRepository, logger logrus.FieldLogger) *UserService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserService{repo: repo, logger: logger}
}

// CreateUser registers a new user with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, in RegisterUserInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		s.logger.WithField("username", in.Username).Error("A user with the same username already exists")
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		FirstName:                    in.FirstName,
		LastName:                     in.LastName,
		Username:                     in.Username,
		PasswordHash:                 hash,
		CountryCode:                  strings.ToUpper(in.CountryCode),
		Role:                         role,
		StartWorkingHour:             in.StartWorkingHour,
		EndWorkingHour:               in.EndWorkingHour,
		AvailableVacationDaysPerYear: in.AvailableVacationDaysPerYear,
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"username": user.Username, "role": user.Role}).Info("User created")
	return user, nil
}

// Authenticate checks the password and returns the user.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	return s.repo.GetByChatID(ctx, chatID)
}

func (s *UserService) GetAll(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserService) Save(ctx context.Context, user *models.User) error {
	return s.repo.Save(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, user *models.User) error {
	return s.repo.Delete(ctx, user)
}

// DeleteWithPassword removes the account after confirming its password.
func (s *UserService) DeleteWithPassword(ctx context.Context, username, password string) error {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.WithField("username", username).Info("User deleted")
	return nil
}

// LinkChat binds a Telegram chat to the account once the password checks out.
func (s *UserService) LinkChat(ctx context.Context, username, password string, chatID int64) (*models.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if linked, err := s.repo.GetByChatID(ctx, chatID); err != nil {
		return nil, err
	} else if linked != nil && linked.ID != user.ID {
		linked.ChatID = nil
		if err := s.repo.Save(ctx, linked); err != nil {
			return nil, fmt.Errorf("failed to unlink previous account: %w", err)
		}
	}

	user.ChatID = &chatID
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to link chat: %w", err)
	}
	return user, nil
}

func (s *UserService) UnlinkChat(ctx context.Context, chatID int64) error {
	user, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	user.ChatID = nil
	return s.repo.Save(ctx, user)
}

func (s *UserService) IsAdmin(ctx context.Context, chatID int64) (bool, error) {
	user, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsAdmin(), nil
}

// InitializeAdmin makes the configured chat an administrator.
func (s *UserService) InitializeAdmin(ctx context.Context, adminChatID int64) error {
	if adminChatID == 0 {
		return nil
	}

	user, err := s.repo.GetByChatID(ctx, adminChatID)
	if err != nil {
		return err
	}
	if user == nil {
		if user, err = s.repo.GetByUsername(ctx, "admin"); err != nil {
			return err
		}
	}
	if user == nil {
		user = &models.User{
			Username:    "admin",
			FirstName:   "Administrator",
			CountryCode: "US",
		}
	}

	user.ChatID = &adminChatID
	user.Role = models.RoleAdmin
	return s.repo.Save(ctx, user)
}

func (s *UserService) SetRole(ctx context.Context, username, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUserInput, role)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	user.Role = role
	return s.repo.Save(ctx, user)
}

func (s *UserService) GetStats(ctx context.Context) (int, int, error) {
	return s.repo.GetStats(ctx)
}

func roleEmoji(user *models.User) string {
	if user.IsAdmin() {
		return "👑"
	}
	return "👤"
}

func (s *UserService) FormatUserInfo(user *models.User) string {
	var lines []string

	lines = append(lines, "👤 Profile:")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("📛 Username: %s", user.Username))
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	lines = append(lines, fmt.Sprintf("👨‍💼 Name: %s", name))
	lines = append(lines, fmt.Sprintf("🌍 Country: %s", user.CountryCode))
	lines = append(lines, fmt.Sprintf("🕘 Working hours: %02d:00-%02d:00", user.StartWorkingHour, user.EndWorkingHour))
	lines = append(lines, fmt.Sprintf("🏖 Vacation days per year: %d", user.AvailableVacationDaysPerYear))
	lines = append(lines, fmt.Sprintf("%s Role: %s", roleEmoji(user), user.Role))

	return strings.Join(lines, "\n")
}

func (s *UserService) FormatAllUsers(ctx context.Context) (string, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "📭 No users yet.", nil
	}

	var lines []string
	lines = append(lines, "📋 All users:")
	lines = append(lines, "")

	admins := 0
	for i, user := range users {
		if user.IsAdmin() {
			admins++
		}
		info := fmt.Sprintf("%d. %s %s (@%s) %s", i+1, roleEmoji(user),
			strings.TrimSpace(user.FirstName+" "+user.LastName), user.Username, user.CountryCode)
		if user.ChatID != nil {
			info += " 💬"
		}
		lines = append(lines, info)
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("📊 Total users: %d", len(users)))
	lines = append(lines, fmt.Sprintf("👑 Admins: %d", admins))

	return strings.Join(lines, "\n"), nil
}

func (s *UserService) GetAdmins(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAdmins(ctx)
}
