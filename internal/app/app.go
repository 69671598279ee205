package app

import (
	"context"
	"fmt"

	"vacation-planner/internal/config"
	"vacation-planner/internal/database"
	"vacation-planner/internal/holiday"
	"vacation-planner/internal/repository"
	"vacation-planner/internal/service"
	"vacation-planner/pkg/calendarific"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds the services shared by the bot and the HTTP API.
type App struct {
	DB              *gorm.DB
	Redis           *redis.Client
	UserService     *service.UserService
	VacationService *service.VacationRequestService
}

// New opens the database, builds the holiday source chain and the services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a := &App{DB: db}

	userRepo, err := repository.NewGormUserRepository(db)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}
	requestRepo, err := repository.NewGormVacationRequestRepository(db)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create vacation request repository: %w", err)
	}
	holidayRepo, err := repository.NewGormHolidayRepository(db)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create holiday repository: %w", err)
	}

	holidays, err := a.holidaySource(ctx, cfg, holidayRepo)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.UserService = service.NewUserService(userRepo, logrus.WithField("component", "users"))
	a.VacationService = service.NewVacationRequestService(userRepo, holidays, requestRepo,
		logrus.WithField("component", "vacations"))

	// Demo data only goes into an empty database, so it is seeded before the admin account.
	if cfg.SeedDemoData {
		if err := a.UserService.SeedDemoData(ctx, a.VacationService); err != nil {
			logrus.WithError(err).Warn("Failed to seed demo data")
		}
	}

	if cfg.BaseAdminChatID != 0 {
		if err := a.UserService.InitializeAdmin(ctx, cfg.BaseAdminChatID); err != nil {
			logrus.WithError(err).Warn("Failed to initialize admin")
		} else {
			logrus.Infof("Admin initialized with chat ID: %d", cfg.BaseAdminChatID)
		}
	}

	return a, nil
}

// holidaySource chains Calendarific (when configured) and the local calendar
// files behind the redis and database caches.
func (a *App) holidaySource(ctx context.Context, cfg *config.Config, repo repository.HolidayRepository) (holiday.Source, error) {
	log := logrus.WithField("component", "holidays")

	var upstream holiday.Source = holiday.NewFileSource(cfg.HolidaysDir)
	if cfg.CalendarificAPIKey != "" {
		client := calendarific.NewClient(cfg.CalendarificAPIKey, cfg.CalendarificBaseURL, nil)
		upstream = holiday.NewFallbackSource(holiday.NewCalendarificSource(client), upstream, log)
	} else {
		log.Info("CALENDARIFIC_API_KEY is not set, using local holiday calendars only")
	}

	var caches []holiday.Cache
	if cfg.RedisURL != "" {
		rdb, err := holiday.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.Redis = rdb
		caches = append(caches, holiday.NewRedisCache(rdb, cfg.HolidayCacheTTL))
	}
	caches = append(caches, holiday.NewRepositoryCache(repo))

	return holiday.NewCachedSource(upstream, log, caches...), nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logrus.WithError(err).Warn("Error closing redis")
		}
	}
	if err := database.Close(a.DB); err != nil {
		logrus.WithError(err).Warn("Error closing database")
	}
}
