package api

import (
	"context"
	"net/http"
	"time"

	"vacation-planner/internal/auth"
	"vacation-planner/internal/models"
	"vacation-planner/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type UserService interface {
	CreateUser(ctx context.Context, in service.RegisterUserInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	DeleteWithPassword(ctx context.Context, username, password string) error
}

type VacationService interface {
	CalculateAvailableVacationDaysInDateRange(ctx context.Context, username string, start, end time.Time) int
	CreateVacationRequest(ctx context.Context, username string, start, end time.Time, comment string) (uuid.UUID, error)
	ModifyVacationRequest(ctx context.Context, username string, id uuid.UUID, start, end time.Time, status models.Status, comment string) (bool, error)
	ChangeVacationRequestStatus(ctx context.Context, username string, id uuid.UUID, status models.Status) (bool, error)
	DeleteVacationRequest(ctx context.Context, username string, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.VacationRequest, error)
	GetAll(ctx context.Context) ([]models.VacationRequest, error)
	GetByUsername(ctx context.Context, username string) ([]models.VacationRequest, error)
	AvailableVacationDaysForYear(ctx context.Context, username string, year int) (int, bool, error)
	Holidays(ctx context.Context, username string, year int) ([]models.NationalHoliday, error)
}

type Options struct {
	CORSOrigins     []string
	LoginRatePerSec float64
	LoginBurst      int
	Logger          logrus.FieldLogger
}

type Handler struct {
	users     UserService
	vacations VacationService
	tokens    *auth.TokenManager
	logger    logrus.FieldLogger
}

func NewRouter(users UserService, vacations VacationService, tokens *auth.TokenManager, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.LoginRatePerSec <= 0 {
		opts.LoginRatePerSec = 1
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 5
	}

	h := &Handler{users: users, vacations: vacations, tokens: tokens, logger: opts.Logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(opts.Logger), httpMetrics())
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) { success(c, http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", rateLimitByIP(rate.Limit(opts.LoginRatePerSec), opts.LoginBurst), h.login)
	authGroup.GET("/check", requireAuth(tokens), h.check)

	protected := apiGroup.Group("", requireAuth(tokens))

	userRoutes := protected.Group("/users")
	userRoutes.GET("", requireRole(models.RoleAdmin), h.listUsers)
	userRoutes.GET("/:username", h.getUser)
	userRoutes.DELETE("/:username", h.deleteUser)
	userRoutes.GET("/:username/vacation-requests", h.userVacationRequests)
	userRoutes.GET("/:username/vacation-days", h.userVacationDays)
	userRoutes.GET("/:username/available-days", h.userAvailableDays)

	protected.GET("/holidays", h.holidays)

	requestRoutes := protected.Group("/vacation-requests")
	requestRoutes.GET("", requireRole(models.RoleAdmin), h.listVacationRequests)
	requestRoutes.POST("", h.createVacationRequest)
	requestRoutes.GET("/:id", h.getVacationRequest)
	requestRoutes.PUT("/:id", h.updateVacationRequest)
	requestRoutes.DELETE("/:id", h.deleteVacationRequest)
	requestRoutes.PUT("/:id/approve", requireRole(models.RoleAdmin), h.setStatus(models.StatusApproved))
	requestRoutes.PUT("/:id/reject", requireRole(models.RoleAdmin), h.setStatus(models.StatusRejected))

	return r
}
