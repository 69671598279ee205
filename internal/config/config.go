package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	TelegramToken   string
	TelegramDebug   bool
	BaseAdminChatID int64

	DatabaseDriver string
	DatabaseURL    string

	HTTPAddr    string
	CORSOrigins []string
	JWTSecret   string
	JWTTTL      time.Duration

	LoginRatePerSec float64
	LoginBurst      int

	CalendarificAPIKey  string
	CalendarificBaseURL string
	HolidaysDir         string
	RedisURL            string
	HolidayCacheTTL     time.Duration

	LogLevel     string
	SeedDemoData bool
}

var instance *Config
var once sync.Once

// GetConfig loads the configuration once and exits the process when it is invalid.
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Infof("no .env file loaded: %s", err.Error())
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("invalid configuration: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramDebug:   getEnvAsBool("TELEGRAM_DEBUG", false),
		BaseAdminChatID: getEnvAsInt("BASE_ADMIN_CHAT_ID", 0),

		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:    getEnv("DATABASE_URL", "vacations.db"),

		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTTTL:      getEnvAsDuration("JWT_TTL", 24*time.Hour),

		LoginRatePerSec: getEnvAsFloat("LOGIN_RATE_PER_SEC", 1),
		LoginBurst:      int(getEnvAsInt("LOGIN_BURST", 5)),

		CalendarificAPIKey:  getEnv("CALENDARIFIC_API_KEY", ""),
		CalendarificBaseURL: getEnv("CALENDARIFIC_BASE_URL", ""),
		HolidaysDir:         getEnv("HOLIDAYS_DIR", "holidays"),
		RedisURL:            getEnv("REDIS_URL", ""),
		HolidayCacheTTL:     getEnvAsDuration("HOLIDAY_CACHE_TTL", 24*time.Hour),

		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SeedDemoData: getEnvAsBool("SEED_DEMO_DATA", false),
	}

	if cfg.DatabaseDriver != "sqlite" && cfg.DatabaseDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("could not get db url")
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// ConfigureLogger applies LOG_LEVEL to the standard logrus logger.
func (c *Config) ConfigureLogger() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsFloat(name string, defaultVal float64) float64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(name, "")
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsList(name string, defaultVal []string) []string {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}

	var list []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
