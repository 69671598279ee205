package holiday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"vacation-planner/internal/models"
	"vacation-planner/internal/repository"

	"github.com/redis/go-redis/v9"
)

// Cache stores holiday calendars keyed by country and year.
type Cache interface {
	Get(ctx context.Context, countryCode string, year int) ([]models.NationalHoliday, bool, error)
	Set(ctx context.Context, countryCode string, year int, holidays []models.NationalHoliday) error
	Name() string
}

const keyPrefix = "holidays:"

func CacheKey(countryCode string, year int) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, strings.ToUpper(countryCode), year)
}

type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// NewRedisClient parses the URL and checks the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func (c *RedisCache) Name() string { return "redis" }

func (c *RedisCache) Get(ctx context.Context, countryCode string, year int) ([]models.NationalHoliday, bool, error) {
	cached, err := c.rdb.Get(ctx, CacheKey(countryCode, year)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var holidays []models.NationalHoliday
	if err := json.Unmarshal([]byte(cached), &holidays); err != nil {
		return nil, false, fmt.Errorf("decode cached holidays: %w", err)
	}
	return holidays, true, nil
}

func (c *RedisCache) Set(ctx context.Context, countryCode string, year int, holidays []models.NationalHoliday) error {
	data, err := json.Marshal(holidays)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, CacheKey(countryCode, year), string(data), c.ttl).Err()
}

// RepositoryCache keeps calendars in the national_holidays table.
// A year without stored rows counts as a miss.
type RepositoryCache struct {
	repo repository.HolidayRepository
}

func NewRepositoryCache(repo repository.HolidayRepository) *RepositoryCache {
	return &RepositoryCache{repo: repo}
}

func (c *RepositoryCache) Name() string { return "database" }

func (c *RepositoryCache) Get(ctx context.Context, countryCode string, year int) ([]models.NationalHoliday, bool, error) {
	holidays, err := c.repo.GetByCountryYear(ctx, countryCode, year)
	if err != nil {
		return nil, false, err
	}
	return holidays, len(holidays) > 0, nil
}

func (c *RepositoryCache) Set(ctx context.Context, countryCode string, year int, holidays []models.NationalHoliday) error {
	return c.repo.ReplaceCountryYear(ctx, countryCode, year, holidays)
}
