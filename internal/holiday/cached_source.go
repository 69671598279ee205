package holiday

import (
	"context"

	"vacation-planner/internal/metrics"
	"vacation-planner/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// CachedSource looks a calendar up in each cache in order before asking upstream.
// Cache failures are logged and skipped.
type CachedSource struct {
	upstream Source
	caches   []Cache
	sf       *singleflight.Group
	log      logrus.FieldLogger
}

func NewCachedSource(upstream Source, log logrus.FieldLogger, caches ...Cache) *CachedSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CachedSource{
		upstream: upstream,
		caches:   caches,
		sf:       &singleflight.Group{},
		log:      log,
	}
}

func (s *CachedSource) GetHolidays(ctx context.Context, year int, countryCode string) ([]models.NationalHoliday, error) {
	logger := s.log.WithFields(logrus.Fields{"country": countryCode, "year": year})

	for i, cache := range s.caches {
		holidays, ok, err := cache.Get(ctx, countryCode, year)
		if err != nil {
			logger.WithError(err).Warnf("Holiday cache %s read failed", cache.Name())
			metrics.ObserveHolidayFetch(cache.Name(), "error")
			continue
		}
		if !ok {
			metrics.ObserveHolidayFetch(cache.Name(), "miss")
			continue
		}
		metrics.ObserveHolidayFetch(cache.Name(), "hit")
		s.fill(ctx, logger, s.caches[:i], countryCode, year, holidays)
		return holidays, nil
	}

	v, err, _ := s.sf.Do(CacheKey(countryCode, year), func() (interface{}, error) {
		holidays, err := s.upstream.GetHolidays(ctx, year, countryCode)
		if err != nil {
			metrics.ObserveHolidayFetch("upstream", "error")
			return nil, err
		}
		metrics.ObserveHolidayFetch("upstream", "ok")
		logger.Infof("Fetched %d holidays from upstream", len(holidays))

		s.fill(ctx, logger, s.caches, countryCode, year, holidays)
		return holidays, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.NationalHoliday), nil
}

func (s *CachedSource) fill(ctx context.Context, logger logrus.FieldLogger, caches []Cache, countryCode string, year int, holidays []models.NationalHoliday) {
	for _, cache := range caches {
		if err := cache.Set(ctx, countryCode, year, holidays); err != nil {
			logger.WithError(err).Warnf("Holiday cache %s write failed", cache.Name())
		}
	}
}
